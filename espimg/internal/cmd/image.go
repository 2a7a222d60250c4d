// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/embeddedgo/espflash/espimg/internal/util"
	"github.com/embeddedgo/espflash/firmware"
)

func newImageCmd() *cobra.Command {
	var (
		opts   imageOptions
		format string
	)
	c := &cobra.Command{
		Use:   "image [flags] [ELF [OUT]]",
		Short: "Write the Flash image of a program",
		Long: `Image converts the program to the Flash segments of the selected chip.

In the bin format every segment is written to the OUT_0xADDR.bin file, where
ADDR is the Flash offset of the segment. In the hex format all segments are
written to the single OUT file. The ELF name defaults to the name of the
current directory.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ext string
			switch format {
			case "bin":
				ext = ".bin"
			case "hex":
				ext = ".hex"
			default:
				return fmt.Errorf("unknown output format %q", format)
			}
			in, out, err := util.InOutFiles(argOr(args, 0), ".elf", argOr(args, 1), ext)
			if err != nil {
				return err
			}
			im, err := opts.load(in)
			if err != nil {
				return err
			}
			segs, err := opts.segments(im)
			if err != nil {
				return err
			}
			defer segs.Close()
			w := cmd.OutOrStdout()
			if format == "hex" {
				rs, err := segs.Collect()
				if err != nil {
					return err
				}
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				if err = firmware.WriteHex(f, rs); err != nil {
					f.Close()
					return err
				}
				if err = f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(w, "%s: %d segments\n", out, len(rs))
				return nil
			}
			base := strings.TrimSuffix(out, ext)
			for segs.Next() {
				s := segs.Segment()
				name := fmt.Sprintf("%s_0x%05x.bin", base, s.Addr)
				if err := os.WriteFile(name, s.Data, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(w, "%s: %d bytes\n", name, len(s.Data))
			}
			return segs.Err()
		},
	}
	opts.addFlags(c.Flags())
	c.Flags().StringVarP(&format, "format", "f", "bin", "output format: bin, hex")
	return c
}
