// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/embeddedgo/espflash/espimg/internal/util"
)

func newSegmentsCmd() *cobra.Command {
	var opts imageOptions
	c := &cobra.Command{
		Use:   "segments [flags] [ELF]",
		Short: "List the Flash segments of a program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _, err := util.InOutFiles(argOr(args, 0), ".elf", "-", "")
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
			for segs.Next() {
				s := segs.Segment()
				fmt.Fprintf(
					w, "%d: Addr: %#08x Len: %d CRC32: %#08x\n",
					segs.Count()-1, s.Addr, len(s.Data), s.CRC32(),
				)
			}
			if err := segs.Err(); err != nil {
				return fmt.Errorf("after %d segments: %w", segs.Count(), err)
			}
			return nil
		},
	}
	opts.addFlags(c.Flags())
	return c
}
