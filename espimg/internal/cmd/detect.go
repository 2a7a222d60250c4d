// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/embeddedgo/espflash/chip"
)

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect MAGIC",
		Short: "Identify the chip by the value of its magic register",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			magic, err := strconv.ParseUint(args[0], 0, 32)
			if err != nil {
				return fmt.Errorf("bad magic value: %w", err)
			}
			c, ok := chip.FromMagic(uint32(magic))
			if !ok {
				return fmt.Errorf("%w: magic %#08x", chip.ErrUnrecognizedChip, magic)
			}
			fmt.Fprintln(cmd.OutOrStdout(), c)
			return nil
		},
	}
}
