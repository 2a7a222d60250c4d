// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/embeddedgo/espflash/espimg/internal/util"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "espimg",
		Short: "ESP8266/ESP32 Flash image tool",
		Long: `Espimg converts ELF and Intel HEX programs to the Flash images
expected by the boot ROM of the Espressif chips.

Examples:
  espimg image --chip esp32 app.elf        # write app_0x08000.bin, app_0x10000.bin
  espimg segments --chip esp8266 app.elf   # list the Flash segments
  espimg detect 0x00f01d83                 # name the chip by its magic value
  espimg partitions part.csv part.bin      # compile a partition table`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newImageCmd(),
		newSegmentsCmd(),
		newDetectCmd(),
		newRegsCmd(),
		newPartitionsCmd(),
	)
	return root
}

// Execute runs the espimg command line.
func Execute() {
	util.FatalErr("espimg", newRootCmd().Execute())
}
