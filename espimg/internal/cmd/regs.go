// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/embeddedgo/espflash/chip"
)

func newRegsCmd() *cobra.Command {
	c := chip.ESP32
	cmd := &cobra.Command{
		Use:   "regs [flags]",
		Short: "Print the magic values and SPI register addresses of the chip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			m1, m2 := c.Magic()
			r := c.SPIRegisters()
			fmt.Fprintf(w, "chip:       %s\n", c)
			fmt.Fprintf(w, "magic:      %#08x\n", m1)
			if m2 != 0 {
				fmt.Fprintf(w, "magic2:     %#08x\n", m2)
			}
			fmt.Fprintf(w, "spi_cmd:    %#08x\n", r.Cmd())
			fmt.Fprintf(w, "spi_usr:    %#08x\n", r.Usr())
			fmt.Fprintf(w, "spi_usr1:   %#08x\n", r.Usr1())
			fmt.Fprintf(w, "spi_usr2:   %#08x\n", r.Usr2())
			fmt.Fprintf(w, "spi_w0:     %#08x\n", r.W0())
			fmt.Fprintf(w, "spi_mosi:   %s\n", optReg(r.MOSILength()))
			fmt.Fprintf(w, "spi_miso:   %s\n", optReg(r.MISOLength()))
			return nil
		},
	}
	cmd.Flags().VarP(&c, "chip", "c", "chip: esp8266, esp32, esp32s2")
	return cmd
}

func optReg(addr uint32, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%#08x", addr)
}
