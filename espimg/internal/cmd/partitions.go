// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/embeddedgo/espflash/partition"
)

func newPartitionsCmd() *cobra.Command {
	var name string
	c := &cobra.Command{
		Use:   "partitions IN [OUT]",
		Short: "Convert the partition table between the CSV and binary forms",
		Long: `Partitions reads the partition table from the IN file. The file with
the .bin extension is read in the binary form, any other in the CSV form. The
table is written to OUT in the form selected by its extension or printed in the
CSV form if OUT is omitted. With --name only the named partition is printed.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTable(args[0])
			if err != nil {
				return err
			}
			if name != "" {
				p, ok := t.Find(name)
				if !ok {
					return fmt.Errorf("%s: no partition %q", args[0], name)
				}
				fmt.Fprintln(cmd.OutOrStdout(), p)
				return nil
			}
			if len(args) == 1 {
				return partition.WriteCSV(cmd.OutOrStdout(), t)
			}
			out := args[1]
			if !isBin(out) {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				if err = partition.WriteCSV(f, t); err != nil {
					f.Close()
					return err
				}
				return f.Close()
			}
			data, err := t.MarshalBinary()
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d partitions\n", out, len(t.Partitions))
			return nil
		},
	}
	c.Flags().StringVarP(&name, "name", "n", "", "print only the partition with this name")
	return c
}

func isBin(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".bin")
}

func readTable(name string) (*partition.Table, error) {
	if isBin(name) {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		t := new(partition.Table)
		if err := t.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		return t, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return partition.ParseCSV(name, f)
}
