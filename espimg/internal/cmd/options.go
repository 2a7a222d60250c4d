// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/embeddedgo/espflash/chip"
	"github.com/embeddedgo/espflash/espimg/internal/util"
	"github.com/embeddedgo/espflash/firmware"
	"github.com/embeddedgo/espflash/partition"
)

// imageOptions are the flags shared by the commands that build Flash images.
type imageOptions struct {
	chip       chip.Chip
	mode       firmware.FlashMode
	size       firmware.FlashSize
	freq       firmware.FlashFreq
	inc        string
	bootloader string
	partitions string
}

func (o *imageOptions) addFlags(fs *pflag.FlagSet) {
	o.chip = chip.ESP32
	o.mode = firmware.DIO
	o.size = firmware.Size4MB
	o.freq = firmware.Freq40M
	fs.VarP(&o.chip, "chip", "c", "target chip: esp8266, esp32, esp32s2")
	fs.Var(&o.mode, "flash-mode", "Flash mode: qio, qout, dio, dout")
	fs.Var(&o.size, "flash-size", "Flash size: 256KB, 512KB, 1MB, ..., 16MB")
	fs.Var(&o.freq, "flash-freq", "Flash frequency: 20m, 26m, 40m, 80m")
	fs.StringVar(
		&o.inc, "inc", "",
		"binary files to be included BIN1:ADDR1[,BIN2:ADDR2[,...]]",
	)
	fs.StringVar(
		&o.bootloader, "bootloader", "",
		"second stage bootloader binary (ESP32 family only)",
	)
	fs.StringVar(
		&o.partitions, "partition-table", "",
		"partition table in the CSV format (ESP32 family only)",
	)
}

// load reads the program from an ELF or Intel HEX file and applies the Flash
// settings.
func (o *imageOptions) load(name string) (*firmware.Image, error) {
	var (
		im  *firmware.Image
		err error
	)
	if strings.EqualFold(filepath.Ext(name), ".hex") {
		var f *os.File
		if f, err = os.Open(name); err != nil {
			return nil, err
		}
		im, err = firmware.ReadHex(f)
		f.Close()
	} else {
		im, err = firmware.ReadELF(name)
	}
	if err != nil {
		return nil, err
	}
	for _, s := range im.Skipped {
		util.Warn("readelf: skipping section '%s'", s)
	}
	if o.inc != "" {
		ss, err := firmware.ReadBins(o.inc)
		if err != nil {
			return nil, err
		}
		im.Segments = append(im.Segments, ss...)
	}
	im.FlashMode = o.mode
	im.FlashSize = o.size
	im.FlashFreq = o.freq
	return im, nil
}

// segments returns the lazy iterator over the Flash segments of im.
func (o *imageOptions) segments(im *firmware.Image) (*chip.Segments, error) {
	var opts []chip.Option
	if o.bootloader != "" {
		bin, err := os.ReadFile(o.bootloader)
		if err != nil {
			return nil, err
		}
		opts = append(opts, chip.WithBootloader(bin))
	}
	if o.partitions != "" {
		f, err := os.Open(o.partitions)
		if err != nil {
			return nil, err
		}
		t, err := partition.ParseCSV(o.partitions, f)
		f.Close()
		if err != nil {
			return nil, err
		}
		opts = append(opts, chip.WithPartitionTable(t))
	}
	return o.chip.FlashSegments(im, opts...), nil
}

func argOr(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
