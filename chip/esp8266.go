// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip

import (
	"iter"

	"github.com/embeddedgo/espflash/firmware"
)

var esp8266IROM = window{0x40200000, 0x40300000}

var esp8266SizeCodes = map[firmware.FlashSize]uint8{
	firmware.Size512KB: 0x00,
	firmware.Size256KB: 0x10,
	firmware.Size1MB:   0x20,
	firmware.Size2MB:   0x30,
	firmware.Size4MB:   0x40,
	firmware.Size8MB:   0x80,
	firmware.Size16MB:  0x90,
}

type esp8266 struct{}

func (esp8266) name() string { return "esp8266" }

func (esp8266) magic() (uint32, uint32) { return 0xfff0c101, 0 }

func (esp8266) spiRegisters() SPIRegisters {
	return SPIRegisters{
		base:       0x60000200,
		usr:        0x1c,
		usr1:       0x20,
		usr2:       0x24,
		w0:         0x40,
		mosiLength: none,
		misoLength: none,
	}
}

func (esp8266) addrIsFlash(addr uint32) bool {
	return esp8266IROM.contains(addr)
}

// flashSegments yields the image of the RAM segments at the Flash offset 0
// followed by the IROM segments, each at its offset from the beginning of
// the IROM window.
func (f esp8266) flashSegments(im *firmware.Image, _ *config) iter.Seq2[firmware.RomSegment, error] {
	return func(yield func(firmware.RomSegment, error) bool) {
		irom, ram, err := im.Split(f.addrIsFlash)
		if err != nil {
			yield(firmware.RomSegment{}, &SegmentError{ESP8266, 0, err})
			return
		}
		data, addr, err := f.ramImage(im, ram)
		if err != nil {
			yield(firmware.RomSegment{}, &SegmentError{ESP8266, addr, err})
			return
		}
		if !yield(firmware.RomSegment{Addr: 0, Data: data}, nil) {
			return
		}
		for _, s := range irom {
			if !esp8266IROM.holds(s) {
				yield(firmware.RomSegment{}, &SegmentError{ESP8266, s.Addr, ErrNotFlash})
				return
			}
			seg := firmware.RomSegment{Addr: s.Addr - esp8266IROM.start, Data: s.Data}
			if !yield(seg, nil) {
				return
			}
		}
	}
}

// ramImage returns the image with the segments loaded by the boot ROM into
// RAM. On error it also returns the address of the failed segment.
func (esp8266) ramImage(im *firmware.Image, ram []firmware.Segment) ([]byte, uint32, error) {
	cfg, err := flashConfig(im, esp8266SizeCodes)
	if err != nil {
		return nil, 0, err
	}
	h := &CommonHeader{
		Magic:       ESPMagic,
		FlashMode:   uint8(im.FlashMode),
		FlashConfig: cfg,
		Entry:       im.Entry,
	}
	w, err := newImageWriter(h, imageSize(ram))
	if err != nil {
		return nil, 0, err
	}
	for _, s := range ram {
		if err := w.segment(s.Addr, s.Data); err != nil {
			return nil, s.Addr, err
		}
	}
	data, err := w.finish()
	return data, 0, err
}
