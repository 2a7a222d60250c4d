// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chip describes the supported Espressif chip families: how to
// recognize them, where their SPI flash controller lives and how to convert
// a program image to the segments expected by their boot ROM.
package chip

import (
	"fmt"
	"iter"

	"github.com/embeddedgo/espflash/firmware"
)

// Chip identifies a supported chip family.
type Chip uint8

const (
	ESP8266 Chip = iota
	ESP32
	ESP32S2

	numChips
)

// family is implemented by every supported chip family.
type family interface {
	name() string
	magic() (primary, secondary uint32)
	spiRegisters() SPIRegisters
	addrIsFlash(addr uint32) bool
	flashSegments(im *firmware.Image, cfg *config) iter.Seq2[firmware.RomSegment, error]
}

var families = [...]family{
	ESP8266: esp8266{},
	ESP32:   esp32,
	ESP32S2: esp32s2,
}

func _() {
	// An "invalid array index" compiler error signifies that the families
	// table must be updated after a change to the Chip constants.
	var x [1]struct{}
	_ = x[int(numChips)-len(families)]
}

func (c Chip) family() family {
	if c >= numChips {
		panic(fmt.Sprintf("chip: bad Chip value %d", uint8(c)))
	}
	return families[c]
}

// Chips returns all supported chip families.
func Chips() []Chip {
	cs := make([]Chip, numChips)
	for i := range cs {
		cs[i] = Chip(i)
	}
	return cs
}

// FromMagic returns the chip family that uses the given detection magic
// value. It reports false if the value matches no known family.
func FromMagic(magic uint32) (Chip, bool) {
	if magic == 0 {
		return 0, false
	}
	for c, f := range families {
		m1, m2 := f.magic()
		if magic == m1 || magic == m2 {
			return Chip(c), true
		}
	}
	return 0, false
}

// Parse returns the chip family for the given name. The names are case
// sensitive: "esp8266", "esp32", "esp32s2".
func Parse(name string) (c Chip, err error) {
	for i, f := range families {
		if f.name() == name {
			return Chip(i), nil
		}
	}
	return 0, &Error{"Parse", fmt.Errorf("%w %q", ErrUnrecognizedChip, name)}
}

func (c Chip) String() string {
	if c >= numChips {
		return fmt.Sprintf("Chip(%d)", uint8(c))
	}
	return families[c].name()
}

// Set implements the pflag.Value interface.
func (c *Chip) Set(name string) error {
	nc, err := Parse(name)
	if err != nil {
		return err
	}
	*c = nc
	return nil
}

// Type implements the pflag.Value interface.
func (c *Chip) Type() string { return "chip" }

// Magic returns the detection magic values of the chip family. The secondary
// value is zero if the family uses only one.
func (c Chip) Magic() (primary, secondary uint32) {
	return c.family().magic()
}

// SPIRegisters returns the SPI flash controller registers of the chip.
func (c Chip) SPIRegisters() SPIRegisters {
	return c.family().spiRegisters()
}

// AddrIsFlash reports whether the address lies in a Flash mapped address
// window of the chip. Segments at such addresses are written to Flash, all
// others are loaded into RAM by the boot code.
func (c Chip) AddrIsFlash(addr uint32) bool {
	return c.family().addrIsFlash(addr)
}

// FlashSegments returns the iterator over the segments that must be written
// to Flash to run the image on the chip. The segments are produced on demand.
func (c Chip) FlashSegments(im *firmware.Image, opts ...Option) *Segments {
	cfg := new(config)
	for _, o := range opts {
		o(cfg)
	}
	return &Segments{seq: c.family().flashSegments(im, cfg)}
}
