// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip

// SPIRegisters describes the memory map of the SPI flash controller.
type SPIRegisters struct {
	base       uint32
	usr        uint32
	usr1       uint32
	usr2       uint32
	w0         uint32
	mosiLength optOffset
	misoLength optOffset
}

type optOffset struct {
	off uint32
	ok  bool
}

func some(off uint32) optOffset { return optOffset{off, true} }

var none optOffset

func (r SPIRegisters) Base() uint32 { return r.base }
func (r SPIRegisters) Cmd() uint32  { return r.base }
func (r SPIRegisters) Usr() uint32  { return r.base + r.usr }
func (r SPIRegisters) Usr1() uint32 { return r.base + r.usr1 }
func (r SPIRegisters) Usr2() uint32 { return r.base + r.usr2 }
func (r SPIRegisters) W0() uint32   { return r.base + r.w0 }

// MOSILength returns the address of the MOSI bit length register. It returns
// false if the controller has no such register (the transfer length is
// configured in USR1 then).
func (r SPIRegisters) MOSILength() (uint32, bool) {
	return r.opt(r.mosiLength)
}

// MISOLength is like MOSILength but for the MISO line.
func (r SPIRegisters) MISOLength() (uint32, bool) {
	return r.opt(r.misoLength)
}

func (r SPIRegisters) opt(o optOffset) (uint32, bool) {
	if !o.ok {
		return 0, false
	}
	return r.base + o.off, true
}
