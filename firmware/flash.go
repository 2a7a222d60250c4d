// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package firmware

import (
	"fmt"
	"strings"
)

// FlashMode is the SPI flash access mode stored in the image header.
type FlashMode uint8

const (
	QIO FlashMode = iota
	QOUT
	DIO
	DOUT
)

var flashModeNames = [...]string{QIO: "qio", QOUT: "qout", DIO: "dio", DOUT: "dout"}

func (m FlashMode) String() string {
	if int(m) < len(flashModeNames) {
		return flashModeNames[m]
	}
	return fmt.Sprintf("FlashMode(%d)", uint8(m))
}

func (m *FlashMode) Set(s string) error {
	for i, name := range flashModeNames {
		if strings.EqualFold(s, name) {
			*m = FlashMode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown flash mode %q", s)
}

func (m *FlashMode) Type() string { return "mode" }

// FlashSize is the size of the SPI flash in bytes.
type FlashSize uint32

const (
	Size256KB FlashSize = 256 << 10
	Size512KB FlashSize = 512 << 10
	Size1MB   FlashSize = 1 << 20
	Size2MB   FlashSize = 2 << 20
	Size4MB   FlashSize = 4 << 20
	Size8MB   FlashSize = 8 << 20
	Size16MB  FlashSize = 16 << 20
)

var flashSizes = []FlashSize{
	Size256KB, Size512KB, Size1MB, Size2MB, Size4MB, Size8MB, Size16MB,
}

func (z FlashSize) String() string {
	switch {
	case z >= Size1MB && z%Size1MB == 0:
		return fmt.Sprintf("%dMB", z>>20)
	case z%1024 == 0:
		return fmt.Sprintf("%dKB", z>>10)
	}
	return fmt.Sprintf("%dB", uint32(z))
}

func (z *FlashSize) Set(s string) error {
	for _, fz := range flashSizes {
		if strings.EqualFold(s, fz.String()) {
			*z = fz
			return nil
		}
	}
	return fmt.Errorf("unknown flash size %q", s)
}

func (z *FlashSize) Type() string { return "size" }

// FlashFreq is the SPI flash clock frequency code stored in the low nibble of
// the flash config byte.
type FlashFreq uint8

const (
	Freq40M FlashFreq = 0x0
	Freq26M FlashFreq = 0x1
	Freq20M FlashFreq = 0x2
	Freq80M FlashFreq = 0xf
)

var flashFreqNames = map[FlashFreq]string{
	Freq40M: "40m",
	Freq26M: "26m",
	Freq20M: "20m",
	Freq80M: "80m",
}

func (f FlashFreq) String() string {
	if name, ok := flashFreqNames[f]; ok {
		return name
	}
	return fmt.Sprintf("FlashFreq(%#x)", uint8(f))
}

func (f *FlashFreq) Set(s string) error {
	for code, name := range flashFreqNames {
		if strings.EqualFold(s, name) {
			*f = code
			return nil
		}
	}
	return fmt.Errorf("unknown flash frequency %q", s)
}

func (f *FlashFreq) Type() string { return "freq" }
