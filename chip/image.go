// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip

import (
	"fmt"

	"github.com/embeddedgo/espflash/firmware"
)

const (
	espChecksumMagic = 0xef
	maxSegmentSize   = 1 << 24
	maxSegments      = 255
)

// window is the [start, end) range of the address space.
type window struct {
	start, end uint32
}

func (w window) contains(addr uint32) bool {
	return w.start <= addr && addr < w.end
}

// holds reports whether the whole segment lies in the window.
func (w window) holds(s firmware.Segment) bool {
	return w.contains(s.Addr) && s.End() <= uint64(w.end)
}

// imageWriter builds a firmware image in the format read by the boot ROM.
type imageWriter struct {
	buf      []byte
	checksum byte
	count    int
}

func newImageWriter(h *CommonHeader, size int) (*imageWriter, error) {
	w := &imageWriter{
		buf:      make([]byte, 0, size),
		checksum: espChecksumMagic,
	}
	var err error
	w.buf, err = h.AppendBinary(w.buf)
	return w, err
}

// segment writes the segment header followed by the data padded with zeros
// to the multiple of 4 bytes.
func (w *imageWriter) segment(addr uint32, data []byte) error {
	if len(data) >= maxSegmentSize {
		return fmt.Errorf("%w: %d bytes", ErrSegmentTooLarge, len(data))
	}
	pad := -len(data) & 3
	sh := SegmentHeader{addr, uint32(len(data) + pad)}
	var err error
	if w.buf, err = sh.AppendBinary(w.buf); err != nil {
		return err
	}
	w.buf = append(w.buf, data...)
	w.buf = append(w.buf, make([]byte, pad)...)
	for _, b := range data {
		w.checksum ^= b
	}
	w.count++
	return nil
}

// finish pads the image to the 16 byte boundary, writes the checksum byte and
// stores the number of segments in the common header.
func (w *imageWriter) finish() ([]byte, error) {
	if w.count > maxSegments {
		return nil, fmt.Errorf("%w: %d", ErrTooManySegments, w.count)
	}
	w.buf = append(w.buf, make([]byte, 15-len(w.buf)%16)...)
	w.buf = append(w.buf, w.checksum)
	w.buf[1] = byte(w.count)
	return w.buf, nil
}

func imageSize(ss []firmware.Segment) int {
	n := CommonHeaderSize + ExtendedHeaderSize + 16
	for _, s := range ss {
		n += SegmentHeaderSize + len(s.Data) + 3
	}
	return n
}

// flashConfig returns the flash config header byte for the image.
func flashConfig(im *firmware.Image, sizeCodes map[firmware.FlashSize]uint8) (uint8, error) {
	code, ok := sizeCodes[im.FlashSize]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedFlashSize, im.FlashSize)
	}
	return code | uint8(im.FlashFreq)&0x0f, nil
}
