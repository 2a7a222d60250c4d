// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package firmware provides the in-memory representation of a program image
// and the loaders that read it from ELF, Intel HEX and raw binary files.
package firmware

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

var ErrOverlap = errors.New("overlapping segments")

// Segment is a loadable region of the program.
type Segment struct {
	Addr uint32 // load address
	Data []byte // segment data
}

// End returns the address of the first byte after the segment.
func (s Segment) End() uint64 {
	return uint64(s.Addr) + uint64(len(s.Data))
}

// Image is a program ready to be converted to the format expected by the boot
// ROM of the target chip.
type Image struct {
	Entry     uint32
	Segments  []Segment
	FlashMode FlashMode
	FlashSize FlashSize
	FlashFreq FlashFreq

	// Skipped contains the names of the non-loadable ELF sections found
	// between the loadable ones.
	Skipped []string
}

// NewImage returns an image with the default flash settings (DIO, 4MB, 40m).
func NewImage(entry uint32, segs ...Segment) *Image {
	return &Image{
		Entry:     entry,
		Segments:  segs,
		FlashMode: DIO,
		FlashSize: Size4MB,
		FlashFreq: Freq40M,
	}
}

// Sorted returns the non-empty segments of the image sorted by address. The
// contiguous segments are merged into one. Only the merged segments are
// copied, all others share the data with the image.
func (im *Image) Sorted() ([]Segment, error) {
	ss := make([]Segment, 0, len(im.Segments))
	for _, s := range im.Segments {
		if len(s.Data) != 0 {
			ss = append(ss, s)
		}
	}
	slices.SortStableFunc(ss, func(a, b Segment) int {
		return cmp.Compare(a.Addr, b.Addr)
	})
	out := ss[:0]
	for _, s := range ss {
		if n := len(out); n != 0 {
			last := &out[n-1]
			switch end := last.End(); {
			case uint64(s.Addr) < end:
				return nil, fmt.Errorf(
					"%w: %#x-%#x and %#x-%#x",
					ErrOverlap, last.Addr, end, s.Addr, s.End(),
				)
			case uint64(s.Addr) == end:
				data := make([]byte, 0, len(last.Data)+len(s.Data))
				data = append(data, last.Data...)
				last.Data = append(data, s.Data...)
				continue
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// Split sorts the image segments (see Sorted) and divides them into the ones
// that must be placed in Flash and the ones that must be loaded into RAM,
// according to the isFlash predicate. Both returned lists are sorted by
// address.
func (im *Image) Split(isFlash func(addr uint32) bool) (flash, ram []Segment, err error) {
	ss, err := im.Sorted()
	if err != nil {
		return nil, nil, err
	}
	for _, s := range ss {
		if isFlash(s.Addr) {
			flash = append(flash, s)
		} else {
			ram = append(ram, s)
		}
	}
	return
}
