// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package firmware

import (
	"io"

	"github.com/marcinbor85/gohex"
)

// ReadHex reads the program from the Intel HEX data. The start address record,
// if present, becomes the entry point of the returned image.
func ReadHex(r io.Reader) (*Image, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return nil, err
	}
	entry, _ := mem.GetStartAddress()
	im := NewImage(entry)
	for _, ds := range mem.GetDataSegments() {
		im.Segments = append(im.Segments, Segment{ds.Address, ds.Data})
	}
	return im, nil
}

// WriteHex writes the ROM segments to w in the Intel HEX format.
func WriteHex(w io.Writer, segs []RomSegment) error {
	mem := gohex.NewMemory()
	for _, s := range segs {
		if err := mem.AddBinary(s.Addr, s.Data); err != nil {
			return err
		}
	}
	return mem.DumpIntelHex(w, 16)
}
