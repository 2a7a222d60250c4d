// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package firmware

import (
	"fmt"

	"github.com/snksoft/crc"
)

// RomSegment is a piece of data ready to be written to the Flash of the target
// chip at the offset Addr. Data may share the memory with the image it was
// produced from.
type RomSegment struct {
	Addr uint32
	Data []byte
}

var crcTable = crc.NewTable(crc.CRC32)

// CRC32 returns the IEEE CRC-32 checksum of the segment data.
func (s RomSegment) CRC32() uint32 {
	h := crc.NewHashWithTable(crcTable)
	h.Update(s.Data)
	return h.CRC32()
}

func (s RomSegment) String() string {
	return fmt.Sprintf("%#08x: %d bytes", s.Addr, len(s.Data))
}
