// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package partition

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"fmt"
)

const (
	entryMagic = 0x50aa // 0xaa, 0x50 in the Flash
	md5Magic   = 0xebeb
)

type entry struct {
	Magic   uint16
	Type    uint8
	SubType uint8
	Offset  uint32
	Size    uint32
	Name    [16]byte
	Flags   uint32
}

// MarshalBinary validates the table and returns its binary form, TableSize
// bytes long: the entries followed by the MD5 entry and 0xff padding.
func (t *Table) MarshalBinary() ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(make([]byte, 0, TableSize))
	for _, p := range t.Partitions {
		e := entry{
			Magic:   entryMagic,
			Type:    uint8(p.Type),
			SubType: uint8(p.SubType),
			Offset:  p.Offset,
			Size:    p.Size,
			Flags:   p.Flags,
		}
		copy(e.Name[:], p.Name)
		binary.Write(buf, binary.LittleEndian, &e)
	}
	sum := md5.Sum(buf.Bytes())
	binary.Write(buf, binary.LittleEndian, uint16(md5Magic))
	for i := 0; i < 14; i++ {
		buf.WriteByte(0xff)
	}
	buf.Write(sum[:])
	for buf.Len() < TableSize {
		buf.WriteByte(0xff)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes the binary partition table. The MD5 entry is
// optional but if it is present the checksum must match.
func (t *Table) UnmarshalBinary(data []byte) error {
	var ps []Partition
	for off := 0; off+EntrySize <= len(data); off += EntrySize {
		raw := data[off : off+EntrySize]
		switch binary.LittleEndian.Uint16(raw) {
		case entryMagic:
			var e entry
			if _, err := binary.Decode(raw, binary.LittleEndian, &e); err != nil {
				return err
			}
			ps = append(ps, Partition{
				Name:    string(bytes.TrimRight(e.Name[:], "\x00")),
				Type:    Type(e.Type),
				SubType: SubType(e.SubType),
				Offset:  e.Offset,
				Size:    e.Size,
				Flags:   e.Flags,
			})
			continue
		case md5Magic:
			sum := md5.Sum(data[:off])
			if !bytes.Equal(sum[:], raw[16:]) {
				return ErrBadMD5
			}
		case 0xffff:
		default:
			return fmt.Errorf("%w at offset %#x", ErrBadEntry, off)
		}
		break
	}
	t.Partitions = ps
	return nil
}
