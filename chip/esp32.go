// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip

import (
	"crypto/sha256"
	"fmt"
	"iter"

	"github.com/embeddedgo/espflash/firmware"
	"github.com/embeddedgo/espflash/partition"
)

// Flash layout used by the ESP-IDF second stage bootloader.
const (
	BootloaderAddr     = 0x1000
	PartitionTableAddr = partition.TableAddr
)

const (
	iromAlign = 0x10000

	// The ESP-IDF second stage bootloader doesn't map the last MMU page if
	// an IROM/DROM segment ends less than mmuPageTail bytes past it.
	mmuPageTail = 0x24
)

var esp32SizeCodes = map[firmware.FlashSize]uint8{
	firmware.Size1MB:  0x00,
	firmware.Size2MB:  0x10,
	firmware.Size4MB:  0x20,
	firmware.Size8MB:  0x30,
	firmware.Size16MB: 0x40,
}

// esp32Family describes the chips that boot the ESP-IDF application image
// through the second stage bootloader.
type esp32Family struct {
	chip       Chip
	chipName   string
	magic1     uint32
	magic2     uint32
	chipID     uint16
	spi        SPIRegisters
	irom, drom window
}

var esp32 = &esp32Family{
	chip:     ESP32,
	chipName: "esp32",
	magic1:   0x00f01d83,
	chipID:   0,
	spi: SPIRegisters{
		base:       0x3ff42000,
		usr:        0x1c,
		usr1:       0x20,
		usr2:       0x24,
		w0:         0x80,
		mosiLength: some(0x28),
		misoLength: some(0x2c),
	},
	irom: window{0x400d0000, 0x40400000},
	drom: window{0x3f400000, 0x3f800000},
}

var esp32s2 = &esp32Family{
	chip:     ESP32S2,
	chipName: "esp32s2",
	magic1:   0x000007c6,
	chipID:   2,
	spi: SPIRegisters{
		base:       0x3f402000,
		usr:        0x18,
		usr1:       0x1c,
		usr2:       0x20,
		w0:         0x58,
		mosiLength: some(0x24),
		misoLength: some(0x28),
	},
	irom: window{0x40080000, 0x40b80000},
	drom: window{0x3f000000, 0x3f3f0000},
}

func (f *esp32Family) name() string               { return f.chipName }
func (f *esp32Family) magic() (uint32, uint32)    { return f.magic1, f.magic2 }
func (f *esp32Family) spiRegisters() SPIRegisters { return f.spi }

func (f *esp32Family) addrIsFlash(addr uint32) bool {
	return f.irom.contains(addr) || f.drom.contains(addr)
}

// flashSegments yields the bootloader (if provided), the partition table and
// the application image written at the offset of the boot app partition.
func (f *esp32Family) flashSegments(im *firmware.Image, cfg *config) iter.Seq2[firmware.RomSegment, error] {
	return func(yield func(firmware.RomSegment, error) bool) {
		if cfg.bootloader != nil {
			seg := firmware.RomSegment{Addr: BootloaderAddr, Data: cfg.bootloader}
			if !yield(seg, nil) {
				return
			}
		}
		table := cfg.partitions
		if table == nil {
			table = partition.Default(uint32(im.FlashSize))
		}
		ptab, err := table.MarshalBinary()
		if err != nil {
			yield(firmware.RomSegment{}, &SegmentError{f.chip, PartitionTableAddr, err})
			return
		}
		if !yield(firmware.RomSegment{Addr: PartitionTableAddr, Data: ptab}, nil) {
			return
		}
		app, err := table.BootApp()
		if err != nil {
			yield(firmware.RomSegment{}, &SegmentError{f.chip, PartitionTableAddr, err})
			return
		}
		data, addr, err := f.appImage(im)
		if err != nil {
			yield(firmware.RomSegment{}, &SegmentError{f.chip, addr, err})
			return
		}
		if uint64(len(data)) > uint64(app.Size) {
			err = fmt.Errorf(
				"%w: %d > %d bytes (%s)",
				ErrImageTooLarge, len(data), app.Size, app.Name,
			)
			yield(firmware.RomSegment{}, &SegmentError{f.chip, app.Offset, err})
			return
		}
		yield(firmware.RomSegment{Addr: app.Offset, Data: data}, nil)
	}
}

// appImage returns the application image. The Flash segments are placed in
// the image so that the offset of their data modulo 64 KiB matches their
// address, which allows the bootloader to map them using the MMU. On error
// it also returns the address of the failed segment.
func (f *esp32Family) appImage(im *firmware.Image) ([]byte, uint32, error) {
	flash, ram, err := im.Split(f.addrIsFlash)
	if err != nil {
		return nil, 0, err
	}
	fc, err := flashConfig(im, esp32SizeCodes)
	if err != nil {
		return nil, 0, err
	}
	h := &CommonHeader{
		Magic:       ESPMagic,
		FlashMode:   uint8(im.FlashMode),
		FlashConfig: fc,
		Entry:       im.Entry,
	}
	w, err := newImageWriter(h, imageSize(flash)+imageSize(ram)+sha256.Size)
	if err != nil {
		return nil, 0, err
	}
	eh := NewExtendedHeader(f.chipID)
	if w.buf, err = eh.AppendBinary(w.buf); err != nil {
		return nil, 0, err
	}
	for _, s := range flash {
		if !f.irom.holds(s) && !f.drom.holds(s) {
			return nil, s.Addr, ErrNotFlash
		}
		if s.Addr&3 != 0 {
			return nil, s.Addr, ErrUnalignedSegment
		}
		for {
			pad, ok := alignPadding(len(w.buf), s.Addr)
			if !ok {
				break
			}
			if len(ram) != 0 && pad > SegmentHeaderSize {
				// Use the RAM segment to fill the gap.
				r := &ram[0]
				n := min(pad, len(r.Data))
				if n == pad || pad-(n+3)&^3 >= SegmentHeaderSize {
					if err := w.segment(r.Addr, r.Data[:n]); err != nil {
						return nil, r.Addr, err
					}
					r.Addr += uint32(n)
					if r.Data = r.Data[n:]; len(r.Data) == 0 {
						ram = ram[1:]
					}
					continue
				}
			}
			if err := w.segment(0, make([]byte, pad)); err != nil {
				return nil, 0, err
			}
		}
		data := s.Data
		tail := (len(w.buf) + SegmentHeaderSize + len(data)) % iromAlign
		if tail < mmuPageTail {
			data = append(data[:len(data):len(data)], make([]byte, mmuPageTail-tail)...)
		}
		if err := w.segment(s.Addr, data); err != nil {
			return nil, s.Addr, err
		}
	}
	for _, r := range ram {
		if err := w.segment(r.Addr, r.Data); err != nil {
			return nil, r.Addr, err
		}
	}
	data, err := w.finish()
	if err != nil {
		return nil, 0, err
	}
	digest := sha256.Sum256(data)
	return append(data, digest[:]...), 0, nil
}

// alignPadding returns the length of the padding segment that must be written
// at the offset off of the image so that the data of the next segment starts
// at the offset equal to its address modulo iromAlign. It reports false if no
// padding segment is required. The returned length may be zero.
func alignPadding(off int, addr uint32) (int, bool) {
	gap := (int(addr%iromAlign) - off - SegmentHeaderSize) % iromAlign
	if gap < 0 {
		gap += iromAlign
	}
	if gap == 0 {
		return 0, false
	}
	pad := gap - SegmentHeaderSize
	if pad < 0 {
		pad += iromAlign
	}
	return pad, true
}
