// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package firmware

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSorted(t *testing.T) {
	im := NewImage(0,
		Segment{0x2000, []byte{5, 6}},
		Segment{0x1000, []byte{1, 2}},
		Segment{0x3000, nil},
		Segment{0x1002, []byte{3, 4}},
	)
	ss, err := im.Sorted()
	if err != nil {
		t.Fatal(err)
	}
	if len(ss) != 2 {
		t.Fatalf("got %d segments, want 2", len(ss))
	}
	if ss[0].Addr != 0x1000 || !bytes.Equal(ss[0].Data, []byte{1, 2, 3, 4}) {
		t.Errorf("bad merged segment: %#x %v", ss[0].Addr, ss[0].Data)
	}
	if ss[1].Addr != 0x2000 || !bytes.Equal(ss[1].Data, []byte{5, 6}) {
		t.Errorf("bad segment: %#x %v", ss[1].Addr, ss[1].Data)
	}
	if !bytes.Equal(im.Segments[1].Data, []byte{1, 2}) {
		t.Error("image segment was modified by merge")
	}
}

func TestSortedOverlap(t *testing.T) {
	im := NewImage(0,
		Segment{0x1000, make([]byte, 16)},
		Segment{0x1008, make([]byte, 16)},
	)
	if _, err := im.Sorted(); !errors.Is(err, ErrOverlap) {
		t.Errorf("got %v, want ErrOverlap", err)
	}
}

func TestSplit(t *testing.T) {
	im := NewImage(0,
		Segment{0x40200000, []byte{1}},
		Segment{0x3ffe8000, []byte{2}},
		Segment{0x40100000, []byte{3}},
	)
	flash, ram, err := im.Split(func(addr uint32) bool {
		return addr >= 0x40200000 && addr < 0x40300000
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(flash) != 1 || flash[0].Addr != 0x40200000 {
		t.Errorf("bad flash segments: %+v", flash)
	}
	if len(ram) != 2 || ram[0].Addr != 0x3ffe8000 || ram[1].Addr != 0x40100000 {
		t.Errorf("bad ram segments: %+v", ram)
	}
}

func TestFlashSettings(t *testing.T) {
	var m FlashMode
	if err := m.Set("DOUT"); err != nil || m != DOUT {
		t.Errorf("FlashMode.Set(DOUT) = %v, %v", m, err)
	}
	if err := m.Set("spi"); err == nil {
		t.Error("FlashMode.Set accepted a bad mode")
	}

	var z FlashSize
	for _, fz := range flashSizes {
		if err := z.Set(fz.String()); err != nil || z != fz {
			t.Errorf("FlashSize.Set(%s) = %v, %v", fz, z, err)
		}
	}
	if err := z.Set("3MB"); err == nil {
		t.Error("FlashSize.Set accepted a bad size")
	}

	var f FlashFreq
	if err := f.Set("80m"); err != nil || f != Freq80M {
		t.Errorf("FlashFreq.Set(80m) = %v, %v", f, err)
	}
	if err := f.Set("33m"); err == nil {
		t.Error("FlashFreq.Set accepted a bad frequency")
	}
}

func TestCRC32(t *testing.T) {
	s := RomSegment{0, []byte("123456789")}
	if crc := s.CRC32(); crc != 0xcbf43926 {
		t.Errorf("CRC32 = %#08x, want 0xcbf43926", crc)
	}
}

func TestHex(t *testing.T) {
	segs := []RomSegment{
		{0x1000, []byte{0xde, 0xad, 0xbe, 0xef}},
		{0x10000, bytes.Repeat([]byte{0x55}, 40)},
	}
	var buf bytes.Buffer
	if err := WriteHex(&buf, segs); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(strings.TrimSpace(buf.String()), ":00000001FF") {
		t.Error("no EOF record in the output")
	}
	im, err := ReadHex(&buf)
	if err != nil {
		t.Fatal(err)
	}
	ss, err := im.Sorted()
	if err != nil {
		t.Fatal(err)
	}
	if len(ss) != len(segs) {
		t.Fatalf("got %d segments, want %d", len(ss), len(segs))
	}
	for i, s := range ss {
		if s.Addr != segs[i].Addr || !bytes.Equal(s.Data, segs[i].Data) {
			t.Errorf("segment %d: got %#x/%d bytes, want %#x/%d bytes",
				i, s.Addr, len(s.Data), segs[i].Addr, len(segs[i].Data))
		}
	}
}

func TestReadBins(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "boot.bin")
	if err := os.WriteFile(name, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}
	ss, err := ReadBins(name + ":0x1000")
	if err != nil {
		t.Fatal(err)
	}
	if len(ss) != 1 || ss[0].Addr != 0x1000 || len(ss[0].Data) != 3 {
		t.Errorf("bad segments: %+v", ss)
	}
	if _, err := ReadBins(name); err == nil {
		t.Error("ReadBins accepted a description without an address")
	}
}

func TestLoadELFBadInput(t *testing.T) {
	if _, err := LoadELF(bytes.NewReader([]byte("not an ELF file"))); err == nil {
		t.Error("LoadELF accepted garbage")
	}
}
