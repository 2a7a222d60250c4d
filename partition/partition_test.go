// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package partition

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	tab := Default(4 << 20)
	if err := tab.Validate(); err != nil {
		t.Fatal(err)
	}
	app, err := tab.BootApp()
	if err != nil {
		t.Fatal(err)
	}
	if app.Name != "factory" || app.Offset != 0x10000 || app.Size != 0x3f0000 {
		t.Errorf("bad app partition: %s", app)
	}
}

func TestBinary(t *testing.T) {
	tab := Default(2 << 20)
	tab.Partitions[2].Flags = FlagEncrypted
	data, err := tab.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != TableSize {
		t.Fatalf("table size %d, want %d", len(data), TableSize)
	}
	if data[0] != 0xaa || data[1] != 0x50 {
		t.Errorf("bad entry magic: %#02x %#02x", data[0], data[1])
	}
	md5 := 3 * EntrySize
	if data[md5] != 0xeb || data[md5+1] != 0xeb || data[md5+2] != 0xff {
		t.Errorf("bad MD5 entry: % x", data[md5:md5+EntrySize])
	}
	if data[len(data)-1] != 0xff {
		t.Error("table not padded with 0xff")
	}

	var dec Table
	if err := dec.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(dec.Partitions, tab.Partitions) {
		t.Errorf("decoded table differs:\n got %v\nwant %v", dec.Partitions, tab.Partitions)
	}

	data[4]++
	if err := dec.UnmarshalBinary(data); !errors.Is(err, ErrBadMD5) {
		t.Errorf("got %v, want ErrBadMD5", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		ps   []Partition
		err  error
	}{
		{
			name: "overlap",
			ps: []Partition{
				{Name: "a", Type: Data, Offset: 0x9000, Size: 0x2000},
				{Name: "b", Type: Data, Offset: 0xa000, Size: 0x1000},
			},
			err: ErrOverlap,
		},
		{
			name: "over table",
			ps:   []Partition{{Name: "a", Type: Data, Offset: 0x8000, Size: 0x1000}},
			err:  ErrOverlap,
		},
		{
			name: "misaligned app",
			ps:   []Partition{{Name: "app", Type: App, Offset: 0x11000, Size: 0x10000}},
			err:  ErrMisaligned,
		},
		{
			name: "long name",
			ps:   []Partition{{Name: strings.Repeat("x", 17), Type: Data, Offset: 0x9000, Size: 0x1000}},
			err:  ErrBadName,
		},
		{
			name: "zero size",
			ps:   []Partition{{Name: "a", Type: Data, Offset: 0x9000}},
			err:  ErrBadSize,
		},
		{
			name: "too many",
			ps:   make([]Partition, MaxEntries+1),
			err:  ErrTooManyPartitions,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab := &Table{tt.ps}
			if err := tab.Validate(); !errors.Is(err, tt.err) {
				t.Errorf("Validate() = %v, want %v", err, tt.err)
			}
		})
	}
}

func TestBootApp(t *testing.T) {
	tab := &Table{[]Partition{
		{Name: "otadata", Type: Data, SubType: OTAData, Offset: 0xd000, Size: 0x2000},
		{Name: "ota_1", Type: App, SubType: OTA0 + 1, Offset: 0x110000, Size: 0x100000},
		{Name: "ota_0", Type: App, SubType: OTA0, Offset: 0x10000, Size: 0x100000},
	}}
	app, err := tab.BootApp()
	if err != nil {
		t.Fatal(err)
	}
	if app.Name != "ota_0" {
		t.Errorf("BootApp() = %s, want ota_0", app.Name)
	}
	tab.Partitions = tab.Partitions[:2]
	if app, err = tab.BootApp(); err != nil || app.Name != "ota_1" {
		t.Errorf("BootApp() = %v, %v, want ota_1", app, err)
	}
	tab.Partitions = tab.Partitions[:1]
	if _, err := tab.BootApp(); !errors.Is(err, ErrNoApp) {
		t.Errorf("got %v, want ErrNoApp", err)
	}
}

func TestFind(t *testing.T) {
	tab := Default(4 << 20)
	p, ok := tab.Find("phy_init")
	if !ok || p.Offset != 0xf000 || p.SubType != PHY {
		t.Fatalf("Find(phy_init) = %v, %v", p, ok)
	}
	p.Size = 0x2000
	if tab.Partitions[1].Size != 0x2000 {
		t.Error("Find returned a copy")
	}
	if p, ok := tab.Find("ota_0"); ok {
		t.Errorf("Find(ota_0) = %v", p)
	}
}

const testCSV = `# Name,   Type, SubType, Offset,  Size, Flags
nvs,      data, nvs,     ,        0x4000,
otadata,  data, ota,     ,        0x2000,
phy_init, data, phy,     ,        4K,

ota_0,    app,  ota_0,   ,        1M,
ota_1,    app,  ota_1,   ,        1M,     encrypted
storage,  data, 0x99,    0x300000, 64K`

func TestParseCSV(t *testing.T) {
	tab, err := ParseCSV("test.csv", strings.NewReader(testCSV))
	if err != nil {
		t.Fatal(err)
	}
	want := []Partition{
		{Name: "nvs", Type: Data, SubType: NVS, Offset: 0x9000, Size: 0x4000},
		{Name: "otadata", Type: Data, SubType: OTAData, Offset: 0xd000, Size: 0x2000},
		{Name: "phy_init", Type: Data, SubType: PHY, Offset: 0xf000, Size: 0x1000},
		{Name: "ota_0", Type: App, SubType: OTA0, Offset: 0x10000, Size: 0x100000},
		{Name: "ota_1", Type: App, SubType: OTA0 + 1, Offset: 0x110000, Size: 0x100000, Flags: FlagEncrypted},
		{Name: "storage", Type: Data, SubType: 0x99, Offset: 0x300000, Size: 0x10000},
	}
	if !reflect.DeepEqual(tab.Partitions, want) {
		t.Errorf("bad table:\n got %v\nwant %v", tab.Partitions, want)
	}
}

func TestParseCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		err  error
	}{
		{"type", "x, code, factory, , 1M\n", ErrUnknownType},
		{"subtype", "x, app, nvs, , 1M\n", ErrUnknownSubType},
		{"fields", "x, app, factory\n", ErrBadEntry},
		{"size", "x, data, nvs, , 12Q\n", ErrBadSize},
		{"flag", "x, data, nvs, , 4K, readonly\n", ErrBadEntry},
		{"overlap", "a, data, nvs, 0x9000, 8K\nb, data, fat, 0xa000, 4K\n", ErrOverlap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(tt.name, strings.NewReader(tt.csv))
			if !errors.Is(err, tt.err) {
				t.Errorf("ParseCSV() = %v, want %v", err, tt.err)
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	tab, err := ParseCSV("test.csv", strings.NewReader(testCSV))
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	if err := WriteCSV(&sb, tab); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "ota_1, app, ota_1, 0x110000, 0x100000, encrypted\n") {
		t.Errorf("unexpected CSV:\n%s", sb.String())
	}
	dec, err := ParseCSV("out.csv", strings.NewReader(sb.String()))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(dec.Partitions, tab.Partitions) {
		t.Errorf("round trip differs:\n got %v\nwant %v", dec.Partitions, tab.Partitions)
	}
}
