// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package partition implements the ESP-IDF partition table: its binary form
// read by the second stage bootloader and the CSV form written by users.
package partition

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
)

const (
	TableAddr  = 0x8000 // Flash offset of the partition table
	TableSize  = 0xc00  // maximum size of the binary table
	EntrySize  = 32
	MaxEntries = TableSize/EntrySize - 1 // one entry is used for the MD5 sum

	// FirstOffset is the lowest offset available for partitions.
	FirstOffset = TableAddr + 0x1000

	appAlign  = 0x10000
	dataAlign = 0x1000
)

var (
	ErrTooManyPartitions = errors.New("too many partitions")
	ErrOverlap           = errors.New("overlapping partitions")
	ErrMisaligned        = errors.New("misaligned partition")
	ErrBadName           = errors.New("bad partition name")
	ErrBadSize           = errors.New("bad partition size")
	ErrNoApp             = errors.New("no app partition to boot")
	ErrBadMD5            = errors.New("MD5 checksum mismatch")
	ErrBadEntry          = errors.New("bad partition entry")
	ErrUnknownType       = errors.New("unknown partition type")
	ErrUnknownSubType    = errors.New("unknown partition subtype")
)

type Type uint8

const (
	App  Type = 0x00
	Data Type = 0x01
)

func (t Type) String() string {
	switch t {
	case App:
		return "app"
	case Data:
		return "data"
	}
	return "0x" + strconv.FormatUint(uint64(t), 16)
}

// SubType meaning depends on the partition Type.
type SubType uint8

// App subtypes.
const (
	Factory SubType = 0x00
	OTA0    SubType = 0x10 // OTA0+n is the n-th OTA slot, n < 16
	Test    SubType = 0x20
)

// Data subtypes.
const (
	OTAData   SubType = 0x00
	PHY       SubType = 0x01
	NVS       SubType = 0x02
	CoreDump  SubType = 0x03
	NVSKeys   SubType = 0x04
	EFuse     SubType = 0x05
	Undefined SubType = 0x06
	ESPHTTPD  SubType = 0x80
	FAT       SubType = 0x81
	SPIFFS    SubType = 0x82
	LittleFS  SubType = 0x83
)

var dataSubTypes = map[string]SubType{
	"ota":       OTAData,
	"phy":       PHY,
	"nvs":       NVS,
	"coredump":  CoreDump,
	"nvs_keys":  NVSKeys,
	"efuse":     EFuse,
	"undefined": Undefined,
	"esphttpd":  ESPHTTPD,
	"fat":       FAT,
	"spiffs":    SPIFFS,
	"littlefs":  LittleFS,
}

// FlagEncrypted marks the partition content as encrypted.
const FlagEncrypted = 1 << 0

type Partition struct {
	Name    string
	Type    Type
	SubType SubType
	Offset  uint32
	Size    uint32
	Flags   uint32
}

// End returns the offset of the first byte after the partition.
func (p *Partition) End() uint64 {
	return uint64(p.Offset) + uint64(p.Size)
}

func (p *Partition) align() uint32 {
	if p.Type == App {
		return appAlign
	}
	return dataAlign
}

func (p *Partition) String() string {
	return fmt.Sprintf(
		"%s %s/%#02x %#x+%#x", p.Name, p.Type, uint8(p.SubType), p.Offset, p.Size,
	)
}

// Table is a partition table.
type Table struct {
	Partitions []Partition
}

// Default returns the single app partition table used when the user doesn't
// provide one. The factory app partition takes the rest of the Flash.
func Default(flashSize uint32) *Table {
	var appSize uint32
	if flashSize > appAlign {
		appSize = flashSize - appAlign
	}
	return &Table{[]Partition{
		{Name: "nvs", Type: Data, SubType: NVS, Offset: 0x9000, Size: 0x6000},
		{Name: "phy_init", Type: Data, SubType: PHY, Offset: 0xf000, Size: 0x1000},
		{Name: "factory", Type: App, SubType: Factory, Offset: appAlign, Size: appSize},
	}}
}

// Validate checks that the table can be written in the binary form and used by
// the bootloader.
func (t *Table) Validate() error {
	if len(t.Partitions) > MaxEntries {
		return fmt.Errorf("%w: %d > %d", ErrTooManyPartitions, len(t.Partitions), MaxEntries)
	}
	ps := make([]*Partition, len(t.Partitions))
	for i := range t.Partitions {
		p := &t.Partitions[i]
		switch {
		case p.Name == "" || len(p.Name) > 16:
			return fmt.Errorf("%w: %q", ErrBadName, p.Name)
		case p.Size == 0 || p.End() > 1<<32:
			return fmt.Errorf("%w: %s", ErrBadSize, p)
		case p.Offset%p.align() != 0:
			return fmt.Errorf("%w: %s (must be aligned to %#x)", ErrMisaligned, p, p.align())
		case p.Offset < FirstOffset:
			return fmt.Errorf("%w: %s and the partition table", ErrOverlap, p)
		}
		ps[i] = p
	}
	slices.SortFunc(ps, func(a, b *Partition) int {
		return cmp.Compare(a.Offset, b.Offset)
	})
	for i := 1; i < len(ps); i++ {
		if uint64(ps[i].Offset) < ps[i-1].End() {
			return fmt.Errorf("%w: %s and %s", ErrOverlap, ps[i-1], ps[i])
		}
	}
	return nil
}

// Find returns the first partition with the given name.
func (t *Table) Find(name string) (*Partition, bool) {
	for i := range t.Partitions {
		if p := &t.Partitions[i]; p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// BootApp returns the partition the bootloader starts the application from:
// the factory partition or, if there is none, the lowest numbered OTA slot.
func (t *Table) BootApp() (*Partition, error) {
	var ota *Partition
	for i := range t.Partitions {
		p := &t.Partitions[i]
		if p.Type != App {
			continue
		}
		if p.SubType == Factory {
			return p, nil
		}
		if p.SubType >= OTA0 && p.SubType < OTA0+16 && (ota == nil || p.SubType < ota.SubType) {
			ota = p
		}
	}
	if ota == nil {
		return nil, ErrNoApp
	}
	return ota, nil
}
