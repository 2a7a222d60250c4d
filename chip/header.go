// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip

import (
	"encoding/binary"
	"fmt"
)

const (
	// ESPMagic is the first byte of every image accepted by the boot ROM.
	ESPMagic = 0xe9

	// WPPinDisabled is the value of the ExtendedHeader.WPPin field that
	// means there is no write protect pin.
	WPPinDisabled = 0xee
)

// The encoded sizes of the image headers.
const (
	CommonHeaderSize   = 8
	ExtendedHeaderSize = 16
	SegmentHeaderSize  = 8
)

// CommonHeader starts every firmware image.
type CommonHeader struct {
	Magic        uint8
	SegmentCount uint8
	FlashMode    uint8
	FlashConfig  uint8 // flash size code (high nibble) | frequency (low nibble)
	Entry        uint32
}

// ExtendedHeader follows the CommonHeader in ESP32 family images.
type ExtendedHeader struct {
	WPPin        uint8
	ClkQDrv      uint8
	DCSDrv       uint8
	GDWPDrv      uint8
	ChipID       uint16
	MinRev       uint8
	_            [8]byte
	AppendDigest uint8
}

// NewExtendedHeader returns the extended header for the chip with the given
// ID, with the write protect pin disabled and the SHA-256 digest appended.
func NewExtendedHeader(chipID uint16) ExtendedHeader {
	return ExtendedHeader{
		WPPin:        WPPinDisabled,
		ChipID:       chipID,
		AppendDigest: 1,
	}
}

// SegmentHeader precedes the data of every segment in the image.
type SegmentHeader struct {
	Addr   uint32
	Length uint32 // must equal the number of data bytes that follow
}

func appendHeader(b []byte, h any) ([]byte, error) {
	return binary.Append(b, binary.LittleEndian, h)
}

func decodeHeader(data []byte, size int, h any) error {
	if len(data) < size {
		return fmt.Errorf("%w: %d bytes, need %d", ErrTruncatedHeader, len(data), size)
	}
	_, err := binary.Decode(data[:size], binary.LittleEndian, h)
	return err
}

func (h *CommonHeader) AppendBinary(b []byte) ([]byte, error) {
	return appendHeader(b, h)
}

func (h *CommonHeader) MarshalBinary() ([]byte, error) {
	return h.AppendBinary(make([]byte, 0, CommonHeaderSize))
}

// UnmarshalBinary decodes the header from the first CommonHeaderSize bytes of
// data. It fails if the magic byte isn't ESPMagic.
func (h *CommonHeader) UnmarshalBinary(data []byte) (err error) {
	defer wrapErr("CommonHeader.UnmarshalBinary", &err)
	var ch CommonHeader
	if err = decodeHeader(data, CommonHeaderSize, &ch); err != nil {
		return err
	}
	if ch.Magic != ESPMagic {
		return fmt.Errorf("%w: %#02x", ErrInvalidMagic, ch.Magic)
	}
	*h = ch
	return nil
}

func (h *ExtendedHeader) AppendBinary(b []byte) ([]byte, error) {
	return appendHeader(b, h)
}

func (h *ExtendedHeader) MarshalBinary() ([]byte, error) {
	return h.AppendBinary(make([]byte, 0, ExtendedHeaderSize))
}

// UnmarshalBinary decodes the header from the first ExtendedHeaderSize bytes
// of data. The reserved bytes are ignored.
func (h *ExtendedHeader) UnmarshalBinary(data []byte) (err error) {
	defer wrapErr("ExtendedHeader.UnmarshalBinary", &err)
	var eh ExtendedHeader
	if err = decodeHeader(data, ExtendedHeaderSize, &eh); err != nil {
		return err
	}
	*h = eh
	return nil
}

func (h *SegmentHeader) AppendBinary(b []byte) ([]byte, error) {
	return appendHeader(b, h)
}

func (h *SegmentHeader) MarshalBinary() ([]byte, error) {
	return h.AppendBinary(make([]byte, 0, SegmentHeaderSize))
}

func (h *SegmentHeader) UnmarshalBinary(data []byte) (err error) {
	defer wrapErr("SegmentHeader.UnmarshalBinary", &err)
	var sh SegmentHeader
	if err = decodeHeader(data, SegmentHeaderSize, &sh); err != nil {
		return err
	}
	*h = sh
	return nil
}
