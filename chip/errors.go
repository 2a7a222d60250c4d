// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip

import (
	"errors"
	"fmt"
)

var (
	ErrUnrecognizedChip     = errors.New("unrecognized chip")
	ErrTruncatedHeader      = errors.New("truncated header")
	ErrInvalidMagic         = errors.New("invalid image magic")
	ErrTooManySegments      = errors.New("too many segments")
	ErrSegmentTooLarge      = errors.New("segment too large")
	ErrUnalignedSegment     = errors.New("segment address not aligned to 4 bytes")
	ErrNotFlash             = errors.New("segment outside the flash window")
	ErrUnsupportedFlashSize = errors.New("unsupported flash size")
	ErrImageTooLarge        = errors.New("image does not fit in the app partition")
)

// Error describes a failed operation that isn't related to a concrete image
// segment.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return "chip: " + e.Op + ": " + e.Err.Error()
}

func wrapErr(op string, err *error) {
	if *err != nil {
		*err = &Error{op, *err}
	}
}

// SegmentError is returned by the Segments iterator if the segment at the
// address Addr can not be produced.
type SegmentError struct {
	Chip Chip
	Addr uint32
	Err  error
}

func (e *SegmentError) Unwrap() error {
	return e.Err
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("%s: segment %#x: %v", e.Chip, e.Addr, e.Err)
}
