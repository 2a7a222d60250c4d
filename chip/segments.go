// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip

import (
	"iter"

	"github.com/embeddedgo/espflash/firmware"
	"github.com/embeddedgo/espflash/partition"
)

type config struct {
	bootloader []byte
	partitions *partition.Table
}

// Option configures the FlashSegments iterator.
type Option func(*config)

// WithBootloader adds the second stage bootloader to the segments. Ignored by
// ESP8266.
func WithBootloader(bin []byte) Option {
	return func(c *config) {
		c.bootloader = bin
	}
}

// WithPartitionTable replaces the default partition table. Ignored by
// ESP8266.
func WithPartitionTable(t *partition.Table) Option {
	return func(c *config) {
		c.partitions = t
	}
}

// Segments is a single pass iterator over the Flash segments of an image.
// Every segment is computed when requested by Next. The iteration stops at
// the first error, the segments returned before stay valid.
//
//	segs := chip.ESP32.FlashSegments(im)
//	defer segs.Close()
//	for segs.Next() {
//		s := segs.Segment()
//		...
//	}
//	if err := segs.Err(); err != nil {
//		...
//	}
type Segments struct {
	seq  iter.Seq2[firmware.RomSegment, error]
	next func() (firmware.RomSegment, error, bool)
	stop func()
	seg  firmware.RomSegment
	err  error
	n    int
	done bool
}

// Next advances the iterator to the next segment. It returns false when there
// are no more segments or an error occurred.
func (s *Segments) Next() bool {
	if s.done {
		return false
	}
	if s.next == nil {
		s.next, s.stop = iter.Pull2(s.seq)
		s.seq = nil
	}
	seg, err, ok := s.next()
	if !ok || err != nil {
		s.err = err
		s.Close()
		return false
	}
	s.seg = seg
	s.n++
	return true
}

// Segment returns the segment produced by the last successful call to Next.
func (s *Segments) Segment() firmware.RomSegment {
	return s.seg
}

// Err returns the error that stopped the iteration, if any.
func (s *Segments) Err() error {
	return s.err
}

// Count returns the number of segments produced so far.
func (s *Segments) Count() int {
	return s.n
}

// Close stops the iteration and releases its resources. It must be called if
// the iteration is abandoned before Next returned false.
func (s *Segments) Close() {
	s.done = true
	s.seq = nil
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

// All returns the remaining segments as a Go iterator. The error, if any, is
// yielded as the last element together with a zero segment.
func (s *Segments) All() iter.Seq2[firmware.RomSegment, error] {
	return func(yield func(firmware.RomSegment, error) bool) {
		for s.Next() {
			if !yield(s.seg, nil) {
				s.Close()
				return
			}
		}
		if s.err != nil {
			yield(firmware.RomSegment{}, s.err)
		}
	}
}

// Collect consumes the iterator and returns all the produced segments. On
// error it returns the segments produced before the failure.
func (s *Segments) Collect() ([]firmware.RomSegment, error) {
	var segs []firmware.RomSegment
	for s.Next() {
		segs = append(segs, s.seg)
	}
	return segs, s.err
}
