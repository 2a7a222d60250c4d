// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package firmware

import (
	"debug/elf"
	"fmt"
	"io"
	"os"
)

// ReadELF reads the loadable sections of the program from the named ELF file.
func ReadELF(name string) (*Image, error) {
	r, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return LoadELF(r)
}

// LoadELF reads the loadable sections of the program from r. Every
// SHT_PROGBITS section with the SHF_ALLOC flag becomes one segment placed at
// the section address. The names of non-loadable sections found between the
// loadable ones are recorded in the Skipped field of the returned image.
func LoadELF(r io.ReaderAt) (*Image, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if f.Class != elf.ELFCLASS32 {
		return nil, fmt.Errorf("unsupported ELF class %v", f.Class)
	}
	im := NewImage(uint32(f.Entry))
	for i, s := range f.Sections {
		if s.Type != elf.SHT_PROGBITS || s.Flags&elf.SHF_ALLOC == 0 {
			if k := i + 1; k < len(f.Sections) && len(im.Segments) != 0 {
				ns := f.Sections[k]
				if ns.Type == elf.SHT_PROGBITS && ns.Flags&elf.SHF_ALLOC != 0 {
					im.Skipped = append(im.Skipped, s.Name)
				}
			}
			continue
		}
		data, err := s.Data()
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", s.Name, err)
		}
		if len(data) == 0 {
			continue
		}
		im.Segments = append(im.Segments, Segment{uint32(s.Addr), data})
	}
	return im, nil
}
