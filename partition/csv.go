// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package partition

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The CSV format used by ESP-IDF:
//
//	# Name,   Type, SubType, Offset,  Size, Flags
//	nvs,      data, nvs,     0x9000,  0x6000,
//	phy_init, data, phy,     0xf000,  0x1000,
//	factory,  app,  factory, 0x10000, 1M,
var csvLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "EOL", Pattern: `\n`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Value", Pattern: `[^,\s#]+`},
})

type csvFile struct {
	Rows []*csvRow `parser:"( @@ | EOL )*"`
}

type csvRow struct {
	Pos    lexer.Position
	Name   string      `parser:"@Value"`
	Fields []*csvField `parser:"@@* EOL"`
}

type csvField struct {
	Value string `parser:"Comma @Value?"`
}

var csvParser = participle.MustBuild[csvFile](
	participle.Lexer(csvLexer),
	participle.Elide("Comment", "Whitespace"),
)

// ParseCSV reads the partition table in the ESP-IDF CSV format. Partitions with
// an empty offset are placed just after the previous one, aligned as required
// by their type.
func ParseCSV(name string, r io.Reader) (*Table, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s := string(src)
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	f, err := csvParser.ParseString(name, s)
	if err != nil {
		return nil, err
	}
	t := new(Table)
	next := uint64(FirstOffset)
	for _, row := range f.Rows {
		p, err := parseRow(row, next)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", row.Pos, err)
		}
		t.Partitions = append(t.Partitions, p)
		next = p.End()
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func parseRow(row *csvRow, next uint64) (p Partition, err error) {
	fields := make([]string, 5)
	if len(row.Fields) < 4 || len(row.Fields) > len(fields) {
		return p, fmt.Errorf("%w: %d fields", ErrBadEntry, len(row.Fields)+1)
	}
	for i, f := range row.Fields {
		fields[i] = f.Value
	}
	p.Name = row.Name
	if p.Type, err = parseType(fields[0]); err != nil {
		return
	}
	if p.SubType, err = parseSubType(p.Type, fields[1]); err != nil {
		return
	}
	if fields[2] == "" {
		a := uint64(p.align())
		p.Offset = uint32((next + a - 1) / a * a)
	} else if p.Offset, err = parseSize(fields[2]); err != nil {
		return
	}
	if p.Size, err = parseSize(fields[3]); err != nil {
		return
	}
	for _, flag := range strings.Split(fields[4], ":") {
		switch flag {
		case "":
		case "encrypted":
			p.Flags |= FlagEncrypted
		default:
			return p, fmt.Errorf("%w: unknown flag %q", ErrBadEntry, flag)
		}
	}
	return
}

func parseType(s string) (Type, error) {
	switch s {
	case "app":
		return App, nil
	case "data":
		return Data, nil
	}
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrUnknownType, s)
	}
	return Type(n), nil
}

func parseSubType(t Type, s string) (SubType, error) {
	switch t {
	case App:
		switch {
		case s == "factory":
			return Factory, nil
		case s == "test":
			return Test, nil
		case strings.HasPrefix(s, "ota_"):
			n, err := strconv.ParseUint(s[4:], 10, 8)
			if err == nil && n < 16 {
				return OTA0 + SubType(n), nil
			}
		}
	case Data:
		if st, ok := dataSubTypes[s]; ok {
			return st, nil
		}
	}
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("%w %q for %s partition", ErrUnknownSubType, s, t)
	}
	return SubType(n), nil
}

// parseSize parses the number with the optional K or M suffix.
func parseSize(s string) (uint32, error) {
	shift := 0
	switch {
	case strings.HasSuffix(s, "K"):
		shift = 10
	case strings.HasSuffix(s, "M"):
		shift = 20
	}
	if shift != 0 {
		s = s[:len(s)-1]
	}
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil || n<<shift > 1<<32-1 {
		return 0, fmt.Errorf("%w: %q", ErrBadSize, s)
	}
	return uint32(n << shift), nil
}

// WriteCSV writes the table in the ESP-IDF CSV format accepted by ParseCSV.
func WriteCSV(w io.Writer, t *Table) error {
	var sb strings.Builder
	sb.WriteString("# Name, Type, SubType, Offset, Size, Flags\n")
	for i := range t.Partitions {
		p := &t.Partitions[i]
		flags := ""
		if p.Flags&FlagEncrypted != 0 {
			flags = "encrypted"
		}
		fmt.Fprintf(
			&sb, "%s, %s, %s, %#x, %#x, %s\n",
			p.Name, p.Type, subTypeName(p.Type, p.SubType), p.Offset, p.Size,
			flags,
		)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func subTypeName(t Type, st SubType) string {
	switch t {
	case App:
		switch {
		case st == Factory:
			return "factory"
		case st == Test:
			return "test"
		case st >= OTA0 && st < OTA0+16:
			return "ota_" + strconv.Itoa(int(st-OTA0))
		}
	case Data:
		for name, v := range dataSubTypes {
			if v == st {
				return name
			}
		}
	}
	return "0x" + strconv.FormatUint(uint64(st), 16)
}
