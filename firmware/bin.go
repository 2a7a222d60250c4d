// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package firmware

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReadBins reads binary files acording to the BIN1:ADDR1[,BIN2:ADDR2[,...]]
// description and returns them as a slice of segments.
func ReadBins(descr string) ([]Segment, error) {
	bins := strings.Split(descr, ",")
	ss := make([]Segment, len(bins))
	for k, ba := range bins {
		i := strings.LastIndexByte(ba, ':')
		if i <= 0 {
			return nil, fmt.Errorf("bad '%s' in the binary list", ba)
		}
		bin, addr := ba[:i], ba[i+1:]
		a, err := strconv.ParseUint(addr, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("bad address in '%s': %s", addr, err)
		}
		ss[k].Addr = uint32(a)
		ss[k].Data, err = os.ReadFile(bin)
		if err != nil {
			return nil, err
		}
	}
	return ss, nil
}
