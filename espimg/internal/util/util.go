// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func Warn(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
}

// FatalErr prints an error description and exits the program if the
// err != nil.
func FatalErr(what string, err error) {
	if err == nil {
		return
	}
	s := err.Error() + "\n"
	if what != "" {
		s = what + ": " + s
	}
	os.Stderr.WriteString(s)
	os.Exit(1)
}

// DirName returns the last element of the path to the current working
// directory.
func DirName() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	dir = filepath.Base(dir)
	if dir == "/" || dir == "." {
		dir = ""
	}
	return dir, nil
}

// InOutFiles infers the name of the input file from the name of the current
// working directory if inName is an empty string (this is how the Go linker
// names the program built in this directory). The empty outName is inferred
// from the input file name.
func InOutFiles(inName, inSuffix, outName, outSuffix string) (string, string, error) {
	if inName == "" {
		dir, err := DirName()
		if err != nil {
			return "", "", err
		}
		if dir == "" {
			return "", "", fmt.Errorf("cannot infer the %s file name", inSuffix)
		}
		inName = dir + inSuffix
	}
	if outName == "" {
		outName = strings.TrimSuffix(inName, filepath.Ext(inName)) + outSuffix
	}
	return inName, outName, nil
}
