// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Espimg converts programs to the Flash images understood by the boot ROM of
// the Espressif ESP8266 and ESP32 chips.
package main

import "github.com/embeddedgo/espflash/espimg/internal/cmd"

func main() {
	cmd.Execute()
}
