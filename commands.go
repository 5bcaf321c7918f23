// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package charlcd

import "time"

// HD44780U command opcodes. The top set bit selects the command family,
// the remaining bits carry parameters.
const (
	cmdClear       byte = 0x01
	cmdHome        byte = 0x02
	cmdEntryMode   byte = 0x04
	cmdDisplayCtrl byte = 0x08
	cmdShift       byte = 0x10
	cmdFunctionSet byte = 0x20
	cmdSetCGRAM    byte = 0x40
	cmdSetDDRAM    byte = 0x80
)

// Entry mode register bits.
const (
	entryShift     byte = 0x01
	entryIncrement byte = 0x02
)

// Display control register bits. These are shadowed per device because the
// register cannot be read back.
const (
	ctrlBlink   byte = 0x01
	ctrlCursor  byte = 0x02
	ctrlDisplay byte = 0x04
)

// Function set register bits.
const (
	funcFont5x10 byte = 0x04
	funcTwoLine  byte = 0x08
	func8Bit     byte = 0x10
)

// Cursor/display shift register bits.
const (
	shiftRight   byte = 0x04
	shiftDisplay byte = 0x08
)

// Host side delays. The controller needs at least 1.52ms for Clear and
// Home; 2ms per command covers the worst clone seen in the wild without
// reading the busy flag. The function-set steps during initialization run
// before the internal oscillator is guaranteed stable and need far longer.
const (
	delayCommand = 2 * time.Millisecond
	delayClear   = 5 * time.Millisecond
	delayInit    = 35 * time.Millisecond
	delayPowerOn = 35 * time.Millisecond
)

// rowOffset maps a logical row index to its DDRAM base address. The layout
// is nonlinear: rows 2 and 3 of a 4 row display continue physically from
// the end of rows 0 and 1.
var rowOffset = [4]byte{0x00, 0x40, 0x14, 0x54}

// command issues a byte with RS=0 and waits out the post-command delay.
func (d *Dev) command(c byte) error {
	err := d.t.WriteByte(false, c)
	time.Sleep(delayCommand)
	return err
}
