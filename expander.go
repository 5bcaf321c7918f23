// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package charlcd

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3"
)

// PinMap describes how the controller's lines are wired to the eight
// output bits of a latching expander (a PCF8574 style I²C backpack or a
// 74HC595 style shift register). Values are bit indices within the
// latched byte.
//
// RW must name the read/write line even if unused; the driver keeps it
// low at all times since the controller is treated as write-only.
type PinMap struct {
	RS        uint8
	RW        uint8
	E         uint8
	Backlight uint8
	// Data holds the bit indices driving D4..D7, LSB first.
	Data [4]uint8
}

// DefaultPinMap matches the common PCF8574 backpacks sold for LCD1602 and
// LCD2004 modules.
var DefaultPinMap = PinMap{RS: 0, RW: 1, E: 2, Backlight: 3, Data: [4]uint8{4, 5, 6, 7}}

// latchedTransport reaches the controller through a peripheral that
// latches a single byte onto eight output pins. RS, E, the backlight
// transistor and the data nibble all share that byte, so the whole byte
// is reconstructed on every write; no write ever disturbs another line.
//
// Only 4 bit operation is possible: four of the eight latch bits are
// consumed by control lines.
type latchedTransport struct {
	c         conn.Conn
	m         PinMap
	backlight bool
	name      string
}

// pack computes the latch byte for the given payload nibble and RS level.
// The E bit is left clear; strobing adds it.
func (l *latchedTransport) pack(rs bool, nibble byte) byte {
	var b byte
	for i, bit := range l.m.Data {
		if nibble>>i&1 == 1 {
			b |= 1 << bit
		}
	}
	if rs {
		b |= 1 << l.m.RS
	}
	if l.backlight {
		b |= 1 << l.m.Backlight
	}
	return b
}

func (l *latchedTransport) tx(b byte) error {
	return l.c.Tx([]byte{b}, nil)
}

func (l *latchedTransport) WriteNibble(rs bool, value byte) error {
	b := l.pack(rs, value&0x0f)
	// Rising edge plus setup time, then the falling edge that latches.
	if err := l.tx(b | 1<<l.m.E); err != nil {
		return err
	}
	time.Sleep(strobeGuard)
	err := l.tx(b)
	time.Sleep(strobeGuard)
	return err
}

func (l *latchedTransport) WriteByte(rs bool, value byte) error {
	if err := l.WriteNibble(rs, value>>4); err != nil {
		return err
	}
	return l.WriteNibble(rs, value&0x0f)
}

func (l *latchedTransport) Width() int {
	return 4
}

// SetBacklight refreshes the latched backlight line. The data and control
// bits are left cleared and E stays low, so the controller ignores the
// write entirely.
func (l *latchedTransport) SetBacklight(on bool) error {
	l.backlight = on
	var b byte
	if on {
		b = 1 << l.m.Backlight
	}
	return l.tx(b)
}

func (l *latchedTransport) Halt() error {
	return nil
}

func (l *latchedTransport) String() string {
	return l.name
}

// setup performs the first latch write so that a bad bus or address
// surfaces at construction time, then waits out the controller's
// power-on time.
func (l *latchedTransport) setup() error {
	if err := l.SetBacklight(l.backlight); err != nil {
		return fmt.Errorf("charlcd: %w", err)
	}
	time.Sleep(delayPowerOn)
	return nil
}

var _ Transport = &latchedTransport{}
