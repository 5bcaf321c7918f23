// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package charlcdtest is meant to be used to test drivers and code built
// on top of charlcd.Transport without hardware attached.
package charlcdtest

import (
	"fmt"
	"time"

	"periph.io/x/charlcd"
)

// Op is one recorded transport event.
type Op struct {
	// RS is the register-select level: false for commands, true for data.
	RS bool
	// Value is the payload: the low four bits for a nibble write, the
	// full byte otherwise.
	Value byte
	// Nibble is true when the event was a single 4 bit write.
	Nibble bool
	// T is when the write completed.
	T time.Time
}

// Record implements charlcd.Transport and records every write with a
// timestamp. No delays are simulated; the zero value is ready to use as
// a 4 bit transport.
type Record struct {
	// BusWidth is the width reported to the driver, 4 or 8. Zero means 4.
	BusWidth int
	// Ops is the recorded event stream.
	Ops []Op
	// Backlights records every SetBacklight call.
	Backlights []bool
}

func (r *Record) WriteNibble(rs bool, value byte) error {
	r.Ops = append(r.Ops, Op{RS: rs, Value: value & 0x0f, Nibble: true, T: time.Now()})
	return nil
}

func (r *Record) WriteByte(rs bool, value byte) error {
	r.Ops = append(r.Ops, Op{RS: rs, Value: value, T: time.Now()})
	return nil
}

func (r *Record) Width() int {
	if r.BusWidth == 0 {
		return 4
	}
	return r.BusWidth
}

func (r *Record) SetBacklight(on bool) error {
	r.Backlights = append(r.Backlights, on)
	return nil
}

func (r *Record) Halt() error {
	return nil
}

func (r *Record) String() string {
	return fmt.Sprintf("record%dbit", r.Width())
}

var _ charlcd.Transport = &Record{}
