// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sim_test

import (
	"bytes"
	"strings"
	"testing"

	"periph.io/x/charlcd"
	"periph.io/x/charlcd/sim"
)

func getDev(t *testing.T, opts *sim.Opts, rows, cols int) (*charlcd.Dev, *sim.Dev) {
	t.Helper()
	s := sim.New(opts)
	dev, err := charlcd.New(s, &charlcd.Opts{Rows: rows, Cols: cols})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = dev.Halt() })
	if err := dev.Init(); err != nil {
		t.Fatal(err)
	}
	return dev, s
}

func TestWriteString(t *testing.T) {
	dev, s := getDev(t, nil, 2, 16)
	if _, err := dev.WriteString("Hi"); err != nil {
		t.Fatal(err)
	}
	rows := s.Text()
	if want := "Hi" + strings.Repeat(" ", 14); rows[0] != want {
		t.Errorf("row 0 = %q, want %q", rows[0], want)
	}
	if cx, cy := dev.CursorPosition(); cx != 2 || cy != 0 {
		t.Errorf("cursor at (%d,%d), want (2,0)", cx, cy)
	}
}

func TestClear(t *testing.T) {
	dev, s := getDev(t, nil, 2, 16)
	_, _ = dev.WriteString("garbage")
	if err := dev.Clear(); err != nil {
		t.Fatal(err)
	}
	for y, row := range s.Text() {
		if row != strings.Repeat(" ", 16) {
			t.Errorf("row %d = %q after Clear", y, row)
		}
	}
	if cx, cy := dev.CursorPosition(); cx != 0 || cy != 0 {
		t.Errorf("cursor at (%d,%d) after Clear", cx, cy)
	}
}

// The controller auto-increments linearly, so text crossing a row
// boundary only lands on the next row because the driver re-addresses
// DDRAM explicitly.
func TestWrapAcrossRows(t *testing.T) {
	dev, s := getDev(t, nil, 2, 16)
	if err := dev.Position(14, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := dev.WriteString("XYZ"); err != nil {
		t.Fatal(err)
	}
	rows := s.Text()
	if !strings.HasSuffix(rows[0], "XY") {
		t.Errorf("row 0 = %q, want XY at the end", rows[0])
	}
	if !strings.HasPrefix(rows[1], "Z") {
		t.Errorf("row 1 = %q, want Z at the start", rows[1])
	}
	if cx, cy := dev.CursorPosition(); cx != 1 || cy != 1 {
		t.Errorf("cursor at (%d,%d), want (1,1)", cx, cy)
	}
}

func TestFourRowAddressing(t *testing.T) {
	dev, s := getDev(t, &sim.Opts{Rows: 4, Cols: 20}, 4, 20)
	for y, text := range []string{"one", "two", "three", "four"} {
		if err := dev.Position(0, y); err != nil {
			t.Fatal(err)
		}
		if _, err := dev.WriteString(text); err != nil {
			t.Fatal(err)
		}
	}
	rows := s.Text()
	for y, want := range []string{"one", "two", "three", "four"} {
		if got := strings.TrimRight(rows[y], " "); got != want {
			t.Errorf("row %d = %q, want %q", y, got, want)
		}
	}
}

func TestEightBit(t *testing.T) {
	dev, s := getDev(t, &sim.Opts{BusWidth: 8}, 2, 16)
	if _, err := dev.WriteString("8bit"); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimRight(s.Text()[0], " "); got != "8bit" {
		t.Errorf("row 0 = %q, want %q", got, "8bit")
	}
}

func TestCharDef(t *testing.T) {
	dev, s := getDev(t, nil, 2, 16)
	pattern := [8]byte{0x0e, 0x11, 0x11, 0x1f, 0x11, 0x11, 0x11, 0x00}
	if err := dev.CharDef(3, pattern); err != nil {
		t.Fatal(err)
	}
	if got := s.Glyph(3); got != pattern {
		t.Errorf("glyph 3 = %#v, want %#v", got, pattern)
	}
	// CGRAM writes disturb the address pointer; text placement must be
	// re-established before writing.
	if err := dev.Position(0, 0); err != nil {
		t.Fatal(err)
	}
	if err := dev.PutChar(3); err != nil {
		t.Fatal(err)
	}
	if got := s.Text()[0][0]; got != ' ' {
		t.Errorf("CGRAM glyph cell rendered %q, want a space placeholder", got)
	}
}

func TestRender(t *testing.T) {
	dev, s := getDev(t, nil, 2, 16)
	_ = dev.Backlight(0xff)
	if _, err := dev.WriteString("Hello"); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := s.Render(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Hello") {
		t.Errorf("render output does not contain the text: %q", out)
	}
	if !strings.Contains(out, "\033[") {
		t.Error("render output contains no ANSI escapes")
	}
	// Turning the display off blanks the glass but retains DDRAM.
	_ = dev.Display(false)
	buf.Reset()
	if err := s.Render(&buf); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "Hello") {
		t.Error("render shows text while the display is off")
	}
	if got := strings.TrimRight(s.Text()[0], " "); got != "Hello" {
		t.Errorf("DDRAM lost while the display is off: %q", got)
	}
}

func TestString(t *testing.T) {
	s := sim.New(nil)
	if s.String() != "sim16x2" {
		t.Errorf("String() = %q", s.String())
	}
}
