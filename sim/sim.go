// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sim emulates an HD44780 controller behind a charlcd.Transport
// and renders the simulated module to a terminal (stdout) using ANSI
// color codes.
//
// Useful while you are waiting for your LCD2004 module to come by mail:
// the whole driver stack runs against it unchanged, including the
// power-up initialization dance, since the model starts in 8 bit mode
// and reassembles nibble pairs only after a function-set switches it to
// 4 bit mode.
package sim

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/charlcd"
)

// Opts represents the options available for the simulated module.
type Opts struct {
	// Rows and Cols describe the visible glass, like the real module's
	// geometry. Defaults to 16x2.
	Rows int
	Cols int
	// BusWidth is the number of data lines wired up, 4 or 8. Defaults
	// to 4, the common backpack wiring.
	BusWidth int
	// Palette is used by Render for the backlight frame. Defaults to
	// ansi256.Default.
	Palette *ansi256.Palette
}

// DDRAM base address of each logical row.
var rowOffset = [4]byte{0x00, 0x40, 0x14, 0x54}

const (
	ctrlDisplay byte = 0x04
	blankCode   byte = 0x20
)

// Dev models the controller's memories and interface state. It
// implements charlcd.Transport, so it can be passed to charlcd.New.
type Dev struct {
	rows    int
	cols    int
	width   int
	palette ansi256.Palette

	ddram [0x80]byte
	cgram [64]byte

	addr      byte
	cgramAddr byte
	inCGRAM   bool
	increment bool

	// The controller resets into 8 bit mode; until a function-set clears
	// DL it interprets every strobe as the high nibble of a command.
	mode8      bool
	highNibble byte
	haveHigh   bool

	control   byte
	backlight bool
}

// New returns a simulated module.
func New(opts *Opts) *Dev {
	// The reset circuit leaves the controller in 8 bit mode with the
	// entry mode incrementing.
	d := &Dev{rows: 2, cols: 16, width: 4, mode8: true, increment: true, palette: *ansi256.Default}
	if opts != nil {
		if opts.Rows != 0 {
			d.rows = opts.Rows
		}
		if opts.Cols != 0 {
			d.cols = opts.Cols
		}
		if opts.BusWidth != 0 {
			d.width = opts.BusWidth
		}
		if opts.Palette != nil {
			d.palette = *opts.Palette
		}
	}
	return d
}

func (d *Dev) WriteNibble(rs bool, value byte) error {
	value &= 0x0f
	if d.mode8 {
		// The low four data lines are not driven in 4 bit wiring; the
		// controller sees the nibble as the command's high half.
		d.execute(rs, value<<4)
		return nil
	}
	if !d.haveHigh {
		d.highNibble = value
		d.haveHigh = true
		return nil
	}
	d.haveHigh = false
	d.execute(rs, d.highNibble<<4|value)
	return nil
}

func (d *Dev) WriteByte(rs bool, value byte) error {
	if d.width == 4 {
		if err := d.WriteNibble(rs, value>>4); err != nil {
			return err
		}
		return d.WriteNibble(rs, value&0x0f)
	}
	d.execute(rs, value)
	return nil
}

func (d *Dev) Width() int {
	return d.width
}

func (d *Dev) SetBacklight(on bool) error {
	d.backlight = on
	return nil
}

func (d *Dev) Halt() error {
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("sim%dx%d", d.cols, d.rows)
}

// execute decodes one latched byte the way the controller would.
func (d *Dev) execute(rs bool, b byte) {
	if rs {
		d.data(b)
		return
	}
	switch {
	case b&0x80 != 0: // set DDRAM address
		d.addr = b & 0x7f
		d.inCGRAM = false
	case b&0x40 != 0: // set CGRAM address
		d.cgramAddr = b & 0x3f
		d.inCGRAM = true
	case b&0x20 != 0: // function set
		d.mode8 = b&0x10 != 0
		d.haveHigh = false
	case b&0x10 != 0: // cursor/display shift
		if b&0x08 == 0 {
			if b&0x04 != 0 {
				d.addr++
			} else {
				d.addr--
			}
			d.addr &= 0x7f
		}
		// Display shift is not modeled; the driver never scrolls.
	case b&0x08 != 0: // display control
		d.control = b & 0x07
	case b&0x04 != 0: // entry mode
		d.increment = b&0x02 != 0
	case b&0x02 != 0: // return home
		d.addr = 0
		d.inCGRAM = false
	case b&0x01 != 0: // clear display
		for i := range d.ddram {
			d.ddram[i] = blankCode
		}
		d.addr = 0
		d.inCGRAM = false
		d.increment = true
	}
}

func (d *Dev) data(b byte) {
	if d.inCGRAM {
		d.cgram[d.cgramAddr&0x3f] = b
		if d.increment {
			d.cgramAddr = (d.cgramAddr + 1) & 0x3f
		} else {
			d.cgramAddr = (d.cgramAddr - 1) & 0x3f
		}
		return
	}
	d.ddram[d.addr&0x7f] = b
	if d.increment {
		d.addr = (d.addr + 1) & 0x7f
	} else {
		d.addr = (d.addr - 1) & 0x7f
	}
}

// Glyph returns the programmed CGRAM pattern for codes 0..7.
func (d *Dev) Glyph(index int) [8]byte {
	var pattern [8]byte
	copy(pattern[:], d.cgram[(index&7)<<3:])
	return pattern
}

// Text returns the visible rows. Codes outside the printable ASCII range,
// including the eight CGRAM glyphs, render as spaces.
func (d *Dev) Text() []string {
	rows := make([]string, d.rows)
	line := make([]byte, d.cols)
	for y := 0; y < d.rows; y++ {
		base := rowOffset[y]
		for x := 0; x < d.cols; x++ {
			c := d.ddram[(base+byte(x))&0x7f]
			if c < 0x20 || c > 0x7e {
				c = ' '
			}
			line[x] = c
		}
		rows[y] = string(line)
	}
	return rows
}

// Render draws the module to w as an ANSI framed grid: the frame takes
// the backlight color and the glass renders in reverse video while the
// display is on. A nil w renders to a colorized stdout.
func (d *Dev) Render(w io.Writer) error {
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	frame := d.palette.Block(color.NRGBA{24, 24, 24, 255})
	if d.backlight {
		frame = d.palette.Block(color.NRGBA{64, 208, 96, 255})
	}
	var buf bytes.Buffer
	for i := 0; i < d.cols+2; i++ {
		buf.WriteString(frame)
	}
	buf.WriteString("\033[0m\n")
	for _, row := range d.Text() {
		buf.WriteString(frame)
		buf.WriteString("\033[0m")
		if d.control&ctrlDisplay == 0 {
			// Display off: the glass goes blank but DDRAM is retained.
			row = string(bytes.Repeat([]byte{' '}, d.cols))
		}
		buf.WriteString("\033[7m")
		buf.WriteString(row)
		buf.WriteString("\033[0m")
		buf.WriteString(frame)
		buf.WriteString("\033[0m\n")
	}
	for i := 0; i < d.cols+2; i++ {
		buf.WriteString(frame)
	}
	buf.WriteString("\033[0m\n")
	_, err := buf.WriteTo(w)
	return err
}

var _ charlcd.Transport = &Dev{}
