// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package charlcd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/spi"
)

const packageName = "charlcd"

// ErrNotImplemented is returned for text display features the HD44780
// cannot provide.
var ErrNotImplemented = fmt.Errorf("%s: %w", packageName, display.ErrNotImplemented)

func wrap(err error) error {
	if err == nil || strings.HasPrefix(err.Error(), packageName) {
		return err
	}
	return fmt.Errorf("%s: %w", packageName, err)
}

// Opts holds the display geometry and initial state.
type Opts struct {
	// Rows is the number of character rows, 1 to 4.
	Rows int
	// Cols is the number of character columns, 1 to 20.
	Cols int
	// Backlight is the initial backlight state on transports that drive
	// the backlight line.
	Backlight bool
}

// Dev is a handle to one HD44780 based display. It tracks a logical
// cursor and a shadow copy of the controller's display-control register,
// since the controller is write-only in the supported wirings.
//
// A Dev is not safe for concurrent use; interleaved transport writes
// corrupt the controller's address pointer and the shadow state.
type Dev struct {
	t      Transport
	rows   int
	cols   int
	handle int

	cx, cy    int
	control   byte
	backlight bool
}

// New creates a display handle on top of an already constructed
// Transport and claims a slot in the handle table.
//
// The controller itself is not touched: call Init to run the power-up
// sequence, or skip it when attaching to a controller initialized by a
// previous process.
func New(t Transport, opts *Opts) (*Dev, error) {
	if opts == nil {
		return nil, errors.New("charlcd: opts are required")
	}
	if w := t.Width(); w != 4 && w != 8 {
		return nil, fmt.Errorf("charlcd: unsupported bus width %d", w)
	}
	if opts.Rows < 1 || opts.Rows > len(rowOffset) {
		return nil, fmt.Errorf("charlcd: invalid row count %d", opts.Rows)
	}
	if opts.Cols < 1 || opts.Cols > 20 {
		return nil, fmt.Errorf("charlcd: invalid column count %d", opts.Cols)
	}
	d := &Dev{t: t, rows: opts.Rows, cols: opts.Cols, backlight: opts.Backlight, handle: -1}
	h, err := claim(d)
	if err != nil {
		return nil, err
	}
	d.handle = h
	return d, nil
}

// NewGPIO creates a display wired directly to GPIO lines. data holds the
// pins driving DB4..DB7 in 4 bit mode or DB0..DB7 in 8 bit mode, LSB
// first. backlight may be nil when the backlight is hard-wired.
//
// Every line is configured as an output driven low and the controller's
// power-on time is waited out. Call Init next unless reattaching.
func NewGPIO(opts *Opts, rs, e, backlight gpio.PinOut, data ...gpio.PinOut) (*Dev, error) {
	if len(data) != 4 && len(data) != 8 {
		return nil, fmt.Errorf("charlcd: need 4 or 8 data pins, got %d", len(data))
	}
	t := &gpioTransport{rs: rs, e: e, backlight: backlight, data: data}
	if err := t.setup(); err != nil {
		return nil, wrap(err)
	}
	return New(t, opts)
}

// NewI2CBackpack creates a display reached through a PCF8574 style I²C
// backpack at the given address, wired per DefaultPinMap. The first latch
// write happens here, so an unreachable expander fails construction.
func NewI2CBackpack(bus i2c.Bus, address uint16, opts *Opts) (*Dev, error) {
	name := fmt.Sprintf("charlcd{I2C 0x%x}", address)
	return newLatched(&i2c.Dev{Bus: bus, Addr: address}, &DefaultPinMap, name, opts)
}

// NewSPIBackpack creates a display reached through a 74HC595 style shift
// register on an SPI bus, wired per DefaultPinMap.
func NewSPIBackpack(c spi.Conn, opts *Opts) (*Dev, error) {
	return newLatched(c, &DefaultPinMap, "charlcd{SPI}", opts)
}

// NewBackpack creates a display over any byte-latching conn.Conn with a
// caller supplied wiring. Use it for the less common backpack layouts,
// such as the mjkdz boards.
func NewBackpack(c conn.Conn, m *PinMap, opts *Opts) (*Dev, error) {
	if m == nil {
		m = &DefaultPinMap
	}
	return newLatched(c, m, fmt.Sprintf("charlcd{%s}", c), opts)
}

func newLatched(c conn.Conn, m *PinMap, name string, opts *Opts) (*Dev, error) {
	t := &latchedTransport{c: c, m: *m, name: name}
	if opts != nil {
		t.backlight = opts.Backlight
	}
	if err := t.setup(); err != nil {
		return nil, err
	}
	return New(t, opts)
}

// Init drives the controller from its undefined reset state into the
// configured operating mode and leaves it displaying a blank screen with
// the cursor at (0,0).
//
// The controller powers up in 8 bit mode and has to be told, in 8 bit
// mode, to switch to 4 bit mode before anything else works. The
// datasheet further requires at least three consecutive function-set
// commands after power-up before the interface is reliable; in 4 bit
// wiring, repeating the high nibble of a known command also
// resynchronizes the controller's nibble phase whatever partial state a
// previous run left it in. Each step needs a long delay because it runs
// before the internal oscillator is guaranteed stable.
//
// Init may be called again at any time to recover a controller abandoned
// mid-operation.
func (d *Dev) Init() error {
	fn := cmdFunctionSet | func8Bit
	if d.t.Width() == 4 {
		for i := 0; i < 3; i++ {
			if err := d.t.WriteNibble(false, fn>>4); err != nil {
				return wrap(err)
			}
			time.Sleep(delayInit)
		}
		// The one-way transition into 4 bit mode. All subsequent writes
		// use the full two-nibble protocol.
		fn = cmdFunctionSet
		if err := d.t.WriteNibble(false, fn>>4); err != nil {
			return wrap(err)
		}
		time.Sleep(delayInit)
	} else {
		for i := 0; i < 3; i++ {
			if err := d.t.WriteByte(false, fn); err != nil {
				return wrap(err)
			}
			time.Sleep(delayInit)
		}
	}
	if d.rows > 1 {
		fn |= funcTwoLine
		if err := d.command(fn); err != nil {
			return wrap(err)
		}
		time.Sleep(delayInit)
	}

	d.control = 0
	if err := d.Display(true); err != nil {
		return err
	}
	if err := d.ShowCursor(false); err != nil {
		return err
	}
	if err := d.Blink(false); err != nil {
		return err
	}
	if err := d.Clear(); err != nil {
		return err
	}
	if err := d.command(cmdEntryMode | entryIncrement); err != nil {
		return wrap(err)
	}
	return wrap(d.command(cmdShift | shiftRight))
}

// Home moves the cursor to (0,0) without clearing the display.
func (d *Dev) Home() error {
	err := d.command(cmdHome)
	d.cx, d.cy = 0, 0
	time.Sleep(delayClear)
	return wrap(err)
}

// Clear blanks the display and moves the cursor to (0,0).
func (d *Dev) Clear() error {
	if err := d.command(cmdClear); err != nil {
		return wrap(err)
	}
	err := d.command(cmdHome)
	d.cx, d.cy = 0, 0
	time.Sleep(delayClear)
	return wrap(err)
}

// Position moves the cursor to column x, row y, both zero based.
// Out-of-range positions are silently ignored, matching the classic
// wiringPi behavior.
func (d *Dev) Position(x, y int) error {
	if x < 0 || x >= d.cols || y < 0 || y >= d.rows {
		return nil
	}
	if err := d.command(cmdSetDDRAM | (rowOffset[y] + byte(x))); err != nil {
		return wrap(err)
	}
	d.cx, d.cy = x, y
	return nil
}

// CursorPosition returns the logical cursor, zero based. It names the
// same cell the controller's DDRAM address register points at.
func (d *Dev) CursorPosition() (x, y int) {
	return d.cx, d.cy
}

// PutChar sends one glyph code to the current cursor cell and advances
// the cursor, wrapping to the next row at the end of a line and back to
// (0,0) off the end of the last row. The controller's own auto-increment
// does not follow the nonlinear row layout, so a wrap re-addresses DDRAM
// explicitly.
func (d *Dev) PutChar(c byte) error {
	if err := d.t.WriteByte(true, c); err != nil {
		return wrap(err)
	}
	d.cx++
	if d.cx == d.cols {
		d.cx = 0
		d.cy++
		if d.cy == d.rows {
			d.cy = 0
		}
		return wrap(d.command(cmdSetDDRAM | rowOffset[d.cy]))
	}
	return nil
}

// Write sends every byte of p to the display through PutChar. There is no
// newline interpretation.
func (d *Dev) Write(p []byte) (int, error) {
	for i, c := range p {
		if err := d.PutChar(c); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// WriteString sends a string to the display.
func (d *Dev) WriteString(text string) (int, error) {
	return d.Write([]byte(text))
}

// Printf formats per fmt.Printf and streams the result to the display,
// so there is no intermediate buffer to truncate.
func (d *Dev) Printf(format string, args ...any) error {
	_, err := fmt.Fprintf(d, format, args...)
	return err
}

// CharDef programs one of the eight CGRAM glyphs (codes 0..7) with the
// given 5x8 row patterns, top row first, low five bits of each byte used.
//
// Programming CGRAM disturbs the controller's DDRAM address pointer;
// call Position before resuming display writes.
func (d *Dev) CharDef(index int, pattern [8]byte) error {
	if err := d.command(cmdSetCGRAM | byte(index&7)<<3); err != nil {
		return wrap(err)
	}
	for _, row := range pattern {
		if err := d.t.WriteByte(true, row); err != nil {
			return wrap(err)
		}
	}
	return nil
}

// SendCommand issues a raw controller command. No cursor or shadow
// bookkeeping is updated; callers are on their own.
func (d *Dev) SendCommand(raw byte) error {
	return wrap(d.command(raw))
}

// setControl updates one bit of the display-control shadow and commits
// the whole register.
func (d *Dev) setControl(mask byte, on bool) error {
	if on {
		d.control |= mask
	} else {
		d.control &^= mask
	}
	return wrap(d.command(cmdDisplayCtrl | d.control))
}

// Display turns the display on or off. The DDRAM contents are retained
// while off.
func (d *Dev) Display(on bool) error {
	return d.setControl(ctrlDisplay, on)
}

// ShowCursor turns the underline cursor on or off.
func (d *Dev) ShowCursor(on bool) error {
	return d.setControl(ctrlCursor, on)
}

// Blink turns cursor cell blinking on or off.
func (d *Dev) Blink(on bool) error {
	return d.setControl(ctrlBlink, on)
}

// Backlight turns the display backlight on (any nonzero intensity) or
// off. On latched transports the expander byte is refreshed immediately;
// on parallel wirings without a backlight pin this has no electrical
// effect.
func (d *Dev) Backlight(intensity display.Intensity) error {
	d.backlight = intensity > 0
	return wrap(d.t.SetBacklight(d.backlight))
}

// Cursor sets the cursor rendering mode. Multiple modes combine:
// Cursor(CursorUnderline, CursorBlink).
func (d *Dev) Cursor(modes ...display.CursorMode) error {
	d.control &^= ctrlCursor | ctrlBlink
	for _, mode := range modes {
		switch mode {
		case display.CursorOff:
		case display.CursorUnderline:
			d.control |= ctrlCursor
		case display.CursorBlink:
			d.control |= ctrlBlink
		case display.CursorBlock:
			d.control |= ctrlCursor | ctrlBlink
		default:
			return fmt.Errorf("charlcd: unexpected cursor mode %d", mode)
		}
	}
	return wrap(d.command(cmdDisplayCtrl | d.control))
}

// Move advances the cursor one cell forward or backward. It is
// implemented with an explicit DDRAM address so the logical cursor and
// the controller never disagree across row boundaries.
func (d *Dev) Move(dir display.CursorDirection) error {
	x, y := d.cx, d.cy
	switch dir {
	case display.Forward:
		x++
		if x == d.cols {
			x = 0
			y++
			if y == d.rows {
				y = 0
			}
		}
	case display.Backward:
		x--
		if x < 0 {
			x = d.cols - 1
			y--
			if y < 0 {
				y = d.rows - 1
			}
		}
	default:
		return ErrNotImplemented
	}
	return d.Position(x, y)
}

// MoveTo moves the cursor to the given 1-based row and column, per the
// display.TextDisplay convention.
func (d *Dev) MoveTo(row, col int) error {
	if row < d.MinRow() || row > d.rows || col < d.MinCol() || col > d.cols {
		return fmt.Errorf("charlcd: MoveTo(%d,%d) out of range", row, col)
	}
	return d.Position(col-1, row-1)
}

// AutoScroll is not supported by this device.
func (d *Dev) AutoScroll(enabled bool) error {
	return ErrNotImplemented
}

// Rows returns the number of character rows.
func (d *Dev) Rows() int {
	return d.rows
}

// Cols returns the number of character columns.
func (d *Dev) Cols() int {
	return d.cols
}

// MinRow returns the minimum row position for MoveTo.
func (d *Dev) MinRow() int {
	return 1
}

// MinCol returns the minimum column position for MoveTo.
func (d *Dev) MinCol() int {
	return 1
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s::%s %dx%d", packageName, d.t, d.cols, d.rows)
}

// Halt clears the display, turns the backlight and display off, releases
// the transport and returns the handle slot to the table.
func (d *Dev) Halt() error {
	_ = d.Clear()
	_ = d.Backlight(0)
	_ = d.Display(false)
	release(d)
	return wrap(d.t.Halt())
}

var _ display.TextDisplay = &Dev{}
var _ display.DisplayBacklight = &Dev{}
var _ conn.Resource = &Dev{}
