// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package charlcd

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Transport moves command and data bytes to the controller's bus lines.
// Implementations present the payload bits together with the RS
// (register select) level, then produce a falling edge on E so the
// controller latches them.
type Transport interface {
	// WriteNibble presents the low four bits of value with the given RS
	// level and strobes once. Used standalone only during initialization,
	// while the controller's interface width is still undefined.
	WriteNibble(rs bool, value byte) error
	// WriteByte presents a full byte. 4 bit transports send the high
	// nibble first, then the low nibble, strobing each.
	WriteByte(rs bool, value byte) error
	// Width returns the number of data lines, 4 or 8.
	Width() int
	// SetBacklight latches the backlight line on transports that drive
	// one. No E strobe is produced.
	SetBacklight(on bool) error
	// Halt releases the transport's resources.
	Halt() error
	fmt.Stringer
}

// The datasheet wants an enable pulse width of at least 230ns. 50µs on
// each side of the edge gives generous margin and absorbs host-side
// write jitter; data is latched on the falling edge.
const strobeGuard = 50 * time.Microsecond

// gpioTransport drives the controller directly over GPIO lines, with 4 or
// 8 data pins wired LSB first.
type gpioTransport struct {
	rs        gpio.PinOut
	e         gpio.PinOut
	backlight gpio.PinOut // may be nil when hard-wired
	data      []gpio.PinOut
}

func (g *gpioTransport) strobe() error {
	if err := g.e.Out(gpio.High); err != nil {
		return err
	}
	time.Sleep(strobeGuard)
	err := g.e.Out(gpio.Low)
	time.Sleep(strobeGuard)
	return err
}

// setLines writes one payload bit to each of the given data pins,
// LSB first.
func setLines(pins []gpio.PinOut, value byte) error {
	for i, p := range pins {
		if err := p.Out(gpio.Level(value>>i&1 == 1)); err != nil {
			return err
		}
	}
	return nil
}

func (g *gpioTransport) WriteNibble(rs bool, value byte) error {
	if err := g.rs.Out(gpio.Level(rs)); err != nil {
		return err
	}
	if err := setLines(g.data[:4], value&0x0f); err != nil {
		return err
	}
	return g.strobe()
}

func (g *gpioTransport) WriteByte(rs bool, value byte) error {
	if len(g.data) == 4 {
		if err := g.WriteNibble(rs, value>>4); err != nil {
			return err
		}
		return g.WriteNibble(rs, value&0x0f)
	}
	if err := g.rs.Out(gpio.Level(rs)); err != nil {
		return err
	}
	if err := setLines(g.data, value); err != nil {
		return err
	}
	return g.strobe()
}

func (g *gpioTransport) Width() int {
	return len(g.data)
}

// SetBacklight drives the backlight pin if one was supplied. Most parallel
// wirings tie the backlight permanently on, in which case this is a no-op.
func (g *gpioTransport) SetBacklight(on bool) error {
	if g.backlight == nil {
		return nil
	}
	return g.backlight.Out(gpio.Level(on))
}

func (g *gpioTransport) Halt() error {
	return nil
}

func (g *gpioTransport) String() string {
	return fmt.Sprintf("GPIO%dBit{rs: %s, e: %s}", len(g.data), g.rs, g.e)
}

// setup drives every involved line low and as an output, then waits out
// the controller's power-on time.
func (g *gpioTransport) setup() error {
	pins := append([]gpio.PinOut{g.rs, g.e}, g.data...)
	if g.backlight != nil {
		pins = append(pins, g.backlight)
	}
	for _, p := range pins {
		if err := p.Out(gpio.Low); err != nil {
			return err
		}
	}
	time.Sleep(delayPowerOn)
	return nil
}

var _ Transport = &gpioTransport{}
