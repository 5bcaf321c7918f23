// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package charlcd_test

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/charlcd"
	"periph.io/x/charlcd/sim"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/gpioioctl"
)

// This example drives a 16x2 module wired directly to GPIO lines in 4 bit
// mode, using periph.io/x/host/gpioioctl to obtain the pins.
func Example() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	chip := gpioioctl.Chips[0]
	// The first four lines drive DB4..DB7, then RS, E and the backlight
	// transistor.
	ls, err := chip.LineSet(gpioioctl.LineOutput, gpio.NoEdge, gpio.PullNoChange,
		"GPIO27", "GPIO22", "GPIO23", "GPIO24", "GPIO17", "GPIO18", "GPIO25")
	if err != nil {
		log.Fatal(err)
	}
	pins := ls.Lines()
	data := make([]gpio.PinOut, 4)
	for i := range data {
		data[i] = pins[i]
	}
	rs := pins[4]
	e := pins[5]
	bl := pins[6]
	dev, err := charlcd.NewGPIO(&charlcd.Opts{Rows: 2, Cols: 16, Backlight: true}, rs, e, bl, data...)
	if err != nil {
		log.Fatal(err)
	}
	if err := dev.Init(); err != nil {
		log.Fatal(err)
	}
	_, _ = dev.WriteString("Hello")
	_ = dev.Position(0, 1)
	_ = dev.Printf("up %s", time.Now().Format("15:04"))
	time.Sleep(5 * time.Second)
	_ = dev.Halt()
}

// This example runs the whole driver against the terminal simulator, no
// hardware required.
func ExampleNew() {
	screen := sim.New(&sim.Opts{Rows: 2, Cols: 16})
	dev, err := charlcd.New(screen, &charlcd.Opts{Rows: 2, Cols: 16})
	if err != nil {
		log.Fatal(err)
	}
	if err := dev.Init(); err != nil {
		log.Fatal(err)
	}
	_, _ = dev.WriteString("Hello")
	_ = dev.Position(0, 1)
	_ = dev.Printf("%5.1fC", 21.5)
	rows := screen.Text()
	_ = dev.Halt()
	for _, row := range rows {
		fmt.Println(strings.TrimRight(row, " "))
	}
	// Output:
	// Hello
	//  21.5C
}

// This example reaches a display through the common PCF8574 I2C backpack
// at its default address.
func ExampleNewI2CBackpack() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	bus, err := i2creg.Open("")
	if err != nil {
		log.Fatalf("failed to open I²C: %v", err)
	}
	defer bus.Close()
	dev, err := charlcd.NewI2CBackpack(bus, 0x27, &charlcd.Opts{Rows: 4, Cols: 20, Backlight: true})
	if err != nil {
		log.Fatal(err)
	}
	if err := dev.Init(); err != nil {
		log.Fatal(err)
	}
	for range 5 {
		_ = dev.Backlight(0)
		time.Sleep(500 * time.Millisecond)
		_ = dev.Backlight(255)
		time.Sleep(500 * time.Millisecond)
	}
	_, _ = dev.WriteString("Hello")
	time.Sleep(5 * time.Second)
	_ = dev.Halt()
}

// This example reaches a display through a 74HC595 shift register on the
// SPI bus.
func ExampleNewSPIBackpack() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	pc, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer pc.Close()
	conn, err := pc.Connect(physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		log.Fatal(err)
	}
	dev, err := charlcd.NewSPIBackpack(conn, &charlcd.Opts{Rows: 2, Cols: 16, Backlight: true})
	if err != nil {
		log.Fatal(err)
	}
	if err := dev.Init(); err != nil {
		log.Fatal(err)
	}
	_, _ = dev.WriteString("Hello")
	time.Sleep(5 * time.Second)
	_ = dev.Halt()
}

// This example rasterizes a rune into one of the eight CGRAM glyph slots
// and displays it.
func ExampleDev_CharDef() {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		log.Fatal(err)
	}
	face := truetype.NewFace(f, &truetype.Options{Size: 8})
	dc := gg.NewContext(5, 8)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(face)
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored("¢", 2.5, 4, 0.5, 0.5)
	pattern := charlcd.GlyphFromImage(dc.Image())

	screen := sim.New(nil)
	dev, err := charlcd.New(screen, &charlcd.Opts{Rows: 2, Cols: 16})
	if err != nil {
		log.Fatal(err)
	}
	if err := dev.Init(); err != nil {
		log.Fatal(err)
	}
	if err := dev.CharDef(0, pattern); err != nil {
		log.Fatal(err)
	}
	// Programming CGRAM leaves the address pointer in CGRAM; move back
	// before writing text.
	_ = dev.Position(0, 0)
	_ = dev.PutChar(0)
	_ = dev.Halt()
}
