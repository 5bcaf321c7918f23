// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package charlcd controls character LCD modules built around the Hitachi
// HD44780U controller and compatible clones, wired either directly to GPIO
// lines or through an I²C/SPI port expander backpack.
//
// The controller is write-only in the usual wiring (R/W tied low), so the
// driver never polls the busy flag and instead uses conservative fixed
// delays after every command. A small terminal abstraction is provided on
// top: a logical cursor with line wrap, string and formatted writes, and
// custom CGRAM glyph definition.
//
// Implements periph.io/x/conn/v3/display.TextDisplay,
// display.DisplayBacklight and conn.Resource.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
//
// A good description of the I2C LCD backpack wiring can be found here:
//
// https://www.handsontec.com/dataspecs/I2C_2004_LCD.pdf
package charlcd
