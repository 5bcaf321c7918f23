// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package charlcd

import "image"

// GlyphFromImage samples the top-left 5x8 region of img into a CGRAM
// pattern suitable for CharDef. A pixel is lit when it is opaque and
// darker than 50% luminance, so glyphs drawn black on white come out the
// right way around. Pixels outside the image bounds stay off.
func GlyphFromImage(img image.Image) [8]byte {
	var pattern [8]byte
	b := img.Bounds()
	for y := 0; y < 8; y++ {
		for x := 0; x < 5; x++ {
			p := image.Pt(b.Min.X+x, b.Min.Y+y)
			if !p.In(b) {
				continue
			}
			r, g, bl, a := img.At(p.X, p.Y).RGBA()
			if a == 0 {
				continue
			}
			// ITU-R BT.601 luma.
			if (299*r+587*g+114*bl)/1000 < 0x8000 {
				pattern[y] |= 1 << (4 - x)
			}
		}
	}
	return pattern
}
