package meshaux

import (
	"image"
	"image/color"

	math "github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms1"
)

// A great portion of logic in this file taken from Esme Lamb's (@dedelala)
// excellent color manipulation work presented at Gophercon AU 2024.
// https://github.com/dedelala/disco/tree/main/color

// ColorConversionLinearGradient creates a color conversion function that
// interpolates c0 and c1 in HSV space over a gradient centered along d=0
// that extends gradientLength.
func ColorConversionLinearGradient(gradientLength float32, c0, c1 color.Color) func(d float32) color.Color {
	h0, s0, v0 := colorToHSV(c0)
	h1, s1, v1 := colorToHSV(c1)
	return func(d float32) color.Color {
		blend := d/gradientLength + 0.5
		if blend <= 0 {
			return c0
		} else if blend >= 1 {
			return c1
		}
		h, s, v := interpHSV(h0, s0, v0, h1, s1, v1, blend)
		r, g, b := hsvToRGB(h, s, v)
		c := rgbToC(r, g, b)
		return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 255}
	}
}

// GradientTexture returns a size×size texture that blends from c0 at u=0 to
// c1 at u=1, mirrored so that it tiles without seams.
func GradientTexture(size int, c0, c1 color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	if size <= 0 {
		return img
	}
	conv := ColorConversionLinearGradient(1, c0, c1)
	for x := 0; x < size; x++ {
		u := float32(x) / float32(size)
		// Triangle wave in [-0.5, 0.5] so both texture edges meet at c0.
		d := 1 - 2*math.Abs(u-0.5) - 0.5
		c := conv(d)
		for y := 0; y < size; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func interpHSV(h0, s0, v0, h1, s1, v1, t float32) (h, s, v float32) {
	switch {
	case h1-h0 > 0.5:
		h0 += 1.0
	case h1-h0 < -0.5:
		h1 += 1.0
	}
	h = ms1.Interp(h0, h1, t)
	if h > 1 {
		h -= 1
	}
	s = ms1.Interp(s0, s1, t)
	v = ms1.Interp(v0, v1, t)
	return h, s, v
}

func colorToHSV(c color.Color) (h, s, v float32) {
	r0, g0, b0, _ := c.RGBA()
	return rgbToHSV(float32(r0>>8)/math.MaxUint8, float32(g0>>8)/math.MaxUint8, float32(b0>>8)/math.MaxUint8)
}

// rgbToC converts r, g, and b values on the range of 0.0 to 1.0 to a
// 24 bit RGB value stored in the least significant bits of a uint32. The inputs
// are clamped to the range of 0.0 to 1.0
func rgbToC(r, g, b float32) (c uint32) {
	return uint32(ms1.Clamp(r, 0, 1)*math.MaxUint8+0.5)<<16 |
		uint32(ms1.Clamp(g, 0, 1)*math.MaxUint8+0.5)<<8 |
		uint32(ms1.Clamp(b, 0, 1)*math.MaxUint8+0.5)
}

// hsvToRGB converts hue, saturation and brightness values on the range of 0.0
// to 1.0 to RGB floating point values on the range of 0.0 to 1.0
func hsvToRGB(h, s, v float32) (r, g, b float32) {
	var (
		c = s * v
		x = c * (1 - math.Abs(math.Mod(h*6, 2)-1))
		m = v - c
	)

	switch {
	case h >= 0 && h <= 1.0/6:
		r, g, b = c, x, 0
	case h > 1.0/6 && h <= 2.0/6:
		r, g, b = x, c, 0
	case h > 2.0/6 && h <= 3.0/6:
		r, g, b = 0, c, x
	case h > 3.0/6 && h <= 4.0/6:
		r, g, b = 0, x, c
	case h > 4.0/6 && h <= 5.0/6:
		r, g, b = x, 0, c
	case h > 5.0/6 && h <= 1.0:
		r, g, b = c, 0, x
	}

	r, g, b = r+m, g+m, b+m
	return r, g, b
}

// rgbToHSV converts red, green, and blue floating point values on the range
// 0.0 to 1.0 to hue, saturation and brightness values on the range 0.0 to 1.0
func rgbToHSV(r, g, b float32) (h, s, v float32) {
	var (
		xmax = max(r, g, b)
		xmin = min(r, g, b)
		c    = xmax - xmin
	)
	v = xmax
	switch {
	case c == 0:
		h = 0
	case v == r:
		h = (g - b) / (c * 6)
	case v == g:
		h = 1.0/3 + (b-r)/(c*6)
	case v == b:
		h = 2.0/3 + (r-g)/(c*6)
	}
	if h < 0 {
		h += 1
	}
	if xmax > 0 {
		s = c / xmax
	}
	return
}
