package meshaux

import (
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
)

// LoadTexture decodes a PNG or JPEG image and resamples it to a square
// power-of-two RGBA texture no larger than maxSize, as expected by mipmapped
// OpenGL textures. A zero maxSize defaults to 1024.
func LoadTexture(r io.Reader, maxSize int) (*image.RGBA, error) {
	if maxSize == 0 {
		maxSize = 1024
	} else if maxSize < 0 {
		return nil, errors.New("negative texture size")
	}
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return ResizeTexture(src, maxSize), nil
}

// ResizeTexture resamples src into a square power-of-two RGBA image. The
// side is the smallest power of two covering src's largest dimension,
// capped at maxSize.
func ResizeTexture(src image.Image, maxSize int) *image.RGBA {
	sb := src.Bounds()
	size := TextureSize(max(sb.Dx(), sb.Dy()), maxSize)
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	return dst
}

// TextureSize returns the smallest power of two not less than n, capped at
// the largest power of two not greater than maxSize. The result is at least 1.
func TextureSize(n, maxSize int) int {
	size := 1
	for size < n && size*2 <= maxSize {
		size *= 2
	}
	return size
}
