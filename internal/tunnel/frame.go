package tunnel

import "image"

// Frame is a row-major RGBA pixel buffer, four bytes per pixel.
type Frame struct {
	Width, Height int
	Pix           []byte
}

// NewFrame allocates a zeroed frame of the given size.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

// Green returns the green channel of pixel (x, y).
func (f *Frame) Green(x, y int) uint8 {
	return f.Pix[(y*f.Width+x)*4+1]
}

// Image wraps the frame without copying. The image aliases Pix.
func (f *Frame) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}
