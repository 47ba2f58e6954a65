package renderer

import (
	"image"

	"golang.org/x/image/draw"
)

// Frame is a display-ready image. A published frame is never written again.
type Frame struct {
	Width, Height int
	Pixels        *image.RGBA
}

// NewFrame creates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// ToneMapFrame produces a frame from the current accumulated means
func ToneMapFrame(buf *AccumulationBuffer, gamma float64) *Frame {
	frame := NewFrame(buf.Width(), buf.Height())
	for y := 0; y < buf.Height(); y++ {
		for x := 0; x < buf.Width(); x++ {
			frame.Pixels.SetRGBA(x, y, ToRGBA(buf.Mean(x, y), gamma))
		}
	}
	return frame
}

// Resize returns a bilinear rescale of the frame, used as a preview while
// the accumulation restarts at the new size
func (f *Frame) Resize(width, height int) *Frame {
	resized := NewFrame(width, height)
	draw.ApproxBiLinear.Scale(resized.Pixels, resized.Pixels.Bounds(), f.Pixels, f.Pixels.Bounds(), draw.Src, nil)
	return resized
}
