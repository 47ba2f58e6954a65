package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-progressive-integrator/pkg/core"
)

// ToneMap converts mean linear radiance to a display value in [0,1]:
// mean^(1/gamma), clamped. NaN, infinite and negative components map to 0.
func ToneMap(mean core.Vec3, gamma float64) core.Vec3 {
	mean, _ = sanitize(mean)
	return mean.GammaCorrect(gamma).Clamp(0.0, 1.0)
}

// ToRGBA converts mean linear radiance to an opaque 8-bit pixel, rounding to
// the nearest level
func ToRGBA(mean core.Vec3, gamma float64) color.RGBA {
	display := ToneMap(mean, gamma)
	return color.RGBA{
		R: uint8(255*display.X + 0.5),
		G: uint8(255*display.Y + 0.5),
		B: uint8(255*display.Z + 0.5),
		A: 255,
	}
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of the
// displayed pixels, in [0,1]
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	if bounds.Empty() {
		return 0
	}

	var total float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += 0.2126*float64(c.R)/255 + 0.7152*float64(c.G)/255 + 0.0722*float64(c.B)/255
		}
	}
	return total / float64(bounds.Dx()*bounds.Dy())
}
