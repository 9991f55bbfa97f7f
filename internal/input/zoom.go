package input

import (
	"math"

	"github.com/1broseidon/tinygadget/internal/platform"
)

// Minimum window size a zoom can produce, in logical units.
const (
	MinWidth  = 128
	MinHeight = 128
)

// Wheel zoom steps.
const (
	ZoomInFactor  = 1.1
	ZoomOutFactor = 0.9
)

// ScrollFactor maps a wheel delta to a zoom factor.
func ScrollFactor(deltaY float64) float64 {
	if deltaY > 0 {
		return ZoomInFactor
	}
	return ZoomOutFactor
}

// Zoom scales b by factor around its center. Width and height never drop
// below MinWidth and MinHeight; there is no upper bound. Non-positive and NaN
// factors collapse onto the floor. An infinite factor leaves b unchanged.
func Zoom(b platform.Bounds, factor float64) platform.Bounds {
	if math.IsInf(factor, 0) {
		return b
	}
	if math.IsNaN(factor) || factor < 0 {
		factor = 0
	}
	cx, cy := b.Center()
	w := math.Max(b.Width*factor, MinWidth)
	h := math.Max(b.Height*factor, MinHeight)
	return platform.Bounds{
		X:      cx - w/2,
		Y:      cy - h/2,
		Width:  w,
		Height: h,
	}
}
