package component

import "image/color"

// SlideDust is the puff a knight leaves while sliding down a wall.
type SlideDust struct {
	Color  color.Color
	Width  float64
	Height float64
	Frames int
}

var SlideDustComponent = NewComponent[SlideDust]()
