package common

// Screen and simulation constants shared by the game and the trainer.
const (
	BaseWidth  = 640
	BaseHeight = 360

	// PixelsPerUnit converts world units (+Y up) to screen pixels.
	PixelsPerUnit = 32.0

	// TPS is the number of simulation steps per second.
	TPS = 60

	// FixedDelta is the simulation step in seconds.
	FixedDelta = 1.0 / TPS

	// Gravity in world units per second squared.
	Gravity = -20.0
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WorldToScreen maps a world position to screen pixels for a camera centred
// on (camX, camY).
func WorldToScreen(x, y, camX, camY float64) (float64, float64) {
	sx := (x-camX)*PixelsPerUnit + BaseWidth/2
	sy := BaseHeight/2 - (y-camY)*PixelsPerUnit
	return sx, sy
}
