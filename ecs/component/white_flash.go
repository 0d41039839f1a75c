package component

// WhiteFlash blinks a hurt knight. The sprite renders white on even phases
// of Interval frames until Frames run out.
type WhiteFlash struct {
	Frames   int
	Interval int
	Elapsed  int
}

// Lit reports whether the current phase draws the sprite white.
func (f *WhiteFlash) Lit() bool {
	if f.Interval <= 0 {
		return true
	}
	return (f.Elapsed/f.Interval)%2 == 0
}

var WhiteFlashComponent = NewComponent[WhiteFlash]()
