package component

// LevelBounds stores the world-space bounds of the current level. Anything
// below KillPlaneY has fallen out.
type LevelBounds struct {
	Width      float64
	Height     float64
	KillPlaneY float64
}

var LevelBoundsComponent = NewComponent[LevelBounds]()
