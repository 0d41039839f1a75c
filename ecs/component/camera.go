package component

// Camera follows the player knight; X and Y are the world point shown at
// the screen centre.
type Camera struct {
	X          float64
	Y          float64
	Smoothness float64
}

var CameraComponent = NewComponent[Camera]()
