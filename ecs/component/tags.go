package component

// PlayerTag marks the knight driven by the local input mapping.
type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type PlatformTag struct{}

var PlatformTagComponent = NewComponent[PlatformTag]()

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()
