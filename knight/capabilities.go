package knight

import (
	"errors"
	"fmt"
)

// Body is the physics body the knight drives. Velocity is in world units per
// second with +Y up.
type Body interface {
	Position() (x, y float64)
	Velocity() (x, y float64)
	SetVelocity(x, y float64)
}

// Animator receives animation parameters. Names match the clip controller
// used by the animation system.
type Animator interface {
	SetTrigger(name string)
	SetBool(name string, v bool)
	SetInteger(name string, v int)
	SetFloat(name string, v float64)
}

// Sensor reports whether a trigger volume currently overlaps something solid.
type Sensor interface {
	State() bool
}

// GroundSensor is a Sensor that can be switched off for a while so a jump
// does not immediately re-ground the knight.
type GroundSensor interface {
	Sensor
	Disable(seconds float64)
}

// SpriteFlipper mirrors the knight sprite horizontally.
type SpriteFlipper interface {
	SetFlipX(flip bool)
}

// Capabilities bundles everything the resolver touches outside itself.
type Capabilities struct {
	Body     Body
	Animator Animator
	Ground   GroundSensor
	WallR1   Sensor
	WallR2   Sensor
	WallL1   Sensor
	WallL2   Sensor
	Sprite   SpriteFlipper
}

var ErrMissingCapability = errors.New("knight: missing capability")

// Validate reports the first capability that was not wired.
func (c Capabilities) Validate() error {
	checks := []struct {
		name string
		ok   bool
	}{
		{"body", c.Body != nil},
		{"animator", c.Animator != nil},
		{"ground sensor", c.Ground != nil},
		{"wall sensor R1", c.WallR1 != nil},
		{"wall sensor R2", c.WallR2 != nil},
		{"wall sensor L1", c.WallL1 != nil},
		{"wall sensor L2", c.WallL2 != nil},
		{"sprite", c.Sprite != nil},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%w: %s", ErrMissingCapability, chk.name)
		}
	}
	return nil
}

func (c Capabilities) wallSliding() bool {
	return (c.WallR1.State() && c.WallR2.State()) || (c.WallL1.State() && c.WallL2.State())
}
