package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// Until the physics system has created Body, position and velocity are kept
// on the struct so the resolver can run headless.
type PhysicsBody struct {
	Body       *cp.Body
	Shape      *cp.Shape
	Width      float64
	Height     float64
	Radius     float64
	Mass       float64
	Friction   float64
	Elasticity float64
	Static     bool
	Sensor     bool

	x, y   float64
	vx, vy float64
}

// Position returns the body centre in world units.
func (p *PhysicsBody) Position() (float64, float64) {
	if p.Body != nil {
		pos := p.Body.Position()
		return pos.X, pos.Y
	}
	return p.x, p.y
}

// SetPosition teleports the body.
func (p *PhysicsBody) SetPosition(x, y float64) {
	p.x, p.y = x, y
	if p.Body != nil {
		p.Body.SetPosition(cp.Vector{X: x, Y: y})
	}
}

// Velocity returns the linear velocity in world units per second.
func (p *PhysicsBody) Velocity() (float64, float64) {
	if p.Body != nil {
		v := p.Body.Velocity()
		return v.X, v.Y
	}
	return p.vx, p.vy
}

func (p *PhysicsBody) SetVelocity(x, y float64) {
	p.vx, p.vy = x, y
	if p.Body != nil {
		p.Body.SetVelocity(x, y)
	}
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
