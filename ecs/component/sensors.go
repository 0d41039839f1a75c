package component

// GroundSensor is the trigger volume under the knight's feet. While the
// disable timer runs it reports no contact.
type GroundSensor struct {
	Contact      bool
	DisableTimer float64
	Width        float64
	Height       float64
}

func (g *GroundSensor) State() bool {
	return g.Contact && g.DisableTimer <= 0
}

func (g *GroundSensor) Disable(seconds float64) {
	if seconds > g.DisableTimer {
		g.DisableTimer = seconds
	}
}

var GroundSensorComponent = NewComponent[GroundSensor]()

type WallContact struct {
	Contact bool
}

func (c *WallContact) State() bool {
	return c.Contact
}

// WallSensors are the two stacked probes on each side of the knight.
type WallSensors struct {
	R1, R2 WallContact
	L1, L2 WallContact
	Width  float64
	Height float64
}

func (ws *WallSensors) Clear() {
	ws.R1.Contact, ws.R2.Contact = false, false
	ws.L1.Contact, ws.L2.Contact = false, false
}

var WallSensorsComponent = NewComponent[WallSensors]()
