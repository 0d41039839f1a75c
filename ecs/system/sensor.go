package system

import (
	"github.com/milk9111/heroknight/common"
	"github.com/milk9111/heroknight/ecs"
	"github.com/milk9111/heroknight/ecs/component"
)

// SensorSystem counts down ground sensor disable timers.
type SensorSystem struct {
	dt float64
}

func NewSensorSystem() *SensorSystem {
	return &SensorSystem{dt: common.FixedDelta}
}

func (s *SensorSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.GroundSensorComponent.Kind(), func(_ ecs.Entity, g *component.GroundSensor) {
		if g.DisableTimer <= 0 {
			return
		}
		g.DisableTimer -= s.dt
		if g.DisableTimer < 0 {
			g.DisableTimer = 0
		}
	})
}
