package system

import (
	"github.com/milk9111/heroknight/ecs"
	"github.com/milk9111/heroknight/ecs/component"
)

// WhiteFlashSystem advances hurt flashes and drops them when done.
type WhiteFlashSystem struct{}

func NewWhiteFlashSystem() *WhiteFlashSystem { return &WhiteFlashSystem{} }

func (s *WhiteFlashSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	var done []ecs.Entity
	ecs.ForEach(w, component.WhiteFlashComponent.Kind(), func(e ecs.Entity, wf *component.WhiteFlash) {
		wf.Elapsed++
		wf.Frames--
		if wf.Frames <= 0 {
			done = append(done, e)
		}
	})
	for _, e := range done {
		ecs.Remove(w, e, component.WhiteFlashComponent.Kind())
	}
}

// TTLSystem drifts short-lived effects and destroys them once expired.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	var expired []ecs.Entity
	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		ttl.Frames--
		if ttl.Frames <= 0 {
			expired = append(expired, e)
			return
		}
		if ttl.RiseY == 0 {
			return
		}
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			t.Y += ttl.RiseY
		}
	})
	for _, e := range expired {
		ecs.DestroyEntity(w, e)
	}
}
