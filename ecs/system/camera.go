package system

import (
	"github.com/milk9111/heroknight/common"
	"github.com/milk9111/heroknight/ecs"
	"github.com/milk9111/heroknight/ecs/component"
)

type CameraSystem struct {
	camEntity    ecs.Entity
	targetEntity ecs.Entity
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

// Update eases the camera toward the followed knight. A human-controlled
// knight wins over agents.
func (cs *CameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	if !cs.camEntity.Valid() || !w.IsAlive(cs.camEntity) {
		camEntity, ok := w.First(component.CameraComponent.Kind())
		if !ok {
			return
		}
		cs.camEntity = camEntity
	}

	if !cs.targetEntity.Valid() || !w.IsAlive(cs.targetEntity) {
		cs.targetEntity = findCameraTarget(w)
	}

	cam, ok := ecs.Get(w, cs.camEntity, component.CameraComponent.Kind())
	if !ok {
		return
	}
	t, ok := ecs.Get(w, cs.targetEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}

	s := cam.Smoothness
	if s <= 0 || s > 1 {
		s = 1
	}
	cam.X = common.Lerp(cam.X, t.X, s)
	cam.Y = common.Lerp(cam.Y, t.Y, s)
}

func findCameraTarget(w *ecs.World) ecs.Entity {
	if e, ok := w.First(component.PlayerTagComponent.Kind(), component.TransformComponent.Kind()); ok {
		return e
	}
	if e, ok := w.First(component.KnightComponent.Kind(), component.TransformComponent.Kind()); ok {
		return e
	}
	return 0
}
