package entity

import (
	"fmt"

	"github.com/milk9111/heroknight/ecs"
	"github.com/milk9111/heroknight/ecs/component"
)

const defaultCameraSmoothness = 0.15

func NewCamera(w *ecs.World, smoothness float64) (ecs.Entity, error) {
	if smoothness <= 0 {
		smoothness = defaultCameraSmoothness
	}

	camera := ecs.CreateEntity(w)
	if err := ecs.Add(w, camera, component.CameraTagComponent.Kind(), &component.CameraTag{}); err != nil {
		return 0, fmt.Errorf("camera: add camera tag: %w", err)
	}
	if err := ecs.Add(w, camera, component.CameraComponent.Kind(), &component.Camera{Smoothness: smoothness}); err != nil {
		return 0, fmt.Errorf("camera: add camera component: %w", err)
	}
	return camera, nil
}
