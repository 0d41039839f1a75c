package entity

import (
	"fmt"

	"github.com/milk9111/heroknight/ecs"
	"github.com/milk9111/heroknight/ecs/component"
	"github.com/milk9111/heroknight/prefabs"
	"golang.org/x/image/colornames"
)

const (
	platformLayer = 0
	goalLayer     = 5
)

// Level is what NewLevel created.
type Level struct {
	Bounds    ecs.Entity
	Camera    ecs.Entity
	Platforms []ecs.Entity
	Goals     []ecs.Entity
}

// NewLevel builds the training ground from level.yaml.
func NewLevel(w *ecs.World) (*Level, error) {
	spec, err := prefabs.LoadLevelSpec()
	if err != nil {
		return nil, fmt.Errorf("level: load spec: %w", err)
	}
	return NewLevelFromSpec(w, spec)
}

func NewLevelFromSpec(w *ecs.World, spec *prefabs.LevelSpec) (*Level, error) {
	if spec == nil {
		return nil, fmt.Errorf("level: nil spec")
	}

	lvl := &Level{}

	lvl.Bounds = ecs.CreateEntity(w)
	if err := ecs.Add(w, lvl.Bounds, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Width:      spec.Width,
		Height:     spec.Height,
		KillPlaneY: spec.KillPlaneY,
	}); err != nil {
		return nil, fmt.Errorf("level: add bounds: %w", err)
	}

	platformColor := spec.PlatformColor.Or(colornames.Dimgray)
	for i, p := range spec.Platforms {
		if p.Width <= 0 || p.Height <= 0 {
			return nil, fmt.Errorf("level: platform %d has no area", i)
		}
		e := ecs.CreateEntity(w)
		if err := addStaticBox(w, e, p.X, p.Y, p.Width, p.Height, false); err != nil {
			return nil, fmt.Errorf("level: platform %d: %w", i, err)
		}
		if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{Color: platformColor, Width: p.Width, Height: p.Height}); err != nil {
			return nil, fmt.Errorf("level: platform %d: add sprite: %w", i, err)
		}
		if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: platformLayer}); err != nil {
			return nil, fmt.Errorf("level: platform %d: add render layer: %w", i, err)
		}
		if err := ecs.Add(w, e, component.PlatformTagComponent.Kind(), &component.PlatformTag{}); err != nil {
			return nil, fmt.Errorf("level: platform %d: add tag: %w", i, err)
		}
		lvl.Platforms = append(lvl.Platforms, e)
	}

	goalColor := spec.GoalColor.Or(colornames.Limegreen)
	for _, g := range spec.Goals {
		e := ecs.CreateEntity(w)
		if err := addStaticBox(w, e, g.X, g.Y, g.Width, g.Height, true); err != nil {
			return nil, fmt.Errorf("level: goal %s: %w", g.Name, err)
		}
		if err := ecs.Add(w, e, component.GoalComponent.Kind(), &component.Goal{Name: g.Name, Width: g.Width, Height: g.Height}); err != nil {
			return nil, fmt.Errorf("level: goal %s: add goal: %w", g.Name, err)
		}
		if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{Color: goalColor, Width: g.Width, Height: g.Height}); err != nil {
			return nil, fmt.Errorf("level: goal %s: add sprite: %w", g.Name, err)
		}
		if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: goalLayer}); err != nil {
			return nil, fmt.Errorf("level: goal %s: add render layer: %w", g.Name, err)
		}
		lvl.Goals = append(lvl.Goals, e)
	}

	cam, err := NewCamera(w, spec.Camera.Smoothness)
	if err != nil {
		return nil, err
	}
	lvl.Camera = cam

	return lvl, nil
}

func addStaticBox(w *ecs.World, e ecs.Entity, x, y, width, height float64, sensor bool) error {
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}); err != nil {
		return fmt.Errorf("add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:  width,
		Height: height,
		Static: true,
		Sensor: sensor,
	}); err != nil {
		return fmt.Errorf("add physics body: %w", err)
	}
	return nil
}
