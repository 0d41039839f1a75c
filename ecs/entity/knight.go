package entity

import (
	"fmt"
	"image/color"

	"github.com/milk9111/heroknight/ecs"
	"github.com/milk9111/heroknight/ecs/component"
	"github.com/milk9111/heroknight/knight"
	"github.com/milk9111/heroknight/prefabs"
	"golang.org/x/image/colornames"
)

// KnightOptions adjusts a knight built from its prefab.
type KnightOptions struct {
	// Player marks the knight as driven by local input instead of a policy.
	Player bool
	// MaxStep overrides the prefab's step limit when positive.
	MaxStep int
	// Training overrides the prefab's training flag when set.
	Training *bool
}

// NewKnight builds a hero knight from knight.yaml and wires its resolver to
// the entity's own components.
func NewKnight(w *ecs.World, opts KnightOptions) (ecs.Entity, error) {
	spec, err := prefabs.LoadKnightSpec()
	if err != nil {
		return 0, fmt.Errorf("knight: load spec: %w", err)
	}
	return NewKnightFromSpec(w, spec, opts)
}

func NewKnightFromSpec(w *ecs.World, spec *prefabs.KnightSpec, opts KnightOptions) (ecs.Entity, error) {
	if spec == nil {
		return 0, fmt.Errorf("knight: nil spec")
	}

	tuning := spec.Tuning.Tuning()
	if opts.MaxStep > 0 {
		tuning.MaxStep = opts.MaxStep
	}
	if opts.Training != nil {
		tuning.TrainingMode = *opts.Training
	}

	e := ecs.CreateEntity(w)
	fail := func(what string, err error) (ecs.Entity, error) {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("knight: add %s: %w", what, err)
	}

	transform := &component.Transform{
		X:        spec.Transform.X,
		Y:        spec.Transform.Y,
		ScaleX:   orOne(spec.Transform.ScaleX),
		ScaleY:   orOne(spec.Transform.ScaleY),
		Rotation: spec.Transform.Rotation,
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), transform); err != nil {
		return fail("transform", err)
	}

	body := &component.PhysicsBody{
		Width:    spec.Collider.Width,
		Height:   spec.Collider.Height,
		Mass:     spec.Collider.Mass,
		Friction: spec.Collider.Friction,
	}
	body.SetPosition(transform.X, transform.Y)
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), body); err != nil {
		return fail("physics body", err)
	}

	ground := &component.GroundSensor{Width: spec.GroundSensor.Width, Height: spec.GroundSensor.Height}
	if err := ecs.Add(w, e, component.GroundSensorComponent.Kind(), ground); err != nil {
		return fail("ground sensor", err)
	}
	walls := &component.WallSensors{Width: spec.WallSensor.Width, Height: spec.WallSensor.Height}
	if err := ecs.Add(w, e, component.WallSensorsComponent.Kind(), walls); err != nil {
		return fail("wall sensors", err)
	}

	sprite := &component.Sprite{
		Color:  spec.Sprite.Color.Or(colornames.Lightsteelblue),
		Width:  spec.Sprite.Width,
		Height: spec.Sprite.Height,
	}
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), sprite); err != nil {
		return fail("sprite", err)
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.RenderLayer.Index}); err != nil {
		return fail("render layer", err)
	}

	anim := component.NewAnimator(animationDefs(spec.Animation, sprite.Color), spec.Animation.Current)
	if anim.Current == "" {
		anim.Current = "idle"
	}
	if err := ecs.Add(w, e, component.AnimatorComponent.Kind(), anim); err != nil {
		return fail("animator", err)
	}

	dust := &component.SlideDust{
		Color:  spec.SlideDust.Color.Or(colornames.Wheat),
		Width:  spec.SlideDust.Width,
		Height: spec.SlideDust.Height,
		Frames: spec.SlideDust.Frames,
	}
	if err := ecs.Add(w, e, component.SlideDustComponent.Kind(), dust); err != nil {
		return fail("slide dust", err)
	}

	resolver, err := knight.NewResolver(tuning, knight.Capabilities{
		Body:     body,
		Animator: anim,
		Ground:   ground,
		WallR1:   &walls.R1,
		WallR2:   &walls.R2,
		WallL1:   &walls.L1,
		WallL2:   &walls.L2,
		Sprite:   sprite,
	})
	if err != nil {
		return fail("resolver", err)
	}
	if err := ecs.Add(w, e, component.KnightComponent.Kind(), &component.Knight{
		Resolver: resolver,
		SpawnX:   transform.X,
		SpawnY:   transform.Y,
	}); err != nil {
		return fail("knight", err)
	}

	if err := ecs.Add(w, e, component.AgentComponent.Kind(), &component.Agent{MaxStep: tuning.MaxStep}); err != nil {
		return fail("agent", err)
	}
	if err := ecs.Add(w, e, component.ActionInputComponent.Kind(), &component.ActionInput{
		Vector: make([]float64, knight.ExtendedActionSize),
	}); err != nil {
		return fail("action input", err)
	}

	if opts.Player {
		if err := ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
			return fail("player tag", err)
		}
	}

	return e, nil
}

func animationDefs(spec prefabs.AnimationSpec, fallback color.Color) map[string]component.AnimationDef {
	defs := make(map[string]component.AnimationDef, len(spec.Defs))
	for name, d := range spec.Defs {
		defs[name] = component.AnimationDef{
			Name:       name,
			FrameCount: d.FrameCount,
			FPS:        d.FPS,
			Loop:       d.Loop,
			Color:      d.Color.Or(fallback),
		}
	}
	return defs
}

// ApplyTuning pushes a reloaded knight prefab's tuning onto every knight,
// keeping per-run overrides for the step limit and training flag.
func ApplyTuning(w *ecs.World, spec *prefabs.KnightSpec) int {
	if spec == nil {
		return 0
	}
	n := 0
	ecs.ForEach(w, component.KnightComponent.Kind(), func(_ ecs.Entity, k *component.Knight) {
		if k.Resolver == nil {
			return
		}
		old := k.Resolver.Tuning()
		t := spec.Tuning.Tuning()
		t.MaxStep = old.MaxStep
		t.TrainingMode = old.TrainingMode
		k.Resolver.SetTuning(t)
		n++
	})
	return n
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
