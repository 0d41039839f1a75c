package system

import (
	"image/color"
	"testing"

	"github.com/milk9111/heroknight/ecs"
	"github.com/milk9111/heroknight/ecs/component"
	"github.com/milk9111/heroknight/knight"
)

var testClips = map[string]component.AnimationDef{
	clipIdle:         {Name: clipIdle, FrameCount: 4, FPS: 10, Loop: true},
	clipRun:          {Name: clipRun, FrameCount: 4, FPS: 10, Loop: true},
	clipJump:         {Name: clipJump, FrameCount: 2, FPS: 10},
	clipFall:         {Name: clipFall, FrameCount: 2, FPS: 10, Loop: true},
	"attack1":        {Name: "attack1", FrameCount: 3, FPS: 20},
	"attack2":        {Name: "attack2", FrameCount: 3, FPS: 20},
	"attack3":        {Name: "attack3", FrameCount: 3, FPS: 20},
	clipBlock:        {Name: clipBlock, FrameCount: 2, FPS: 20},
	clipIdleBlock:    {Name: clipIdleBlock, FrameCount: 2, FPS: 10, Loop: true},
	clipRoll:         {Name: clipRoll, FrameCount: 3, FPS: 60},
	clipHurt:         {Name: clipHurt, FrameCount: 2, FPS: 20},
	clipDeath:        {Name: clipDeath, FrameCount: 2, FPS: 20},
	clipDeathNoBlood: {Name: clipDeathNoBlood, FrameCount: 2, FPS: 20},
	clipWallSlide:    {Name: clipWallSlide, FrameCount: 4, FPS: 60, Loop: true},
}

// newTestKnight assembles a knight the same way the entity builder does,
// without touching prefabs.
func newTestKnight(t *testing.T, w *ecs.World, tuning knight.Tuning, x, y float64) ecs.Entity {
	t.Helper()

	e := ecs.CreateEntity(w)
	body := &component.PhysicsBody{Width: 0.6, Height: 1.2, Mass: 1}
	body.SetPosition(x, y)
	ground := &component.GroundSensor{Width: 0.5, Height: 0.1}
	walls := &component.WallSensors{Width: 0.1, Height: 0.3}
	sprite := &component.Sprite{Color: color.White, Width: 0.6, Height: 1.2}
	anim := component.NewAnimator(testClips, clipIdle)

	r, err := knight.NewResolver(tuning, knight.Capabilities{
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
		t.Fatalf("NewResolver: %v", err)
	}

	mustAdd(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}))
	mustAdd(t, ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), body))
	mustAdd(t, ecs.Add(w, e, component.GroundSensorComponent.Kind(), ground))
	mustAdd(t, ecs.Add(w, e, component.WallSensorsComponent.Kind(), walls))
	mustAdd(t, ecs.Add(w, e, component.SpriteComponent.Kind(), sprite))
	mustAdd(t, ecs.Add(w, e, component.AnimatorComponent.Kind(), anim))
	mustAdd(t, ecs.Add(w, e, component.SlideDustComponent.Kind(), &component.SlideDust{Color: color.White, Width: 0.3, Height: 0.3, Frames: 10}))
	mustAdd(t, ecs.Add(w, e, component.KnightComponent.Kind(), &component.Knight{Resolver: r, SpawnX: x, SpawnY: y}))
	mustAdd(t, ecs.Add(w, e, component.AgentComponent.Kind(), &component.Agent{MaxStep: tuning.MaxStep}))
	mustAdd(t, ecs.Add(w, e, component.ActionInputComponent.Kind(), &component.ActionInput{Vector: make([]float64, knight.ExtendedActionSize)}))
	return e
}

func mustAdd(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("add component: %v", err)
	}
}

func setAction(w *ecs.World, e ecs.Entity, a knight.Action) {
	in, _ := ecs.Get(w, e, component.ActionInputComponent.Kind())
	in.Vector = a.Vector()
}

func trainingTuning(maxStep int) knight.Tuning {
	t := knight.DefaultTuning()
	t.MaxStep = maxStep
	t.TrainingMode = true
	return t
}

func pushCollision(w *ecs.World, kind ecs.CollisionEventKind, knightEntity, other ecs.Entity) {
	w.Events().Push(ecs.Event{
		Type: ecs.EventCollision,
		Data: ecs.CollisionEvent{Entity: knightEntity, Other: other, Kind: kind},
	})
}
