package system

import (
	"github.com/milk9111/heroknight/common"
	"github.com/milk9111/heroknight/ecs"
	"github.com/milk9111/heroknight/ecs/component"
	"github.com/milk9111/heroknight/knight"
)

const (
	clipIdle         = "idle"
	clipRun          = "run"
	clipJump         = "jump"
	clipFall         = "fall"
	clipBlock        = "block"
	clipIdleBlock    = "idle_block"
	clipRoll         = "roll"
	clipHurt         = "hurt"
	clipDeath        = "death"
	clipDeathNoBlood = "death_no_blood"
	clipWallSlide    = "wall_slide"

	// wall slide frame that kicks up dust
	slideDustFrame = 2
)

// triggerClips is checked in order; the first pending trigger wins.
var triggerClips = []struct {
	trigger string
	clip    string
}{
	{knight.TriggerDeath, clipDeath},
	{knight.TriggerHurt, clipHurt},
	{knight.AttackTrigger(1), "attack1"},
	{knight.AttackTrigger(2), "attack2"},
	{knight.AttackTrigger(3), "attack3"},
	{knight.TriggerBlock, clipBlock},
	{knight.TriggerRoll, clipRoll},
	{knight.TriggerJump, clipJump},
}

// AnimationSystem turns animator parameters into the current clip and
// advances frames. A finished roll clip is the knight's roll-complete event.
type AnimationSystem struct {
	dt float64
}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{dt: common.FixedDelta}
}

func (a *AnimationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.AnimatorComponent.Kind(), component.SpriteComponent.Kind(), func(e ecs.Entity, anim *component.Animator, sprite *component.Sprite) {
		k, _ := ecs.Get(w, e, component.KnightComponent.Kind())

		a.selectClip(anim, k)

		def, ok := anim.Defs[anim.Current]
		if !ok {
			return
		}
		if def.Color != nil {
			sprite.Color = def.Color
		}
		if !anim.Playing || def.FrameCount <= 0 || def.FPS <= 0 {
			return
		}

		anim.FrameTimer += a.dt
		frameTime := 1 / def.FPS
		for anim.FrameTimer >= frameTime && anim.Playing {
			anim.FrameTimer -= frameTime
			anim.Frame++
			if anim.Frame >= def.FrameCount {
				if def.Loop {
					anim.Frame = 0
				} else {
					anim.Frame = def.FrameCount - 1
					anim.Playing = false
					a.clipFinished(anim, k)
				}
			}
			if anim.Current == clipWallSlide && anim.Frame == slideDustFrame {
				spawnSlideDust(w, e)
			}
		}
	})
}

func (a *AnimationSystem) selectClip(anim *component.Animator, k *component.Knight) {
	for _, tc := range triggerClips {
		if !anim.ConsumeTrigger(tc.trigger) {
			continue
		}
		clip := tc.clip
		if clip == clipDeath && anim.Bools[knight.ParamNoBlood] {
			clip = clipDeathNoBlood
		}
		a.play(anim, k, clip)
		clear(anim.Triggers)
		return
	}

	if anim.Playing && a.oneShot(anim.Current) {
		return
	}
	if anim.Current == clipDeath || anim.Current == clipDeathNoBlood {
		if k != nil && k.Resolver != nil && k.Resolver.State().Dead {
			return
		}
	}

	next := baseClip(anim)
	if next != anim.Current {
		a.play(anim, k, next)
	}
}

// play switches clips. Cutting a roll short still completes it, otherwise
// the knight could never roll again.
func (a *AnimationSystem) play(anim *component.Animator, k *component.Knight, clip string) {
	if anim.Current == clipRoll && anim.Playing {
		a.clipFinished(anim, k)
	}
	anim.Play(clip)
}

func (a *AnimationSystem) oneShot(clip string) bool {
	switch clip {
	case clipIdle, clipRun, clipFall, clipIdleBlock, clipWallSlide:
		return false
	}
	return true
}

func (a *AnimationSystem) clipFinished(anim *component.Animator, k *component.Knight) {
	if anim.Current == clipRoll && k != nil && k.Resolver != nil {
		k.Resolver.CompleteRoll()
	}
}

// baseClip is the looping clip implied by the animator parameters.
func baseClip(anim *component.Animator) string {
	grounded := anim.Bools[knight.ParamGrounded]
	switch {
	case !grounded && anim.Bools[knight.ParamWallSlide]:
		return clipWallSlide
	case !grounded:
		return clipFall
	case anim.Bools[knight.ParamIdleBlock]:
		return clipIdleBlock
	case anim.Ints[knight.ParamAnimState] == int(knight.AnimRun):
		return clipRun
	default:
		return clipIdle
	}
}

func spawnSlideDust(w *ecs.World, knightEntity ecs.Entity) {
	dust, ok := ecs.Get(w, knightEntity, component.SlideDustComponent.Kind())
	if !ok {
		return
	}
	t, ok := ecs.Get(w, knightEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}
	body, ok := ecs.Get(w, knightEntity, component.PhysicsBodyComponent.Kind())
	if !ok {
		return
	}

	// dust comes off the lower wall probe on the facing side
	side := 1.0
	if k, ok := ecs.Get(w, knightEntity, component.KnightComponent.Kind()); ok && k.Resolver != nil {
		side = float64(k.Resolver.State().Facing)
	}
	x := t.X + side*body.Width/2
	y := t.Y - body.Height/4

	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, ScaleX: side, ScaleY: 1})
	_ = ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{Color: dust.Color, Width: dust.Width, Height: dust.Height, FlipX: side < 0})
	_ = ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: 15})
	_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: dust.Frames, Total: dust.Frames})
}
