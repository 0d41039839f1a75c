package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/heroknight/common"
	"github.com/milk9111/heroknight/ecs"
	"github.com/milk9111/heroknight/ecs/component"
	"github.com/milk9111/heroknight/knight"
)

const hurtFlashFrames = 24

// KnightSystem runs one resolver pass per knight per step and books the
// reward on the agent.
type KnightSystem struct {
	dt  float64
	log *log.Logger
}

func NewKnightSystem(logger *log.Logger) *KnightSystem {
	if logger == nil {
		logger = log.Default()
	}
	return &KnightSystem{dt: common.FixedDelta, log: logger}
}

func (s *KnightSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.KnightComponent.Kind(), component.ActionInputComponent.Kind(), func(e ecs.Entity, k *component.Knight, in *component.ActionInput) {
		if k.Resolver == nil {
			return
		}
		agent, _ := ecs.Get(w, e, component.AgentComponent.Kind())
		if agent != nil && agent.Done {
			return
		}

		action, err := knight.ActionFromVector(in.Vector)
		if err != nil {
			s.log.Error("knight: rejected action", "entity", e, "source", in.Source, "err", err)
			return
		}

		res := k.Resolver.Step(action, s.dt)
		k.Last = res

		if res.Transition == knight.TransitionHurt {
			_ = ecs.Add(w, e, component.WhiteFlashComponent.Kind(), &component.WhiteFlash{Frames: hurtFlashFrames, Interval: 4})
		}

		if agent == nil {
			return
		}
		if res.Transition != knight.TransitionNone {
			agent.StepCount++
		}
		agent.AddReward(res.Reward)
		if res.Done {
			agent.End(EndReasonDeath)
		}
	})
}
