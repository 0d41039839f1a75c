package system

import (
	"github.com/milk9111/heroknight/ecs"
	"github.com/milk9111/heroknight/ecs/component"
	"github.com/milk9111/heroknight/knight"
)

// GoalSystem pays out graduated goal rewards and ends the episode.
type GoalSystem struct {
	// OnGoal, when set, is told about every goal reached.
	OnGoal func(name string)
}

func NewGoalSystem() *GoalSystem {
	return &GoalSystem{}
}

// GoalRewardFor scales a goal's value by the per-step normalization. With an
// unlimited episode the raw value is granted.
func GoalRewardFor(name string, maxStep int) (float64, bool) {
	v, ok := knight.GoalReward(name)
	if !ok {
		return 0, false
	}
	if norm := knight.Norm(maxStep); norm > 0 {
		return v * norm, true
	}
	return v, true
}

func (s *GoalSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for _, ev := range w.Events().Collisions(ecs.CollisionEventGoal) {
		goal, ok := ecs.Get(w, ev.Other, component.GoalComponent.Kind())
		if !ok {
			continue
		}
		agent, ok := ecs.Get(w, ev.Entity, component.AgentComponent.Kind())
		if !ok || agent.Done {
			continue
		}
		reward, ok := GoalRewardFor(goal.Name, agent.MaxStep)
		if !ok {
			continue
		}
		agent.AddReward(reward)
		agent.Goals++
		agent.End(EndReasonGoal + goal.Name)
		if s.OnGoal != nil {
			s.OnGoal(goal.Name)
		}
	}
}
