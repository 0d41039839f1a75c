package system

import (
	"testing"

	"github.com/milk9111/heroknight/ecs"
	"github.com/milk9111/heroknight/ecs/component"
)

func TestGoalRewardFor(t *testing.T) {
	cases := []struct {
		name    string
		goal    string
		maxStep int
		want    float64
		ok      bool
	}{
		{"short_normalized", "goal-short", 100, 0.01, true},
		{"long_high_normalized", "goal-long-high", 1000, 0.005, true},
		{"unlimited_raw_value", "goal-mid", 0, 3, true},
		{"unknown", "goal-moon", 100, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := GoalRewardFor(c.goal, c.maxStep)
			if ok != c.ok {
				t.Fatalf("expected ok=%v, got %v", c.ok, ok)
			}
			if diff := got - c.want; diff > 1e-12 || diff < -1e-12 {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestGoalSystemEndsEpisode(t *testing.T) {
	w := ecs.NewWorld()
	e := newTestKnight(t, w, trainingTuning(100), 0, 0)
	g := ecs.CreateEntity(w)
	mustAdd(t, ecs.Add(w, g, component.GoalComponent.Kind(), &component.Goal{Name: "goal-long"}))

	var reached []string
	sys := NewGoalSystem()
	sys.OnGoal = func(name string) { reached = append(reached, name) }

	// the same goal reported twice in one step pays once
	pushCollision(w, ecs.CollisionEventGoal, e, g)
	pushCollision(w, ecs.CollisionEventGoal, e, g)
	sys.Update(w)

	agent, _ := ecs.Get(w, e, component.AgentComponent.Kind())
	if !agent.Done || agent.EndReason != EndReasonGoal+"goal-long" {
		t.Fatalf("expected goal to end the episode, got %+v", agent)
	}
	if agent.StepReward != 0.04 || agent.Goals != 1 {
		t.Fatalf("expected a single 0.04 payout, got reward=%v goals=%d", agent.StepReward, agent.Goals)
	}
	if len(reached) != 1 || reached[0] != "goal-long" {
		t.Fatalf("expected OnGoal once, got %v", reached)
	}
}

func TestGoalSystemIgnoresUnknownGoal(t *testing.T) {
	w := ecs.NewWorld()
	e := newTestKnight(t, w, trainingTuning(100), 0, 0)
	g := ecs.CreateEntity(w)
	mustAdd(t, ecs.Add(w, g, component.GoalComponent.Kind(), &component.Goal{Name: "nowhere"}))

	pushCollision(w, ecs.CollisionEventGoal, e, g)
	NewGoalSystem().Update(w)

	agent, _ := ecs.Get(w, e, component.AgentComponent.Kind())
	if agent.Done || agent.StepReward != 0 {
		t.Fatalf("expected nothing for an unknown goal, got %+v", agent)
	}
}
