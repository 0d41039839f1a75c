package system

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/milk9111/heroknight/ecs"
	"github.com/milk9111/heroknight/ecs/component"
	"github.com/milk9111/heroknight/knight"
)

func quietLogger() *log.Logger {
	l := log.New(io.Discard)
	l.SetLevel(log.FatalLevel)
	return l
}

func TestKnightSystemBooksTransitions(t *testing.T) {
	cases := []struct {
		name       string
		action     knight.Action
		transition knight.Transition
		done       bool
		reason     string
		flash      bool
	}{
		{"idle", knight.Action{}, knight.TransitionIdle, false, "", false},
		{"run", knight.Action{Move: 1}, knight.TransitionRun, false, "", false},
		{"hurt_flashes", knight.Action{Hurt: 1}, knight.TransitionHurt, false, "", true},
		{"death_ends_training_episode", knight.Action{Death: 1}, knight.TransitionDeath, true, EndReasonDeath, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e := newTestKnight(t, w, trainingTuning(100), 0, 0)
			setAction(w, e, c.action)

			NewKnightSystem(quietLogger()).Update(w)

			k, _ := ecs.Get(w, e, component.KnightComponent.Kind())
			if k.Last.Transition != c.transition {
				t.Fatalf("expected %s, got %s", c.transition, k.Last.Transition)
			}
			agent, _ := ecs.Get(w, e, component.AgentComponent.Kind())
			if agent.StepCount != 1 {
				t.Fatalf("expected one step counted, got %d", agent.StepCount)
			}
			if agent.StepReward != k.Last.Reward {
				t.Fatalf("expected step reward %v, got %v", k.Last.Reward, agent.StepReward)
			}
			if agent.Done != c.done || agent.EndReason != c.reason {
				t.Fatalf("expected done=%v reason=%q, got done=%v reason=%q", c.done, c.reason, agent.Done, agent.EndReason)
			}
			if ecs.Has(w, e, component.WhiteFlashComponent.Kind()) != c.flash {
				t.Fatalf("white flash mismatch")
			}
		})
	}
}

func TestKnightSystemRejectsShortVector(t *testing.T) {
	w := ecs.NewWorld()
	e := newTestKnight(t, w, trainingTuning(100), 0, 0)
	in, _ := ecs.Get(w, e, component.ActionInputComponent.Kind())
	in.Vector = []float64{1, 0, 0}

	NewKnightSystem(quietLogger()).Update(w)

	agent, _ := ecs.Get(w, e, component.AgentComponent.Kind())
	if agent.StepCount != 0 || agent.StepReward != 0 {
		t.Fatalf("expected the step skipped, got %+v", agent)
	}
	k, _ := ecs.Get(w, e, component.KnightComponent.Kind())
	if k.Last.Transition != knight.TransitionNone {
		t.Fatalf("expected no transition, got %s", k.Last.Transition)
	}
}

func TestKnightSystemSkipsFinishedAgent(t *testing.T) {
	w := ecs.NewWorld()
	e := newTestKnight(t, w, trainingTuning(100), 0, 0)
	agent, _ := ecs.Get(w, e, component.AgentComponent.Kind())
	agent.End(EndReasonReset)
	setAction(w, e, knight.Action{Move: 1})

	NewKnightSystem(quietLogger()).Update(w)

	if agent.StepCount != 0 {
		t.Fatalf("expected no step for a finished agent")
	}
}
