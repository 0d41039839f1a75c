package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/heroknight/ecs"
	"github.com/milk9111/heroknight/ecs/component"
	"github.com/milk9111/heroknight/knight"
)

// Episode end reasons.
const (
	EndReasonDeath   = "death"
	EndReasonFell    = "fell"
	EndReasonMaxStep = "max_step"
	EndReasonGoal    = "goal:"
	EndReasonReset   = "reset"
)

// EpisodeRecord summarizes a finished episode.
type EpisodeRecord struct {
	Entity  ecs.Entity
	Episode int
	Steps   int
	Reward  float64
	Coins   int
	Goals   int
	Reason  string
}

// EpisodeSink receives every finished episode.
type EpisodeSink func(EpisodeRecord)

// EpisodeSystem applies the fall and step-limit rules, then closes finished
// episodes: it reports them, puts the knight back at its spawn point and
// draws a new coin wave.
type EpisodeSystem struct {
	sinks []EpisodeSink
	log   *log.Logger
}

func NewEpisodeSystem(logger *log.Logger, sinks ...EpisodeSink) *EpisodeSystem {
	if logger == nil {
		logger = log.Default()
	}
	return &EpisodeSystem{sinks: sinks, log: logger}
}

func (s *EpisodeSystem) AddSink(sink EpisodeSink) {
	if sink != nil {
		s.sinks = append(s.sinks, sink)
	}
}

func (s *EpisodeSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	killPlane, hasKillPlane := 0.0, false
	if be, ok := ecs.First(w, component.LevelBoundsComponent.Kind()); ok {
		if b, ok := ecs.Get(w, be, component.LevelBoundsComponent.Kind()); ok {
			killPlane, hasKillPlane = b.KillPlaneY, true
		}
	}

	ecs.ForEach2(w, component.KnightComponent.Kind(), component.AgentComponent.Kind(), func(e ecs.Entity, k *component.Knight, agent *component.Agent) {
		if !agent.Done && hasKillPlane {
			if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok && t.Y < killPlane {
				agent.AddReward(knight.RewardFall)
				agent.End(EndReasonFell)
			}
		}
		if !agent.Done && agent.MaxStep > 0 && agent.StepCount >= agent.MaxStep {
			agent.End(EndReasonMaxStep)
		}

		agent.LastReward = agent.StepReward
		agent.LastDone = agent.Done
		agent.StepReward = 0

		if agent.Done {
			s.finish(w, e, k, agent)
		}
	})
}

func (s *EpisodeSystem) finish(w *ecs.World, e ecs.Entity, k *component.Knight, agent *component.Agent) {
	rec := EpisodeRecord{
		Entity:  e,
		Episode: agent.Episode,
		Steps:   agent.StepCount,
		Reward:  agent.Cumulative,
		Coins:   agent.Coins,
		Goals:   agent.Goals,
		Reason:  agent.EndReason,
	}
	s.log.Debug("episode finished", "episode", rec.Episode, "steps", rec.Steps, "reward", rec.Reward, "reason", rec.Reason)
	for _, sink := range s.sinks {
		sink(rec)
	}

	ResetKnight(w, e, k)
	RefreshWave(w)

	agent.Episode++
	agent.StepCount = 0
	agent.Cumulative = 0
	agent.Coins = 0
	agent.Goals = 0
	agent.Done = false
	agent.EndReason = ""
}

// EndEpisode forces the knight's running episode to close on the next
// episode pass, e.g. from a pause menu.
func EndEpisode(w *ecs.World, e ecs.Entity) {
	if agent, ok := ecs.Get(w, e, component.AgentComponent.Kind()); ok {
		agent.End(EndReasonReset)
	}
}

// ResetKnight returns a knight to its spawn point with fresh flags.
func ResetKnight(w *ecs.World, e ecs.Entity, k *component.Knight) {
	if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
		body.SetPosition(k.SpawnX, k.SpawnY)
		body.SetVelocity(0, 0)
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		t.X, t.Y = k.SpawnX, k.SpawnY
	}
	if sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
		sprite.FlipX = false
	}
	if anim, ok := ecs.Get(w, e, component.AnimatorComponent.Kind()); ok {
		clear(anim.Triggers)
		clear(anim.Bools)
		clear(anim.Ints)
		clear(anim.Floats)
		anim.Play(clipIdle)
	}
	if g, ok := ecs.Get(w, e, component.GroundSensorComponent.Kind()); ok {
		g.DisableTimer = 0
	}
	ecs.Remove(w, e, component.WhiteFlashComponent.Kind())
	if k.Resolver != nil {
		k.Resolver.Reset()
	}
	k.Last = knight.StepResult{}
}
