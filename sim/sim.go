// Package sim assembles the hero knight training ground: level, coin pool,
// knight and the system schedule shared by the game and the headless
// trainer.
package sim

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/milk9111/heroknight/ecs"
	"github.com/milk9111/heroknight/ecs/entity"
	"github.com/milk9111/heroknight/ecs/system"
	"github.com/milk9111/heroknight/policy"
)

type Config struct {
	// MaxStep caps an episode; zero keeps the prefab value.
	MaxStep  int
	Training bool
	// Seed overrides the coinage seed when non-zero.
	Seed uint64
	// Player puts the knight under local input instead of the policy.
	Player bool
	// DecisionPeriod is how many steps each policy decision is held for.
	DecisionPeriod int
}

type Sim struct {
	World     *ecs.World
	Scheduler *ecs.Scheduler
	Knight    ecs.Entity
	Level     *entity.Level
	Coinage   *entity.Coinage

	Episodes *system.EpisodeSystem
	Goals    *system.GoalSystem
	Policy   *system.PolicySystem
	Physics  *system.PhysicsSystem
}

// New builds a fresh world. p may be nil when cfg.Player is set.
func New(ctx context.Context, cfg Config, p policy.Policy, logger *log.Logger) (*Sim, error) {
	if logger == nil {
		logger = log.Default()
	}
	if !cfg.Player && p == nil {
		return nil, fmt.Errorf("sim: a policy is required without a player")
	}

	w := ecs.NewWorld()

	lvl, err := entity.NewLevel(w)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	coinage, err := entity.NewCoinage(w, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	training := cfg.Training
	k, err := entity.NewKnight(w, entity.KnightOptions{
		Player:   cfg.Player,
		MaxStep:  cfg.MaxStep,
		Training: &training,
	})
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	s := &Sim{
		World:    w,
		Knight:   k,
		Level:    lvl,
		Coinage:  coinage,
		Episodes: system.NewEpisodeSystem(logger),
		Goals:    system.NewGoalSystem(),
		Physics:  system.NewPhysicsSystem(),
	}

	var input ecs.System
	if cfg.Player {
		input = system.NewInputSystem()
	} else {
		s.Policy = system.NewPolicySystem(ctx, p, logger)
		if cfg.DecisionPeriod > 0 {
			s.Policy.DecisionPeriod = cfg.DecisionPeriod
		}
	}

	s.Scheduler = ecs.NewScheduler(
		input,
		policySystem(s.Policy),
		system.NewSensorSystem(),
		system.NewKnightSystem(logger),
		s.Physics,
		s.Goals,
		system.NewCoinCollectSystem(),
		s.Episodes,
		system.NewAnimationSystem(),
		system.NewWhiteFlashSystem(),
		system.NewTTLSystem(),
		system.NewCameraSystem(),
	)
	return s, nil
}

// policySystem keeps a nil *PolicySystem from reaching the scheduler as a
// non-nil interface.
func policySystem(p *system.PolicySystem) ecs.System {
	if p == nil {
		return nil
	}
	return p
}

// Step advances the world by one fixed tick.
func (s *Sim) Step() {
	s.Scheduler.Update(s.World)
}

// ResetEpisode closes the running episode on the next step.
func (s *Sim) ResetEpisode() {
	system.EndEpisode(s.World, s.Knight)
}

// NewWave draws a fresh coin wave immediately.
func (s *Sim) NewWave() {
	system.RefreshWave(s.World)
}
