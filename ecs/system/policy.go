package system

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/heroknight/ecs"
	"github.com/milk9111/heroknight/ecs/component"
	"github.com/milk9111/heroknight/knight"
	"github.com/milk9111/heroknight/policy"
)

const defaultDecisionTimeout = 2 * time.Second

// PolicySystem asks a policy for each agent's action. Between decisions the
// last action is repeated and rewards accumulate for the next observation.
type PolicySystem struct {
	policy  policy.Policy
	ctx     context.Context
	log     *log.Logger
	pending map[ecs.Entity]*pendingDecision

	// DecisionPeriod is the number of steps each decision is held for.
	DecisionPeriod int
	Timeout        time.Duration
}

type pendingDecision struct {
	countdown int
	reward    float64
	done      bool
}

func NewPolicySystem(ctx context.Context, p policy.Policy, logger *log.Logger) *PolicySystem {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &PolicySystem{
		policy:         p,
		ctx:            ctx,
		log:            logger,
		pending:        make(map[ecs.Entity]*pendingDecision),
		DecisionPeriod: 1,
		Timeout:        defaultDecisionTimeout,
	}
}

// SetPolicy swaps the policy, e.g. after a script reload.
func (s *PolicySystem) SetPolicy(p policy.Policy) {
	s.policy = p
}

func (s *PolicySystem) Update(w *ecs.World) {
	if w == nil || s.policy == nil {
		return
	}

	for _, e := range w.Query(component.KnightComponent.Kind(), component.AgentComponent.Kind(), component.ActionInputComponent.Kind()) {
		if ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
			continue
		}
		k, _ := ecs.Get(w, e, component.KnightComponent.Kind())
		agent, _ := ecs.Get(w, e, component.AgentComponent.Kind())
		in, _ := ecs.Get(w, e, component.ActionInputComponent.Kind())
		if k.Resolver == nil {
			continue
		}

		pd := s.pending[e]
		if pd == nil {
			pd = &pendingDecision{}
			s.pending[e] = pd
		}
		pd.reward += agent.LastReward
		pd.done = pd.done || agent.LastDone

		if pd.countdown > 0 && len(in.Vector) > 0 && !agent.LastDone {
			pd.countdown--
			continue
		}

		obs := policy.Observation{
			Vector:  k.Resolver.Observe(),
			Reward:  pd.reward,
			Done:    pd.done,
			Step:    agent.StepCount,
			Episode: agent.Episode,
		}
		in.Vector = s.decide(e, obs)
		in.Source = "policy"

		pd.reward = 0
		pd.done = false
		pd.countdown = s.DecisionPeriod - 1
	}

	for e := range s.pending {
		if !w.IsAlive(e) {
			delete(s.pending, e)
		}
	}
}

func (s *PolicySystem) decide(e ecs.Entity, obs policy.Observation) []float64 {
	ctx, cancel := context.WithTimeout(s.ctx, s.Timeout)
	defer cancel()

	vec, err := s.policy.Decide(ctx, obs)
	if err != nil {
		s.log.Error("policy: decide failed, holding still", "entity", e, "step", obs.Step, "err", err)
		return make([]float64, knight.ActionSize)
	}
	return vec
}
