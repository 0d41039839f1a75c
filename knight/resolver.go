package knight

import "math"

// epsilon is the smallest horizontal input treated as movement.
const epsilon = 1e-6

// rule is one row of the transition table. The first row whose when returns
// true fires; every row below it is skipped for that step.
type rule struct {
	transition Transition
	when       func(r *Resolver, in intents) bool
	apply      func(r *Resolver, in intents, dt float64, res *StepResult)
}

// Resolver turns one action per step into exactly one transition and a
// reward. It owns the knight's State; nothing else mutates it.
type Resolver struct {
	tuning Tuning
	caps   Capabilities
	state  State
	rules  []rule
}

// NewResolver wires a resolver to its capabilities. Missing capabilities are
// a setup error.
func NewResolver(tuning Tuning, caps Capabilities) (*Resolver, error) {
	if err := caps.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{
		tuning: tuning,
		caps:   caps,
		state:  initialState(),
		rules:  transitionTable,
	}, nil
}

var transitionTable = []rule{
	{TransitionDeath, whenDeath, applyDeath},
	{TransitionHurt, whenHurt, applyHurt},
	{TransitionAttack, whenAttack, applyAttack},
	{TransitionBlock, whenBlock, applyBlock},
	{TransitionBlockRelease, whenBlockRelease, applyBlockRelease},
	{TransitionRoll, whenRoll, applyRoll},
	{TransitionJump, whenJump, applyJump},
	{TransitionRun, whenRun, applyRun},
	{TransitionIdle, always, applyIdle},
}

// Rules lists the transition table in evaluation order.
func (r *Resolver) Rules() []Transition {
	out := make([]Transition, 0, len(r.rules))
	for _, rl := range r.rules {
		out = append(out, rl.transition)
	}
	return out
}

// State returns a copy of the current flags.
func (r *Resolver) State() State {
	return r.state
}

// Tuning returns the constants the resolver was built with.
func (r *Resolver) Tuning() Tuning {
	return r.tuning
}

// SetTuning swaps constants in place, e.g. after a prefab hot reload.
func (r *Resolver) SetTuning(t Tuning) {
	r.tuning = t
}

// Reset returns the knight to its spawn flags.
func (r *Resolver) Reset() {
	r.state = initialState()
}

// CompleteRoll is the roll-animation completion event.
func (r *Resolver) CompleteRoll() {
	r.state.Rolling = false
}

// Step runs a single resolver pass.
func (r *Resolver) Step(a Action, dt float64) StepResult {
	if r.tuning.Frozen {
		return StepResult{Transition: TransitionNone}
	}

	var res StepResult
	s := &r.state
	norm := Norm(r.tuning.MaxStep)

	s.TimeSinceAttack += dt

	ground := r.caps.Ground.State()
	if !s.Grounded && ground {
		s.Grounded = true
		r.caps.Animator.SetBool(ParamGrounded, true)
	}
	if s.Grounded && !ground {
		s.Grounded = false
		r.caps.Animator.SetBool(ParamGrounded, false)
	}

	move := a.Move
	if move > 0 {
		r.caps.Sprite.SetFlipX(false)
		s.Facing = 1
		res.Reward += RewardStep * norm
	} else if move < 0 {
		r.caps.Sprite.SetFlipX(true)
		s.Facing = -1
		res.Reward += RewardStep * norm
	}

	if !s.Rolling {
		_, vy := r.caps.Body.Velocity()
		r.caps.Body.SetVelocity(move*r.tuning.Speed, vy)
		if move > 1 {
			res.Reward += RewardStep * norm
		}
	}

	_, vy := r.caps.Body.Velocity()
	r.caps.Animator.SetFloat(ParamAirSpeedY, vy)
	r.caps.Animator.SetBool(ParamWallSlide, r.caps.wallSliding())

	in := a.intents()
	for _, rl := range r.rules {
		if !rl.when(r, in) {
			continue
		}
		res.Transition = rl.transition
		rl.apply(r, in, dt, &res)
		break
	}
	return res
}

func always(*Resolver, intents) bool { return true }

func whenDeath(_ *Resolver, in intents) bool { return in.death }

func applyDeath(r *Resolver, _ intents, _ float64, res *StepResult) {
	r.caps.Animator.SetBool(ParamNoBlood, r.tuning.NoBlood)
	r.caps.Animator.SetTrigger(TriggerDeath)
	r.state.Dead = true
	res.Reward += RewardDeath
	res.Done = r.tuning.TrainingMode
}

func whenHurt(_ *Resolver, in intents) bool { return in.hurt }

func applyHurt(r *Resolver, _ intents, _ float64, res *StepResult) {
	r.caps.Animator.SetTrigger(TriggerHurt)
	res.Reward += RewardHurt
}

func whenAttack(r *Resolver, in intents) bool {
	return in.attack && r.state.TimeSinceAttack > r.tuning.AttackCooldown
}

func applyAttack(r *Resolver, _ intents, _ float64, res *StepResult) {
	s := &r.state
	s.CurrentAttack++
	if s.CurrentAttack > 3 {
		s.CurrentAttack = 1
	}
	if s.TimeSinceAttack > r.tuning.ComboReset {
		s.CurrentAttack = 1
	}
	r.caps.Animator.SetTrigger(AttackTrigger(s.CurrentAttack))
	s.TimeSinceAttack = 0
	res.AttackIndex = s.CurrentAttack
	res.Reward += RewardStep * Norm(r.tuning.MaxStep)
}

func whenBlock(_ *Resolver, in intents) bool { return in.block }

func applyBlock(r *Resolver, _ intents, _ float64, res *StepResult) {
	r.caps.Animator.SetTrigger(TriggerBlock)
	r.caps.Animator.SetBool(ParamIdleBlock, true)
	r.state.BlockHold = true
	res.Reward += RewardStep * Norm(r.tuning.MaxStep)
}

func whenBlockRelease(_ *Resolver, in intents) bool { return in.blockRelease }

func applyBlockRelease(r *Resolver, _ intents, _ float64, _ *StepResult) {
	r.caps.Animator.SetBool(ParamIdleBlock, false)
	r.state.BlockHold = false
}

func whenRoll(r *Resolver, in intents) bool { return in.roll && !r.state.Rolling }

func applyRoll(r *Resolver, _ intents, _ float64, res *StepResult) {
	r.state.Rolling = true
	r.caps.Animator.SetTrigger(TriggerRoll)
	_, vy := r.caps.Body.Velocity()
	r.caps.Body.SetVelocity(float64(r.state.Facing)*r.tuning.RollForce, vy)
	res.Reward += RewardStep * Norm(r.tuning.MaxStep)
}

func whenJump(r *Resolver, in intents) bool { return in.jump && r.state.Grounded }

func applyJump(r *Resolver, _ intents, _ float64, res *StepResult) {
	r.caps.Animator.SetTrigger(TriggerJump)
	r.state.Grounded = false
	r.caps.Animator.SetBool(ParamGrounded, false)
	vx, _ := r.caps.Body.Velocity()
	r.caps.Body.SetVelocity(vx, r.tuning.JumpForce)
	r.caps.Ground.Disable(r.tuning.GroundSensorDisable)
	res.Reward += RewardJumpStep * Norm(r.tuning.MaxStep)
}

func whenRun(_ *Resolver, in intents) bool { return math.Abs(in.move) > epsilon }

func applyRun(r *Resolver, _ intents, _ float64, res *StepResult) {
	r.state.DelayToIdle = r.tuning.IdleDelay
	r.state.AnimState = AnimRun
	r.caps.Animator.SetInteger(ParamAnimState, int(AnimRun))
	res.Reward += RewardStep * Norm(r.tuning.MaxStep)
}

// applyIdle debounces single zero-input frames so the run clip does not
// flicker.
func applyIdle(r *Resolver, _ intents, dt float64, _ *StepResult) {
	r.state.DelayToIdle -= dt
	if r.state.DelayToIdle < 0 {
		r.state.AnimState = AnimIdle
		r.caps.Animator.SetInteger(ParamAnimState, int(AnimIdle))
	}
}
