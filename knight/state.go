package knight

// Transition is the single state change chosen for a step.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionDeath
	TransitionHurt
	TransitionAttack
	TransitionBlock
	TransitionBlockRelease
	TransitionRoll
	TransitionJump
	TransitionRun
	TransitionIdle
)

var transitionNames = map[Transition]string{
	TransitionNone:         "none",
	TransitionDeath:        "death",
	TransitionHurt:         "hurt",
	TransitionAttack:       "attack",
	TransitionBlock:        "block",
	TransitionBlockRelease: "block_release",
	TransitionRoll:         "roll",
	TransitionJump:         "jump",
	TransitionRun:          "run",
	TransitionIdle:         "idle",
}

func (t Transition) String() string {
	if name, ok := transitionNames[t]; ok {
		return name
	}
	return "unknown"
}

// AnimState mirrors the integer "AnimState" animator parameter.
type AnimState int

const (
	AnimIdle AnimState = 0
	AnimRun  AnimState = 1
)

// State is the per-knight flag set mutated once per step.
type State struct {
	Grounded        bool
	Rolling         bool
	Facing          int
	CurrentAttack   int
	TimeSinceAttack float64
	DelayToIdle     float64
	BlockHold       bool
	AnimState       AnimState
	Dead            bool
}

func initialState() State {
	return State{Facing: 1}
}

// StepResult is what a single resolver pass produced.
type StepResult struct {
	Transition  Transition
	Reward      float64
	Done        bool
	AttackIndex int
}

// Animator parameter names.
const (
	ParamGrounded  = "Grounded"
	ParamAirSpeedY = "AirSpeedY"
	ParamWallSlide = "WallSlide"
	ParamNoBlood   = "noBlood"
	ParamIdleBlock = "IdleBlock"
	ParamAnimState = "AnimState"

	TriggerDeath = "Death"
	TriggerHurt  = "Hurt"
	TriggerBlock = "Block"
	TriggerRoll  = "Roll"
	TriggerJump  = "Jump"
)

// AttackTrigger names the trigger for combo step n (1..3).
func AttackTrigger(n int) string {
	switch n {
	case 2:
		return "Attack2"
	case 3:
		return "Attack3"
	default:
		return "Attack1"
	}
}
