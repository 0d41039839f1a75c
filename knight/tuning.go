package knight

// Tuning holds the designer-facing constants for a knight.
type Tuning struct {
	Speed               float64
	JumpForce           float64
	RollForce           float64
	NoBlood             bool
	AttackCooldown      float64
	ComboReset          float64
	IdleDelay           float64
	GroundSensorDisable float64
	MaxStep             int
	TrainingMode        bool
	Frozen              bool
}

// DefaultTuning returns the stock hero knight numbers.
func DefaultTuning() Tuning {
	return Tuning{
		Speed:               4.0,
		JumpForce:           7.5,
		RollForce:           6.0,
		AttackCooldown:      0.25,
		ComboReset:          1.0,
		IdleDelay:           0.05,
		GroundSensorDisable: 0.2,
	}
}

// Norm is the per-step reward normalization factor. An unlimited episode
// (maxStep <= 0) has no per-step shaping.
func Norm(maxStep int) float64 {
	if maxStep <= 0 {
		return 0
	}
	return 1 / float64(maxStep)
}

// Reward sizes, before normalization where noted.
const (
	RewardDeath = -4.0
	RewardHurt  = -2.0
	RewardFall  = -4.0

	// scaled by Norm
	RewardStep     = 1.0
	RewardJumpStep = 0.5
)

var goalRewards = map[string]float64{
	"goal-short":      1,
	"goal-short-high": 2,
	"goal-mid":        3,
	"goal-long":       4,
	"goal-long-high":  5,
}

// GoalReward returns the graduated value for a goal name.
func GoalReward(name string) (float64, bool) {
	v, ok := goalRewards[name]
	return v, ok
}
