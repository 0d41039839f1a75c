package knight

import "math"

// ObservationSize is the length of the vector returned by Observe.
const ObservationSize = 9

// Observe builds the policy observation: speed, normalized position, then
// the resolver flags.
func (r *Resolver) Observe() []float64 {
	x, y := r.caps.Body.Position()
	nx, ny := normalize(x, y)
	s := r.state
	return []float64{
		r.tuning.Speed,
		nx,
		ny,
		boolFloat(s.Grounded),
		boolFloat(s.Rolling),
		float64(s.Facing),
		float64(s.CurrentAttack),
		s.TimeSinceAttack,
		s.DelayToIdle,
	}
}

func normalize(x, y float64) (float64, float64) {
	l := math.Hypot(x, y)
	if l < 1e-5 {
		return 0, 0
	}
	return x / l, y / l
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
