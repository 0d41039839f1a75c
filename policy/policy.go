// Package policy supplies action vectors to a knight: a fixed vector, a tengo
// script, or a remote trainer over a websocket.
package policy

import (
	"context"
	"errors"
)

// Observation is what a policy sees before choosing the next action.
type Observation struct {
	Vector  []float64 `json:"vector"`
	Reward  float64   `json:"reward"`
	Done    bool      `json:"done"`
	Step    int       `json:"step"`
	Episode int       `json:"episode"`
}

// Policy chooses an action vector for an observation.
type Policy interface {
	Decide(ctx context.Context, obs Observation) ([]float64, error)
}

var ErrNoAction = errors.New("policy: no action returned")

// Constant always answers with the same vector.
type Constant []float64

func (c Constant) Decide(context.Context, Observation) ([]float64, error) {
	if len(c) == 0 {
		return nil, ErrNoAction
	}
	out := make([]float64, len(c))
	copy(out, c)
	return out, nil
}

// Func adapts a plain function to Policy.
type Func func(ctx context.Context, obs Observation) ([]float64, error)

func (f Func) Decide(ctx context.Context, obs Observation) ([]float64, error) {
	return f(ctx, obs)
}
