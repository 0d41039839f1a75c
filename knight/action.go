// Package knight resolves a hero knight's per-step action into one state
// transition and a shaped reward.
package knight

import (
	"errors"
	"fmt"
)

// Action vector layout. Death and hurt are optional trailing slots so a
// six-wide policy output is still accepted.
const (
	ActionMove = iota
	ActionAttack
	ActionBlock
	ActionBlockRelease
	ActionJump
	ActionRoll
	ActionDeath
	ActionHurt

	ActionSize         = ActionRoll + 1
	ExtendedActionSize = ActionHurt + 1
)

// intentThreshold is the value above which a button slot counts as pressed.
const intentThreshold = 0.5

var ErrActionVectorSize = errors.New("knight: action vector too short")

// Action is one step's worth of decoded intents.
type Action struct {
	Move         float64
	Attack       float64
	Block        float64
	BlockRelease float64
	Jump         float64
	Roll         float64
	Death        float64
	Hurt         float64
}

// ActionFromVector decodes an ordered action vector. Values are not range
// checked; only the length is.
func ActionFromVector(v []float64) (Action, error) {
	if len(v) < ActionSize {
		return Action{}, fmt.Errorf("%w: got %d, want at least %d", ErrActionVectorSize, len(v), ActionSize)
	}
	a := Action{
		Move:         v[ActionMove],
		Attack:       v[ActionAttack],
		Block:        v[ActionBlock],
		BlockRelease: v[ActionBlockRelease],
		Jump:         v[ActionJump],
		Roll:         v[ActionRoll],
	}
	if len(v) > ActionDeath {
		a.Death = v[ActionDeath]
	}
	if len(v) > ActionHurt {
		a.Hurt = v[ActionHurt]
	}
	return a, nil
}

// Vector encodes the action back into the extended layout.
func (a Action) Vector() []float64 {
	v := make([]float64, ExtendedActionSize)
	v[ActionMove] = a.Move
	v[ActionAttack] = a.Attack
	v[ActionBlock] = a.Block
	v[ActionBlockRelease] = a.BlockRelease
	v[ActionJump] = a.Jump
	v[ActionRoll] = a.Roll
	v[ActionDeath] = a.Death
	v[ActionHurt] = a.Hurt
	return v
}

type intents struct {
	move         float64
	attack       bool
	block        bool
	blockRelease bool
	jump         bool
	roll         bool
	death        bool
	hurt         bool
}

func (a Action) intents() intents {
	return intents{
		move:         a.Move,
		attack:       a.Attack > intentThreshold,
		block:        a.Block > intentThreshold,
		blockRelease: a.BlockRelease > intentThreshold,
		jump:         a.Jump > intentThreshold,
		roll:         a.Roll > intentThreshold,
		death:        a.Death > intentThreshold,
		hurt:         a.Hurt > intentThreshold,
	}
}
