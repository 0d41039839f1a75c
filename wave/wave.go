// Package wave picks which coins of a fixed pool are live for each wave.
package wave

import "math/rand/v2"

// Pool is a fixed, ordered set of coins that can be toggled on and off.
type Pool interface {
	Len() int
	SetActive(i int, active bool)
}

// Manager draws a random subset of a pool each wave.
//
// Draws are independent and with replacement, so the same index can come up
// more than once and fewer than CoinsPerWave coins end up visible. That is
// long-standing behaviour and is kept as is.
type Manager struct {
	CoinsPerWave int

	rng    *rand.Rand
	active []int
}

// NewManager returns a manager with a reproducible PCG stream.
func NewManager(coinsPerWave int, seed uint64) *Manager {
	return &Manager{
		CoinsPerWave: coinsPerWave,
		rng:          rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Refresh starts a new wave: clear the previous draw, draw a new one,
// deactivate every coin, then activate the drawn ones.
func (m *Manager) Refresh(p Pool) {
	if m == nil || p == nil {
		return
	}
	m.active = m.active[:0]
	n := p.Len()
	if n > 0 {
		for i := 0; i < m.CoinsPerWave; i++ {
			m.active = append(m.active, m.rng.IntN(n))
		}
	}
	for i := 0; i < n; i++ {
		p.SetActive(i, false)
	}
	for _, idx := range m.active {
		p.SetActive(idx, true)
	}
}

// ActiveIndices returns the indices drawn for the current wave, duplicates
// included.
func (m *Manager) ActiveIndices() []int {
	if m == nil {
		return nil
	}
	out := make([]int, len(m.active))
	copy(out, m.active)
	return out
}

// Distinct is the number of coins actually visible this wave.
func (m *Manager) Distinct() int {
	if m == nil {
		return 0
	}
	seen := make(map[int]struct{}, len(m.active))
	for _, idx := range m.active {
		seen[idx] = struct{}{}
	}
	return len(seen)
}
