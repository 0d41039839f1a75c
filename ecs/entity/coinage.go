package entity

import (
	"fmt"

	"github.com/milk9111/heroknight/ecs"
	"github.com/milk9111/heroknight/ecs/component"
	"github.com/milk9111/heroknight/ecs/system"
	"github.com/milk9111/heroknight/prefabs"
	"github.com/milk9111/heroknight/wave"
	"golang.org/x/image/colornames"
)

const (
	coinLayer         = 8
	defaultCoinRadius = 0.2
)

// Coinage is the coin pool plus the entity carrying its wave manager.
type Coinage struct {
	Wave  ecs.Entity
	Coins []ecs.Entity
}

// NewCoinage builds the coin pool from coinage.yaml and draws the first
// wave.
func NewCoinage(w *ecs.World, seedOverride uint64) (*Coinage, error) {
	spec, err := prefabs.LoadCoinageSpec()
	if err != nil {
		return nil, fmt.Errorf("coinage: load spec: %w", err)
	}
	if seedOverride != 0 {
		spec.Seed = seedOverride
	}
	return NewCoinageFromSpec(w, spec)
}

func NewCoinageFromSpec(w *ecs.World, spec *prefabs.CoinageSpec) (*Coinage, error) {
	if spec == nil {
		return nil, fmt.Errorf("coinage: nil spec")
	}

	radius := spec.Radius
	if radius <= 0 {
		radius = defaultCoinRadius
	}
	clr := spec.Color.Or(colornames.Gold)

	c := &Coinage{}
	for i, p := range spec.Coins {
		e := ecs.CreateEntity(w)
		if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: p.X, Y: p.Y, ScaleX: 1, ScaleY: 1}); err != nil {
			return nil, fmt.Errorf("coinage: coin %d: add transform: %w", i, err)
		}
		if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Radius: radius, Static: true, Sensor: true}); err != nil {
			return nil, fmt.Errorf("coinage: coin %d: add physics body: %w", i, err)
		}
		if err := ecs.Add(w, e, component.CoinComponent.Kind(), &component.Coin{Index: i, Radius: radius}); err != nil {
			return nil, fmt.Errorf("coinage: coin %d: add coin: %w", i, err)
		}
		if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{Color: clr, Width: radius * 2, Height: radius * 2, Hidden: true}); err != nil {
			return nil, fmt.Errorf("coinage: coin %d: add sprite: %w", i, err)
		}
		if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: coinLayer}); err != nil {
			return nil, fmt.Errorf("coinage: coin %d: add render layer: %w", i, err)
		}
		c.Coins = append(c.Coins, e)
	}

	c.Wave = ecs.CreateEntity(w)
	if err := ecs.Add(w, c.Wave, component.CoinWaveComponent.Kind(), &component.CoinWave{
		Manager: wave.NewManager(spec.CoinsPerWave, spec.Seed),
		Reward:  spec.CoinReward,
	}); err != nil {
		return nil, fmt.Errorf("coinage: add wave: %w", err)
	}

	system.RefreshWave(w)
	return c, nil
}
