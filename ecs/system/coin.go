package system

import (
	"sort"

	"github.com/milk9111/heroknight/ecs"
	"github.com/milk9111/heroknight/ecs/component"
)

const (
	coinSparkleFrames = 12
	coinSparkleRise   = 0.02
)

// CoinCollectSystem pays for touching live coins and starts a new wave once
// every live coin is gone.
type CoinCollectSystem struct{}

func NewCoinCollectSystem() *CoinCollectSystem {
	return &CoinCollectSystem{}
}

func (s *CoinCollectSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	events := w.Events().Collisions(ecs.CollisionEventCoin)
	if len(events) == 0 {
		return
	}

	reward := 0.0
	if we, ok := ecs.First(w, component.CoinWaveComponent.Kind()); ok {
		if cw, ok := ecs.Get(w, we, component.CoinWaveComponent.Kind()); ok {
			reward = cw.Reward
		}
	}

	collected := false
	for _, ev := range events {
		coin, ok := ecs.Get(w, ev.Other, component.CoinComponent.Kind())
		if !ok || !coin.Active {
			continue
		}
		if agent, ok := ecs.Get(w, ev.Entity, component.AgentComponent.Kind()); ok {
			if agent.Done {
				continue
			}
			agent.AddReward(reward)
			agent.Coins++
		}
		setCoinActive(w, ev.Other, coin, false)
		spawnSparkle(w, ev.Other)
		collected = true
	}

	if collected && activeCoins(w) == 0 {
		RefreshWave(w)
	}
}

func spawnSparkle(w *ecs.World, coinEntity ecs.Entity) {
	t, ok := ecs.Get(w, coinEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}
	sprite, ok := ecs.Get(w, coinEntity, component.SpriteComponent.Kind())
	if !ok {
		return
	}
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: t.X, Y: t.Y, ScaleX: 1, ScaleY: 1})
	_ = ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{Color: sprite.Color, Width: sprite.Width * 1.6, Height: sprite.Height * 1.6})
	_ = ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: 20})
	_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: coinSparkleFrames, Total: coinSparkleFrames, RiseY: coinSparkleRise})
}

func activeCoins(w *ecs.World) int {
	n := 0
	ecs.ForEach(w, component.CoinComponent.Kind(), func(_ ecs.Entity, c *component.Coin) {
		if c.Active {
			n++
		}
	})
	return n
}

func setCoinActive(w *ecs.World, e ecs.Entity, c *component.Coin, active bool) {
	c.Active = active
	if sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
		sprite.Hidden = !active
	}
}

// coinPool exposes the world's coins, ordered by pool index, to the wave
// manager.
type coinPool struct {
	w     *ecs.World
	coins []ecs.Entity
}

func newCoinPool(w *ecs.World) *coinPool {
	var coins []ecs.Entity
	index := map[ecs.Entity]int{}
	ecs.ForEach(w, component.CoinComponent.Kind(), func(e ecs.Entity, c *component.Coin) {
		coins = append(coins, e)
		index[e] = c.Index
	})
	sort.Slice(coins, func(i, j int) bool { return index[coins[i]] < index[coins[j]] })
	return &coinPool{w: w, coins: coins}
}

func (p *coinPool) Len() int {
	return len(p.coins)
}

func (p *coinPool) SetActive(i int, active bool) {
	e := p.coins[i]
	if c, ok := ecs.Get(p.w, e, component.CoinComponent.Kind()); ok {
		setCoinActive(p.w, e, c, active)
	}
}

// RefreshWave draws a new coin wave. It is a no-op without a CoinWave.
func RefreshWave(w *ecs.World) {
	we, ok := ecs.First(w, component.CoinWaveComponent.Kind())
	if !ok {
		return
	}
	cw, ok := ecs.Get(w, we, component.CoinWaveComponent.Kind())
	if !ok || cw.Manager == nil {
		return
	}
	cw.Manager.Refresh(newCoinPool(w))
	cw.Wave++
}
