package component

import "github.com/milk9111/heroknight/wave"

// Coin is one member of the fixed coin pool. Index is its pool position.
type Coin struct {
	Index  int
	Active bool
	Radius float64
}

var CoinComponent = NewComponent[Coin]()

// CoinWave drives which coins of the pool are live.
type CoinWave struct {
	Manager *wave.Manager
	Reward  float64
	Wave    int
}

var CoinWaveComponent = NewComponent[CoinWave]()
