package component

import "github.com/milk9111/heroknight/knight"

// Knight owns the action resolver for one hero knight entity.
type Knight struct {
	Resolver *knight.Resolver
	SpawnX   float64
	SpawnY   float64
	Last     knight.StepResult
}

var KnightComponent = NewComponent[Knight]()
