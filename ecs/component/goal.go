package component

// Goal is a trigger volume that pays out by name and ends the episode.
type Goal struct {
	Name   string
	Width  float64
	Height float64
}

var GoalComponent = NewComponent[Goal]()
