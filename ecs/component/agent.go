package component

// Agent is the episode bookkeeping attached to a learning knight.
type Agent struct {
	MaxStep   int
	StepCount int

	// StepReward accumulates everything granted during the current step.
	StepReward float64
	Cumulative float64
	Done       bool
	EndReason  string
	Episode    int

	// What the policy sees on its next decision.
	LastReward float64
	LastDone   bool

	Coins int
	Goals int
}

// AddReward grants r for the current step.
func (a *Agent) AddReward(r float64) {
	a.StepReward += r
	a.Cumulative += r
}

// End marks the episode finished. The first reason wins.
func (a *Agent) End(reason string) {
	if a.Done {
		return
	}
	a.Done = true
	a.EndReason = reason
}

var AgentComponent = NewComponent[Agent]()
