package component

// ActionInput is the action vector consumed by the knight this step. Source
// names whoever produced it ("human", "policy").
type ActionInput struct {
	Vector []float64
	Source string
}

var ActionInputComponent = NewComponent[ActionInput]()
