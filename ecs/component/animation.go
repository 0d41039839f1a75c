package component

import "image/color"

type AnimationDef struct {
	Name       string
	FrameCount int
	FPS        float64
	Loop       bool
	Color      color.Color
}

// Animator is the parameter store the knight resolver writes to, plus the
// clip state the animation system advances.
type Animator struct {
	Defs     map[string]AnimationDef
	Triggers map[string]bool
	Bools    map[string]bool
	Ints     map[string]int
	Floats   map[string]float64

	Current    string
	Frame      int
	FrameTimer float64
	Playing    bool
}

func NewAnimator(defs map[string]AnimationDef, initial string) *Animator {
	return &Animator{
		Defs:     defs,
		Triggers: map[string]bool{},
		Bools:    map[string]bool{},
		Ints:     map[string]int{},
		Floats:   map[string]float64{},
		Current:  initial,
		Playing:  true,
	}
}

func (a *Animator) SetTrigger(name string) {
	if a.Triggers == nil {
		a.Triggers = map[string]bool{}
	}
	a.Triggers[name] = true
}

func (a *Animator) SetBool(name string, v bool) {
	if a.Bools == nil {
		a.Bools = map[string]bool{}
	}
	a.Bools[name] = v
}

func (a *Animator) SetInteger(name string, v int) {
	if a.Ints == nil {
		a.Ints = map[string]int{}
	}
	a.Ints[name] = v
}

func (a *Animator) SetFloat(name string, v float64) {
	if a.Floats == nil {
		a.Floats = map[string]float64{}
	}
	a.Floats[name] = v
}

// ConsumeTrigger reports and clears a pending trigger.
func (a *Animator) ConsumeTrigger(name string) bool {
	if !a.Triggers[name] {
		return false
	}
	delete(a.Triggers, name)
	return true
}

// Play switches to clip from its first frame.
func (a *Animator) Play(clip string) {
	a.Current = clip
	a.Frame = 0
	a.FrameTimer = 0
	a.Playing = true
}

var AnimatorComponent = NewComponent[Animator]()
