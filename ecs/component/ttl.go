package component

// TTL is a short-lived effect: the entity is destroyed after Frames steps,
// drifting RiseY world units upward per step. A non-zero Total lets the
// renderer fade it out.
type TTL struct {
	Frames int
	Total  int
	RiseY  float64
}

var TTLComponent = NewComponent[TTL]()
