package reaction

// Arbiter enforces that at most one effect is active at a time. It records
// which kind holds it so that only the owner can release it.
//
// An Arbiter is driven from the render loop only and is not safe for
// concurrent use.
type Arbiter struct {
	owner Kind
}

// NewArbiter creates an inactive arbiter.
func NewArbiter() *Arbiter {
	return &Arbiter{}
}

// IsActive reports whether some effect currently holds the arbiter.
func (a *Arbiter) IsActive() bool {
	return a.owner != ""
}

// Owner returns the kind holding the arbiter, or "" when inactive.
func (a *Arbiter) Owner() Kind {
	return a.owner
}

// SetActive takes or drops an external hold. An arbiter activated this way
// is owned by KindExternal and no effect can release it. SetActive(false)
// only drops an external hold; a hold taken by an effect lasts until that
// effect releases it, so the flag stays true while an effect is active.
func (a *Arbiter) SetActive(active bool) {
	if active {
		if a.owner == "" {
			a.owner = KindExternal
		}
		return
	}
	a.Release(KindExternal)
}

// Acquire claims the arbiter for kind. It fails if any effect, including
// kind itself, already holds it.
func (a *Arbiter) Acquire(kind Kind) bool {
	if a.owner != "" {
		return false
	}
	a.owner = kind
	return true
}

// Release clears the arbiter if kind holds it.
func (a *Arbiter) Release(kind Kind) {
	if a.owner == kind {
		a.owner = ""
	}
}
