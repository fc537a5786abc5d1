// Package guard implements the capability-revocation discipline used to
// wrap every handle returned to external code (§4.11), generalized from
// the donor's server/internal/txguard single-purpose "transaction closed"
// check into composable time and entity validators.
package guard

// Validator reports whether the capability it guards is still usable.
type Validator interface {
	Valid() bool
}

// ValidatorFunc adapts a func() bool to a Validator.
type ValidatorFunc func() bool

// Valid calls f.
func (f ValidatorFunc) Valid() bool { return f() }

// Composite is valid iff every member Validator is valid. It is used to
// compose a time guard and an entity guard onto a single handle, per the
// data model's "two guards compose on each handle" requirement.
type Composite []Validator

// Valid reports whether every validator in c is valid.
func (c Composite) Valid() bool {
	for _, v := range c {
		if !v.Valid() {
			return false
		}
	}
	return true
}

const panicSentinel = "boopworld: capability used past its valid scope"

// Check panics with the package's sentinel value if v is not valid. It is
// meant to be called at the top of every accessor/mutator on a guarded
// handle.
func Check(v Validator) {
	if !v.Valid() {
		panic(panicSentinel)
	}
}

// Run executes fn, recovering a Check panic raised during fn and
// reporting ok=false in that case. Any other panic propagates.
func Run(fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if msg, isStr := r.(string); isStr && msg == panicSentinel {
				ok = false
				return
			}
			panic(r)
		}
	}()
	fn()
	return true
}

// Value is Run for functions that produce a value.
func Value[T any](fn func() T) (value T, ok bool) {
	ok = Run(func() {
		value = fn()
	})
	return
}
