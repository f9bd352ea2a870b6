package entity

import "fmt"

// Limit is an optional upper bound on the number of entries taken from a feed.
// The zero value means "no limit".
type Limit struct {
	n   int
	set bool
}

// NoLimit returns a Limit that does not bound anything.
func NoLimit() Limit {
	return Limit{}
}

// LimitTo returns a Limit of n. The value is not checked here; call Validate
// before the limit reaches any collaborator.
func LimitTo(n int) Limit {
	return Limit{n: n, set: true}
}

// Value returns the bound and whether one is set.
func (l Limit) Value() (int, bool) {
	return l.n, l.set
}

// IsSet reports whether the limit bounds anything.
func (l Limit) IsSet() bool {
	return l.set
}

// Validate fails with ErrInvalidArgument when a limit is set and is below 1.
func (l Limit) Validate() error {
	if l.set && l.n < 1 {
		return &ValidationError{
			Field:   "limit",
			Message: fmt.Sprintf("limit must be greater than 0, got %d", l.n),
		}
	}
	return nil
}

// Apply returns how many of total items fall within the limit.
func (l Limit) Apply(total int) int {
	if !l.set || l.n >= total {
		return total
	}
	if l.n < 0 {
		return 0
	}
	return l.n
}

// String renders the limit for logs.
func (l Limit) String() string {
	if !l.set {
		return "none"
	}
	return fmt.Sprintf("%d", l.n)
}
