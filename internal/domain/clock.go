package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Reference supplies the instant that closes every time window. A fixed
// reference pins the dashboard to the snapshot date; a live one follows clock.
type Reference struct {
	fixed time.Time
	clock clockwork.Clock
}

// FixedReference always reports t (in UTC).
func FixedReference(t time.Time) Reference {
	return Reference{fixed: t.UTC()}
}

// LiveReference reports the current time of c. Pass nil for the real clock.
func LiveReference(c clockwork.Clock) Reference {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	return Reference{clock: c}
}

// Now returns the reference instant.
func (r Reference) Now() time.Time {
	if r.clock != nil {
		return r.clock.Now().UTC()
	}
	return r.fixed
}

// IsLive reports whether the reference follows a clock.
func (r Reference) IsLive() bool { return r.clock != nil }
