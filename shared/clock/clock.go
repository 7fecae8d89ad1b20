package clock

import (
	"time"

	"gearshare/shared/timezone"
)

// Clock supplies the current instant. Services that classify reservations as
// past, current or future take a Clock instead of calling time.Now directly,
// so tests can pin "now".
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return timezone.Now()
}

// System returns a Clock backed by the application timezone.
func System() Clock {
	return systemClock{}
}

// Fixed returns a Clock that always reports t.
func Fixed(t time.Time) Clock {
	return fixedClock{t: t}
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}
