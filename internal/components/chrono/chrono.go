package chrono

import "time"

// API is what anything depending on the system clock should use.
type API interface {
	Now() time.Time
}

// StandardImpl reads the system clock in the local timezone.
type StandardImpl struct{}

func NewStandardImpl() StandardImpl {
	return StandardImpl{}
}

func (StandardImpl) Now() time.Time {
	return time.Now()
}

// FixedImpl always returns the same instant.
type FixedImpl struct {
	At time.Time
}

func (f FixedImpl) Now() time.Time {
	return f.At
}
