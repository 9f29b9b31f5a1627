//go:build !js

package clock

import "time"

// Real implements Clock using the runtime's monotonic reading
type Real struct{}

// Now returns the current time
func (c *Real) Now() time.Time {
	return time.Now()
}

func newReal() Clock {
	return &Real{}
}
