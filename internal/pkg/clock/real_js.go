//go:build js && wasm

package clock

import (
	"syscall/js"
	"time"
)

// Real implements Clock on top of performance.now(), which the browser keeps
// monotonic even when the wall clock is adjusted.
type Real struct {
	origin      time.Time
	originMs    float64
	performance js.Value
}

// Now returns the origin advanced by the high resolution timer
func (c *Real) Now() time.Time {
	elapsedMs := c.performance.Call("now").Float() - c.originMs
	return c.origin.Add(time.Duration(elapsedMs * float64(time.Millisecond)))
}

func newReal() Clock {
	perf := js.Global().Get("performance")
	return &Real{
		origin:      time.Now(),
		originMs:    perf.Call("now").Float(),
		performance: perf,
	}
}
