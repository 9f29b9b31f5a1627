package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/rpg-gameplay/internal/pkg/clock"
)

func TestManualAdvance(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := clock.NewManual(start)

	assert.Equal(t, start, c.Now())

	c.Advance(250 * time.Millisecond)
	assert.Equal(t, 250*time.Millisecond, clock.Since(c, start))

	c.Advance(-time.Second)
	assert.Equal(t, 250*time.Millisecond, clock.Since(c, start), "negative advance is ignored")
}

func TestRealIsMonotonic(t *testing.T) {
	c := clock.New()
	first := c.Now()
	second := c.Now()
	assert.False(t, second.Before(first))
}
