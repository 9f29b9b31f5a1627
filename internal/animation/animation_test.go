package animation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/rpg-gameplay/internal/animation"
)

func TestUpdate(t *testing.T) {
	testCases := []struct {
		name     string
		state    animation.State
		delta    float32
		expected float32
	}{
		{
			name:     "playing at double speed",
			state:    animation.State{CurrentTime: 0, Speed: 2.0, IsPlaying: true},
			delta:    0.5,
			expected: 1.0,
		},
		{
			name:     "paused ignores delta",
			state:    animation.State{CurrentTime: 0.25, Speed: 2.0, IsPlaying: false},
			delta:    10,
			expected: 0.25,
		},
		{
			name:     "zero delta",
			state:    animation.State{CurrentTime: 3, Speed: 1, IsPlaying: true},
			delta:    0,
			expected: 3,
		},
		{
			name:     "no wraparound past clip end",
			state:    animation.State{CurrentTime: 99, Speed: 1, IsPlaying: true},
			delta:    2,
			expected: 101,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			state := tc.state
			state.Update(tc.delta)
			assert.Equal(t, tc.expected, state.CurrentTime)
		})
	}
}

func TestPlayPauseResume(t *testing.T) {
	state := animation.New()
	assert.False(t, state.IsPlaying)
	assert.Equal(t, float32(1), state.Speed)

	state.Play(3, 2)
	state.Update(0.5)
	assert.Equal(t, 3, state.AnimationIndex)
	assert.Equal(t, float32(1), state.CurrentTime)

	state.Pause()
	state.Update(0.5)
	assert.Equal(t, float32(1), state.CurrentTime)

	state.Resume()
	state.Update(0.25)
	assert.Equal(t, float32(1.5), state.CurrentTime)

	state.Play(4, 1)
	assert.Equal(t, float32(0), state.CurrentTime, "play restarts the clip")
}
