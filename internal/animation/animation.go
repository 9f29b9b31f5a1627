// Package animation advances per-entity animation playback.
//
// Looping and clip durations belong to animation asset data; callers that
// need them compare CurrentTime against the clip length themselves.
package animation

// State is the playback state of one entity's animation
type State struct {
	AnimationIndex int     `json:"animation_index"`
	CurrentTime    float32 `json:"current_time"`
	IsPlaying      bool    `json:"is_playing"`
	Speed          float32 `json:"speed"`
}

// New returns a stopped state at clip 0 with normal speed
func New() State {
	return State{Speed: 1}
}

// Update advances CurrentTime by deltaTime scaled by Speed while playing
func (s *State) Update(deltaTime float32) {
	if !s.IsPlaying {
		return
	}
	s.CurrentTime += deltaTime * s.Speed
}

// Play starts a clip from the beginning
func (s *State) Play(index int, speed float32) {
	s.AnimationIndex = index
	s.CurrentTime = 0
	s.Speed = speed
	s.IsPlaying = true
}

// Pause stops advancing without resetting the time
func (s *State) Pause() {
	s.IsPlaying = false
}

// Resume continues from the current time
func (s *State) Resume() {
	s.IsPlaying = true
}
