package sensor

import (
	"sync"
	"time"

	"github.com/verte-zerg/simonsays/internal/model"
)

// Replay plays back recorded samples, optionally looping.
type Replay struct {
	mu      sync.Mutex
	samples []model.MotionSample
	pos     int
	loop    bool
}

// NewReplay returns a Replay over samples.
func NewReplay(samples []model.MotionSample, loop bool) *Replay {
	return &Replay{samples: samples, loop: loop}
}

// Next returns the next recorded sample.
func (r *Replay) Next() (model.MotionSample, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.samples) == 0 {
		return model.MotionSample{}, false
	}
	if r.pos >= len(r.samples) {
		if !r.loop {
			return model.MotionSample{}, false
		}
		r.pos = 0
	}
	s := r.samples[r.pos]
	r.pos++
	return s, true
}

// Subscribe implements Source.
func (r *Replay) Subscribe(interval time.Duration, fn func(model.MotionSample)) Subscription {
	return Poll(r, interval, fn)
}
