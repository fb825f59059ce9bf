package sensor

import (
	"sync"
	"time"

	"github.com/verte-zerg/simonsays/internal/model"
)

// Keyboard simulates an accelerometer from key presses. A tilt is held for
// a few samples and then the device returns to rest; a shake swings x and y
// back and forth. A tilt pressed straight after a swing starts with one
// rest sample so the jump out of the swing does not read as another shake.
type Keyboard struct {
	mu        sync.Mutex
	hold      int
	tilt      model.MotionSample
	remaining int
	shakes    int
	flip      bool
	swinging  bool
	settle    bool
}

const (
	defaultHoldSamples = 3
	shakeSamples       = 4
	keyboardTilt       = 1.0
	keyboardShakeSwing = 2.0
)

// NewKeyboard returns a Keyboard that holds tilts for holdSamples samples.
func NewKeyboard(holdSamples int) *Keyboard {
	if holdSamples <= 0 {
		holdSamples = defaultHoldSamples
	}
	return &Keyboard{hold: holdSamples}
}

// Press starts the motion for g. None returns the device to rest.
func (k *Keyboard) Press(g model.Gesture) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.shakes = 0
	k.remaining = 0
	k.settle = false
	switch g {
	case model.Shake:
		k.shakes = shakeSamples
	case model.Up, model.Down, model.Left, model.Right:
		k.tilt = tiltSample(g)
		k.remaining = k.hold
		k.settle = k.swinging
	}
}

// Next returns the current simulated reading. It never runs out.
func (k *Keyboard) Next() (model.MotionSample, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.settle {
		k.settle = false
		k.swinging = false
		return Rest, true
	}
	if k.shakes > 0 {
		k.shakes--
		k.swinging = true
		k.flip = !k.flip
		swing := keyboardShakeSwing
		if !k.flip {
			swing = -swing
		}
		return model.MotionSample{X: swing, Y: swing, Z: Rest.Z}, true
	}
	k.swinging = false
	if k.remaining > 0 {
		k.remaining--
		return k.tilt, true
	}
	return Rest, true
}

// Subscribe implements Source.
func (k *Keyboard) Subscribe(interval time.Duration, fn func(model.MotionSample)) Subscription {
	return Poll(k, interval, fn)
}

func tiltSample(g model.Gesture) model.MotionSample {
	s := Rest
	switch g {
	case model.Up:
		s.Y = -keyboardTilt
	case model.Down:
		s.Y = keyboardTilt
	case model.Left:
		s.X = -keyboardTilt
	case model.Right:
		s.X = keyboardTilt
	}
	return s
}
