// Package gesture turns accelerometer samples into gesture symbols.
package gesture

import (
	"math"

	"github.com/verte-zerg/simonsays/internal/model"
)

// Default thresholds, in g.
const (
	DefaultTiltThreshold  = 0.8
	DefaultShakeThreshold = 1.5
)

// Classifier maps each sample to the gesture it represents. It keeps only
// the previous sample, used for shake deltas.
type Classifier struct {
	tilt  float64
	shake float64
	prev  model.MotionSample
}

// NewClassifier returns a Classifier with the given thresholds. Non-positive
// values fall back to the defaults.
func NewClassifier(tilt, shake float64) *Classifier {
	if tilt <= 0 {
		tilt = DefaultTiltThreshold
	}
	if shake <= 0 {
		shake = DefaultShakeThreshold
	}
	return &Classifier{tilt: tilt, shake: shake}
}

// Classify returns the gesture for s and stores s as the previous sample.
func (c *Classifier) Classify(s model.MotionSample) model.Gesture {
	g := c.classify(s)
	c.prev = s
	return g
}

// Reset forgets the previous sample.
func (c *Classifier) Reset() {
	c.prev = model.MotionSample{}
}

func (c *Classifier) classify(s model.MotionSample) model.Gesture {
	dx := math.Abs(s.X - c.prev.X)
	dy := math.Abs(s.Y - c.prev.Y)
	dz := math.Abs(s.Z - c.prev.Z)
	if c.pairExceeds(dx, dy) || c.pairExceeds(dy, dz) || c.pairExceeds(dx, dz) {
		return model.Shake
	}
	switch {
	case s.X > c.tilt:
		return model.Right
	case s.X < -c.tilt:
		return model.Left
	case s.Y > c.tilt:
		return model.Down
	case s.Y < -c.tilt:
		return model.Up
	default:
		return model.None
	}
}

func (c *Classifier) pairExceeds(a, b float64) bool {
	return a > c.shake && b > c.shake
}
