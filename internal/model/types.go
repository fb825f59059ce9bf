// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Config defines game settings.
type Config struct {
	RoundSeconds   int
	SequenceLength int
	TiltThreshold  float64
	ShakeThreshold float64
	SampleInterval time.Duration
	Seed           int64
	Source         string
	ReplayFile     string
	Loop           bool
	FocusWeak      bool
	WeakTop        int
	WeakFactor     float64
}

// StatsConfig defines filters for stats output.
type StatsConfig struct {
	Last int
}

// MotionSample is a single 3-axis accelerometer reading.
type MotionSample struct {
	X float64
	Y float64
	Z float64
}

// Gesture is a classified motion symbol.
type Gesture int

// Gesture values. None means the device is roughly at rest.
const (
	None Gesture = iota
	Up
	Down
	Left
	Right
	Shake
)

// Gestures lists every gesture a prompt can ask for.
var Gestures = []Gesture{Up, Down, Left, Right, Shake}

var gestureNames = map[Gesture]string{
	None:  "none",
	Up:    "up",
	Down:  "down",
	Left:  "left",
	Right: "right",
	Shake: "shake",
}

func (g Gesture) String() string {
	if name, ok := gestureNames[g]; ok {
		return name
	}
	return fmt.Sprintf("gesture(%d)", int(g))
}

// ParseGesture converts a gesture name back to its value.
func ParseGesture(name string) (Gesture, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for g, n := range gestureNames {
		if n == name {
			return g, nil
		}
	}
	return None, fmt.Errorf("unknown gesture %q", name)
}

// Prompt is a single challenge shown to the player.
type Prompt struct {
	Gesture   Gesture
	Commanded bool
}

func (p Prompt) String() string {
	label := strings.ToUpper(p.Gesture.String())
	if p.Commanded {
		return "Simon says " + label
	}
	return label
}

// Result is the resolution of a round.
type Result string

// Round results.
const (
	Success Result = "success"
	Failure Result = "failure"
)

// Cause explains how a round was resolved.
type Cause string

// Resolution causes.
const (
	CauseMatched      Cause = "matched"
	CauseWaited       Cause = "waited"
	CauseWrongGesture Cause = "wrong-gesture"
	CauseNotCommanded Cause = "gesture-not-commanded"
	CauseTimeout      Cause = "timeout"
	CauseHeldAtExpiry Cause = "held-at-expiry"
)

// RoundOutcome records a resolved round.
type RoundOutcome struct {
	Prompt   Prompt
	Result   Result
	Cause    Cause
	Gesture  Gesture
	Reaction time.Duration
}

// RunRecord captures a finished run.
type RunRecord struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Streak    int
	Message   string
	Rounds    []RoundOutcome
}

// RunAggregate summarizes a run for reporting.
type RunAggregate struct {
	ID         string
	EndedAt    time.Time
	Streak     int
	Rounds     int
	DurationMs int64
}

// GestureAggregate aggregates round outcomes per prompted gesture.
type GestureAggregate struct {
	Gesture       Gesture
	Successes     int
	Failures      int
	ReactionSumMs int64
	ReactionCount int64
}
