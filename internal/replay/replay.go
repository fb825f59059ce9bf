// Package replay drives the game headlessly over recorded samples with a
// virtual clock.
package replay

import (
	"context"
	"time"

	"github.com/verte-zerg/simonsays/internal/engine"
	"github.com/verte-zerg/simonsays/internal/gesture"
	"github.com/verte-zerg/simonsays/internal/model"
	"github.com/verte-zerg/simonsays/internal/sensor"
)

// Options controls a replay.
type Options struct {
	SampleInterval time.Duration
	TickInterval   time.Duration
	// MaxRuns stops the replay after that many runs; 0 replays until the
	// samples run out.
	MaxRuns int
	// Start is the virtual time of the first sample.
	Start time.Time
}

// Result describes a finished replay.
type Result struct {
	Runs      int
	Samples   int
	Exhausted bool
}

// maxDrainRounds bounds how many prompts a run may resolve after the samples
// run out.
const maxDrainRounds = 1000

// Run feeds samples through c into e, one sample per SampleInterval of
// virtual time, ticking the countdown every TickInterval. The countdown
// phase restarts whenever a new prompt is installed. A run still in progress
// when the samples run out is played out at rest: plain prompts are waited
// out and commanded prompts time out. Exhausted is set in that case.
func Run(ctx context.Context, samples []model.MotionSample, c *gesture.Classifier, e *engine.Engine, opts Options) (Result, error) {
	if opts.SampleInterval <= 0 {
		opts.SampleInterval = sensor.DefaultInterval
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	perTick := int(opts.TickInterval / opts.SampleInterval)
	if perTick < 1 {
		perTick = 1
	}
	now := opts.Start
	if now.IsZero() {
		now = time.Unix(0, 0).UTC()
	}
	e.SetClock(func() time.Time { return now })

	var res Result
	var round uint64
	phase := 0
	// step advances the virtual clock by one sample interval after g was
	// fed and reports whether a new prompt was installed.
	step := func(g model.Gesture) bool {
		now = now.Add(opts.SampleInterval)
		e.Feed(g)
		if e.Round() != round {
			round = e.Round()
			phase = 0
			return true
		}
		if !e.Running() {
			return false
		}
		phase++
		if phase == perTick {
			phase = 0
			e.Tick()
			if e.Round() != round {
				round = e.Round()
				return true
			}
		}
		return false
	}

	for _, s := range samples {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !e.Running() {
			if opts.MaxRuns > 0 && res.Runs >= opts.MaxRuns {
				return res, nil
			}
			e.StartRun()
			res.Runs++
			round = e.Round()
			phase = 0
		}
		res.Samples++
		step(c.Classify(s))
	}
	if !e.Running() {
		return res, nil
	}

	res.Exhausted = true
	c.Reset()
	drained := 0
	for e.Running() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if drained >= maxDrainRounds {
			e.Stop()
			break
		}
		if step(model.None) {
			drained++
		}
	}
	return res, nil
}
