// Package sensor provides motion sample sources.
package sensor

import (
	"sync"
	"time"

	"github.com/verte-zerg/simonsays/internal/model"
)

// DefaultInterval is the default sampling cadence.
const DefaultInterval = 100 * time.Millisecond

// Rest is the reading of a device lying flat and still.
var Rest = model.MotionSample{X: 0, Y: 0, Z: 1}

// Source delivers motion samples at a fixed interval until unsubscribed.
type Source interface {
	Subscribe(interval time.Duration, fn func(model.MotionSample)) Subscription
}

// Subscription cancels a Subscribe call. Unsubscribe may be called more
// than once.
type Subscription interface {
	Unsubscribe()
}

// Sampler yields the next sample. ok is false once the sampler has nothing
// more to deliver.
type Sampler interface {
	Next() (s model.MotionSample, ok bool)
}

type subscription struct {
	stop chan struct{}
	once sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		close(s.stop)
	})
}

// Poll calls fn with a sample from src every interval on its own goroutine.
// Polling ends when src is exhausted or the subscription is cancelled.
func Poll(src Sampler, interval time.Duration, fn func(model.MotionSample)) Subscription {
	if interval <= 0 {
		interval = DefaultInterval
	}
	sub := &subscription{stop: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-sub.stop:
				return
			case <-ticker.C:
			}
			sample, ok := src.Next()
			if !ok {
				return
			}
			select {
			case <-sub.stop:
				return
			default:
			}
			fn(sample)
		}
	}()
	return sub
}
