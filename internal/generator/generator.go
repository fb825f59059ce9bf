// Package generator builds randomized prompt sequences.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/simonsays/internal/model"
)

// Generator produces random prompts.
type Generator struct {
	rnd          *rand.Rand
	commandedPct float64
	weights      []float64
	total        float64
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed)), commandedPct: 0.5}
}

// Next draws the gesture uniformly from model.Gestures, or by weight after
// SetWeak, and flips a fair coin for the "Simon says" framing.
func (g *Generator) Next() model.Prompt {
	return model.Prompt{
		Gesture:   g.gesture(),
		Commanded: g.rnd.Float64() < g.commandedPct,
	}
}

// SetWeak biases selection toward weak gestures: each weak gesture weighs
// 1+factor against 1 for the others. An empty set restores uniform draws.
func (g *Generator) SetWeak(weak map[model.Gesture]struct{}, factor float64) {
	if len(weak) == 0 || factor <= 0 {
		g.weights = nil
		g.total = 0
		return
	}
	g.weights = make([]float64, len(model.Gestures))
	g.total = 0
	for i, gesture := range model.Gestures {
		w := 1.0
		if _, ok := weak[gesture]; ok {
			w += factor
		}
		g.weights[i] = w
		g.total += w
	}
}

func (g *Generator) gesture() model.Gesture {
	if len(g.weights) == 0 {
		return model.Gestures[g.rnd.Intn(len(model.Gestures))]
	}
	r := g.rnd.Float64() * g.total
	acc := 0.0
	for i, w := range g.weights {
		acc += w
		if r <= acc {
			return model.Gestures[i]
		}
	}
	return model.Gestures[len(model.Gestures)-1]
}

// Sequence returns count prompts.
func (g *Generator) Sequence(count int) []model.Prompt {
	result := make([]model.Prompt, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, g.Next())
	}
	return result
}
