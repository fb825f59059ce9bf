package gesture

import (
	"testing"

	"github.com/verte-zerg/simonsays/internal/model"
)

func TestClassifyQuietSamplesYieldNone(t *testing.T) {
	c := NewClassifier(0, 0)
	samples := []model.MotionSample{
		{X: 0, Y: 0, Z: 1},
		{X: 0.5, Y: -0.7, Z: 0.9},
		{X: -0.79, Y: 0.79, Z: 1.2},
		{X: 0.1, Y: 0.2, Z: 1},
	}
	for i, s := range samples {
		if got := c.Classify(s); got != model.None {
			t.Fatalf("sample %d: expected none, got %s", i, got)
		}
	}
}

func TestClassifyTilts(t *testing.T) {
	cases := []struct {
		name   string
		sample model.MotionSample
		want   model.Gesture
	}{
		{"right", model.MotionSample{X: 0.9}, model.Right},
		{"left", model.MotionSample{X: -0.9}, model.Left},
		{"down", model.MotionSample{Y: 0.9}, model.Down},
		{"up", model.MotionSample{Y: -0.9}, model.Up},
		{"exactly threshold", model.MotionSample{X: 0.8}, model.None},
	}
	for _, tc := range cases {
		c := NewClassifier(0.8, 1.5)
		if got := c.Classify(tc.sample); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestClassifyXCheckedBeforeY(t *testing.T) {
	c := NewClassifier(0.8, 1.5)
	if got := c.Classify(model.MotionSample{X: 0.9, Y: 0.9}); got != model.Right {
		t.Fatalf("expected right, got %s", got)
	}
	c.Reset()
	if got := c.Classify(model.MotionSample{X: -0.9, Y: -1.2}); got != model.Left {
		t.Fatalf("expected left, got %s", got)
	}
}

func TestClassifyShakeTakesPriority(t *testing.T) {
	c := NewClassifier(0.8, 1.5)
	c.Classify(model.MotionSample{X: -1, Y: -1, Z: 0})
	// Raw x would read as a right tilt, but dx and dy both exceed the shake threshold.
	if got := c.Classify(model.MotionSample{X: 1, Y: 1, Z: 0}); got != model.Shake {
		t.Fatalf("expected shake, got %s", got)
	}
}

func TestClassifyShakeNeedsTwoAxes(t *testing.T) {
	c := NewClassifier(0.8, 1.5)
	c.Classify(model.MotionSample{})
	if got := c.Classify(model.MotionSample{Z: 3}); got != model.None {
		t.Fatalf("expected none for single-axis jolt, got %s", got)
	}
	if got := c.Classify(model.MotionSample{Y: 2, Z: 0.5}); got != model.Shake {
		t.Fatalf("expected shake on dy/dz pair, got %s", got)
	}
}

func TestClassifyUsesPreviousSampleOnly(t *testing.T) {
	c := NewClassifier(0.8, 1.5)
	c.Classify(model.MotionSample{X: 2, Y: 2})
	c.Classify(model.MotionSample{X: 2, Y: 2})
	if got := c.Classify(model.MotionSample{X: 2, Y: 2}); got != model.Right {
		t.Fatalf("expected held tilt to read as right, got %s", got)
	}
}
