package sensor

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/verte-zerg/simonsays/internal/gesture"
	"github.com/verte-zerg/simonsays/internal/model"
)

func TestParseSamples(t *testing.T) {
	input := `# x,y,z
0,0,1

0.9, 0.1, 1
-1.2	0	0.8
`
	samples, err := ParseSamples(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseSamples failed: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}
	if samples[1] != (model.MotionSample{X: 0.9, Y: 0.1, Z: 1}) {
		t.Fatalf("unexpected sample: %+v", samples[1])
	}
	if samples[2].X != -1.2 || samples[2].Z != 0.8 {
		t.Fatalf("unexpected sample: %+v", samples[2])
	}
}

func TestParseSamplesErrors(t *testing.T) {
	cases := map[string]string{
		"too few values": "0,0,1\n1,2\n",
		"not a number":   "0,x,1\n",
		"empty":          "# nothing\n\n",
	}
	for name, input := range cases {
		if _, err := ParseSamples(strings.NewReader(input)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	_, err := ParseSamples(strings.NewReader("0,0,1\n1,2\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line number in error, got %v", err)
	}
}

func TestLoadSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.csv")
	if err := os.WriteFile(path, []byte("0,0,1\n1,0,1\n"), 0o644); err != nil {
		t.Fatalf("write samples: %v", err)
	}
	samples, err := LoadSamples(path)
	if err != nil {
		t.Fatalf("LoadSamples failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
}

func TestReplayLoops(t *testing.T) {
	r := NewReplay([]model.MotionSample{{X: 1}, {X: 2}}, true)
	want := []float64{1, 2, 1, 2}
	for i, x := range want {
		s, ok := r.Next()
		if !ok || s.X != x {
			t.Fatalf("sample %d: expected x=%v, got %+v ok=%v", i, x, s, ok)
		}
	}
}

func TestReplayEnds(t *testing.T) {
	r := NewReplay([]model.MotionSample{{X: 1}}, false)
	if _, ok := r.Next(); !ok {
		t.Fatalf("expected first sample")
	}
	if _, ok := r.Next(); ok {
		t.Fatalf("expected replay to end")
	}
	if _, ok := r.Next(); ok {
		t.Fatalf("expected replay to stay ended")
	}
}

func TestKeyboardGesturesClassify(t *testing.T) {
	cases := []model.Gesture{model.Up, model.Down, model.Left, model.Right, model.Shake}
	for _, g := range cases {
		k := NewKeyboard(2)
		c := gesture.NewClassifier(0, 0)
		c.Classify(Rest)
		k.Press(g)
		s, _ := k.Next()
		if got := c.Classify(s); got != g {
			t.Fatalf("press %s: classified as %s", g, got)
		}
	}
}

func TestKeyboardReturnsToRest(t *testing.T) {
	k := NewKeyboard(2)
	k.Press(model.Left)
	k.Next()
	k.Next()
	if s, _ := k.Next(); s != Rest {
		t.Fatalf("expected rest after hold, got %+v", s)
	}
	k.Press(model.Shake)
	for i := 0; i < shakeSamples; i++ {
		k.Next()
	}
	if s, _ := k.Next(); s != Rest {
		t.Fatalf("expected rest after shake, got %+v", s)
	}
}

func TestKeyboardTiltAfterShakeSettlesFirst(t *testing.T) {
	k := NewKeyboard(2)
	c := gesture.NewClassifier(0, 0)
	c.Classify(Rest)
	k.Press(model.Shake)
	s, _ := k.Next()
	if got := c.Classify(s); got != model.Shake {
		t.Fatalf("expected swing to classify as shake, got %s", got)
	}

	k.Press(model.Up)
	s, _ = k.Next()
	if s != Rest {
		t.Fatalf("expected one rest sample after the swing, got %+v", s)
	}
	c.Classify(s)
	s, _ = k.Next()
	if got := c.Classify(s); got != model.Up {
		t.Fatalf("expected tilt after shake to classify as up, got %s", got)
	}

	k.Press(model.Left)
	if s, _ := k.Next(); s != tiltSample(model.Left) {
		t.Fatalf("expected tilt without settling when not swinging, got %+v", s)
	}
}

func TestPollDeliversAndUnsubscribes(t *testing.T) {
	r := NewReplay([]model.MotionSample{{X: 1}}, true)
	var mu sync.Mutex
	count := 0
	got := make(chan struct{}, 1)
	sub := r.Subscribe(time.Millisecond, func(model.MotionSample) {
		mu.Lock()
		count++
		mu.Unlock()
		select {
		case got <- struct{}{}:
		default:
		}
	})
	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected a sample")
	}
	sub.Unsubscribe()
	sub.Unsubscribe()
	mu.Lock()
	after := count
	mu.Unlock()
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if count > after+1 {
		t.Fatalf("samples delivered after unsubscribe: %d -> %d", after, count)
	}
}
