package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/simonsays/internal/engine"
	"github.com/verte-zerg/simonsays/internal/generator"
	"github.com/verte-zerg/simonsays/internal/model"
	"github.com/verte-zerg/simonsays/internal/sensor"
	"github.com/verte-zerg/simonsays/internal/store"
)

func newTestModel(t *testing.T, kb *sensor.Keyboard) (*Model, *store.Store) {
	t.Helper()
	st, err := store.Open()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	cfg := model.Config{RoundSeconds: 5, SequenceLength: 5}
	return NewModel(cfg, st, generator.NewSeeded(7), nil, kb), st
}

func press(m *Model, k tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(k)
	return cmd
}

func tiltFor(g model.Gesture) model.MotionSample {
	s := sensor.Rest
	switch g {
	case model.Up:
		s.Y = -1
	case model.Down:
		s.Y = 1
	case model.Left:
		s.X = -1
	case model.Right:
		s.X = 1
	}
	return s
}

func otherTilt(g model.Gesture) model.Gesture {
	if g == model.Left {
		return model.Right
	}
	return model.Left
}

func TestStartKeyStartsRunAndCountdown(t *testing.T) {
	m, _ := newTestModel(t, nil)
	if cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter}); cmd == nil {
		t.Fatalf("expected countdown command")
	}
	if m.engine.State() != engine.Running {
		t.Fatalf("expected running, got %s", m.engine.State())
	}
	if m.tickRound != m.engine.Round() {
		t.Fatalf("countdown not bound to current round")
	}
	if !strings.Contains(m.View(), "5s") {
		t.Fatalf("expected full timer in view:\n%s", m.View())
	}
}

func TestStaleTickIgnored(t *testing.T) {
	m, _ := newTestModel(t, nil)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	round := m.engine.Round()

	m.Update(tickMsg{round: round - 1})
	if m.engine.Timer() != 5 {
		t.Fatalf("stale tick must not count down, timer=%d", m.engine.Timer())
	}
	_, cmd := m.Update(tickMsg{round: round})
	if m.engine.Timer() != 4 {
		t.Fatalf("expected timer 4, got %d", m.engine.Timer())
	}
	if cmd == nil {
		t.Fatalf("expected next tick to be scheduled")
	}
}

func TestWrongGestureEndsRunAndSavesIt(t *testing.T) {
	m, st := newTestModel(t, nil)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	p, ok := m.engine.Prompt()
	if !ok {
		t.Fatalf("expected prompt")
	}
	m.Update(sampleMsg(tiltFor(otherTilt(p.Gesture))))
	if m.engine.State() != engine.Ended {
		t.Fatalf("expected run to end, got %s", m.engine.State())
	}
	if !strings.Contains(m.View(), "You failed to follow Simon Says!") {
		t.Fatalf("expected game-over banner:\n%s", m.View())
	}
	runs, err := st.ListRuns(context.Background(), model.StatsConfig{})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Rounds != 1 {
		t.Fatalf("expected one saved run with one round, got %+v", runs)
	}
}

func TestStaleSensorReleasesHeldGesture(t *testing.T) {
	m, _ := newTestModel(t, nil)
	now := time.Unix(100, 0)
	m.now = func() time.Time { return now }
	m.Update(sampleMsg(tiltFor(model.Left)))
	if m.engine.Held() != model.Left {
		t.Fatalf("expected left held, got %s", m.engine.Held())
	}
	now = now.Add(time.Duration(staleAfter-1) * sensor.DefaultInterval)
	m.Update(staleCheckMsg{})
	if m.engine.Held() != model.Left {
		t.Fatalf("gesture released too early")
	}
	now = now.Add(sensor.DefaultInterval)
	m.Update(staleCheckMsg{})
	if m.engine.Held() != model.None {
		t.Fatalf("expected stale sensor to read as none, got %s", m.engine.Held())
	}
}

func TestGestureKeysDriveKeyboard(t *testing.T) {
	kb := sensor.NewKeyboard(1)
	m, _ := newTestModel(t, kb)
	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	s, _ := kb.Next()
	if s.X != -1 {
		t.Fatalf("expected left tilt sample, got %+v", s)
	}
	press(m, tea.KeyMsg{Type: tea.KeyUp})
	s, _ = kb.Next()
	if s.Y != -1 {
		t.Fatalf("expected up tilt sample, got %+v", s)
	}
}

func TestStatsViewOnlyBetweenRuns(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	if !m.showStats {
		t.Fatalf("expected stats view")
	}
	if !strings.Contains(m.View(), "Overview") {
		t.Fatalf("expected stats tabs:\n%s", m.View())
	}
	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showStats {
		t.Fatalf("expected esc to leave stats view")
	}
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.showStats {
		t.Fatalf("stats view must not open during a run")
	}
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestModel(t, nil)
	cmd := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestIdleViewShowsInstructions(t *testing.T) {
	m, _ := newTestModel(t, nil)
	out := m.View()
	for _, want := range []string{"Simon Says", "stay still", "Press enter to start"} {
		if !strings.Contains(out, want) {
			t.Fatalf("idle view missing %q:\n%s", want, out)
		}
	}
}

func TestRenderStatusFormats(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.session.RecordRun(4)
	m.session.RecordRun(2)
	out := m.renderStatus()
	for _, want := range []string{"Streak 0", "Best 4", "Runs 2 · Avg 3.0"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status missing %q: %s", want, out)
		}
	}
}

func TestCenterCell(t *testing.T) {
	for _, g := range model.Gestures {
		if w := runewidth.StringWidth(centerCell(gestureGlyph(g), glyphWidth)); w != glyphWidth {
			t.Fatalf("glyph for %s has width %d", g, w)
		}
	}
}
