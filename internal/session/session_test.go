package session

import "testing"

func TestRecordRunTracksHighScore(t *testing.T) {
	s := New()
	streaks := []int{3, 7, 2, 7, 5}
	best := 0
	for i, streak := range streaks {
		s.RecordRun(streak)
		if streak > best {
			best = streak
		}
		if s.HighScore() != best {
			t.Fatalf("after run %d expected high score %d, got %d", i, best, s.HighScore())
		}
	}
	history := s.History()
	if len(history) != len(streaks) {
		t.Fatalf("expected %d history entries, got %d", len(streaks), len(history))
	}
	for i := range streaks {
		if history[i] != streaks[i] {
			t.Fatalf("history out of order: %v", history)
		}
	}
}

func TestHistoryIsACopy(t *testing.T) {
	s := New()
	s.RecordRun(4)
	h := s.History()
	h[0] = 99
	if s.History()[0] != 4 {
		t.Fatalf("history must not be mutable through accessor")
	}
}

func TestFinishIsIdempotent(t *testing.T) {
	s := New()
	s.Begin()
	s.Increment()
	s.Increment()
	if !s.Finish() {
		t.Fatalf("expected first finish to finalize")
	}
	if s.Finish() {
		t.Fatalf("expected second finish to be ignored")
	}
	if s.Increment() != 2 {
		t.Fatalf("increment after finish must not change streak")
	}
	if s.Runs() != 1 || s.History()[0] != 2 {
		t.Fatalf("expected one recorded run with streak 2, got %v", s.History())
	}
}

func TestBeginResetsStreak(t *testing.T) {
	s := New()
	s.Begin()
	s.Increment()
	s.Finish()
	s.Begin()
	if s.Streak() != 0 || !s.Active() {
		t.Fatalf("expected fresh active run, got streak=%d active=%v", s.Streak(), s.Active())
	}
	if s.HighScore() != 1 {
		t.Fatalf("high score must survive a new run, got %d", s.HighScore())
	}
}

func TestAverageStreak(t *testing.T) {
	s := New()
	if s.AverageStreak() != 0 {
		t.Fatalf("expected zero average without runs")
	}
	s.RecordRun(2)
	s.RecordRun(5)
	if s.AverageStreak() != 3.5 {
		t.Fatalf("expected 3.5, got %f", s.AverageStreak())
	}
}
