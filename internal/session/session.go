// Package session tracks streaks, run history and the high score.
package session

import "github.com/samber/lo"

// Session holds the streak of the current run and the results of finished
// runs for the lifetime of the process.
type Session struct {
	streak    int
	active    bool
	history   []int
	highScore int
}

// New returns an empty Session.
func New() *Session {
	return &Session{}
}

// Begin starts a new run with a zero streak.
func (s *Session) Begin() {
	s.streak = 0
	s.active = true
}

// Increment adds a resolved round to the streak and returns the new value.
// It is a no-op when no run is active.
func (s *Session) Increment() int {
	if s.active {
		s.streak++
	}
	return s.streak
}

// Finish ends the active run and records its streak. It reports whether a
// run was finalized; calling it again returns false.
func (s *Session) Finish() bool {
	if !s.active {
		return false
	}
	s.active = false
	s.RecordRun(s.streak)
	return true
}

// RecordRun appends a finished streak to history and updates the high score.
func (s *Session) RecordRun(finalStreak int) {
	s.history = append(s.history, finalStreak)
	s.highScore = lo.Max([]int{s.highScore, finalStreak})
}

// Streak returns the streak of the current or last run.
func (s *Session) Streak() int {
	return s.streak
}

// Active reports whether a run is in progress.
func (s *Session) Active() bool {
	return s.active
}

// History returns the finished streaks in run order.
func (s *Session) History() []int {
	out := make([]int, len(s.history))
	copy(out, s.history)
	return out
}

// Runs returns the number of finished runs.
func (s *Session) Runs() int {
	return len(s.history)
}

// HighScore returns the best finished streak.
func (s *Session) HighScore() int {
	return s.highScore
}

// AverageStreak returns the mean finished streak.
func (s *Session) AverageStreak() float64 {
	if len(s.history) == 0 {
		return 0
	}
	return float64(lo.Sum(s.history)) / float64(len(s.history))
}
