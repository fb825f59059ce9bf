// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/verte-zerg/simonsays/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary holds metrics across finished runs.
type Summary struct {
	Runs          int
	Best          int
	AverageStreak float64
	TotalRounds   int
	AvgDurationMs float64
}

// RunMetrics summarizes runs.
func RunMetrics(runs []model.RunAggregate) Summary {
	if len(runs) == 0 {
		return Summary{}
	}
	streaks := lo.Map(runs, func(r model.RunAggregate, _ int) int { return r.Streak })
	durations := lo.Map(runs, func(r model.RunAggregate, _ int) int64 { return r.DurationMs })
	count := float64(len(runs))
	return Summary{
		Runs:          len(runs),
		Best:          lo.Max(streaks),
		AverageStreak: float64(lo.Sum(streaks)) / count,
		TotalRounds:   lo.SumBy(runs, func(r model.RunAggregate) int { return r.Rounds }),
		AvgDurationMs: float64(lo.Sum(durations)) / count,
	}
}

// Streaks returns the streak of each run as floats for plotting.
func Streaks(runs []model.RunAggregate) []float64 {
	return lo.Map(runs, func(r model.RunAggregate, _ int) float64 { return float64(r.Streak) })
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := lo.Min(values)
	maxVal := lo.Max(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary of runs.
func RenderSummary(w io.Writer, runs []model.RunAggregate) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs yet.")
		return err
	}
	s := RunMetrics(runs)
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Runs: %d\n", s.Runs); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "High score: %d\n", s.Best); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg streak: %.2f\n", s.AverageStreak); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Rounds played: %d\n", s.TotalRounds); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg run length: %.1fs\n", s.AvgDurationMs/1000); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderHistory prints the streak history as a sparkline with its moving
// average, keeping only the most recent runs that fit in width.
func RenderHistory(w io.Writer, runs []model.RunAggregate, window, width int) error {
	if len(runs) == 0 {
		return nil
	}
	const labelWidth = len("Streak  ")
	if width <= 0 {
		width = TerminalWidth()
	}
	span := width - labelWidth
	if span < 1 {
		span = 1
	}
	streaks := Streaks(runs)
	avg := MovingAverage(streaks, window)
	if len(streaks) > span {
		streaks = streaks[len(streaks)-span:]
		avg = avg[len(avg)-span:]
	}
	if _, err := fmt.Fprintln(w, "History"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Streak  %s\n", Sparkline(streaks)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg %-3d %s\n", window, Sparkline(avg)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// GestureRow is a display row for a gesture aggregate.
type GestureRow struct {
	Gesture    model.Gesture
	Accuracy   float64
	ReactionMs float64
	Successes  int
	Failures   int
}

// GestureRows converts aggregates into rows sorted by lowest accuracy.
func GestureRows(aggs []model.GestureAggregate) []GestureRow {
	rows := make([]GestureRow, 0, len(aggs))
	for _, agg := range aggs {
		reaction := 0.0
		if agg.ReactionCount > 0 {
			reaction = float64(agg.ReactionSumMs) / float64(agg.ReactionCount)
		}
		rows = append(rows, GestureRow{
			Gesture:    agg.Gesture,
			Accuracy:   accuracy(agg),
			ReactionMs: reaction,
			Successes:  agg.Successes,
			Failures:   agg.Failures,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Accuracy == rows[j].Accuracy {
			return rows[i].Gesture < rows[j].Gesture
		}
		return rows[i].Accuracy < rows[j].Accuracy
	})
	return rows
}

// RenderGestureTable prints per-gesture aggregates.
func RenderGestureTable(w io.Writer, aggs []model.GestureAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No rounds played.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Gesture"); err != nil {
		return err
	}
	for _, line := range gestureTableLines(GestureRows(aggs)) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

func accuracy(agg model.GestureAggregate) float64 {
	total := agg.Successes + agg.Failures
	if total == 0 {
		return 1.0
	}
	return float64(agg.Successes) / float64(total)
}
