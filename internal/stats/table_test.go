package stats

import (
	"testing"

	"github.com/verte-zerg/simonsays/internal/model"
)

func TestGestureTableLinesAlignsColumns(t *testing.T) {
	rows := []GestureRow{
		{Gesture: model.Up, Accuracy: 0.975, ReactionMs: 412.3, Successes: 39, Failures: 1},
		{Gesture: model.Shake, Accuracy: 0.5, ReactionMs: 1250, Successes: 2, Failures: 2},
	}

	lines := gestureTableLines(rows)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Gesture Accuracy Avg Reaction (ms) Passed Failed" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "up        97.50%             412.3     39      1" {
		t.Fatalf("unexpected up line: %q", lines[1])
	}
	if lines[2] != "shake     50.00%            1250.0      2      2" {
		t.Fatalf("unexpected shake line: %q", lines[2])
	}
}

func TestGestureTableLinesWithoutRows(t *testing.T) {
	lines := gestureTableLines(nil)
	if len(lines) != 1 || lines[0] != "Gesture Accuracy Avg Reaction (ms) Passed Failed" {
		t.Fatalf("expected header only, got %q", lines)
	}
}
