package stats

import (
	"context"

	"github.com/samber/lo"

	"github.com/verte-zerg/simonsays/internal/model"
	"github.com/verte-zerg/simonsays/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Runs              []model.RunAggregate
	WindowRunIDs      []string
	GestureAggsAll    []model.GestureAggregate
	GestureAggsWindow []model.GestureAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig, window int) (Report, error) {
	runs, err := st.ListRuns(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if len(runs) == 0 {
		return Report{}, nil
	}

	allIDs := runIDs(runs)
	windowIDs := lastRunIDs(runs, window)
	aggsAll, err := st.ListGestureAggregates(ctx, allIDs)
	if err != nil {
		return Report{}, err
	}
	aggsWindow, err := st.ListGestureAggregates(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Runs:              runs,
		WindowRunIDs:      windowIDs,
		GestureAggsAll:    aggsAll,
		GestureAggsWindow: aggsWindow,
	}, nil
}

func runIDs(runs []model.RunAggregate) []string {
	return lo.Map(runs, func(r model.RunAggregate, _ int) string { return r.ID })
}

func lastRunIDs(runs []model.RunAggregate, window int) []string {
	if window <= 0 || len(runs) <= window {
		return runIDs(runs)
	}
	return runIDs(runs[len(runs)-window:])
}
