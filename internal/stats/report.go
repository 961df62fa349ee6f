package stats

import (
	"context"

	"github.com/verte-zerg/speedtype/internal/model"
)

// ReportSource loads stored results for reporting.
type ReportSource interface {
	ListResults(ctx context.Context, cfg model.StatsConfig) ([]model.ResultSummary, error)
	ListCharAggregates(ctx context.Context, resultIDs []string) ([]model.CharAggregate, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Results   []model.ResultSummary
	CharAggs  []model.CharAggregate
	WeakChars []string
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src ReportSource, cfg model.StatsConfig, weakTop int) (Report, error) {
	results, err := src.ListResults(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(results) > cfg.Last {
		results = results[len(results)-cfg.Last:]
	}
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ResultID
	}
	aggs, err := src.ListCharAggregates(ctx, ids)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Results:   results,
		CharAggs:  aggs,
		WeakChars: WeakChars(aggs, weakTop),
	}, nil
}
