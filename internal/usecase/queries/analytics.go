package queries

import (
	"context"
	"time"
)

type AnalyticsQueries interface {
	// Summary aggregates orders and reservations over [from, to).
	Summary(ctx context.Context, from, to time.Time) (*AnalyticsSummary, error)
}

type AnalyticsViewRepo interface {
	Summarize(ctx context.Context, from, to time.Time) (*AnalyticsSummary, error)
}

type analyticsQueriesImpl struct {
	repo AnalyticsViewRepo
}

func NewAnalyticsQueries(repo AnalyticsViewRepo) AnalyticsQueries {
	return &analyticsQueriesImpl{repo: repo}
}

func (q *analyticsQueriesImpl) Summary(ctx context.Context, from, to time.Time) (*AnalyticsSummary, error) {
	if to.Before(from) {
		from, to = to, from
	}
	return q.repo.Summarize(ctx, from, to)
}
