package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/kitchenops/internal/production"
	"github.com/angelmondragon/kitchenops/pkg/logger"
)

// AggregateRebuildJobParams configure the aggregate rebuild job.
type AggregateRebuildJobParams struct {
	Logger    *logger.Logger
	Rebuilder aggregateRebuilder
	Location  *time.Location
	// LookaheadDays also rebuilds the following days, for kitchens that prep ahead.
	LookaheadDays int
}

type aggregateRebuilder interface {
	RebuildAggregate(ctx context.Context, day string) (*production.Aggregate, error)
}

// NewAggregateRebuildJob builds the job that recomputes daily aggregates from
// the line items, correcting any drift in the incremental snapshot.
func NewAggregateRebuildJob(params AggregateRebuildJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Rebuilder == nil {
		return nil, fmt.Errorf("aggregate rebuilder required")
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	lookahead := params.LookaheadDays
	if lookahead < 0 {
		lookahead = 0
	}
	return &aggregateRebuildJob{
		logg:      params.Logger,
		rebuilder: params.Rebuilder,
		loc:       loc,
		lookahead: lookahead,
		now:       time.Now,
	}, nil
}

type aggregateRebuildJob struct {
	logg      *logger.Logger
	rebuilder aggregateRebuilder
	loc       *time.Location
	lookahead int
	now       func() time.Time
}

func (j *aggregateRebuildJob) Name() string { return "aggregate-rebuild" }

func (j *aggregateRebuildJob) Run(ctx context.Context) error {
	var errs []error
	for _, day := range j.days() {
		if err := j.rebuildDay(ctx, day); err != nil {
			errs = append(errs, err)
		}
	}
	return multierr.Combine(errs...)
}

func (j *aggregateRebuildJob) days() []string {
	today := j.now().In(j.loc)
	days := make([]string, 0, j.lookahead+1)
	for offset := 0; offset <= j.lookahead; offset++ {
		days = append(days, production.DayOf(today.AddDate(0, 0, offset), j.loc))
	}
	return days
}

func (j *aggregateRebuildJob) rebuildDay(ctx context.Context, day string) error {
	agg, err := j.rebuilder.RebuildAggregate(ctx, day)
	if err != nil {
		return fmt.Errorf("rebuild aggregate %s: %w", day, err)
	}
	logCtx := j.logg.WithField(j.logg.WithDay(ctx, day), "buckets", len(agg.Buckets))
	j.logg.Info(logCtx, "aggregate rebuild complete")
	return nil
}
