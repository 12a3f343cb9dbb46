package production

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/kitchenops/pkg/db/models"
	"github.com/angelmondragon/kitchenops/pkg/enums"
	pkgerrors "github.com/angelmondragon/kitchenops/pkg/errors"
	"github.com/angelmondragon/kitchenops/pkg/logger"
	"github.com/angelmondragon/kitchenops/pkg/metrics"
)

const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service records production events against persisted line items and keeps the
// daily aggregate snapshot in step.
type Service interface {
	RecordCompletion(ctx context.Context, itemID uuid.UUID) (*models.ProductionLineItem, error)
	RecordCancellation(ctx context.Context, itemID uuid.UUID, reason string) (*models.ProductionLineItem, error)
	RecordPartialProduction(ctx context.Context, itemID uuid.UUID, amount float64, notes string) (*models.ProductionLineItem, error)
	DailySummary(ctx context.Context, day string) (*Summary, error)
	RebuildAggregate(ctx context.Context, day string) (*Aggregate, error)
}

// Summary is the rendered aggregate of one production day.
type Summary struct {
	Day        string                       `json:"day"`
	Policy     enums.PartialDeductionPolicy `json:"policy"`
	ComputedAt time.Time                    `json:"computed_at"`
	Total      decimal.Decimal              `json:"total"`
	Groups     []Group                      `json:"groups"`
}

// ServiceParams configure the production service.
type ServiceParams struct {
	Repo    Repository
	Tx      txRunner
	Store   AggregateStore
	Policy  DeductionPolicy
	Logger  *logger.Logger
	Metrics *metrics.ProductionMetrics
}

type service struct {
	repo    Repository
	tx      txRunner
	store   AggregateStore
	engine  *Engine
	logg    *logger.Logger
	metrics *metrics.ProductionMetrics

	// mu serializes aggregate read-modify-write within the process.
	mu sync.Mutex
}

// NewService builds the production service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("production repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("aggregate store required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    params.Repo,
		tx:      params.Tx,
		store:   params.Store,
		engine:  NewEngine(params.Policy),
		logg:    params.Logger,
		metrics: params.Metrics,
	}, nil
}

func (s *service) RecordCompletion(ctx context.Context, itemID uuid.UUID) (*models.ProductionLineItem, error) {
	return s.record(ctx, itemID, enums.ProductionEventCompletion, func(item models.ProductionLineItem) (Event, error) {
		return s.engine.RecordCompletion(item)
	})
}

func (s *service) RecordCancellation(ctx context.Context, itemID uuid.UUID, reason string) (*models.ProductionLineItem, error) {
	return s.record(ctx, itemID, enums.ProductionEventCancellation, func(item models.ProductionLineItem) (Event, error) {
		return s.engine.RecordCancellation(item, reason)
	})
}

func (s *service) RecordPartialProduction(ctx context.Context, itemID uuid.UUID, amount float64, notes string) (*models.ProductionLineItem, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		s.metrics.IncEvent(enums.ProductionEventPartial.String(), outcomeRejected)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be a finite number").
			WithDetails(map[string]any{"amount": fmt.Sprint(amount)})
	}
	qty := decimal.NewFromFloat(amount)
	return s.record(ctx, itemID, enums.ProductionEventPartial, func(item models.ProductionLineItem) (Event, error) {
		return s.engine.RecordPartialProduction(item, qty, notes)
	})
}

func (s *service) record(
	ctx context.Context,
	itemID uuid.UUID,
	kind enums.ProductionEventKind,
	apply func(models.ProductionLineItem) (Event, error),
) (*models.ProductionLineItem, error) {
	if itemID == uuid.Nil {
		s.metrics.IncEvent(kind.String(), outcomeRejected)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item id required")
	}
	ctx = s.logg.WithItemID(ctx, itemID.String())
	ctx = s.logg.WithField(ctx, "production_event", kind.String())

	s.mu.Lock()
	defer s.mu.Unlock()

	var event Event
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindLineItem(ctx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load line item")
		}

		event, err = apply(*item)
		if err != nil {
			return err
		}

		if err := repo.UpdateProduction(ctx, event.Item, *item); err != nil {
			if errors.Is(err, ErrStaleItem) {
				return pkgerrors.Wrap(pkgerrors.CodeInvalidTransition, err, "line item changed while recording")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update line item")
		}
		return nil
	})
	if err != nil {
		s.reportFailure(ctx, kind, err)
		return nil, err
	}

	s.metrics.IncEvent(kind.String(), outcomeOK)
	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_id":          event.Item.OrderID.String(),
		"previous_status":   event.Previous.String(),
		"production_status": event.Item.ProductionStatus.String(),
		"quantity_produced": event.Item.QuantityProduced.String(),
	})
	s.logg.Info(ctx, "production event recorded")

	s.applyToAggregate(ctx, event)
	item := event.Item
	return &item, nil
}

func (s *service) reportFailure(ctx context.Context, kind enums.ProductionEventKind, err error) {
	if !pkgerrors.Retryable(err) {
		typed := pkgerrors.As(err)
		s.metrics.IncEvent(kind.String(), outcomeRejected)
		s.logg.Warn(s.logg.WithField(ctx, "reason", typed.Message()), "production event rejected")
		return
	}
	s.metrics.IncEvent(kind.String(), outcomeFailed)
	s.logg.Error(s.logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "production event failed", err)
}

// applyToAggregate folds an accepted event into the day's snapshot. The snapshot
// is advisory: failures are logged and the snapshot is dropped so the next read
// rebuilds it.
func (s *service) applyToAggregate(ctx context.Context, event Event) {
	day := event.Item.ProductionDay
	if day == "" {
		s.logg.Debug(ctx, "line item has no production day; aggregate untouched")
		return
	}
	ctx = s.logg.WithDay(ctx, day)

	agg, fresh, err := s.loadOrRebuild(ctx, day)
	if err != nil {
		s.logg.Error(ctx, "aggregate unavailable", err)
		return
	}
	if fresh {
		// the rebuild already reflects the committed event
		return
	}

	key := KeyFor(event.Item)
	tier := s.engine.Apply(agg, event)
	if tier == TierNone {
		return
	}
	s.metrics.IncDeduction(string(tier))
	deductionCtx := s.logg.WithFields(s.logg.WithProductKey(ctx, key.String()), map[string]any{
		"tier":      string(tier),
		"deduction": event.Deduction.String(),
	})
	if tier == TierSkipped {
		s.logg.Warn(deductionCtx, "no aggregate bucket matched; deduction skipped")
		return
	}
	s.logg.Debug(deductionCtx, "aggregate deduction applied")

	if err := s.store.Save(ctx, agg); err != nil {
		s.logg.Error(ctx, "saving aggregate failed", err)
		if delErr := s.store.Invalidate(ctx, day); delErr != nil {
			s.logg.Error(ctx, "invalidating aggregate failed", delErr)
		}
	}
}

// loadOrRebuild returns the stored snapshot, or a rebuilt one (fresh=true) when
// none is usable or it was computed under another policy.
func (s *service) loadOrRebuild(ctx context.Context, day string) (*Aggregate, bool, error) {
	agg, ok, err := s.store.Load(ctx, day)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "stored aggregate unreadable; rebuilding")
		ok = false
	}
	if ok && agg.Policy == s.engine.Policy().Name() {
		return agg, false, nil
	}
	rebuilt, err := s.rebuild(ctx, day)
	if err != nil {
		return nil, false, err
	}
	return rebuilt, true, nil
}

func (s *service) rebuild(ctx context.Context, day string) (*Aggregate, error) {
	items, err := s.repo.ListForDay(ctx, day)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list line items")
	}
	agg := AggregateByProduct(day, items, s.engine.Policy())
	if err := s.store.Save(ctx, agg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save aggregate")
	}
	s.logg.Info(s.logg.WithFields(s.logg.WithDay(ctx, day), map[string]any{
		"items":   len(items),
		"buckets": len(agg.Buckets),
	}), "aggregate rebuilt")
	return agg, nil
}

func (s *service) DailySummary(ctx context.Context, day string) (*Summary, error) {
	parsed, err := ParseDay(day)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid production day").
			WithDetails(map[string]any{"day": day})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	agg, _, err := s.loadOrRebuild(ctx, parsed)
	if err != nil {
		return nil, err
	}
	groups := agg.Groups()
	total := decimal.Zero
	for _, group := range groups {
		total = total.Add(group.Total)
	}
	return &Summary{
		Day:        agg.Day,
		Policy:     agg.Policy,
		ComputedAt: agg.ComputedAt,
		Total:      total,
		Groups:     groups,
	}, nil
}

func (s *service) RebuildAggregate(ctx context.Context, day string) (*Aggregate, error) {
	parsed, err := ParseDay(day)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid production day").
			WithDetails(map[string]any{"day": day})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rebuild(ctx, parsed)
}
