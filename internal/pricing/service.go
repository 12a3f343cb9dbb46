package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/kitchenops/pkg/enums"
	pkgerrors "github.com/angelmondragon/kitchenops/pkg/errors"
	"github.com/angelmondragon/kitchenops/pkg/logger"
	"github.com/angelmondragon/kitchenops/pkg/metrics"
)

// Service resolves totals for persisted order line items.
type Service interface {
	OrderTotals(ctx context.Context, orderID uuid.UUID) (*OrderTotals, error)
	LineTotals(ctx context.Context, lineItemID uuid.UUID) (*LineTotals, error)
}

// ServiceParams configure the pricing service.
type ServiceParams struct {
	Repo     Repository
	Resolver *Resolver
	Currency enums.Currency
	Logger   *logger.Logger
	Metrics  *metrics.PricingMetrics
}

type service struct {
	repo     Repository
	resolver *Resolver
	currency enums.Currency
	logg     *logger.Logger
	metrics  *metrics.PricingMetrics
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	resolver := params.Resolver
	if resolver == nil {
		resolver = NewResolver(ResolverConfig{})
	}
	currency := params.Currency
	if currency == "" {
		currency = enums.CurrencyMAD
	}
	if !currency.IsValid() {
		return nil, fmt.Errorf("unsupported currency %q", currency)
	}
	return &service{
		repo:     params.Repo,
		resolver: resolver,
		currency: currency,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}, nil
}

func (s *service) OrderTotals(ctx context.Context, orderID uuid.UUID) (*OrderTotals, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	ctx = s.logg.WithOrderID(ctx, orderID.String())

	items, err := s.repo.FindOrderLineItemsByOrder(ctx, orderID)
	if err != nil {
		s.logg.Error(ctx, "loading order line items failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order line items")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order has no line items")
	}

	totals := s.resolver.ResolveOrder(orderID, s.currency, items)
	for _, line := range totals.Lines {
		s.metrics.ObserveResolution(string(line.Rule), line.Changed)
	}
	if totals.Changed {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"initial_total": totals.Initial.String(),
			"final_total":   totals.Final.String(),
		}), "order price changed")
	}
	return &totals, nil
}

func (s *service) LineTotals(ctx context.Context, lineItemID uuid.UUID) (*LineTotals, error) {
	if lineItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item id required")
	}
	ctx = s.logg.WithItemID(ctx, lineItemID.String())

	item, err := s.repo.FindOrderLineItem(ctx, lineItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
		}
		s.logg.Error(ctx, "loading line item failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load line item")
	}

	totals := s.resolver.Resolve(*item)
	s.metrics.ObserveResolution(string(totals.Rule), totals.Changed)
	return &LineTotals{LineItemID: item.ID, ProductName: item.ProductName, Totals: totals}, nil
}
