package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/kitchenops/pkg/db/models"
	"github.com/angelmondragon/kitchenops/pkg/enums"
)

// Rule names the branch that produced a final total.
type Rule string

const (
	RuleBackendFinal      Rule = "backend_final"
	RuleVoided            Rule = "voided"
	RuleEffectiveQuantity Rule = "effective_quantity"
	RuleCompletedFallback Rule = "completed_fallback"
	RuleOriginalPrice     Rule = "original_price"
)

// DefaultChangeThreshold is the half-cent under which totals count as unchanged.
var DefaultChangeThreshold = decimal.RequireFromString("0.005")

// StaleZeroPolicy reports whether a backend final total must be ignored.
type StaleZeroPolicy func(item models.OrderLineItem, backendFinal decimal.Decimal) bool

// DiscardStaleZero treats a reported final total of exactly zero as unset once the
// item shows any sign of production or delivery. The backend is known to emit
// such zeros before it computes the real figure.
func DiscardStaleZero(item models.OrderLineItem, backendFinal decimal.Decimal) bool {
	if !backendFinal.IsZero() {
		return false
	}
	switch item.ProductionStatus {
	case enums.ProductionStatusCompleted, enums.ProductionStatusPartiallyCompleted:
		return true
	}
	return positive(item.QuantityProduced) || positive(item.QuantityDelivered)
}

// TrustBackendFinal keeps every backend value, zeros included.
func TrustBackendFinal(models.OrderLineItem, decimal.Decimal) bool {
	return false
}

// Totals is the resolved price of one line item.
type Totals struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
	Initial   decimal.Decimal `json:"initial_total"`
	Final     decimal.Decimal `json:"final_total"`
	Changed   bool            `json:"price_changed"`
	Rule      Rule            `json:"rule"`
}

// ResolverConfig tunes the resolver. Zero values fall back to the defaults.
type ResolverConfig struct {
	StaleZero       StaleZeroPolicy
	ChangeThreshold decimal.Decimal
}

// Resolver computes display totals from the price snapshots of a line item.
// It is pure and safe for concurrent use.
type Resolver struct {
	staleZero StaleZeroPolicy
	threshold decimal.Decimal
}

func NewResolver(cfg ResolverConfig) *Resolver {
	r := &Resolver{staleZero: cfg.StaleZero, threshold: cfg.ChangeThreshold}
	if r.staleZero == nil {
		r.staleZero = DiscardStaleZero
	}
	if !r.threshold.IsPositive() {
		r.threshold = DefaultChangeThreshold
	}
	return r
}

// Threshold returns the change threshold in use.
func (r *Resolver) Threshold() decimal.Decimal {
	return r.threshold
}

// Resolve returns the unit price, both totals and the change flag for item.
func (r *Resolver) Resolve(item models.OrderLineItem) Totals {
	unit := r.UnitPrice(item)
	initial := initialTotal(item, unit)
	final, rule := r.finalTotal(item, unit, initial)
	return Totals{
		UnitPrice: unit,
		Initial:   initial,
		Final:     final,
		Changed:   PriceChanged(initial, final, r.threshold),
		Rule:      rule,
	}
}

// UnitPrice picks the first available unit price, deriving one from the best
// available total when none is set.
func (r *Resolver) UnitPrice(item models.OrderLineItem) decimal.Decimal {
	if v, ok := firstOf(
		item.FinalRetailUnitPrice,
		item.RetailUnitPrice,
		item.InitialRetailUnitPrice,
		item.UnitPrice,
	); ok {
		return v
	}
	total, ok := firstOf(item.FinalRetailTotal, item.RetailTotal, item.InitialRetailTotal, item.TotalPrice)
	if !ok {
		return decimal.Zero
	}
	return total.Div(decimal.Max(item.QuantityOrdered, decimal.NewFromInt(1)))
}

// InitialTotal returns the price the order was placed at.
func (r *Resolver) InitialTotal(item models.OrderLineItem) decimal.Decimal {
	return initialTotal(item, r.UnitPrice(item))
}

// FinalTotal returns the current authoritative total and the rule that produced it.
func (r *Resolver) FinalTotal(item models.OrderLineItem) (decimal.Decimal, Rule) {
	unit := r.UnitPrice(item)
	return r.finalTotal(item, unit, initialTotal(item, unit))
}

func initialTotal(item models.OrderLineItem, unit decimal.Decimal) decimal.Decimal {
	if v, ok := firstOf(item.InitialRetailTotal, item.RetailTotal, item.TotalPrice); ok {
		return v
	}
	return unit.Mul(item.QuantityOrdered)
}

func (r *Resolver) finalTotal(item models.OrderLineItem, unit, initial decimal.Decimal) (decimal.Decimal, Rule) {
	// a failed delivery or cancelled production is worth nothing, whatever the
	// snapshots still say
	if item.DeliveryStatus == enums.DeliveryStatusFailed || item.ProductionStatus == enums.ProductionStatusCancelled {
		return decimal.Zero, RuleVoided
	}

	if item.FinalRetailTotal.Valid && !r.staleZero(item, item.FinalRetailTotal.Decimal) {
		return item.FinalRetailTotal.Decimal, RuleBackendFinal
	}

	if qty, ok := effectiveQuantity(item); ok {
		return unit.Mul(qty), RuleEffectiveQuantity
	}

	if item.ProductionStatus == enums.ProductionStatusCompleted {
		if v, ok := firstOf(item.RetailTotal, item.TotalPrice); ok {
			return v, RuleCompletedFallback
		}
		return unit.Mul(item.QuantityOrdered), RuleCompletedFallback
	}

	if v, ok := firstOf(item.RetailTotal, item.TotalPrice); ok {
		return v, RuleOriginalPrice
	}
	return initial, RuleOriginalPrice
}

// effectiveQuantity prefers the produced quantity, then the delivered one.
func effectiveQuantity(item models.OrderLineItem) (decimal.Decimal, bool) {
	if positive(item.QuantityProduced) {
		return item.QuantityProduced.Decimal, true
	}
	if positive(item.QuantityDelivered) {
		return item.QuantityDelivered.Decimal, true
	}
	return decimal.Decimal{}, false
}

// PriceChanged reports whether final and initial differ by at least threshold.
func PriceChanged(initial, final, threshold decimal.Decimal) bool {
	return final.Sub(initial).Abs().GreaterThanOrEqual(threshold)
}

func firstOf(values ...decimal.NullDecimal) (decimal.Decimal, bool) {
	for _, v := range values {
		if v.Valid {
			return v.Decimal, true
		}
	}
	return decimal.Decimal{}, false
}

func positive(v decimal.NullDecimal) bool {
	return v.Valid && v.Decimal.IsPositive()
}
