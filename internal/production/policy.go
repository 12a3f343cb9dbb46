package production

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/kitchenops/pkg/db/models"
	"github.com/angelmondragon/kitchenops/pkg/enums"
)

// DeductionPolicy decides how much each production event removes from the daily
// aggregate and, so that recompute and incremental updates agree, how much an item
// contributes when the aggregate is rebuilt from scratch.
type DeductionPolicy interface {
	Name() enums.PartialDeductionPolicy
	Contribution(item models.ProductionLineItem) decimal.Decimal
	OnCompletion(before models.ProductionLineItem) decimal.Decimal
	OnCancellation(before models.ProductionLineItem) decimal.Decimal
	OnPartial(before models.ProductionLineItem, amount decimal.Decimal) decimal.Decimal
}

// PolicyFor returns the policy registered under name, defaulting to first_event_full.
func PolicyFor(name enums.PartialDeductionPolicy) DeductionPolicy {
	if name == enums.PartialDeductionPerEventAmount {
		return perEventAmount{}
	}
	return firstEventFull{}
}

// firstEventFull removes the full ordered quantity on the first partial event and
// nothing on later ones. Once partially produced, an item no longer counts as owed.
type firstEventFull struct{}

func (firstEventFull) Name() enums.PartialDeductionPolicy {
	return enums.PartialDeductionFirstEventFull
}

func (firstEventFull) Contribution(item models.ProductionLineItem) decimal.Decimal {
	if item.ProductionStatus != enums.ProductionStatusPending {
		return decimal.Zero
	}
	return item.Remaining()
}

func (firstEventFull) OnCompletion(before models.ProductionLineItem) decimal.Decimal {
	return before.Remaining()
}

func (firstEventFull) OnCancellation(before models.ProductionLineItem) decimal.Decimal {
	return before.QuantityOrdered
}

func (firstEventFull) OnPartial(before models.ProductionLineItem, _ decimal.Decimal) decimal.Decimal {
	if before.ProductionStatus != enums.ProductionStatusPending {
		return decimal.Zero
	}
	return before.QuantityOrdered
}

// perEventAmount removes exactly what each event resolves, so the running total
// converges on the rebuilt one.
type perEventAmount struct{}

func (perEventAmount) Name() enums.PartialDeductionPolicy {
	return enums.PartialDeductionPerEventAmount
}

func (perEventAmount) Contribution(item models.ProductionLineItem) decimal.Decimal {
	if item.ProductionStatus.IsTerminal() {
		return decimal.Zero
	}
	return item.Remaining()
}

func (perEventAmount) OnCompletion(before models.ProductionLineItem) decimal.Decimal {
	return before.Remaining()
}

func (perEventAmount) OnCancellation(before models.ProductionLineItem) decimal.Decimal {
	return before.Remaining()
}

func (perEventAmount) OnPartial(_ models.ProductionLineItem, amount decimal.Decimal) decimal.Decimal {
	return amount
}
