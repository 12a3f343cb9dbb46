package production

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/kitchenops/pkg/db/models"
	"github.com/angelmondragon/kitchenops/pkg/enums"
	pkgerrors "github.com/angelmondragon/kitchenops/pkg/errors"
)

func defaultEngine() *Engine {
	return NewEngine(PolicyFor(enums.PartialDeductionFirstEventFull))
}

func TestPartialRejectsAmountAtOrAboveRemaining(t *testing.T) {
	engine := defaultEngine()
	item := newItem("Msemen", nil, enums.ProductionUnitPiece, 10)

	for _, amount := range []string{"10", "11", "0", "-1"} {
		_, err := engine.RecordPartialProduction(item, decimal.RequireFromString(amount), "batch one")
		if !pkgerrors.IsValidation(err) {
			t.Fatalf("amount %s: expected validation error, got %v", amount, err)
		}
	}

	event, err := engine.RecordPartialProduction(item, decimal.RequireFromString("9.99"), "batch one")
	require.NoError(t, err)
	require.Equal(t, enums.ProductionStatusPartiallyCompleted, event.Item.ProductionStatus)
	requireDecimal(t, "9.99", event.Item.QuantityProduced)
	require.Equal(t, "batch one", *event.Item.ProductionNotes)
}

func TestPartialRequiresNotes(t *testing.T) {
	engine := defaultEngine()
	item := newItem("Msemen", nil, enums.ProductionUnitPiece, 10)

	for _, notes := range []string{"", "abc", "   abcd   "} {
		_, err := engine.RecordPartialProduction(item, decimal.NewFromInt(1), notes)
		if !pkgerrors.IsValidation(err) {
			t.Fatalf("notes %q: expected validation error, got %v", notes, err)
		}
		details, ok := pkgerrors.As(err).Details().(map[string]string)
		require.True(t, ok)
		require.Contains(t, details, "notes")
	}

	event, err := engine.RecordPartialProduction(item, decimal.NewFromInt(1), "  abcde ")
	require.NoError(t, err)
	require.Equal(t, "abcde", *event.Item.ProductionNotes)
}

func TestRejectedEventLeavesItemUntouched(t *testing.T) {
	engine := defaultEngine()
	item := newItem("Msemen", nil, enums.ProductionUnitPiece, 4)
	snapshot := item

	_, err := engine.RecordPartialProduction(item, decimal.NewFromInt(4), "too much")
	require.Error(t, err)
	require.Equal(t, snapshot, item)

	_, err = engine.RecordPartialProduction(item, decimal.NewFromInt(1), "fine batch")
	require.NoError(t, err)
	require.Equal(t, enums.ProductionStatusPending, item.ProductionStatus)
	require.True(t, item.QuantityProduced.IsZero())
}

func TestCompletionAndCancellationAreTerminal(t *testing.T) {
	engine := defaultEngine()
	item := newItem("Msemen", nil, enums.ProductionUnitPiece, 4)

	cancelled, err := engine.RecordCancellation(item, "client called off")
	require.NoError(t, err)
	_, err = engine.RecordCompletion(cancelled.Item)
	if !pkgerrors.IsInvalidTransition(err) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	completed, err := engine.RecordCompletion(item)
	require.NoError(t, err)
	_, err = engine.RecordCancellation(completed.Item, "client called off")
	if !pkgerrors.IsInvalidTransition(err) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	_, err = engine.RecordPartialProduction(completed.Item, decimal.NewFromInt(1), "extra batch")
	if !pkgerrors.IsInvalidTransition(err) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	_, err = engine.RecordCompletion(completed.Item)
	if !pkgerrors.IsInvalidTransition(err) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestCancellationRequiresReason(t *testing.T) {
	engine := defaultEngine()
	item := newItem("Msemen", nil, enums.ProductionUnitPiece, 4)

	_, err := engine.RecordCancellation(item, "   ")
	require.True(t, pkgerrors.IsValidation(err))

	partial, err := engine.RecordPartialProduction(item, decimal.NewFromInt(1), "first tray")
	require.NoError(t, err)
	event, err := engine.RecordCancellation(partial.Item, " out of flour ")
	require.NoError(t, err)
	require.Equal(t, enums.ProductionStatusCancelled, event.Item.ProductionStatus)
	require.Equal(t, "out of flour", *event.Item.ProductionNotes)
	require.True(t, event.Item.QuantityProduced.IsZero())
	requireDecimal(t, "4", event.Deduction)
}

func TestCompletionDeductsRemaining(t *testing.T) {
	engine := defaultEngine()
	item := newItem("Msemen", nil, enums.ProductionUnitPiece, 6)

	event, err := engine.RecordCompletion(item)
	require.NoError(t, err)
	require.Equal(t, enums.ProductionEventCompletion, event.Kind)
	require.Equal(t, enums.ProductionStatusPending, event.Previous)
	requireDecimal(t, "6", event.Deduction)
	requireDecimal(t, "6", event.Item.QuantityProduced)
}

func TestFirstPartialDeductsFullOrderedQuantity(t *testing.T) {
	engine := defaultEngine()
	item := newItem("Msemen", []string{"honey"}, enums.ProductionUnitPiece, 5)
	sibling := newItem("Msemen", []string{"honey"}, enums.ProductionUnitPiece, 3)
	agg := AggregateByProduct(testDay, []models.ProductionLineItem{item, sibling}, engine.Policy())
	requireDecimal(t, "8", agg.Remaining(KeyFor(item)))

	first, err := engine.RecordPartialProduction(item, decimal.NewFromInt(2), "first batch")
	require.NoError(t, err)
	requireDecimal(t, "5", first.Deduction)
	require.Equal(t, TierExact, engine.Apply(agg, first))
	requireDecimal(t, "3", agg.Remaining(KeyFor(item)))

	second, err := engine.RecordPartialProduction(first.Item, decimal.NewFromInt(1), "second batch")
	require.NoError(t, err)
	requireDecimal(t, "3", second.Item.QuantityProduced)
	require.True(t, second.Deduction.IsZero())
	require.Equal(t, TierNone, engine.Apply(agg, second))
	requireDecimal(t, "3", agg.Remaining(KeyFor(item)))
}

func TestPerEventAmountConvergesOnRebuild(t *testing.T) {
	engine := NewEngine(PolicyFor(enums.PartialDeductionPerEventAmount))
	items := []models.ProductionLineItem{
		newItem("Msemen", []string{"honey"}, enums.ProductionUnitPiece, 5),
		newItem("Msemen", []string{"honey"}, enums.ProductionUnitPiece, 3),
		newItem("Harcha", nil, enums.ProductionUnitTray, 4),
	}
	agg := AggregateByProduct(testDay, items, engine.Policy())

	steps := []func() (Event, error){
		func() (Event, error) {
			return engine.RecordPartialProduction(items[0], decimal.NewFromInt(2), "first batch")
		},
		func() (Event, error) { return engine.RecordCancellation(items[2], "oven broke down") },
	}
	for i, step := range steps {
		event, err := step()
		require.NoError(t, err, "step %d", i)
		engine.Apply(agg, event)
		for j := range items {
			if items[j].ID == event.Item.ID {
				items[j] = event.Item
			}
		}
	}
	event, err := engine.RecordPartialProduction(items[0], decimal.NewFromInt(1), "second batch")
	require.NoError(t, err)
	engine.Apply(agg, event)
	items[0] = event.Item

	rebuilt := AggregateByProduct(testDay, items, engine.Policy())
	requireDecimal(t, rebuilt.Remaining(KeyFor(items[0])).String(), agg.Remaining(KeyFor(items[0])))
	requireDecimal(t, "5", agg.Remaining(KeyFor(items[0])))
	requireDecimal(t, "0", agg.Remaining(KeyFor(items[2])))
}

func TestProducedNeverExceedsOrdered(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, policy := range []enums.PartialDeductionPolicy{enums.PartialDeductionFirstEventFull, enums.PartialDeductionPerEventAmount} {
		engine := NewEngine(PolicyFor(policy))
		for run := 0; run < 50; run++ {
			item := newItem("Msemen", nil, enums.ProductionUnitPiece, int64(rng.Intn(9)+1))
			for step := 0; step < 8; step++ {
				var event Event
				var err error
				switch rng.Intn(4) {
				case 0:
					event, err = engine.RecordCompletion(item)
				case 1:
					event, err = engine.RecordCancellation(item, "kitchen decision")
				default:
					amount := decimal.NewFromFloat(rng.Float64() * 6).Round(2)
					event, err = engine.RecordPartialProduction(item, amount, "batch notes")
				}
				if err == nil {
					item = event.Item
				}
				if item.QuantityProduced.GreaterThan(item.QuantityOrdered) {
					t.Fatalf("policy %s: produced %s exceeds ordered %s", policy, item.QuantityProduced, item.QuantityOrdered)
				}
				if item.QuantityProduced.IsNegative() {
					t.Fatalf("policy %s: produced went negative", policy)
				}
			}
		}
	}
}
