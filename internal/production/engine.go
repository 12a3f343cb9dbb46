package production

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/kitchenops/pkg/db/models"
	"github.com/angelmondragon/kitchenops/pkg/enums"
	pkgerrors "github.com/angelmondragon/kitchenops/pkg/errors"
)

// Event is the result of one accepted production operation: the updated copy of
// the item and how much the aggregate should lose.
type Event struct {
	Kind      enums.ProductionEventKind
	Previous  enums.ProductionStatus
	Item      models.ProductionLineItem
	Deduction decimal.Decimal
}

// Engine applies production events to line items. It never mutates its inputs;
// a rejected event leaves everything unchanged.
type Engine struct {
	policy   DeductionPolicy
	validate *validator.Validate
}

// Notes and cancellation reasons need at least five characters once trimmed.
type noteInput struct {
	Notes string `json:"notes" validate:"trimmed_min=5"`
}

type reasonInput struct {
	Reason string `json:"reason" validate:"trimmed_min=5"`
}

func NewEngine(policy DeductionPolicy) *Engine {
	if policy == nil {
		policy = firstEventFull{}
	}
	return &Engine{policy: policy, validate: newValidator()}
}

// Policy exposes the deduction policy the engine was built with.
func (e *Engine) Policy() DeductionPolicy {
	return e.policy
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("trimmed_min", func(fl validator.FieldLevel) bool {
		want, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= want
	})
	return v
}

// RecordCompletion marks item COMPLETED and deducts what was still owed.
func (e *Engine) RecordCompletion(item models.ProductionLineItem) (Event, error) {
	if err := checkTransition(item, enums.ProductionStatusCompleted); err != nil {
		return Event{}, err
	}

	next := item
	next.QuantityProduced = item.QuantityOrdered
	next.ProductionStatus = enums.ProductionStatusCompleted
	return Event{
		Kind:      enums.ProductionEventCompletion,
		Previous:  item.ProductionStatus,
		Item:      next,
		Deduction: e.policy.OnCompletion(item),
	}, nil
}

// RecordCancellation marks item CANCELLED with reason as its notes. Produced
// quantity resets to zero and the item stops counting as owed.
func (e *Engine) RecordCancellation(item models.ProductionLineItem, reason string) (Event, error) {
	if err := e.validateStruct(reasonInput{Reason: reason}); err != nil {
		return Event{}, err
	}
	if err := checkTransition(item, enums.ProductionStatusCancelled); err != nil {
		return Event{}, err
	}

	notes := strings.TrimSpace(reason)
	next := item
	next.QuantityProduced = decimal.Zero
	next.ProductionStatus = enums.ProductionStatusCancelled
	next.ProductionNotes = &notes
	return Event{
		Kind:      enums.ProductionEventCancellation,
		Previous:  item.ProductionStatus,
		Item:      next,
		Deduction: e.policy.OnCancellation(item),
	}, nil
}

// RecordPartialProduction adds amount to the produced quantity. amount must be
// positive and strictly below the remaining quantity; the last increment goes
// through RecordCompletion.
func (e *Engine) RecordPartialProduction(item models.ProductionLineItem, amount decimal.Decimal, notes string) (Event, error) {
	if err := checkTransition(item, enums.ProductionStatusPartiallyCompleted); err != nil {
		return Event{}, err
	}
	if !amount.IsPositive() {
		return Event{}, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero").
			WithDetails(map[string]any{"amount": amount.String()})
	}
	remaining := item.Remaining()
	if amount.GreaterThanOrEqual(remaining) {
		return Event{}, pkgerrors.New(pkgerrors.CodeValidation, "amount must be less than the remaining quantity").
			WithDetails(map[string]any{"amount": amount.String(), "remaining": remaining.String()})
	}
	if err := e.validateStruct(noteInput{Notes: notes}); err != nil {
		return Event{}, err
	}

	trimmed := strings.TrimSpace(notes)
	next := item
	next.QuantityProduced = item.QuantityProduced.Add(amount)
	next.ProductionStatus = enums.ProductionStatusPartiallyCompleted
	next.ProductionNotes = &trimmed
	return Event{
		Kind:      enums.ProductionEventPartial,
		Previous:  item.ProductionStatus,
		Item:      next,
		Deduction: e.policy.OnPartial(item, amount),
	}, nil
}

// Apply removes the event's deduction from agg and reports the tier used.
func (e *Engine) Apply(agg *Aggregate, event Event) Tier {
	if !event.Deduction.IsPositive() {
		return TierNone
	}
	if agg == nil {
		return TierSkipped
	}
	return agg.Deduct(KeyFor(event.Item), event.Deduction)
}

func checkTransition(item models.ProductionLineItem, target enums.ProductionStatus) error {
	if item.ProductionStatus.CanTransitionTo(target) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeInvalidTransition,
		fmt.Sprintf("cannot move line item from %s to %s", item.ProductionStatus, target)).
		WithDetails(map[string]any{"from": item.ProductionStatus.String(), "to": target.String()})
}

func (e *Engine) validateStruct(input any) error {
	err := e.validate.Struct(input)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "trimmed_min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "required":
		return "is required"
	}
	return "is invalid"
}
