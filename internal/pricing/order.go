package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/angelmondragon/kitchenops/pkg/db/models"
	"github.com/angelmondragon/kitchenops/pkg/enums"
	"github.com/angelmondragon/kitchenops/pkg/money"
)

// LineTotals pairs a line item with its resolved totals.
type LineTotals struct {
	LineItemID  uuid.UUID `json:"line_item_id"`
	ProductName string    `json:"product_name"`
	Totals
}

// OrderTotals sums the resolved lines of one order.
type OrderTotals struct {
	OrderID  uuid.UUID       `json:"order_id"`
	Currency enums.Currency  `json:"currency"`
	Lines    []LineTotals    `json:"lines"`
	Initial  decimal.Decimal `json:"initial_total"`
	Final    decimal.Decimal `json:"final_total"`
	Changed  bool            `json:"price_changed"`
}

// ResolveOrder resolves every line of an order and sums the totals. The order is
// flagged as changed when its own totals move by the threshold, so line-level
// rounding noise does not surface.
func (r *Resolver) ResolveOrder(orderID uuid.UUID, currency enums.Currency, items []models.OrderLineItem) OrderTotals {
	out := OrderTotals{
		OrderID:  orderID,
		Currency: currency,
		Lines:    make([]LineTotals, 0, len(items)),
		Initial:  decimal.Zero,
		Final:    decimal.Zero,
	}
	for _, item := range items {
		totals := r.Resolve(item)
		out.Lines = append(out.Lines, LineTotals{
			LineItemID:  item.ID,
			ProductName: item.ProductName,
			Totals:      totals,
		})
		out.Initial = out.Initial.Add(totals.Initial)
		out.Final = out.Final.Add(totals.Final)
	}
	out.Changed = PriceChanged(out.Initial, out.Final, r.threshold)
	return out
}

// DisplayLine is a formatted line for rendering layers.
type DisplayLine struct {
	ProductName string `json:"product_name"`
	Initial     string `json:"initial_total"`
	Final       string `json:"final_total"`
	Changed     bool   `json:"price_changed"`
}

// Display formats the totals for tag. Resolution itself never formats.
func (o OrderTotals) Display(tag language.Tag) (initial, final string, lines []DisplayLine) {
	lines = make([]DisplayLine, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, DisplayLine{
			ProductName: line.ProductName,
			Initial:     money.Format(line.Initial, o.Currency, tag),
			Final:       money.Format(line.Final, o.Currency, tag),
			Changed:     line.Changed,
		})
	}
	return money.Format(o.Initial, o.Currency, tag), money.Format(o.Final, o.Currency, tag), lines
}
