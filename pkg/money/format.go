// Package money renders resolved totals for display.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/angelmondragon/kitchenops/pkg/enums"
)

// Format renders amount with up to two fraction digits, grouped for tag, followed
// by the ISO currency code.
func Format(amount decimal.Decimal, cur enums.Currency, tag language.Tag) string {
	p := message.NewPrinter(tag)
	rounded := amount.Round(2).InexactFloat64()
	return fmt.Sprintf("%s %s", p.Sprint(number.Decimal(rounded,
		number.MinFractionDigits(0),
		number.MaxFractionDigits(2),
	)), code(cur))
}

func code(cur enums.Currency) string {
	unit, err := currency.ParseISO(cur.String())
	if err != nil {
		return strings.ToUpper(cur.String())
	}
	return unit.String()
}

// ParseLocale resolves a BCP 47 tag, falling back to English on empty input.
func ParseLocale(value string) (language.Tag, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.English, nil
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", value, err)
	}
	return tag, nil
}
