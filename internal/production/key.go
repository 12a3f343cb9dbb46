package production

import (
	"strings"
	"time"

	"github.com/angelmondragon/kitchenops/pkg/db/models"
	"github.com/angelmondragon/kitchenops/pkg/enums"
)

// DayLayout is the format of a production day.
const DayLayout = "2006-01-02"

// ProductKey identifies one aggregate bucket: product, variant signature and unit.
type ProductKey struct {
	Product string               `json:"product"`
	Variant string               `json:"variant"`
	Unit    enums.ProductionUnit `json:"unit"`
}

// KeyFor derives the bucket key of a line item. Product names compare
// case-insensitively and variants through their normalized signature.
func KeyFor(item models.ProductionLineItem) ProductKey {
	return ProductKey{
		Product: normalizeProductName(item.ProductName),
		Variant: item.Variants.Signature(),
		Unit:    item.Unit,
	}
}

func (k ProductKey) String() string {
	return k.Product + "::" + k.Variant + "::" + string(k.Unit)
}

func normalizeProductName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// DayOf formats t as a production day in loc.
func DayOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DayLayout)
}

// ParseDay validates a YYYY-MM-DD production day.
func ParseDay(day string) (string, error) {
	day = strings.TrimSpace(day)
	if _, err := time.Parse(DayLayout, day); err != nil {
		return "", err
	}
	return day, nil
}
