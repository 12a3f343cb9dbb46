package production

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/kitchenops/pkg/db/models"
	"github.com/angelmondragon/kitchenops/pkg/enums"
)

// Bucket is the quantity still owed for one product configuration.
type Bucket struct {
	Key          ProductKey      `json:"key"`
	ProductName  string          `json:"product_name"`
	VariantLabel string          `json:"variant_label"`
	Remaining    decimal.Decimal `json:"remaining"`
}

// Aggregate is the daily remaining-to-produce view. It is a cache over the line
// items and is safe to drop and rebuild at any time.
type Aggregate struct {
	Day        string                       `json:"day"`
	Policy     enums.PartialDeductionPolicy `json:"policy"`
	ComputedAt time.Time                    `json:"computed_at"`
	Buckets    map[string]*Bucket           `json:"buckets"`
}

// VariantLine is one rendered row of a product group.
type VariantLine struct {
	Key          string               `json:"key"`
	VariantLabel string               `json:"variant_label"`
	Unit         enums.ProductionUnit `json:"unit"`
	Remaining    decimal.Decimal      `json:"remaining"`
}

// Group collects the variant rows of one product.
type Group struct {
	ProductName string          `json:"product_name"`
	Total       decimal.Decimal `json:"total"`
	Variants    []VariantLine   `json:"variants"`
}

func NewAggregate(day string, policy enums.PartialDeductionPolicy) *Aggregate {
	return &Aggregate{
		Day:        day,
		Policy:     policy,
		ComputedAt: time.Now().UTC(),
		Buckets:    make(map[string]*Bucket),
	}
}

// AggregateByProduct builds the aggregate for items. Only items with a positive
// contribution under policy are counted; input order does not matter.
func AggregateByProduct(day string, items []models.ProductionLineItem, policy DeductionPolicy) *Aggregate {
	if policy == nil {
		policy = firstEventFull{}
	}
	agg := NewAggregate(day, policy.Name())
	for _, item := range items {
		qty := policy.Contribution(item)
		if !qty.IsPositive() {
			continue
		}
		agg.add(item, qty)
	}
	return agg
}

func (a *Aggregate) add(item models.ProductionLineItem, qty decimal.Decimal) {
	key := KeyFor(item)
	bucket, ok := a.Buckets[key.String()]
	if !ok {
		bucket = &Bucket{
			Key:          key,
			ProductName:  displayName(item.ProductName),
			VariantLabel: item.Variants.Label(),
			Remaining:    decimal.Zero,
		}
		a.Buckets[key.String()] = bucket
	}
	bucket.Remaining = bucket.Remaining.Add(qty)
}

// Deduct removes qty from the bucket resolved for key. Remaining never goes below
// zero. It returns the tier that matched, or TierSkipped.
func (a *Aggregate) Deduct(key ProductKey, qty decimal.Decimal) Tier {
	if !qty.IsPositive() {
		return TierNone
	}
	bucket, tier := Resolve(a, key, ResolutionOrder)
	if bucket == nil {
		return TierSkipped
	}
	next := bucket.Remaining.Sub(qty)
	if next.IsNegative() {
		next = decimal.Zero
	}
	bucket.Remaining = next
	return tier
}

// Remaining returns the owed quantity for an exact key.
func (a *Aggregate) Remaining(key ProductKey) decimal.Decimal {
	if a == nil {
		return decimal.Zero
	}
	if bucket, ok := a.Buckets[key.String()]; ok {
		return bucket.Remaining
	}
	return decimal.Zero
}

// Totals maps every bucket key to its remaining quantity.
func (a *Aggregate) Totals() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(a.Buckets))
	for k, bucket := range a.Buckets {
		out[k] = bucket.Remaining
	}
	return out
}

// Clone returns a deep copy so callers can apply events copy-on-write.
func (a *Aggregate) Clone() *Aggregate {
	if a == nil {
		return nil
	}
	out := &Aggregate{
		Day:        a.Day,
		Policy:     a.Policy,
		ComputedAt: a.ComputedAt,
		Buckets:    make(map[string]*Bucket, len(a.Buckets)),
	}
	for k, bucket := range a.Buckets {
		copied := *bucket
		out.Buckets[k] = &copied
	}
	return out
}

// Groups renders the buckets by product name then variant label, alphabetically.
func (a *Aggregate) Groups() []Group {
	if a == nil {
		return nil
	}
	byProduct := make(map[string]*Group)
	for k, bucket := range a.Buckets {
		group, ok := byProduct[bucket.Key.Product]
		if !ok {
			group = &Group{ProductName: bucket.ProductName, Total: decimal.Zero}
			byProduct[bucket.Key.Product] = group
		}
		group.Total = group.Total.Add(bucket.Remaining)
		group.Variants = append(group.Variants, VariantLine{
			Key:          k,
			VariantLabel: bucket.VariantLabel,
			Unit:         bucket.Key.Unit,
			Remaining:    bucket.Remaining,
		})
	}

	products := make([]string, 0, len(byProduct))
	for product := range byProduct {
		products = append(products, product)
	}
	sort.Strings(products)

	groups := make([]Group, 0, len(products))
	for _, product := range products {
		group := byProduct[product]
		sort.Slice(group.Variants, func(i, j int) bool {
			left, right := group.Variants[i], group.Variants[j]
			if left.VariantLabel != right.VariantLabel {
				return left.VariantLabel < right.VariantLabel
			}
			return left.Unit < right.Unit
		})
		groups = append(groups, *group)
	}
	return groups
}

func displayName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
