package production

// Tier names the bucket resolution step that served a deduction.
type Tier string

const (
	TierExact       Tier = "exact"
	TierProduct     Tier = "product"
	TierProductUnit Tier = "product_unit"
	TierSkipped     Tier = "skipped"
	// TierNone marks events that carry no deduction at all.
	TierNone Tier = "none"
)

// Strategy is one step of the bucket resolution search.
type Strategy struct {
	Tier Tier
	Find func(a *Aggregate, key ProductKey) *Bucket
}

// ResolutionOrder is the search applied when deducting: exact key, then the only
// bucket of the product, then the only bucket of the product with the same unit.
// When no step matches the deduction is skipped; a missed deduction is preferred
// over a wrong one.
var ResolutionOrder = []Strategy{
	{Tier: TierExact, Find: findExact},
	{Tier: TierProduct, Find: findSoleProductBucket},
	{Tier: TierProductUnit, Find: findSoleProductUnitBucket},
}

// Resolve runs the strategies in order and returns the first match.
func Resolve(a *Aggregate, key ProductKey, strategies []Strategy) (*Bucket, Tier) {
	if a == nil {
		return nil, TierSkipped
	}
	for _, strategy := range strategies {
		if bucket := strategy.Find(a, key); bucket != nil {
			return bucket, strategy.Tier
		}
	}
	return nil, TierSkipped
}

func findExact(a *Aggregate, key ProductKey) *Bucket {
	return a.Buckets[key.String()]
}

func findSoleProductBucket(a *Aggregate, key ProductKey) *Bucket {
	var match *Bucket
	for _, bucket := range a.Buckets {
		if bucket.Key.Product != key.Product {
			continue
		}
		if match != nil {
			return nil
		}
		match = bucket
	}
	return match
}

func findSoleProductUnitBucket(a *Aggregate, key ProductKey) *Bucket {
	var match *Bucket
	for _, bucket := range a.Buckets {
		if bucket.Key.Product != key.Product || bucket.Key.Unit != key.Unit {
			continue
		}
		if match != nil {
			return nil
		}
		match = bucket
	}
	return match
}
