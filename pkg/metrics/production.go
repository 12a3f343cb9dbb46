package metrics

import "github.com/prometheus/client_golang/prometheus"

// ProductionMetrics counts production events and how their deductions landed.
type ProductionMetrics struct {
	events     *prometheus.CounterVec
	deductions *prometheus.CounterVec
}

// NewProductionMetrics registers the production counters on reg. A nil registerer
// yields a no-op recorder.
func NewProductionMetrics(reg prometheus.Registerer) *ProductionMetrics {
	if reg == nil {
		return &ProductionMetrics{}
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "production_events_total",
		Help:      "Production events recorded, by kind and outcome.",
	}, []string{"kind", "outcome"})
	deductions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "aggregate_deductions_total",
		Help:      "Aggregate deductions, by the bucket resolution tier that matched.",
	}, []string{"tier"})
	reg.MustRegister(events, deductions)
	return &ProductionMetrics{events: events, deductions: deductions}
}

// IncEvent records one production event with its outcome (ok, rejected, failed).
func (p *ProductionMetrics) IncEvent(kind, outcome string) {
	if p == nil || p.events == nil {
		return
	}
	p.events.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}

// IncDeduction records which resolution tier served a deduction.
func (p *ProductionMetrics) IncDeduction(tier string) {
	if p == nil || p.deductions == nil {
		return
	}
	p.deductions.WithLabelValues(normalizeLabel(tier)).Inc()
}

// PricingMetrics counts which fallback rule produced each final total.
type PricingMetrics struct {
	rules   *prometheus.CounterVec
	changed prometheus.Counter
}

func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	rules := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "price_resolutions_total",
		Help:      "Resolved line item prices, by the rule that produced the final total.",
	}, []string{"rule"})
	changed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "price_changed_total",
		Help:      "Resolved line items whose final total moved away from the initial total.",
	})
	reg.MustRegister(rules, changed)
	return &PricingMetrics{rules: rules, changed: changed}
}

// ObserveResolution records the rule and whether the price changed.
func (p *PricingMetrics) ObserveResolution(rule string, changed bool) {
	if p == nil || p.rules == nil {
		return
	}
	p.rules.WithLabelValues(normalizeLabel(rule)).Inc()
	if changed {
		p.changed.Inc()
	}
}
