// Package addon evaluates the invoice-addon rule language: the small
// configurable charge computed from a shipment's invoice value.
//
// Rules form a tagged-union tree (percentage, flat, per_unit, slab,
// conditional, composite). The evaluator is total: unknown variants,
// malformed configuration and over-deep nesting all degrade to 0 instead
// of failing a quote.
package addon

import "math"

// RuleType tags one variant of the rule union.
type RuleType string

const (
	TypePercentage  RuleType = "percentage"
	TypeFlat        RuleType = "flat"
	TypePerUnit     RuleType = "per_unit"
	TypeSlab        RuleType = "slab"
	TypeConditional RuleType = "conditional"
	TypeComposite   RuleType = "composite"
)

// maxDepth bounds rule recursion so a malformed (cyclic or absurdly
// nested) configuration can never blow the stack or burn CPU.
const maxDepth = 10

// Slab is one band of a slab rule. A slab matches when
// Min <= invoiceValue <= Max.
type Slab struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Percent float64 `json:"percent"`
}

// Condition pairs a context match with the rule to apply when it matches.
// Every key/value in If must equal the evaluation context.
type Condition struct {
	If   map[string]string `json:"if"`
	Rule *Rule             `json:"rule"`
}

// Rule is one node of the rule tree. Only the fields of the tagged
// variant are meaningful; the rest stay at their zero values.
type Rule struct {
	Type RuleType `json:"type"`

	// percentage
	Percent float64 `json:"percent,omitempty"`
	// flat
	Amount float64 `json:"amount,omitempty"`
	// per_unit
	Unit          float64 `json:"unit,omitempty"`
	AmountPerUnit float64 `json:"amountPerUnit,omitempty"`
	RoundUp       bool    `json:"roundUp,omitempty"`
	// slab
	Slabs []Slab `json:"slabs,omitempty"`
	// conditional
	Conditions []Condition `json:"conditions,omitempty"`
	Default    *Rule       `json:"default,omitempty"`
	// composite
	Parts []*Rule `json:"parts,omitempty"`

	// Optional clamp applied to the variant's result.
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Evaluate computes the addon charge for an invoice value. The context
// feeds conditional rules (e.g. {"mode": "air"}). Never returns NaN or a
// negative number; internal errors degrade to 0.
func Evaluate(r *Rule, invoiceValue float64, context map[string]string) float64 {
	v := eval(r, invoiceValue, context, 0)
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func eval(r *Rule, value float64, context map[string]string, depth int) float64 {
	if r == nil || depth >= maxDepth {
		return 0
	}

	switch r.Type {
	case TypePercentage:
		return r.clamp(value * r.Percent / 100)

	case TypeFlat:
		return r.clamp(r.Amount)

	case TypePerUnit:
		if r.Unit <= 0 {
			return 0
		}
		units := value / r.Unit
		if r.RoundUp {
			units = math.Ceil(units)
		} else {
			units = math.Floor(units)
		}
		return r.clamp(units * r.AmountPerUnit)

	case TypeSlab:
		for _, s := range r.Slabs {
			if value >= s.Min && value <= s.Max {
				return r.clamp(value * s.Percent / 100)
			}
		}
		return 0

	case TypeConditional:
		for _, c := range r.Conditions {
			if matches(c.If, context) {
				return eval(c.Rule, value, context, depth+1)
			}
		}
		return eval(r.Default, value, context, depth+1)

	case TypeComposite:
		var sum float64
		for _, p := range r.Parts {
			sum += eval(p, value, context, depth+1)
		}
		return r.clamp(sum)

	default:
		return 0
	}
}

func (r *Rule) clamp(v float64) float64 {
	if r.Min != nil && v < *r.Min {
		v = *r.Min
	}
	if r.Max != nil && v > *r.Max {
		v = *r.Max
	}
	return v
}

func matches(want map[string]string, context map[string]string) bool {
	if len(want) == 0 {
		return false
	}
	for k, v := range want {
		if context[k] != v {
			return false
		}
	}
	return true
}

// SimpleCharge is the common two-field configuration: when enabled, the
// charge is max(invoiceValue*percentage/100, minimumAmount). It agrees
// with Evaluate on a percentage rule carrying the same minimum.
func SimpleCharge(enabled bool, percentage, minimumAmount, invoiceValue float64) float64 {
	if !enabled {
		return 0
	}
	return math.Max(invoiceValue*percentage/100, minimumAmount)
}
