package pipeline

import (
	"encoding/json"
	"reflect"
)

// Condition is a boolean expression tree evaluated against the
// pipeline context before a step runs.
//
// Exactly one field is set per node. On the wire each node is an
// object with a single "$"-prefixed key:
//
//	{"$exists": "$prev.email"}
//	{"$eq": ["$steps.user.tier", "premium"]}
//	{"$gt": ["$prev.total", 100]}
//	{"$and": [ ... ], "$or": [ ... ], "$not": { ... }}
//
// Comparison nodes pair a variable reference with a literal.
type Condition struct {
	// Exists is a variable reference that must resolve to a present,
	// non-null value.
	Exists string `json:"$exists,omitempty" yaml:"$exists,omitempty"`

	// Eq and Ne are [reference, literal] pairs compared for (in)equality.
	Eq []any `json:"$eq,omitempty" yaml:"$eq,omitempty"`
	Ne []any `json:"$ne,omitempty" yaml:"$ne,omitempty"`

	// Gt, Gte, Lt, Lte are [reference, threshold] pairs compared
	// numerically.
	Gt  []any `json:"$gt,omitempty" yaml:"$gt,omitempty"`
	Gte []any `json:"$gte,omitempty" yaml:"$gte,omitempty"`
	Lt  []any `json:"$lt,omitempty" yaml:"$lt,omitempty"`
	Lte []any `json:"$lte,omitempty" yaml:"$lte,omitempty"`

	// And and Or combine sub-conditions; Not negates one.
	And []*Condition `json:"$and,omitempty" yaml:"$and,omitempty"`
	Or  []*Condition `json:"$or,omitempty" yaml:"$or,omitempty"`
	Not *Condition   `json:"$not,omitempty" yaml:"$not,omitempty"`
}

// Constructor helpers for programmatic condition building.

func ExistsCond(ref string) *Condition { return &Condition{Exists: ref} }

func EqCond(ref string, expected any) *Condition { return &Condition{Eq: []any{ref, expected}} }

func NeCond(ref string, expected any) *Condition { return &Condition{Ne: []any{ref, expected}} }

func GtCond(ref string, threshold float64) *Condition { return &Condition{Gt: []any{ref, threshold}} }

func GteCond(ref string, threshold float64) *Condition { return &Condition{Gte: []any{ref, threshold}} }

func LtCond(ref string, threshold float64) *Condition { return &Condition{Lt: []any{ref, threshold}} }

func LteCond(ref string, threshold float64) *Condition { return &Condition{Lte: []any{ref, threshold}} }

func AndCond(conds ...*Condition) *Condition { return &Condition{And: conds} }

func OrCond(conds ...*Condition) *Condition { return &Condition{Or: conds} }

func NotCond(cond *Condition) *Condition { return &Condition{Not: cond} }

// Evaluate computes the condition bottom-up against ctx.
//
// Numeric comparisons coerce the resolved value to float64 and return
// false, not an error, when coercion fails. A malformed node (no
// operator set, or a comparison pair of the wrong shape) evaluates
// false.
func (c *Condition) Evaluate(ctx *Context) bool {
	switch {
	case c == nil:
		return true

	case c.Exists != "":
		v, ok := ResolveVariable(c.Exists, ctx)
		return ok && v != nil

	case c.Eq != nil:
		ref, expected, ok := comparisonPair(c.Eq)
		if !ok {
			return false
		}
		v, resolved := ResolveVariable(ref, ctx)
		return resolved && jsonEqual(v, expected)

	case c.Ne != nil:
		ref, expected, ok := comparisonPair(c.Ne)
		if !ok {
			return false
		}
		v, resolved := ResolveVariable(ref, ctx)
		return !resolved || !jsonEqual(v, expected)

	case c.Gt != nil:
		return compareNumeric(c.Gt, ctx, func(a, b float64) bool { return a > b })

	case c.Gte != nil:
		return compareNumeric(c.Gte, ctx, func(a, b float64) bool { return a >= b })

	case c.Lt != nil:
		return compareNumeric(c.Lt, ctx, func(a, b float64) bool { return a < b })

	case c.Lte != nil:
		return compareNumeric(c.Lte, ctx, func(a, b float64) bool { return a <= b })

	case c.And != nil:
		for _, sub := range c.And {
			if !sub.Evaluate(ctx) {
				return false
			}
		}
		return true

	case c.Or != nil:
		for _, sub := range c.Or {
			if sub.Evaluate(ctx) {
				return true
			}
		}
		return false

	case c.Not != nil:
		return !c.Not.Evaluate(ctx)

	default:
		return false
	}
}

func comparisonPair(pair []any) (ref string, literal any, ok bool) {
	if len(pair) != 2 {
		return "", nil, false
	}
	ref, ok = pair[0].(string)
	if !ok {
		return "", nil, false
	}
	return ref, pair[1], true
}

func compareNumeric(pair []any, ctx *Context, cmp func(a, b float64) bool) bool {
	ref, literal, ok := comparisonPair(pair)
	if !ok {
		return false
	}
	threshold, ok := toFloat(literal)
	if !ok {
		return false
	}
	v, resolved := ResolveVariable(ref, ctx)
	if !resolved {
		return false
	}
	n, ok := toFloat(v)
	if !ok {
		return false
	}
	return cmp(n, threshold)
}

// toFloat coerces the numeric representations JSON decoding produces.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// jsonEqual compares two decoded JSON values, treating numeric types
// as interchangeable (5 == 5.0).
func jsonEqual(a, b any) bool {
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		return bok && af == bf
	}
	return reflect.DeepEqual(a, b)
}
