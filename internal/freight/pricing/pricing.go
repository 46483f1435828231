// Package pricing implements the bulk price operation engine: a primary
// arithmetic operation over a rate's current price, optionally composed with
// a named multiplier factor, rounded to 2 decimal places exactly once at the
// end of the pipeline.
package pricing

import "github.com/shopspring/decimal"

// Kind identifies a bulk price operation.
type Kind string

const (
	KindFree       Kind = "free"
	KindFixed      Kind = "fixed"
	KindAdd        Kind = "add"
	KindSubtract   Kind = "subtract"
	KindMultiply   Kind = "multiply"
	KindPercentage Kind = "percentage"
)

var oneHundred = decimal.NewFromInt(100)

// Operation is a primary price operation. Operand is nil when the caller
// supplied no numeric value, which is distinct from an operand of zero.
type Operation struct {
	Kind    Kind
	Operand *decimal.Decimal
}

// Valid reports whether the kind is one of the known operations.
func (op Operation) Valid() bool {
	switch op.Kind {
	case KindFree, KindFixed, KindAdd, KindSubtract, KindMultiply, KindPercentage:
		return true
	}
	return false
}

// Active reports whether the operation is eligible for preview or apply:
// free needs no operand, every other kind needs either an operand or a
// selected multiplier. Inactive operations produce no candidate rows instead
// of silently treating the missing operand as zero.
func (op Operation) Active(hasMultiplier bool) bool {
	if !op.Valid() {
		return false
	}
	if op.Kind == KindFree {
		return true
	}
	return op.Operand != nil || hasMultiplier
}

// Apply computes the primary operation result without rounding.
//
// subtract floors at zero; the other kinds return the arithmetic result
// as-is, so fixed/add/multiply/percentage can go negative on bad operator
// input, which is a caller validation concern.
func Apply(current decimal.Decimal, op Operation) decimal.Decimal {
	if op.Kind == KindFree {
		return decimal.Zero
	}
	operand := decimal.Zero
	if op.Operand != nil {
		operand = *op.Operand
	}
	switch op.Kind {
	case KindFixed:
		return operand
	case KindAdd:
		return current.Add(operand)
	case KindSubtract:
		result := current.Sub(operand)
		if result.IsNegative() {
			return decimal.Zero
		}
		return result
	case KindMultiply:
		return current.Mul(operand)
	case KindPercentage:
		// Negative operand is a discount, positive a surcharge.
		return current.Mul(decimal.NewFromInt(1).Add(operand.Div(oneHundred)))
	default:
		return current
	}
}

// Final runs the full pipeline: primary operation, then the multiplier
// factor (nil means none), then a single half-up rounding to 2 decimal
// places. Rounding only once avoids compounding rounding error across the
// two stages.
func Final(current decimal.Decimal, op Operation, factor *decimal.Decimal) decimal.Decimal {
	result := Apply(current, op)
	if factor != nil {
		result = result.Mul(*factor)
	}
	return result.Round(2)
}

// Diff is the presentational delta of a computed price change; the sign
// drives increase/decrease display only.
func Diff(current, next decimal.Decimal) decimal.Decimal {
	return next.Sub(current)
}
