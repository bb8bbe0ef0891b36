package service

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Monetary comparisons never use exact equality; two amounts within this
// epsilon are the same amount.
var moneyEpsilon = decimal.NewFromFloat(0.01)

var (
	decimalOne     = decimal.NewFromInt(1)
	decimalTwo     = decimal.NewFromInt(2)
	decimalHundred = decimal.NewFromInt(100)
)

// TaxBreakdown is the result of decomposing a tax-inclusive amount
type TaxBreakdown struct {
	BaseAmount decimal.Decimal
	TaxAmount  decimal.Decimal
	CgstAmount decimal.Decimal
	SgstAmount decimal.Decimal
}

// DecomposeRate derives the per-unit base price and tax from a tax-inclusive
// unit rate: base = rate / (1 + percent/100). A zero percent means the rate
// is the base and tax is zero.
func DecomposeRate(rate, percent decimal.Decimal) (base, tax decimal.Decimal) {
	if percent.IsZero() {
		return rate, decimal.Zero
	}
	divisor := decimalOne.Add(percent.Div(decimalHundred))
	base = rate.Div(divisor)
	tax = rate.Sub(base)
	return base, tax
}

// DecomposeLine decomposes a full line: totals over quantity, with the tax
// split evenly into CGST and SGST (intra-state). Accumulates at full
// precision; rounding happens only at the commit boundary.
func DecomposeLine(rate, percent, qty decimal.Decimal) TaxBreakdown {
	base, tax := DecomposeRate(rate, percent)
	return splitTax(base.Mul(qty), tax.Mul(qty))
}

// DecomposeAmount decomposes an aggregate tax-inclusive amount (e.g. a line
// total after a line-level discount) at the given percent.
func DecomposeAmount(amount, percent decimal.Decimal) TaxBreakdown {
	base, tax := DecomposeRate(amount, percent)
	return splitTax(base, tax)
}

func splitTax(base, tax decimal.Decimal) TaxBreakdown {
	half := tax.Div(decimalTwo)
	return TaxBreakdown{
		BaseAmount: base,
		TaxAmount:  tax,
		CgstAmount: half,
		SgstAmount: half,
	}
}

// ReconcileTax compares a freshly computed tax total against a caller
// supplied expectation. The computed value is always authoritative; a
// mismatch beyond the epsilon is logged, never silently adopted.
func ReconcileTax(log *logrus.Logger, computed decimal.Decimal, supplied *decimal.Decimal) decimal.Decimal {
	if supplied == nil {
		return computed
	}
	if !WithinEpsilon(computed, *supplied) && log != nil {
		log.WithFields(logrus.Fields{
			"module":   "tax",
			"computed": computed.String(),
			"supplied": supplied.String(),
		}).Warn("supplied tax total disagrees with decomposition; using computed value")
	}
	return computed
}

// RoundMoney rounds to the 2-decimal presentation/commit boundary
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// WithinEpsilon reports whether two amounts are equal for money purposes
func WithinEpsilon(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(moneyEpsilon)
}
