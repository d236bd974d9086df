// Package finance guarantees deterministic accuracy for all financial
// calculations by working on exact decimals instead of binary floats.
package finance

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrInvalidInput is returned when a value cannot be converted to an exact
// decimal (NaN, infinities). Callers at the workflow boundary convert it
// into a human-review suspension instead of letting it propagate.
var ErrInvalidInput = errors.New("invalid financial input")

// DefaultTaxTolerance is the allowed absolute deviation between the claimed
// tax amount and the rate-derived expectation. Some invoices round per line
// item, some on the total.
const DefaultTaxTolerance = "0.05"

// Details carries the decimal evidence behind a validation outcome.
type Details struct {
	ExpectedTotal decimal.Decimal `json:"expected_total"`
	ClaimedTotal  decimal.Decimal `json:"claimed_total"`
	ExpectedTax   decimal.Decimal `json:"expected_tax"`
	ClaimedTax    decimal.Decimal `json:"claimed_tax"`
	Diff          decimal.Decimal `json:"diff"`
}

// Validator checks subtotal/tax/total consistency with exact arithmetic.
type Validator struct {
	taxTolerance decimal.Decimal
	logger       *zap.Logger
}

// NewValidator creates a validator with the given tax tolerance. A zero or
// negative tolerance falls back to the default band.
func NewValidator(taxTolerance float64, logger *zap.Logger) *Validator {
	tol := decimal.RequireFromString(DefaultTaxTolerance)
	if taxTolerance > 0 {
		tol = decimal.NewFromFloat(taxTolerance)
	}
	return &Validator{
		taxTolerance: tol,
		logger:       logger,
	}
}

// toDecimal converts a float to an exact decimal by rendering its canonical
// base-10 string first, so binary round-trip artifacts never leak into the
// arithmetic. Non-finite values yield ErrInvalidInput.
func toDecimal(value float64) (decimal.Decimal, error) {
	s := strconv.FormatFloat(value, 'f', -1, 64)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %v", ErrInvalidInput, value)
	}
	return d, nil
}

// CalculateTax applies standard financial rounding (half away from zero)
// to two fractional digits. Example: 100.00 * 0.21 = 21.00.
func CalculateTax(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(2)
}

// Validate checks that subtotal + tax equals total exactly, and that the
// tax amount matches the expected rate within the configured tolerance.
// A returned error means the inputs could not be converted at all; the
// boolean result is only meaningful when err is nil.
func (v *Validator) Validate(subtotal, taxAmount, total, taxRate float64) (bool, string, Details, error) {
	dSub, err := toDecimal(subtotal)
	if err != nil {
		v.logger.Error("Math error: could not convert subtotal", zap.Float64("value", subtotal))
		return false, err.Error(), Details{}, err
	}
	dTax, err := toDecimal(taxAmount)
	if err != nil {
		v.logger.Error("Math error: could not convert tax amount", zap.Float64("value", taxAmount))
		return false, err.Error(), Details{}, err
	}
	dTotal, err := toDecimal(total)
	if err != nil {
		v.logger.Error("Math error: could not convert total", zap.Float64("value", total))
		return false, err.Error(), Details{}, err
	}
	dRate, err := toDecimal(taxRate)
	if err != nil {
		v.logger.Error("Math error: could not convert tax rate", zap.Float64("value", taxRate))
		return false, err.Error(), Details{}, err
	}

	// 1. Arithmetic: subtotal + tax must equal total exactly.
	calculatedTotal := dSub.Add(dTax)
	if !calculatedTotal.Equal(dTotal) {
		diff := dTotal.Sub(calculatedTotal)
		reason := fmt.Sprintf("Arithmetic Error: Subtotal + Tax != Total. Diff: %s", diff)
		return false, reason, Details{
			ExpectedTotal: calculatedTotal,
			ClaimedTotal:  dTotal,
			Diff:          diff,
		}, nil
	}

	// 2. Tax logic: claimed tax must match subtotal * rate within tolerance.
	expectedTax := CalculateTax(dSub, dRate)
	taxDiff := expectedTax.Sub(dTax).Abs()
	if taxDiff.GreaterThan(v.taxTolerance) {
		reason := fmt.Sprintf("Tax Logic Error: Tax amount doesn't match rate %v. Diff: %s", taxRate, taxDiff)
		return false, reason, Details{
			ExpectedTax: expectedTax,
			ClaimedTax:  dTax,
			Diff:        taxDiff,
		}, nil
	}

	return true, "Math Validated", Details{}, nil
}
