package service

import "github.com/shopspring/decimal"

const (
	// QuantityPlaces is the finest quantity a movement may carry (grams,
	// millilitres).
	QuantityPlaces = 3
	// MoneyPlaces is the precision of rates, tax and totals.
	MoneyPlaces = 2
)

var hundred = decimal.NewFromInt(100)

// Column ceilings: quantities are decimal(14,3), rates and prices
// decimal(12,2), tax and totals decimal(14,2).
var (
	MaxQuantity = decimal.RequireFromString("99999999999.999")
	MaxRate     = decimal.RequireFromString("9999999999.99")
	MaxAmount   = decimal.RequireFromString("999999999999.99")
)

// Amounts are the money figures stored on a receiving or sale record.
type Amounts struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeAmounts prices quantity units at rate with a taxRate percentage.
// Subtotal and tax are each rounded half away from zero to MoneyPlaces and
// total is their exact sum, so every record satisfies total = subtotal + tax.
func ComputeAmounts(quantity, rate, taxRate decimal.Decimal) Amounts {
	subtotal := quantity.Mul(rate).Round(MoneyPlaces)
	tax := subtotal.Mul(taxRate).Div(hundred).Round(MoneyPlaces)
	return Amounts{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

func hasAtMostPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Round(places))
}

func validateQuantity(q decimal.Decimal) error {
	if !q.IsPositive() {
		return &ValidationError{Field: "quantity", Reason: "must be greater than zero"}
	}
	if !hasAtMostPlaces(q, QuantityPlaces) {
		return &ValidationError{Field: "quantity", Reason: "at most 3 decimal places"}
	}
	if q.GreaterThan(MaxQuantity) {
		return &ValidationError{Field: "quantity", Reason: "must not exceed " + MaxQuantity.String()}
	}
	return nil
}

func validateRate(field string, r decimal.Decimal) error {
	if r.IsNegative() {
		return &ValidationError{Field: field, Reason: "must not be negative"}
	}
	if !hasAtMostPlaces(r, MoneyPlaces) {
		return &ValidationError{Field: field, Reason: "at most 2 decimal places"}
	}
	if r.GreaterThan(MaxRate) {
		return &ValidationError{Field: field, Reason: "must not exceed " + MaxRate.String()}
	}
	return nil
}

// checkMovementFits rejects a movement whose resulting stock or total would
// not fit its column.
func checkMovementFits(next decimal.Decimal, a Amounts) error {
	if next.GreaterThan(MaxQuantity) {
		return &ValidationError{Field: "quantity", Reason: "stock would exceed " + MaxQuantity.String()}
	}
	if a.Total.GreaterThan(MaxAmount) {
		return &ValidationError{Field: "quantity", Reason: "total would exceed " + MaxAmount.String()}
	}
	return nil
}
