package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeAmounts(t *testing.T) {
	cases := []struct {
		name                 string
		qty, rate, taxRate   string
		subtotal, tax, total string
	}{
		{"receive 10 at 100, 18%", "10", "100", "18", "1000", "180.00", "1180.00"},
		{"sell 10 at 150, 18%", "10", "150", "18", "1500", "270.00", "1770.00"},
		{"zero tax", "3", "1500", "0", "4500", "0", "4500"},
		{"zero rate", "5", "0", "18", "0", "0", "0"},
		{"fractional quantity", "0.125", "99.99", "12", "12.50", "1.50", "14.00"},
		{"tax rounds half away from zero", "1", "0.25", "10", "0.25", "0.03", "0.28"},
		{"subtotal rounds before tax", "0.333", "10", "18", "3.33", "0.60", "3.93"},
		{"full tax", "2", "10.10", "100", "20.20", "20.20", "40.40"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := ComputeAmounts(dec(tc.qty), dec(tc.rate), dec(tc.taxRate))
			assert.Truef(t, dec(tc.subtotal).Equal(a.Subtotal), "subtotal %s", a.Subtotal)
			assert.Truef(t, dec(tc.tax).Equal(a.Tax), "tax %s", a.Tax)
			assert.Truef(t, dec(tc.total).Equal(a.Total), "total %s", a.Total)
			assert.True(t, a.Subtotal.Add(a.Tax).Equal(a.Total))
		})
	}
}

func TestValidateQuantity(t *testing.T) {
	assert.NoError(t, validateQuantity(dec("1")))
	assert.NoError(t, validateQuantity(dec("0.001")))
	assert.NoError(t, validateQuantity(dec("2.5000")))
	assert.NoError(t, validateQuantity(MaxQuantity))

	for _, bad := range []string{"0", "-1", "0.0001", "1.2345", "100000000000", "12345678901234567.125"} {
		var ve *ValidationError
		assert.ErrorAsf(t, validateQuantity(dec(bad)), &ve, "quantity %s", bad)
	}
}

func TestValidateRate(t *testing.T) {
	assert.NoError(t, validateRate("rate_per_unit", dec("0")))
	assert.NoError(t, validateRate("rate_per_unit", dec("99.99")))

	var ve *ValidationError
	assert.ErrorAs(t, validateRate("rate_per_unit", dec("-0.01")), &ve)
	assert.Equal(t, "rate_per_unit", ve.Field)
	assert.ErrorAs(t, validateRate("rate_per_unit", dec("1.005")), &ve)

	assert.NoError(t, validateRate("price", MaxRate))
	assert.ErrorAs(t, validateRate("price", dec("10000000000")), &ve)
	assert.Equal(t, "price", ve.Field)
}

func TestCheckMovementFits(t *testing.T) {
	assert.NoError(t, checkMovementFits(MaxQuantity, Amounts{Total: MaxAmount}))

	var ve *ValidationError
	assert.ErrorAs(t, checkMovementFits(MaxQuantity.Add(dec("0.001")), Amounts{}), &ve)
	assert.ErrorAs(t, checkMovementFits(dec("1"), Amounts{Total: MaxAmount.Add(dec("0.01"))}), &ve)
}
