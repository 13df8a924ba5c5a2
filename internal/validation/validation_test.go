package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequired(t *testing.T) {
	v := Violations{}
	Required("no", "BG-001", v)
	Required("customer_name", "  ", v)
	require.Equal(t, Violations{"customer_name": "required"}, v)
	require.False(t, v.Empty())
}

func TestMinLength(t *testing.T) {
	v := Violations{}
	MinLength("phone_number", "0912345678", 10, v)
	require.True(t, v.Empty())
	MinLength("phone_number", "12345", 10, v)
	require.Equal(t, "too_short", v["phone_number"])
}

func TestIntValidators(t *testing.T) {
	v := Violations{}
	NonNegativeInt("vat", 0, v)
	NonNegativeInt("unit_price", -1, v)
	MinInt("quantity", 1, 1, v)
	MinInt("other", 0, 1, v)
	require.Equal(t, Violations{"unit_price": "must_be_non_negative", "other": "out_of_range"}, v)
}

func TestOneOf(t *testing.T) {
	allowed := []string{"1", "2", "3"}
	v := Violations{}
	OneOf("category", "2", allowed, v)
	OneOf("category_empty", "", allowed, v)
	require.True(t, v.Empty())
	OneOf("category", "9", allowed, v)
	require.Equal(t, "invalid_value", v["category"])
}
