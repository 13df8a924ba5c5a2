package view

import "testing"

func TestMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{500, "500"},
		{1500, "1.500"},
		{150000, "150.000"},
		{1234000, "1.234.000"},
		{1234567.4, "1.234.567"},
		{-2500, "-2.500"},
	}
	for _, c := range cases {
		if got := Money(c.in); got != c.want {
			t.Errorf("Money(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
