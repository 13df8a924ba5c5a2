package db

import "testing"

func TestNormalizeDSN(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  postgres://u:p@localhost:5432/quotes  ", "postgres://u:p@localhost:5432/quotes"},
		{`"postgresql://u:p@db/quotes"`, "postgresql://u:p@db/quotes"},
		{"host=localhost user=app dbname=quotes", "host=localhost user=app dbname=quotes sslmode=disable"},
		{"host=localhost   dbname=quotes  sslmode=require", "host=localhost dbname=quotes sslmode=require"},
		{"something-opaque", "something-opaque"},
	}
	for _, c := range cases {
		if got := NormalizeDSN(c.in); got != c.want {
			t.Errorf("NormalizeDSN(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
