package money

import "testing"

func TestRound(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.01},
		{1.004, 1.0},
		{-1.005, -1.01},
		{0, 0},
		{1233.4949, 1233.49},
	}
	for _, c := range cases {
		if got := Round(c.in); got != c.want {
			t.Errorf("Round(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := Format(1125.6); got != "1125.60" {
		t.Errorf("expected 1125.60, got %s", got)
	}
	if got := Format(0); got != "0.00" {
		t.Errorf("expected 0.00, got %s", got)
	}
}

func TestEqual(t *testing.T) {
	if !Equal(10.004, 10.0) {
		t.Error("expected amounts equal after rounding")
	}
	if Equal(10.01, 10.0) {
		t.Error("expected amounts to differ")
	}
}
