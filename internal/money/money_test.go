package money

import "testing"

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   int64
	}{
		{name: "whole amount", amount: 300.00, want: 30000},
		{name: "simple cents", amount: 12.34, want: 1234},
		{name: "third of a hundred", amount: 100.0 / 3, want: 3333},
		{name: "half cent rounds up", amount: 0.005, want: 1},
		{name: "just below half cent", amount: 0.004, want: 0},
		{name: "zero", amount: 0, want: 0},
		{name: "tenth", amount: 0.1, want: 10},
		{name: "float noise", amount: 19.99, want: 1999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToMinorUnits(tt.amount); got != tt.want {
				t.Errorf("ToMinorUnits(%v) = %d, want %d", tt.amount, got, tt.want)
			}
		})
	}
}

// Re-applying the conversion to a whole-cent decimal must return the same
// integer: the function is idempotent over its own output.
func TestToMinorUnitsIdempotent(t *testing.T) {
	for _, amount := range []float64{0, 0.01, 1.50, 99.99, 300.00, 1234.56} {
		minor := ToMinorUnits(amount)
		again := ToMinorUnits(FromMinorUnits(minor) * 100 / 100)
		if minor != again {
			t.Errorf("ToMinorUnits not idempotent for %v: %d then %d", amount, minor, again)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		minor int64
		want  string
	}{
		{10000, "100.00"},
		{1, "0.01"},
		{0, "0.00"},
		{1234, "12.34"},
		{-550, "-5.50"},
	}

	for _, tt := range tests {
		if got := Format(tt.minor); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.minor, got, tt.want)
		}
	}
}
