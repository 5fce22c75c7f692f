package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPeriod_StartEnd(t *testing.T) {
	p := Period{Year: 2024, Month: 12}

	if got := p.Start(); !got.Equal(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Start() = %v", got)
	}
	if got := p.End(); !got.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("End() = %v", got)
	}
}

func TestPeriod_AddMonths(t *testing.T) {
	tests := []struct {
		name string
		from Period
		n    int
		want Period
	}{
		{"back across year", Period{2025, 1}, -5, Period{2024, 8}},
		{"forward across year", Period{2024, 11}, 3, Period{2025, 2}},
		{"zero", Period{2024, 3}, 0, Period{2024, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.AddMonths(tt.n); got != tt.want {
				t.Errorf("AddMonths(%d) = %+v, want %+v", tt.n, got, tt.want)
			}
		})
	}
}

func TestPeriod_Index(t *testing.T) {
	dec := Period{Year: 2024, Month: 12}
	jan := Period{Year: 2025, Month: 1}
	if jan.Index()-dec.Index() != 1 {
		t.Errorf("expected consecutive indexes, got %d and %d", dec.Index(), jan.Index())
	}
}

func TestPeriodOf_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	got := PeriodOf(time.Date(2024, 4, 1, 1, 0, 0, 0, loc))
	if got != (Period{Year: 2024, Month: 3}) {
		t.Errorf("PeriodOf = %+v, want 2024-03", got)
	}
}

func TestTierConstants(t *testing.T) {
	tests := []struct {
		tier     IntensityTier
		expected string
	}{
		{TierSafe, "safe"},
		{TierWarning, "warning"},
		{TierExceeded, "exceeded"},
	}

	for _, tt := range tests {
		if string(tt.tier) != tt.expected {
			t.Errorf("tier = %s, want %s", tt.tier, tt.expected)
		}
	}
}

func TestCheckMoney(t *testing.T) {
	tests := []struct {
		amount     string
		tooPrecise bool
		tooLarge   bool
	}{
		{"12.5", false, false},
		{"0.01", false, false},
		{"0.001", true, false},
		{"12.340", false, false},
		{"999999999999.99", false, false},
		{"1000000000000", false, true},
		{"-1000000000000", false, true},
	}

	for _, tt := range tests {
		tooPrecise, tooLarge := CheckMoney(decimal.RequireFromString(tt.amount))
		if tooPrecise != tt.tooPrecise || tooLarge != tt.tooLarge {
			t.Errorf("CheckMoney(%s) = %v, %v; want %v, %v", tt.amount, tooPrecise, tooLarge, tt.tooPrecise, tt.tooLarge)
		}
	}
}
