package aggregator

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		anchor    time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"thursday anchor", date(2026, 1, 22), date(2026, 1, 18), date(2026, 1, 24)},
		{"sunday is its own week start", date(2026, 1, 18), date(2026, 1, 18), date(2026, 1, 24)},
		{"saturday closes the week", date(2026, 1, 24), date(2026, 1, 18), date(2026, 1, 24)},
		{"week spanning a month boundary", date(2026, 2, 2), date(2026, 2, 1), date(2026, 2, 7)},
		{"week spanning a year boundary", date(2026, 1, 1), date(2025, 12, 28), date(2026, 1, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStart(tt.anchor); !got.Equal(tt.wantStart) {
				t.Errorf("WeekStart(%s) = %s, want %s", tt.anchor, got, tt.wantStart)
			}
			if got := WeekEnd(tt.anchor); !got.Equal(tt.wantEnd) {
				t.Errorf("WeekEnd(%s) = %s, want %s", tt.anchor, got, tt.wantEnd)
			}
		})
	}
}

func TestMonthBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		anchor    time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"mid-month", date(2026, 1, 22), date(2026, 1, 1), date(2026, 1, 31)},
		{"february non-leap", date(2026, 2, 10), date(2026, 2, 1), date(2026, 2, 28)},
		{"february leap year", date(2028, 2, 10), date(2028, 2, 1), date(2028, 2, 29)},
		{"december", date(2026, 12, 31), date(2026, 12, 1), date(2026, 12, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthStart(tt.anchor); !got.Equal(tt.wantStart) {
				t.Errorf("MonthStart(%s) = %s, want %s", tt.anchor, got, tt.wantStart)
			}
			if got := MonthEnd(tt.anchor); !got.Equal(tt.wantEnd) {
				t.Errorf("MonthEnd(%s) = %s, want %s", tt.anchor, got, tt.wantEnd)
			}
		})
	}
}
