package main

import "testing"

func TestVoltageToPercent(t *testing.T) {
	tests := []struct {
		mv       int
		expected int
	}{
		{BATT_EMPTY_MV, 0},
		{BATT_FULL_MV, 100},
		{3825, 50},
		{3000, 0},   // below empty clamps
		{5000, 100}, // above full clamps
		{0, 0},
		{3310, 0}, // integer math floors just above empty
		{4340, 99},
	}

	for _, tt := range tests {
		if got := voltageToPercent(tt.mv); got != tt.expected {
			t.Errorf("voltageToPercent(%d) = %d; want %d", tt.mv, got, tt.expected)
		}
	}
}
