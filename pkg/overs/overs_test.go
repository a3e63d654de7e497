package overs

import (
	"math"
	"testing"
)

func TestDisplay(t *testing.T) {
	tests := []struct {
		completed int
		balls     int
		want      string
	}{
		{0, 0, "0.0"},
		{0, 1, "0.1"},
		{18, 4, "18.4"},
		{20, 0, "20.0"},
	}
	for _, tt := range tests {
		if got := Display(tt.completed, tt.balls); got != tt.want {
			t.Errorf("Display(%d, %d) = %q, want %q", tt.completed, tt.balls, got, tt.want)
		}
	}
}

func TestDecimal(t *testing.T) {
	tests := []struct {
		completed int
		balls     int
		want      float64
	}{
		{0, 0, 0},
		{0, 3, 0.5},
		{18, 4, 18 + 4.0/6.0},
	}
	for _, tt := range tests {
		if got := Decimal(tt.completed, tt.balls); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Decimal(%d, %d) = %v, want %v", tt.completed, tt.balls, got, tt.want)
		}
	}
}

func TestTotalBalls(t *testing.T) {
	if got := TotalBalls(20); got != 120 {
		t.Errorf("TotalBalls(20) = %d, want 120", got)
	}
}

func TestRunRate(t *testing.T) {
	if got := RunRate(0, 0, 0); got != 0 {
		t.Errorf("RunRate with no balls bowled = %v, want 0", got)
	}
	if got := RunRate(6, 1, 0); math.Abs(got-6) > 1e-9 {
		t.Errorf("RunRate(6, 1, 0) = %v, want 6", got)
	}
	if got := RunRate(140, 18, 4); math.Abs(got-7.5) > 1e-9 {
		t.Errorf("RunRate(140, 18, 4) = %v, want 7.5", got)
	}
}

func TestRequiredRunRate(t *testing.T) {
	if got := RequiredRunRate(11, 8); math.Abs(got-8.25) > 1e-9 {
		t.Errorf("RequiredRunRate(11, 8) = %v, want 8.25", got)
	}
	if got := RequiredRunRate(11, 0); got != 0 {
		t.Errorf("RequiredRunRate with no balls left = %v, want 0", got)
	}
}
