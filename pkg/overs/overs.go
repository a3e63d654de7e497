// Package overs centralizes over/ball arithmetic so the rest of the codebase
// never mixes up the display form "18.4" with the decimal form 18.6667 used
// for run-rate math.
package overs

import "fmt"

// BallsPerOver is fixed for the supported format.
const BallsPerOver = 6

// Decimal converts completed overs plus balls of the current over into a
// decimal number of overs suitable for rate calculations.
func Decimal(completed, balls int) float64 {
	return float64(completed) + float64(balls)/float64(BallsPerOver)
}

// Display renders overs the way a scorecard does, e.g. 18 overs and 4 balls
// as "18.4".
func Display(completed, balls int) string {
	return fmt.Sprintf("%d.%d", completed, balls)
}

// TotalBalls returns the number of legal deliveries in an innings of the
// given length.
func TotalBalls(oversPerInnings int) int {
	return oversPerInnings * BallsPerOver
}

// RunRate computes runs per over. Zero balls bowled yields 0 rather than a
// division by zero.
func RunRate(runs, completed, balls int) float64 {
	d := Decimal(completed, balls)
	if d == 0 {
		return 0
	}
	return float64(runs) / d
}

// RequiredRunRate computes runs per over still needed given runs required and
// legal balls remaining. Zero balls remaining yields 0.
func RequiredRunRate(required, ballsRemaining int) float64 {
	if ballsRemaining <= 0 {
		return 0
	}
	return float64(required) / (float64(ballsRemaining) / float64(BallsPerOver))
}
