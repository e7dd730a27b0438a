// Package rating implements the pairwise logistic rating update applied on
// every vote.
package rating

import "math"

const (
	KFactor = 32
	Scale   = 400
)

// Expected is the probability the logistic model assigns to a beating b.
func Expected(a, b int) float64 {
	return 1 / (1 + math.Pow(10, float64(b-a)/Scale))
}

// Update returns the new winner and loser ratings, each rounded to the
// nearest integer independently. Ratings are not clamped.
func Update(winner, loser int) (int, int) {
	expectedWinner := Expected(winner, loser)
	expectedLoser := Expected(loser, winner)

	newWinner := round(float64(winner) + KFactor*(1-expectedWinner))
	newLoser := round(float64(loser) + KFactor*(0-expectedLoser))
	return newWinner, newLoser
}

// round matches half-up rounding toward positive infinity, so 1183.5 -> 1184
// and -0.5 -> 0.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// WinRateAfterWin is the winner's rate once the vote is counted.
func WinRateAfterWin(wins, losses int) float64 {
	return float64(wins+1) / float64(wins+losses+1)
}

// WinRateAfterLoss keeps the loser's numerator at its pre-vote value while
// the denominator counts the new loss.
func WinRateAfterLoss(wins, losses int) float64 {
	return float64(wins) / float64(wins+losses+1)
}
