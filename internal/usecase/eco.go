package usecase

import "github.com/ecocompare/backend/internal/domain"

const (
	baseEcoScore       = 5
	climatePledgeBonus = 3
	maxEcoScore        = 10
)

// CalculateEcoScore derives a 0-10 sustainability proxy from platform badges.
// Only the Amazon listing's Climate Pledge badge is consulted; Flipkart
// exposes no sustainability signal and is accepted for future use.
func CalculateEcoScore(amazon, flipkart *domain.RawListing) int {
	score := baseEcoScore

	if amazon != nil && amazon.Badges.ClimatePledge {
		score += climatePledgeBonus
	}

	return min(score, maxEcoScore)
}
