package usecase

import (
	"math"
	"sort"

	"github.com/ecocompare/backend/internal/domain"
)

// Candidate filter thresholds
const (
	maxPriceDeviation    = 0.30 // Candidate price must lie strictly within 30% of the anchor price
	minPriceRatio        = 0.70 // min/max of the two prices
	minMatchSimilarity   = 45.0 // Name similarity floor
	similarityRankWeight = 0.7
	priceRankWeight      = 0.3
)

// RankCandidates returns the opposite-platform listings that may denote the
// same product as anchor, best first. Listings whose id is in claimed, that
// have no usable price, fall outside the price band, or whose names score
// below the similarity floor are dropped. An empty result means "no match".
func RankCandidates(anchor domain.RawListing, pool []domain.RawListing, claimed map[string]bool) []domain.MatchCandidate {
	basePrice := anchor.Pricing.Amount
	maxDiff := basePrice * maxPriceDeviation

	var candidates []domain.MatchCandidate
	for _, listing := range pool {
		if claimed[listing.ID] {
			continue
		}

		price := listing.Pricing.Amount
		if price <= 0 {
			continue
		}

		diff := math.Abs(price - basePrice)
		ratio := math.Min(price, basePrice) / math.Max(price, basePrice)
		if diff >= maxDiff || ratio < minPriceRatio {
			continue
		}

		similarity := CalculateSimilarity(anchor.Name, listing.Name)
		if similarity < minMatchSimilarity {
			continue
		}

		candidates = append(candidates, domain.MatchCandidate{
			Listing:         listing,
			Similarity:      similarity,
			PriceDifference: diff,
			PriceRatio:      ratio,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return rankScore(candidates[i]) > rankScore(candidates[j])
	})

	return candidates
}

// rankScore blends name similarity with price closeness
func rankScore(c domain.MatchCandidate) float64 {
	return similarityRankWeight*c.Similarity + priceRankWeight*(c.PriceRatio*100)
}
