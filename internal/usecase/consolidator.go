package usecase

import (
	"fmt"
	"sort"

	"github.com/ecocompare/backend/internal/domain"
)

// defaultCurrency is assumed for listings that do not state one
const defaultCurrency = "INR"

// Consolidate merges Amazon and Flipkart listings into unified products.
//
// Both lists are ordered by ascending price (stable), then each Amazon listing
// in turn claims its best-ranked unclaimed Flipkart candidate. Claims are
// irrevocable, so a cheaper Amazon listing gets first pick even when a later
// one would score higher. This greedy pass is deterministic and O(n·m) but not
// a globally optimal assignment. Amazon listings without a match and
// unclaimed Flipkart listings are emitted as single-platform products, in that
// order. The inputs are not modified.
func Consolidate(amazon, flipkart []domain.RawListing) []domain.UnifiedProduct {
	sortedAmazon := sortByPrice(amazon)
	sortedFlipkart := sortByPrice(flipkart)

	products := make([]domain.UnifiedProduct, 0, len(sortedAmazon)+len(sortedFlipkart))
	claimed := make(map[string]bool, len(sortedFlipkart))

	for _, anchor := range sortedAmazon {
		candidates := RankCandidates(anchor, sortedFlipkart, claimed)
		if len(candidates) == 0 {
			products = append(products, amazonOnlyProduct(anchor))
			continue
		}

		best := candidates[0]
		claimed[best.Listing.ID] = true
		products = append(products, mergedProduct(anchor, best))
	}

	for _, listing := range sortedFlipkart {
		if claimed[listing.ID] {
			continue
		}
		products = append(products, flipkartOnlyProduct(listing))
	}

	return products
}

// sortByPrice returns a copy of listings ordered by ascending price, keeping
// the input order among equal prices.
func sortByPrice(listings []domain.RawListing) []domain.RawListing {
	sorted := make([]domain.RawListing, len(listings))
	copy(sorted, listings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Pricing.Amount < sorted[j].Pricing.Amount
	})
	return sorted
}

func mergedProduct(anchor domain.RawListing, match domain.MatchCandidate) domain.UnifiedProduct {
	other := match.Listing
	return domain.UnifiedProduct{
		ID:          fmt.Sprintf("%s-%s", anchor.ID, other.ID),
		Name:        anchor.Name,
		Description: firstNonEmpty(anchor.Description, other.Description),
		Brand:       firstNonEmpty(anchor.Brand, other.Brand),
		Prices: domain.ByPlatform[domain.PlatformPrice]{
			Amazon:   platformPrice(anchor),
			Flipkart: platformPrice(other),
		},
		URLs: domain.ByPlatform[string]{
			Amazon:   listingURL(anchor),
			Flipkart: listingURL(other),
		},
		Images: domain.ByPlatform[domain.Images]{
			Amazon:   &anchor.Images,
			Flipkart: &other.Images,
		},
		Ratings: domain.ByPlatform[domain.Rating]{
			Amazon:   &anchor.Rating,
			Flipkart: &other.Rating,
		},
		Badges:          anchor.Badges,
		IsCommon:        true,
		SimilarityScore: match.Similarity,
		EcoScore:        CalculateEcoScore(&anchor, &other),
	}
}

func amazonOnlyProduct(listing domain.RawListing) domain.UnifiedProduct {
	return domain.UnifiedProduct{
		ID:          listing.ID,
		Name:        listing.Name,
		Description: listing.Description,
		Brand:       listing.Brand,
		Prices:      domain.ByPlatform[domain.PlatformPrice]{Amazon: platformPrice(listing)},
		URLs:        domain.ByPlatform[string]{Amazon: listingURL(listing)},
		Images:      domain.ByPlatform[domain.Images]{Amazon: &listing.Images},
		Ratings:     domain.ByPlatform[domain.Rating]{Amazon: &listing.Rating},
		Badges:      listing.Badges,
		EcoScore:    CalculateEcoScore(&listing, nil),
	}
}

func flipkartOnlyProduct(listing domain.RawListing) domain.UnifiedProduct {
	return domain.UnifiedProduct{
		ID:          listing.ID,
		Name:        listing.Name,
		Description: listing.Description,
		Brand:       listing.Brand,
		Prices:      domain.ByPlatform[domain.PlatformPrice]{Flipkart: platformPrice(listing)},
		URLs:        domain.ByPlatform[string]{Flipkart: listingURL(listing)},
		Images:      domain.ByPlatform[domain.Images]{Flipkart: &listing.Images},
		Ratings:     domain.ByPlatform[domain.Rating]{Flipkart: &listing.Rating},
		EcoScore:    CalculateEcoScore(nil, &listing),
	}
}

func platformPrice(listing domain.RawListing) *domain.PlatformPrice {
	return &domain.PlatformPrice{
		Current:  listing.Pricing.Amount,
		Original: listing.Pricing.Original,
		Savings:  listing.Pricing.Savings,
		Currency: firstNonEmpty(listing.Pricing.Currency, defaultCurrency),
	}
}

// listingURL falls back to the marketplace's canonical product URL
func listingURL(listing domain.RawListing) *string {
	url := listing.URL
	if url == "" {
		switch listing.Platform {
		case domain.PlatformFlipkart:
			url = "https://www.flipkart.com/p/" + listing.ID
		default:
			url = "https://www.amazon.in/dp/" + listing.ID
		}
	}
	return &url
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
