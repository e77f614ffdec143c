package usecase

import (
	"strconv"
	"time"

	"github.com/ecocompare/backend/internal/domain"
)

// buildMetadata assembles response metadata over the final (truncated) result set
func buildMetadata(
	query string,
	opts domain.SearchOptions,
	products []domain.UnifiedProduct,
	outcomes map[string]domain.FetchOutcome,
	performance domain.Performance,
	now time.Time,
) domain.ResponseMetadata {
	page, _ := strconv.Atoi(opts.Page)

	return domain.ResponseMetadata{
		Query:           query,
		Page:            page,
		Limit:           opts.Limit,
		Currency:        opts.Currency,
		Timestamp:       now.UTC(),
		Stats:           calculateStats(products),
		PlatformResults: outcomes,
		Performance:     performance,
		Filters: domain.Filters{
			Applied: domain.AppliedFilters{
				Platforms: opts.Platforms,
				Currency:  opts.Currency,
				Page:      opts.Page,
				Limit:     opts.Limit,
			},
			Available: domain.AvailableFilters{
				SortBy:     domain.SortOptions,
				PriceRange: calculatePriceRange(products),
				Brands:     extractUniqueBrands(products),
			},
		},
	}
}

func calculateStats(products []domain.UnifiedProduct) domain.Stats {
	stats := domain.Stats{Total: len(products)}
	for _, p := range products {
		if p.IsCommon {
			stats.Common++
		}
		if p.AmazonOnly() {
			stats.AmazonOnly++
		}
		if p.FlipkartOnly() {
			stats.FlipkartOnly++
		}
		if p.Badges.ClimatePledge {
			stats.WithClimatePledge++
		}
	}
	return stats
}

// calculatePriceRange covers every present, non-zero current price. An empty
// set yields all zeros.
func calculatePriceRange(products []domain.UnifiedProduct) domain.PriceRange {
	var prices []float64
	for _, p := range products {
		for _, price := range []*domain.PlatformPrice{p.Prices.Amazon, p.Prices.Flipkart} {
			if price != nil && price.Current != 0 {
				prices = append(prices, price.Current)
			}
		}
	}

	if len(prices) == 0 {
		return domain.PriceRange{}
	}

	r := domain.PriceRange{Min: prices[0], Max: prices[0]}
	sum := 0.0
	for _, price := range prices {
		r.Min = min(r.Min, price)
		r.Max = max(r.Max, price)
		sum += price
	}
	r.Average = sum / float64(len(prices))
	return r
}

// extractUniqueBrands lists non-empty brands in first-seen order
func extractUniqueBrands(products []domain.UnifiedProduct) []string {
	brands := make([]string, 0)
	seen := make(map[string]bool)
	for _, p := range products {
		if p.Brand == "" || seen[p.Brand] {
			continue
		}
		seen[p.Brand] = true
		brands = append(brands, p.Brand)
	}
	return brands
}
