package marketplace

import (
	"context"
	"net/url"

	"github.com/ecocompare/backend/internal/domain"
)

// DefaultAmazonBaseURL is the RapidAPI real-time Amazon data endpoint
const DefaultAmazonBaseURL = "https://real-time-amazon-data.p.rapidapi.com"

// AmazonClient searches Amazon through the RapidAPI real-time data service
type AmazonClient struct {
	*client
}

// NewAmazonClient creates a new Amazon search client
func NewAmazonClient(cfg ClientConfig) *AmazonClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultAmazonBaseURL
	}
	return &AmazonClient{client: newClient(domain.PlatformAmazon, cfg)}
}

// Platform returns the marketplace identifier
func (c *AmazonClient) Platform() string {
	return domain.PlatformAmazon
}

// Search fetches one page of Amazon results for the query
func (c *AmazonClient) Search(ctx context.Context, query, page, currency string) ([]domain.RawListing, error) {
	params := url.Values{}
	params.Add("query", query)
	params.Add("country", amazonCountry(currency))
	params.Add("page", page)

	var resp amazonSearchResponse
	if err := c.getJSON(ctx, "/search", params, &resp); err != nil {
		return nil, err
	}

	listings := make([]domain.RawListing, 0, len(resp.Data.Products))
	for _, p := range resp.Data.Products {
		listings = append(listings, mapAmazonProduct(p))
	}

	c.logger.Debug().Str("query", query).Int("count", len(listings)).Msg("amazon search completed")
	return listings, nil
}

// amazonCountry picks the storefront matching the requested currency
func amazonCountry(currency string) string {
	if currency == "USD" {
		return "US"
	}
	return "IN"
}
