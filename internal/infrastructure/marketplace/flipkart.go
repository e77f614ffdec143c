package marketplace

import (
	"context"
	"net/url"

	"github.com/ecocompare/backend/internal/domain"
)

// DefaultFlipkartBaseURL is the RapidAPI real-time Flipkart endpoint
const DefaultFlipkartBaseURL = "https://real-time-flipkart-api.p.rapidapi.com"

// FlipkartClient searches Flipkart through the RapidAPI real-time service.
// Flipkart only prices in INR, so the requested currency is not forwarded.
type FlipkartClient struct {
	*client
}

// NewFlipkartClient creates a new Flipkart search client
func NewFlipkartClient(cfg ClientConfig) *FlipkartClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultFlipkartBaseURL
	}
	return &FlipkartClient{client: newClient(domain.PlatformFlipkart, cfg)}
}

// Platform returns the marketplace identifier
func (c *FlipkartClient) Platform() string {
	return domain.PlatformFlipkart
}

// Search fetches one page of Flipkart results sorted by popularity
func (c *FlipkartClient) Search(ctx context.Context, query, page, currency string) ([]domain.RawListing, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("page", page)
	params.Add("sort_by", "popularity")

	var resp flipkartSearchResponse
	if err := c.getJSON(ctx, "/product-search", params, &resp); err != nil {
		return nil, err
	}

	listings := mapFlipkartProducts(resp.Products)
	c.logger.Debug().Str("query", query).Int("count", len(listings)).Msg("flipkart search completed")
	return listings, nil
}
