package marketplace

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ecocompare/backend/internal/domain"
)

const (
	amazonDefaultCurrency = "USD"
	flipkartCurrency      = "INR"
)

// amazonSearchResponse is the envelope of the Amazon search endpoint
type amazonSearchResponse struct {
	Status string `json:"status"`
	Data   struct {
		TotalProducts int             `json:"total_products"`
		Products      []amazonProduct `json:"products"`
	} `json:"data"`
}

type amazonProduct struct {
	ASIN                  string      `json:"asin"`
	Title                 string      `json:"product_title"`
	Brand                 string      `json:"brand"`
	Description           string      `json:"description"`
	Price                 interface{} `json:"product_price"`
	OriginalPrice         interface{} `json:"product_original_price"`
	Currency              string      `json:"currency"`
	Photo                 string      `json:"product_photo"`
	Images                []string    `json:"images"`
	StarRating            interface{} `json:"product_star_rating"`
	NumRatings            interface{} `json:"product_num_ratings"`
	IsBestSeller          bool        `json:"is_best_seller"`
	IsAmazonChoice        bool        `json:"is_amazon_choice"`
	ClimatePledgeFriendly bool        `json:"climate_pledge_friendly"`
}

// flipkartSearchResponse is the envelope of the Flipkart product search endpoint
type flipkartSearchResponse struct {
	Products []flipkartProduct `json:"products"`
}

type flipkartProduct struct {
	PID      string      `json:"pid"`
	Title    string      `json:"title"`
	Name     string      `json:"name"`
	Brand    string      `json:"brand"`
	SubTitle string      `json:"subTitle"`
	Price    interface{} `json:"price"`
	MRP      interface{} `json:"mrp"`
	URL      string      `json:"url"`
	Images   []string    `json:"images"`
	Rating   struct {
		Average interface{} `json:"average"`
		Count   interface{} `json:"count"`
	} `json:"rating"`
}

// mapAmazonProduct converts an Amazon search hit to a raw listing
func mapAmazonProduct(p amazonProduct) domain.RawListing {
	currency := p.Currency
	if currency == "" {
		currency = amazonDefaultCurrency
	}
	current := domain.NormalizePrice(p.Price, currency).Amount
	original := domain.NormalizePrice(p.OriginalPrice, currency).Amount

	return domain.RawListing{
		ID:          p.ASIN,
		Platform:    domain.PlatformAmazon,
		Name:        p.Title,
		Brand:       p.Brand,
		Description: p.Description,
		Pricing: domain.Pricing{
			Amount:   current,
			Original: original,
			Savings:  savings(original, current),
			Currency: currency,
		},
		URL: fmt.Sprintf("https://www.amazon.in/dp/%s", p.ASIN),
		Images: domain.Images{
			Primary: p.Photo,
			Gallery: nonNil(p.Images),
		},
		Rating: domain.Rating{
			Average: parseRatingAverage(p.StarRating),
			Count:   parseRatingCount(p.NumRatings),
		},
		Badges: domain.Badges{
			BestSeller:    p.IsBestSeller,
			AmazonChoice:  p.IsAmazonChoice,
			ClimatePledge: p.ClimatePledgeFriendly,
		},
	}
}

// mapFlipkartProducts converts Flipkart search hits. Hits without a pid get
// a generated id unique within the result.
func mapFlipkartProducts(products []flipkartProduct) []domain.RawListing {
	listings := make([]domain.RawListing, 0, len(products))
	for i, p := range products {
		id := p.PID
		if id == "" {
			id = fmt.Sprintf("flipkart-%d", i+1)
		}

		name := p.Title
		if name == "" {
			name = p.Name
		}

		current := domain.NormalizePrice(p.Price, flipkartCurrency).Amount
		original := domain.NormalizePrice(p.MRP, flipkartCurrency).Amount

		productURL := p.URL
		if productURL == "" {
			productURL = fmt.Sprintf("https://www.flipkart.com/p/%s", id)
		}

		var primary string
		if len(p.Images) > 0 {
			primary = p.Images[0]
		}

		listings = append(listings, domain.RawListing{
			ID:          id,
			Platform:    domain.PlatformFlipkart,
			Name:        name,
			Brand:       p.Brand,
			Description: p.SubTitle,
			Pricing: domain.Pricing{
				Amount:   current,
				Original: original,
				Savings:  savings(original, current),
				Currency: flipkartCurrency,
			},
			URL: productURL,
			Images: domain.Images{
				Primary: primary,
				Gallery: nonNil(p.Images),
			},
			Rating: domain.Rating{
				Average: parseRatingAverage(p.Rating.Average),
				Count:   parseRatingCount(p.Rating.Count),
			},
		})
	}
	return listings
}

// savings is never negative; a missing original price means no discount
func savings(original, current float64) float64 {
	if original > current {
		return original - current
	}
	return 0
}

// parseRatingAverage accepts numbers or strings such as "4.3" or "4.3 out of 5 stars"
func parseRatingAverage(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case string:
		fields := strings.Fields(v)
		if len(fields) == 0 {
			return 0
		}
		average, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 0
		}
		return average
	default:
		return 0
	}
}

// parseRatingCount accepts numbers or strings with thousands separators
func parseRatingCount(value interface{}) int {
	switch v := value.(type) {
	case float64:
		return int(v)
	case string:
		count, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(v), ",", ""))
		if err != nil {
			return 0
		}
		return count
	default:
		return 0
	}
}

func nonNil(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}
