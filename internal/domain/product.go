package domain

import "fmt"

// Supported marketplaces. Amazon listings anchor the matching pass.
const (
	PlatformAmazon   = "amazon"
	PlatformFlipkart = "flipkart"
)

// Pricing is the normalized price block of a single listing
type Pricing struct {
	Amount   float64 `json:"amount"`
	Original float64 `json:"original"`
	Savings  float64 `json:"savings"`
	Currency string  `json:"currency"`
}

// Images holds the primary image and the gallery of a listing
type Images struct {
	Primary string   `json:"primary"`
	Gallery []string `json:"gallery"`
}

// Rating is the average star rating and the number of ratings
type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Badges are platform-supplied merchandising flags. Only Amazon populates them.
type Badges struct {
	BestSeller    bool `json:"bestSeller"`
	AmazonChoice  bool `json:"amazonChoice"`
	ClimatePledge bool `json:"climatePledge"`
}

// RawListing is one search result as returned by a platform fetcher
type RawListing struct {
	ID          string  `json:"id"`
	Platform    string  `json:"platform"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand,omitempty"`
	Description string  `json:"description"`
	Pricing     Pricing `json:"pricing"`
	URL         string  `json:"url"`
	Images      Images  `json:"images"`
	Rating      Rating  `json:"rating"`
	Badges      Badges  `json:"badges"`
}

// MatchCandidate is an opposite-platform listing considered for one anchor listing
type MatchCandidate struct {
	Listing         RawListing
	Similarity      float64
	PriceDifference float64
	PriceRatio      float64
}

// PlatformPrice is the per-platform price block of a unified product
type PlatformPrice struct {
	Current  float64 `json:"current"`
	Original float64 `json:"original"`
	Savings  float64 `json:"savings"`
	Currency string  `json:"currency"`
}

// ByPlatform holds one optional value per marketplace. A nil side means the
// platform has no listing for the product and serializes as null.
type ByPlatform[T any] struct {
	Amazon   *T `json:"amazon"`
	Flipkart *T `json:"flipkart"`
}

// UnifiedProduct is a merged (matched) or single-platform product in the result set
type UnifiedProduct struct {
	ID              string                    `json:"id"`
	Name            string                    `json:"name"`
	Description     string                    `json:"description"`
	Brand           string                    `json:"brand,omitempty"`
	Prices          ByPlatform[PlatformPrice] `json:"prices"`
	URLs            ByPlatform[string]        `json:"urls"`
	Images          ByPlatform[Images]        `json:"images"`
	Ratings         ByPlatform[Rating]        `json:"ratings"`
	Badges          Badges                    `json:"badges"`
	IsCommon        bool                      `json:"isCommon"`
	SimilarityScore float64                   `json:"similarityScore"`
	EcoScore        int                       `json:"ecoScore"`
}

// AmazonOnly reports whether only the Amazon side carries a price
func (p UnifiedProduct) AmazonOnly() bool {
	return p.Prices.Amazon != nil && p.Prices.Flipkart == nil
}

// FlipkartOnly reports whether only the Flipkart side carries a price
func (p UnifiedProduct) FlipkartOnly() bool {
	return p.Prices.Flipkart != nil && p.Prices.Amazon == nil
}

// Validate checks the structural invariants every emitted product must hold.
func (p UnifiedProduct) Validate() error {
	if p.Prices.Amazon == nil && p.Prices.Flipkart == nil {
		return fmt.Errorf("product %q has no price on any platform", p.ID)
	}
	if p.IsCommon {
		if p.Prices.Amazon == nil || p.Prices.Flipkart == nil {
			return fmt.Errorf("common product %q is missing a platform price", p.ID)
		}
	} else {
		if p.Prices.Amazon != nil && p.Prices.Flipkart != nil {
			return fmt.Errorf("unmatched product %q carries prices from both platforms", p.ID)
		}
		if p.SimilarityScore != 0 {
			return fmt.Errorf("unmatched product %q has similarity score %.2f", p.ID, p.SimilarityScore)
		}
	}
	if p.EcoScore < 0 || p.EcoScore > 10 {
		return fmt.Errorf("product %q has eco score %d outside [0,10]", p.ID, p.EcoScore)
	}
	return nil
}
