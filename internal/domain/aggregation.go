package domain

import "time"

// Fetch outcome statuses
const (
	FetchSucceeded = "succeeded"
	FetchFailed    = "failed"
)

// Data sources reported in response metadata
const (
	DataSourceAPI   = "api"
	DataSourceCache = "cache"
)

// SortOptions lists the orderings a client may apply to the result set
var SortOptions = []string{"price", "rating", "eco_score", "relevance"}

// SearchOptions controls one aggregation request
type SearchOptions struct {
	Page      string   `json:"page"`
	Limit     int      `json:"limit"`
	Currency  string   `json:"currency"`
	Platforms []string `json:"platforms"`
}

// FetchOutcome records how one platform fetch ended
type FetchOutcome struct {
	Status    string `json:"status"`
	ItemCount int    `json:"itemCount"`
	Error     string `json:"error,omitempty"`
}

// Succeeded reports whether the platform returned listings
func (o FetchOutcome) Succeeded() bool {
	return o.Status == FetchSucceeded
}

// Stats counts products in the final result set
type Stats struct {
	Total             int `json:"total"`
	Common            int `json:"common"`
	AmazonOnly        int `json:"amazonOnly"`
	FlipkartOnly      int `json:"flipkartOnly"`
	WithClimatePledge int `json:"withClimatePledge"`
}

// PriceRange summarizes the usable prices of the final result set
type PriceRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// Performance describes how the response was produced
type Performance struct {
	ResponseTimeMs int64  `json:"responseTimeMs"`
	CacheHit       bool   `json:"cacheHit"`
	DataSource     string `json:"dataSource"`
}

// AppliedFilters echoes the effective request options
type AppliedFilters struct {
	Platforms []string `json:"platforms"`
	Currency  string   `json:"currency"`
	Page      string   `json:"page"`
	Limit     int      `json:"limit"`
}

// AvailableFilters describes facets a client can offer over the result set
type AvailableFilters struct {
	SortBy     []string   `json:"sortBy"`
	PriceRange PriceRange `json:"priceRange"`
	Brands     []string   `json:"brands"`
}

// Filters groups applied and available filters
type Filters struct {
	Applied   AppliedFilters   `json:"applied"`
	Available AvailableFilters `json:"available"`
}

// ResponseMetadata accompanies every aggregation result
type ResponseMetadata struct {
	Query           string                  `json:"query"`
	Page            int                     `json:"page"`
	Limit           int                     `json:"limit"`
	Currency        string                  `json:"currency"`
	Timestamp       time.Time               `json:"timestamp"`
	Stats           Stats                   `json:"stats"`
	PlatformResults map[string]FetchOutcome `json:"platformResults"`
	Performance     Performance             `json:"performance"`
	Filters         Filters                 `json:"filters"`
}

// AggregationResult is the response of a product search
type AggregationResult struct {
	Success  bool             `json:"success"`
	Count    int              `json:"count"`
	Products []UnifiedProduct `json:"products"`
	Metadata ResponseMetadata `json:"metadata"`
}
