package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/ecocompare/backend/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ProductServiceConfig holds configuration for the product service
type ProductServiceConfig struct {
	FetchTimeout    time.Duration
	CacheTTL        time.Duration
	DefaultLimit    int
	DefaultCurrency string
	Logger          zerolog.Logger
	Metrics         domain.MetricsRecorder
}

// ProductService aggregates marketplace listings into a ranked, consolidated result
type ProductService struct {
	fetchers        map[string]domain.PlatformFetcher
	cache           domain.CacheRepository
	metrics         domain.MetricsRecorder
	logger          zerolog.Logger
	fetchTimeout    time.Duration
	cacheTTL        time.Duration
	defaultLimit    int
	defaultCurrency string
	now             func() time.Time
}

// rankedSnapshot is the cacheable part of an aggregation: the full ranked
// product list before truncation and the fetch outcomes that produced it.
type rankedSnapshot struct {
	Products        []domain.UnifiedProduct        `json:"products"`
	PlatformResults map[string]domain.FetchOutcome `json:"platformResults"`
}

type platformListings struct {
	platform string
	listings []domain.RawListing
	outcome  domain.FetchOutcome
}

// NewProductService creates a new product service. A nil cache disables
// result caching; a nil metrics recorder disables telemetry.
func NewProductService(
	fetchers []domain.PlatformFetcher,
	cache domain.CacheRepository,
	config ProductServiceConfig,
) *ProductService {
	byPlatform := make(map[string]domain.PlatformFetcher, len(fetchers))
	for _, f := range fetchers {
		byPlatform[f.Platform()] = f
	}

	fetchTimeout := config.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}

	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}

	return &ProductService{
		fetchers:        byPlatform,
		cache:           cache,
		metrics:         config.Metrics,
		logger:          config.Logger,
		fetchTimeout:    fetchTimeout,
		cacheTTL:        cacheTTL,
		defaultLimit:    config.DefaultLimit,
		defaultCurrency: config.DefaultCurrency,
		now:             time.Now,
	}
}

// FetchProducts searches every requested platform concurrently, consolidates
// the listings, ranks matched products first and truncates to the limit.
// Flow: validate -> cache -> fan-out fetch -> consolidate -> rank -> cache -> truncate -> metadata
//
// A failing platform only empties its own contribution and is reported in
// metadata.platformResults. Validation failures return before any fetch.
// When every requested platform fails the request fails with a service error.
func (s *ProductService) FetchProducts(
	ctx context.Context,
	query string,
	opts domain.SearchOptions,
) (*domain.AggregationResult, error) {
	start := s.now()

	query = NormalizeQuery(query)
	if query == "" {
		return nil, domain.NewValidationError("Query parameter is required", nil).WithKind(domain.ErrInvalidQuery)
	}

	opts = applyDefaults(opts, s.defaultLimit, s.defaultCurrency)
	if err := ValidateOptions(opts); err != nil {
		return nil, err
	}

	cacheKey := generateCacheKey(query, opts)
	snapshot, cacheHit := s.getFromCache(ctx, cacheKey)

	if !cacheHit {
		results := s.fetchAll(ctx, query, opts)

		outcomes := make(map[string]domain.FetchOutcome, len(results))
		var amazon, flipkart []domain.RawListing
		allSucceeded, anySucceeded := true, false
		for _, r := range results {
			outcomes[r.platform] = r.outcome
			if !r.outcome.Succeeded() {
				allSucceeded = false
				continue
			}
			anySucceeded = true
			switch r.platform {
			case domain.PlatformAmazon:
				amazon = r.listings
			case domain.PlatformFlipkart:
				flipkart = r.listings
			}
		}

		if !anySucceeded {
			s.logger.Error().Str("query", query).Interface("platformResults", outcomes).Msg("all platform fetches failed")
			return nil, domain.NewServiceError(
				http.StatusBadGateway,
				"Failed to fetch products: all platforms failed",
				outcomes,
			).WithKind(domain.ErrAllPlatformsFailed)
		}

		products, err := s.consolidate(amazon, flipkart)
		if err != nil {
			s.logger.Error().Err(err).Str("query", query).Msg("consolidation failed")
			return nil, err
		}
		rankProducts(products)

		snapshot = &rankedSnapshot{Products: products, PlatformResults: outcomes}
		if allSucceeded {
			s.setInCache(ctx, cacheKey, snapshot)
		}
	}

	products := snapshot.Products
	if len(products) > opts.Limit {
		products = products[:opts.Limit]
	}

	elapsed := s.now().Sub(start)
	performance := domain.Performance{
		ResponseTimeMs: elapsed.Milliseconds(),
		CacheHit:       cacheHit,
		DataSource:     domain.DataSourceAPI,
	}
	if cacheHit {
		performance.DataSource = domain.DataSourceCache
	}

	metadata := buildMetadata(query, opts, products, snapshot.PlatformResults, performance, s.now())
	if s.metrics != nil {
		s.metrics.ObserveAggregation(metadata.Stats, elapsed, cacheHit)
	}

	s.logger.Info().
		Str("query", query).
		Int("count", len(products)).
		Int("common", metadata.Stats.Common).
		Bool("cacheHit", cacheHit).
		Dur("elapsed", elapsed).
		Msg("products aggregated")

	return &domain.AggregationResult{
		Success:  true,
		Count:    len(products),
		Products: products,
		Metadata: metadata,
	}, nil
}

// fetchAll runs one fetch per requested platform and waits for all of them.
// Every fetch settles independently; a failure never cancels the others.
// A panicking fetcher is recorded as that platform's failure and reported
// through the group error.
func (s *ProductService) fetchAll(ctx context.Context, query string, opts domain.SearchOptions) []platformListings {
	results := make([]platformListings, len(opts.Platforms))

	var g errgroup.Group
	for i, platform := range opts.Platforms {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					outcome := domain.FetchOutcome{
						Status: domain.FetchFailed,
						Error:  fmt.Sprintf("%s API error: fetcher panicked: %v", domain.PlatformTitle(platform), r),
					}
					results[i] = platformListings{platform: platform, outcome: outcome}
					err = fmt.Errorf("%s fetcher panicked: %v", platform, r)
				}
			}()
			results[i] = s.fetchPlatform(ctx, platform, query, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("platform fetch crashed")
	}

	return results
}

func (s *ProductService) fetchPlatform(ctx context.Context, platform, query string, opts domain.SearchOptions) platformListings {
	result := platformListings{platform: platform}

	fetcher, ok := s.fetchers[platform]
	if !ok {
		result.outcome = domain.FetchOutcome{
			Status: domain.FetchFailed,
			Error:  fmt.Sprintf("%s fetcher is not configured", domain.PlatformTitle(platform)),
		}
		return result
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	started := time.Now()
	listings, err := fetcher.Search(fetchCtx, query, opts.Page, opts.Currency)
	elapsed := time.Since(started)

	if err == nil && fetchCtx.Err() != nil {
		err = fetchCtx.Err()
	}
	if err != nil {
		err = classifyFetchError(platform, err)
		s.logger.Warn().Err(err).Str("platform", platform).Dur("elapsed", elapsed).Msg("platform fetch failed")
		result.outcome = domain.FetchOutcome{Status: domain.FetchFailed, Error: err.Error()}
	} else {
		result.listings = listings
		result.outcome = domain.FetchOutcome{Status: domain.FetchSucceeded, ItemCount: len(listings)}
	}

	if s.metrics != nil {
		s.metrics.ObservePlatformFetch(platform, err == nil, elapsed)
	}

	return result
}

// classifyFetchError makes sure every fetch failure carries the platform source
func classifyFetchError(platform string, err error) error {
	var pse *domain.ProductServiceError
	if errors.As(err, &pse) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewPlatformTimeoutError(platform, err)
	}
	return domain.NewPlatformFetchError(
		platform,
		http.StatusInternalServerError,
		fmt.Sprintf("%s API error: %v", domain.PlatformTitle(platform), err),
		nil,
	)
}

// consolidate runs the matching pass and verifies its output. Any panic or
// broken invariant is a defect in the pipeline and surfaces as a service error.
func (s *ProductService) consolidate(amazon, flipkart []domain.RawListing) (products []domain.UnifiedProduct, err error) {
	defer func() {
		if r := recover(); r != nil {
			products = nil
			err = domain.NewServiceError(http.StatusInternalServerError, fmt.Sprintf("Failed to consolidate products: %v", r), nil)
		}
	}()

	products = Consolidate(amazon, flipkart)
	for _, p := range products {
		if verr := p.Validate(); verr != nil {
			return nil, domain.NewServiceError(http.StatusInternalServerError, "Failed to consolidate products: "+verr.Error(), nil)
		}
	}
	return products, nil
}

// rankProducts orders matched products first by descending similarity,
// keeping consolidation order among ties.
func rankProducts(products []domain.UnifiedProduct) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].SimilarityScore > products[j].SimilarityScore
	})
}

// generateCacheKey keys on everything that changes the untruncated result.
// Format: "products:{query}:{sorted platforms}:{currency}:{page}"
func generateCacheKey(query string, opts domain.SearchOptions) string {
	platforms := append([]string(nil), opts.Platforms...)
	sort.Strings(platforms)
	return fmt.Sprintf("products:%s:%s:%s:%s",
		strings.ToLower(query), strings.Join(platforms, ","), opts.Currency, opts.Page)
}

// getFromCache retrieves a ranked snapshot; any failure counts as a miss
func (s *ProductService) getFromCache(ctx context.Context, key string) (*rankedSnapshot, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return nil, false
	}

	var snapshot rankedSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return nil, false
	}
	return &snapshot, true
}

// setInCache stores a ranked snapshot. Failures are logged, never returned.
func (s *ProductService) setInCache(ctx context.Context, key string, snapshot *rankedSnapshot) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
