package domain

import (
	"context"
	"time"
)

// PlatformFetcher searches a single marketplace
type PlatformFetcher interface {
	Platform() string
	Search(ctx context.Context, query, page, currency string) ([]RawListing, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// MetricsRecorder receives aggregation telemetry
type MetricsRecorder interface {
	ObservePlatformFetch(platform string, succeeded bool, elapsed time.Duration)
	ObserveAggregation(stats Stats, elapsed time.Duration, cacheHit bool)
}
