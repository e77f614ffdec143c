package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ecocompare/backend/internal/domain"
	"golang.org/x/text/currency"
)

const (
	defaultPage  = "1"
	defaultLimit = 20
	minLimit     = 1
	maxLimit     = 100
)

// supportedCurrencies are the currencies the marketplaces can price in
var supportedCurrencies = map[string]bool{
	"USD": true,
	"INR": true,
}

// supportedPlatforms in their canonical order: the anchor platform first
var supportedPlatforms = []string{domain.PlatformAmazon, domain.PlatformFlipkart}

// applyDefaults fills unset options and canonicalizes their spelling
func applyDefaults(opts domain.SearchOptions, limit int, currencyCode string) domain.SearchOptions {
	opts.Page = strings.TrimSpace(opts.Page)
	if opts.Page == "" {
		opts.Page = defaultPage
	}

	if opts.Limit == 0 {
		opts.Limit = limit
		if opts.Limit == 0 {
			opts.Limit = defaultLimit
		}
	}

	opts.Currency = strings.ToUpper(strings.TrimSpace(opts.Currency))
	if opts.Currency == "" {
		opts.Currency = strings.ToUpper(currencyCode)
		if opts.Currency == "" {
			opts.Currency = defaultCurrency
		}
	}

	if len(opts.Platforms) == 0 {
		opts.Platforms = append([]string(nil), supportedPlatforms...)
	} else {
		platforms := make([]string, 0, len(opts.Platforms))
		for _, p := range opts.Platforms {
			platforms = append(platforms, strings.ToLower(strings.TrimSpace(p)))
		}
		opts.Platforms = platforms
	}

	return opts
}

// ValidateOptions reports every problem with the options in a single
// validation error, or nil when they are usable.
func ValidateOptions(opts domain.SearchOptions) error {
	var problems []string

	if page, err := strconv.Atoi(opts.Page); err != nil || page < 1 {
		problems = append(problems, "page must be a positive number")
	}

	if opts.Limit < minLimit || opts.Limit > maxLimit {
		problems = append(problems, fmt.Sprintf("limit must be between %d and %d", minLimit, maxLimit))
	}

	if unit, err := currency.ParseISO(opts.Currency); err != nil {
		problems = append(problems, fmt.Sprintf("currency %q is not an ISO 4217 code", opts.Currency))
	} else if !supportedCurrencies[unit.String()] {
		problems = append(problems, "currency must be either USD or INR")
	}

	if len(opts.Platforms) == 0 {
		problems = append(problems, "at least one platform is required")
	}
	seen := make(map[string]bool, len(opts.Platforms))
	for _, p := range opts.Platforms {
		if !isSupportedPlatform(p) {
			problems = append(problems, fmt.Sprintf("unknown platform %q", p))
			continue
		}
		if seen[p] {
			problems = append(problems, fmt.Sprintf("platform %q requested more than once", p))
		}
		seen[p] = true
	}

	if len(problems) > 0 {
		return domain.NewValidationError(
			"Invalid search options: "+strings.Join(problems, "; "),
			problems,
		).WithKind(domain.ErrInvalidOptions)
	}
	return nil
}

func isSupportedPlatform(platform string) bool {
	for _, p := range supportedPlatforms {
		if p == platform {
			return true
		}
	}
	return false
}
