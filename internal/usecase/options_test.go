package usecase

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ecocompare/backend/internal/domain"
)

func TestApplyDefaults(t *testing.T) {
	t.Run("fills every unset option", func(t *testing.T) {
		got := applyDefaults(domain.SearchOptions{}, 0, "")
		want := domain.SearchOptions{
			Page:      "1",
			Limit:     20,
			Currency:  "INR",
			Platforms: []string{domain.PlatformAmazon, domain.PlatformFlipkart},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("applyDefaults() = %+v, want %+v", got, want)
		}
	})

	t.Run("uses configured defaults", func(t *testing.T) {
		got := applyDefaults(domain.SearchOptions{}, 40, "usd")
		if got.Limit != 40 || got.Currency != "USD" {
			t.Errorf("Limit = %d, Currency = %q, want 40, USD", got.Limit, got.Currency)
		}
	})

	t.Run("canonicalizes spelling", func(t *testing.T) {
		got := applyDefaults(domain.SearchOptions{
			Page:      " 3 ",
			Currency:  " inr",
			Platforms: []string{" Flipkart ", "AMAZON"},
		}, 0, "")
		if got.Page != "3" || got.Currency != "INR" {
			t.Errorf("Page = %q, Currency = %q", got.Page, got.Currency)
		}
		if !reflect.DeepEqual(got.Platforms, []string{"flipkart", "amazon"}) {
			t.Errorf("Platforms = %v", got.Platforms)
		}
	})

	t.Run("does not share the default platform slice", func(t *testing.T) {
		got := applyDefaults(domain.SearchOptions{}, 0, "")
		got.Platforms[0] = "mutated"
		if supportedPlatforms[0] != domain.PlatformAmazon {
			t.Error("default platforms were mutated")
		}
	})
}

func TestValidateOptions(t *testing.T) {
	valid := domain.SearchOptions{
		Page:      "1",
		Limit:     20,
		Currency:  "INR",
		Platforms: []string{domain.PlatformAmazon, domain.PlatformFlipkart},
	}

	tests := []struct {
		name    string
		mutate  func(o *domain.SearchOptions)
		wantErr string
	}{
		{name: "valid options", mutate: func(o *domain.SearchOptions) {}},
		{name: "usd", mutate: func(o *domain.SearchOptions) { o.Currency = "USD" }},
		{name: "single platform", mutate: func(o *domain.SearchOptions) { o.Platforms = []string{"flipkart"} }},
		{name: "limit lower bound", mutate: func(o *domain.SearchOptions) { o.Limit = 1 }},
		{name: "limit upper bound", mutate: func(o *domain.SearchOptions) { o.Limit = 100 }},
		{name: "non numeric page", mutate: func(o *domain.SearchOptions) { o.Page = "two" }, wantErr: "page must be a positive number"},
		{name: "zero page", mutate: func(o *domain.SearchOptions) { o.Page = "0" }, wantErr: "page must be a positive number"},
		{name: "limit too small", mutate: func(o *domain.SearchOptions) { o.Limit = -1 }, wantErr: "limit must be between 1 and 100"},
		{name: "limit too large", mutate: func(o *domain.SearchOptions) { o.Limit = 101 }, wantErr: "limit must be between 1 and 100"},
		{name: "not an iso code", mutate: func(o *domain.SearchOptions) { o.Currency = "RUPEE" }, wantErr: "not an ISO 4217 code"},
		{name: "unsupported currency", mutate: func(o *domain.SearchOptions) { o.Currency = "EUR" }, wantErr: "currency must be either USD or INR"},
		{name: "no platforms", mutate: func(o *domain.SearchOptions) { o.Platforms = nil }, wantErr: "at least one platform is required"},
		{name: "unknown platform", mutate: func(o *domain.SearchOptions) { o.Platforms = []string{"ebay"} }, wantErr: `unknown platform "ebay"`},
		{name: "duplicate platform", mutate: func(o *domain.SearchOptions) { o.Platforms = []string{"amazon", "amazon"} }, wantErr: "requested more than once"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := valid
			opts.Platforms = append([]string(nil), valid.Platforms...)
			tt.mutate(&opts)

			err := ValidateOptions(opts)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateOptions() unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("ValidateOptions() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
			if !errors.Is(err, domain.ErrInvalidOptions) {
				t.Errorf("error should wrap ErrInvalidOptions")
			}
		})
	}

	t.Run("reports every problem at once", func(t *testing.T) {
		err := ValidateOptions(domain.SearchOptions{Page: "x", Limit: 0, Currency: "EUR", Platforms: []string{"ebay"}})
		var pse *domain.ProductServiceError
		if !errors.As(err, &pse) {
			t.Fatalf("expected ProductServiceError, got %v", err)
		}
		problems, ok := pse.Details.([]string)
		if !ok || len(problems) != 4 {
			t.Errorf("Details = %v, want 4 problems", pse.Details)
		}
		if pse.StatusCode != 400 {
			t.Errorf("StatusCode = %d, want 400", pse.StatusCode)
		}
	})
}
