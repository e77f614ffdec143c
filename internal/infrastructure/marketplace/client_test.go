package marketplace

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ecocompare/backend/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) ClientConfig {
	return ClientConfig{
		APIKey:    "test-api-key",
		BaseURL:   baseURL,
		RateLimit: 100,
		Logger:    zerolog.Nop(),
	}
}

const amazonFixture = `{
  "status": "OK",
  "data": {
    "total_products": 2,
    "products": [
      {
        "asin": "B0BOTTLE1",
        "product_title": "EcoBottle Steel 1L",
        "product_price": "₹1,000.00",
        "product_original_price": "₹1,299",
        "currency": "INR",
        "product_photo": "https://m.media-amazon.com/bottle.jpg",
        "images": ["https://m.media-amazon.com/bottle-2.jpg"],
        "product_star_rating": "4.4",
        "product_num_ratings": 1532,
        "is_best_seller": true,
        "is_amazon_choice": false,
        "climate_pledge_friendly": true
      },
      {
        "asin": "B0BOTTLE2",
        "product_title": "EcoBottle Glass",
        "product_price": null
      }
    ]
  }
}`

func TestNewAmazonClient(t *testing.T) {
	client := NewAmazonClient(ClientConfig{APIKey: "key"})

	assert.NotNil(t, client)
	assert.Equal(t, DefaultAmazonBaseURL, client.baseURL)
	assert.Equal(t, "real-time-amazon-data.p.rapidapi.com", client.host)
	assert.Equal(t, domain.PlatformAmazon, client.Platform())
	assert.NotNil(t, client.rateLimiter)
	assert.NotNil(t, client.httpClient)
}

func TestAmazonSearch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "eco bottle", r.URL.Query().Get("query"))
		assert.Equal(t, "IN", r.URL.Query().Get("country"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "test-api-key", r.Header.Get("X-RapidAPI-Key"))
		assert.NotEmpty(t, r.Header.Get("X-RapidAPI-Host"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(amazonFixture))
	}))
	defer server.Close()

	client := NewAmazonClient(testConfig(server.URL))
	listings, err := client.Search(context.Background(), "eco bottle", "2", "INR")

	require.NoError(t, err)
	require.Len(t, listings, 2)

	first := listings[0]
	assert.Equal(t, "B0BOTTLE1", first.ID)
	assert.Equal(t, domain.PlatformAmazon, first.Platform)
	assert.Equal(t, "EcoBottle Steel 1L", first.Name)
	assert.Equal(t, 1000.0, first.Pricing.Amount)
	assert.Equal(t, 1299.0, first.Pricing.Original)
	assert.Equal(t, 299.0, first.Pricing.Savings)
	assert.Equal(t, "INR", first.Pricing.Currency)
	assert.Equal(t, "https://www.amazon.in/dp/B0BOTTLE1", first.URL)
	assert.Equal(t, 4.4, first.Rating.Average)
	assert.Equal(t, 1532, first.Rating.Count)
	assert.True(t, first.Badges.BestSeller)
	assert.True(t, first.Badges.ClimatePledge)

	second := listings[1]
	assert.Zero(t, second.Pricing.Amount)
	assert.Equal(t, "USD", second.Pricing.Currency)
	assert.NotNil(t, second.Images.Gallery)
}

func TestAmazonSearch_CountryFollowsCurrency(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "US", r.URL.Query().Get("country"))
		w.Write([]byte(`{"data":{"products":[]}}`))
	}))
	defer server.Close()

	client := NewAmazonClient(testConfig(server.URL))
	listings, err := client.Search(context.Background(), "kettle", "1", "USD")

	require.NoError(t, err)
	assert.Empty(t, listings)
	assert.NotNil(t, listings)
}

func TestSearch_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
		wantDetail interface{}
	}{
		{
			name:       "rate limited upstream keeps status and json details",
			status:     http.StatusTooManyRequests,
			body:       `{"message":"quota exceeded"}`,
			wantStatus: http.StatusTooManyRequests,
			wantMsg:    "Amazon API error: 429",
			wantDetail: map[string]interface{}{"message": "quota exceeded"},
		},
		{
			name:       "server error keeps text details",
			status:     http.StatusInternalServerError,
			body:       "upstream exploded",
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Amazon API error: 500",
			wantDetail: "upstream exploded",
		},
		{
			name:       "malformed json",
			status:     http.StatusOK,
			body:       `{"data": [`,
			wantStatus: http.StatusBadGateway,
			wantMsg:    "Amazon API error: failed to decode response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewAmazonClient(testConfig(server.URL))
			listings, err := client.Search(context.Background(), "kettle", "1", "INR")

			require.Error(t, err)
			assert.Nil(t, listings)
			assert.True(t, errors.Is(err, domain.ErrPlatformFetch))

			var pse *domain.ProductServiceError
			require.True(t, errors.As(err, &pse))
			assert.Equal(t, domain.PlatformAmazon, pse.Source)
			assert.Equal(t, tt.wantStatus, pse.StatusCode)
			assert.Contains(t, pse.Message, tt.wantMsg)
			if tt.wantDetail != nil {
				assert.Equal(t, tt.wantDetail, pse.Details)
			}
		})
	}
}

func TestSearch_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewFlipkartClient(testConfig(server.URL))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Search(ctx, "kettle", "1", "INR")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPlatformTimeout))

	var pse *domain.ProductServiceError
	require.True(t, errors.As(err, &pse))
	assert.Equal(t, http.StatusGatewayTimeout, pse.StatusCode)
	assert.Equal(t, domain.PlatformFlipkart, pse.Source)
	assert.Contains(t, pse.Message, "Flipkart API error")
}

func TestSearch_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := NewFlipkartClient(testConfig(baseURL))
	_, err := client.Search(context.Background(), "kettle", "1", "INR")

	var pse *domain.ProductServiceError
	require.True(t, errors.As(err, &pse))
	assert.Equal(t, http.StatusBadGateway, pse.StatusCode)
	assert.False(t, errors.Is(err, domain.ErrPlatformTimeout))
}

func TestFlipkartSearch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/product-search", r.URL.Path)
		assert.Equal(t, "steel bottle", r.URL.Query().Get("q"))
		assert.Equal(t, "popularity", r.URL.Query().Get("sort_by"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "test-api-key", r.Header.Get("X-RapidAPI-Key"))

		w.Write([]byte(`{
		  "products": [
		    {"pid": "BTLG7", "title": "EcoBottle Steel 1 Litre", "brand": "EcoBottle", "subTitle": "1 L, Silver",
		     "price": 950, "mrp": 1199, "url": "https://www.flipkart.com/ecobottle/p/BTLG7",
		     "images": ["https://rukminim.flixcart.com/a.jpg", "https://rukminim.flixcart.com/b.jpg"],
		     "rating": {"average": 4.1, "count": 87}}
		  ]
		}`))
	}))
	defer server.Close()

	client := NewFlipkartClient(testConfig(server.URL))
	listings, err := client.Search(context.Background(), "steel bottle", "1", "USD")

	require.NoError(t, err)
	require.Len(t, listings, 1)

	l := listings[0]
	assert.Equal(t, "BTLG7", l.ID)
	assert.Equal(t, domain.PlatformFlipkart, l.Platform)
	assert.Equal(t, "EcoBottle", l.Brand)
	assert.Equal(t, "1 L, Silver", l.Description)
	assert.Equal(t, 950.0, l.Pricing.Amount)
	assert.Equal(t, 249.0, l.Pricing.Savings)
	assert.Equal(t, "INR", l.Pricing.Currency)
	assert.Equal(t, "https://rukminim.flixcart.com/a.jpg", l.Images.Primary)
	assert.Len(t, l.Images.Gallery, 2)
	assert.Equal(t, 4.1, l.Rating.Average)
	assert.Equal(t, 87, l.Rating.Count)
	assert.Equal(t, domain.Badges{}, l.Badges)
}
