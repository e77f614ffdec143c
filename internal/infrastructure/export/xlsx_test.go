package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ecocompare/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	excelize "github.com/xuri/excelize/v2"
)

func strPtr(s string) *string { return &s }

func sampleResult() *domain.AggregationResult {
	return &domain.AggregationResult{
		Success: true,
		Count:   2,
		Products: []domain.UnifiedProduct{
			{
				ID:              "a1-f1",
				Name:            "EcoBottle Steel 1L",
				Brand:           "EcoBottle",
				IsCommon:        true,
				SimilarityScore: 77.5,
				EcoScore:        8,
				Badges:          domain.Badges{ClimatePledge: true},
				Prices: domain.ByPlatform[domain.PlatformPrice]{
					Amazon:   &domain.PlatformPrice{Current: 1000, Currency: "INR"},
					Flipkart: &domain.PlatformPrice{Current: 950, Currency: "INR"},
				},
				URLs: domain.ByPlatform[string]{
					Amazon:   strPtr("https://www.amazon.in/dp/a1"),
					Flipkart: strPtr("https://www.flipkart.com/p/f1"),
				},
			},
			{
				ID:       "f2",
				Name:     "Bamboo Toothbrush",
				EcoScore: 5,
				Prices: domain.ByPlatform[domain.PlatformPrice]{
					Flipkart: &domain.PlatformPrice{Current: 199, Currency: "INR"},
				},
				URLs: domain.ByPlatform[string]{Flipkart: strPtr("https://www.flipkart.com/p/f2")},
			},
		},
		Metadata: domain.ResponseMetadata{
			Query:     "eco bottle",
			Page:      1,
			Currency:  "INR",
			Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			Stats:     domain.Stats{Total: 2, Common: 1, FlipkartOnly: 1, WithClimatePledge: 1},
		},
	}
}

func TestWriteProducts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteProducts(&buf, sampleResult()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{productsSheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(productsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Flipkart URL", rows[0][len(productHeader)-1])

	matched := rows[1]
	assert.Equal(t, "a1-f1", matched[0])
	assert.Equal(t, "EcoBottle Steel 1L", matched[1])
	assert.Equal(t, "TRUE", matched[3])
	assert.Equal(t, "77.5", matched[4])
	assert.Equal(t, "8", matched[5])
	assert.Equal(t, "1000", matched[7])
	assert.Contains(t, matched[10], "950")
	assert.Equal(t, "950", matched[9])
	assert.Equal(t, "https://www.amazon.in/dp/a1", matched[11])

	single := rows[2]
	assert.Equal(t, "f2", single[0])
	assert.Equal(t, "FALSE", single[3])
	assert.Equal(t, "", single[7])
	assert.Equal(t, "199", single[9])
	assert.Equal(t, "https://www.flipkart.com/p/f2", single[12])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Query", "eco bottle"}, summary[0])
	assert.Equal(t, []string{"Generated At", "2024-05-01T10:00:00Z"}, summary[3])
	assert.Equal(t, []string{"Common", "1"}, summary[5])
}

func TestWriteProducts_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteProducts(&buf, &domain.AggregationResult{Success: true}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(productsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFormatPrice(t *testing.T) {
	assert.Empty(t, formatPrice(nil))

	usd := formatPrice(&domain.PlatformPrice{Current: 24.99, Currency: "USD"})
	assert.Contains(t, usd, "24.99")
	assert.True(t, strings.Contains(usd, "$"), "expected dollar symbol in %q", usd)

	unknown := formatPrice(&domain.PlatformPrice{Current: 3, Currency: "???"})
	assert.Equal(t, "3.00 ???", unknown)
}
