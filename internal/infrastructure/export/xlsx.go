package export

import (
	"fmt"
	"io"
	"time"

	"github.com/ecocompare/backend/internal/domain"
	excelize "github.com/xuri/excelize/v2"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ContentType is the media type of the workbook written by WriteProducts
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	productsSheet = "Products"
	summarySheet  = "Summary"
)

var productHeader = []interface{}{
	"ID", "Name", "Brand", "Matched", "Similarity", "Eco Score", "Climate Pledge",
	"Amazon Price", "Amazon Display", "Flipkart Price", "Flipkart Display",
	"Amazon URL", "Flipkart URL",
}

// WriteProducts renders an aggregation result as an XLSX workbook with a
// product sheet and a summary sheet.
func WriteProducts(w io.Writer, result *domain.AggregationResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", productsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeProductRows(f, result.Products); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	if err := writeSummary(f, result.Metadata); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeProductRows(f *excelize.File, products []domain.UnifiedProduct) error {
	if err := f.SetSheetRow(productsSheet, "A1", &productHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(productHeader))
	if err := f.SetCellStyle(productsSheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, p := range products {
		row := []interface{}{
			p.ID, p.Name, p.Brand, p.IsCommon, p.SimilarityScore, p.EcoScore, p.Badges.ClimatePledge,
			priceValue(p.Prices.Amazon), formatPrice(p.Prices.Amazon),
			priceValue(p.Prices.Flipkart), formatPrice(p.Prices.Flipkart),
			stringValue(p.URLs.Amazon), stringValue(p.URLs.Flipkart),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(productsSheet, cell, &row); err != nil {
			return fmt.Errorf("write product %s: %w", p.ID, err)
		}
	}
	return nil
}

func writeSummary(f *excelize.File, meta domain.ResponseMetadata) error {
	rows := [][]interface{}{
		{"Query", meta.Query},
		{"Currency", meta.Currency},
		{"Page", meta.Page},
		{"Generated At", meta.Timestamp.Format(time.RFC3339)},
		{"Total", meta.Stats.Total},
		{"Common", meta.Stats.Common},
		{"Amazon Only", meta.Stats.AmazonOnly},
		{"Flipkart Only", meta.Stats.FlipkartOnly},
		{"With Climate Pledge", meta.Stats.WithClimatePledge},
		{"Min Price", meta.Filters.Available.PriceRange.Min},
		{"Max Price", meta.Filters.Available.PriceRange.Max},
		{"Average Price", meta.Filters.Available.PriceRange.Average},
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return nil
}

func priceValue(price *domain.PlatformPrice) interface{} {
	if price == nil {
		return nil
	}
	return price.Current
}

// formatPrice renders a price with its currency symbol, e.g. "$ 24.99"
func formatPrice(price *domain.PlatformPrice) string {
	if price == nil {
		return ""
	}
	unit, err := currency.ParseISO(price.Currency)
	if err != nil {
		return fmt.Sprintf("%.2f %s", price.Current, price.Currency)
	}
	p := message.NewPrinter(displayLanguage(unit))
	return p.Sprint(currency.Symbol(unit.Amount(price.Current)))
}

func displayLanguage(unit currency.Unit) language.Tag {
	if unit == currency.INR {
		return language.MustParse("en-IN")
	}
	return language.AmericanEnglish
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
