package domain

import (
	"encoding/json"
	"regexp"
	"strconv"
)

var (
	nonPriceCharsRegex = regexp.MustCompile(`[^0-9.]`)
	leadingNumberRegex = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)`)
)

// Price is a canonical (amount, currency) pair
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// NormalizePrice converts a numeric or currency-decorated price into a Price.
// Numbers pass through unchanged. Strings keep only digits and dots and are
// parsed up to the first character that cannot extend the number. Anything
// unparseable yields amount 0, which callers treat as "no usable price".
func NormalizePrice(value interface{}, currency string) Price {
	switch v := value.(type) {
	case float64:
		return Price{Amount: v, Currency: currency}
	case float32:
		return Price{Amount: float64(v), Currency: currency}
	case int:
		return Price{Amount: float64(v), Currency: currency}
	case int8:
		return Price{Amount: float64(v), Currency: currency}
	case int16:
		return Price{Amount: float64(v), Currency: currency}
	case int32:
		return Price{Amount: float64(v), Currency: currency}
	case int64:
		return Price{Amount: float64(v), Currency: currency}
	case uint:
		return Price{Amount: float64(v), Currency: currency}
	case uint8:
		return Price{Amount: float64(v), Currency: currency}
	case uint16:
		return Price{Amount: float64(v), Currency: currency}
	case uint32:
		return Price{Amount: float64(v), Currency: currency}
	case uint64:
		return Price{Amount: float64(v), Currency: currency}
	case json.Number:
		amount, err := v.Float64()
		if err != nil {
			return Price{Amount: 0, Currency: currency}
		}
		return Price{Amount: amount, Currency: currency}
	case string:
		return Price{Amount: parsePriceString(v), Currency: currency}
	default:
		return Price{Amount: 0, Currency: currency}
	}
}

func parsePriceString(s string) float64 {
	cleaned := nonPriceCharsRegex.ReplaceAllString(s, "")
	match := leadingNumberRegex.FindString(cleaned)
	if match == "" {
		return 0
	}
	amount, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return amount
}
