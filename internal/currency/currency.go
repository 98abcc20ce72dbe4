// Package currency normalizes marketplace prices into a single base
// currency so thresholds and rankings compare like with like.
package currency

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wfarner/vinylalert/internal/model"
)

// RateTable quotes, for each currency, how many units of that currency equal
// one unit of Base. Fetched fresh per watch cycle and read-only after that.
type RateTable struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// Currency symbols as they appear in scraped price strings.
var symbols = map[string]string{
	"€":   "EUR",
	"£":   "GBP",
	"$":   "USD",
	"¥":   "JPY",
	"A$":  "AUD",
	"CA$": "CAD",
	"MX$": "MXN",
	"NZ$": "NZD",
	"B$":  "BRL",
	"CHF": "CHF",
	"SEK": "SEK",
	"ZAR": "ZAR",
}

// symbolsByLength caches symbols longest-first so "CA$" wins over "$".
var symbolsByLength []string

var supported = map[string]bool{
	"AUD": true, "BGN": true, "BRL": true, "CAD": true, "CHF": true,
	"CNY": true, "CZK": true, "DKK": true, "EUR": true, "GBP": true,
	"HKD": true, "HRK": true, "HUF": true, "IDR": true, "ILS": true,
	"INR": true, "ISK": true, "JPY": true, "KRW": true, "MXN": true,
	"MYR": true, "NOK": true, "NZD": true, "PHP": true, "PLN": true,
	"RON": true, "RUB": true, "SEK": true, "SGD": true, "THB": true,
	"TRY": true, "USD": true, "ZAR": true,
}

func init() {
	for sym := range symbols {
		symbolsByLength = append(symbolsByLength, sym)
	}
	sort.Slice(symbolsByLength, func(i, j int) bool {
		return len(symbolsByLength[i]) > len(symbolsByLength[j])
	})
}

// UnknownCurrencyError reports a currency code or symbol with no known rate.
// The affected listing is skipped rather than priced on a guess.
type UnknownCurrencyError struct {
	Currency string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("unknown currency %q", e.Currency)
}

// Supported reports whether code is a known 3-letter currency code.
func Supported(code string) bool {
	return supported[code]
}

// ParseMoney parses a scraped price string such as "€20.00", "CA$1,234.56"
// or "CHF 12.50" into a Money value with a 3-letter currency code.
func ParseMoney(s string) (model.Money, error) {
	s = strings.TrimSpace(s)

	for _, sym := range symbolsByLength {
		if !strings.HasPrefix(s, sym) {
			continue
		}
		raw := strings.TrimSpace(strings.TrimPrefix(s, sym))
		raw = strings.ReplaceAll(raw, ",", "")
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return model.Money{}, fmt.Errorf("parse price %q: %w", s, err)
		}
		return model.Money{Value: value, Currency: symbols[sym]}, nil
	}

	return model.Money{}, &UnknownCurrencyError{Currency: s}
}

// Convert returns m expressed in the table's base currency. Conversion is a
// no-op when m is already in the base. The table quotes units of source
// currency per one unit of base, so conversion divides by the quote;
// multiplying would invert every price comparison.
func Convert(m model.Money, rates RateTable) (model.Money, error) {
	if m.Currency == rates.Base {
		return m, nil
	}

	rate, ok := rates.Rates[m.Currency]
	if !ok || rate.IsZero() {
		return model.Money{}, &UnknownCurrencyError{Currency: m.Currency}
	}

	return model.Money{Value: m.Value.Div(rate), Currency: rates.Base}, nil
}

// NormalizePrice converts a listing price and, when present, its shipping
// component into the base currency. Absent shipping is not an error.
func NormalizePrice(p model.Price, rates RateTable) (model.Price, error) {
	converted, err := Convert(p.Money, rates)
	if err != nil {
		return model.Price{}, err
	}

	out := model.Price{Money: converted}
	if p.Shipping != nil {
		shipping, err := Convert(*p.Shipping, rates)
		if err != nil {
			return model.Price{}, err
		}
		out.Shipping = &shipping
	}
	return out, nil
}
