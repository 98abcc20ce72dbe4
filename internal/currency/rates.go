package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/wfarner/vinylalert/internal/cache"
	"github.com/wfarner/vinylalert/internal/model"
)

const (
	ratesBaseURL = "https://api.exchangerate.host"
	ratesTTL     = 1 * time.Hour
)

// RateSource fetches a rate table for a base currency.
type RateSource interface {
	Rates(ctx context.Context, base string) (RateTable, error)
}

// ExchangeRateHost fetches live rate tables from exchangerate.host. Tables
// are cached for an hour; rates don't move faster than the wantlist does.
type ExchangeRateHost struct {
	client  *resty.Client
	cache   *cache.Cache
	baseURL string
}

// NewExchangeRateHost creates a rate source. The cache may be nil, in which
// case every cycle fetches a fresh table.
func NewExchangeRateHost(c *cache.Cache) *ExchangeRateHost {
	return &ExchangeRateHost{
		client:  resty.New().SetTimeout(15 * time.Second),
		cache:   c,
		baseURL: ratesBaseURL,
	}
}

// Rates returns the rate table for base, from cache when fresh. The table
// always quotes the base currency itself at 1 so self-conversion is exact.
func (s *ExchangeRateHost) Rates(ctx context.Context, base string) (RateTable, error) {
	if s.cache != nil {
		var table RateTable
		if found, _ := s.cache.Get(cache.RatesKey(base), &table); found {
			return table, nil
		}
	}

	req := s.client.R().SetContext(ctx)
	resp, err := req.Get(fmt.Sprintf("%s/latest?base=%s", s.baseURL, base))
	if err != nil {
		return RateTable{}, &model.ConnectivityError{Op: "fetch currency rates", Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return RateTable{}, fmt.Errorf("rate source returned status %d", resp.StatusCode())
	}

	var body struct {
		Base  string             `json:"base"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return RateTable{}, fmt.Errorf("decoding rate table: %w", err)
	}
	if len(body.Rates) == 0 {
		return RateTable{}, fmt.Errorf("rate source returned no rates for %s", base)
	}

	table := RateTable{Base: base, Rates: make(map[string]decimal.Decimal, len(body.Rates))}
	for code, rate := range body.Rates {
		table.Rates[code] = decimal.NewFromFloat(rate)
	}
	table.Rates[base] = decimal.NewFromInt(1)

	if s.cache != nil {
		_ = s.cache.Put(cache.RatesKey(base), table, ratesTTL)
	}

	return table, nil
}
