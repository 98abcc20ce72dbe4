package model

import (
	"github.com/shopspring/decimal"
)

// Money is an amount in a single currency. Amounts are decimals, not binary
// floats, so repeated currency conversions don't accumulate rounding drift.
type Money struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

// Price is a listing's asking price plus an optional shipping component.
// Shipping is nil when the seller doesn't quote it on the listing row.
type Price struct {
	Money
	Shipping *Money `json:"shipping,omitempty"`
}

// Total returns price plus shipping, shipping counted as zero when absent.
// Only meaningful once both components are in the same currency.
func (p Price) Total() decimal.Decimal {
	if p.Shipping == nil {
		return p.Value
	}
	return p.Value.Add(p.Shipping.Value)
}

// Listing is one seller's offer of a release on the marketplace.
type Listing struct {
	ID string

	// Availability is the raw availability note from the listing row,
	// e.g. "Unavailable in DE". Empty when the listing has no such note.
	Availability string

	// MediaCondition holds the grade of the record itself, either as a
	// short code ("VG+") or the long display form the site renders.
	MediaCondition string

	// SleeveCondition holds the sleeve grade, one of the ungradeable
	// categories ("Generic", "No Cover", "Not Graded"), or "" when the
	// listing shows no sleeve at all.
	SleeveCondition string

	Comment string

	// SellerAvgRating is nil for sellers with no rating history yet.
	SellerAvgRating  *float64
	SellerNumRatings int
	ShipsFrom        string

	Price Price
}

// URL returns the direct link to the listing.
func (l Listing) URL() string {
	return "https://www.discogs.com/sell/item/" + l.ID
}

// Want is one wantlist entry. All criteria fields are optional per-release
// overrides; nil falls back to the global default for that criterion.
type Want struct {
	ReleaseID   int
	DisplayName string

	MinMediaCondition    *string
	MinSleeveCondition   *string
	AcceptGenericSleeve  *bool
	AcceptNoSleeve       *bool
	AcceptUngradedSleeve *bool
	MinSellerRating      *float64
	MinSellerSales       *int

	// PriceThreshold is a ceiling on price plus shipping, in the base
	// currency. nil means unbounded.
	PriceThreshold *decimal.Decimal
}

// ReleaseStats summarizes marketplace availability for one release.
type ReleaseStats struct {
	NumForSale      int  `json:"num_for_sale"`
	BlockedFromSale bool `json:"blocked_from_sale"`
}
