// Package discogs is the marketplace source: release stats through the REST
// API and listings scraped from the public sell pages.
package discogs

import (
	"context"

	"github.com/wfarner/vinylalert/internal/model"
)

// Source provides marketplace data for a release.
type Source interface {
	// ReleaseStats reports how many copies are for sale and whether the
	// release is blocked from sale entirely.
	ReleaseStats(ctx context.Context, releaseID int) (model.ReleaseStats, error)

	// Listings returns the current marketplace listings for a release,
	// in the sell page's ascending raw-price order.
	Listings(ctx context.Context, releaseID int) ([]model.Listing, error)
}

// Marketplace combines the REST client (stats, lists) and the sell-page
// scraper (listings) into one Source.
type Marketplace struct {
	*Client
	*Scraper
}

func NewMarketplace(client *Client, scraper *Scraper) *Marketplace {
	return &Marketplace{Client: client, Scraper: scraper}
}
