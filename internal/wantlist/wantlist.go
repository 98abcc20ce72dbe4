// Package wantlist loads the releases to watch, either from a local JSON
// file or from a user-curated Discogs list.
package wantlist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/wfarner/vinylalert/internal/condition"
	"github.com/wfarner/vinylalert/internal/discogs"
	"github.com/wfarner/vinylalert/internal/model"
)

// Source yields the wantlist entries to watch this cycle.
type Source interface {
	Wants(ctx context.Context) ([]model.Want, error)
}

// File loads wantlist entries from a local JSON file. Per-release override
// fields are optional; absent fields fall back to the global criteria.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

type fileEntry struct {
	ID          int    `json:"id"`
	ReleaseName string `json:"release_name"`
	ArtistName  string `json:"artist_name"`

	MinMediaCondition    *string          `json:"min_media_condition"`
	MinSleeveCondition   *string          `json:"min_sleeve_condition"`
	AcceptGenericSleeve  *bool            `json:"accept_generic_sleeve"`
	AcceptNoSleeve       *bool            `json:"accept_no_sleeve"`
	AcceptUngradedSleeve *bool            `json:"accept_ungraded_sleeve"`
	MinSellerRating      *float64         `json:"min_seller_rating"`
	MinSellerSales       *int             `json:"min_seller_sales"`
	PriceThreshold       *decimal.Decimal `json:"price_threshold"`
}

func (f *File) Wants(_ context.Context) ([]model.Want, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read wantlist: %w", err)
	}

	var entries []fileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse wantlist: %w", err)
	}

	wants := make([]model.Want, 0, len(entries))
	for _, e := range entries {
		if e.ID == 0 {
			return nil, fmt.Errorf("wantlist entry %q has no release id", e.ReleaseName)
		}
		// Catch stale grade codes at load time, not per listing.
		for _, grade := range []*string{e.MinMediaCondition, e.MinSleeveCondition} {
			if grade == nil {
				continue
			}
			if _, err := condition.Rank(*grade); err != nil {
				return nil, fmt.Errorf("wantlist entry %d: %w", e.ID, err)
			}
		}

		name := e.ReleaseName
		if e.ArtistName != "" {
			name = e.ReleaseName + " - " + e.ArtistName
		}

		wants = append(wants, model.Want{
			ReleaseID:            e.ID,
			DisplayName:          name,
			MinMediaCondition:    e.MinMediaCondition,
			MinSleeveCondition:   e.MinSleeveCondition,
			AcceptGenericSleeve:  e.AcceptGenericSleeve,
			AcceptNoSleeve:       e.AcceptNoSleeve,
			AcceptUngradedSleeve: e.AcceptUngradedSleeve,
			MinSellerRating:      e.MinSellerRating,
			MinSellerSales:       e.MinSellerSales,
			PriceThreshold:       e.PriceThreshold,
		})
	}

	return wants, nil
}

// List serves the wantlist from a Discogs list via the API client.
type List struct {
	client *discogs.Client
	listID int
}

func NewList(client *discogs.Client, listID int) *List {
	return &List{client: client, listID: listID}
}

func (l *List) Wants(ctx context.Context) ([]model.Want, error) {
	return l.client.List(ctx, l.listID)
}
