// Package watch drives one polling pass over the wantlist: fetch stats and
// listings, filter, pick the cheapest acceptable listing, notify.
package watch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wfarner/vinylalert/internal/condition"
	"github.com/wfarner/vinylalert/internal/currency"
	"github.com/wfarner/vinylalert/internal/discogs"
	"github.com/wfarner/vinylalert/internal/filter"
	"github.com/wfarner/vinylalert/internal/model"
	"github.com/wfarner/vinylalert/internal/notify"
	"github.com/wfarner/vinylalert/internal/wantlist"
)

type Config struct {
	// Currency is the base currency all prices are normalized into.
	Currency string
	Criteria filter.Criteria
}

// Watcher runs watch cycles. It holds no state between cycles; every pass
// starts from a fresh wantlist and rate table.
type Watcher struct {
	cfg      Config
	source   discogs.Source
	rates    currency.RateSource
	wantlist wantlist.Source
	notifier notify.Notifier
	log      *zap.SugaredLogger
}

func New(cfg Config, source discogs.Source, rates currency.RateSource, wl wantlist.Source, notifier notify.Notifier, log *zap.SugaredLogger) *Watcher {
	return &Watcher{
		cfg:      cfg,
		source:   source,
		rates:    rates,
		wantlist: wl,
		notifier: notifier,
		log:      log,
	}
}

// RunCycle processes every wantlist entry once. A connectivity failure
// aborts the rest of the cycle; notifications already sent stand, and the
// next scheduled cycle starts clean. Any other per-release fault skips just
// that release.
func (w *Watcher) RunCycle(ctx context.Context) error {
	start := time.Now()

	wants, err := w.wantlist.Wants(ctx)
	if err != nil {
		return fmt.Errorf("loading wantlist: %w", err)
	}

	rates, err := w.rates.Rates(ctx, w.cfg.Currency)
	if err != nil {
		return fmt.Errorf("fetching rates: %w", err)
	}

	f := filter.New(w.cfg.Criteria, rates)

	for _, want := range wants {
		if err := w.watchOne(ctx, f, want); err != nil {
			if model.IsConnectivity(err) {
				return fmt.Errorf("release %d: %w", want.ReleaseID, err)
			}
			w.log.Warnw("skipping release", "release", want.ReleaseID, "error", err)
		}
	}

	w.log.Infow("cycle complete", "releases", len(wants), "duration", time.Since(start))
	return nil
}

func (w *Watcher) watchOne(ctx context.Context, f *filter.Filter, want model.Want) error {
	stats, err := w.source.ReleaseStats(ctx, want.ReleaseID)
	if err != nil {
		return err
	}
	if stats.BlockedFromSale || stats.NumForSale == 0 {
		w.log.Debugw("nothing for sale", "release", want.ReleaseID, "blocked", stats.BlockedFromSale)
		return nil
	}

	listings, err := w.source.Listings(ctx, want.ReleaseID)
	if err != nil {
		return err
	}

	var accepted []model.Listing
	for _, listing := range listings {
		normalized, ok, err := f.Evaluate(listing, want)
		if err != nil {
			var condErr *condition.UnknownConditionError
			if errors.As(err, &condErr) {
				// The fixed grade table no longer matches what the
				// marketplace serves. Worth more than a debug line.
				w.log.Warnw("grade table out of sync", "listing", listing.ID, "error", err)
			} else {
				w.log.Debugw("skipping listing", "listing", listing.ID, "error", err)
			}
			continue
		}
		if ok {
			accepted = append(accepted, normalized)
		}
	}

	best, ok := filter.SelectBest(accepted)
	if !ok {
		return nil
	}

	title := "Now For Sale: " + want.DisplayName
	body := "Listing available: " + best.URL()
	if err := w.notifier.Send(ctx, title, body); err != nil {
		// Best effort; a lost push must not fail the cycle.
		w.log.Errorw("notification failed", "release", want.ReleaseID, "error", err)
		return nil
	}

	w.log.Infow("notified", "release", want.ReleaseID, "listing", best.ID,
		"total", best.Price.Total().StringFixed(2), "currency", best.Price.Currency)
	return nil
}
