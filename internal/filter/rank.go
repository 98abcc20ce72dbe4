package filter

import (
	"github.com/wfarner/vinylalert/internal/model"
)

// SelectBest returns the listing with the lowest total price among the
// accepted listings for one release. Listings must already be normalized to
// one currency; ranking never compares across heterogeneous currencies.
// Ties keep the earlier listing, preserving scrape order.
func SelectBest(listings []model.Listing) (model.Listing, bool) {
	if len(listings) == 0 {
		return model.Listing{}, false
	}

	best := listings[0]
	bestTotal := best.Price.Total()
	for _, l := range listings[1:] {
		if total := l.Price.Total(); total.LessThan(bestTotal) {
			best = l
			bestTotal = total
		}
	}
	return best, true
}
