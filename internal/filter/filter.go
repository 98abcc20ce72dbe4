// Package filter evaluates marketplace listings against acceptance criteria
// and selects the cheapest acceptable listing per release.
package filter

import (
	"github.com/wfarner/vinylalert/internal/condition"
	"github.com/wfarner/vinylalert/internal/currency"
	"github.com/wfarner/vinylalert/internal/model"
)

// Filter applies one cycle's criteria and rate table to listings. It holds
// no mutable state; evaluation is a pure function of its inputs.
type Filter struct {
	criteria Criteria
	rates    currency.RateTable
}

func New(criteria Criteria, rates currency.RateTable) *Filter {
	return &Filter{criteria: criteria, rates: rates}
}

// Evaluate runs the acceptance predicate chain for one listing against one
// wantlist entry. On acceptance it returns the listing re-priced in the base
// currency, ready for ranking. The chain short-circuits on the first failing
// predicate; currency conversion runs last because it is the only step that
// costs more than a map lookup.
//
// A returned error means the listing carried data the fixed tables don't
// know (grade or currency); the caller skips that listing only.
func (f *Filter) Evaluate(listing model.Listing, want model.Want) (model.Listing, bool, error) {
	if !f.available(listing) {
		return model.Listing{}, false, nil
	}

	if !f.sellerAcceptable(listing, want) {
		return model.Listing{}, false, nil
	}

	ok, err := f.mediaAcceptable(listing, want)
	if err != nil || !ok {
		return model.Listing{}, false, err
	}

	ok, err = f.sleeveAcceptable(listing, want)
	if err != nil || !ok {
		return model.Listing{}, false, err
	}

	normalized, ok, err := f.priceAcceptable(listing, want)
	if err != nil || !ok {
		return model.Listing{}, false, err
	}

	return normalized, true, nil
}

// available rejects listings the marketplace excludes from the buyer's
// country. The availability note is an exact literal on the listing row.
func (f *Filter) available(listing model.Listing) bool {
	return listing.Availability != "Unavailable in "+f.criteria.Country
}

func (f *Filter) sellerAcceptable(listing model.Listing, want model.Want) bool {
	// A nil average rating means a new seller with no history; the rating
	// floor deliberately does not penalize them.
	if listing.SellerAvgRating != nil {
		if min := resolveOpt(want.MinSellerRating, f.criteria.MinSellerRating); min != nil && *listing.SellerAvgRating < *min {
			return false
		}
	}

	// The sales-count floor has no such exemption: a seller must clear
	// the volume bar whether or not they have an average rating yet.
	if min := resolveOpt(want.MinSellerSales, f.criteria.MinSellerSales); min != nil && listing.SellerNumRatings < *min {
		return false
	}

	return true
}

func (f *Filter) mediaAcceptable(listing model.Listing, want model.Want) (bool, error) {
	minRank, err := condition.Rank(resolve(want.MinMediaCondition, f.criteria.MinMediaCondition))
	if err != nil {
		return false, err
	}
	rank, err := condition.Rank(listing.MediaCondition)
	if err != nil {
		return false, err
	}
	return rank >= minRank, nil
}

func (f *Filter) sleeveAcceptable(listing model.Listing, want model.Want) (bool, error) {
	sleeve := listing.SleeveCondition

	goodGeneric := resolve(want.AcceptGenericSleeve, f.criteria.AcceptGenericSleeve) &&
		sleeve == condition.SleeveGeneric
	goodNoSleeve := resolve(want.AcceptNoSleeve, f.criteria.AcceptNoSleeve) &&
		(sleeve == condition.SleeveNoCover || sleeve == "")
	goodUngraded := resolve(want.AcceptUngradedSleeve, f.criteria.AcceptUngradedSleeve) &&
		sleeve == condition.SleeveNotGraded

	// Any of the category flags passes the sleeve outright; the ordinal
	// minimum only applies when none of them fired.
	if goodGeneric || goodNoSleeve || goodUngraded {
		return true, nil
	}

	// An ungradeable sleeve whose category wasn't accepted above can't
	// clear an ordinal minimum.
	if !condition.Graded(sleeve) {
		return false, nil
	}

	minRank, err := condition.Rank(resolve(want.MinSleeveCondition, f.criteria.MinSleeveCondition))
	if err != nil {
		return false, err
	}
	rank, err := condition.Rank(sleeve)
	if err != nil {
		return false, err
	}
	return rank >= minRank, nil
}

func (f *Filter) priceAcceptable(listing model.Listing, want model.Want) (model.Listing, bool, error) {
	normalized, err := currency.NormalizePrice(listing.Price, f.rates)
	if err != nil {
		return model.Listing{}, false, err
	}

	listing.Price = normalized
	if want.PriceThreshold != nil && normalized.Total().GreaterThan(*want.PriceThreshold) {
		return model.Listing{}, false, nil
	}

	return listing, true, nil
}
