package filter

// Criteria are the global acceptance defaults. Every field can be overridden
// per wantlist entry; resolution is nil-falls-back-to-global.
type Criteria struct {
	// Country is the buyer's market code, e.g. "DE". Listings marked
	// "Unavailable in <Country>" are never eligible.
	Country string

	// MinSellerRating is a floor on the seller's average rating. Sellers
	// with no rating history yet are exempt. nil disables the check.
	MinSellerRating *float64

	// MinSellerSales is a floor on the seller's rating count. Applies to
	// every seller, rated or not. nil disables the check.
	MinSellerSales *int

	// Minimum acceptable grades, as short codes.
	MinMediaCondition  string
	MinSleeveCondition string

	AcceptGenericSleeve  bool
	AcceptNoSleeve       bool
	AcceptUngradedSleeve bool
}

// resolve picks the per-release override when set, the global value
// otherwise. One helper instead of a conditional repeated per field.
func resolve[T any](override *T, global T) T {
	if override != nil {
		return *override
	}
	return global
}

// resolveOpt is resolve for criteria that are themselves optional, where
// nil means the check is disabled rather than defaulted.
func resolveOpt[T any](override, global *T) *T {
	if override != nil {
		return override
	}
	return global
}
