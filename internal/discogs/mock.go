package discogs

import (
	"context"

	"github.com/wfarner/vinylalert/internal/model"
)

// MockSource implements Source for tests and offline development.
type MockSource struct {
	StatsByRelease    map[int]model.ReleaseStats
	ListingsByRelease map[int][]model.Listing

	// Errors returned by the corresponding call when set. StatsErrFor
	// fails only the named release so later releases still run.
	StatsErr    error
	StatsErrFor int
	ListingsErr error

	StatsCalls    []int
	ListingsCalls []int
}

func (m *MockSource) ReleaseStats(_ context.Context, releaseID int) (model.ReleaseStats, error) {
	m.StatsCalls = append(m.StatsCalls, releaseID)
	if m.StatsErr != nil && (m.StatsErrFor == 0 || m.StatsErrFor == releaseID) {
		return model.ReleaseStats{}, m.StatsErr
	}
	return m.StatsByRelease[releaseID], nil
}

func (m *MockSource) Listings(_ context.Context, releaseID int) ([]model.Listing, error) {
	m.ListingsCalls = append(m.ListingsCalls, releaseID)
	if m.ListingsErr != nil {
		return nil, m.ListingsErr
	}
	return m.ListingsByRelease[releaseID], nil
}
