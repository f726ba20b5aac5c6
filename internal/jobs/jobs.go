// Package jobs queries external job-search providers and merges their
// results into one deduplicated list.
package jobs

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Each provider contributes at most this many listings per search.
const perProviderLimit = 5

// Bounded timeout for a single provider round-trip.
const providerTimeout = 15 * time.Second

// Unknown-field sentinels carried through to the API response.
const (
	unknownField = "N/A"
	unknownLink  = "#"
)

// ErrAllProvidersFailed means no provider returned anything usable. The
// caller still gets an empty list; this is a soft error, not a crash.
var ErrAllProvidersFailed = errors.New("all job providers failed")

// Listing is one normalized job posting.
type Listing struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Link     string `json:"link"`
}

// dedupKey identifies a listing. The link is deliberately excluded: the
// same posting reached via two different links collapses into one.
type dedupKey struct {
	title    string
	company  string
	location string
}

// Provider is a single job-search backend.
type Provider interface {
	Name() string
	Search(ctx context.Context, role, location string) ([]Listing, error)
}

// Aggregator fans a search out to every configured provider in order.
type Aggregator struct {
	providers []Provider
	logger    *zap.Logger
}

func NewAggregator(logger *zap.Logger, providers ...Provider) *Aggregator {
	return &Aggregator{providers: providers, logger: logger}
}

// Search queries the providers sequentially and merges their batches in
// provider order, keeping each provider's internal order and dropping
// duplicates (first occurrence wins). A failing provider is logged and
// skipped; only when every provider fails does the error become visible,
// and even then the empty list is usable.
func (a *Aggregator) Search(ctx context.Context, role, location string) ([]Listing, error) {
	merged := []Listing{}
	seen := make(map[dedupKey]struct{})
	failures := 0

	for _, p := range a.providers {
		listings, err := p.Search(ctx, role, location)
		if err != nil {
			failures++
			a.logger.Warn("job provider failed, continuing without it",
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
			continue
		}
		for _, l := range listings {
			key := dedupKey{title: l.Title, company: l.Company, location: l.Location}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, l)
		}
	}

	if len(a.providers) == 0 || failures == len(a.providers) {
		return []Listing{}, ErrAllProvidersFailed
	}
	return merged, nil
}

func newProviderHTTPClient() *http.Client {
	return &http.Client{
		Timeout: providerTimeout,
	}
}

func orUnknown(s, sentinel string) string {
	if s == "" {
		return sentinel
	}
	return s
}
