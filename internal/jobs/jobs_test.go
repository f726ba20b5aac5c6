package jobs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProvider struct {
	name     string
	listings []Listing
	err      error
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Search(context.Context, string, string) ([]Listing, error) {
	return s.listings, s.err
}

func TestAggregatorDedupKeepsFirstOccurrence(t *testing.T) {
	first := &stubProvider{name: "first", listings: []Listing{
		{Title: "X", Company: "Y", Location: "Z", Link: "L1"},
	}}
	second := &stubProvider{name: "second", listings: []Listing{
		{Title: "X", Company: "Y", Location: "Z", Link: "L2"},
		{Title: "Other", Company: "Y", Location: "Z", Link: "L3"},
	}}

	agg := NewAggregator(zap.NewNop(), first, second)
	got, err := agg.Search(context.Background(), "dev", "berlin")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "L1", got[0].Link, "first occurrence must win")
	assert.Equal(t, "Other", got[1].Title)
}

func TestAggregatorPreservesProviderOrder(t *testing.T) {
	first := &stubProvider{name: "first", listings: []Listing{
		{Title: "A1", Company: "c", Location: "l"},
		{Title: "A2", Company: "c", Location: "l"},
	}}
	second := &stubProvider{name: "second", listings: []Listing{
		{Title: "B1", Company: "c", Location: "l"},
	}}

	agg := NewAggregator(zap.NewNop(), first, second)
	got, err := agg.Search(context.Background(), "dev", "berlin")
	require.NoError(t, err)

	titles := make([]string, len(got))
	for i, l := range got {
		titles[i] = l.Title
	}
	assert.Equal(t, []string{"A1", "A2", "B1"}, titles)
}

func TestAggregatorFailSoft(t *testing.T) {
	broken := &stubProvider{name: "broken", err: errors.New("timeout")}
	healthy := &stubProvider{name: "healthy", listings: []Listing{
		{Title: "A", Company: "c", Location: "l"},
	}}

	agg := NewAggregator(zap.NewNop(), broken, healthy)
	got, err := agg.Search(context.Background(), "dev", "berlin")
	require.NoError(t, err, "one healthy provider must keep the search alive")
	assert.Len(t, got, 1)
}

func TestAggregatorAllProvidersFailed(t *testing.T) {
	agg := NewAggregator(zap.NewNop(),
		&stubProvider{name: "a", err: errors.New("down")},
		&stubProvider{name: "b", err: errors.New("down")},
	)

	got, err := agg.Search(context.Background(), "dev", "berlin")
	assert.ErrorIs(t, err, ErrAllProvidersFailed)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAggregatorNoProvidersConfigured(t *testing.T) {
	agg := NewAggregator(zap.NewNop())

	got, err := agg.Search(context.Background(), "dev", "berlin")
	assert.ErrorIs(t, err, ErrAllProvidersFailed)
	assert.Empty(t, got)
}

func TestJoobleSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/test-key", r.URL.Path)

		fmt.Fprint(w, `{"totalCount": 7, "jobs": [
			{"title": "Go Developer", "company": "Acme", "location": "Berlin", "link": "https://x/1"},
			{"title": "No Company Role", "location": "Berlin"},
			{"title": "J3", "company": "c", "location": "l", "link": "https://x/3"},
			{"title": "J4", "company": "c", "location": "l", "link": "https://x/4"},
			{"title": "J5", "company": "c", "location": "l", "link": "https://x/5"},
			{"title": "J6", "company": "c", "location": "l", "link": "https://x/6"}
		]}`)
	}))
	defer srv.Close()

	client := NewJoobleClient(zap.NewNop(), "test-key")
	client.APIURL = srv.URL

	got, err := client.Search(context.Background(), "Go Developer", "Berlin")
	require.NoError(t, err)

	require.Len(t, got, 5, "provider results are capped at five")
	assert.Equal(t, Listing{Title: "Go Developer", Company: "Acme", Location: "Berlin", Link: "https://x/1"}, got[0])
	assert.Equal(t, "N/A", got[1].Company, "missing company becomes the unknown sentinel")
	assert.Equal(t, "#", got[1].Link, "missing link becomes the unknown sentinel")
}

func TestJoobleSearchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewJoobleClient(zap.NewNop(), "test-key")
	client.APIURL = srv.URL

	_, err := client.Search(context.Background(), "dev", "berlin")
	require.Error(t, err)
}

func TestSerpAPISearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "google_jobs", q.Get("engine"))
		assert.Equal(t, "Go Developer jobs Berlin", q.Get("q"))
		assert.Equal(t, "test-key", q.Get("api_key"))

		fmt.Fprint(w, `{"jobs_results": [
			{"title": "Go Developer", "company_name": "Acme", "location": "Berlin",
			 "apply_options": [{"link": "https://apply/1"}, {"link": "https://apply/2"}]},
			{"title": "Platform Engineer", "company_name": "Globex", "location": "Berlin"}
		]}`)
	}))
	defer srv.Close()

	client := NewSerpAPIClient(zap.NewNop(), "test-key")
	client.APIURL = srv.URL

	got, err := client.Search(context.Background(), "Go Developer", "Berlin")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "https://apply/1", got[0].Link, "first apply option wins")
	assert.Equal(t, "#", got[1].Link, "no apply options becomes the unknown sentinel")
}
