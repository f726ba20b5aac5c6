package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

const serpAPIURL = "https://serpapi.com"

// SerpAPIClient searches Google Jobs through SerpApi.
type SerpAPIClient struct {
	apiKey     string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
}

func NewSerpAPIClient(logger *zap.Logger, apiKey string) *SerpAPIClient {
	return &SerpAPIClient{
		apiKey:     apiKey,
		logger:     logger,
		HTTPClient: newProviderHTTPClient(),
		APIURL:     serpAPIURL,
	}
}

func (c *SerpAPIClient) Name() string { return "google_jobs" }

type serpAPIJob struct {
	Title        string `json:"title"`
	CompanyName  string `json:"company_name"`
	Location     string `json:"location"`
	ApplyOptions []struct {
		Link string `json:"link"`
	} `json:"apply_options"`
}

// Search runs a Google Jobs query and returns up to five listings in the
// engine's relevance order.
func (c *SerpAPIClient) Search(ctx context.Context, role, location string) ([]Listing, error) {
	query := strings.TrimSpace(fmt.Sprintf("%s jobs %s", role, location))

	q := url.Values{}
	q.Set("engine", "google_jobs")
	q.Set("q", query)
	q.Set("hl", "en")
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+"/search", nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = q.Encode()

	c.logger.Debug("searching google jobs", zap.String("query", query))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi: bad status: %s", resp.Status)
	}

	var payload struct {
		JobsResults []serpAPIJob `json:"jobs_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("serpapi: decode response: %w", err)
	}

	listings := make([]Listing, 0, perProviderLimit)
	for _, job := range payload.JobsResults {
		if len(listings) == perProviderLimit {
			break
		}
		link := unknownLink
		if len(job.ApplyOptions) > 0 && job.ApplyOptions[0].Link != "" {
			link = job.ApplyOptions[0].Link
		}
		listings = append(listings, Listing{
			Title:    orUnknown(job.Title, unknownField),
			Company:  orUnknown(job.CompanyName, unknownField),
			Location: orUnknown(job.Location, unknownField),
			Link:     link,
		})
	}
	return listings, nil
}
