package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

const joobleAPIURL = "https://jooble.org"

// JoobleClient searches the Jooble job board API.
type JoobleClient struct {
	apiKey     string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
}

func NewJoobleClient(logger *zap.Logger, apiKey string) *JoobleClient {
	return &JoobleClient{
		apiKey:     apiKey,
		logger:     logger,
		HTTPClient: newProviderHTTPClient(),
		APIURL:     joobleAPIURL,
	}
}

func (c *JoobleClient) Name() string { return "jooble" }

type joobleRequest struct {
	Keywords string `json:"keywords"`
	Location string `json:"location"`
	Page     int    `json:"page"`
}

type joobleJob struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Link     string `json:"link"`
}

// Search posts a keyword query to Jooble and returns up to five listings
// in the provider's relevance order.
func (c *JoobleClient) Search(ctx context.Context, role, location string) ([]Listing, error) {
	body, err := json.Marshal(joobleRequest{Keywords: role, Location: location, Page: 1})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/%s", c.APIURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("searching jooble", zap.String("role", role), zap.String("location", location))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jooble: bad status: %s", resp.Status)
	}

	var payload struct {
		Jobs []joobleJob `json:"jobs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("jooble: decode response: %w", err)
	}

	listings := make([]Listing, 0, perProviderLimit)
	for _, job := range payload.Jobs {
		if len(listings) == perProviderLimit {
			break
		}
		listings = append(listings, Listing{
			Title:    orUnknown(job.Title, unknownField),
			Company:  orUnknown(job.Company, unknownField),
			Location: orUnknown(job.Location, unknownField),
			Link:     orUnknown(job.Link, unknownLink),
		})
	}
	return listings, nil
}
