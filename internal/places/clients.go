package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const httpTimeout = 10 * time.Second

const textSearchDefaultURL = "https://maps.googleapis.com/maps/api/place/textsearch/json"

var (
	// ErrZeroResults is returned when the search ran but matched nothing.
	ErrZeroResults = errors.New("places: zero results")
	// ErrMissingAPIKey is returned when the client has no key configured.
	ErrMissingAPIKey = errors.New("places: api key not configured")
)

// newHTTPClient returns an http.Client with a 10-second timeout.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// doGet performs a GET request and decodes the JSON response into dst.
func doGet(ctx context.Context, client *http.Client, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating places request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		// The request URL carries the API key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("GET places text search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("places text search returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding places response: %w", err)
	}

	return nil
}

// Place is one raw text-search result. Optional fields are nil when absent.
type Place struct {
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Vicinity         string   `json:"vicinity"`
	Rating           *float64 `json:"rating"`
	PriceLevel       *int     `json:"price_level"`
}

type textSearchResponse struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message"`
	Results      []Place `json:"results"`
}

// TextSearchClient queries the Google Places text search endpoint.
type TextSearchClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewTextSearchClient constructs a client against the production endpoint.
// A nil limiter disables pacing.
func NewTextSearchClient(apiKey string, limiter *rate.Limiter) *TextSearchClient {
	return &TextSearchClient{apiKey: apiKey, baseURL: textSearchDefaultURL, client: newHTTPClient(), limiter: limiter}
}

// NewTextSearchClientWithURL constructs a client pointing at a custom base URL (for tests).
func NewTextSearchClientWithURL(baseURL, apiKey string) *TextSearchClient {
	return &TextSearchClient{apiKey: apiKey, baseURL: baseURL, client: newHTTPClient()}
}

// Search runs a text search for query restricted to placeType.
// Returns ErrZeroResults when the API reports no matches.
func (c *TextSearchClient) Search(ctx context.Context, query, placeType string) ([]Place, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for places rate limiter: %w", err)
		}
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("type", placeType)
	params.Set("key", c.apiKey)
	endpoint := c.baseURL + "?" + params.Encode()

	var raw textSearchResponse
	if err := doGet(ctx, c.client, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("text search %q: %w", query, err)
	}

	switch raw.Status {
	case "OK":
		return raw.Results, nil
	case "ZERO_RESULTS":
		return nil, ErrZeroResults
	default:
		return nil, fmt.Errorf("text search %q: api status %s: %s", query, raw.Status, raw.ErrorMessage)
	}
}
