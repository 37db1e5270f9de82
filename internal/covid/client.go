// Package covid reads public COVID-19 statistics from the disease.sh API and
// maps them into display shapes. Calls are not retried; a failed fetch is
// returned to the caller.
package covid

import (
	"complaintdesk/backend/internal/metrics"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const requestTimeout = 10 * time.Second

// ErrUpstream wraps every failure to obtain or read a statistics response.
var ErrUpstream = errors.New("covid: statistics API failure")

// APIError is returned when the statistics API answers with a non-2xx status.
type APIError struct {
	StatusCode int
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("covid: %s returned status %d", e.URL, e.StatusCode)
}

func (e *APIError) Unwrap() error { return ErrUpstream }

// Client performs the raw API calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL. A nil httpClient gets a default
// one with a request timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// GlobalStats fetches the worldwide totals.
func (c *Client) GlobalStats(ctx context.Context) (*GlobalStats, error) {
	var r remoteGlobal
	if err := c.get(ctx, "global", "/all", &r); err != nil {
		return nil, err
	}
	return r.toStats(), nil
}

// CountryStats fetches one country's summary. code may be an ISO2/ISO3 code
// or a country name.
func (c *Client) CountryStats(ctx context.Context, code string) (*CountrySummary, error) {
	var r remoteCountry
	if err := c.get(ctx, "country", "/countries/"+url.PathEscape(code), &r); err != nil {
		return nil, err
	}
	s := r.toSummary()
	return &s, nil
}

// TimeSeries fetches the last days of a country's history.
func (c *Client) TimeSeries(ctx context.Context, code string, days int) ([]TimeSeriesPoint, error) {
	var r remoteHistorical
	path := "/historical/" + url.PathEscape(code) + "?lastdays=" + strconv.Itoa(days)
	if err := c.get(ctx, "timeseries", path, &r); err != nil {
		return nil, err
	}
	return buildTimeSeries(r)
}

// Vaccination fetches a country's coverage timeline. population is the
// denominator for the rate; 0 leaves the rate at 0.
func (c *Client) Vaccination(ctx context.Context, code string, days int, population int64) ([]VaccinationPoint, error) {
	var cov remoteCoverage
	path := "/vaccine/coverage/countries/" + url.PathEscape(code) + "?lastdays=" + strconv.Itoa(days)
	if err := c.get(ctx, "vaccination", path, &cov); err != nil {
		return nil, err
	}
	return buildVaccination(cov, population)
}

// AllCountries fetches the summary of every country.
func (c *Client) AllCountries(ctx context.Context) ([]CountrySummary, error) {
	var r []remoteCountry
	if err := c.get(ctx, "countries", "/countries", &r); err != nil {
		return nil, err
	}
	out := make([]CountrySummary, len(r))
	for i := range r {
		out[i] = r[i].toSummary()
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, out any) (err error) {
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		metrics.StatsFetchTotal.WithLabelValues(endpoint, result).Inc()
	}()

	target := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("covid: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request %s: %w", ErrUpstream, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, URL: target}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrUpstream, target, err)
	}
	return nil
}
