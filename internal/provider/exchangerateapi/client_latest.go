package exchangerateapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"rateconverter/internal/provider"
)

// LatestResponse is the body of GET /{key}/latest/{base}.
type LatestResponse struct {
	Result             string             `json:"result"`
	Documentation      string             `json:"documentation"`
	TermsOfUse         string             `json:"terms_of_use"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
	TimeNextUpdateUnix int64              `json:"time_next_update_unix"`
	BaseCode           string             `json:"base_code"`
	ConversionRates    map[string]float64 `json:"conversion_rates"`
	ErrorType          string             `json:"error-type,omitempty"`
}

// LastUpdate returns the provider's own update time, if it sent one.
func (r *LatestResponse) LastUpdate() (time.Time, bool) {
	if r.TimeLastUpdateUnix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(r.TimeLastUpdateUnix, 0).UTC(), true
}

// APIError is returned when the API answered but reported a failure in the
// body (result != "success").
type APIError struct {
	Result string
	Type   string
}

// Is lets callers match any APIError against provider.ErrRejected.
func (e *APIError) Is(target error) bool {
	return target == provider.ErrRejected
}

func (e *APIError) Error() string {
	if e.Type == "" {
		return "api error: unknown error"
	}
	return fmt.Sprintf("api error: %s", e.Type)
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	ErrorType  string
	Body       string
}

func (e *StatusError) Error() string {
	if e.ErrorType != "" {
		return fmt.Sprintf("unexpected status code: %d (%s)", e.StatusCode, e.ErrorType)
	}
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// GetLatest retrieves the latest conversion rates quoted against base.
func (c *Client) GetLatest(ctx context.Context, base string, opts ...Option) (*LatestResponse, error) {
	var override = &Client{
		baseURL:    c.baseURL,
		apiKey:     c.apiKey,
		httpClient: c.httpClient,
		header:     c.header.Clone(),
	}
	for _, opt := range opts {
		opt(override)
	}

	endpoint := fmt.Sprintf("%s/%s/latest/%s", override.baseURL, url.PathEscape(override.apiKey), url.PathEscape(base))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = override.header
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	res, err := override.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		statusErr := &StatusError{StatusCode: res.StatusCode, Body: string(b)}
		var body LatestResponse
		if json.Unmarshal(b, &body) == nil {
			statusErr.ErrorType = body.ErrorType
		}
		return nil, statusErr
	}

	var body LatestResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding latest response: %w", err)
	}
	if body.Result != "success" {
		return nil, &APIError{Result: body.Result, Type: body.ErrorType}
	}
	return &body, nil
}
