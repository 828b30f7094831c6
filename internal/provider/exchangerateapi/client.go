package exchangerateapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the v6 endpoint root of exchangerate-api.com.
const DefaultBaseURL = "https://v6.exchangerate-api.com/v6"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=exchangerateapi_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the exchangerate-api.com v6 API.
type Client struct {
	// baseURL is the base URL for the API.
	baseURL string
	// apiKey is embedded in the request path.
	apiKey string
	// httpClient is the HTTP client.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
}

// Option is a configuration option for the client.
type Option func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) Option {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// NewClient creates a new client authenticated with key.
func NewClient(key string, options ...Option) (*Client, error) {
	var client = &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     key,
		httpClient: http.DefaultClient,
		header:     http.Header{},
	}
	for _, option := range options {
		option(client)
	}
	u, err := url.Parse(client.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url must be absolute: %q", client.baseURL)
	}
	return client, nil
}
