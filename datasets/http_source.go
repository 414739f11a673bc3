package datasets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPSource fetches datasets relative to a base URL.
type HTTPSource struct {
	baseURL *url.URL
	client  *http.Client
}

var _ Source = (*HTTPSource)(nil)

// HTTPSourceOption configures an HTTPSource
type HTTPSourceOption func(*HTTPSource)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) HTTPSourceOption {
	return func(s *HTTPSource) {
		s.client = client
	}
}

// WithTimeout bounds a whole fetch, body included. Zero means no limit.
func WithTimeout(timeout time.Duration) HTTPSourceOption {
	return func(s *HTTPSource) {
		s.client = &http.Client{Transport: s.client.Transport, Timeout: timeout}
	}
}

func NewHTTPSource(baseURL string, options ...HTTPSourceOption) (*HTTPSource, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("[NewHTTPSource] invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("[NewHTTPSource] base URL must be absolute: %q", baseURL)
	}
	// Locators resolve inside the base path, not next to it.
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	s := &HTTPSource{baseURL: u, client: &http.Client{}}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

func (s *HTTPSource) Load(ctx context.Context, locator string) (Dataset, error) {
	ref, err := url.Parse(locator)
	if err != nil {
		return nil, fmt.Errorf("invalid dataset locator %q: %w", locator, err)
	}
	target := s.baseURL.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", locator, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", locator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Locator: locator, StatusCode: resp.StatusCode}
	}

	dataset, err := Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", locator, err)
	}
	return dataset, nil
}
