package provider

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"fundquote/internal/fund"
)

// Upstreams reject requests that do not look like they come from a browser.
const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultReferer   = "http://fund.eastmoney.com/"
	DefaultTimeout   = 5 * time.Second

	maxBodyBytes = 4 << 20
)

// Client performs GET requests against the fund data upstreams with the fixed headers they expect.
type Client struct {
	http      *http.Client
	userAgent string
	referer   string
}

// NewClient creates a Client. Empty values fall back to the package defaults.
func NewClient(timeout time.Duration, userAgent, referer string) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if referer == "" {
		referer = DefaultReferer
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &Client{
		http:      &http.Client{Timeout: timeout, Transport: transport},
		userAgent: userAgent,
		referer:   referer,
	}
}

// get returns the response body, or a TransportError failure tagged with the provider.
func (c *Client) get(ctx context.Context, provider fund.ProviderID, reqURL string, withReferer bool) ([]byte, error) {
	name := string(provider)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fund.TransportFailure(name, err, "request creation failed")
	}
	req.Header.Set("User-Agent", c.userAgent)
	if withReferer {
		req.Header.Set("Referer", c.referer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fund.TransportFailure(name, err, "request failed")
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fund.TransportFailure(name, nil, "upstream returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fund.TransportFailure(name, err, "read response body")
	}
	return body, nil
}
