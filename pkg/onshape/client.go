package onshape

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Version is the library version.
const Version = "0.1.0"

// DefaultBaseURL is the production Onshape endpoint.
const DefaultBaseURL = "https://cad.onshape.com"

const apiPrefix = "/api/v6"

const (
	contentTypeJSON = "application/json"
	acceptJSON      = "application/json"
	acceptBinary    = "application/octet-stream"
)

// Client talks to the Onshape REST API. It signs every request, maps
// remote statuses to error kinds once at this boundary, and retries
// transient failures with bounded exponential backoff.
type Client struct {
	baseURL    string
	signer     *Signer
	httpClient *http.Client

	// retry pacing for transient failures within one call
	retryInitial time.Duration
	retryMax     time.Duration
	retryLimit   uint64

	// pacing for the export job polling loop
	pollInitial time.Duration
	pollMax     time.Duration
}

// NewClient creates a client against the production endpoint.
func NewClient(creds Credentials) (*Client, error) {
	return NewClientURL(DefaultBaseURL, creds)
}

// NewClientURL creates a client against a specific base URL. Fails with
// an auth-encoding error if the credentials are malformed.
func NewClientURL(baseURL string, creds Credentials) (*Client, error) {
	signer, err := NewSigner(creds)
	if err != nil {
		return nil, err
	}

	// Connection pooling tuned for a long-running sequential batch;
	// HTTP/2 disabled for large binary download stability.
	transport := &http.Transport{
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 10,
		ForceAttemptHTTP2:   false,
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		signer:  signer,
		httpClient: &http.Client{
			Timeout:   2 * time.Minute,
			Transport: transport,
		},
		retryInitial: 500 * time.Millisecond,
		retryMax:     5 * time.Second,
		retryLimit:   4,
		pollInitial:  500 * time.Millisecond,
		pollMax:      5 * time.Second,
	}, nil
}

// DocumentRef addresses exactly one Part Studio element.
type DocumentRef struct {
	DocumentID  string
	WorkspaceID string
	ElementID   string
}

func (r DocumentRef) partStudioPath(op string) string {
	return fmt.Sprintf("%s/partstudios/d/%s/w/%s/e/%s/%s",
		apiPrefix, r.DocumentID, r.WorkspaceID, r.ElementID, op)
}

// do issues one signed request and returns the response body. Transient
// failures (network errors, 429, 5xx) are retried up to retryLimit
// times; everything else returns immediately as a classified error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, accept string) ([]byte, error) {
	rawQuery := query.Encode()
	reqURL := c.baseURL + path
	if rawQuery != "" {
		reqURL += "?" + rawQuery
	}

	var out []byte
	op := func() error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}

		headers := c.signer.Sign(method, path, rawQuery, contentTypeJSON, time.Now())
		for k, vs := range headers {
			req.Header[k] = vs
		}
		req.Header.Set("Accept", accept)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &Error{Kind: KindTransient, Message: err.Error()}
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return &Error{Kind: KindTransient, Message: fmt.Sprintf("read response body: %v", err)}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			cerr := classifyStatus(resp.StatusCode, data)
			if cerr.Kind == KindTransient {
				return cerr
			}
			return backoff.Permanent(cerr)
		}

		out = data
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(c.newRetryBackOff(), c.retryLimit), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) newRetryBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInitial
	b.MaxInterval = c.retryMax
	b.MaxElapsedTime = 0 // bounded by retryLimit, not wall clock
	return b
}
