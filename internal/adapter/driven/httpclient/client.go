// Package httpclient builds the resty clients used to talk to the identity
// and billing services.
package httpclient

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Options configures transport security and timeouts.
type Options struct {
	Timeout  time.Duration
	CACert   string
	Insecure bool
}

// APIError is returned when a remote service answers with a non-2xx status.
type APIError struct {
	Service    string
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return fmt.Sprintf("%s: %s %s returned %d: %s", e.Service, e.Method, e.URL, e.StatusCode, body)
}

// New returns a resty client honouring the CA bundle and insecure options.
func New(opts Options) (*resty.Client, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}

	if opts.CACert != "" {
		pem, err := os.ReadFile(opts.CACert)
		if err != nil {
			return nil, fmt.Errorf("error reading CA certificate: %w", err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", opts.CACert)
		}
		tlsConfig.RootCAs = pool
	}
	if opts.Insecure {
		tlsConfig.InsecureSkipVerify = true //nolint:gosec // explicitly requested with --insecure
	}

	client := resty.New().
		SetTLSClientConfig(tlsConfig).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "separate-billing").
		OnAfterResponse(logResponse)

	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	return client, nil
}

// NewAPIError builds an APIError from a failed response.
func NewAPIError(service string, resp *resty.Response) *APIError {
	return &APIError{
		Service:    service,
		Method:     resp.Request.Method,
		URL:        resp.Request.URL,
		StatusCode: resp.StatusCode(),
		Body:       resp.String(),
	}
}

func logResponse(_ *resty.Client, resp *resty.Response) error {
	zerolog.Ctx(resp.Request.Context()).Debug().
		Str("method", resp.Request.Method).
		Str("url", resp.Request.URL).
		Int("status", resp.StatusCode()).
		Dur("elapsed", resp.Time()).
		Msg("http request")
	return nil
}
