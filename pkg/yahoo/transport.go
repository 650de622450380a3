package yahoo

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MaxBody bounds how much of a response is read. Chart responses for a one
// day range are a few kilobytes.
const MaxBody = 64 << 10

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Transport performs one GET round trip.
type Transport interface {
	Get(ctx context.Context, url string) (status int, body []byte, err error)
}

// TransportConfig configures HTTPTransport.
type TransportConfig struct {
	Timeout time.Duration
	// InsecureSkipVerify disables TLS certificate checks. Off unless the
	// user turns it on.
	InsecureSkipVerify bool
	UserAgent          string
}

// HTTPTransport is a Transport over net/http.
type HTTPTransport struct {
	client    *http.Client
	userAgent string
}

func NewHTTPTransport(conf TransportConfig) *HTTPTransport {
	if conf.Timeout <= 0 {
		conf.Timeout = 10 * time.Second
	}
	if conf.UserAgent == "" {
		conf.UserAgent = defaultUserAgent
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	// a fresh connection per request, the quote host drops idle ones
	tr.DisableKeepAlives = true
	if conf.InsecureSkipVerify {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in
	}

	return &HTTPTransport{
		client: &http.Client{
			Timeout:   conf.Timeout,
			Transport: tr,
		},
		userAgent: conf.UserAgent,
	}
}

func (t *HTTPTransport) Get(ctx context.Context, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("error making request: %w", err)
	}
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept", "application/json,text/plain,*/*")

	res, err := t.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("error sending request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, MaxBody))
	if err != nil {
		return res.StatusCode, nil, fmt.Errorf("error reading body: %w", err)
	}
	return res.StatusCode, body, nil
}
