// Package providers contains the registrar backend implementations of
// the ports.DomainProvider contract.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/regctl/regctl/internal/core/domain"
	"github.com/regctl/regctl/internal/infrastructure/metrics"
)

// defaultTimeout bounds every registrar round-trip. A timeout surfaces
// as a transport failure, equivalent to a registrar outage.
const defaultTimeout = 30 * time.Second

// client is the low-level HTTP executor shared by all providers. It owns
// the base URL, header construction and the translation of non-2xx
// responses into *domain.ProviderError.
type client struct {
	registrar  domain.Registrar
	baseURL    string
	httpClient *http.Client

	// sign, when set, signs the outgoing request over the raw payload
	// before it is sent (Route53 SigV4).
	sign func(req *http.Request, payload []byte) error
}

func newClient(registrar domain.Registrar, baseURL string) *client {
	return &client{
		registrar:  registrar,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// do executes one request against the registrar. body is JSON-encoded
// when non-nil; out, when non-nil, receives the decoded 2xx response.
func (c *client) do(ctx context.Context, method, path, query string, headers map[string]string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", c.registrar, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+query, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building %s request: %w", c.registrar, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if c.sign != nil {
		if err := c.sign(req, payload); err != nil {
			return fmt.Errorf("signing %s request: %w", c.registrar, err)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ProviderRequestDuration.WithLabelValues(string(c.registrar)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(string(c.registrar), "network_error").Inc()
		return fmt.Errorf("%s request failed: %w", c.registrar, err)
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Printf("failed to close response body: %v", errClose)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(string(c.registrar), "read_error").Inc()
		return fmt.Errorf("reading %s response: %w", c.registrar, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ProviderRequests.WithLabelValues(string(c.registrar), fmt.Sprintf("%d", resp.StatusCode)).Inc()
		return &domain.ProviderError{Registrar: c.registrar, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	metrics.ProviderRequests.WithLabelValues(string(c.registrar), "ok").Inc()

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decoding %s response: %w", c.registrar, err)
		}
	}
	return nil
}
