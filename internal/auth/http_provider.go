package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

// HTTPProvider talks to the identity service over HTTP. Calls go through a
// circuit breaker so that an identity outage fails fast instead of tying up
// every request for the full client timeout.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[string]
}

func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	settings := gobreaker.Settings{
		Name:    "identity-provider",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A rejected token is a valid answer from a healthy service.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrInvalidToken)
		},
	}

	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[string](settings),
	}
}

func (p *HTTPProvider) Verify(ctx context.Context, token string) (string, error) {
	return p.breaker.Execute(func() (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1/tokens/verify", nil)
		if err != nil {
			return "", fmt.Errorf("failed to build verify request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := p.client.Do(req)
		if err != nil {
			return "", fmt.Errorf("identity service unreachable: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return "", ErrInvalidToken
		case resp.StatusCode != http.StatusOK:
			return "", fmt.Errorf("identity service returned status %d", resp.StatusCode)
		}

		var body struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return "", fmt.Errorf("failed to decode verify response: %w", err)
		}
		if body.Email == "" {
			return "", ErrInvalidToken
		}

		return body.Email, nil
	})
}

func (p *HTTPProvider) Revoke(ctx context.Context, token string) error {
	_, err := p.breaker.Execute(func() (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/tokens/revoke", nil)
		if err != nil {
			return "", fmt.Errorf("failed to build revoke request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := p.client.Do(req)
		if err != nil {
			return "", fmt.Errorf("identity service unreachable: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
			return "", fmt.Errorf("identity service returned status %d", resp.StatusCode)
		}
		return "", nil
	})
	return err
}
