package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"erp-import-platform/internal/logger"
	"erp-import-platform/internal/models"
)

// ClientConfig holds retry and timeout configuration for the ERP client
type ClientConfig struct {
	MaxRetries     int
	Timeout        time.Duration
	RetryBaseDelay time.Duration
}

// DefaultClientConfig returns default client configuration
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		MaxRetries:     3,
		Timeout:        30 * time.Second,
		RetryBaseDelay: 1 * time.Second,
	}
}

// Client executes authenticated calls against one ERP instance with
// timeout, retry, backoff and re-authentication handling
type Client struct {
	auth       *AuthManager
	creds      models.Credentials
	httpClient *http.Client
	cfg        ClientConfig
	logger     *logger.Logger
}

// NewClient creates a client bound to one connection's instance and
// credentials
func NewClient(auth *AuthManager, creds models.Credentials, cfg ClientConfig, log *logger.Logger) *Client {
	return &Client{
		auth:  auth,
		creds: creds,
		// per-attempt timeouts come from the request context
		httpClient: &http.Client{},
		cfg:        cfg,
		logger:     log,
	}
}

// InstanceURL returns the normalized URL of the instance this client is
// bound to
func (c *Client) InstanceURL() string {
	return c.auth.InstanceURL()
}

// Request executes one HTTP call against the entity endpoint, decoding the
// JSON response into out when out is non-nil. Empty response bodies leave
// out untouched.
func (c *Client) Request(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	for attempt := 0; ; {
		respBody, status, headers, err := c.do(ctx, method, path, payload)
		if err != nil {
			if isAttemptTimeout(ctx, err) {
				if attempt < c.cfg.MaxRetries {
					attempt++
					continue
				}
				return &Error{Kind: KindTimeout, Message: "request timed out", Retryable: true}
			}
			return err
		}

		switch {
		case status == http.StatusUnauthorized && attempt == 0:
			// one forced re-login for this cause, bypassing the cache
			if _, err := c.auth.Login(ctx, c.creds); err != nil {
				return err
			}
			attempt++
			continue

		case status == http.StatusTooManyRequests:
			if attempt < c.cfg.MaxRetries {
				wait := c.cfg.RetryBaseDelay * 2
				if ra := headers.Get("Retry-After"); ra != "" {
					if secs, err := strconv.Atoi(ra); err == nil {
						wait = time.Duration(secs) * time.Second
					}
				}
				if err := sleep(ctx, wait); err != nil {
					return err
				}
				attempt++
				continue
			}
			return &Error{Kind: KindRateLimited, StatusCode: status, Message: "rate limited by ERP", Retryable: false}

		case status >= 500:
			if attempt < c.cfg.MaxRetries {
				wait := time.Duration(float64(c.cfg.RetryBaseDelay) * math.Pow(2, float64(attempt)))
				c.logger.WithField("status_code", status).
					WithField("attempt", attempt+1).
					WithField("delay", wait).
					Warn("ERP server error, retrying")
				if err := sleep(ctx, wait); err != nil {
					return err
				}
				attempt++
				continue
			}
			return &Error{Kind: KindServer, StatusCode: status, Message: parseErrorMessage(respBody, status), Retryable: false}

		case status < 200 || status > 299:
			return &Error{Kind: KindAPI, StatusCode: status, Message: parseErrorMessage(respBody, status), Retryable: false}
		}

		// some endpoints return empty responses
		if len(bytes.TrimSpace(respBody)) == 0 || out == nil {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode ERP response: %w", err)
		}
		return nil
	}
}

// do executes a single attempt under its own timeout
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, int, http.Header, error) {
	session, err := c.auth.GetSession(ctx, c.creds)
	if err != nil {
		return nil, 0, nil, err
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	url := c.auth.BaseEntityURL() + path
	req, err := http.NewRequestWithContext(attemptCtx, method, url, reqBody)
	if err != nil {
		return nil, 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", session.Cookies)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, nil, err
	}

	return respBody, resp.StatusCode, resp.Header, nil
}

// Get executes a GET request
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Request(ctx, http.MethodGet, path, nil, out)
}

// Put executes a PUT request
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Request(ctx, http.MethodPut, path, body, out)
}

// Post executes a POST request
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Request(ctx, http.MethodPost, path, body, out)
}

// Delete executes a DELETE request
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Request(ctx, http.MethodDelete, path, nil, nil)
}

// isAttemptTimeout distinguishes a per-attempt timeout from a caller
// cancellation
func isAttemptTimeout(parent context.Context, err error) bool {
	if parent.Err() != nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// parseErrorMessage extracts a human-usable message from an ERP error body:
// parsed JSON message when possible, else the raw text
func parseErrorMessage(body []byte, status int) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return fmt.Sprintf("ERP API error (%d)", status)
	}
	var envelope apiErrorBody
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.ExceptionMessage != "" || envelope.Message != "" || envelope.InnerException != nil {
			return ExtractInnerMessage(&envelope)
		}
	}
	return text
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
