// Package identity talks to the remote identity service (IMS): login,
// logout, and the per-request token verification used by the session gate.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/retailops/plano-ui/internal/observability/statsd"
)

// Outcome classifies a verification result. Exactly one outcome is produced
// per call; transport failures are an ordinary outcome, never a panic.
type Outcome int

const (
	// OutcomeValid means the service accepted the token. The session may be
	// established or extended.
	OutcomeValid Outcome = iota
	// OutcomeInvalid means the service explicitly rejected the token. Both
	// session cookies must be purged.
	OutcomeInvalid
	// OutcomeNetworkError means the service could not be reached within the
	// configured timeout. Policy for this case is decided by the caller.
	OutcomeNetworkError
)

// String returns the outcome name used in logs and metric tags.
func (o Outcome) String() string {
	switch o {
	case OutcomeValid:
		return "valid"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeNetworkError:
		return "network_error"
	default:
		return "unknown"
	}
}

// Result is the outcome of asking the identity service about a token.
type Result struct {
	Outcome Outcome

	// Token is a refreshed bearer token. Set only when the service rotated
	// the credential; empty means the presented token is still current.
	Token string

	// User is the raw profile payload returned by the service.
	User map[string]any

	// Message carries the service-supplied reason for Invalid outcomes.
	Message string

	// Err is the underlying transport failure for NetworkError outcomes.
	Err error
}

// LoginResult is the tolerant login outcome shape surfaced to page logic.
// Failures are reported through Success/Message, never raised.
type LoginResult struct {
	Success bool
	Token   string
	User    map[string]any
	Message string
}

// Verifier is the capability the session gate depends on. *Client satisfies
// it; tests substitute function-field doubles.
type Verifier interface {
	Verify(ctx context.Context, token string) Result
}

// Options groups dependencies for Client.
type Options struct {
	// BaseURL is the resolved identity service base URL (required).
	BaseURL string
	// Timeout bounds every call. Defaults to 10s.
	Timeout time.Duration
	// HTTPClient is optional; a default client with Timeout is used when nil.
	HTTPClient *http.Client
	// Logger is optional.
	Logger *slog.Logger
	// Metrics is optional.
	Metrics statsd.Sink
}

// Client implements the identity service contract.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	logger  *slog.Logger
	metrics statsd.Sink
}

var _ Verifier = (*Client)(nil)

// NewClient constructs a new identity Client.
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("identity base URL is required")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger != nil {
		logger = logger.With("component", "identity_client")
	} else {
		logger = slog.Default()
	}

	return &Client{
		baseURL: base,
		timeout: timeout,
		http:    httpClient,
		logger:  logger,
		metrics: opts.Metrics,
	}, nil
}

// envelope is the common response shape of all identity endpoints. Success
// is a pointer so a missing field on a 2xx response still counts as success.
type envelope struct {
	Success *bool          `json:"success"`
	Token   string         `json:"token"`
	Message string         `json:"message"`
	User    map[string]any `json:"user"`
}

// Verify asks the identity service whether the token is still valid,
// possibly receiving a refreshed token and profile.
// GET <base>/main/token/refresh with Authorization: Bearer <token>.
func (c *Client) Verify(ctx context.Context, token string) Result {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/main/token/refresh", nil)
	if err != nil {
		// Request construction only fails on programmer error (bad URL).
		return Result{Outcome: OutcomeNetworkError, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.count("auth.verify.network_error")
		c.logger.WarnContext(ctx, "token verification unreachable", "error", err)
		return Result{Outcome: OutcomeNetworkError, Err: err}
	}
	defer closeBody(resp.Body)

	data, decodeErr := decodeEnvelope(resp.Body)
	c.timing("identity.verify", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 || (data.Success != nil && !*data.Success) {
		message := data.Message
		if message == "" {
			message = fmt.Sprintf("token verification failed (%d)", resp.StatusCode)
		}
		c.count("auth.verify.invalid")
		c.logger.InfoContext(ctx, "token rejected", "status", resp.StatusCode, "reason", message)
		return Result{Outcome: OutcomeInvalid, Message: message}
	}

	if decodeErr != nil {
		// 2xx with an unreadable body still establishes validity; the
		// refreshed token and profile are simply unavailable.
		c.logger.WarnContext(ctx, "verify response not JSON", "error", decodeErr)
	}

	refreshed := data.Token
	if refreshed == token {
		refreshed = ""
	}

	c.count("auth.verify.valid")
	return Result{Outcome: OutcomeValid, Token: refreshed, User: data.User}
}

// Login authenticates a username/password pair.
// POST <base>/auth/users/login with {username, password}.
func (c *Client) Login(ctx context.Context, username, password string) LoginResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return LoginResult{Success: false, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/users/login", bytes.NewReader(body))
	if err != nil {
		return LoginResult{Success: false, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.count("auth.login.network_error")
		c.logger.WarnContext(ctx, "login service unreachable", "error", err)
		return LoginResult{Success: false, Message: "identity service unreachable"}
	}
	defer closeBody(resp.Body)

	data, decodeErr := decodeEnvelope(resp.Body)
	if decodeErr != nil {
		c.logger.WarnContext(ctx, "login response not JSON", "error", decodeErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || (data.Success != nil && !*data.Success) {
		message := data.Message
		if message == "" {
			message = fmt.Sprintf("login failed (%d)", resp.StatusCode)
		}
		c.count("auth.login.failure")
		return LoginResult{Success: false, Message: message}
	}

	c.count("auth.login.success")
	return LoginResult{Success: true, Token: data.Token, User: data.User}
}

// Logout invalidates the token on the identity service. Best-effort: the
// caller clears local cookies regardless of the returned error.
// POST <base>/auth/users/logout with Authorization: Bearer <token>.
func (c *Client) Logout(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/users/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}
	defer closeBody(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := decodeEnvelope(resp.Body)
		if data.Message != "" {
			return fmt.Errorf("logout failed (%d): %s", resp.StatusCode, data.Message)
		}
		return fmt.Errorf("logout failed (%d)", resp.StatusCode)
	}
	return nil
}

// decodeEnvelope reads the body tolerantly: a non-JSON payload yields the
// zero envelope plus the decode error rather than failing the call.
func decodeEnvelope(r io.Reader) (envelope, error) {
	raw, err := io.ReadAll(io.LimitReader(r, 1<<20))
	if err != nil {
		return envelope{}, err
	}
	var data envelope
	if err := json.Unmarshal(raw, &data); err != nil {
		return envelope{}, err
	}
	return data, nil
}

func closeBody(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 1<<16))
	_ = body.Close()
}

func (c *Client) count(name string) {
	if c.metrics != nil {
		c.metrics.Count(name, 1, nil)
	}
}

func (c *Client) timing(name string, d time.Duration) {
	if c.metrics != nil {
		c.metrics.Timing(name, d, nil)
	}
}
