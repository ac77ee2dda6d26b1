// Package backend proxies planogram business operations to the warehouse
// service (WHS). Calls are single attempt with a bounded timeout; transport
// and service failures surface as a soft CallResult, never as a panic.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	apperrors "github.com/retailops/plano-ui/internal/errors"
	"github.com/retailops/plano-ui/internal/observability/statsd"
)

// CallResult is the uniform outcome of a proxy call. Data carries the
// decoded payload on success; a non-JSON body yields a nil Data without
// failing the call.
type CallResult struct {
	Success bool
	Data    any
	Message string
}

// NearestGroup pairs one planogram line with the racks assigned to it.
type NearestGroup struct {
	Line string
	Rak  []string
}

// NearestGroupSubmission is the page-level shape of a nearest-group submit.
// The client transforms it into the numbered-map wire format the warehouse
// service expects.
type NearestGroupSubmission struct {
	IP        string
	OfficeID  string
	PLUID     string
	TipePlano string
	Groups    []NearestGroup
}

// Validate rejects submissions the warehouse service would misprocess:
// empty selections and duplicated lines.
func (s NearestGroupSubmission) Validate() error {
	if len(s.Groups) == 0 {
		return apperrors.Validation("no nearest-group selection to submit")
	}
	seen := make(map[string]struct{}, len(s.Groups))
	for _, g := range s.Groups {
		if _, dup := seen[g.Line]; dup {
			return apperrors.ValidationField("line", fmt.Sprintf("duplicate line %q in selection", g.Line))
		}
		seen[g.Line] = struct{}{}
	}
	return nil
}

// PlanogroupAPI is the warehouse planogroup contract the page handlers
// depend on. *PlanogroupClient satisfies it; handler tests use the
// generated mock.
type PlanogroupAPI interface {
	TableLokPlano(ctx context.Context, token, office, pluid string) CallResult
	ZonaRak(ctx context.Context, token, tiperak string) CallResult
	LineRak(ctx context.Context, token, tiperak, linerak string) CallResult
	SubmitNearestGroup(ctx context.Context, token string, sub NearestGroupSubmission) CallResult
}

// PlanogroupOptions groups dependencies for PlanogroupClient.
type PlanogroupOptions struct {
	// BaseURL is the resolved warehouse service base URL (required).
	BaseURL string
	// APIKey is the static key sent on every call.
	APIKey string
	// Timeout bounds every call. Defaults to 15s.
	Timeout time.Duration
	// ZonaRakExpr is an optional JMESPath expression applied to the decoded
	// zonarak payload. Empty means passthrough.
	ZonaRakExpr string
	// LineRakExpr is the linerak counterpart of ZonaRakExpr.
	LineRakExpr string
	// HTTPClient is optional; a default client with Timeout is used when nil.
	HTTPClient *http.Client
	// Logger is optional.
	Logger *slog.Logger
	// Metrics is optional.
	Metrics statsd.Sink
}

// PlanogroupClient implements PlanogroupAPI over HTTP.
type PlanogroupClient struct {
	baseURL     string
	apiKey      string
	timeout     time.Duration
	http        *http.Client
	logger      *slog.Logger
	metrics     statsd.Sink
	zonaRakExpr jmespath.JMESPath
	lineRakExpr jmespath.JMESPath
}

var _ PlanogroupAPI = (*PlanogroupClient)(nil)

// NewPlanogroupClient constructs a PlanogroupClient, compiling the optional
// extraction expressions up front so a bad expression fails at startup.
func NewPlanogroupClient(opts PlanogroupOptions) (*PlanogroupClient, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("planogroup base URL is required")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger != nil {
		logger = logger.With("component", "planogroup_client")
	} else {
		logger = slog.Default()
	}

	client := &PlanogroupClient{
		baseURL: base,
		apiKey:  opts.APIKey,
		timeout: timeout,
		http:    httpClient,
		logger:  logger,
		metrics: opts.Metrics,
	}

	var err error
	if client.zonaRakExpr, err = compileExpr(opts.ZonaRakExpr); err != nil {
		return nil, fmt.Errorf("zonarak expression: %w", err)
	}
	if client.lineRakExpr, err = compileExpr(opts.LineRakExpr); err != nil {
		return nil, fmt.Errorf("linerak expression: %w", err)
	}
	return client, nil
}

func compileExpr(expr string) (jmespath.JMESPath, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}
	return jmespath.Compile(expr)
}

// TableLokPlano fetches the planogram location table for one office and PLU.
func (c *PlanogroupClient) TableLokPlano(ctx context.Context, token, office, pluid string) CallResult {
	return c.post(ctx, token, "tablokplano", map[string]any{"office": office, "pluid": pluid}, nil)
}

// ZonaRak fetches the rack zones available for a rack type.
func (c *PlanogroupClient) ZonaRak(ctx context.Context, token, tiperak string) CallResult {
	return c.post(ctx, token, "zonarak", map[string]any{"tiperak": tiperak}, c.zonaRakExpr)
}

// LineRak fetches the lines within one rack zone.
func (c *PlanogroupClient) LineRak(ctx context.Context, token, tiperak, linerak string) CallResult {
	return c.post(ctx, token, "linerak", map[string]any{"tiperak": tiperak, "linerak": linerak}, c.lineRakExpr)
}

// SubmitNearestGroup posts a nearest-group selection. Groups are flattened
// into parallel one-based numbered maps, the wire format the warehouse
// service shares with its legacy clients.
func (c *PlanogroupClient) SubmitNearestGroup(ctx context.Context, token string, sub NearestGroupSubmission) CallResult {
	lines := make(map[string]string, len(sub.Groups))
	raks := make(map[string][]string, len(sub.Groups))
	for i, g := range sub.Groups {
		key := strconv.Itoa(i + 1)
		lines[key] = g.Line
		raks[key] = g.Rak
	}

	body := map[string]any{
		"PLU":      sub.PLUID,
		"IP":       sub.IP,
		"OFFICEID": sub.OfficeID,
		"TYPEPLA":  sub.TipePlano,
		"LINEPLA":  lines,
		"RAK_PLA":  raks,
	}

	res := c.post(ctx, token, "grouprak", body, nil)
	if res.Success && res.Message == "" {
		res.Message = "data submitted"
	}
	return res
}

// envelope is the optional service response wrapper. Many planogroup
// endpoints return bare arrays, so both fields stay pointers/absent-safe.
type postEnvelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

func (c *PlanogroupClient) post(ctx context.Context, token, operation string, body map[string]any, expr jmespath.JMESPath) CallResult {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return CallResult{Success: false, Message: err.Error()}
	}

	url := c.baseURL + "/main/planogroup/" + operation
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return CallResult{Success: false, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.count("planogroup."+operation+".network_error")
		c.logger.WarnContext(ctx, "planogroup call unreachable", "operation", operation, "error", err)
		return CallResult{Success: false, Message: "warehouse service unreachable"}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	c.timing("planogroup."+operation, time.Since(start))
	if err != nil {
		c.count("planogroup." + operation + ".network_error")
		return CallResult{Success: false, Message: "reading warehouse response failed"}
	}

	var data any
	var env postEnvelope
	if jsonErr := json.Unmarshal(raw, &data); jsonErr != nil {
		// The gateway occasionally answers with an HTML error page; the
		// call still counts by HTTP status, just without a payload.
		c.logger.WarnContext(ctx, "planogroup response not JSON", "operation", operation)
		data = nil
	} else {
		_ = json.Unmarshal(raw, &env)
	}

	httpOK := resp.StatusCode >= 200 && resp.StatusCode <= 299
	if !httpOK || (env.Success != nil && !*env.Success) {
		message := env.Message
		if message == "" {
			message = fmt.Sprintf("planogroup %s failed (%d)", operation, resp.StatusCode)
		}
		c.count("planogroup." + operation + ".failure")
		c.logger.InfoContext(ctx, "planogroup call rejected",
			"operation", operation, "status", resp.StatusCode, "reason", message)
		return CallResult{Success: false, Message: message}
	}

	if expr != nil && data != nil {
		extracted, err := expr.Search(data)
		if err != nil {
			c.logger.WarnContext(ctx, "planogroup extraction failed",
				"operation", operation, "error", err)
		} else {
			data = extracted
		}
	}

	c.count("planogroup." + operation + ".success")
	return CallResult{Success: true, Data: data, Message: env.Message}
}

func (c *PlanogroupClient) count(name string) {
	if c.metrics != nil {
		c.metrics.Count(name, 1, nil)
	}
}

func (c *PlanogroupClient) timing(name string, d time.Duration) {
	if c.metrics != nil {
		c.metrics.Timing(name, d, nil)
	}
}
