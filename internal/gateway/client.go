// Package gateway provides the typed client for the dashboard backend API.
// It is a pure I/O boundary: it shapes requests, decodes tagged responses,
// and classifies failures, but contains no view logic.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ledgerview/ledgerview/internal/common"
	"github.com/ledgerview/ledgerview/internal/model"
	"github.com/ledgerview/ledgerview/internal/session"
)

// maxPageSize is the backend's cap on the transactions limit parameter.
const maxPageSize = 200

// Config holds gateway configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Validate ensures all required fields are present.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("gateway base URL is required: %w", common.ErrMissingConfig)
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid gateway base URL: %w", err)
	}
	return nil
}

// TransactionQuery is the concrete query shape for GET /transactions. The
// zero value of an optional field omits it from the request. The struct is
// comparable so callers can detect identical consecutive queries.
type TransactionQuery struct {
	StartDate model.Date
	EndDate   model.Date
	AccountID int
	Category  string
	Search    string
	Skip      int
	Limit     int
}

// Values encodes the query as URL parameters.
func (q TransactionQuery) Values() url.Values {
	v := url.Values{}
	if !q.StartDate.IsZero() {
		v.Set("start_date", q.StartDate.String())
	}
	if !q.EndDate.IsZero() {
		v.Set("end_date", q.EndDate.String())
	}
	if q.AccountID != 0 {
		v.Set("account_id", strconv.Itoa(q.AccountID))
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Skip > 0 {
		v.Set("skip", strconv.Itoa(q.Skip))
	}
	if q.Limit > 0 {
		limit := q.Limit
		if limit > maxPageSize {
			limit = maxPageSize
		}
		v.Set("limit", strconv.Itoa(limit))
	}
	return v
}

// SummaryPeriod selects the reporting window for GET /transactions/summary.
type SummaryPeriod string

// Supported summary periods.
const (
	SummaryDay     SummaryPeriod = "day"
	SummaryWeek    SummaryPeriod = "week"
	SummaryMonth   SummaryPeriod = "month"
	SummaryQuarter SummaryPeriod = "quarter"
	SummaryYear    SummaryPeriod = "year"
)

// Validate checks that the period is one the backend accepts.
func (p SummaryPeriod) Validate() error {
	switch p {
	case SummaryDay, SummaryWeek, SummaryMonth, SummaryQuarter, SummaryYear:
		return nil
	}
	return fmt.Errorf("invalid summary period: %q", p)
}

// BudgetPatch carries a partial budget update. Nil fields are left unchanged.
type BudgetPatch struct {
	Amount         *float64            `json:"amount,omitempty"`
	Period         *model.BudgetPeriod `json:"period,omitempty"`
	IsActive       *bool               `json:"is_active,omitempty"`
	AlertThreshold *float64            `json:"alert_threshold,omitempty"`
}

// Client is the HTTP implementation of the Gateway interface.
type Client struct {
	httpClient *http.Client
	session    *session.Session
	logger     *slog.Logger
	baseURL    string
	retryOpts  common.RetryOptions
}

// NewClient creates a gateway client. The session's credential is attached
// to every request by the session round tripper.
func NewClient(cfg Config, sess *session.Session) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("session is required")
	}

	return &Client{
		httpClient: &http.Client{
			Transport: &session.RoundTripper{Session: sess},
			Timeout:   cfg.Timeout,
		},
		session: sess,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  slog.Default().With("component", "gateway"),
		retryOpts: common.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// ListTransactions fetches transactions matching the query.
func (c *Client) ListTransactions(ctx context.Context, query TransactionQuery) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := c.getWithRetry(ctx, "/transactions", query.Values(), &txns)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Fetched transactions", "count", len(txns))
	return txns, nil
}

// SyncTransactions triggers a remote synchronization against the bank-link
// provider. It is never retried automatically: a repeated trigger could
// duplicate the sync side effects.
func (c *Client) SyncTransactions(ctx context.Context) (model.SyncResult, error) {
	var result model.SyncResult
	if err := c.do(ctx, http.MethodPost, "/transactions/sync", nil, nil, &result); err != nil {
		return model.SyncResult{}, err
	}

	c.logger.Info("Sync complete", "created", result.Created, "updated", result.Updated)
	return result, nil
}

// GetSummary fetches the aggregate summary for a reporting period.
func (c *Client) GetSummary(ctx context.Context, period SummaryPeriod) (model.PeriodSummary, error) {
	if err := period.Validate(); err != nil {
		return model.PeriodSummary{}, err
	}

	v := url.Values{}
	v.Set("period", string(period))

	var summary model.PeriodSummary
	if err := c.getWithRetry(ctx, "/transactions/summary", v, &summary); err != nil {
		return model.PeriodSummary{}, err
	}
	return summary, nil
}

// accountsResponse matches the backend's {accounts: [...]} envelope.
type accountsResponse struct {
	Accounts []model.Account `json:"accounts"`
}

// ListAccounts fetches all linked accounts.
func (c *Client) ListAccounts(ctx context.Context) ([]model.Account, error) {
	var resp accountsResponse
	if err := c.getWithRetry(ctx, "/accounts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

// ListBudgetStatuses fetches every budget with its backend-computed spend
// figure for the current period.
func (c *Client) ListBudgetStatuses(ctx context.Context) ([]model.BudgetStatus, error) {
	var statuses []model.BudgetStatus
	if err := c.getWithRetry(ctx, "/budgets/status", nil, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

// CreateBudget creates a new budget definition.
func (c *Client) CreateBudget(ctx context.Context, budget model.Budget) (model.Budget, error) {
	if err := budget.Validate(); err != nil {
		return model.Budget{}, err
	}

	var created model.Budget
	if err := c.do(ctx, http.MethodPost, "/budgets", nil, budget, &created); err != nil {
		return model.Budget{}, err
	}
	return created, nil
}

// UpdateBudget applies a partial update to an existing budget.
func (c *Client) UpdateBudget(ctx context.Context, id int, patch BudgetPatch) (model.Budget, error) {
	var updated model.Budget
	path := fmt.Sprintf("/budgets/%d", id)
	if err := c.do(ctx, http.MethodPatch, path, nil, patch, &updated); err != nil {
		return model.Budget{}, err
	}
	return updated, nil
}

// DeleteBudget removes a budget definition.
func (c *Client) DeleteBudget(ctx context.Context, id int) error {
	path := fmt.Sprintf("/budgets/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// ListInsights fetches active (non-dismissed) insights.
func (c *Client) ListInsights(ctx context.Context) ([]model.Insight, error) {
	var insights []model.Insight
	if err := c.getWithRetry(ctx, "/insights", nil, &insights); err != nil {
		return nil, err
	}
	return insights, nil
}

// GenerateInsights asks the remote service to produce a fresh ranked set.
// Not retried: the backend rate-limits generation.
func (c *Client) GenerateInsights(ctx context.Context) ([]model.Insight, error) {
	var insights []model.Insight
	if err := c.do(ctx, http.MethodPost, "/insights/generate", nil, nil, &insights); err != nil {
		return nil, err
	}
	return insights, nil
}

// DismissInsight marks an insight as dismissed.
func (c *Client) DismissInsight(ctx context.Context, id int) error {
	path := fmt.Sprintf("/insights/%d/dismiss", id)
	return c.do(ctx, http.MethodPatch, path, nil, nil, nil)
}

// getWithRetry wraps an idempotent GET in the retry helper.
func (c *Client) getWithRetry(ctx context.Context, path string, query url.Values, out any) error {
	return common.WithRetry(ctx, func() error {
		return c.do(ctx, http.MethodGet, path, query, nil, out)
	}, c.retryOpts)
}

// do executes one request and decodes the JSON response into out. Unknown
// response fields are ignored so additive backend changes stay compatible.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport failures are transient as far as reads are concerned.
		return &common.RetryableError{
			Err:       fmt.Errorf("%w: %v", common.ErrGatewayUnavailable, err),
			Retryable: true,
		}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := c.checkStatus(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// checkStatus maps non-2xx responses onto the error taxonomy.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// Drain enough of the body to surface the backend's detail message.
	detail := readErrorDetail(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		// Terminal for the current cycle; the session collaborator owns
		// credential teardown and redirect.
		c.session.Invalidate()
		c.logger.Warn("Credential rejected by backend")
		return common.ErrAuthExpired
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusTooManyRequests:
		return &common.RetryableError{Err: common.ErrRateLimit, Retryable: true}
	}

	err := fmt.Errorf("%w: %s %s", common.ErrGatewayUnavailable, resp.Status, detail)
	if resp.StatusCode >= 500 {
		return &common.RetryableError{Err: err, Retryable: true}
	}
	return err
}

// readErrorDetail extracts the backend's {"detail": ...} message when present.
func readErrorDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(raw))
}

// Ensure Client implements the Gateway interface.
var _ Gateway = (*Client)(nil)
