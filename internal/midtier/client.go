// Package midtier is the HTTP client for the remote amortization service.
package midtier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/gheinze-sandbox/accounted4/internal/config"
	"github.com/gheinze-sandbox/accounted4/internal/loanterm"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RequestIDHeader carries a per-call id so both sides can correlate logs.
const RequestIDHeader = "X-Request-ID"

const (
	pathMonthlyPayment  = "/amortization/monthlyPayment"
	pathSchedule        = "/amortization/schedule.json"
	pathPrepareSchedule = "/amortization/prepareSchedule"
	pathScheduleDoc     = "/amortization/showSchedule/pdf/"
)

// Client calls the amortization service. It is safe for concurrent use.
type Client struct {
	client  *resty.Client
	logger  *zap.Logger
	baseURL string
}

// NewClient builds a client for the service described by cfg.
func NewClient(logger *zap.Logger, cfg config.ServiceConfig) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetLogger(logger.Sugar()).
		SetRetryCount(cfg.RetryCount)

	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	if cfg.RetryCount > 0 {
		client.SetRetryWaitTime(100 * time.Millisecond).
			SetRetryMaxWaitTime(2 * time.Second).
			AddRetryCondition(retryCondition)
	}
	if cfg.Debug {
		client.SetDebug(true)
	}

	return &Client{client: client, logger: logger, baseURL: baseURL}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid service base URL: %w", err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return "", fmt.Errorf("service base URL must be absolute, got: %q", raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("service base URL scheme must be http or https, got: %s", parsed.Scheme)
	}
	return trimmed, nil
}

// retryCondition only applies when retries are enabled in the configuration.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= 500 || code == 429 || code == 408
}

// MonthlyPayment asks the service for the regular payment on req.
func (c *Client) MonthlyPayment(ctx context.Context, req loanterm.Request) (decimal.Decimal, error) {
	var money Money
	if err := c.post(ctx, "midtier.MonthlyPayment", pathMonthlyPayment, MsgMonthlyPaymentFailed, req, &money); err != nil {
		return decimal.Decimal{}, err
	}
	return money.Amount, nil
}

// Schedule asks the service for the payment schedule on req.
func (c *Client) Schedule(ctx context.Context, req loanterm.Request) ([]ScheduledPayment, error) {
	var rows []ScheduledPayment
	if err := c.post(ctx, "midtier.Schedule", pathSchedule, MsgScheduleFailed, req, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []ScheduledPayment{}
	}
	return rows, nil
}

// PrepareSchedule stores req with the service and returns the id under which
// the rendered schedule document can be fetched.
func (c *Client) PrepareSchedule(ctx context.Context, req loanterm.Request) (DocumentID, error) {
	const op = "midtier.PrepareSchedule"

	var doc documentResponse
	if err := c.post(ctx, op, pathPrepareSchedule, MsgPrepareFailed, req, &doc); err != nil {
		return "", err
	}
	if strings.TrimSpace(string(doc.ID)) == "" {
		return "", &ServiceError{Op: op, Message: MsgPrepareFailed, Err: ErrEmptyDocumentID}
	}
	return doc.ID, nil
}

// ScheduleDocumentURL is where a browser can fetch the document directly.
func (c *Client) ScheduleDocumentURL(id DocumentID) string {
	return c.baseURL + pathScheduleDoc + url.PathEscape(string(id))
}

// FetchScheduleDocument streams the PDF for id into w.
func (c *Client) FetchScheduleDocument(ctx context.Context, id DocumentID, w io.Writer) error {
	const op = "midtier.FetchScheduleDocument"

	if strings.TrimSpace(string(id)) == "" {
		return ErrEmptyDocumentID
	}

	requestID := uuid.NewString()
	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, requestID).
		SetHeader("Accept", "application/pdf").
		SetDoNotParseResponse(true).
		Get(pathScheduleDoc + url.PathEscape(string(id)))
	if err != nil {
		return c.fail(op, requestID, MsgDocumentFailed, 0, err)
	}

	body := resp.RawBody()
	defer func() {
		if closeErr := body.Close(); closeErr != nil {
			c.logger.Warn("failed to close document body",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	if !resp.IsSuccess() {
		return c.fail(op, requestID, MsgDocumentFailed, resp.StatusCode(), fmt.Errorf("unexpected status %s", resp.Status()))
	}

	n, err := io.Copy(w, body)
	if err != nil {
		return c.fail(op, requestID, MsgDocumentFailed, 0, fmt.Errorf("failed to read document: %w", err))
	}

	c.logger.Debug("schedule document fetched",
		zap.String("op", op),
		zap.String("requestId", requestID),
		zap.Int64("bytes", n),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func (c *Client) post(ctx context.Context, op, path, message string, body, out interface{}) error {
	requestID := uuid.NewString()
	start := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, requestID).
		SetBody(body).
		Post(path)
	if err != nil {
		return c.fail(op, requestID, message, 0, err)
	}

	if !resp.IsSuccess() {
		return c.fail(op, requestID, message, resp.StatusCode(),
			fmt.Errorf("unexpected response: %s", strings.TrimSpace(resp.String())))
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return c.fail(op, requestID, message, 0, fmt.Errorf("failed to decode response: %w", err))
	}

	c.logger.Debug("amortization service call succeeded",
		zap.String("op", op),
		zap.String("requestId", requestID),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func (c *Client) fail(op, requestID, message string, status int, err error) error {
	c.logger.Error("amortization service call failed",
		zap.String("op", op),
		zap.String("requestId", requestID),
		zap.Int("status", status),
		zap.Error(err),
	)
	return &ServiceError{Op: op, Status: status, Message: message, Err: err}
}
