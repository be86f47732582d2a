package lepton

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leptonsearch/lepton-go/metrics"
)

const defaultBaseURL = "https://search.lepton.run/api"

// The upstream endpoint is served behind the web UI and expects a
// browser-shaped request.
var defaultHeaders = map[string]string{
	"accept":          "*/*",
	"accept-language": "en-US,en;q=0.5",
	"content-type":    "text/plain;charset=UTF-8",
	"origin":          "https://search.lepton.run",
	"user-agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
}

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
}

type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: cfg.BaseURL,
		client:  cfg.HTTPClient,
		logger:  logger,
		metrics: cfg.Metrics,
	}
}

// SearchRequest carries one query. Echo, when non-nil, receives answer
// fragments as they arrive; it does not affect the returned result.
type SearchRequest struct {
	Query string
	Echo  io.Writer
}

type queryRequest struct {
	Query string `json:"query"`
	RID   string `json:"rid"`
}

// Search issues a single query and blocks until the response stream
// completes. One attempt, no retries; cancellation goes through ctx.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	start := time.Now()
	result, err := c.search(ctx, req)

	if c.metrics != nil {
		c.metrics.RecordSearch(statusLabel(err), time.Since(start))
		if errors.Is(err, ErrParsing) {
			c.metrics.RecordParseFailure()
		}
		if result != nil {
			c.metrics.AddAnswerBytes(len(result.Response))
		}
	}

	return result, err
}

func (c *Client) search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	query, err := validateQuery(req.Query)
	if err != nil {
		return nil, err
	}

	rid := uuid.New().String()
	body, err := json.Marshal(queryRequest{Query: query, RID: rid})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrConnection, err)
	}
	for k, v := range defaultHeaders {
		httpReq.Header.Set(k, v)
	}

	c.logger.Debug("issuing search request",
		zap.String("rid", rid),
		zap.Int("query_len", len(query)),
	)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("search request failed",
			zap.String("rid", rid),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)),
		)
		return nil, fmt.Errorf("%w: status %d", ErrConnection, resp.StatusCode)
	}

	parser := &streamParser{echo: req.Echo, logger: c.logger}
	result, err := parser.parse(resp.Body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("search stream complete",
		zap.String("rid", rid),
		zap.Int("contexts", len(result.Contexts)),
		zap.Int("related_questions", len(result.RelatedQuestions)),
	)
	return result, nil
}

func statusLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrParsing):
		return "parse_error"
	case errors.Is(err, ErrConnection):
		return "connection_error"
	default:
		return "error"
	}
}
