package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"TrenchScan/internal/domain/models"
	"TrenchScan/internal/domain/repository"
	xhttp "TrenchScan/pkg/http"
	applogger "TrenchScan/pkg/logger"
)

// ErrTimeout marks an analysis request that exceeded its bounded wait.
var ErrTimeout = errors.New("scanner: analysis request timed out")

// APIError is a non-success response from the analysis service, carrying the
// server-provided message when one was present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("scanner: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("scanner: status %d", e.StatusCode)
}

// Client calls the remote token analysis API.
type Client struct {
	baseURL string
	http    *xhttp.Client
	metrics repository.Metrics
	logger  *applogger.Logger
}

// New creates an Analyzer backed by the analysis HTTP API. The timeout is
// the bounded wait for one analysis; exceeding it is reported as ErrTimeout.
func New(baseURL string, timeout time.Duration, metrics repository.Metrics, logger *applogger.Logger) repository.Analyzer {
	return &Client{
		baseURL: baseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		metrics: metrics,
		logger:  logger,
	}
}

type analyzeRequest struct {
	TokenAddress string `json:"tokenAddress"`
}

type errorBody struct {
	Message string `json:"message"`
}

// Analyze fetches the full analysis payload for a token address.
func (c *Client) Analyze(ctx context.Context, tokenAddress string) (*models.AnalysisPayload, error) {
	start := time.Now()

	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + "/analyze-token",
		Body:   analyzeRequest{TokenAddress: tokenAddress},
	})
	if err != nil {
		c.metrics.RecordError("scanner")
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("analysis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.RecordError("scanner")
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body errorBody
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
			apiErr.Message = body.Message
		}
		return nil, apiErr
	}

	var payload models.AnalysisPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.metrics.RecordError("scanner")
		return nil, fmt.Errorf("decode analysis payload: %w", err)
	}

	c.metrics.RecordLatency("analyze", time.Since(start).Seconds())
	c.logger.Debug("analysis fetched",
		applogger.String("token", tokenAddress),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return &payload, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
