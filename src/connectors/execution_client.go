package connectors

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"swiftjobs/src/exception"
)

const (
	executeOrderPath = "/executeOrder/{orderId}/{secret}"
	seasonChangePath = "/runSeasonChange/{seasonCode}"
)

// ExecutionService triggers order execution and season rollover on the trading backend.
type ExecutionService interface {
	ExecuteOrder(ctx context.Context, orderID int64) error
	RunSeasonChange(ctx context.Context) error
}

// ExecutionClient is the HTTP client for the execution service. It never retries.
type ExecutionClient struct {
	http       *resty.Client
	secret     string
	seasonCode string
}

func NewExecutionClient(baseURL, secret, seasonCode string, timeout time.Duration) *ExecutionClient {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
		logger.Warnf("No execution base URL provided, using default: %s", baseURL)
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &ExecutionClient{
		http:       httpClient,
		secret:     secret,
		seasonCode: seasonCode,
	}
}

func NewExecutionClientFromConfig(cfg Config) *ExecutionClient {
	return NewExecutionClient(cfg.ExecutionBaseURL, cfg.ExecutionSecret, cfg.SeasonCode, cfg.ExecutionTimeout)
}

// ExecuteOrder asks the backend to execute one order.
func (c *ExecutionClient) ExecuteOrder(ctx context.Context, orderID int64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"orderId": strconv.FormatInt(orderID, 10),
			"secret":  c.secret,
		}).
		Post(executeOrderPath)

	return checkResponse(resp, err, fmt.Sprintf("execute order %d", orderID))
}

// RunSeasonChange asks the backend to roll the game over to the next season.
func (c *ExecutionClient) RunSeasonChange(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("seasonCode", c.seasonCode).
		Post(seasonChangePath)

	return checkResponse(resp, err, "season change")
}

// checkResponse never includes the request URL in the error, the path carries the secret.
func checkResponse(resp *resty.Response, err error, op string) error {
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("%w: %s: %w", exception.ErrNetwork, op, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%w: %s: HTTP %d: %s", exception.ErrNetwork, op, resp.StatusCode(), snippet(resp.Body(), 200))
	}
	return nil
}
