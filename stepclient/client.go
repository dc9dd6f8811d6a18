// ABOUTME: HTTP client for the remote step service
// ABOUTME: Posts the array and algorithm, retries transient failures, and decodes the step list

// Package stepclient fetches sorting steps from the step service over HTTP.
package stepclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"sort-visualizer/config"
	"sort-visualizer/logging"
	"sort-visualizer/step"
)

// RequestIDHeader carries a per-request id the service can log
const RequestIDHeader = "X-Request-ID"

// ErrTransport is matched by every failure to obtain a usable step list
var ErrTransport = errors.New("step service unavailable")

// TransportError describes a failed step request
type TransportError struct {
	Endpoint   string
	StatusCode int    // 0 when no response was received
	Detail     string // error message reported by the service, if any
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Detail != "":
		return fmt.Sprintf("%s returned %d: %s", e.Endpoint, e.StatusCode, e.Detail)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s returned %d", e.Endpoint, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
	default:
		return e.Endpoint + ": request failed"
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is makes every TransportError match ErrTransport
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// Options configures a Client
type Options struct {
	Endpoint     string
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Logger       *zap.SugaredLogger
}

// OptionsFromConfig builds client options from the service config section
func OptionsFromConfig(cfg config.ServiceConfig, logger *zap.SugaredLogger) Options {
	return Options{
		Endpoint:     cfg.Endpoint,
		Timeout:      cfg.Timeout(),
		RetryMax:     cfg.RetryMax,
		RetryWaitMin: cfg.RetryWaitMin(),
		RetryWaitMax: cfg.RetryWaitMax(),
		Logger:       logger,
	}
}

// Client talks to the step service
type Client struct {
	endpoint string
	resty    *resty.Client
	logger   *zap.SugaredLogger
}

var _ step.Producer = (*Client)(nil)

// New creates a client. Retries happen in the transport; resty itself never retries.
func New(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.RetryMax
	retryClient.RetryWaitMin = opts.RetryWaitMin
	retryClient.RetryWaitMax = opts.RetryWaitMax
	retryClient.Logger = logging.NewRetryLogger(logger)
	// Hand the final response back so the status code can be reported
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	restyClient := resty.NewWithClient(retryClient.StandardClient()).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "sort-visualizer/1.0").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetRetryCount(0).
		SetLogger(logger.Named("resty"))

	if opts.Timeout > 0 {
		restyClient.SetTimeout(opts.Timeout)
	}

	return &Client{
		endpoint: opts.Endpoint,
		resty:    restyClient,
		logger:   logger,
	}
}

// Endpoint returns the step service URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Fetch requests the steps for sorting req.Array with req.Algorithm
func (c *Client) Fetch(ctx context.Context, req step.Request) (step.Response, error) {
	if req.Array == nil {
		req.Array = []float64{}
	}

	requestID := uuid.NewString()
	start := time.Now()

	resp, err := c.resty.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, requestID).
		SetBody(req).
		Post(c.endpoint)
	if err != nil {
		c.logger.Warnw("step request failed", "request_id", requestID, "endpoint", c.endpoint, "error", err)
		return step.Response{}, &TransportError{Endpoint: c.endpoint, Err: err}
	}

	if !resp.IsSuccess() {
		terr := &TransportError{
			Endpoint:   c.endpoint,
			StatusCode: resp.StatusCode(),
			Detail:     errorDetail(resp.Body()),
			Err:        errors.New(http.StatusText(resp.StatusCode())),
		}
		c.logger.Warnw("step service error", "request_id", requestID, "status", resp.StatusCode(), "detail", terr.Detail)

		return step.Response{}, terr
	}

	out, err := step.DecodeResponse(resp.Body())
	if err != nil {
		c.logger.Warnw("undecodable step response", "request_id", requestID, "error", err)
		return step.Response{}, &TransportError{Endpoint: c.endpoint, StatusCode: 0, Err: err}
	}

	c.logger.Debugw("steps received",
		"request_id", requestID,
		"algorithm", req.Algorithm,
		"elements", len(req.Array),
		"steps", len(out.Steps),
		"skipped", out.Skipped,
		"elapsed", time.Since(start))

	return out, nil
}

// errorDetail extracts the "error" field the service puts in failure bodies
func errorDetail(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}

	if err := sonic.Unmarshal(body, &payload); err != nil {
		return ""
	}

	return payload.Error
}
