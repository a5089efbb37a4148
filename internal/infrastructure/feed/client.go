// Package feed fetches provider plan feeds and turns them into catalog
// entities.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/orris-inc/plansearch/internal/domain/catalog"
	"github.com/orris-inc/plansearch/internal/shared/constants"
	"github.com/orris-inc/plansearch/internal/shared/logger"
)

// StatusError is returned when a provider answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("feed %s answered HTTP %d", e.URL, e.StatusCode)
}

type ClientOptions struct {
	Timeout      time.Duration
	RetryCount   int
	RetryWait    time.Duration
	RetryMaxWait time.Duration
	UserAgent    string
}

// Client downloads provider feeds. It is safe for concurrent use.
type Client struct {
	http   *resty.Client
	logger logger.Interface
}

func NewClient(opts ClientOptions, logger logger.Interface) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = time.Second
	}
	if opts.RetryMaxWait <= 0 {
		opts.RetryMaxWait = 5 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "plansearch-worker"
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(opts.RetryWait).
		SetRetryMaxWaitTime(opts.RetryMaxWait).
		SetHeader("Accept", constants.ContentTypeXML).
		SetHeader(constants.HeaderUserAgent, opts.UserAgent).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// retry transport failures and server errors, never 4xx
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &Client{http: client, logger: logger}
}

// Fetch downloads the raw feed body of url.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := catalog.ValidateFeedURL(url); err != nil {
		return nil, err
	}

	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		c.logger.Warnw("feed request failed", "url", url, "error", err)
		return nil, fmt.Errorf("failed to fetch feed %s: %w", url, err)
	}
	if !resp.IsSuccess() {
		c.logger.Warnw("feed answered with error status", "url", url, "status", resp.StatusCode())
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode()}
	}

	c.logger.Debugw("feed fetched", "url", url, "bytes", len(resp.Body()), "duration", resp.Time())
	return resp.Body(), nil
}
