package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"reviewhub/pkg/models"
)

// APIError is a non-2xx answer from the review API. Message is the
// generic text the API returns in its error field.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s failed (%d): %s", e.Method, e.Path, e.Status, e.Message)
}

type errorBody struct {
	Error string `json:"error"`
}

// Client talks to the review HTTP API. It satisfies reviews.Store.
type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Accept", "application/json").
			SetTimeout(timeout),
	}
}

func (c *Client) Create(ctx context.Context, in models.NewReview) (*models.Review, error) {
	var out models.Review
	var apiErr errorBody

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(in).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/reviews")
	if err != nil {
		return nil, fmt.Errorf("submit review: %w", err)
	}
	if resp.IsError() {
		return nil, newAPIError(resp, apiErr)
	}
	return &out, nil
}

func (c *Client) List(ctx context.Context) ([]models.Review, error) {
	out := make([]models.Review, 0)
	var apiErr errorBody

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&apiErr).
		Get("/api/reviews")
	if err != nil {
		return nil, fmt.Errorf("fetch reviews: %w", err)
	}
	if resp.IsError() {
		return nil, newAPIError(resp, apiErr)
	}
	return out, nil
}

func newAPIError(resp *resty.Response, body errorBody) *APIError {
	msg := body.Error
	if msg == "" {
		msg = strings.TrimSpace(resp.String())
	}
	return &APIError{
		Method:  resp.Request.Method,
		Path:    resp.Request.URL,
		Status:  resp.StatusCode(),
		Message: msg,
	}
}
