package reviews

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"reviewhub/pkg/models"
)

// StoreError is a non-2xx answer from the REST store. It is logged, never
// shown to API callers.
type StoreError struct {
	Op      string
	Status  int
	Code    string
	Message string
}

func (e *StoreError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: status %d (%s): %s", e.Op, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
}

// postgrestError is the error body PostgREST returns.
type postgrestError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// RESTRepo is a Store talking to a PostgREST endpoint, the API hosted
// Postgres services (Supabase and friends) put in front of their tables.
type RESTRepo struct {
	client *resty.Client
	table  string
}

// NewRESTRepo sets no client timeout; calls are bounded by the caller's
// context, as with the SQL store.
func NewRESTRepo(baseURL, apiKey, table string) *RESTRepo {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")+"/rest/v1").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetHeader("apikey", apiKey).SetAuthToken(apiKey)
	}
	return &RESTRepo{client: client, table: table}
}

func (r *RESTRepo) path() string {
	return "/" + url.PathEscape(r.table)
}

func (r *RESTRepo) Create(ctx context.Context, in models.NewReview) (*models.Review, error) {
	var rows []models.Review
	var apiErr postgrestError

	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=representation").
		SetBody([]models.NewReview{in}).
		SetResult(&rows).
		SetError(&apiErr).
		Post(r.path())
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}
	if resp.IsError() {
		return nil, newStoreError("insert review", resp, apiErr)
	}
	if len(rows) == 0 {
		return nil, errors.New("insert review: no row returned")
	}
	return &rows[0], nil
}

func (r *RESTRepo) List(ctx context.Context) ([]models.Review, error) {
	rows := make([]models.Review, 0)
	var apiErr postgrestError

	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"select": "id,email,rating,text,created_at",
			"order":  "created_at.desc,id.desc",
		}).
		SetResult(&rows).
		SetError(&apiErr).
		Get(r.path())
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if resp.IsError() {
		return nil, newStoreError("list reviews", resp, apiErr)
	}
	if rows == nil {
		rows = []models.Review{}
	}
	return rows, nil
}

// Ping reads at most one id to prove the endpoint and key work.
func (r *RESTRepo) Ping(ctx context.Context) error {
	var apiErr postgrestError
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"select": "id", "limit": "1"}).
		SetError(&apiErr).
		Get(r.path())
	if err != nil {
		return fmt.Errorf("ping rest store: %w", err)
	}
	if resp.IsError() {
		return newStoreError("ping rest store", resp, apiErr)
	}
	return nil
}

func newStoreError(op string, resp *resty.Response, apiErr postgrestError) *StoreError {
	msg := apiErr.Message
	if msg == "" {
		msg = strings.TrimSpace(resp.String())
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode())
	}
	return &StoreError{
		Op:      op,
		Status:  resp.StatusCode(),
		Code:    apiErr.Code,
		Message: msg,
	}
}
