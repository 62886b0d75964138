// Package boards fetches raw boards from the external work-tracking
// service. It owns auth, retry/backoff and the page-size cap; callers treat
// any returned error as fatal for that source.
package boards

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/crm-tools/board-insights/pkg/models/domain"
)

// Fetcher is the collaborator interface the plan executor consumes.
type Fetcher interface {
	FetchBoard(ctx context.Context, boardID string) (*domain.RawBoard, error)
}

var (
	ErrUnauthorized  = errors.New("work-tracking API rejected the access token")
	ErrRateLimited   = errors.New("work-tracking API rate limit exceeded")
	ErrBoardNotFound = errors.New("board is empty or does not exist")
)

const (
	defaultPageSize = 100
	defaultTimeout  = 30 * time.Second
	defaultRetries  = 3
)

type Settings struct {
	BaseURL  string
	Token    string
	PageSize int
	Timeout  time.Duration
	// Retries overrides the retry count when non-negative.
	Retries int
}

type Client struct {
	http     *resty.Client
	pageSize int
}

func NewClient(settings Settings) *Client {
	pageSize := settings.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := settings.Retries
	if retries < 0 {
		retries = defaultRetries
	}

	client := resty.New().
		SetBaseURL(settings.BaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", settings.Token).
		SetRetryCount(retries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(8 * time.Second)

	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		if r == nil {
			return false
		}
		code := r.StatusCode()
		return code == http.StatusTooManyRequests || code >= 500
	})

	return &Client{http: client, pageSize: pageSize}
}

// Wire models for the service's GraphQL-style response.
type boardsResponse struct {
	Data struct {
		Boards []wireBoard `json:"boards"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type wireBoard struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Columns []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Type  string `json:"type"`
	} `json:"columns"`
	ItemsPage struct {
		Items []struct {
			ID           string `json:"id"`
			Name         string `json:"name"`
			ColumnValues []struct {
				ID    string `json:"id"`
				Text  string `json:"text"`
				Value string `json:"value"`
				Type  string `json:"type"`
			} `json:"column_values"`
		} `json:"items"`
	} `json:"items_page"`
}

const boardQuery = `query {
  boards(ids: [%s]) {
    id
    name
    columns { id title type }
    items_page(limit: %d) {
      items {
        id
        name
        column_values { id text value type }
      }
    }
  }
}`

// FetchBoard retrieves one board with its schema and up to one page of
// items. Rate-limit and server errors are retried with exponential backoff
// before surfacing; the distinct sentinel errors let callers report why a
// source was unavailable.
func (c *Client) FetchBoard(ctx context.Context, boardID string) (*domain.RawBoard, error) {
	if boardID == "" {
		return nil, fmt.Errorf("%w: empty board id", ErrBoardNotFound)
	}

	body := map[string]string{"query": fmt.Sprintf(boardQuery, boardID, c.pageSize)}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/v2")
	if err != nil {
		return nil, fmt.Errorf("work-tracking API transport failure: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, fmt.Errorf("work-tracking API returned status %d", resp.StatusCode())
	}

	var parsed boardsResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("malformed work-tracking API response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("work-tracking API error: %s", parsed.Errors[0].Message)
	}
	if len(parsed.Data.Boards) == 0 {
		return nil, ErrBoardNotFound
	}

	return mapBoard(parsed.Data.Boards[0]), nil
}

func mapBoard(wire wireBoard) *domain.RawBoard {
	board := &domain.RawBoard{ID: wire.ID, Name: wire.Name}
	for _, col := range wire.Columns {
		board.Columns = append(board.Columns, domain.Column{ID: col.ID, Title: col.Title, Type: col.Type})
	}
	for _, item := range wire.ItemsPage.Items {
		mapped := domain.Item{ID: item.ID, Name: item.Name}
		for _, cell := range item.ColumnValues {
			mapped.Cells = append(mapped.Cells, domain.Cell{
				ColumnID: cell.ID,
				Text:     cell.Text,
				RawValue: cell.Value,
				Type:     cell.Type,
			})
		}
		board.Items = append(board.Items, mapped)
	}
	return board
}
