package client

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/httech/voltgo/internal/pkg/metrics"
)

// NewsService fetches scraped security articles
type NewsService struct {
	client *Client
}

// List returns krebs articles followed by threatpost articles.
// The scraper is public, so no credential is sent.
func (s *NewsService) List(ctx context.Context) ([]Article, error) {
	u, err := parseEndpoint(s.client.newsURL)
	if err != nil {
		metrics.RecordFetch("news", metrics.OutcomeInvalidURL, 0)
		return nil, err
	}

	body, err := s.client.do(ctx, http.MethodGet, u, "news", "", nil)
	if err != nil {
		return nil, err
	}

	var resp NewsResponse
	err = json.Unmarshal(body, &resp)
	decoded("news", err)
	if err != nil {
		return nil, &DecodeError{Index: -1, Err: err}
	}

	articles := make([]Article, 0, len(resp.Krebs)+len(resp.Threatpost))
	articles = append(articles, resp.Krebs...)
	articles = append(articles, resp.Threatpost...)
	for i := range articles {
		articles[i].ID = uuid.New()
	}
	return articles, nil
}
