package search

import (
	"context"
	"fmt"
	"strings"

	"medtour-itinerary-service/internal/domain/entity"
	"medtour-itinerary-service/internal/domain/repository"
	"medtour-itinerary-service/pkg/logger"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// Custom Search returns at most 10 results per call
const googleMaxResults = 10

// GoogleSearchRepository queries the Google Custom Search JSON API
type GoogleSearchRepository struct {
	service  *customsearch.Service
	engineID string
	logger   logger.Logger
}

// NewGoogleSearchRepository creates a search backend for one programmable search engine
func NewGoogleSearchRepository(ctx context.Context, apiKey, engineID string, logger logger.Logger) (repository.RouteSearchRepository, error) {
	service, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create custom search service: %w", err)
	}
	return &GoogleSearchRepository{
		service:  service,
		engineID: engineID,
		logger:   logger,
	}, nil
}

// WebSearch runs one query. detailed appends the HTML snippet to the plain one.
func (r *GoogleSearchRepository) WebSearch(ctx context.Context, query string, maxResults int, detailed bool) ([]entity.SearchResult, error) {
	if maxResults <= 0 || maxResults > googleMaxResults {
		maxResults = googleMaxResults
	}

	resp, err := r.service.Cse.List().
		Cx(r.engineID).
		Q(query).
		Num(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("custom search failed: %w", err)
	}

	results := make([]entity.SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		content := item.Snippet
		if detailed && item.HtmlSnippet != "" {
			content = strings.Join([]string{item.Snippet, item.HtmlSnippet}, "\n")
		}
		results = append(results, entity.SearchResult{
			Title:   item.Title,
			URL:     item.Link,
			Content: content,
		})
	}

	r.logger.Debug("Custom search completed", "query", query, "results", len(results))
	return results, nil
}
