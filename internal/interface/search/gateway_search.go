package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"medtour-itinerary-service/internal/domain/entity"
	"medtour-itinerary-service/internal/domain/repository"
	"medtour-itinerary-service/pkg/logger"
)

// GatewaySearchRepository calls an HTTP search gateway that returns page content for a query
type GatewaySearchRepository struct {
	client  *http.Client
	baseURL string
	apiKey  string
	logger  logger.Logger
}

// NewGatewaySearchRepository creates a gateway client. client should already carry
// authentication (OAuth2) when the gateway requires it; apiKey is sent as a bearer token
// otherwise.
func NewGatewaySearchRepository(client *http.Client, baseURL, apiKey string, logger logger.Logger) repository.RouteSearchRepository {
	return &GatewaySearchRepository{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		logger:  logger,
	}
}

type gatewayRequest struct {
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	SearchDepth   string `json:"search_depth"`
	IncludeAnswer bool   `json:"include_answer"`
}

type gatewayResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// WebSearch posts the query to the gateway. detailed asks for the deeper, slower search.
func (r *GatewaySearchRepository) WebSearch(ctx context.Context, query string, maxResults int, detailed bool) ([]entity.SearchResult, error) {
	depth := "basic"
	if detailed {
		depth = "advanced"
	}
	jsonData, err := json.Marshal(gatewayRequest{
		Query:         query,
		MaxResults:    maxResults,
		SearchDepth:   depth,
		IncludeAnswer: detailed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/search", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send search request: %w", err)
	}
	defer resp.Body.Close()

	var body gatewayResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search gateway returned status %d: %s", resp.StatusCode, body.Error.Message)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", decodeErr)
	}

	results := make([]entity.SearchResult, 0, len(body.Results)+1)
	if body.Answer != "" {
		results = append(results, entity.SearchResult{Title: "answer", Content: body.Answer})
	}
	for _, item := range body.Results {
		results = append(results, entity.SearchResult{
			Title:   item.Title,
			URL:     item.URL,
			Content: item.Content,
		})
	}

	r.logger.Debug("Gateway search completed", "query", query, "results", len(results))
	return results, nil
}
