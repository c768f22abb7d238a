package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/annotation-microservice/internal/config"
	"github.com/annotation-microservice/internal/domain/repository"
	"go.uber.org/zap"
)

// serviceNamePattern restricts which service identifiers may be proxied;
// the identifier comes straight from template data types.
var serviceNamePattern = regexp.MustCompile(`^[a-z0-9:_-]+$`)

type client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewSuggestClient creates the proxy client for the external value-suggest
// autocomplete service.
func NewSuggestClient(cfg *config.SuggestConfig, logger *zap.Logger) repository.SuggestRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		baseURL: cfg.BaseURL,
		logger:  logger,
	}
}

// Suggest queries the autocomplete service for one valuesuggest data type.
func (c *client) Suggest(ctx context.Context, service, query string) ([]repository.Suggestion, error) {
	if !serviceNamePattern.MatchString(service) {
		return nil, fmt.Errorf("invalid suggest service %q", service)
	}
	if query == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/%s?q=%s", c.baseURL, url.PathEscape(service), url.QueryEscape(query))

	c.logger.Debug("Calling suggest service",
		zap.String("service", service),
		zap.String("query", query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Suggest service returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("suggest service error: status %d", resp.StatusCode)
	}

	var suggestions []repository.Suggestion
	if err := json.NewDecoder(resp.Body).Decode(&suggestions); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return suggestions, nil
}
