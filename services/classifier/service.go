// Package classifier calls the downstream taxonomy classifier. The model
// itself is an external collaborator; this package owns prompt assembly,
// the HTTP call, and result-shape enforcement.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/upb/classification-gateway/config"
	"github.com/upb/classification-gateway/internal/taxonomy"
	"github.com/upb/classification-gateway/models"
	"github.com/upb/classification-gateway/services"
	"go.uber.org/zap"
)

const systemPrompt = `You are a product taxonomy classifier. Given a product description and a category taxonomy, pick the single best matching category. Respond with a JSON object containing exactly these fields: description, id, parent_id, name, tier_1, tier_2, tier_3, tier_4. Copy id, parent_id, name and the tier fields from the chosen taxonomy category and echo the description back.`

// Classifier classifies a free-text description against the taxonomy.
type Classifier interface {
	Classify(ctx context.Context, description string) (*models.ClassificationResult, error)
}

// Service is the OpenAI-backed Classifier.
type Service struct {
	config     config.ClassifierConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewService creates a classifier service.
func NewService(cfg config.ClassifierConfig, logger *zap.Logger) *Service {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Service{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// chat completion wire types, trimmed to what the classifier uses
type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Classify implements Classifier. The taxonomy is re-read on every call so
// external edits to the file are picked up without a restart.
func (s *Service) Classify(ctx context.Context, description string) (*models.ClassificationResult, error) {
	tax, err := taxonomy.Load(s.config.TaxonomyPath)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeExternal, "taxonomy unavailable", err)
	}

	taxJSON, err := tax.JSON()
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeExternal, "taxonomy unavailable", err)
	}

	userPrompt := fmt.Sprintf("Taxonomy:\n%s\n\nProduct description:\n%s", taxJSON, description)

	raw, err := s.complete(ctx, userPrompt)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeExternal, "classification failed", err)
	}

	result, missing, err := models.ParseClassificationResult(raw)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeExternal, "classification failed", err)
	}
	if len(missing) > 0 {
		return nil, services.ErrIncompleteResult.WithDetail("missing_fields", missing)
	}

	return result, nil
}

// complete performs one chat completion call with retry on 5xx.
func (s *Service) complete(ctx context.Context, userPrompt string) ([]byte, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model: s.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature:    0,
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var resp *http.Response
	var lastErr error
	for attempt := 0; attempt <= s.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/chat/completions", bytes.NewReader(reqBody))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

		resp, lastErr = s.httpClient.Do(req)
		if lastErr == nil && resp.StatusCode < 500 {
			break
		}
		if resp != nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			resp = nil
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("classifier request failed: %w", lastErr)
	}
	if resp == nil {
		return nil, fmt.Errorf("classifier request failed after %d attempts", s.config.MaxRetries+1)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("classifier returned no choices")
	}

	return []byte(chatResp.Choices[0].Message.Content), nil
}
