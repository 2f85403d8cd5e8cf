package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiService issues one generate-content call per invocation. It never retries.
type GeminiService interface {
	GenerateContent(ctx context.Context, content *genai.Content) (string, error)
	Model() string
}

type geminiService struct {
	client    *genai.Client
	modelName string
	logger    *zap.Logger
}

func NewGeminiService(ctx context.Context, apiKey, modelName string, logger *zap.Logger) (GeminiService, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:    client,
		modelName: modelName,
		logger:    logger,
	}, nil
}

// GenerateContent implements GeminiService.
func (g *geminiService) GenerateContent(ctx context.Context, content *genai.Content) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, []*genai.Content{content}, nil)
	if err != nil {
		g.logger.Error("gemini api error", zap.String("model", g.modelName), zap.Error(err))
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if resp == nil {
		return "", errors.New("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		reason := ""
		if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
			reason = string(resp.Candidates[0].FinishReason)
		}
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			reason = string(resp.PromptFeedback.BlockReason)
		}
		g.logger.Warn("gemini response has no text", zap.String("model", g.modelName), zap.String("reason", reason))
		if reason != "" {
			return "", fmt.Errorf("no text content in response (reason: %s)", reason)
		}
		return "", errors.New("no text content in response")
	}

	return text, nil
}

// Model implements GeminiService.
func (g *geminiService) Model() string {
	return g.modelName
}
