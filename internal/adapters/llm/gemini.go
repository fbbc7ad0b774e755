package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

const defaultModel = "gemini-2.5-flash"

// GeminiConfig selects the genai backend. With an API key the Gemini API
// is used, otherwise Vertex AI with Project and Location.
type GeminiConfig struct {
	APIKey      string
	Project     string
	Location    string
	Model       string
	Temperature float32
}

type GeminiClient struct {
	client      *genai.Client
	modelName   string
	temperature float32
}

// NewGeminiClient creates an LLMClient based on Gemini.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	cc := &genai.ClientConfig{}
	switch {
	case cfg.APIKey != "":
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	case cfg.Project != "" && cfg.Location != "":
		cc.Project = cfg.Project
		cc.Location = cfg.Location
		cc.Backend = genai.BackendVertexAI
	default:
		return nil, fmt.Errorf("%w: gemini needs an api key or a project and location", domain.ErrConfig)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	temp := cfg.Temperature
	if temp <= 0 {
		temp = 0.6
	}
	return &GeminiClient{client: client, modelName: model, temperature: temp}, nil
}

// Generate implements domain.LLMClient.
func (g *GeminiClient) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(req.User, genai.RoleUser)}

	temp := g.temperature
	topP := float32(0.9)
	topK := float32(40)

	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		TopP:            &topP,
		TopK:            &topK,
		MaxOutputTokens: int32(2048),
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", classify(err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned empty text", domain.ErrGeneration)
	}
	return text, nil
}

// classify maps genai failures onto the domain error kinds.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: gemini generate content: %w", domain.ErrTransient, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("gemini generate content: %w", err)
	}

	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}
	return wrapStatus(code, err)
}

func wrapStatus(code int, err error) error {
	switch {
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: gemini generate content: %w", domain.ErrQuotaExceeded, err)
	case code == http.StatusRequestTimeout || code >= 500:
		return fmt.Errorf("%w: gemini generate content: %w", domain.ErrTransient, err)
	default:
		return fmt.Errorf("gemini generate content: %w", err)
	}
}
