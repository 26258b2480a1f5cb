package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/aharui/backend/config"
)

const (
	defaultGeminiURL   = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultGeminiModel = "gemini-2.0-flash"
)

// GenerationConfig controls sampling on the text generation side
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// DefaultGenerationConfig is used for every prompt this service sends
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:     0.7,
		TopK:            40,
		TopP:            0.95,
		MaxOutputTokens: 8192,
	}
}

// TextGenerator sends a prompt and returns the model's text
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, cfg GenerationConfig) (string, error)
}

// GeminiClient calls the Gemini generateContent REST endpoint
type GeminiClient struct {
	apiKey     string
	apiURL     string
	model      string
	httpClient *http.Client
}

var _ TextGenerator = (*GeminiClient)(nil)

// NewGeminiClient builds a client from the config. The key may also come from
// the file named by GEMINI_API_KEY_FILE. A missing key is not an error here;
// every Generate call reports the service as unavailable instead.
func NewGeminiClient(cfg *config.Config) (*GeminiClient, error) {
	apiKey := cfg.GeminiAPIKey
	if apiKey == "" {
		if apiKeyFile := os.Getenv("GEMINI_API_KEY_FILE"); apiKeyFile != "" {
			data, err := os.ReadFile(apiKeyFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read API key file: %w", err)
			}
			apiKey = strings.TrimSpace(string(data))
		}
	}
	if apiKey == "" {
		log.Printf("[Gemini] No API key configured, AI features are disabled")
	}

	apiURL := cfg.GeminiAPIURL
	if apiURL == "" {
		apiURL = os.Getenv("GEMINI_API_URL")
	}
	if apiURL == "" {
		apiURL = defaultGeminiURL
	}

	model := cfg.GeminiModel
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiClient{
		apiKey:     apiKey,
		apiURL:     strings.TrimRight(apiURL, "/"),
		model:      model,
		httpClient: &http.Client{},
	}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

type geminiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends a single generateContent request. Errors carry the
// provider's status text so they can be classified by the caller.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, cfg GenerationConfig) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("UNAVAILABLE: GEMINI_API_KEY is not configured")
	}

	reqBody, err := json.Marshal(geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: cfg,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", c.apiURL, c.model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr geminiErrorBody
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Status != "" {
			log.Printf("[Gemini] Request failed with status %d %s: %s", resp.StatusCode, apiErr.Error.Status, apiErr.Error.Message)
			return "", fmt.Errorf("API request failed with status %d %s: %s", resp.StatusCode, apiErr.Error.Status, apiErr.Error.Message)
		}
		log.Printf("[Gemini] Request failed with status %d: %s", resp.StatusCode, string(body))
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result geminiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	candidate := result.Candidates[0]
	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}

	// a truncated document never parses, so partial text is still a token limit failure
	if candidate.FinishReason == "MAX_TOKENS" {
		return "", fmt.Errorf("generation stopped at the token limit after %d characters: MAX_TOKENS", text.Len())
	}
	if text.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return text.String(), nil
}
