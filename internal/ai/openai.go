package ai

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/24061269-star/um-lost-and-found/internal/config"
	domainerrors "github.com/24061269-star/um-lost-and-found/internal/errors"
)

const (
	tagSystemPrompt = "You are a helpful assistant extracting short tags from images and text."
	tagUserPrompt   = "Generate up to 4 concise, lowercase tags (single words) capturing color, category, and unique features."
	captionPrompt   = "Describe this image in 1 concise sentence focusing on object and color."

	// The tag model only looks at the first few photos of an item.
	maxTagImages = 3
)

// OpenAIClient implements Provider against an OpenAI-compatible HTTP API.
type OpenAIClient struct {
	httpClient *http.Client
	cfg        config.AIConfig
	logger     *slog.Logger
}

// NewOpenAIClient creates a model client from the AI configuration.
func NewOpenAIClient(cfg config.AIConfig, logger *slog.Logger) *OpenAIClient {
	return &OpenAIClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cfg:    cfg,
		logger: logger,
	}
}

// chatMessage content is either a plain string or a slice of contentPart.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// SuggestTags asks the chat model for tag candidates from the item's title,
// description, and up to three photos. Returns the raw completion text.
func (c *OpenAIClient) SuggestTags(ctx context.Context, title, description string, imageURLs []string) (string, error) {
	parts := []contentPart{
		{Type: "text", Text: tagUserPrompt},
		{Type: "text", Text: fmt.Sprintf("Title: %s", title)},
		{Type: "text", Text: fmt.Sprintf("Description: %s", description)},
	}
	if len(imageURLs) > maxTagImages {
		imageURLs = imageURLs[:maxTagImages]
	}
	for _, u := range imageURLs {
		parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageURL{URL: u}})
	}

	req := chatRequest{
		Model: c.cfg.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: tagSystemPrompt},
			{Role: "user", Content: parts},
		},
		Temperature: 0.2,
	}

	return c.chat(ctx, req)
}

// CaptionImage asks the chat model for a one-sentence description of an image.
func (c *OpenAIClient) CaptionImage(ctx context.Context, url string) (string, error) {
	req := chatRequest{
		Model: c.cfg.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: captionPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "image_url", ImageURL: &imageURL{URL: url}},
			}},
		},
		Temperature: 0.1,
	}

	return c.chat(ctx, req)
}

// EmbedText converts text into a vector with the embedding model.
func (c *OpenAIClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	var embResp embeddingResponse
	err := c.post(ctx, "/embeddings", embeddingRequest{
		Model: c.cfg.EmbedModel,
		Input: text,
	}, &embResp)
	if err != nil {
		return nil, err
	}

	if len(embResp.Data) == 0 || len(embResp.Data[0].Embedding) == 0 {
		return nil, domainerrors.Dependency("model returned no embedding")
	}
	return embResp.Data[0].Embedding, nil
}

// chat runs one chat completion and returns the first choice's text.
func (c *OpenAIClient) chat(ctx context.Context, req chatRequest) (string, error) {
	var chatResp chatResponse
	if err := c.post(ctx, "/chat/completions", req, &chatResp); err != nil {
		return "", err
	}

	if len(chatResp.Choices) == 0 {
		return "", domainerrors.Dependency("model returned no choices")
	}
	return chatResp.Choices[0].Message.Content, nil
}

// post sends a JSON request to the provider and decodes the JSON response.
// Transport and non-2xx failures surface as dependency errors so handlers
// map them to 502 rather than 500.
func (c *OpenAIClient) post(ctx context.Context, path string, body any, out any) error {
	var buf bytes.Buffer
	if err := json.MarshalWrite(&buf, body); err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domainerrors.Dependency("model request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Include a snippet of the provider's error body for the logs.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("model request rejected",
			"path", path,
			"status", resp.StatusCode,
			"body", string(snippet),
		)
		return domainerrors.Dependencyf("model request failed: status %d", resp.StatusCode)
	}

	if err := json.UnmarshalRead(resp.Body, out); err != nil {
		return domainerrors.Dependency("decode model response").WithCause(err)
	}
	return nil
}
