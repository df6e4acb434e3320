package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/aihub-dev/aihub_go_server/config"
)

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// GroqClient Groq chat completions 客户端（OpenAI 兼容协议）
type GroqClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewGroqClient(cfg *config.ProviderConfig) *GroqClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}
	return &GroqClient{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: newHTTPClient(cfg),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GenerateText 调用 chat/completions 接口
func (c *GroqClient) GenerateText(ctx context.Context, modelID, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: modelID,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("groq request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("groq api error (%d): %s", resp.StatusCode, string(body))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode groq response: %w", err)
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}

	return result.Choices[0].Message.Content, nil
}
