package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/aihub-dev/aihub_go_server/config"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIClient OpenAI images API 客户端（DALL-E）
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewOpenAIClient(cfg *config.ProviderConfig) *OpenAIClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &OpenAIClient{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: newHTTPClient(cfg),
	}
}

type openaiImageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type openaiImageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// GenerateImage 调用 images/generations 接口，返回 PNG 字节
func (c *OpenAIClient) GenerateImage(ctx context.Context, modelID string, imgReq ImageRequest) ([]byte, string, error) {
	reqBody := openaiImageRequest{
		Model:          modelID,
		Prompt:         imgReq.Prompt,
		N:              1,
		Size:           dimensionsToSize(imgReq.Dimensions),
		ResponseFormat: "b64_json",
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("openai api error (%d): %s", resp.StatusCode, string(body))
	}

	var result openaiImageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, "", fmt.Errorf("failed to decode openai response: %w", err)
	}

	if len(result.Data) == 0 || result.Data[0].B64JSON == "" {
		return nil, "", ErrEmptyCompletion
	}

	imgData, err := base64.StdEncoding.DecodeString(result.Data[0].B64JSON)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image data: %w", err)
	}

	return imgData, ".png", nil
}

// dimensionsToSize 把宽高比映射为 OpenAI 的尺寸参数
func dimensionsToSize(dimensions string) string {
	switch dimensions {
	case "16:9":
		return "1792x1024"
	case "9:16":
		return "1024x1792"
	default:
		return "1024x1024"
	}
}
