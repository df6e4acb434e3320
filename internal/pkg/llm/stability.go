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

const defaultStabilityBaseURL = "https://api.stability.ai/v1"

// StabilityClient Stability AI text-to-image 客户端
type StabilityClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewStabilityClient(cfg *config.ProviderConfig) *StabilityClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultStabilityBaseURL
	}
	return &StabilityClient{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: newHTTPClient(cfg),
	}
}

type stabilityRequest struct {
	TextPrompts []struct {
		Text string `json:"text"`
	} `json:"text_prompts"`
	StylePreset string `json:"style_preset,omitempty"`
	Samples     int    `json:"samples"`
}

type stabilityResponse struct {
	Artifacts []struct {
		Base64 string `json:"base64"`
	} `json:"artifacts"`
}

// GenerateImage 调用 text-to-image 接口，返回 PNG 字节
func (c *StabilityClient) GenerateImage(ctx context.Context, modelID string, imgReq ImageRequest) ([]byte, string, error) {
	reqBody := stabilityRequest{Samples: 1}
	reqBody.TextPrompts = []struct {
		Text string `json:"text"`
	}{{Text: imgReq.Prompt}}
	if imgReq.Style != "" {
		reqBody.StylePreset = imgReq.Style
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, "", err
	}

	url := fmt.Sprintf("%s/generation/%s/text-to-image", c.baseURL, modelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("stability request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("stability api error (%d): %s", resp.StatusCode, string(body))
	}

	var result stabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, "", fmt.Errorf("failed to decode stability response: %w", err)
	}

	if len(result.Artifacts) == 0 || result.Artifacts[0].Base64 == "" {
		return nil, "", ErrEmptyCompletion
	}

	imgData, err := base64.StdEncoding.DecodeString(result.Artifacts[0].Base64)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image data: %w", err)
	}

	return imgData, ".png", nil
}
