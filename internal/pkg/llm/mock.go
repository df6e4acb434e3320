package llm

import (
	"context"
	"fmt"
)

// 1x1 透明 PNG，作为未接入真实图像 API 时的占位产物
var placeholderPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// MockClient 本地模拟实现，用于开发环境和未配置 API Key 的提供商
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) GenerateText(ctx context.Context, modelID, prompt string) (string, error) {
	return fmt.Sprintf("[%s] This is a simulated response to: %s", modelID, prompt), nil
}

func (c *MockClient) GenerateImage(ctx context.Context, modelID string, req ImageRequest) ([]byte, string, error) {
	data := make([]byte, len(placeholderPNG))
	copy(data, placeholderPNG)
	return data, ".png", nil
}

func (c *MockClient) GenerateVideo(ctx context.Context, modelID, prompt string) ([]byte, error) {
	// 没有可直接调用的视频生成 API，返回空的 MP4 容器占位
	return []byte("\x00\x00\x00\x18ftypmp42"), nil
}
