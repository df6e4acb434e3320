package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aihub-dev/aihub_go_server/config"
)

var (
	ErrProviderNotSupported = errors.New("provider not supported")
	ErrEmptyCompletion      = errors.New("provider returned empty completion")
)

// TextGenerator 文本生成提供商
type TextGenerator interface {
	GenerateText(ctx context.Context, modelID, prompt string) (string, error)
}

// ImageRequest 图像生成参数
type ImageRequest struct {
	Prompt     string
	Style      string
	Dimensions string
}

// ImageGenerator 图像生成提供商，返回图片字节和扩展名
type ImageGenerator interface {
	GenerateImage(ctx context.Context, modelID string, req ImageRequest) ([]byte, string, error)
}

// VideoGenerator 视频生成提供商，返回视频字节
type VideoGenerator interface {
	GenerateVideo(ctx context.Context, modelID, prompt string) ([]byte, error)
}

// Registry 按目录中的 provider 名称分发到具体客户端。
// 未接入真实 API 的提供商（Midjourney、Runway 等）回退到 mock 实现。
type Registry struct {
	text  map[string]TextGenerator
	image map[string]ImageGenerator
	video map[string]VideoGenerator
	mock  *MockClient
}

// NewRegistry 根据配置组装提供商客户端
func NewRegistry(cfg *config.ProvidersConfig) *Registry {
	r := &Registry{
		text:  make(map[string]TextGenerator),
		image: make(map[string]ImageGenerator),
		video: make(map[string]VideoGenerator),
		mock:  NewMockClient(),
	}

	// 注册键与目录的 provider 字段一致（cmd/seed 的小写标识）
	if cfg.Gemini.APIKey != "" {
		r.text["gemini"] = NewGeminiClient(&cfg.Gemini)
	}
	if cfg.Groq.APIKey != "" {
		r.text["groq"] = NewGroqClient(&cfg.Groq)
	}
	if cfg.Anthropic.APIKey != "" {
		r.text["anthropic"] = NewAnthropicClient(&cfg.Anthropic)
	}
	if cfg.OpenAI.APIKey != "" {
		r.image["openai"] = NewOpenAIClient(&cfg.OpenAI)
	}
	if cfg.Stability.APIKey != "" {
		r.image["stability"] = NewStabilityClient(&cfg.Stability)
	}

	return r
}

// Text 获取文本生成客户端
func (r *Registry) Text(provider string) TextGenerator {
	if client, ok := r.text[provider]; ok {
		return client
	}
	return r.mock
}

// Image 获取图像生成客户端
func (r *Registry) Image(provider string) ImageGenerator {
	if client, ok := r.image[provider]; ok {
		return client
	}
	return r.mock
}

// Video 获取视频生成客户端
func (r *Registry) Video(provider string) VideoGenerator {
	if client, ok := r.video[provider]; ok {
		return client
	}
	return r.mock
}

// newHTTPClient 构造带超时的 HTTP 客户端，默认 60 秒
func newHTTPClient(cfg *config.ProviderConfig) *http.Client {
	timeout := 60 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &http.Client{Timeout: timeout}
}
