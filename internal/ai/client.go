package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/whimsicalfrog/wf-admin/internal/constants"
)

var (
	ErrNotLive         = errors.New("ai provider not live")
	ErrRequestFailed   = errors.New("ai request failed")
	ErrResponseInvalid = errors.New("ai response invalid")
)

const defaultTimeout = 30 * time.Second

// 各服务商默认模型
var defaultModels = map[string]string{
	constants.AIProviderOpenAI:    "gpt-4o",
	constants.AIProviderAnthropic: "claude-3-5-sonnet",
	constants.AIProviderGoogle:    "gemini-1.5-pro",
	constants.AIProviderMeta:      "llama-3.1-70b",
	constants.AIProviderJonsAI:    "jons-ai",
}

// DefaultModel 返回服务商默认模型，未知服务商返回空串
func DefaultModel(provider string) string {
	return defaultModels[strings.ToLower(strings.TrimSpace(provider))]
}

// Config AI 客户端配置
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string // OpenAI 兼容的 chat completions 地址
	Timeout  time.Duration
}

// Client OpenAI 兼容的对话补全客户端
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient 创建客户端
func NewClient(cfg Config) *Client {
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Provider 服务商
func (c *Client) Provider() string {
	if c == nil {
		return ""
	}
	return c.cfg.Provider
}

// Model 模型
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.cfg.Model
}

// Live 是否可真实调用（本地 jons_ai 或缺少密钥/地址时为 false）
func (c *Client) Live() bool {
	if c == nil {
		return false
	}
	if c.cfg.Provider == "" || c.cfg.Provider == constants.AIProviderJonsAI {
		return false
	}
	return strings.TrimSpace(c.cfg.APIKey) != "" && strings.TrimSpace(c.cfg.BaseURL) != ""
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
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
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete 文本补全
func (c *Client) Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if strings.TrimSpace(system) != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})
	return c.chat(ctx, messages, maxTokens)
}

// CompleteJSON 补全并把回复中的 JSON 对象解析到 dest
func (c *Client) CompleteJSON(ctx context.Context, system, prompt string, maxTokens int, dest interface{}) error {
	text, err := c.Complete(ctx, system, prompt, maxTokens)
	if err != nil {
		return err
	}
	return DecodeJSONObject(text, dest)
}

// AnalyzeImageJSON 视觉分析，回复 JSON 解析到 dest
func (c *Client) AnalyzeImageJSON(ctx context.Context, prompt string, image []byte, mimeType string, dest interface{}) error {
	if len(image) == 0 {
		return fmt.Errorf("%w: empty image", ErrRequestFailed)
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}
	dataURI := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
	messages := []chatMessage{{
		Role: "user",
		Content: []contentPart{
			{Type: "text", Text: prompt},
			{Type: "image_url", ImageURL: &imageURL{URL: dataURI}},
		},
	}}
	text, err := c.chat(ctx, messages, 300)
	if err != nil {
		return err
	}
	return DecodeJSONObject(text, dest)
}

func (c *Client) chat(ctx context.Context, messages []chatMessage, maxTokens int) (string, error) {
	if !c.Live() {
		return "", ErrNotLive
	}
	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrResponseInvalid, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrResponseInvalid)
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// DecodeJSONObject 从模型回复中提取第一个 JSON 对象（容忍 ``` 代码块与前后说明文字）
func DecodeJSONObject(text string, dest interface{}) error {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("%w: no json object", ErrResponseInvalid)
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), dest); err != nil {
		return fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	return nil
}
