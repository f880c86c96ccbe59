// Package llm 提供生成式语言模型 API 的客户端。
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"minutes-qa-go/internal/apperrs"
	"minutes-qa-go/internal/config"
)

// Message 表示一条角色消息，role 取值 "user" 或 "model"。
type Message struct {
	Role string
	Text string
}

// Client 定义了语言模型客户端的接口。
type Client interface {
	// Generate 以历史消息加一条新的 user 消息调用模型，返回生成文本。
	// 不做重试，也不额外设置超时：失败与缓慢都原样上抛。
	Generate(ctx context.Context, history []Message, question string) (string, error)
}

type geminiClient struct {
	cfg    config.LLMConfig
	client *http.Client
}

// NewClient 创建一个新的语言模型客户端实例。
func NewClient(cfg config.LLMConfig) Client {
	return &geminiClient{
		cfg:    cfg,
		client: &http.Client{},
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// Generate 调用 generateContent 接口并取第一个候选的文本。
func (c *geminiClient) Generate(ctx context.Context, history []Message, question string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", &apperrs.ConfigurationMissing{Name: "llm.api_key"}
	}

	contents := make([]content, 0, len(history)+1)
	for _, m := range history {
		contents = append(contents, content{Role: m.Role, Parts: []part{{Text: m.Text}}})
	}
	contents = append(contents, content{Role: "user", Parts: []part{{Text: question}}})

	reqBody := generateRequest{
		Contents:         contents,
		GenerationConfig: generationConfig{Temperature: c.cfg.Temperature},
	}
	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, c.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call language model api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read generate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrs.NewUpstreamHTTP("language model api", resp.StatusCode, body)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal generate response: %w", err)
	}
	if genResp.PromptFeedback.BlockReason != "" {
		return "", &apperrs.EmptyResult{What: "generation blocked: " + genResp.PromptFeedback.BlockReason}
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", &apperrs.EmptyResult{What: "no candidates in model response"}
	}

	var answer bytes.Buffer
	for _, p := range genResp.Candidates[0].Content.Parts {
		answer.WriteString(p.Text)
	}
	return answer.String(), nil
}
