// Package tika 提供了一个与 Apache Tika 服务器交互的客户端，
// 用于把富文档（pdf/docx 等）导出为纯文本。
package tika

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"minutes-qa-go/internal/apperrs"
	"minutes-qa-go/internal/config"
)

// Client 是 Tika 服务器的客户端。
type Client struct {
	serverURL string
}

// NewClient 创建一个新的 Tika 客户端实例。
func NewClient(cfg config.TikaConfig) *Client {
	return &Client{serverURL: cfg.ServerURL}
}

// Configured 报告是否配置了 Tika 服务器地址。
func (c *Client) Configured() bool {
	return c != nil && c.serverURL != ""
}

// ExtractText 根据文件后缀推断 MIME 类型，并调用 Tika 提取纯文本。
func (c *Client) ExtractText(ctx context.Context, fileReader io.Reader, fileName string) (string, error) {
	if c.serverURL == "" {
		return "", &apperrs.ConfigurationMissing{Name: "tika.server_url"}
	}

	req, err := http.NewRequestWithContext(ctx, "PUT", c.serverURL+"/tika", fileReader)
	if err != nil {
		return "", fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Accept", "text/plain")
	req.Header.Set("Content-Type", detectMimeType(fileName))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("调用 Tika 失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", apperrs.NewUpstreamHTTP("tika", resp.StatusCode, body)
	}

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, resp.Body); err != nil {
		return "", fmt.Errorf("读取 Tika 响应失败: %w", err)
	}
	return buf.String(), nil
}

// detectMimeType 根据文件扩展名判断 Content-Type
func detectMimeType(fileName string) string {
	ext := filepath.Ext(fileName)
	if ext == "" {
		return "application/octet-stream"
	}
	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		// fallback 默认
		return "application/octet-stream"
	}
	return mimeType
}
