// Package datastore 提供外部数据存储 REST API 的客户端。
package datastore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"minutes-qa-go/internal/apperrs"
	"minutes-qa-go/internal/config"
	"minutes-qa-go/internal/model"
)

// Client 定义了数据存储客户端的接口。
type Client interface {
	// QueryRecords 按过滤条件查询会议记录行。
	QueryRecords(ctx context.Context, q Query) ([]model.MeetingRecord, error)
	// Insert 插入一行记录。
	Insert(ctx context.Context, rec model.MeetingRecord) error
}

type restClient struct {
	cfg    config.DataStoreConfig
	client *http.Client
}

// NewClient 创建一个新的数据存储客户端实例。
func NewClient(cfg config.DataStoreConfig) Client {
	return &restClient{
		cfg:    cfg,
		client: &http.Client{},
	}
}

func (c *restClient) check() error {
	if c.cfg.BaseURL == "" {
		return &apperrs.ConfigurationMissing{Name: "datastore.base_url"}
	}
	if c.cfg.APIKey == "" {
		return &apperrs.ConfigurationMissing{Name: "datastore.api_key"}
	}
	return nil
}

func (c *restClient) setAuth(req *http.Request) {
	req.Header.Set("apikey", c.cfg.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
}

// QueryRecords 执行行过滤查询并解析结果。
func (c *restClient) QueryRecords(ctx context.Context, q Query) ([]model.MeetingRecord, error) {
	if err := c.check(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s?%s", c.cfg.BaseURL, c.cfg.Table, q.Values().Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create datastore request: %w", err)
	}
	c.setAuth(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call datastore api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read datastore response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrs.NewUpstreamHTTP("datastore api", resp.StatusCode, body)
	}

	var rows []model.MeetingRecord
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal datastore rows: %w", err)
	}
	return rows, nil
}

// Insert 插入单行记录，远端返回 2xx 即视为成功。
func (c *restClient) Insert(ctx context.Context, rec model.MeetingRecord) error {
	if err := c.check(); err != nil {
		return err
	}

	recBytes, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.cfg.BaseURL, c.cfg.Table)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(recBytes))
	if err != nil {
		return fmt.Errorf("failed to create insert request: %w", err)
	}
	c.setAuth(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call datastore api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return apperrs.NewUpstreamHTTP("datastore api", resp.StatusCode, body)
	}
	return nil
}
