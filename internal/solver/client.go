package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shiftsense-dev/shiftsense/backend/internal/config"
)

// Error 表示求解器返回了非成功状态码，Detail 保留上游响应体用于诊断
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("求解器返回非成功状态 %d: %s", e.StatusCode, e.Detail)
}

// Client 是外部求解服务的 HTTP 客户端。
// 超时是硬性的：超过即判定本次调用失败，不做任何自动重试
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.Solver.BaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Solver.Timeout) * time.Second,
		},
	}
}

func (c *Client) Solve(ctx context.Context, req *SolveRequest) (*SolveResponse, error) {
	resp := &SolveResponse{}
	if err := c.post(ctx, "/solve", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Forecast(ctx context.Context, req *ForecastRequest) (*ForecastResponse, error) {
	resp := &ForecastResponse{}
	if err := c.post(ctx, "/forecast", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// 上游的错误信息要保留下来，方便排查不可行解之类的问题
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &Error{StatusCode: resp.StatusCode, Detail: string(detail)}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
