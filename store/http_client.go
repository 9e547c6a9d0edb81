package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hatlonely/surrealgate/statement"
	"github.com/pkg/errors"
)

type HTTPClientOptions struct {
	// 存储端 sql 接口地址
	Endpoint string `cfg:"endpoint" def:"http://localhost:8000/sql" validate:"url"`

	// 通过 NS / DB 请求头指定
	Namespace string `cfg:"namespace" def:"test"`
	Database  string `cfg:"database" def:"test"`

	// basic auth
	Username string `cfg:"username"`
	Password string `cfg:"password"`

	// 单次请求的超时时间，超时按普通的执行失败处理
	Timeout time.Duration `cfg:"timeout" def:"10s"`

	// 响应体大小上限，单位字节，超过时按执行失败处理
	MaxResponseSize int64 `cfg:"maxResponseSize" def:"16777216"`
}

const defaultMaxResponseSize = 16 * 1024 * 1024

// HTTPClient 每条语句一次 POST 请求
type HTTPClient struct {
	client    *http.Client
	endpoint  string
	namespace string
	database  string
	username  string
	password  string

	maxResponseSize int64
}

func NewHTTPClientWithOptions(options *HTTPClientOptions) (*HTTPClient, error) {
	if options == nil {
		return nil, errors.New("options is nil")
	}
	if options.Endpoint == "" {
		return nil, errors.New("endpoint is required")
	}

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	maxResponseSize := options.MaxResponseSize
	if maxResponseSize <= 0 {
		maxResponseSize = defaultMaxResponseSize
	}

	return &HTTPClient{
		client:          &http.Client{Timeout: timeout},
		endpoint:        options.Endpoint,
		namespace:       options.Namespace,
		database:        options.Database,
		username:        options.Username,
		password:        options.Password,
		maxResponseSize: maxResponseSize,
	}, nil
}

func (c *HTTPClient) Execute(ctx context.Context, stmt statement.Statement) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(stmt.Text))
	if err != nil {
		return nil, &TransportError{Statement: stmt.Text, Cause: errors.Wrap(err, "http.NewRequest failed")}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("NS", c.namespace)
	req.Header.Set("DB", c.database)
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Statement: stmt.Text, Cause: errors.Wrap(err, "http.Do failed")}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, c.maxResponseSize+1))
	if err != nil {
		return nil, &TransportError{Statement: stmt.Text, Cause: errors.Wrap(err, "read body failed")}
	}
	if int64(len(body)) > c.maxResponseSize {
		return nil, &TransportError{Statement: stmt.Text, Cause: errors.Errorf("response exceeds %d bytes", c.maxResponseSize)}
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &TransportError{
			Statement: stmt.Text,
			Cause:     errors.Errorf("unexpected status %d: %s", res.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var results []Result
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, &TransportError{Statement: stmt.Text, Cause: errors.Wrap(err, "json.Unmarshal failed")}
	}
	if len(results) == 0 {
		return nil, &TransportError{Statement: stmt.Text, Cause: ErrEmptyResponse}
	}

	return results[0], nil
}

func (c *HTTPClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
