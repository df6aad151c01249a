package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// BaseClient 는 백엔드 baseURL 기준으로 요청을 만들고 보낸다.
type BaseClient struct {
	HTTPClient *http.Client
	BaseURL    string
}

func NewBaseClient(baseURL string) *BaseClient {
	return NewBaseClientWithClient(nil, baseURL)
}

// NewBaseClientWithClient 는 httpClient 가 nil 이면 NewDefault 를 쓴다.
func NewBaseClientWithClient(httpClient *http.Client, baseURL string) *BaseClient {
	if httpClient == nil {
		httpClient = NewDefault()
	}
	return &BaseClient{HTTPClient: httpClient, BaseURL: strings.TrimRight(baseURL, "/")}
}

// URL 은 baseURL 의 경로 뒤에 relPath 를 붙이고 query 를 인코딩한다.
// 쿼리는 relPath 에 섞지 않고 query 로만 받는다.
func (c *BaseClient) URL(relPath string, query url.Values) (*url.URL, error) {
	if strings.ContainsRune(relPath, '?') {
		return nil, fmt.Errorf("httpclient: query string in path %q, pass it as query", relPath)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("httpclient: base url: %w", err)
	}
	if relPath != "" {
		u.Path = path.Join("/", u.Path, relPath)
	}
	u.RawQuery = query.Encode()
	return u, nil
}

func (c *BaseClient) NewRequest(ctx context.Context, method, relPath string, query url.Values, body io.Reader) (*http.Request, error) {
	u, err := c.URL(relPath, query)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return http.NewRequestWithContext(ctx, method, u.String(), body)
}

func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	return c.HTTPClient.Do(req)
}
