// Package httpclient 는 게이트웨이와 콘솔이 백엔드를 호출할 때 쓰는 http.Client 를 만든다.
// 모든 호출에 X-Request-Id / X-Span-Id 를 붙이고 결과를 로그와 ObserveFunc 로 남긴다.
package httpclient

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"pastas-console/cmd/api/trace"
	"pastas-console/cmd/internal/logger"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyLog     = 1024
)

// ObserveFunc 는 호출이 끝날 때마다 불린다. 전송 자체가 실패하면 status 는 0 이다.
type ObserveFunc func(method string, status int, duration time.Duration)

type Config struct {
	Timeout   time.Duration // 0 이면 10초
	Transport http.RoundTripper
	Observe   ObserveFunc
}

// New 는 cfg 로 트레이싱 transport 를 두른 http.Client 를 만든다.
func New(cfg Config) *http.Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultTransport
	}
	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &tracingTransport{next: cfg.Transport, observe: cfg.Observe},
	}
}

func NewDefault() *http.Client {
	return New(Config{})
}

type tracingTransport struct {
	next    http.RoundTripper
	observe ObserveFunc
}

func (t *tracingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	requestID, spanID := trace.NextSpanID(req.Context())
	// 컨텍스트에 트레이스가 없으면 호출자가 넣은 헤더를 존중한다.
	if h := req.Header.Get("X-Request-Id"); h != "" && trace.RequestIDFromContext(req.Context()) == "" {
		requestID = h
	}
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("X-Span-Id", spanID)

	fields := logger.Fields{
		"method":     req.Method,
		"url":        req.URL.String(),
		"request_id": requestID,
		"span_id":    spanID,
	}
	if body := snapshotBody(req); body != "" {
		fields["body"] = body
	}

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	elapsed := time.Since(start)
	fields["duration"] = elapsed.String()

	status := 0
	if err != nil {
		fields["error"] = err.Error()
		logger.ErrorWithFields("backend call failed", fields)
	} else {
		status = resp.StatusCode
		fields["status"] = status
		if status >= http.StatusInternalServerError {
			logger.WarnWithFields("backend call returned server error", fields)
		} else {
			logger.DebugWithFields("backend call", fields)
		}
	}
	if t.observe != nil {
		t.observe(req.Method, status, elapsed)
	}
	return resp, err
}

// snapshotBody 는 요청 본문 앞부분을 로그용으로 복사하고 본문을 되돌려 놓는다.
// multipart(이미지 업로드) 본문은 읽지 않는다.
func snapshotBody(req *http.Request) string {
	if req.Body == nil || req.Body == http.NoBody || strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/") {
		return ""
	}
	raw, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return ""
	}
	req.Body = io.NopCloser(bytes.NewReader(raw))
	if len(raw) > maxBodyLog {
		raw = raw[:maxBodyLog]
	}
	return logger.RedactBody(string(raw))
}
