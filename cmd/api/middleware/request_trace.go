package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pastas-console/cmd/api/trace"
	"pastas-console/cmd/internal/logger"
)

const (
	headerRequestID = "X-Request-Id"
	headerSpanID    = "X-Span-Id"

	maxBodyLog = 1024
)

// RequestTrace 는 inbound 요청마다 Request ID 를 보장하고 span 0 으로 컨텍스트에 싣는다.
// 백엔드 호출(httpclient)은 같은 Request ID 로 span 1,2,3,... 을 사용한다.
// 요청이 끝나면 메서드, 경로, 상태, 소요 시간과 JSON 본문 앞부분(PIN 마스킹)을 로그로 남긴다.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := attachTrace(c)
		body := captureBody(c)

		c.Next()

		fields := logger.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
			"request_id": requestID,
			"span_id":    trace.CurrentSpanID(c.Request.Context()),
		}
		if q := c.Request.URL.Query(); len(q) > 0 {
			fields["query_params"] = map[string][]string(q)
		}
		if body != "" {
			fields["body"] = body
		}
		logger.InfoWithFields("completed request", fields)
	}
}

// attachTrace 는 Request ID 를 컨텍스트, 요청 헤더, 응답 헤더에 기록하고 반환한다.
func attachTrace(c *gin.Context) string {
	requestID := c.GetHeader(headerRequestID)
	if requestID == "" {
		requestID = trace.GenerateID()
	}
	ctx := trace.WithRequestAndSpan(c.Request.Context(), requestID, 0)
	c.Request = c.Request.WithContext(ctx)

	span := trace.CurrentSpanID(ctx)
	for _, h := range []http.Header{c.Request.Header, c.Writer.Header()} {
		h.Set(headerRequestID, requestID)
		h.Set(headerSpanID, span)
	}
	return requestID
}

// captureBody 는 변경 요청의 본문 앞부분을 읽고 핸들러가 다시 읽을 수 있도록 복원한다.
// multipart(얼굴 이미지) 요청은 읽지 않는다.
func captureBody(c *gin.Context) string {
	req := c.Request
	if req.Body == nil || req.ContentLength == 0 {
		return ""
	}
	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return ""
	}
	if strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/") {
		return ""
	}
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if len(raw) > maxBodyLog {
		raw = raw[:maxBodyLog]
	}
	return logger.RedactBody(string(raw))
}
