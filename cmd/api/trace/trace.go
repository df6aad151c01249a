// Package trace 는 게이트웨이 요청 하나에 묶인 Request ID 와 span 번호를 컨텍스트로 전달한다.
// inbound 요청은 span 0, 백엔드 호출은 1 부터 차례로 번호를 받는다.
package trace

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

type traceKey struct{}

type span struct {
	requestID string
	seq       atomic.Int64
}

// GenerateID 는 새 요청 ID(UUIDv4)를 만든다.
func GenerateID() string {
	return uuid.NewString()
}

// WithRequestAndSpan 은 Request ID 와 시작 span 번호를 담은 컨텍스트를 반환한다.
func WithRequestAndSpan(ctx context.Context, requestID string, initialSpan int64) context.Context {
	s := &span{requestID: requestID}
	s.seq.Store(initialSpan)
	return context.WithValue(ctx, traceKey{}, s)
}

func lookup(ctx context.Context) (*span, bool) {
	if ctx == nil {
		return nil, false
	}
	s, ok := ctx.Value(traceKey{}).(*span)
	return s, ok
}

func RequestIDFromContext(ctx context.Context) string {
	if s, ok := lookup(ctx); ok {
		return s.requestID
	}
	return ""
}

// CurrentSpanID 는 span 번호를 올리지 않고 읽는다.
func CurrentSpanID(ctx context.Context) string {
	s, ok := lookup(ctx)
	if !ok {
		return "0"
	}
	return format(s.seq.Load())
}

// NextSpanID 는 span 번호를 하나 올리고 (requestID, spanID) 를 반환한다.
// 콘솔처럼 트레이스가 없는 컨텍스트는 매 호출이 새 Request ID 의 span 1 이 된다.
func NextSpanID(ctx context.Context) (string, string) {
	s, ok := lookup(ctx)
	if !ok {
		return GenerateID(), "1"
	}
	n := s.seq.Add(1)
	if n < 1 {
		n = 1
	}
	return s.requestID, format(n)
}

func format(n int64) string {
	if n < 0 {
		n = 0
	}
	return strconv.FormatInt(n, 10)
}
