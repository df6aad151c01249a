package pagination

import (
	"context"
	"errors"
)

// Page 는 한 번의 조회 결과다. 매 조회마다 통째로 교체된다.
type Page[T any] struct {
	Items      []T      `json:"items"`
	Pagination Metadata `json:"pagination"`
}

// EmptyPage 는 항목이 없는 페이지를 반환한다. Items 는 nil 이 아닌 빈 슬라이스다.
func EmptyPage[T any](pageSize int) Page[T] {
	return Page[T]{Items: []T{}, Pagination: Empty(pageSize)}
}

// Fetcher 는 원격 페이지 조회 엔드포인트를 추상화한다.
type Fetcher[T any] interface {
	FetchPage(ctx context.Context, q Query) (Page[T], error)
}

// FetchFunc 는 함수를 Fetcher 로 사용할 수 있게 해준다.
type FetchFunc[T any] func(ctx context.Context, q Query) (Page[T], error)

func (f FetchFunc[T]) FetchPage(ctx context.Context, q Query) (Page[T], error) {
	return f(ctx, q)
}

// ErrMalformedResponse 는 응답 본문이 기대한 형태가 아닐 때 사용한다.
var ErrMalformedResponse = errors.New("malformed response")

// FailureKind 는 조회 실패를 transport / status / malformed 로 분류한다.
type FailureKind string

const (
	FailureNone      FailureKind = ""
	FailureTransport FailureKind = "transport"
	FailureStatus    FailureKind = "status"
	FailureMalformed FailureKind = "malformed"
)

type statusCoder interface {
	StatusCode() int
}

// Classify 는 조회 경계에서 반환된 에러를 분류한다.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	if errors.Is(err, ErrMalformedResponse) {
		return FailureMalformed
	}
	var sc statusCoder
	if errors.As(err, &sc) {
		return FailureStatus
	}
	return FailureTransport
}
