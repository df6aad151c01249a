package pagination

import "context"

// Scope 는 page, page_size, 검색어 외에 목록에 고정으로 붙는 조회 조건이다(예: tipo_acceso).
// 컨트롤러는 바꿀 때마다 새 맵을 만들므로 Request 에 실린 Scope 는 이후 변경의 영향을 받지 않는다.
type Scope map[string]string

func (s Scope) Get(key string) string {
	return s[key]
}

// with 는 key 를 value 로 바꾼 사본을 돌려준다. 빈 value 는 key 를 지운다.
func (s Scope) with(key, value string) Scope {
	out := make(Scope, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	if value == "" {
		delete(out, key)
	} else {
		out[key] = value
	}
	return out
}

// ScopedFetcher 를 구현한 Fetcher 는 Request 에 실린 Scope 를 함께 받는다.
type ScopedFetcher[T any] interface {
	Fetcher[T]
	FetchScoped(ctx context.Context, q Query, scope Scope) (Page[T], error)
}

// ScopedFetchFunc 는 함수를 ScopedFetcher 로 사용할 수 있게 해준다.
type ScopedFetchFunc[T any] func(ctx context.Context, q Query, scope Scope) (Page[T], error)

func (f ScopedFetchFunc[T]) FetchScoped(ctx context.Context, q Query, scope Scope) (Page[T], error) {
	return f(ctx, q, scope)
}

func (f ScopedFetchFunc[T]) FetchPage(ctx context.Context, q Query) (Page[T], error) {
	return f(ctx, q, nil)
}
