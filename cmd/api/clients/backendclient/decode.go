package backendclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"pastas-console/pagination"
)

const maxResponseBytes = 8 << 20

// envelope 는 백엔드 목록 응답의 허용 형태를 하나로 모은 스키마다.
//
//	{ "items": [...], "pagination": { total, page, page_size, total_pages, ... } }
//	{ "items": [...], "total": n, "page": p, "page_size": s }
type envelope[T any] struct {
	Items      *[]T                 `json:"items"`
	Pagination *pagination.Metadata `json:"pagination"`
	Total      *int                 `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", pagination.ErrMalformedResponse, fmt.Sprintf(format, args...))
}

// decodePage 는 목록 응답을 검증하고 pagination.Page 로 정규화한다.
// 봉투 없이 배열만 온 경우 전체 결과를 한 페이지로 간주한다.
func decodePage[T any](r io.Reader, q pagination.Query) (pagination.Page[T], error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxResponseBytes))
	if err != nil {
		return pagination.Page[T]{}, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return pagination.Page[T]{}, malformed("empty body")
	}

	switch raw[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return pagination.Page[T]{}, malformed("decode items: %v", err)
		}
		if len(items) == 0 {
			return pagination.EmptyPage[T](q.PageSize), nil
		}
		n := len(items)
		return pagination.Page[T]{
			Items:      items,
			Pagination: pagination.Metadata{Total: n, Page: 1, PageSize: n, TotalPages: 1},
		}, nil
	case '{':
		var env envelope[T]
		if err := json.Unmarshal(raw, &env); err != nil {
			return pagination.Page[T]{}, malformed("decode envelope: %v", err)
		}
		if env.Items == nil {
			return pagination.Page[T]{}, malformed("missing items")
		}
		var meta pagination.Metadata
		switch {
		case env.Pagination != nil:
			meta = *env.Pagination
		case env.Total != nil:
			meta = pagination.Metadata{Total: *env.Total, Page: env.Page, PageSize: env.PageSize, TotalPages: env.TotalPages}
		default:
			return pagination.Page[T]{}, malformed("missing pagination")
		}
		if meta.Total < 0 || meta.Page < 0 || meta.PageSize < 0 {
			return pagination.Page[T]{}, malformed("negative pagination values")
		}
		return pagination.Page[T]{Items: *env.Items, Pagination: meta.Normalize(q)}, nil
	default:
		return pagination.Page[T]{}, malformed("unexpected payload")
	}
}

// decodeList 는 배열 또는 {"items": [...]} 형태의 응답을 슬라이스로 읽는다.
func decodeList[T any](r io.Reader) ([]T, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, malformed("empty body")
	}
	switch raw[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, malformed("decode items: %v", err)
		}
		return items, nil
	case '{':
		var env envelope[T]
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, malformed("decode envelope: %v", err)
		}
		if env.Items == nil {
			return nil, malformed("missing items")
		}
		return *env.Items, nil
	default:
		return nil, malformed("unexpected payload")
	}
}

// decodeObject 는 단일 객체 응답을 읽는다.
func decodeObject[T any](r io.Reader) (T, error) {
	var out T
	raw, err := io.ReadAll(io.LimitReader(r, maxResponseBytes))
	if err != nil {
		return out, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return out, malformed("expected object")
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, malformed("decode object: %v", err)
	}
	return out, nil
}
