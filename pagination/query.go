package pagination

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10

	// 백엔드 목록 API 공통 쿼리 파라미터 이름
	ParamPage     = "page"
	ParamPageSize = "page_size"
	ParamSearch   = "search"
)

// SupportedPageSizes 는 목록 화면에서 선택 가능한 페이지 크기 목록이다.
var SupportedPageSizes = []int{5, 10, 20, 50}

var (
	ErrInvalidPage     = errors.New("page must be >= 1")
	ErrInvalidPageSize = errors.New("page_size must be one of 5, 10, 20, 50")
)

// Query 는 목록 화면이 소유하는 조회 조건이다.
// 직접 수정하지 않고 Controller 의 연산(SetPage, SetPageSize, SubmitFilter)을 통해서만 바뀐다.
type Query struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Filter   string `json:"filter,omitempty"`
}

// DefaultQuery 는 최초 진입 시의 조회 조건(1페이지, 10개)을 반환한다.
func DefaultQuery() Query {
	return Query{Page: DefaultPage, PageSize: DefaultPageSize}
}

func IsSupportedPageSize(size int) bool {
	for _, s := range SupportedPageSizes {
		if s == size {
			return true
		}
	}
	return false
}

// NextPageSize 는 지원 목록에서 현재 크기 다음(step>0) 또는 이전(step<0) 크기를 순환하며 고른다.
func NextPageSize(current, step int) int {
	idx := 0
	for i, s := range SupportedPageSizes {
		if s == current {
			idx = i
			break
		}
	}
	n := len(SupportedPageSizes)
	idx = ((idx+step)%n + n) % n
	return SupportedPageSizes[idx]
}

func (q Query) Validate() error {
	if q.Page < 1 {
		return ErrInvalidPage
	}
	if !IsSupportedPageSize(q.PageSize) {
		return ErrInvalidPageSize
	}
	return nil
}

// Values 는 Query 를 백엔드 요청용 쿼리 파라미터로 변환한다.
// 필터가 비어 있으면 filterField 파라미터는 생략한다.
func (q Query) Values(filterField string) url.Values {
	v := url.Values{}
	v.Set(ParamPage, strconv.Itoa(q.Page))
	v.Set(ParamPageSize, strconv.Itoa(q.PageSize))
	if filterField != "" && strings.TrimSpace(q.Filter) != "" {
		v.Set(filterField, q.Filter)
	}
	return v
}

// ParseQuery 는 inbound 요청의 쿼리 파라미터를 검증된 Query 로 변환한다.
// 값이 없으면 기본값을 사용하고, 숫자가 아니거나 허용 범위를 벗어나면 에러를 반환한다.
func ParseQuery(values url.Values, filterField string) (Query, error) {
	q := DefaultQuery()
	if raw := strings.TrimSpace(values.Get(ParamPage)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Query{}, ErrInvalidPage
		}
		q.Page = n
	}
	if raw := strings.TrimSpace(values.Get(ParamPageSize)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Query{}, ErrInvalidPageSize
		}
		q.PageSize = n
	}
	if filterField != "" {
		q.Filter = values.Get(filterField)
	}
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}
