package pagination

// Metadata 는 서버 응답에서 파생되는 페이지 정보다.
type Metadata struct {
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	HasPrevious bool `json:"has_previous"`
	HasNext     bool `json:"has_next"`
}

// Compute 는 total/page/pageSize 로부터 전체 페이지 수와 이전/다음 여부를 계산한다.
// total 이 0이면 page 는 1, total_pages 는 1로 고정된다.
func Compute(total, page, pageSize int) Metadata {
	if total < 0 {
		total = 0
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	if total == 0 {
		return Empty(pageSize)
	}
	totalPages := (total + pageSize - 1) / pageSize
	return Metadata{
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
	}
}

// Empty 는 결과가 없거나 조회에 실패했을 때 사용하는 메타데이터다.
func Empty(pageSize int) Metadata {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Metadata{Total: 0, Page: 1, PageSize: pageSize, TotalPages: 1}
}

// Normalize 는 서버가 보낸 메타데이터를 채워 넣는다.
// total_pages 가 빠진 응답, page_size 가 빠진 응답을 요청 값으로 보정하고
// has_previous/has_next 는 page 와 total_pages 로 다시 계산한다.
func (m Metadata) Normalize(requested Query) Metadata {
	pageSize := m.PageSize
	if pageSize <= 0 {
		pageSize = requested.PageSize
	}
	page := m.Page
	if page <= 0 {
		page = requested.Page
	}
	if m.Total <= 0 {
		return Empty(pageSize)
	}
	out := Compute(m.Total, page, pageSize)
	if m.TotalPages > 0 {
		out.TotalPages = m.TotalPages
		out.HasNext = page < m.TotalPages
	}
	return out
}
