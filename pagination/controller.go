package pagination

import (
	"context"
	"sync"
)

// Request 는 하나의 조회 의도다. Seq 는 컨트롤러가 발급한 순번이며 단조 증가한다.
type Request struct {
	Seq   uint64
	Query Query
	Scope Scope
}

// Result 는 Fetch 의 결과다. 실패해도 Page 는 항상 렌더링 가능한 빈 페이지로 채워진다.
type Result[T any] struct {
	Request Request
	Page    Page[T]
	Err     error
}

// State 는 목록 화면이 렌더링에 사용하는 스냅샷이다.
type State[T any] struct {
	Query   Query
	Scope   Scope
	Page    Page[T]
	Loading bool
	Err     error
	Failure FailureKind
}

type options struct {
	initial    Query
	sequencing bool
	onError    func(req Request, kind FailureKind, err error)
	onStale    func(applied, latest uint64)
}

type Option func(*options)

// WithInitialQuery 는 최초 조회 조건을 지정한다. 유효하지 않으면 무시된다.
func WithInitialQuery(q Query) Option {
	return func(o *options) {
		if q.Validate() == nil {
			o.initial = q
		}
	}
}

// WithErrorHandler 는 조회 실패를 외부(로거 등)로 알리는 콜백을 등록한다.
func WithErrorHandler(fn func(req Request, kind FailureKind, err error)) Option {
	return func(o *options) { o.onError = fn }
}

// WithStaleHandler 는 오래된 응답이 버려질 때 호출된다.
func WithStaleHandler(fn func(applied, latest uint64)) Option {
	return func(o *options) { o.onStale = fn }
}

// WithoutSequencing 은 순번 검사를 끄고 마지막으로 도착한 응답을 그대로 반영한다.
func WithoutSequencing() Option {
	return func(o *options) { o.sequencing = false }
}

// Controller 는 원격 페이지 조회 엔드포인트와 목록 화면 사이의 상태를 관리한다.
// 모든 메서드는 여러 고루틴에서 동시에 호출해도 안전하다.
type Controller[T any] struct {
	fetcher Fetcher[T]
	opts    options

	mu      sync.Mutex
	query   Query
	scope   Scope
	page    Page[T]
	seq     uint64
	loading bool
	err     error
	failure FailureKind
}

func NewController[T any](fetcher Fetcher[T], opts ...Option) *Controller[T] {
	o := options{initial: DefaultQuery(), sequencing: true}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[T]{
		fetcher: fetcher,
		opts:    o,
		query:   o.initial,
		page:    EmptyPage[T](o.initial.PageSize),
	}
}

// issue 는 현재 조회 조건으로 새 Request 를 발급한다. mu 를 잡은 상태에서 호출해야 한다.
func (c *Controller[T]) issue() Request {
	c.seq++
	c.loading = true
	return Request{Seq: c.seq, Query: c.query, Scope: c.scope}
}

// SetPage 는 n 페이지로 이동한다. total_pages 에 대한 클램핑은 하지 않는다.
func (c *Controller[T]) SetPage(n int) (Request, error) {
	if n < 1 {
		return Request{}, ErrInvalidPage
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.Page = n
	return c.issue(), nil
}

// SetPageSize 는 페이지 크기를 바꾸고 1페이지로 돌아간다.
func (c *Controller[T]) SetPageSize(size int) (Request, error) {
	if !IsSupportedPageSize(size) {
		return Request{}, ErrInvalidPageSize
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.PageSize = size
	c.query.Page = 1
	return c.issue(), nil
}

// SubmitFilter 는 검색어를 확정하고 1페이지로 돌아간다. 로컬 재필터링은 하지 않는다.
func (c *Controller[T]) SubmitFilter(text string) Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.Filter = text
	c.query.Page = 1
	return c.issue()
}

// SetScope 는 고정 조회 조건 하나를 바꾸고 1페이지로 돌아간다. 빈 value 는 조건을 지운다.
func (c *Controller[T]) SetScope(key, value string) Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scope = c.scope.with(key, value)
	c.query.Page = 1
	return c.issue()
}

// Refresh 는 현재 조건 그대로 다시 조회한다. 생성/삭제 후에 사용한다.
func (c *Controller[T]) Refresh() Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.issue()
}

// Fetch 는 실제 I/O 를 수행한다. 상태를 바꾸지 않으므로 UI 고루틴 밖에서 실행해도 된다.
// 에러는 panic 이나 반환 에러로 새지 않고, 빈 페이지와 함께 Result.Err 로 담긴다.
func (c *Controller[T]) Fetch(ctx context.Context, req Request) Result[T] {
	var (
		page Page[T]
		err  error
	)
	if sf, ok := c.fetcher.(ScopedFetcher[T]); ok {
		page, err = sf.FetchScoped(ctx, req.Query, req.Scope)
	} else {
		page, err = c.fetcher.FetchPage(ctx, req.Query)
	}
	if err != nil {
		return Result[T]{Request: req, Page: EmptyPage[T](req.Query.PageSize), Err: err}
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	page.Pagination = page.Pagination.Normalize(req.Query)
	return Result[T]{Request: req, Page: page}
}

// Apply 는 Fetch 결과를 상태에 반영한다.
// 순번 검사가 켜져 있으면 가장 최근에 발급된 Request 의 결과만 반영하고 false 로 오래된 결과를 버린다.
func (c *Controller[T]) Apply(res Result[T]) bool {
	c.mu.Lock()
	latest := c.seq
	if c.opts.sequencing && res.Request.Seq != latest {
		c.mu.Unlock()
		if c.opts.onStale != nil {
			c.opts.onStale(res.Request.Seq, latest)
		}
		return false
	}

	c.page = res.Page
	c.err = res.Err
	c.failure = Classify(res.Err)
	if res.Request.Seq == latest {
		c.loading = false
	}
	if res.Err != nil {
		c.query.Page = 1
	} else if p := res.Page.Pagination.Page; p > 0 {
		c.query.Page = p
	}
	kind := c.failure
	c.mu.Unlock()

	if res.Err != nil && c.opts.onError != nil {
		c.opts.onError(res.Request, kind, res.Err)
	}
	return true
}

// Load 는 Fetch 와 Apply 를 동기적으로 수행하고 반영 후 상태를 돌려준다.
func (c *Controller[T]) Load(ctx context.Context, req Request) State[T] {
	c.Apply(c.Fetch(ctx, req))
	return c.State()
}

// Mutate 는 컬렉션을 바꾸는 작업(생성, 삭제 등)을 수행하고 성공했을 때만 다시 조회한다.
func (c *Controller[T]) Mutate(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	c.Load(ctx, c.Refresh())
	return nil
}

func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.page.Items))
	copy(items, c.page.Items)
	return State[T]{
		Query:   c.query,
		Scope:   c.scope,
		Page:    Page[T]{Items: items, Pagination: c.page.Pagination},
		Loading: c.loading,
		Err:     c.err,
		Failure: c.failure,
	}
}

func (c *Controller[T]) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}
