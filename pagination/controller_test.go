package pagination

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend 는 서버 측 페이지 계산을 흉내 내는 메모리 Fetcher 다.
type fakeBackend struct {
	mu      sync.Mutex
	items   []string
	err     error
	queries []Query
}

func newFakeBackend(n int) *fakeBackend {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf("item-%02d", i+1)
	}
	return &fakeBackend{items: items}
}

func (f *fakeBackend) FetchPage(_ context.Context, q Query) (Page[string], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return Page[string]{}, f.err
	}
	matched := make([]string, 0, len(f.items))
	for _, it := range f.items {
		if q.Filter == "" || strings.Contains(it, q.Filter) {
			matched = append(matched, it)
		}
	}
	start := (q.Page - 1) * q.PageSize
	end := start + q.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}
	return Page[string]{
		Items:      matched[start:end],
		Pagination: Metadata{Total: len(matched), Page: q.Page, PageSize: q.PageSize},
	}, nil
}

func (f *fakeBackend) lastQuery() Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

type statusErr struct{ code int }

func (e statusErr) Error() string   { return fmt.Sprintf("status=%d", e.code) }
func (e statusErr) StatusCode() int { return e.code }

func TestControllerInitialState(t *testing.T) {
	c := NewController[string](newFakeBackend(3))
	st := c.State()

	assert.Equal(t, Query{Page: 1, PageSize: 10}, st.Query)
	assert.Empty(t, st.Page.Items)
	assert.NotNil(t, st.Page.Items)
	assert.False(t, st.Loading)
}

func TestControllerPaginationScenario(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend(25)
	c := NewController[string](backend)

	st := c.Load(ctx, c.Refresh())
	assert.Equal(t, 25, st.Page.Pagination.Total)
	assert.Equal(t, 3, st.Page.Pagination.TotalPages)
	assert.True(t, st.Page.Pagination.HasNext)
	assert.False(t, st.Page.Pagination.HasPrevious)
	assert.Len(t, st.Page.Items, 10)

	req, err := c.SetPage(3)
	require.NoError(t, err)
	st = c.Load(ctx, req)
	assert.Equal(t, 3, st.Query.Page)
	assert.False(t, st.Page.Pagination.HasNext)
	assert.True(t, st.Page.Pagination.HasPrevious)
	assert.Len(t, st.Page.Items, 5)

	req, err = c.SetPageSize(20)
	require.NoError(t, err)
	assert.Equal(t, Query{Page: 1, PageSize: 20}, req.Query)
	st = c.Load(ctx, req)
	assert.Equal(t, Query{Page: 1, PageSize: 20}, backend.lastQuery())
	assert.Equal(t, 2, st.Page.Pagination.TotalPages)
}

func TestControllerLastPageOf37(t *testing.T) {
	c := NewController[string](newFakeBackend(37))
	req, err := c.SetPage(4)
	require.NoError(t, err)

	st := c.Load(context.Background(), req)
	assert.Equal(t, 4, st.Page.Pagination.TotalPages)
	assert.False(t, st.Page.Pagination.HasNext)
	assert.True(t, st.Page.Pagination.HasPrevious)
	assert.Len(t, st.Page.Items, 7)
}

func TestControllerSubmitFilterResetsPage(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend(40)
	c := NewController[string](backend)

	req, err := c.SetPage(3)
	require.NoError(t, err)
	c.Load(ctx, req)

	req = c.SubmitFilter("item-1")
	assert.Equal(t, 1, req.Query.Page)
	assert.Equal(t, "item-1", req.Query.Filter)

	st := c.Load(ctx, req)
	assert.Equal(t, 1, st.Query.Page)
	// item-10..item-19
	assert.Equal(t, 10, st.Page.Pagination.Total)
}

func TestControllerPageSizeChangeAlwaysResetsPage(t *testing.T) {
	for _, size := range SupportedPageSizes {
		t.Run(fmt.Sprintf("size %d", size), func(t *testing.T) {
			c := NewController[string](newFakeBackend(100))
			_, err := c.SetPage(4)
			require.NoError(t, err)

			req, err := c.SetPageSize(size)
			require.NoError(t, err)
			assert.Equal(t, 1, req.Query.Page)
			assert.Equal(t, size, c.Query().PageSize)
		})
	}
}

func TestControllerRejectsInvalidIntents(t *testing.T) {
	c := NewController[string](newFakeBackend(10))

	_, err := c.SetPage(0)
	assert.ErrorIs(t, err, ErrInvalidPage)

	_, err = c.SetPageSize(15)
	assert.ErrorIs(t, err, ErrInvalidPageSize)

	assert.Equal(t, DefaultQuery(), c.Query())
	assert.False(t, c.State().Loading)
}

func TestControllerFetchErrorYieldsEmptyPage(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend(30)
	var (
		gotKind FailureKind
		gotErr  error
	)
	c := NewController[string](backend, WithErrorHandler(func(_ Request, kind FailureKind, err error) {
		gotKind = kind
		gotErr = err
	}))

	req, err := c.SetPageSize(20)
	require.NoError(t, err)
	c.Load(ctx, req)
	req, err = c.SetPage(2)
	require.NoError(t, err)

	backend.err = statusErr{code: 500}
	st := c.Load(ctx, req)

	assert.Empty(t, st.Page.Items)
	assert.Equal(t, Empty(20), st.Page.Pagination)
	assert.Equal(t, 1, st.Query.Page)
	assert.Equal(t, 20, st.Query.PageSize)
	assert.Error(t, st.Err)
	assert.Equal(t, FailureStatus, st.Failure)
	assert.Equal(t, FailureStatus, gotKind)
	assert.Equal(t, backend.err, gotErr)
}

func TestControllerRefreshReissuesSameQuery(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend(30)
	c := NewController[string](backend)

	req, err := c.SetPage(2)
	require.NoError(t, err)
	c.Load(ctx, req)
	before := backend.lastQuery()

	refresh := c.Refresh()
	assert.Greater(t, refresh.Seq, req.Seq)
	assert.Equal(t, before, refresh.Query)
	c.Load(ctx, refresh)
	assert.Equal(t, before, backend.lastQuery())
}

func TestControllerDiscardsStaleResults(t *testing.T) {
	ctx := context.Background()
	var stale []uint64
	c := NewController[string](newFakeBackend(50), WithStaleHandler(func(applied, _ uint64) {
		stale = append(stale, applied)
	}))

	first, err := c.SetPage(2)
	require.NoError(t, err)
	second, err := c.SetPage(4)
	require.NoError(t, err)

	secondRes := c.Fetch(ctx, second)
	firstRes := c.Fetch(ctx, first)

	assert.True(t, c.Apply(secondRes))
	assert.False(t, c.Apply(firstRes))

	st := c.State()
	assert.Equal(t, 4, st.Query.Page)
	assert.Equal(t, "item-31", st.Page.Items[0])
	assert.Equal(t, []uint64{first.Seq}, stale)
	assert.False(t, st.Loading)
}

func TestControllerWithoutSequencingLastResponseWins(t *testing.T) {
	ctx := context.Background()
	c := NewController[string](newFakeBackend(50), WithoutSequencing())

	first, err := c.SetPage(2)
	require.NoError(t, err)
	second, err := c.SetPage(4)
	require.NoError(t, err)

	assert.True(t, c.Apply(c.Fetch(ctx, second)))
	assert.True(t, c.Apply(c.Fetch(ctx, first)))
	assert.Equal(t, 2, c.State().Query.Page)
}

func TestControllerConcurrentFetchesKeepLatest(t *testing.T) {
	ctx := context.Background()
	c := NewController[string](newFakeBackend(100))

	reqs := make([]Request, 0, 10)
	for p := 1; p <= 10; p++ {
		req, err := c.SetPage(p)
		require.NoError(t, err)
		reqs = append(reqs, req)
	}

	var wg sync.WaitGroup
	for _, req := range reqs {
		wg.Add(1)
		go func(r Request) {
			defer wg.Done()
			c.Apply(c.Fetch(ctx, r))
		}(req)
	}
	wg.Wait()

	st := c.State()
	assert.Equal(t, 10, st.Query.Page)
	assert.Equal(t, "item-91", st.Page.Items[0])
}

func TestControllerMutate(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend(12)
	c := NewController[string](backend)
	c.Load(ctx, c.Refresh())
	calls := backend.calls()

	deleteErr := errors.New("delete failed")
	err := c.Mutate(ctx, func(context.Context) error { return deleteErr })
	assert.ErrorIs(t, err, deleteErr)
	assert.Equal(t, calls, backend.calls())

	err = c.Mutate(ctx, func(context.Context) error {
		backend.mu.Lock()
		backend.items = backend.items[1:]
		backend.mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, calls+1, backend.calls())
	assert.Equal(t, 11, c.State().Page.Pagination.Total)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, FailureNone, Classify(nil))
	assert.Equal(t, FailureStatus, Classify(fmt.Errorf("list: %w", statusErr{code: 404})))
	assert.Equal(t, FailureMalformed, Classify(fmt.Errorf("decode: %w", ErrMalformedResponse)))
	assert.Equal(t, FailureTransport, Classify(errors.New("connection refused")))
}

func TestFetchFuncAdapter(t *testing.T) {
	f := FetchFunc[int](func(_ context.Context, q Query) (Page[int], error) {
		return Page[int]{Pagination: Metadata{Total: 1, Page: q.Page}}, nil
	})
	c := NewController[int](f)

	st := c.Load(context.Background(), c.Refresh())
	assert.NotNil(t, st.Page.Items)
	assert.Equal(t, 1, st.Page.Pagination.TotalPages)
	assert.Equal(t, 10, st.Page.Pagination.PageSize)
}

func TestControllerScopeTravelsWithRequest(t *testing.T) {
	ctx := context.Background()
	var mu sync.Mutex
	var seen []string
	fetcher := ScopedFetchFunc[string](func(_ context.Context, q Query, scope Scope) (Page[string], error) {
		mu.Lock()
		seen = append(seen, scope.Get("tipo_acceso"))
		mu.Unlock()
		return Page[string]{Items: []string{"a"}, Pagination: Metadata{Total: 1, Page: q.Page, PageSize: q.PageSize}}, nil
	})
	c := NewController[string](fetcher)

	req, err := c.SetPage(3)
	require.NoError(t, err)
	assert.Empty(t, req.Scope.Get("tipo_acceso"))

	scoped := c.SetScope("tipo_acceso", "Ingreso")
	assert.Equal(t, 1, scoped.Query.Page)
	assert.Equal(t, "Ingreso", scoped.Scope.Get("tipo_acceso"))

	// 조건이 바뀐 뒤 실행돼도 먼저 발급된 Request 는 자기 조건으로 조회한다.
	c.Fetch(ctx, req)
	c.Load(ctx, scoped)
	refresh := c.Refresh()
	assert.Equal(t, scoped.Scope, refresh.Scope)
	c.Load(ctx, refresh)

	cleared := c.SetScope("tipo_acceso", "")
	assert.Empty(t, cleared.Scope)
	assert.Equal(t, "Ingreso", refresh.Scope.Get("tipo_acceso"))
	c.Load(ctx, cleared)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"", "Ingreso", "Ingreso", ""}, seen)
	assert.Empty(t, c.State().Scope)
}
