package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pastas-console/analytics"
	"pastas-console/cmd/api/clients/backendclient"
	"pastas-console/models"
	"pastas-console/pagination"
)

type fakeBackend struct {
	mu        sync.Mutex
	empleados []models.Empleado
	accesos   []models.Acceso
	err       error
	queries   []pagination.Query
	filters   []backendclient.AccesosFilter
	deleted   []int
	uploads   []string
}

func newFakeBackend(n int) *fakeBackend {
	f := &fakeBackend{}
	for i := 1; i <= n; i++ {
		f.empleados = append(f.empleados, models.Empleado{EmpleadoID: i, Nombre: fmt.Sprintf("Empleado %d", i), AreaID: "AREA001"})
	}
	return f
}

func slicePage[T any](items []T, q pagination.Query) pagination.Page[T] {
	start := min((q.Page-1)*q.PageSize, len(items))
	end := min(start+q.PageSize, len(items))
	return pagination.Page[T]{
		Items:      append([]T{}, items[start:end]...),
		Pagination: pagination.Compute(len(items), q.Page, q.PageSize),
	}
}

func (f *fakeBackend) ListEmpleados(_ context.Context, q pagination.Query) (pagination.Page[models.Empleado], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return pagination.Page[models.Empleado]{}, f.err
	}
	matched := make([]models.Empleado, 0, len(f.empleados))
	for _, e := range f.empleados {
		if strings.Contains(e.FullName(), q.Filter) {
			matched = append(matched, e)
		}
	}
	return slicePage(matched, q), nil
}

func (f *fakeBackend) DeleteEmpleado(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	kept := f.empleados[:0]
	for _, e := range f.empleados {
		if e.EmpleadoID != id {
			kept = append(kept, e)
		}
	}
	f.empleados = kept
	return nil
}

func (f *fakeBackend) RegistrarRostro(_ context.Context, _ int, file backendclient.Upload) (backendclient.MessageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, file.ContentType)
	return backendclient.MessageResponse{Message: "Rostro registrado correctamente"}, nil
}

func (f *fakeBackend) ListAccesos(_ context.Context, q pagination.Query, filter backendclient.AccesosFilter) (pagination.Page[models.Acceso], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return pagination.Page[models.Acceso]{}, f.err
	}
	return slicePage(f.accesos, q), nil
}

func (f *fakeBackend) lastQuery() pagination.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

type countingSource struct {
	analytics.Source
	refreshes int
}

func (s *countingSource) Refresh(ctx context.Context) (analytics.Dataset, error) {
	s.refreshes++
	return s.Source.Refresh(ctx)
}

func newTestSource() *countingSource {
	now := func() time.Time { return time.Date(2025, 6, 18, 9, 0, 0, 0, time.UTC) }
	return &countingSource{Source: analytics.NewMockSource(analytics.NewGenerator(3, now))}
}

func newTestApp(t *testing.T, backend *fakeBackend) *App {
	t.Helper()
	a := New(backend, newTestSource(), DefaultOptions())
	return run(t, a, a.Init())
}

// run 은 cmd 와 그 결과로 생긴 cmd 를 모두 실행하며 메시지를 Update 에 전달한다.
func run(t *testing.T, a *App, cmd tea.Cmd) *App {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch m := msg.(type) {
		case nil:
			continue
		case tea.BatchMsg:
			queue = append(queue, m...)
			continue
		case tea.QuitMsg:
			continue
		}
		next, nextCmd := a.Update(msg)
		app, ok := next.(*App)
		require.True(t, ok, "unexpected model type: %T", next)
		a = app
		queue = append(queue, nextCmd)
	}
	return a
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press 는 키를 보내고 돌아온 cmd 까지 실행한다.
func press(t *testing.T, a *App, k string) *App {
	t.Helper()
	next, cmd := a.Update(key(k))
	return run(t, next.(*App), cmd)
}

// typeText 는 입력 필드에 글자를 넣는다. 커서 깜빡임 cmd 는 실행하지 않는다.
func typeText(a *App, s string) {
	for _, r := range s {
		a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestInitLoadsAllViews(t *testing.T) {
	a := newTestApp(t, newFakeBackend(25))

	st := a.employees.ctrl.State()
	assert.Len(t, st.Page.Items, 10)
	assert.Equal(t, 3, st.Page.Pagination.TotalPages)
	assert.True(t, st.Page.Pagination.HasNext)
	assert.False(t, st.Page.Pagination.HasPrevious)
	assert.False(t, st.Loading)
	require.NotNil(t, a.dashboard.data)

	view := a.View()
	assert.Contains(t, view, "Empleado 1")
	assert.Contains(t, view, "Página 1 de 3")
}

func TestPaginationKeys(t *testing.T) {
	backend := newFakeBackend(25)
	a := newTestApp(t, backend)

	a = press(t, a, "right")
	assert.Equal(t, 2, a.employees.ctrl.State().Page.Pagination.Page)

	a = press(t, a, "end")
	meta := a.employees.ctrl.State().Page.Pagination
	assert.Equal(t, 3, meta.Page)
	assert.False(t, meta.HasNext)
	assert.True(t, meta.HasPrevious)
	assert.Len(t, a.employees.ctrl.State().Page.Items, 5)

	calls := len(backend.queries)
	a = press(t, a, "right")
	assert.Len(t, backend.queries, calls, "no fetch past the last page")

	a = press(t, a, "home")
	assert.Equal(t, 1, a.employees.ctrl.State().Page.Pagination.Page)

	_, cmd := a.Update(key("left"))
	assert.Nil(t, cmd)
}

func TestPageSizeChangeResetsPage(t *testing.T) {
	backend := newFakeBackend(25)
	a := newTestApp(t, backend)
	a = press(t, a, "end")

	a = press(t, a, "+")
	q := backend.lastQuery()
	assert.Equal(t, 20, q.PageSize)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 2, a.employees.ctrl.State().Page.Pagination.TotalPages)

	a = press(t, a, "-")
	assert.Equal(t, 10, backend.lastQuery().PageSize)
}

func TestFilterSubmit(t *testing.T) {
	backend := newFakeBackend(25)
	a := newTestApp(t, backend)
	a = press(t, a, "right")

	a = press(t, a, "/")
	require.True(t, a.employees.editing)
	typeText(a, "Empleado 2")

	// 입력 중에는 q 가 종료가 아니라 글자다.
	typeText(a, "q")
	assert.True(t, a.employees.editing)
	next, _ := a.Update(key("backspace"))
	a = next.(*App)

	a = press(t, a, "enter")
	assert.False(t, a.employees.editing)
	q := backend.lastQuery()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, "Empleado 2", q.Filter)

	// Empleado 2, 20..25
	assert.Len(t, a.employees.ctrl.State().Page.Items, 7)
	for _, e := range a.employees.ctrl.State().Page.Items {
		assert.Contains(t, e.FullName(), q.Filter)
	}
}

func TestEmptyStates(t *testing.T) {
	a := newTestApp(t, newFakeBackend(0))

	assert.Contains(t, a.View(), emptyEmployees)
	assert.Equal(t, 1, a.employees.ctrl.State().Page.Pagination.TotalPages)

	a = press(t, a, "tab")
	assert.Contains(t, a.View(), emptyAccesses)
}

func TestFetchErrorRendersEmptyPage(t *testing.T) {
	backend := newFakeBackend(25)
	backend.err = &backendclient.StatusError{Op: "ListEmpleados", Status: 500}
	a := newTestApp(t, backend)

	st := a.employees.ctrl.State()
	assert.Error(t, st.Err)
	assert.Equal(t, pagination.FailureStatus, st.Failure)
	assert.Empty(t, st.Page.Items)
	assert.Equal(t, 0, st.Page.Pagination.Total)
	assert.Contains(t, a.View(), "Error al cargar")
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	backend := newFakeBackend(12)
	a := newTestApp(t, backend)
	a = press(t, a, "down")

	a = press(t, a, "d")
	assert.Equal(t, modeConfirmDelete, a.employees.mode)
	a = press(t, a, "n")
	assert.Equal(t, modeBrowse, a.employees.mode)
	assert.Empty(t, backend.deleted)

	calls := len(backend.queries)
	a = press(t, a, "d")
	a = press(t, a, "y")
	assert.Equal(t, []int{2}, backend.deleted)
	assert.Greater(t, len(backend.queries), calls, "delete must refresh the list")
	assert.Equal(t, 11, a.employees.ctrl.State().Page.Pagination.Total)
	assert.Contains(t, a.View(), "Empleado eliminado.")
}

func TestStaleResultIsDiscarded(t *testing.T) {
	a := newTestApp(t, newFakeBackend(40))

	_, first := a.Update(key("right"))
	_, second := a.Update(key("right"))
	require.NotNil(t, first)
	require.NotNil(t, second)

	a = run(t, a, second)
	a = run(t, a, first)
	assert.Equal(t, 3, a.employees.ctrl.State().Page.Pagination.Page)
}

func TestRegisterFace(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "rostro.jpg")
	require.NoError(t, os.WriteFile(img, append([]byte{0xff, 0xd8, 0xff, 0xe0}, make([]byte, 64)...), 0o600))
	txt := filepath.Join(dir, "notas.txt")
	require.NoError(t, os.WriteFile(txt, []byte("no es una imagen"), 0o600))

	backend := newFakeBackend(3)
	a := newTestApp(t, backend)

	a = press(t, a, "f")
	require.Equal(t, modeFacePath, a.employees.mode)
	typeText(a, txt)
	a = press(t, a, "enter")
	assert.Empty(t, backend.uploads)
	assert.True(t, a.employees.failed)

	a = press(t, a, "f")
	typeText(a, img)
	a = press(t, a, "enter")
	assert.Equal(t, []string{"image/jpeg"}, backend.uploads)
	assert.False(t, a.employees.failed)
	assert.Contains(t, a.View(), "Rostro registrado correctamente")
}

func TestUploadFaceMissingFile(t *testing.T) {
	_, err := uploadFace(context.Background(), newFakeBackend(0), 1, filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestAccessTipoFilterCycles(t *testing.T) {
	backend := newFakeBackend(0)
	backend.accesos = []models.Acceso{{AccesoID: 1, AreaID: "AREA002", TipoAcceso: models.TipoIngreso, MetodoAcceso: "Facial"}}
	a := newTestApp(t, backend)
	a = press(t, a, "tab")
	assert.Contains(t, a.View(), models.UnknownEmployeeName)

	a = press(t, a, "t")
	assert.Equal(t, string(models.TipoIngreso), backend.filters[len(backend.filters)-1].TipoAcceso)
	a = press(t, a, "t")
	a = press(t, a, "t")
	assert.Empty(t, backend.filters[len(backend.filters)-1].TipoAcceso)
	assert.Contains(t, a.View(), "tipo: Todos")
}

func TestAccessRefreshKeepsTipoOfIssuedRequest(t *testing.T) {
	backend := newFakeBackend(0)
	a := newTestApp(t, backend)
	a = press(t, a, "tab")

	// r 로 만든 조회가 실행되기 전에 tipo 를 바꿔도, 그 조회는 발급 당시 조건을 쓴다.
	_, refresh := a.Update(key("r"))
	require.NotNil(t, refresh)
	a = press(t, a, "t")
	assert.Equal(t, string(models.TipoIngreso), backend.filters[len(backend.filters)-1].TipoAcceso)

	stale := refresh()
	assert.Empty(t, backend.filters[len(backend.filters)-1].TipoAcceso)
	next, _ := a.Update(stale)
	a = next.(*App)
	assert.Contains(t, a.View(), "tipo: Ingreso")
}

func TestDashboardRegenerates(t *testing.T) {
	backend := newFakeBackend(0)
	source := newTestSource()
	a := New(backend, source, DefaultOptions())
	a = run(t, a, a.Init())

	a = press(t, a, "tab")
	a = press(t, a, "tab")
	require.Equal(t, tabDashboard, a.tab)
	assert.Contains(t, a.View(), "Desperdicio por producto")

	a = press(t, a, "r")
	assert.Equal(t, 1, source.refreshes)
	assert.False(t, a.dashboard.loading)
}

func TestQuitAndTabCycle(t *testing.T) {
	a := newTestApp(t, newFakeBackend(1))

	_, cmd := a.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	for range tabTitles {
		a = press(t, a, "tab")
	}
	assert.Equal(t, tabEmpleados, a.tab)
}
