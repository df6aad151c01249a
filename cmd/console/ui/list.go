package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pastas-console/pagination"
)

type column[T any] struct {
	title string
	width int
	value func(T) string
}

// fetchedMsg 는 목록 조회 결과다. 반영 여부는 Controller.Apply 가 결정한다.
type fetchedMsg[T any] struct {
	res pagination.Result[T]
}

// listView 는 페이지 단위 목록 화면 하나다. 조회 조건은 ctrl 이 소유한다.
type listView[T any] struct {
	ctrl    *pagination.Controller[T]
	columns []column[T]
	empty   string
	timeout time.Duration

	cursor  int
	filter  textinput.Model
	editing bool
}

func newListView[T any](ctrl *pagination.Controller[T], columns []column[T], empty string, timeout time.Duration) *listView[T] {
	ti := textinput.New()
	ti.Placeholder = "buscar..."
	ti.Prompt = "/ "
	ti.CharLimit = 64
	return &listView[T]{
		ctrl:    ctrl,
		columns: columns,
		empty:   empty,
		timeout: timeout,
		filter:  ti,
	}
}

// fetch 는 req 를 tea.Cmd 안에서 조회한다. 상태 반영은 Update 에서 apply 로 한다.
func (v *listView[T]) fetch(req pagination.Request) tea.Cmd {
	ctrl, timeout := v.ctrl, v.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return fetchedMsg[T]{res: ctrl.Fetch(ctx, req)}
	}
}

func (v *listView[T]) load() tea.Cmd {
	return v.fetch(v.ctrl.Refresh())
}

func (v *listView[T]) apply(msg fetchedMsg[T]) {
	if !v.ctrl.Apply(msg.res) {
		return
	}
	n := len(v.ctrl.State().Page.Items)
	if v.cursor >= n {
		v.cursor = max(n-1, 0)
	}
}

func (v *listView[T]) selected() (T, bool) {
	items := v.ctrl.State().Page.Items
	if v.cursor < 0 || v.cursor >= len(items) {
		var zero T
		return zero, false
	}
	return items[v.cursor], true
}

func (v *listView[T]) capturing() bool {
	return v.editing
}

// handleKey 는 목록 공통 키를 처리한다. 처리하지 않은 키면 false 를 반환한다.
func (v *listView[T]) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if v.editing {
		switch msg.String() {
		case "enter":
			v.editing = false
			v.filter.Blur()
			v.cursor = 0
			return v.fetch(v.ctrl.SubmitFilter(strings.TrimSpace(v.filter.Value()))), true
		case "esc":
			v.editing = false
			v.filter.Blur()
			v.filter.SetValue(v.ctrl.Query().Filter)
			return nil, true
		}
		var cmd tea.Cmd
		v.filter, cmd = v.filter.Update(msg)
		return cmd, true
	}

	st := v.ctrl.State()
	meta := st.Page.Pagination
	switch msg.String() {
	case "left", "h":
		if meta.HasPrevious {
			return v.goTo(st.Query.Page - 1), true
		}
		return nil, true
	case "right", "l":
		if meta.HasNext {
			return v.goTo(st.Query.Page + 1), true
		}
		return nil, true
	case "home", "g":
		if st.Query.Page != 1 {
			return v.goTo(1), true
		}
		return nil, true
	case "end", "G":
		if st.Query.Page != meta.TotalPages {
			return v.goTo(meta.TotalPages), true
		}
		return nil, true
	case "+", "=":
		return v.resize(pagination.NextPageSize(st.Query.PageSize, 1)), true
	case "-", "_":
		return v.resize(pagination.NextPageSize(st.Query.PageSize, -1)), true
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
		return nil, true
	case "down", "j":
		if v.cursor < len(st.Page.Items)-1 {
			v.cursor++
		}
		return nil, true
	case "/":
		v.editing = true
		v.filter.SetValue(st.Query.Filter)
		v.filter.CursorEnd()
		v.filter.Focus()
		return nil, true
	case "r":
		return v.load(), true
	}
	return nil, false
}

func (v *listView[T]) goTo(page int) tea.Cmd {
	req, err := v.ctrl.SetPage(page)
	if err != nil {
		return nil
	}
	v.cursor = 0
	return v.fetch(req)
}

func (v *listView[T]) resize(size int) tea.Cmd {
	req, err := v.ctrl.SetPageSize(size)
	if err != nil {
		return nil
	}
	v.cursor = 0
	return v.fetch(req)
}

func (v *listView[T]) View() string {
	st := v.ctrl.State()
	var b strings.Builder

	switch {
	case v.editing:
		b.WriteString(v.filter.View())
	case st.Query.Filter != "":
		b.WriteString(mutedStyle.Render("filtro: " + st.Query.Filter))
	default:
		b.WriteString(mutedStyle.Render("/ para buscar"))
	}
	b.WriteString("\n\n")

	header := make([]string, len(v.columns))
	for i, c := range v.columns {
		header[i] = cell(c.title, c.width)
	}
	b.WriteString(headerStyle.Render(strings.Join(header, " ")))
	b.WriteString("\n")

	if st.Err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error al cargar (%s): %v", st.Failure, st.Err)))
		b.WriteString("\n")
	}
	if len(st.Page.Items) == 0 {
		b.WriteString(mutedStyle.Render(v.empty))
		b.WriteString("\n")
	}
	for i, item := range st.Page.Items {
		row := make([]string, len(v.columns))
		for j, c := range v.columns {
			row[j] = cell(c.value(item), c.width)
		}
		line := strings.Join(row, " ")
		if i == v.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	meta := st.Page.Pagination
	status := fmt.Sprintf("Página %d de %d · %d registros · %d por página", meta.Page, meta.TotalPages, meta.Total, st.Query.PageSize)
	if st.Loading {
		status += " · cargando..."
	}
	b.WriteString(footerStyle.Render(status))
	return b.String()
}
