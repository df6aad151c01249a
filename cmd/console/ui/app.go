// Package ui 는 관리 콘솔의 터미널 화면이다.
//
// 화면마다 pagination.Controller 하나를 두고, 조회는 tea.Cmd 로 실행한 뒤
// 결과 메시지를 Update 에서 Controller.Apply 로 반영한다. 오래된 응답은 Apply 가 버린다.
package ui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pastas-console/analytics"
	"pastas-console/cmd/internal/logger"
	"pastas-console/models"
	"pastas-console/pagination"
)

// Backend 는 콘솔이 호출하는 백엔드 연산 전체다. (*backendclient.Client 구현)
type Backend interface {
	EmployeeBackend
	AccessBackend
}

type tab int

const (
	tabEmpleados tab = iota
	tabAccesos
	tabDashboard
)

var tabTitles = []string{"Empleados", "Accesos", "Tablero"}

type Options struct {
	Timeout  time.Duration
	PageSize int
	// Sequencing 이 false 면 마지막으로 도착한 응답을 그대로 반영한다.
	Sequencing bool
}

func DefaultOptions() Options {
	return Options{Timeout: 10 * time.Second, PageSize: pagination.DefaultPageSize, Sequencing: true}
}

// App is the root bubbletea model.
type App struct {
	tab       tab
	employees *employeesView
	accesses  *accessesView
	dashboard *dashboardView

	width  int
	height int
}

func New(backend Backend, source analytics.Source, opts Options) *App {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	ctrlOpts := []pagination.Option{
		pagination.WithErrorHandler(func(req pagination.Request, kind pagination.FailureKind, err error) {
			logger.ErrorWithFields("page fetch failed", logger.Fields{
				"seq":       req.Seq,
				"page":      req.Query.Page,
				"page_size": req.Query.PageSize,
				"kind":      string(kind),
				"error":     err.Error(),
			})
		}),
		pagination.WithStaleHandler(func(applied, latest uint64) {
			logger.DebugWithFields("stale page discarded", logger.Fields{"seq": applied, "latest": latest})
		}),
	}
	if opts.PageSize > 0 {
		q := pagination.DefaultQuery()
		q.PageSize = opts.PageSize
		ctrlOpts = append(ctrlOpts, pagination.WithInitialQuery(q))
	}
	if !opts.Sequencing {
		ctrlOpts = append(ctrlOpts, pagination.WithoutSequencing())
	}

	empCtrl := pagination.NewController[models.Empleado](pagination.FetchFunc[models.Empleado](backend.ListEmpleados), ctrlOpts...)
	return &App{
		employees: newEmployeesView(backend, empCtrl, opts.Timeout),
		accesses:  newAccessesView(backend, opts.Timeout, ctrlOpts...),
		dashboard: newDashboardView(source, opts.Timeout),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.employees.load(), a.accesses.load(), a.dashboard.load(false))
}

// capturing 은 입력 필드나 확인 대화가 열려 있어 전역 키를 막아야 하는지 알려 준다.
func (a *App) capturing() bool {
	switch a.tab {
	case tabEmpleados:
		return a.employees.capturing()
	case tabAccesos:
		return a.accesses.capturing()
	}
	return false
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case fetchedMsg[models.Empleado]:
		a.employees.apply(msg)
		return a, nil

	case fetchedMsg[models.Acceso]:
		a.accesses.apply(msg)
		return a, nil

	case deletedMsg, faceRegisteredMsg:
		return a, a.employees.handleResult(msg)

	case dashboardMsg:
		a.dashboard.apply(msg)
		return a, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.capturing() {
			switch key {
			case "q":
				return a, tea.Quit
			case "tab":
				a.tab = (a.tab + 1) % tab(len(tabTitles))
				return a, nil
			case "shift+tab":
				a.tab = (a.tab + tab(len(tabTitles)) - 1) % tab(len(tabTitles))
				return a, nil
			}
		}
		switch a.tab {
		case tabEmpleados:
			return a, a.employees.handleKey(msg)
		case tabAccesos:
			return a, a.accesses.handleKey(msg)
		case tabDashboard:
			return a, a.dashboard.handleKey(msg)
		}
	}
	return a, nil
}

func (a *App) View() string {
	tabs := make([]string, len(tabTitles))
	for i, t := range tabTitles {
		if tab(i) == a.tab {
			tabs[i] = activeTabStyle.Render(t)
		} else {
			tabs[i] = tabStyle.Render(t)
		}
	}

	var body string
	switch a.tab {
	case tabEmpleados:
		body = a.employees.View()
	case tabAccesos:
		body = a.accesses.View()
	case tabDashboard:
		body = a.dashboard.View()
	}

	help := "tab cambiar vista · ←/→ página · home/end primera/última · +/- tamaño · / buscar · r recargar · q salir"
	switch a.tab {
	case tabEmpleados:
		help += " · d eliminar · f registrar rostro"
	case tabAccesos:
		help += " · t tipo"
	}

	return strings.Join([]string{
		titleStyle.Render("Pastas · Consola de administración"),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
		body,
		footerStyle.Render(help),
	}, "\n")
}

// Run 은 프로그램을 실행하고 종료될 때까지 블로킹한다.
func Run(ctx context.Context, app *App) error {
	_, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
