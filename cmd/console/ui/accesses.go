package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pastas-console/cmd/api/clients/backendclient"
	"pastas-console/models"
	"pastas-console/pagination"
)

// AccessBackend 는 출입 기록 화면이 사용하는 백엔드 연산이다.
type AccessBackend interface {
	ListAccesos(ctx context.Context, q pagination.Query, f backendclient.AccesosFilter) (pagination.Page[models.Acceso], error)
}

const emptyAccesses = "No hay accesos registrados."

const scopeTipo = "tipo_acceso"

// tipoFilters 는 t 키로 순환하는 출입 유형 필터다. 빈 값은 전체.
var tipoFilters = []models.TipoAcceso{"", models.TipoIngreso, models.TipoEgreso}

type accessesView struct {
	*listView[models.Acceso]
	tipo int
}

func newAccessesView(backend AccessBackend, timeout time.Duration, opts ...pagination.Option) *accessesView {
	v := &accessesView{}

	// tipo 필터는 Request 의 Scope 로 실려 오므로 발급 시점의 조건으로 조회된다.
	fetcher := pagination.ScopedFetchFunc[models.Acceso](func(ctx context.Context, q pagination.Query, scope pagination.Scope) (pagination.Page[models.Acceso], error) {
		return backend.ListAccesos(ctx, q, backendclient.AccesosFilter{TipoAcceso: scope.Get(scopeTipo)})
	})
	columns := []column[models.Acceso]{
		{"Fecha", 19, func(a models.Acceso) string { return a.FechaHora }},
		{"Empleado", 22, models.Acceso.DisplayName},
		{"Área", 16, models.Acceso.AreaDisplayName},
		{"Tipo", 8, func(a models.Acceso) string { return string(a.TipoAcceso) }},
		{"Método", 8, func(a models.Acceso) string { return a.MetodoAcceso }},
		{"Confianza", 10, confidenceLabel},
		{"Resultado", 10, func(a models.Acceso) string {
			if a.AccesoPermitido {
				return "Permitido"
			}
			return "Denegado"
		}},
	}
	v.listView = newListView(pagination.NewController[models.Acceso](fetcher, opts...), columns, emptyAccesses, timeout)
	return v
}

func confidenceLabel(a models.Acceso) string {
	if a.ConfianzaReconocimiento == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f%% %s", *a.ConfianzaReconocimiento*100, a.ConfidenceBand())
}

func (v *accessesView) tipoLabel() string {
	if t := tipoFilters[v.tipo]; t != "" {
		return string(t)
	}
	return "Todos"
}

func (v *accessesView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if cmd, ok := v.listView.handleKey(msg); ok {
		return cmd
	}
	if msg.String() == "t" {
		v.tipo = (v.tipo + 1) % len(tipoFilters)
		v.cursor = 0
		return v.fetch(v.ctrl.SetScope(scopeTipo, string(tipoFilters[v.tipo])))
	}
	return nil
}

func (v *accessesView) View() string {
	var b strings.Builder
	b.WriteString(mutedStyle.Render("tipo: " + v.tipoLabel() + " (t para cambiar)"))
	b.WriteString("\n")
	b.WriteString(v.listView.View())
	return b.String()
}
