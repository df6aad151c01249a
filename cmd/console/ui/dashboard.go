package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pastas-console/analytics"
	"pastas-console/cmd/internal/logger"
)

const barWidth = 30

type dashboardMsg struct {
	data analytics.Dashboard
	err  error
}

type dashboardView struct {
	source  analytics.Source
	timeout time.Duration

	data    *analytics.Dashboard
	err     error
	loading bool
}

func newDashboardView(source analytics.Source, timeout time.Duration) *dashboardView {
	return &dashboardView{source: source, timeout: timeout}
}

// load 는 데이터를 읽는다. refresh 면 원천 데이터를 새로 만든다.
func (v *dashboardView) load(refresh bool) tea.Cmd {
	v.loading = true
	source, timeout := v.source, v.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		var (
			ds  analytics.Dataset
			err error
		)
		if refresh {
			ds, err = source.Refresh(ctx)
		} else {
			ds, err = source.Dataset(ctx)
		}
		if err != nil {
			return dashboardMsg{err: err}
		}
		return dashboardMsg{data: analytics.Summarize(ds)}
	}
}

func (v *dashboardView) apply(msg dashboardMsg) {
	v.loading = false
	v.err = msg.err
	if msg.err != nil {
		logger.ErrorWithFields("dashboard load failed", logger.Fields{"error": msg.err.Error()})
		return
	}
	d := msg.data
	v.data = &d
}

func (v *dashboardView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "r" {
		return v.load(true)
	}
	return nil
}

type barRow struct {
	label string
	value float64
	text  string
}

func renderBars(title string, rows []barRow) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString(mutedStyle.Render("sin datos"))
		return boxStyle.Render(b.String())
	}
	var top float64
	for _, r := range rows {
		top = max(top, r.value)
	}
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s %s", cell(r.label, 28), cell(r.text, 8), bar(r.value, top, barWidth))
	}
	return boxStyle.Render(b.String())
}

func (v *dashboardView) View() string {
	if v.err != nil {
		return errorStyle.Render("No se pudo cargar el tablero: " + v.err.Error())
	}
	if v.data == nil {
		return mutedStyle.Render("cargando tablero...")
	}
	d := v.data

	production := make([]barRow, 0, len(d.SerieTrimestral))
	for _, q := range d.SerieTrimestral {
		total := 0
		for _, n := range q.Valores {
			total += n
		}
		production = append(production, barRow{q.Trimestre, float64(total), fmt.Sprint(total)})
	}
	byArea := make([]barRow, 0, len(d.IrregularidadesPorArea))
	for _, r := range d.IrregularidadesPorArea {
		byArea = append(byArea, barRow{r.Area, float64(r.CantidadIrregularidades), fmt.Sprint(r.CantidadIrregularidades)})
	}
	byProduct := make([]barRow, 0, len(d.IrregularidadesPorProducto))
	for _, r := range d.IrregularidadesPorProducto {
		byProduct = append(byProduct, barRow{r.TipoProducto, float64(r.CantidadIrregularidades), fmt.Sprint(r.CantidadIrregularidades)})
	}
	waste := make([]barRow, 0, len(d.Desperdicio))
	for _, r := range d.Desperdicio {
		waste = append(waste, barRow{r.TipoProducto, r.PorcentajeDesperdicio, fmt.Sprintf("%.2f%%", r.PorcentajeDesperdicio)})
	}

	sections := []string{
		renderBars("Producción por trimestre", production),
		renderBars("Irregularidades por área", byArea),
		renderBars("Irregularidades por producto", byProduct),
		renderBars("Desperdicio por producto", waste),
	}
	status := "generado " + d.GeneratedAt.Format("2006-01-02 15:04") + " · r para regenerar"
	if v.loading {
		status += " · cargando..."
	}
	return strings.Join(sections, "\n") + "\n" + footerStyle.Render(status)
}
