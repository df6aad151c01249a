package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"pastas-console/models"
)

// ProductionByTypeQuarter 는 제품/분기별 생산 로트 수와 총량이다. 폐기 로트는 제외한다.
type ProductionByTypeQuarter struct {
	TipoProducto  string `json:"TipoProducto"`
	Trimestre     string `json:"Trimestre"`
	CantidadLotes int    `json:"CantidadLotes"`
	CantidadTotal int    `json:"CantidadTotal"`
}

// QuarterSeries 는 한 분기에 대한 제품별 생산 총량(선 그래프용 피벗)이다.
type QuarterSeries struct {
	Trimestre string         `json:"Trimestre"`
	Valores   map[string]int `json:"Valores"`
}

type IrregularityByAreaProduct struct {
	Area                    string `json:"Area"`
	TipoProducto            string `json:"TipoProducto"`
	CantidadIrregularidades int    `json:"CantidadIrregularidades"`
}

type IrregularityByArea struct {
	Area                    string `json:"Area"`
	CantidadIrregularidades int    `json:"CantidadIrregularidades"`
}

type IrregularityByProduct struct {
	TipoProducto            string `json:"TipoProducto"`
	CantidadIrregularidades int    `json:"CantidadIrregularidades"`
}

type WastePercentageByProduct struct {
	TipoProducto          string  `json:"TipoProducto"`
	TotalProducido        int     `json:"TotalProducido"`
	TotalDescartado       int     `json:"TotalDescartado"`
	Aprovechado           int     `json:"Aprovechado"`
	PorcentajeDesperdicio float64 `json:"PorcentajeDesperdicio"`
}

// Dashboard 는 한 Dataset 으로부터 계산한 모든 대시보드 집계다.
type Dashboard struct {
	GeneratedAt                time.Time                   `json:"generated_at"`
	ProduccionPorTrimestre     []ProductionByTypeQuarter   `json:"produccion_por_trimestre"`
	SerieTrimestral            []QuarterSeries             `json:"serie_trimestral"`
	Irregularidades            []IrregularityByAreaProduct `json:"irregularidades"`
	IrregularidadesPorArea     []IrregularityByArea        `json:"irregularidades_por_area"`
	IrregularidadesPorProducto []IrregularityByProduct     `json:"irregularidades_por_producto"`
	Desperdicio                []WastePercentageByProduct  `json:"desperdicio"`
	ProduccionDiaria           []DailyProduction           `json:"produccion_diaria"`
}

// DummyAreas 는 이상 사례 집계에 사용하는 숫자 구역 ID 와 이름이다.
var DummyAreas = []struct {
	AreaID int
	Nombre string
}{
	{1, "Preparacion"},
	{2, "Procesamiento"},
	{3, "Elaboración"},
	{4, "Envasado"},
	{5, "Etiquetado"},
	{6, "Control Calidad"},
	{7, "Comun"},
}

type quarter struct {
	year int
	q    int
}

func (q quarter) label() string { return fmt.Sprintf("Q%d %d", q.q, q.year) }

func quarterOf(t time.Time) quarter {
	return quarter{year: t.Year(), q: (int(t.Month())-1)/3 + 1}
}

func sortedQuarters(lotes []models.Lote) []quarter {
	seen := map[quarter]struct{}{}
	for _, l := range lotes {
		if l.Descartado() {
			continue
		}
		seen[quarterOf(l.FechaProduccion)] = struct{}{}
	}
	out := make([]quarter, 0, len(seen))
	for q := range seen {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].year != out[j].year {
			return out[i].year < out[j].year
		}
		return out[i].q < out[j].q
	})
	return out
}

// ProductionByQuarter 는 제품 x 분기 조합마다 한 행을 만든다. 분기는 시간순으로 정렬된다.
func ProductionByQuarter(tipos []models.TipoProducto, lotes []models.Lote) []ProductionByTypeQuarter {
	quarters := sortedQuarters(lotes)
	type key struct {
		tipo int
		q    quarter
	}
	counts := map[key]int{}
	totals := map[key]int{}
	for _, l := range lotes {
		if l.Descartado() {
			continue
		}
		k := key{tipo: l.TipoProductoID, q: quarterOf(l.FechaProduccion)}
		counts[k]++
		totals[k] += l.Cantidad
	}

	out := make([]ProductionByTypeQuarter, 0, len(tipos)*len(quarters))
	for _, tipo := range tipos {
		for _, q := range quarters {
			k := key{tipo: tipo.TipoProductoID, q: q}
			out = append(out, ProductionByTypeQuarter{
				TipoProducto:  tipo.Nombre,
				Trimestre:     q.label(),
				CantidadLotes: counts[k],
				CantidadTotal: totals[k],
			})
		}
	}
	return out
}

// PivotByQuarter 는 ProductionByQuarter 결과를 분기 단위 행으로 바꾼다. 입력 순서의 분기 순서를 유지한다.
func PivotByQuarter(rows []ProductionByTypeQuarter) []QuarterSeries {
	index := map[string]int{}
	out := make([]QuarterSeries, 0)
	for _, r := range rows {
		i, ok := index[r.Trimestre]
		if !ok {
			i = len(out)
			index[r.Trimestre] = i
			out = append(out, QuarterSeries{Trimestre: r.Trimestre, Valores: map[string]int{}})
		}
		out[i].Valores[r.TipoProducto] += r.CantidadTotal
	}
	return out
}

// IrregularitiesByAreaProduct 는 구역 x 제품별 이상 건수를 센다. 건수가 0인 조합은 제외한다.
func IrregularitiesByAreaProduct(tipos []models.TipoProducto, lotes []models.Lote, irregs []models.Irregularidad) []IrregularityByAreaProduct {
	loteTipo := make(map[int]int, len(lotes))
	for _, l := range lotes {
		loteTipo[l.LoteID] = l.TipoProductoID
	}
	type key struct{ area, tipo int }
	counts := map[key]int{}
	for _, ir := range irregs {
		tipo, ok := loteTipo[ir.LoteID]
		if !ok {
			continue
		}
		counts[key{area: ir.AreaID, tipo: tipo}]++
	}

	out := make([]IrregularityByAreaProduct, 0)
	for _, area := range DummyAreas {
		for _, tipo := range tipos {
			n := counts[key{area: area.AreaID, tipo: tipo.TipoProductoID}]
			if n == 0 {
				continue
			}
			out = append(out, IrregularityByAreaProduct{
				Area:                    area.Nombre,
				TipoProducto:            tipo.Nombre,
				CantidadIrregularidades: n,
			})
		}
	}
	return out
}

// SumByArea 는 구역별 합계를 처음 등장한 순서대로 돌려준다.
func SumByArea(rows []IrregularityByAreaProduct) []IrregularityByArea {
	index := map[string]int{}
	out := make([]IrregularityByArea, 0)
	for _, r := range rows {
		i, ok := index[r.Area]
		if !ok {
			i = len(out)
			index[r.Area] = i
			out = append(out, IrregularityByArea{Area: r.Area})
		}
		out[i].CantidadIrregularidades += r.CantidadIrregularidades
	}
	return out
}

func SumByProduct(rows []IrregularityByAreaProduct) []IrregularityByProduct {
	index := map[string]int{}
	out := make([]IrregularityByProduct, 0)
	for _, r := range rows {
		i, ok := index[r.TipoProducto]
		if !ok {
			i = len(out)
			index[r.TipoProducto] = i
			out = append(out, IrregularityByProduct{TipoProducto: r.TipoProducto})
		}
		out[i].CantidadIrregularidades += r.CantidadIrregularidades
	}
	return out
}

// WasteByProduct 는 제품별 폐기율(소수 둘째 자리 반올림)을 계산한다. 생산량이 0이면 0%다.
func WasteByProduct(tipos []models.TipoProducto, lotes []models.Lote) []WastePercentageByProduct {
	out := make([]WastePercentageByProduct, 0, len(tipos))
	for _, tipo := range tipos {
		var producido, descartado int
		for _, l := range lotes {
			if l.TipoProductoID != tipo.TipoProductoID {
				continue
			}
			producido += l.Cantidad
			if l.Descartado() {
				descartado += l.Cantidad
			}
		}
		row := WastePercentageByProduct{
			TipoProducto:    tipo.Nombre,
			TotalProducido:  producido,
			TotalDescartado: descartado,
			Aprovechado:     max(producido-descartado, 0),
		}
		if producido > 0 {
			row.PorcentajeDesperdicio = math.Round(float64(descartado)/float64(producido)*100*100) / 100
		}
		out = append(out, row)
	}
	return out
}

// Summarize 는 Dataset 하나로 대시보드 전체를 계산한다.
func Summarize(ds Dataset) Dashboard {
	production := ProductionByQuarter(ds.TiposProducto, ds.Lotes)
	irregs := IrregularitiesByAreaProduct(ds.TiposProducto, ds.Lotes, ds.Irregularidades)
	daily := ds.Daily
	if daily == nil {
		daily = []DailyProduction{}
	}
	return Dashboard{
		GeneratedAt:                ds.GeneratedAt,
		ProduccionPorTrimestre:     production,
		SerieTrimestral:            PivotByQuarter(production),
		Irregularidades:            irregs,
		IrregularidadesPorArea:     SumByArea(irregs),
		IrregularidadesPorProducto: SumByProduct(irregs),
		Desperdicio:                WasteByProduct(ds.TiposProducto, ds.Lotes),
		ProduccionDiaria:           daily,
	}
}

// DailyFromLotes 는 저장된 로트로부터 최근 days 일(주말 제외)의 일별 생산 지표를 만든다.
// 출입 건수는 로트 데이터에 없으므로 0 이다.
func DailyFromLotes(lotes []models.Lote, now time.Time, days int) []DailyProduction {
	byDay := map[string][2]int{}
	for _, l := range lotes {
		d := l.FechaProduccion.Format("2006-01-02")
		v := byDay[d]
		v[0] += l.Cantidad
		if l.Descartado() {
			v[1] += l.Cantidad
		}
		byDay[d] = v
	}
	out := make([]DailyProduction, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		key := day.Format("2006-01-02")
		v := byDay[key]
		out = append(out, DailyProduction{
			Date:       key,
			Production: v[0],
			Waste:      v[1],
			Efficiency: efficiency(v[0], v[1]),
		})
	}
	return out
}
