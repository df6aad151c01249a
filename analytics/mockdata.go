package analytics

import (
	"fmt"
	"math/rand"
	"time"

	"pastas-console/models"
)

// TiposProducto 는 대시보드에서 사용하는 기본 제품 카탈로그다.
var TiposProducto = []models.TipoProducto{
	{
		TipoProductoID:            1,
		Nombre:                    "Spaghetti",
		Categoria:                 models.CategoriaPastaSeca,
		DiasVidaUtil:              730,
		CondicionesAlmacenamiento: "Lugar seco y fresco",
		TemperaturaAlmacenamiento: 20,
		NormativaAplicable:        "CAA Art. 760",
		Observaciones:             "Pasta larga tradicional",
	},
	{
		TipoProductoID:            2,
		Nombre:                    "Ravioles de Ricota",
		Categoria:                 models.CategoriaPastaFresca,
		DiasVidaUtil:              7,
		CondicionesAlmacenamiento: "Refrigeración",
		TemperaturaAlmacenamiento: 4,
		NormativaAplicable:        "CAA Art. 761",
		Observaciones:             "Pasta rellena fresca",
	},
	{
		TipoProductoID:            3,
		Nombre:                    "Fideos Moñito",
		Categoria:                 models.CategoriaPastaSeca,
		DiasVidaUtil:              730,
		CondicionesAlmacenamiento: "Lugar seco y fresco",
		TemperaturaAlmacenamiento: 20,
		NormativaAplicable:        "CAA Art. 760",
		Observaciones:             "Pasta corta",
	},
	{
		TipoProductoID:            4,
		Nombre:                    "Salsa Bolognesa",
		Categoria:                 models.CategoriaSalsas,
		DiasVidaUtil:              365,
		CondicionesAlmacenamiento: "Lugar seco",
		TemperaturaAlmacenamiento: 20,
		NormativaAplicable:        "CAA Art. 900",
		Observaciones:             "Salsa lista para consumo",
	},
	{
		TipoProductoID:            5,
		Nombre:                    "Cappellettis de Jamón y Queso",
		Categoria:                 models.CategoriaRellenos,
		DiasVidaUtil:              5,
		CondicionesAlmacenamiento: "Refrigeración",
		TemperaturaAlmacenamiento: 2,
		NormativaAplicable:        "CAA Art. 761",
		Observaciones:             "Pasta rellena premium",
	},
}

var Turnos = []models.Turno{
	{TurnoID: 1, Nombre: "Mañana", HoraInicio: "06:00:00", HoraFin: "14:00:00", EstadoTurno: "Activo"},
	{TurnoID: 2, Nombre: "Tarde", HoraInicio: "14:00:00", HoraFin: "22:00:00", EstadoTurno: "Activo"},
	{TurnoID: 3, Nombre: "Noche", HoraInicio: "22:00:00", HoraFin: "06:00:00", EstadoTurno: "Activo"},
}

var tiposIrregularidad = []models.TipoIrregularidad{
	models.IrregularidadCalidad,
	models.IrregularidadProceso,
	models.IrregularidadSeguridad,
	models.IrregularidadHigiene,
}

var descripcionesIrregularidad = map[models.TipoIrregularidad]string{
	models.IrregularidadCalidad:   "Producto no cumple estándares de calidad",
	models.IrregularidadProceso:   "Error en proceso de producción",
	models.IrregularidadSeguridad: "Incidente de seguridad laboral",
	models.IrregularidadHigiene:   "Falta de cumplimiento de normas de higiene",
}

// DailyProduction 는 최근 30일(주말 제외) 일별 생산 지표다.
type DailyProduction struct {
	Date        string `json:"date"`
	Production  int    `json:"production"`
	Waste       int    `json:"waste"`
	Efficiency  int    `json:"efficiency"`
	AccessCount int    `json:"accessCount"`
}

// Dataset 은 한 번의 생성(또는 조회)으로 얻은 분석 원천 데이터다.
// 모든 집계는 같은 Dataset 에서 계산되므로 차트 간 수치가 서로 일치한다.
type Dataset struct {
	GeneratedAt     time.Time              `json:"generated_at"`
	TiposProducto   []models.TipoProducto  `json:"tipos_producto"`
	Turnos          []models.Turno         `json:"turnos"`
	Lotes           []models.Lote          `json:"lotes"`
	Irregularidades []models.Irregularidad `json:"irregularidades"`
	Daily           []DailyProduction      `json:"daily"`
}

// Generator 는 시드 기반의 결정적 목업 데이터 생성기다.
type Generator struct {
	rnd *rand.Rand
	now func() time.Time
}

func NewGenerator(seed int64, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{rnd: rand.New(rand.NewSource(seed)), now: now}
}

func (g *Generator) Generate() Dataset {
	now := g.now()
	lotes := g.lotes(now)
	return Dataset{
		GeneratedAt:     now,
		TiposProducto:   TiposProducto,
		Turnos:          Turnos,
		Lotes:           lotes,
		Irregularidades: g.irregularidades(lotes),
		Daily:           g.daily(now),
	}
}

// lotes 는 최근 12개월 동안 월 20~34개의 로트를 만든다. 약 5%는 폐기 상태다.
func (g *Generator) lotes(now time.Time) []models.Lote {
	lotes := make([]models.Lote, 0, 12*34)
	for month := 11; month >= 0; month-- {
		first := time.Date(now.Year(), now.Month()-time.Month(month), 1, 0, 0, 0, 0, now.Location())
		perMonth := 20 + g.rnd.Intn(15)
		for i := 0; i < perMonth; i++ {
			day := 1 + g.rnd.Intn(28)
			produced := time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, now.Location())
			tipo := TiposProducto[g.rnd.Intn(len(TiposProducto))]
			cantidad := 50 + g.rnd.Intn(200)

			estado := models.LoteTerminado
			if g.rnd.Float64() <= 0.05 {
				estado = models.LoteDescartado
			}
			var obs string
			if g.rnd.Float64() > 0.8 {
				obs = "Lote especial para cliente premium"
			}

			lotes = append(lotes, models.Lote{
				LoteID:           len(lotes) + 1,
				CodigoLote:       fmt.Sprintf("L%04d%02d%03d", produced.Year(), int(produced.Month()), i+1),
				TipoProductoID:   tipo.TipoProductoID,
				Cantidad:         cantidad,
				EstadoLote:       estado,
				FechaVencimiento: produced.AddDate(0, 0, tipo.DiasVidaUtil),
				FechaProduccion:  produced,
				Observaciones:    obs,
			})
		}
	}
	return lotes
}

// irregularidades 는 전체 로트의 3~8% 에 해당하는 이상 사례를 만든다.
func (g *Generator) irregularidades(lotes []models.Lote) []models.Irregularidad {
	if len(lotes) == 0 {
		return []models.Irregularidad{}
	}
	count := int(float64(len(lotes)) * (0.03 + g.rnd.Float64()*0.05))
	out := make([]models.Irregularidad, 0, count)
	for i := 0; i < count; i++ {
		lote := lotes[g.rnd.Intn(len(lotes))]
		areaID := 1 + g.rnd.Intn(6)
		occurred := lote.FechaProduccion.Add(time.Duration(g.rnd.Intn(24)) * time.Hour)
		tipo := tiposIrregularidad[g.rnd.Intn(len(tiposIrregularidad))]
		out = append(out, models.Irregularidad{
			IrregularidadID:   i + 1,
			LoteID:            lote.LoteID,
			AreaID:            areaID,
			FechaError:        occurred.Format("2006-01-02"),
			TipoIrregularidad: tipo,
			Descripcion:       descripcionesIrregularidad[tipo],
		})
	}
	return out
}

func (g *Generator) daily(now time.Time) []DailyProduction {
	out := make([]DailyProduction, 0, 30)
	for i := 29; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		production := 850 + g.rnd.Intn(300)
		waste := int(float64(production) * (0.02 + g.rnd.Float64()*0.08))
		out = append(out, DailyProduction{
			Date:        day.Format("2006-01-02"),
			Production:  production,
			Waste:       waste,
			Efficiency:  efficiency(production, waste),
			AccessCount: 15 + g.rnd.Intn(25),
		})
	}
	return out
}

func efficiency(production, waste int) int {
	if production <= 0 {
		return 0
	}
	return int(float64(production-waste)/float64(production)*100 + 0.5)
}
