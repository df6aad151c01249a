package models

import (
	"time"
)

type CategoriaProducto string

const (
	CategoriaPastaFresca CategoriaProducto = "Pasta_Fresca"
	CategoriaPastaSeca   CategoriaProducto = "Pasta_Seca"
	CategoriaRellenos    CategoriaProducto = "Rellenos"
	CategoriaSalsas      CategoriaProducto = "Salsas"
)

// TipoProducto represents a product type
// Collection: tipos_producto
type TipoProducto struct {
	TipoProductoID            int               `bson:"tipo_producto_id" json:"TipoProductoID"`
	Nombre                    string            `bson:"nombre" json:"Nombre"`
	Categoria                 CategoriaProducto `bson:"categoria" json:"Categoria"`
	DiasVidaUtil              int               `bson:"dias_vida_util" json:"DiasVidaUtil"`
	CondicionesAlmacenamiento string            `bson:"condiciones_almacenamiento" json:"CondicionesAlmacenamiento"`
	TemperaturaAlmacenamiento float64           `bson:"temperatura_almacenamiento" json:"TemperaturaAlmacenamiento"`
	NormativaAplicable        string            `bson:"normativa_aplicable" json:"NormativaAplicable"`
	Observaciones             string            `bson:"observaciones,omitempty" json:"Observaciones,omitempty"`
}

type EstadoLote string

const (
	LoteEnProduccion   EstadoLote = "En_Produccion"
	LoteTerminado      EstadoLote = "Terminado"
	LoteControlCalidad EstadoLote = "Control_Calidad"
	LoteDespachado     EstadoLote = "Despachado"
	LoteDescartado     EstadoLote = "Descartado"
)

// Lote represents a production batch
// Collection: lotes
type Lote struct {
	LoteID           int        `bson:"lote_id" json:"LoteID"`
	CodigoLote       string     `bson:"codigo_lote" json:"CodigoLote"`
	TipoProductoID   int        `bson:"tipo_producto_id" json:"TipoProductoID"`
	Cantidad         int        `bson:"cantidad" json:"Cantidad"`
	EstadoLote       EstadoLote `bson:"estado_lote" json:"EstadoLote"`
	FechaVencimiento time.Time  `bson:"fecha_vencimiento" json:"FechaVencimiento"`
	FechaProduccion  time.Time  `bson:"fecha_produccion" json:"FechaProduccion"`
	Observaciones    string     `bson:"observaciones,omitempty" json:"Observaciones,omitempty"`
}

func (l Lote) Descartado() bool { return l.EstadoLote == LoteDescartado }

type TipoIrregularidad string

const (
	IrregularidadCalidad   TipoIrregularidad = "Calidad"
	IrregularidadProceso   TipoIrregularidad = "Proceso"
	IrregularidadSeguridad TipoIrregularidad = "Seguridad"
	IrregularidadHigiene   TipoIrregularidad = "Higiene"
)

// Irregularidad represents a quality/process incident tied to a lote
// Collection: irregularidades
type Irregularidad struct {
	IrregularidadID   int               `bson:"irregularidad_id" json:"IrregularidadID"`
	LoteID            int               `bson:"lote_id" json:"LoteID"`
	AreaID            int               `bson:"area_id" json:"AreaID"`
	FechaError        string            `bson:"fecha_error" json:"FechaError"`
	TipoIrregularidad TipoIrregularidad `bson:"tipo_irregularidad" json:"TipoIrregularidad"`
	Descripcion       string            `bson:"descripcion" json:"Descripcion"`
}

// Turno 는 생산 교대 시간대다.
type Turno struct {
	TurnoID     int    `bson:"turno_id" json:"TurnoID"`
	Nombre      string `bson:"nombre" json:"Nombre"`
	HoraInicio  string `bson:"hora_inicio" json:"HoraInicio"`
	HoraFin     string `bson:"hora_fin" json:"HoraFin"`
	EstadoTurno string `bson:"estado_turno" json:"EstadoTurno"`
}
