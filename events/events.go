package events

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// EventType 이벤트 타입 정의
type EventType string

const (
	EmpleadoCreated    EventType = "empleado.created"
	EmpleadoDeleted    EventType = "empleado.deleted"
	RostroRegistered   EventType = "rostro.registered"
	AccesoRegistered   EventType = "acceso.registered"
	DashboardRefreshed EventType = "dashboard.refreshed"
)

// Version 은 이벤트 스키마 버전이다.
const Version = "1"

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"` // "api", "console" 등
	Version   string    `json:"version"`
	RequestID string    `json:"request_id,omitempty"`
}

// NewBase 는 새 ID 와 현재 시각으로 BaseEvent 를 만든다.
func NewBase(t EventType, source, requestID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Source:    source,
		Version:   Version,
		RequestID: requestID,
	}
}

func (e BaseEvent) Meta() BaseEvent { return e }

// Event 는 감사 로그로 기록 가능한 콘솔 이벤트다.
type Event interface {
	Meta() BaseEvent
	// Subject 는 이벤트 대상(예: "empleado:12")이다.
	Subject() string
	// Summary 는 사람이 읽을 수 있는 한 줄 요약이다.
	Summary() string
}

// EmpleadoCreatedEvent 직원 등록 완료 이벤트
type EmpleadoCreatedEvent struct {
	BaseEvent
	EmpleadoID int    `json:"empleado_id"`
	Nombre     string `json:"nombre"`
	Apellido   string `json:"apellido"`
	DNI        string `json:"dni"`
	Rol        string `json:"rol"`
	AreaID     string `json:"area_id"`
}

func (e EmpleadoCreatedEvent) Subject() string { return empleadoSubject(e.EmpleadoID) }
func (e EmpleadoCreatedEvent) Summary() string {
	return fmt.Sprintf("Empleado %s %s registrado (%s)", e.Nombre, e.Apellido, e.Rol)
}

// EmpleadoDeletedEvent 직원 삭제 이벤트
type EmpleadoDeletedEvent struct {
	BaseEvent
	EmpleadoID int `json:"empleado_id"`
}

func (e EmpleadoDeletedEvent) Subject() string { return empleadoSubject(e.EmpleadoID) }
func (e EmpleadoDeletedEvent) Summary() string {
	return fmt.Sprintf("Empleado #%d eliminado", e.EmpleadoID)
}

// RostroRegisteredEvent 얼굴 이미지 등록 이벤트
type RostroRegisteredEvent struct {
	BaseEvent
	EmpleadoID int    `json:"empleado_id"`
	Filename   string `json:"filename"`
	Mensaje    string `json:"mensaje,omitempty"`
}

func (e RostroRegisteredEvent) Subject() string { return empleadoSubject(e.EmpleadoID) }
func (e RostroRegisteredEvent) Summary() string {
	return fmt.Sprintf("Rostro registrado para empleado #%d", e.EmpleadoID)
}

// AccesoRegisteredEvent 출입 등록(얼굴/PIN) 결과 이벤트
type AccesoRegisteredEvent struct {
	BaseEvent
	Metodo          string   `json:"metodo"`
	TipoAcceso      string   `json:"tipo_acceso"`
	AreaID          string   `json:"area_id"`
	EmpleadoID      *int     `json:"empleado_id,omitempty"`
	AccesoPermitido bool     `json:"acceso_permitido"`
	Confianza       *float64 `json:"confianza,omitempty"`
	Mensaje         string   `json:"mensaje,omitempty"`
}

func (e AccesoRegisteredEvent) Subject() string {
	if e.EmpleadoID == nil {
		return "area:" + e.AreaID
	}
	return empleadoSubject(*e.EmpleadoID)
}

func (e AccesoRegisteredEvent) Summary() string {
	result := "denegado"
	if e.AccesoPermitido {
		result = "permitido"
	}
	return fmt.Sprintf("%s %s en %s: %s", e.TipoAcceso, e.Metodo, e.AreaID, result)
}

// DashboardRefreshedEvent 대시보드 데이터 재생성 이벤트
type DashboardRefreshedEvent struct {
	BaseEvent
	Lotes           int `json:"lotes"`
	Irregularidades int `json:"irregularidades"`
}

func (e DashboardRefreshedEvent) Subject() string { return "dashboard" }
func (e DashboardRefreshedEvent) Summary() string {
	return fmt.Sprintf("Dashboard regenerado: %d lotes, %d irregularidades", e.Lotes, e.Irregularidades)
}

func empleadoSubject(id int) string { return "empleado:" + strconv.Itoa(id) }

// SerializeEvent 이벤트를 JSON으로 직렬화하고 타입 정보 반환
func SerializeEvent(event Event) ([]byte, EventType, error) {
	switch event.(type) {
	case EmpleadoCreatedEvent, EmpleadoDeletedEvent, RostroRegisteredEvent, AccesoRegisteredEvent, DashboardRefreshedEvent:
	default:
		return nil, "", fmt.Errorf("unknown event type: %T", event)
	}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal event: %w", err)
	}
	return data, event.Meta().Type, nil
}

// PeekType 은 직렬화된 이벤트의 type 필드만 읽는다.
func PeekType(data []byte) (EventType, error) {
	var base BaseEvent
	if err := json.Unmarshal(data, &base); err != nil {
		return "", fmt.Errorf("failed to read event type: %w", err)
	}
	if base.Type == "" {
		return "", fmt.Errorf("event type missing")
	}
	return base.Type, nil
}

// DeserializeEvent 이벤트 타입에 따라 적절한 구조체로 역직렬화
func DeserializeEvent(eventType EventType, data []byte) (Event, error) {
	switch eventType {
	case EmpleadoCreated:
		return decode[EmpleadoCreatedEvent](data)
	case EmpleadoDeleted:
		return decode[EmpleadoDeletedEvent](data)
	case RostroRegistered:
		return decode[RostroRegisteredEvent](data)
	case AccesoRegistered:
		return decode[AccesoRegisteredEvent](data)
	case DashboardRefreshed:
		return decode[DashboardRefreshedEvent](data)
	default:
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}
}

func decode[T Event](data []byte) (Event, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return out, nil
}
