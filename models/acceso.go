package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type TipoAcceso string

const (
	TipoIngreso TipoAcceso = "Ingreso"
	TipoEgreso  TipoAcceso = "Egreso"
)

const (
	MetodoFacial = "Facial"
	MetodoPIN    = "PIN"
	MetodoManual = "Manual"
)

// UnknownEmployeeName 은 인식되지 않은 접근 시도에 표시하는 이름이다.
const UnknownEmployeeName = "Empleado Desconocido"

// ErrInvalidField 는 백엔드 응답 필드가 허용된 형태가 아닐 때 반환된다.
var ErrInvalidField = errors.New("invalid field")

// Acceso 는 출입 기록 한 건이다.
// 백엔드는 EmpleadoID 를 null 로, AccesoPermitido 를 문자열로 보내기도 하므로
// UnmarshalJSON 에서 한 가지 형태로 정규화한다.
type Acceso struct {
	AccesoID                int        `json:"AccesoID"`
	EmpleadoID              *int       `json:"EmpleadoID"`
	AreaID                  string     `json:"AreaID"`
	NombreArea              string     `json:"NombreArea,omitempty"`
	FechaHora               string     `json:"FechaHora"`
	TipoAcceso              TipoAcceso `json:"TipoAcceso"`
	MetodoAcceso            string     `json:"MetodoAcceso"`
	DispositivoAcceso       string     `json:"DispositivoAcceso"`
	ConfianzaReconocimiento *float64   `json:"ConfianzaReconocimiento,omitempty"`
	AccesoPermitido         bool       `json:"AccesoPermitido"`
	NombreEmpleado          string     `json:"NombreEmpleado,omitempty"`
	Nombre                  string     `json:"Nombre,omitempty"`
	Apellido                string     `json:"Apellido,omitempty"`
	DNI                     string     `json:"DNI,omitempty"`
	Rol                     string     `json:"Rol,omitempty"`
	Area                    string     `json:"Area,omitempty"`
}

func (a *Acceso) UnmarshalJSON(data []byte) error {
	type alias Acceso
	aux := struct {
		*alias
		EmpleadoID              json.RawMessage `json:"EmpleadoID"`
		ConfianzaReconocimiento json.RawMessage `json:"ConfianzaReconocimiento"`
		AccesoPermitido         json.RawMessage `json:"AccesoPermitido"`
	}{alias: (*alias)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	id, err := parseOptionalInt(aux.EmpleadoID)
	if err != nil {
		return fmt.Errorf("EmpleadoID: %w", err)
	}
	a.EmpleadoID = id

	conf, err := parseOptionalFloat(aux.ConfianzaReconocimiento)
	if err != nil {
		return fmt.Errorf("ConfianzaReconocimiento: %w", err)
	}
	a.ConfianzaReconocimiento = conf

	allowed, err := parseFlexibleBool(aux.AccesoPermitido)
	if err != nil {
		return fmt.Errorf("AccesoPermitido: %w", err)
	}
	a.AccesoPermitido = allowed
	return nil
}

// DisplayName 은 출입 기록의 직원 이름을 표시용으로 조합한다.
func (a Acceso) DisplayName() string {
	if a.EmpleadoID == nil {
		return UnknownEmployeeName
	}
	if a.NombreEmpleado != "" {
		return a.NombreEmpleado
	}
	if name := strings.TrimSpace(a.Nombre + " " + a.Apellido); name != "" {
		return name
	}
	return fmt.Sprintf("Empleado #%d", *a.EmpleadoID)
}

func (a Acceso) AreaDisplayName() string {
	switch {
	case a.NombreArea != "":
		return a.NombreArea
	case a.Area != "":
		return a.Area
	default:
		return AreaName(a.AreaID)
	}
}

type ConfidenceBand string

const (
	ConfidenceNone   ConfidenceBand = "none"
	ConfidenceLow    ConfidenceBand = "low"
	ConfidenceMedium ConfidenceBand = "medium"
	ConfidenceHigh   ConfidenceBand = "high"
)

// BandFor 는 인식 신뢰도를 0.8 / 0.6 기준으로 구간화한다.
func BandFor(confidence *float64) ConfidenceBand {
	if confidence == nil {
		return ConfidenceNone
	}
	switch c := *confidence; {
	case c >= 0.8:
		return ConfidenceHigh
	case c >= 0.6:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func (a Acceso) ConfidenceBand() ConfidenceBand {
	return BandFor(a.ConfianzaReconocimiento)
}

// AccessRequest 는 얼굴 인식 또는 PIN 출입 등록 요청이다.
type AccessRequest struct {
	TipoAcceso    TipoAcceso `json:"tipo_acceso" validate:"required,oneof=Ingreso Egreso"`
	AreaID        string     `json:"area_id" validate:"required"`
	PIN           string     `json:"pin,omitempty" validate:"omitempty,numeric,min=4,max=6"`
	Dispositivo   string     `json:"dispositivo,omitempty"`
	Observaciones string     `json:"observaciones,omitempty"`
}

// AccessResponseEmpleado 는 출입 판정 결과에 포함된 직원 요약이다.
type AccessResponseEmpleado struct {
	ID       int    `json:"id"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Rol      string `json:"rol"`
	DNI      string `json:"DNI,omitempty"`
	Email    string `json:"Email,omitempty"`
}

// AccessResponse 는 출입 등록 결과다. 백엔드는 mensaje 또는 message 중 하나를 보낸다.
type AccessResponse struct {
	Empleado        *AccessResponseEmpleado `json:"empleado,omitempty"`
	Confianza       *float64                `json:"confianza,omitempty"`
	AccesoPermitido bool                    `json:"acceso_permitido"`
	Mensaje         string                  `json:"mensaje"`
	AreaID          string                  `json:"area_id,omitempty"`
	TipoAcceso      string                  `json:"tipo_acceso,omitempty"`
	MetodoAcceso    string                  `json:"metodo_acceso,omitempty"`
}

func (r *AccessResponse) UnmarshalJSON(data []byte) error {
	type alias AccessResponse
	aux := struct {
		*alias
		Confianza       json.RawMessage `json:"confianza"`
		AccesoPermitido json.RawMessage `json:"acceso_permitido"`
		Message         string          `json:"message"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	conf, err := parseOptionalFloat(aux.Confianza)
	if err != nil {
		return fmt.Errorf("confianza: %w", err)
	}
	r.Confianza = conf
	allowed, err := parseFlexibleBool(aux.AccesoPermitido)
	if err != nil {
		return fmt.Errorf("acceso_permitido: %w", err)
	}
	r.AccesoPermitido = allowed
	if r.Mensaje == "" {
		r.Mensaje = aux.Message
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func parseOptionalInt(raw json.RawMessage) (*int, error) {
	if isNull(raw) {
		return nil, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, ErrInvalidField
		}
		n = json.Number(strings.TrimSpace(s))
		if n == "" {
			return nil, nil
		}
	}
	v, err := strconv.Atoi(n.String())
	if err != nil {
		return nil, ErrInvalidField
	}
	return &v, nil
}

func parseOptionalFloat(raw json.RawMessage) (*float64, error) {
	if isNull(raw) {
		return nil, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, ErrInvalidField
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, ErrInvalidField
	}
	return &f, nil
}

func parseFlexibleBool(raw json.RawMessage) (bool, error) {
	if isNull(raw) {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false, ErrInvalidField
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "si", "sí", "yes", "permitido":
		return true, nil
	case "false", "0", "no", "denegado", "":
		return false, nil
	}
	return false, ErrInvalidField
}
