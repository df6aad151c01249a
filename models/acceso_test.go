package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccesoUnmarshalNormalizesUnionFields(t *testing.T) {
	testCases := []struct {
		name        string
		body        string
		wantID      *int
		wantAllowed bool
		wantConf    *float64
	}{
		{
			name:        "numeric id and bool",
			body:        `{"AccesoID":1,"EmpleadoID":7,"AccesoPermitido":true,"ConfianzaReconocimiento":0.91}`,
			wantID:      intPtr(7),
			wantAllowed: true,
			wantConf:    floatPtr(0.91),
		},
		{
			name:        "null id and string flag",
			body:        `{"AccesoID":2,"EmpleadoID":null,"AccesoPermitido":"false"}`,
			wantID:      nil,
			wantAllowed: false,
		},
		{
			name:        "string id and spanish flag",
			body:        `{"AccesoID":3,"EmpleadoID":"12","AccesoPermitido":"Sí","ConfianzaReconocimiento":"0.5"}`,
			wantID:      intPtr(12),
			wantAllowed: true,
			wantConf:    floatPtr(0.5),
		},
		{
			name:        "missing optional fields",
			body:        `{"AccesoID":4,"AccesoPermitido":1}`,
			wantID:      nil,
			wantAllowed: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var a Acceso
			require.NoError(t, json.Unmarshal([]byte(tc.body), &a))
			assert.Equal(t, tc.wantID, a.EmpleadoID)
			assert.Equal(t, tc.wantAllowed, a.AccesoPermitido)
			assert.Equal(t, tc.wantConf, a.ConfianzaReconocimiento)
		})
	}
}

func TestAccesoUnmarshalRejectsUnexpectedShapes(t *testing.T) {
	bodies := []string{
		`{"EmpleadoID":true}`,
		`{"EmpleadoID":"abc"}`,
		`{"AccesoPermitido":"maybe"}`,
		`{"AccesoPermitido":[true]}`,
		`{"ConfianzaReconocimiento":{"v":1}}`,
	}
	for _, body := range bodies {
		var a Acceso
		err := json.Unmarshal([]byte(body), &a)
		assert.ErrorIs(t, err, ErrInvalidField, body)
	}
}

func TestAccesoDisplayName(t *testing.T) {
	assert.Equal(t, UnknownEmployeeName, Acceso{}.DisplayName())
	assert.Equal(t, "Ana Pérez", Acceso{EmpleadoID: intPtr(1), NombreEmpleado: "Ana Pérez"}.DisplayName())
	assert.Equal(t, "Ana Pérez", Acceso{EmpleadoID: intPtr(1), Nombre: "Ana", Apellido: "Pérez"}.DisplayName())
	assert.Equal(t, "Empleado #9", Acceso{EmpleadoID: intPtr(9)}.DisplayName())
}

func TestBandFor(t *testing.T) {
	assert.Equal(t, ConfidenceNone, BandFor(nil))
	assert.Equal(t, ConfidenceHigh, BandFor(floatPtr(0.8)))
	assert.Equal(t, ConfidenceMedium, BandFor(floatPtr(0.6)))
	assert.Equal(t, ConfidenceMedium, BandFor(floatPtr(0.79)))
	assert.Equal(t, ConfidenceLow, BandFor(floatPtr(0.59)))
}

func TestAreaName(t *testing.T) {
	assert.Equal(t, "Envasado", AreaName("AREA004"))
	assert.Equal(t, "Logística", AreaName("AREA009"))
	assert.Equal(t, "AREA099", AreaName("AREA099"))

	a := Acceso{AreaID: "AREA001"}
	assert.Equal(t, "Preparación", a.AreaDisplayName())
	a.NombreArea = "Sala 1"
	assert.Equal(t, "Sala 1", a.AreaDisplayName())
}

func TestAccessResponseAcceptsMessageAlias(t *testing.T) {
	var r AccessResponse
	body := `{"empleado":{"id":3,"nombre":"Luis","apellido":"Gómez","rol":"Operario"},"confianza":0.87,"acceso_permitido":"true","message":"Acceso concedido"}`
	require.NoError(t, json.Unmarshal([]byte(body), &r))

	assert.True(t, r.AccesoPermitido)
	assert.Equal(t, "Acceso concedido", r.Mensaje)
	require.NotNil(t, r.Empleado)
	assert.Equal(t, 3, r.Empleado.ID)
	assert.Equal(t, floatPtr(0.87), r.Confianza)
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
