package backendclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pastas-console/models"
	"pastas-console/pagination"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewWithURL(srv.URL)
}

func TestListEmpleadosEnvelope(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/empleados", r.URL.Path)
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `{"items":[{"EmpleadoID":1,"Nombre":"Ana"}],"pagination":{"total":25,"page":3,"page_size":10,"total_pages":3}}`)
	})

	page, err := c.ListEmpleados(context.Background(), pagination.Query{Page: 3, PageSize: 10})
	require.NoError(t, err)

	assert.Equal(t, "page=3&page_size=10", gotQuery)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Ana", page.Items[0].Nombre)
	assert.Equal(t, 25, page.Pagination.Total)
	assert.True(t, page.Pagination.HasPrevious)
	assert.False(t, page.Pagination.HasNext)
}

func TestListEmpleadosFlatTotalAndSearch(t *testing.T) {
	var gotSearch string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotSearch = r.URL.Query().Get("search")
		_, _ = io.WriteString(w, `{"items":[],"total":37}`)
	})

	page, err := c.ListEmpleados(context.Background(), pagination.Query{Page: 1, PageSize: 10, Filter: "ana"})
	require.NoError(t, err)

	assert.Equal(t, "ana", gotSearch)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 4, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNext)
}

func TestListEmpleadosBareArrayIsSinglePage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"EmpleadoID":1},{"EmpleadoID":2},{"EmpleadoID":3}]`)
	})

	page, err := c.ListEmpleados(context.Background(), pagination.Query{Page: 1, PageSize: 10})
	require.NoError(t, err)

	assert.Len(t, page.Items, 3)
	assert.Equal(t, pagination.Metadata{Total: 3, Page: 1, PageSize: 3, TotalPages: 1}, page.Pagination)
}

func TestListEmpleadosMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ``},
		{"missing items", `{"pagination":{"total":1}}`},
		{"missing pagination", `{"items":[]}`},
		{"negative total", `{"items":[],"total":-1}`},
		{"scalar", `"hola"`},
		{"broken json", `{"items":[`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := c.ListEmpleados(context.Background(), pagination.Query{Page: 1, PageSize: 10})
			require.Error(t, err)
			assert.ErrorIs(t, err, pagination.ErrMalformedResponse)
			assert.Equal(t, pagination.FailureMalformed, pagination.Classify(err))
		})
	}
}

func TestStatusErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/404") {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"Empleado no encontrado"}`)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.GetEmpleado(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Body, "no encontrado")

	_, err = c.ListEmpleados(context.Background(), pagination.Query{Page: 1, PageSize: 10})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, pagination.FailureStatus, pagination.Classify(err))
}

func TestListAccesosNormalizesAndFilters(t *testing.T) {
	var gotTipo, gotArea string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotTipo = r.URL.Query().Get("tipo_acceso")
		gotArea = r.URL.Query().Get("area_id")
		_, _ = io.WriteString(w, `{"items":[{"AccesoID":7,"EmpleadoID":null,"AccesoPermitido":"denegado","ConfianzaReconocimiento":"0.42"}],"total":1,"page":1,"page_size":10}`)
	})

	fetcher := c.AccesosFetcher(AccesosFilter{TipoAcceso: "Ingreso", AreaID: "AREA001"})
	page, err := fetcher.FetchPage(context.Background(), pagination.Query{Page: 1, PageSize: 10})
	require.NoError(t, err)

	assert.Equal(t, "Ingreso", gotTipo)
	assert.Equal(t, "AREA001", gotArea)
	require.Len(t, page.Items, 1)
	a := page.Items[0]
	assert.Nil(t, a.EmpleadoID)
	assert.False(t, a.AccesoPermitido)
	assert.Equal(t, models.UnknownEmployeeName, a.DisplayName())
	assert.Equal(t, models.ConfidenceLow, a.ConfidenceBand())
}

func TestListAreasAcceptsArrayOrItems(t *testing.T) {
	for _, body := range []string{
		`[{"AreaID":"AREA001","Nombre":"Producción"}]`,
		`{"items":[{"AreaID":"AREA001","Nombre":"Producción"}]}`,
	} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		})
		areas, err := c.ListAreas(context.Background())
		require.NoError(t, err)
		require.Len(t, areas, 1)
		assert.Equal(t, "AREA001", areas[0].AreaID)
	}
}

func TestCreatePinAccessRequiresPIN(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := c.CreatePinAccess(context.Background(), models.AccessRequest{TipoAcceso: models.TipoIngreso, AreaID: "AREA001"})
	assert.ErrorIs(t, err, ErrPINRequired)
	assert.False(t, called)
}

func TestCreatePinAccessSendsForm(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accesos/crear_pin", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "1234", r.FormValue("pin"))
		assert.Equal(t, "Egreso", r.FormValue("tipo_acceso"))
		assert.Equal(t, DefaultDevice, r.FormValue("dispositivo"))
		_, _ = io.WriteString(w, `{"acceso_permitido":"si","message":"Acceso registrado","confianza":null}`)
	})

	resp, err := c.CreatePinAccess(context.Background(), models.AccessRequest{TipoAcceso: models.TipoEgreso, AreaID: "AREA002", PIN: "1234"})
	require.NoError(t, err)
	assert.True(t, resp.AccesoPermitido)
	assert.Equal(t, "Acceso registrado", resp.Mensaje)
	assert.Nil(t, resp.Confianza)
}

func TestUploadsRejectNonImage(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })
	file := Upload{Filename: "notes.txt", ContentType: "text/plain", Body: strings.NewReader("x")}

	_, err := c.RegistrarRostro(context.Background(), 1, file)
	assert.ErrorIs(t, err, ErrInvalidImage)
	_, err = c.CreateFacialAccess(context.Background(), models.AccessRequest{TipoAcceso: models.TipoIngreso, AreaID: "AREA001"}, file)
	assert.ErrorIs(t, err, ErrInvalidImage)
	_, err = c.RegistrarRostro(context.Background(), 1, Upload{ContentType: "image/png"})
	assert.ErrorIs(t, err, ErrMissingFile)
	assert.False(t, called)
}

func TestRegistrarRostroUploadsFile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/empleados/5/registrar_rostro", r.URL.Path)
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "face.jpg", hdr.Filename)
		assert.Equal(t, "JPEGDATA", string(data))
		_, _ = io.WriteString(w, `{"mensaje":"Rostro registrado correctamente"}`)
	})

	out, err := c.RegistrarRostro(context.Background(), 5, Upload{Filename: "face.jpg", ContentType: "image/jpeg", Body: strings.NewReader("JPEGDATA")})
	require.NoError(t, err)
	assert.Equal(t, "Rostro registrado correctamente", out.Message)
}

func TestCreateEmpleadoFallsBackToRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = io.WriteString(w, `{"message":"ok"}`)
	})

	emp, err := c.CreateEmpleado(context.Background(), models.EmpleadoCreate{Nombre: "Ana", Apellido: "Gómez", DNI: "12345678"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Gómez", emp.FullName())
}

func TestCreateEmpleadoKeepsFieldsWhenOnlyIDReturned(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"message":"Empleado creado","EmpleadoID":42}`)
	})

	emp, err := c.CreateEmpleado(context.Background(), models.EmpleadoCreate{Nombre: "Ana", Apellido: "Gómez", DNI: "12345678", AreaID: "AREA001"})
	require.NoError(t, err)
	assert.Equal(t, 42, emp.EmpleadoID)
	assert.Equal(t, "Ana Gómez", emp.FullName())
	assert.Equal(t, "12345678", emp.DNI)
	assert.Equal(t, "AREA001", emp.AreaID)
}

func TestCreateEmpleadoPrefersFullObject(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"EmpleadoID":7,"Nombre":"Ana María","Apellido":"Gómez"}`)
	})

	emp, err := c.CreateEmpleado(context.Background(), models.EmpleadoCreate{Nombre: "Ana", Apellido: "Gómez"})
	require.NoError(t, err)
	assert.Equal(t, 7, emp.EmpleadoID)
	assert.Equal(t, "Ana María Gómez", emp.FullName())
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"ok", http.StatusOK, false},
		{"no root route", http.StatusNotFound, false},
		{"server error", http.StatusInternalServerError, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/", r.URL.Path)
				w.WriteHeader(tt.status)
			})
			err := c.Health(context.Background())
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.Status)
		})
	}
}
