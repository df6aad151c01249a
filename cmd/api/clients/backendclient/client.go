package backendclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path"
	"strconv"
	"strings"

	"pastas-console/cmd/api/httpclient"
	"pastas-console/models"
	"pastas-console/pagination"
)

// Client 는 직원/출입 백엔드 HTTP API 를 호출하는 얇은 클라이언트다.
//
// - 얼굴 매칭이나 출입 판정은 하지 않고 백엔드에 그대로 위임한다.
// - 목록 응답은 decodePage 로 검증/정규화한 뒤 돌려준다.
//
// baseURL 예: http://localhost:8000
type Client struct {
	base *httpclient.BaseClient
}

// DefaultDevice 는 출입 등록 요청에 장치명이 없을 때 사용하는 값이다.
const DefaultDevice = "Dispositivo1"

var (
	ErrNotFound     = errors.New("resource not found")
	ErrPINRequired  = errors.New("PIN is required")
	ErrInvalidImage = errors.New("file must be an image")
	ErrMissingFile  = errors.New("file is required")
)

// StatusError 는 2xx 가 아닌 백엔드 응답이다.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend %s: status=%d body=%s", e.Op, e.Status, e.Body)
}

func (e *StatusError) StatusCode() int { return e.Status }

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

func New(base *httpclient.BaseClient) *Client {
	return &Client{base: base}
}

// NewWithURL 은 기본 http.Client 를 사용하는 Client 를 만든다.
func NewWithURL(baseURL string) *Client {
	return New(httpclient.NewBaseClient(baseURL))
}

func (c *Client) do(ctx context.Context, op, method, relPath string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	req, err := c.base.NewRequest(ctx, method, relPath, query, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &StatusError{Op: op, Status: resp.StatusCode, Body: string(b)}
	}
	return resp, nil
}

// -------------------- Empleados --------------------

// ListEmpleados 는 GET /empleados?page&page_size&search 를 호출한다.
func (c *Client) ListEmpleados(ctx context.Context, q pagination.Query) (pagination.Page[models.Empleado], error) {
	resp, err := c.do(ctx, "ListEmpleados", http.MethodGet, "/empleados", q.Values(pagination.ParamSearch), nil, "")
	if err != nil {
		return pagination.Page[models.Empleado]{}, err
	}
	defer resp.Body.Close()
	return decodePage[models.Empleado](resp.Body, q)
}

// EmpleadosFetcher 는 ListEmpleados 를 pagination.Fetcher 로 노출한다.
func (c *Client) EmpleadosFetcher() pagination.Fetcher[models.Empleado] {
	return pagination.FetchFunc[models.Empleado](c.ListEmpleados)
}

// GetEmpleado 는 단일 직원을 조회한다. 존재하지 않으면 ErrNotFound 를 반환한다.
func (c *Client) GetEmpleado(ctx context.Context, id int) (models.Empleado, error) {
	resp, err := c.do(ctx, "GetEmpleado", http.MethodGet, path.Join("/empleados", strconv.Itoa(id)), nil, nil, "")
	if err != nil {
		return models.Empleado{}, err
	}
	defer resp.Body.Close()
	return decodeObject[models.Empleado](resp.Body)
}

// CreateEmpleado 는 POST /empleados/crear 를 호출한다.
// 백엔드가 생성된 직원을 돌려주지 않으면 요청 값으로 채운 Empleado 를 반환한다.
func (c *Client) CreateEmpleado(ctx context.Context, in models.EmpleadoCreate) (models.Empleado, error) {
	buf, err := json.Marshal(in)
	if err != nil {
		return models.Empleado{}, err
	}
	resp, err := c.do(ctx, "CreateEmpleado", http.MethodPost, "/empleados/crear", nil, bytes.NewReader(buf), "application/json")
	if err != nil {
		return models.Empleado{}, err
	}
	defer resp.Body.Close()

	fallback := models.Empleado{
		Nombre:          in.Nombre,
		Apellido:        in.Apellido,
		DNI:             in.DNI,
		FechaNacimiento: in.FechaNacimiento,
		Email:           in.Email,
		Rol:             in.Rol,
		Estado:          in.Estado,
		AreaID:          in.AreaID,
	}
	// 백엔드는 전체 객체 또는 {message, EmpleadoID} 만 돌려준다.
	created, err := decodeObject[models.Empleado](resp.Body)
	if err != nil {
		return fallback, nil
	}
	if created.Nombre != "" {
		return created, nil
	}
	fallback.EmpleadoID = created.EmpleadoID
	return fallback, nil
}

// DeleteEmpleado 는 DELETE /empleados/{id} 를 호출한다.
func (c *Client) DeleteEmpleado(ctx context.Context, id int) error {
	resp, err := c.do(ctx, "DeleteEmpleado", http.MethodDelete, path.Join("/empleados", strconv.Itoa(id)), nil, nil, "")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Upload 는 multipart 로 전송할 이미지 파일이다.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Validate 는 업로드가 이미지(image/*)인지 확인한다.
func (u Upload) Validate() error {
	if u.Body == nil {
		return ErrMissingFile
	}
	if !strings.HasPrefix(strings.ToLower(u.ContentType), "image/") {
		return ErrInvalidImage
	}
	return nil
}

// MessageResponse 는 메시지만 담긴 백엔드 응답이다.
type MessageResponse struct {
	Message string `json:"message"`
}

func (m *MessageResponse) UnmarshalJSON(data []byte) error {
	var aux struct {
		Message string `json:"message"`
		Mensaje string `json:"mensaje"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch {
	case aux.Message != "":
		m.Message = aux.Message
	case aux.Mensaje != "":
		m.Message = aux.Mensaje
	default:
		m.Message = aux.Detail
	}
	return nil
}

// RegistrarRostro 는 POST /empleados/{id}/registrar_rostro 로 얼굴 이미지를 등록한다.
func (c *Client) RegistrarRostro(ctx context.Context, id int, file Upload) (MessageResponse, error) {
	if err := file.Validate(); err != nil {
		return MessageResponse{}, err
	}
	body, contentType, err := buildMultipart(&file, nil)
	if err != nil {
		return MessageResponse{}, err
	}
	relPath := path.Join("/empleados", strconv.Itoa(id), "registrar_rostro")
	resp, err := c.do(ctx, "RegistrarRostro", http.MethodPost, relPath, nil, body, contentType)
	if err != nil {
		return MessageResponse{}, err
	}
	defer resp.Body.Close()
	out, err := decodeObject[MessageResponse](resp.Body)
	if err != nil {
		return MessageResponse{Message: "Rostro registrado"}, nil
	}
	return out, nil
}

// -------------------- Areas --------------------

func (c *Client) ListAreas(ctx context.Context) ([]models.AreaTrabajo, error) {
	resp, err := c.do(ctx, "ListAreas", http.MethodGet, "/areas", nil, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return decodeList[models.AreaTrabajo](resp.Body)
}

// -------------------- Accesos --------------------

// AccesosFilter 는 출입 기록 목록의 추가 필터다. 빈 값은 전송하지 않는다.
type AccesosFilter struct {
	TipoAcceso  string
	AreaID      string
	EmpleadoID  int
	FechaInicio string
	FechaFin    string
}

func (f AccesosFilter) apply(v url.Values) {
	if f.TipoAcceso != "" {
		v.Set("tipo_acceso", f.TipoAcceso)
	}
	if f.AreaID != "" {
		v.Set("area_id", f.AreaID)
	}
	if f.EmpleadoID > 0 {
		v.Set("empleado_id", strconv.Itoa(f.EmpleadoID))
	}
	if f.FechaInicio != "" {
		v.Set("fecha_inicio", f.FechaInicio)
	}
	if f.FechaFin != "" {
		v.Set("fecha_fin", f.FechaFin)
	}
}

// ListAccesos 는 GET /accesos?page&page_size&search&... 를 호출한다.
func (c *Client) ListAccesos(ctx context.Context, q pagination.Query, f AccesosFilter) (pagination.Page[models.Acceso], error) {
	values := q.Values(pagination.ParamSearch)
	f.apply(values)
	resp, err := c.do(ctx, "ListAccesos", http.MethodGet, "/accesos", values, nil, "")
	if err != nil {
		return pagination.Page[models.Acceso]{}, err
	}
	defer resp.Body.Close()
	return decodePage[models.Acceso](resp.Body, q)
}

func (c *Client) AccesosFetcher(f AccesosFilter) pagination.Fetcher[models.Acceso] {
	return pagination.FetchFunc[models.Acceso](func(ctx context.Context, q pagination.Query) (pagination.Page[models.Acceso], error) {
		return c.ListAccesos(ctx, q, f)
	})
}

func accessFields(in models.AccessRequest) map[string]string {
	device := in.Dispositivo
	if device == "" {
		device = DefaultDevice
	}
	fields := map[string]string{
		"tipo_acceso": string(in.TipoAcceso),
		"area_id":     in.AreaID,
		"dispositivo": device,
	}
	if in.Observaciones != "" {
		fields["observaciones"] = in.Observaciones
	}
	return fields
}

// CreateFacialAccess 는 POST /accesos/crear 로 얼굴 이미지 기반 출입을 등록한다.
func (c *Client) CreateFacialAccess(ctx context.Context, in models.AccessRequest, file Upload) (models.AccessResponse, error) {
	if err := file.Validate(); err != nil {
		return models.AccessResponse{}, err
	}
	body, contentType, err := buildMultipart(&file, accessFields(in))
	if err != nil {
		return models.AccessResponse{}, err
	}
	resp, err := c.do(ctx, "CreateFacialAccess", http.MethodPost, "/accesos/crear", nil, body, contentType)
	if err != nil {
		return models.AccessResponse{}, err
	}
	defer resp.Body.Close()
	return decodeObject[models.AccessResponse](resp.Body)
}

// CreatePinAccess 는 POST /accesos/crear_pin 으로 PIN 기반 출입을 등록한다.
func (c *Client) CreatePinAccess(ctx context.Context, in models.AccessRequest) (models.AccessResponse, error) {
	if strings.TrimSpace(in.PIN) == "" {
		return models.AccessResponse{}, ErrPINRequired
	}
	fields := accessFields(in)
	fields["pin"] = in.PIN
	body, contentType, err := buildMultipart(nil, fields)
	if err != nil {
		return models.AccessResponse{}, err
	}
	resp, err := c.do(ctx, "CreatePinAccess", http.MethodPost, "/accesos/crear_pin", nil, body, contentType)
	if err != nil {
		return models.AccessResponse{}, err
	}
	defer resp.Body.Close()
	return decodeObject[models.AccessResponse](resp.Body)
}

// Health 는 백엔드 루트 엔드포인트에 접근 가능한지 확인한다.
func (c *Client) Health(ctx context.Context) error {
	req, err := c.base.NewRequest(ctx, http.MethodGet, "/", nil, nil)
	if err != nil {
		return err
	}
	resp, err := c.base.Do(req)
	if err != nil {
		return fmt.Errorf("backend Health: %w", err)
	}
	defer resp.Body.Close()
	// 루트 라우트가 없는 백엔드(404)도 응답만 하면 살아 있는 것으로 본다.
	if resp.StatusCode >= http.StatusInternalServerError {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &StatusError{Op: "Health", Status: resp.StatusCode, Body: string(b)}
	}
	return nil
}

func buildMultipart(file *Upload, fields map[string]string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		filename := file.Filename
		if filename == "" {
			filename = "rostro.jpg"
		}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
		h.Set("Content-Type", file.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, file.Body); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }
