package services

import (
	"context"

	"pastas-console/cmd/api/clients/backendclient"
	"pastas-console/events"
	"pastas-console/models"
	"pastas-console/pagination"
)

// AccesoBackend 는 AccesoService 가 사용하는 백엔드 호출이다. (*backendclient.Client 구현)
type AccesoBackend interface {
	ListAccesos(ctx context.Context, q pagination.Query, f backendclient.AccesosFilter) (pagination.Page[models.Acceso], error)
	ListAreas(ctx context.Context) ([]models.AreaTrabajo, error)
	CreateFacialAccess(ctx context.Context, in models.AccessRequest, file backendclient.Upload) (models.AccessResponse, error)
	CreatePinAccess(ctx context.Context, in models.AccessRequest) (models.AccessResponse, error)
}

// AccesoService 는 출입 기록 조회와 얼굴/PIN 출입 등록을 담당한다.
// 출입 판정은 백엔드가 하며 여기서는 입력 검증과 이벤트 발행만 한다.
type AccesoService struct {
	backend AccesoBackend
	events  *Emitter
}

func NewAccesoService(backend AccesoBackend, emitter *Emitter) *AccesoService {
	return &AccesoService{backend: backend, events: emitter}
}

func (s *AccesoService) List(ctx context.Context, q pagination.Query, f backendclient.AccesosFilter) (pagination.Page[models.Acceso], error) {
	return s.backend.ListAccesos(ctx, q, f)
}

func (s *AccesoService) Areas(ctx context.Context) ([]models.AreaTrabajo, error) {
	return s.backend.ListAreas(ctx)
}

func (s *AccesoService) RegisterFacial(ctx context.Context, in models.AccessRequest, file backendclient.Upload) (models.AccessResponse, error) {
	if err := validateStruct(in); err != nil {
		return models.AccessResponse{}, err
	}
	resp, err := s.backend.CreateFacialAccess(ctx, in, file)
	if err != nil {
		return models.AccessResponse{}, err
	}
	s.emit(ctx, models.MetodoFacial, in, resp)
	return resp, nil
}

func (s *AccesoService) RegisterPIN(ctx context.Context, in models.AccessRequest) (models.AccessResponse, error) {
	if in.PIN == "" {
		return models.AccessResponse{}, backendclient.ErrPINRequired
	}
	if err := validateStruct(in); err != nil {
		return models.AccessResponse{}, err
	}
	resp, err := s.backend.CreatePinAccess(ctx, in)
	if err != nil {
		return models.AccessResponse{}, err
	}
	s.emit(ctx, models.MetodoPIN, in, resp)
	return resp, nil
}

func (s *AccesoService) emit(ctx context.Context, metodo string, in models.AccessRequest, resp models.AccessResponse) {
	evt := events.AccesoRegisteredEvent{
		BaseEvent:       base(ctx, events.AccesoRegistered),
		Metodo:          metodo,
		TipoAcceso:      string(in.TipoAcceso),
		AreaID:          in.AreaID,
		AccesoPermitido: resp.AccesoPermitido,
		Confianza:       resp.Confianza,
		Mensaje:         resp.Mensaje,
	}
	if resp.Empleado != nil {
		id := resp.Empleado.ID
		evt.EmpleadoID = &id
	}
	s.events.Emit(ctx, evt)
}
