package services

import (
	"context"
	"errors"

	"pastas-console/cmd/api/clients/backendclient"
	"pastas-console/events"
	"pastas-console/models"
	"pastas-console/pagination"
)

// ErrInvalidID 는 경로의 직원 ID 가 양의 정수가 아닐 때 반환된다.
var ErrInvalidID = errors.New("invalid id")

// EmpleadoBackend 는 EmpleadoService 가 사용하는 백엔드 호출이다. (*backendclient.Client 구현)
type EmpleadoBackend interface {
	ListEmpleados(ctx context.Context, q pagination.Query) (pagination.Page[models.Empleado], error)
	GetEmpleado(ctx context.Context, id int) (models.Empleado, error)
	CreateEmpleado(ctx context.Context, in models.EmpleadoCreate) (models.Empleado, error)
	DeleteEmpleado(ctx context.Context, id int) error
	RegistrarRostro(ctx context.Context, id int, file backendclient.Upload) (backendclient.MessageResponse, error)
}

// EmpleadoService 는 직원 목록/등록/삭제/얼굴 등록을 백엔드에 위임하고
// 변경 작업마다 콘솔 이벤트를 발행한다.
type EmpleadoService struct {
	backend EmpleadoBackend
	events  *Emitter
}

func NewEmpleadoService(backend EmpleadoBackend, emitter *Emitter) *EmpleadoService {
	return &EmpleadoService{backend: backend, events: emitter}
}

func (s *EmpleadoService) List(ctx context.Context, q pagination.Query) (pagination.Page[models.Empleado], error) {
	return s.backend.ListEmpleados(ctx, q)
}

func (s *EmpleadoService) Get(ctx context.Context, id int) (models.Empleado, error) {
	if id <= 0 {
		return models.Empleado{}, ErrInvalidID
	}
	return s.backend.GetEmpleado(ctx, id)
}

func (s *EmpleadoService) Create(ctx context.Context, in models.EmpleadoCreate) (models.Empleado, error) {
	if err := validateStruct(in); err != nil {
		return models.Empleado{}, err
	}
	emp, err := s.backend.CreateEmpleado(ctx, in)
	if err != nil {
		return models.Empleado{}, err
	}
	s.events.Emit(ctx, events.EmpleadoCreatedEvent{
		BaseEvent:  base(ctx, events.EmpleadoCreated),
		EmpleadoID: emp.EmpleadoID,
		Nombre:     emp.Nombre,
		Apellido:   emp.Apellido,
		DNI:        emp.DNI,
		Rol:        emp.Rol,
		AreaID:     emp.AreaID,
	})
	return emp, nil
}

func (s *EmpleadoService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if err := s.backend.DeleteEmpleado(ctx, id); err != nil {
		return err
	}
	s.events.Emit(ctx, events.EmpleadoDeletedEvent{
		BaseEvent:  base(ctx, events.EmpleadoDeleted),
		EmpleadoID: id,
	})
	return nil
}

func (s *EmpleadoService) RegistrarRostro(ctx context.Context, id int, file backendclient.Upload) (backendclient.MessageResponse, error) {
	if id <= 0 {
		return backendclient.MessageResponse{}, ErrInvalidID
	}
	out, err := s.backend.RegistrarRostro(ctx, id, file)
	if err != nil {
		return backendclient.MessageResponse{}, err
	}
	s.events.Emit(ctx, events.RostroRegisteredEvent{
		BaseEvent:  base(ctx, events.RostroRegistered),
		EmpleadoID: id,
		Filename:   file.Filename,
		Mensaje:    out.Message,
	})
	return out, nil
}
