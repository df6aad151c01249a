package dto

import (
	"pastas-console/models"
	"pastas-console/pagination"
)

// 아래 타입들은 swagger 문서용이다. 핸들러는 pagination.Page[T] 를 그대로 직렬화한다.
// (swag 가 제네릭 인스턴스를 완전히 지원하지 않는다.)

type PaginationEmpleadoDTO struct {
	Items      []models.Empleado   `json:"items"`
	Pagination pagination.Metadata `json:"pagination"`
}

type PaginationAccesoDTO struct {
	Items      []models.Acceso     `json:"items"`
	Pagination pagination.Metadata `json:"pagination"`
}

type PaginationAuditEventDTO struct {
	Items      []models.AuditEvent `json:"items"`
	Pagination pagination.Metadata `json:"pagination"`
}
