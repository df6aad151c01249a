package services

import (
	"context"
	"errors"

	"pastas-console/models"
	"pastas-console/pagination"
)

// ErrAuditUnavailable 은 감사 로그 저장소(MongoDB)가 설정되지 않았을 때 반환된다.
var ErrAuditUnavailable = errors.New("audit log storage not configured")

// AuditStore 는 감사 이벤트 조회 저장소다. (*repositories.AuditEventRepository 구현)
type AuditStore interface {
	List(ctx context.Context, q pagination.Query) (pagination.Page[models.AuditEvent], error)
}

type AuditService struct {
	store AuditStore
}

func NewAuditService(store AuditStore) *AuditService {
	return &AuditService{store: store}
}

func (s *AuditService) List(ctx context.Context, q pagination.Query) (pagination.Page[models.AuditEvent], error) {
	if s.store == nil {
		return pagination.Page[models.AuditEvent]{}, ErrAuditUnavailable
	}
	return s.store.List(ctx, q)
}
