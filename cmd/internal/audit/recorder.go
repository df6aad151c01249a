package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pastas-console/cmd/internal/eventbus"
	"pastas-console/cmd/internal/logger"
	"pastas-console/events"
	"pastas-console/models"
)

// Store 는 감사 이벤트 저장소다. (*repositories.AuditEventRepository 구현)
type Store interface {
	Insert(ctx context.Context, e *models.AuditEvent) error
}

// Recorder 는 콘솔 이벤트를 AuditEvent 로 변환해 저장한다.
type Recorder struct {
	store Store
	now   func() time.Time
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

// Handle 은 eventbus.EventHandler 로 사용된다.
// 해석할 수 없는 이벤트는 재시도해도 소용없으므로 로그만 남기고 nil 을 반환한다.
func (r *Recorder) Handle(ctx context.Context, evt eventbus.Event) error {
	rec, err := ToAuditEvent(evt)
	if err != nil {
		logger.ErrorWithFields("audit event skipped", logger.Fields{"event_id": evt.ID, "error": err.Error()})
		return nil
	}
	rec.RecordedAt = r.now().UTC()
	if err := r.store.Insert(ctx, &rec); err != nil {
		return fmt.Errorf("insert audit event %s: %w", evt.ID, err)
	}
	logger.InfoWithFields("audit event recorded", logger.Fields{
		"event_id":   rec.EventID,
		"type":       rec.Type,
		"subject":    rec.Subject,
		"request_id": rec.RequestID,
	})
	return nil
}

// ToAuditEvent 는 버스 봉투 안의 콘솔 이벤트를 감사 레코드로 변환한다.
func ToAuditEvent(evt eventbus.Event) (models.AuditEvent, error) {
	typ, err := events.PeekType(evt.Payload)
	if err != nil {
		return models.AuditEvent{}, err
	}
	domain, err := events.DeserializeEvent(typ, evt.Payload)
	if err != nil {
		return models.AuditEvent{}, err
	}
	var payload map[string]any
	if err := json.Unmarshal(evt.Payload, &payload); err != nil {
		return models.AuditEvent{}, err
	}
	meta := domain.Meta()
	eventID := meta.ID
	if eventID == "" {
		eventID = evt.ID
	}
	return models.AuditEvent{
		EventID:    eventID,
		Type:       string(meta.Type),
		Source:     meta.Source,
		RequestID:  meta.RequestID,
		Subject:    domain.Subject(),
		Summary:    domain.Summary(),
		Payload:    payload,
		OccurredAt: meta.Timestamp,
	}, nil
}
