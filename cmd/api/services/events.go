package services

import (
	"context"

	"pastas-console/cmd/api/trace"
	"pastas-console/cmd/internal/eventbus"
	"pastas-console/cmd/internal/logger"
	"pastas-console/events"
)

const eventSource = "api"

// Emitter 는 변경 작업의 결과를 콘솔 이벤트 토픽으로 발행한다.
// 발행 실패는 요청 결과에 영향을 주지 않고 로그만 남긴다.
type Emitter struct {
	bus   eventbus.Publisher
	topic eventbus.Topic
}

func NewEmitter(bus eventbus.Publisher, topic eventbus.Topic) *Emitter {
	return &Emitter{bus: bus, topic: topic}
}

func base(ctx context.Context, t events.EventType) events.BaseEvent {
	return events.NewBase(t, eventSource, trace.RequestIDFromContext(ctx))
}

func (e *Emitter) Emit(ctx context.Context, evt events.Event) {
	if e == nil || e.bus == nil {
		return
	}
	meta := evt.Meta()
	data, _, err := events.SerializeEvent(evt)
	if err != nil {
		logger.ErrorWithFields("event serialize failed", logger.Fields{"type": meta.Type, "error": err.Error()})
		return
	}
	msg := eventbus.Wrap(meta.ID, data)
	if err := e.bus.Publish(ctx, e.topic.Base(), msg); err != nil {
		logger.ErrorWithFields("event publish failed", logger.Fields{
			"type":       meta.Type,
			"event_id":   meta.ID,
			"request_id": meta.RequestID,
			"error":      err.Error(),
		})
		return
	}
	logger.DebugWithFields("event published", logger.Fields{"type": meta.Type, "event_id": meta.ID})
}
