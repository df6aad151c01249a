package main

import (
	"context"
	"fmt"
	"time"

	"pastas-console/analytics"
	"pastas-console/cmd/internal/eventbus"
	"pastas-console/cmd/internal/logger"
	"pastas-console/events"
)

const eventSource = "aggregate"

// Job 은 생산 데이터를 다시 만들어 저장하고 dashboard.refreshed 이벤트를 발행한다.
type Job struct {
	source analytics.Source
	bus    eventbus.Publisher
	topic  eventbus.Topic
}

func NewJob(source analytics.Source, bus eventbus.Publisher, topic eventbus.Topic) *Job {
	return &Job{source: source, bus: bus, topic: topic}
}

// RunOnce executes one full regeneration cycle.
func (j *Job) RunOnce(ctx context.Context) error {
	start := time.Now()
	ds, err := j.source.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh dataset: %w", err)
	}

	evt := events.DashboardRefreshedEvent{
		BaseEvent:       events.NewBase(events.DashboardRefreshed, eventSource, ""),
		Lotes:           len(ds.Lotes),
		Irregularidades: len(ds.Irregularidades),
	}
	data, _, err := events.SerializeEvent(evt)
	if err != nil {
		return err
	}
	// 발행 실패는 다음 주기에 다시 시도되므로 에러로 올리지 않는다.
	if err := j.bus.Publish(ctx, j.topic.Base(), eventbus.Wrap(evt.ID, data)); err != nil {
		logger.ErrorWithFields("dashboard.refreshed publish failed", logger.Fields{"event_id": evt.ID, "error": err.Error()})
	}

	logger.InfoWithFields("dataset regenerated", logger.Fields{
		"lotes":           len(ds.Lotes),
		"irregularidades": len(ds.Irregularidades),
		"duration_ms":     time.Since(start).Milliseconds(),
	})
	return nil
}

// nextMidnight 는 now 이후 loc 기준 다음 자정을 반환한다.
func nextMidnight(now time.Time, loc *time.Location) time.Time {
	now = now.In(loc)
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, loc)
}
