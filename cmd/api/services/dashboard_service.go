package services

import (
	"context"

	"pastas-console/analytics"
	"pastas-console/events"
)

// DashboardService 는 생산/품질 대시보드 집계를 제공한다.
type DashboardService struct {
	source analytics.Source
	events *Emitter
}

func NewDashboardService(source analytics.Source, emitter *Emitter) *DashboardService {
	return &DashboardService{source: source, events: emitter}
}

func (s *DashboardService) Get(ctx context.Context) (analytics.Dashboard, error) {
	ds, err := s.source.Dataset(ctx)
	if err != nil {
		return analytics.Dashboard{}, err
	}
	return analytics.Summarize(ds), nil
}

// Refresh 는 원천 데이터를 다시 만든 뒤 집계한다.
func (s *DashboardService) Refresh(ctx context.Context) (analytics.Dashboard, error) {
	ds, err := s.source.Refresh(ctx)
	if err != nil {
		return analytics.Dashboard{}, err
	}
	s.events.Emit(ctx, events.DashboardRefreshedEvent{
		BaseEvent:       base(ctx, events.DashboardRefreshed),
		Lotes:           len(ds.Lotes),
		Irregularidades: len(ds.Irregularidades),
	})
	return analytics.Summarize(ds), nil
}
