package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pastas-console/models"
)

// Source 는 대시보드 원천 데이터를 제공한다.
// Refresh 는 데이터를 새로 만들거나 다시 읽어 온다.
type Source interface {
	Dataset(ctx context.Context) (Dataset, error)
	Refresh(ctx context.Context) (Dataset, error)
}

// MockSource 는 Generator 로 만든 데이터를 메모리에 보관한다.
type MockSource struct {
	mu   sync.Mutex
	gen  *Generator
	data *Dataset
}

func NewMockSource(gen *Generator) *MockSource {
	return &MockSource{gen: gen}
}

func (s *MockSource) Dataset(ctx context.Context) (Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		ds := s.gen.Generate()
		s.data = &ds
	}
	return *s.data, nil
}

func (s *MockSource) Refresh(ctx context.Context) (Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds := s.gen.Generate()
	s.data = &ds
	return ds, nil
}

// ProductionStore 는 생산 데이터를 영속화하는 저장소다. (MongoDB 구현: repositories.ProductionRepository)
type ProductionStore interface {
	ListTiposProducto(ctx context.Context) ([]models.TipoProducto, error)
	ListLotes(ctx context.Context) ([]models.Lote, error)
	ListIrregularidades(ctx context.Context) ([]models.Irregularidad, error)
	ReplaceAll(ctx context.Context, tipos []models.TipoProducto, lotes []models.Lote, irregs []models.Irregularidad) error
}

// StoreSource 는 저장소에서 데이터를 읽는다. 저장소가 비어 있으면 Generator 로 채운다.
type StoreSource struct {
	store ProductionStore
	gen   *Generator
	now   func() time.Time
	mu    sync.Mutex
}

func NewStoreSource(store ProductionStore, gen *Generator) *StoreSource {
	return &StoreSource{store: store, gen: gen, now: time.Now}
}

func (s *StoreSource) Dataset(ctx context.Context) (Dataset, error) {
	tipos, err := s.store.ListTiposProducto(ctx)
	if err != nil {
		return Dataset{}, fmt.Errorf("list tipos_producto: %w", err)
	}
	if len(tipos) == 0 {
		return s.Refresh(ctx)
	}
	lotes, err := s.store.ListLotes(ctx)
	if err != nil {
		return Dataset{}, fmt.Errorf("list lotes: %w", err)
	}
	irregs, err := s.store.ListIrregularidades(ctx)
	if err != nil {
		return Dataset{}, fmt.Errorf("list irregularidades: %w", err)
	}
	now := s.now()
	return Dataset{
		GeneratedAt:     now,
		TiposProducto:   tipos,
		Turnos:          Turnos,
		Lotes:           lotes,
		Irregularidades: irregs,
		Daily:           DailyFromLotes(lotes, now, 30),
	}, nil
}

// Refresh 는 새 목업 데이터를 생성해 저장소 내용을 통째로 교체한다.
func (s *StoreSource) Refresh(ctx context.Context) (Dataset, error) {
	s.mu.Lock()
	ds := s.gen.Generate()
	s.mu.Unlock()
	if err := s.store.ReplaceAll(ctx, ds.TiposProducto, ds.Lotes, ds.Irregularidades); err != nil {
		return Dataset{}, fmt.Errorf("replace production data: %w", err)
	}
	ds.Daily = DailyFromLotes(ds.Lotes, ds.GeneratedAt, 30)
	return ds, nil
}
