package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pastas-console/cmd/internal/eventbus"
	"pastas-console/events"
	"pastas-console/models"
)

type memStore struct {
	items []models.AuditEvent
	err   error
}

func (m *memStore) Insert(_ context.Context, e *models.AuditEvent) error {
	if m.err != nil {
		return m.err
	}
	m.items = append(m.items, *e)
	return nil
}

func busEvent(t *testing.T, e events.Event) eventbus.Event {
	t.Helper()
	data, _, err := events.SerializeEvent(e)
	require.NoError(t, err)
	return eventbus.Event{ID: e.Meta().ID, Payload: data}
}

func TestRecorderStoresAuditEvent(t *testing.T) {
	store := &memStore{}
	rec := NewRecorder(store)
	rec.now = func() time.Time { return time.Date(2025, 6, 18, 9, 0, 0, 0, time.UTC) }

	created := events.EmpleadoCreatedEvent{
		BaseEvent:  events.NewBase(events.EmpleadoCreated, "api", "req-9"),
		EmpleadoID: 5,
		Nombre:     "Ana",
		Apellido:   "Gómez",
		Rol:        "Operario",
	}
	require.NoError(t, rec.Handle(context.Background(), busEvent(t, created)))

	require.Len(t, store.items, 1)
	got := store.items[0]
	assert.Equal(t, created.ID, got.EventID)
	assert.Equal(t, "empleado.created", got.Type)
	assert.Equal(t, "empleado:5", got.Subject)
	assert.Equal(t, "Empleado Ana Gómez registrado (Operario)", got.Summary)
	assert.Equal(t, "req-9", got.RequestID)
	assert.Equal(t, float64(5), got.Payload["empleado_id"])
	assert.Equal(t, 2025, got.RecordedAt.Year())
}

func TestRecorderSkipsUndecodableEvents(t *testing.T) {
	store := &memStore{}
	rec := NewRecorder(store)

	assert.NoError(t, rec.Handle(context.Background(), eventbus.Event{ID: "x", Payload: []byte(`{"type":"post.created"}`)}))
	assert.NoError(t, rec.Handle(context.Background(), eventbus.Event{ID: "y", Payload: []byte(`nope`)}))
	assert.Empty(t, store.items)
}

func TestRecorderReturnsStoreErrorForRetry(t *testing.T) {
	rec := NewRecorder(&memStore{err: errors.New("mongo down")})
	evt := busEvent(t, events.EmpleadoDeletedEvent{BaseEvent: events.NewBase(events.EmpleadoDeleted, "api", ""), EmpleadoID: 3})

	err := rec.Handle(context.Background(), evt)
	assert.ErrorContains(t, err, "mongo down")
}

func TestRecorderOverMemoryBus(t *testing.T) {
	bus := eventbus.NewMemoryEventBus(4)
	defer bus.Close()
	topic := eventbus.NewTopic("audit.test")
	store := &memStore{}

	evt := busEvent(t, events.DashboardRefreshedEvent{BaseEvent: events.NewBase(events.DashboardRefreshed, "api", ""), Lotes: 300})
	require.NoError(t, bus.Publish(context.Background(), topic.Base(), evt))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	rec := NewRecorder(storeFunc(func(ctx context.Context, e *models.AuditEvent) error {
		err := store.Insert(ctx, e)
		cancel()
		return err
	}))
	go func() {
		defer close(done)
		_ = bus.Subscribe(ctx, "auditor", topic, rec.Handle)
	}()
	<-done

	require.Len(t, store.items, 1)
	assert.Equal(t, "dashboard", store.items[0].Subject)
}

type storeFunc func(ctx context.Context, e *models.AuditEvent) error

func (f storeFunc) Insert(ctx context.Context, e *models.AuditEvent) error { return f(ctx, e) }
