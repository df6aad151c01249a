package eventbus

import (
	"context"
	"sync"
	"time"

	"pastas-console/cmd/internal/logger"
)

// MemoryEventBus 는 브로커 없이 프로세스 안에서 동작하는 EventBus 구현체입니다.
// KAFKA_BOOTSTRAP_SERVERS 가 비어 있는 로컬 실행과 테스트에서 사용합니다.
//
// - 구독자가 없을 때 발행된 이벤트는 토픽별 backlog 에 쌓였다가 첫 구독자에게 전달됩니다.
//   backlog 는 maxBacklog 개까지만 보관하고 넘치면 가장 오래된 이벤트를 버립니다.
// - handler 실패 시 MaxRetry 까지 Backoff 간격으로 재시도하고, 그 뒤에는 DLQ 에 보관합니다.
type MemoryEventBus struct {
	// Backoff 는 n 번째(1-based) 재시도 전 대기 시간입니다. nil 이면 바로 재시도합니다.
	Backoff func(n int) time.Duration

	mu      sync.Mutex
	subs    map[string][]*memorySub
	backlog map[string][]Event
	dlq     map[string][]Event
	buffer  int
	done    chan struct{}
	once    sync.Once
}

const maxBacklog = 1024

// memorySub 는 구독자 하나의 수신 버퍼다. gone 은 Subscribe 가 반환되면 닫힌다.
type memorySub struct {
	ch   chan Event
	gone chan struct{}
}

func NewMemoryEventBus(buffer int) *MemoryEventBus {
	if buffer <= 0 {
		buffer = 64
	}
	return &MemoryEventBus{
		subs:    make(map[string][]*memorySub),
		backlog: make(map[string][]Event),
		dlq:     make(map[string][]Event),
		buffer:  buffer,
		done:    make(chan struct{}),
	}
}

func (m *MemoryEventBus) closed() bool {
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}

func (m *MemoryEventBus) Publish(ctx context.Context, topic string, event Event) error {
	if m.closed() {
		return ErrClosed
	}
	event.clampRetries()

	m.mu.Lock()
	subs := append([]*memorySub(nil), m.subs[topic]...)
	if len(subs) == 0 {
		m.parkLocked(topic, event)
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	for _, sub := range subs {
		select {
		case <-sub.gone:
			m.mu.Lock()
			m.parkLocked(topic, event)
			m.mu.Unlock()
			continue
		default:
		}
		select {
		case sub.ch <- event:
		case <-sub.gone:
			// 복사해 둔 뒤 떠난 구독자. 다음 구독자를 위해 backlog 에 남긴다.
			m.mu.Lock()
			m.parkLocked(topic, event)
			m.mu.Unlock()
		case <-ctx.Done():
			return ctx.Err()
		case <-m.done:
			return ErrClosed
		}
	}
	return nil
}

// parkLocked 는 m.mu 를 잡은 상태에서 호출한다.
func (m *MemoryEventBus) parkLocked(topic string, event Event) {
	backlog := append(m.backlog[topic], event)
	if len(backlog) > maxBacklog {
		logger.Log.Warnf("토픽 %s backlog 초과. 가장 오래된 이벤트 %s 를 버립니다.", topic, backlog[0].ID)
		backlog = backlog[1:]
	}
	m.backlog[topic] = backlog
}

// Subscribe 는 ctx 가 취소되거나 버스가 닫힐 때까지 블로킹합니다.
// 같은 토픽의 구독자는 모두 동일한 이벤트를 받습니다.
func (m *MemoryEventBus) Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error {
	sub := &memorySub{ch: make(chan Event, m.buffer), gone: make(chan struct{})}

	m.mu.Lock()
	pending := m.backlog[topic.Base()]
	delete(m.backlog, topic.Base())
	m.subs[topic.Base()] = append(m.subs[topic.Base()], sub)
	m.mu.Unlock()
	defer m.unsubscribe(topic.Base(), sub)

	logger.Log.Infof("메모리 컨슈머 (%s) 시작됨. 구독 토픽: %s", groupID, topic.Base())

	for _, evt := range pending {
		if err := m.dispatch(ctx, topic, handler, evt); err != nil {
			return err
		}
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.done:
			return nil
		case evt := <-sub.ch:
			if err := m.dispatch(ctx, topic, handler, evt); err != nil {
				return err
			}
		}
	}
}

// dispatch 는 handler 를 실행하고 실패 시 재시도 후 DLQ 로 보냅니다.
// ctx 취소만 에러로 반환합니다.
func (m *MemoryEventBus) dispatch(ctx context.Context, topic Topic, handler EventHandler, evt Event) error {
	for {
		err := handler(ctx, evt)
		if err == nil {
			return nil
		}
		evt.LastError = err.Error()
		if evt.Retry >= evt.MaxRetry {
			logger.Log.Errorf("이벤트 %s의 최대 재시도 횟수 초과. DLQ %s에 보관. 최종 오류: %v", evt.ID, topic.DLQ(), err)
			m.mu.Lock()
			m.dlq[topic.Base()] = append(m.dlq[topic.Base()], evt)
			m.mu.Unlock()
			return nil
		}
		evt.Retry++
		logger.Log.Warnf("이벤트 %s 처리 실패. 재시도 %d/%d", evt.ID, evt.Retry, evt.MaxRetry)
		if m.Backoff == nil {
			continue
		}
		select {
		case <-time.After(m.Backoff(evt.Retry)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// unsubscribe 는 구독자를 목록에서 빼고, 처리하지 못한 버퍼 이벤트를 backlog 로 되돌린다.
func (m *MemoryEventBus) unsubscribe(topic string, sub *memorySub) {
	m.mu.Lock()
	defer m.mu.Unlock()
	subs := m.subs[topic]
	for i, s := range subs {
		if s == sub {
			m.subs[topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	close(sub.gone)
	for {
		select {
		case evt := <-sub.ch:
			m.parkLocked(topic, evt)
		default:
			return
		}
	}
}

// StartRetryReinjector 는 재시도를 dispatch 안에서 처리하므로 ctx 종료까지 대기만 합니다.
func (m *MemoryEventBus) StartRetryReinjector(ctx context.Context, _ string, _ Topic) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-m.done:
		return nil
	}
}

// DeadLetters 는 topic 의 DLQ 에 보관된 이벤트 사본을 반환합니다.
func (m *MemoryEventBus) DeadLetters(topic Topic) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.dlq[topic.Base()]...)
}

func (m *MemoryEventBus) Close() {
	m.once.Do(func() { close(m.done) })
}
