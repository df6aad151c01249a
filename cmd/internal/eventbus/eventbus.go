// Package eventbus 는 콘솔 이벤트를 Kafka 로 주고받는다.
// 브로커가 설정되지 않으면 같은 계약을 따르는 프로세스 내부 버스를 쓴다.
// 처리에 실패한 이벤트는 재시도 토픽을 거쳐 최종적으로 DLQ 로 간다.
package eventbus

import (
	"context"
	"errors"
)

var (
	ErrMaxRetryExceeded = errors.New("eventbus: retries exhausted")
	ErrClosed           = errors.New("eventbus closed")
)

// EventHandler 가 에러를 돌려주면 이벤트는 재시도 단계로 넘어간다.
type EventHandler func(ctx context.Context, event Event) error

// Publisher 는 발행만 하는 쪽(api, aggregate)이 의존하는 인터페이스다.
type Publisher interface {
	Publish(ctx context.Context, topic string, event Event) error
}

type EventBus interface {
	Publisher
	Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error
	// StartRetryReinjector 는 재시도 토픽의 이벤트를 지연 후 기본 토픽으로 되돌린다.
	StartRetryReinjector(ctx context.Context, groupID string, topic Topic) error
	Close()
}

// Open 은 brokers 가 있으면 Kafka 버스를, 없으면 MemoryEventBus 를 연다.
func Open(brokers string) (EventBus, error) {
	if brokers == "" {
		return NewMemoryEventBus(0), nil
	}
	return NewKafkaEventBus(KafkaConfigFromEnv(brokers))
}
