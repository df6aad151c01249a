package eventbus

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Event 는 버스에 실리는 봉투다. Payload 는 events 패키지가 직렬화한 JSON 이다.
type Event struct {
	ID        string          `json:"id"`
	Payload   json.RawMessage `json:"payload"`
	Retry     int             `json:"retry"`
	MaxRetry  int             `json:"max_retry"`
	LastError string          `json:"last_error,omitempty"`
}

// Wrap 은 직렬화된 payload 를 봉투에 담는다. id 가 비어 있으면 UUID 를 붙인다.
func Wrap(id string, payload []byte) Event {
	if id == "" {
		id = uuid.NewString()
	}
	return Event{ID: id, Payload: payload, MaxRetry: len(RetryDelays)}
}

// WithMaxRetry 는 재시도 한도를 바꾼 사본을 돌려준다. 범위 밖 값은 기본 한도가 된다.
func (e Event) WithMaxRetry(n int) Event {
	e.MaxRetry = n
	e.clampRetries()
	return e
}

func (e *Event) clampRetries() {
	if e.MaxRetry < 1 || e.MaxRetry > len(RetryDelays) {
		e.MaxRetry = len(RetryDelays)
	}
}

// DecodeJSON 은 Payload 를 T 로 읽는다.
func DecodeJSON[T any](evt Event) (T, error) {
	var out T
	if err := json.Unmarshal(evt.Payload, &out); err != nil {
		return out, fmt.Errorf("decode event %s: %w", evt.ID, err)
	}
	return out, nil
}
