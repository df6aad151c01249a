package eventbus

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RetryDelays 는 n 번째 재시도(1-based)까지 기다릴 시간이다.
// 감사 기록은 늦어도 되므로 단계를 짧게 둔다.
var RetryDelays = []time.Duration{
	5 * time.Second,
	30 * time.Second,
	2 * time.Minute,
}

// DefaultConsoleTopic 은 콘솔 이벤트의 기본 토픽 이름이다.
const DefaultConsoleTopic = "console.events"

const retryInfix = ".retry."

// Topic 은 기본 토픽에서 재시도 토픽(<base>.retry.<n>)과 DLQ(<base>.dlq) 이름을 만든다.
type Topic struct {
	base string
}

func NewTopic(base string) Topic {
	if base == "" {
		base = DefaultConsoleTopic
	}
	return Topic{base: base}
}

func (t Topic) Base() string { return t.base }

func (t Topic) DLQ() string { return t.base + ".dlq" }

// RetryTopics 는 재시도 단계 순서대로 토픽 이름을 돌려준다.
func (t Topic) RetryTopics() []string {
	names := make([]string, 0, len(RetryDelays))
	for attempt := 1; attempt <= len(RetryDelays); attempt++ {
		names = append(names, t.retryName(attempt))
	}
	return names
}

// RetryTopic 은 attempt 번째 재시도 토픽을 돌려준다. 단계를 벗어나면 ErrMaxRetryExceeded.
func (t Topic) RetryTopic(attempt int) (string, error) {
	if attempt < 1 || attempt > len(RetryDelays) {
		return "", ErrMaxRetryExceeded
	}
	return t.retryName(attempt), nil
}

func (t Topic) retryName(attempt int) string {
	return fmt.Sprintf("%s%s%d", t.base, retryInfix, attempt)
}

// RetryDelayOf 는 재시도 토픽 이름에서 대기 시간을 읽는다.
func RetryDelayOf(name string) (time.Duration, bool) {
	i := strings.LastIndex(name, retryInfix)
	if i < 0 {
		return 0, false
	}
	attempt, err := strconv.Atoi(name[i+len(retryInfix):])
	if err != nil || attempt < 1 || attempt > len(RetryDelays) {
		return 0, false
	}
	return RetryDelays[attempt-1], true
}
