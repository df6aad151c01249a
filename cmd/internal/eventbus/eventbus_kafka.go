package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"pastas-console/cmd/internal/logger"
)

const (
	pollTimeout  = 100 * time.Millisecond
	flushTimeout = 5 * time.Second
)

// KafkaConfig 의 0 값 필드는 librdkafka 기본값을 따른다.
type KafkaConfig struct {
	Brokers           string
	MessageMaxBytes   int
	MaxPollIntervalMs int
}

// KafkaConfigFromEnv 는 KAFKA_MESSAGE_MAX_BYTES, KAFKA_MAX_POLL_INTERVAL_MS 를 읽는다.
func KafkaConfigFromEnv(brokers string) KafkaConfig {
	return KafkaConfig{
		Brokers:           brokers,
		MessageMaxBytes:   envPositiveInt("KAFKA_MESSAGE_MAX_BYTES"),
		MaxPollIntervalMs: envPositiveInt("KAFKA_MAX_POLL_INTERVAL_MS"),
	}
}

func (c KafkaConfig) producerConfig() *kafka.ConfigMap {
	m := kafka.ConfigMap{
		"bootstrap.servers": c.Brokers,
		"acks":              "all",
		"retries":           5,
	}
	if c.MessageMaxBytes > 0 {
		m["message.max.bytes"] = c.MessageMaxBytes
	}
	return &m
}

// consumerConfig 는 수동 커밋을 쓴다. 재시도 토픽 발행이 성공한 뒤에만 오프셋을 넘긴다.
func (c KafkaConfig) consumerConfig(groupID string) *kafka.ConfigMap {
	m := kafka.ConfigMap{
		"bootstrap.servers":             c.Brokers,
		"group.id":                      groupID,
		"auto.offset.reset":             "earliest",
		"enable.auto.commit":            false,
		"partition.assignment.strategy": "range",
	}
	if c.MaxPollIntervalMs > 0 {
		m["max.poll.interval.ms"] = c.MaxPollIntervalMs
	}
	return &m
}

// KafkaEventBus 는 confluent-kafka-go 위의 EventBus 다.
type KafkaEventBus struct {
	producer *kafka.Producer
	cfg      KafkaConfig
}

func NewKafkaEventBus(cfg KafkaConfig) (*KafkaEventBus, error) {
	if strings.TrimSpace(cfg.Brokers) == "" {
		return nil, errors.New("eventbus: no kafka brokers configured")
	}
	p, err := kafka.NewProducer(cfg.producerConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	go drainProducerEvents(p)
	return &KafkaEventBus{producer: p, cfg: cfg}, nil
}

// drainProducerEvents 는 delivery report 없이 보낸 메시지와 클라이언트 오류를 기록한다.
func drainProducerEvents(p *kafka.Producer) {
	for e := range p.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				logger.ErrorWithFields("kafka delivery failed", logger.Fields{
					"topic": topicOf(ev),
					"error": ev.TopicPartition.Error.Error(),
				})
			}
		case kafka.Error:
			logger.ErrorWithFields("kafka client error", logger.Fields{"code": ev.Code().String(), "error": ev.Error()})
		}
	}
}

func (k *KafkaEventBus) Close() {
	if k.producer == nil {
		return
	}
	if left := k.producer.Flush(int(flushTimeout / time.Millisecond)); left > 0 {
		logger.WarnWithFields("kafka producer closed with unflushed messages", logger.Fields{"remaining": left})
	}
	k.producer.Close()
}

// Publish 는 event.ID 를 키로 발행하고 브로커 확인까지 기다린다.
func (k *KafkaEventBus) Publish(ctx context.Context, topic string, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}
	report := make(chan kafka.Event, 1)
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.ID),
		Value:          value,
	}
	if err := k.producer.Produce(msg, report); err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case e := <-report:
		if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			return fmt.Errorf("deliver to %s: %w", topic, m.TopicPartition.Error)
		}
		return nil
	}
}

// Subscribe 는 기본 토픽을 처리한다. handler 가 실패한 이벤트는 다음 재시도 토픽이나 DLQ 로
// 옮겨진 뒤에만 커밋되므로, 옮기기에 실패하면 같은 메시지를 다시 받는다.
func (k *KafkaEventBus) Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error {
	return k.consume(ctx, groupID, []string{topic.Base()}, func(_ *kafka.Consumer, msg *kafka.Message) bool {
		evt, ok := decodeMessage(msg)
		if !ok {
			return true
		}
		evt.clampRetries()
		if herr := handler(ctx, evt); herr != nil {
			if err := k.escalate(ctx, topic, evt, herr); err != nil {
				logger.ErrorWithFields("event escalation failed, offset kept", logger.Fields{"event_id": evt.ID, "error": err.Error()})
				return false
			}
		}
		return true
	})
}

// escalate 는 실패한 이벤트를 다음 재시도 토픽으로, 한도를 넘었으면 DLQ 로 보낸다.
func (k *KafkaEventBus) escalate(ctx context.Context, topic Topic, evt Event, cause error) error {
	evt.LastError = cause.Error()
	attempt := evt.Retry + 1
	dest, err := topic.RetryTopic(attempt)
	if err != nil || attempt > evt.MaxRetry {
		logger.ErrorWithFields("event dead-lettered", logger.Fields{"event_id": evt.ID, "dlq": topic.DLQ(), "error": evt.LastError})
		return k.Publish(ctx, topic.DLQ(), evt)
	}
	evt.Retry = attempt
	logger.WarnWithFields("event scheduled for retry", logger.Fields{
		"event_id":  evt.ID,
		"attempt":   evt.Retry,
		"max_retry": evt.MaxRetry,
		"topic":     dest,
		"error":     evt.LastError,
	})
	return k.Publish(ctx, dest, evt)
}

// StartRetryReinjector 는 재시도 토픽의 메시지가 해당 단계의 지연을 채우면 기본 토픽으로 되돌린다.
// 아직 이른 메시지는 잠시 기다린 뒤 같은 오프셋으로 되감는다.
func (k *KafkaEventBus) StartRetryReinjector(ctx context.Context, groupID string, topic Topic) error {
	return k.consume(ctx, groupID, topic.RetryTopics(), func(c *kafka.Consumer, msg *kafka.Message) bool {
		name := topicOf(msg)
		delay, ok := RetryDelayOf(name)
		if !ok {
			logger.ErrorWithFields("unknown retry topic, skipping", logger.Fields{"topic": name})
			return true
		}
		if wait := time.Until(msg.Timestamp.Add(delay)); wait > 0 {
			time.Sleep(min(max(wait, 50*time.Millisecond), 500*time.Millisecond))
			if err := c.Seek(msg.TopicPartition, 1000); err != nil {
				logger.ErrorWithFields("retry consumer seek failed", logger.Fields{"topic": name, "error": err.Error()})
			}
			return false
		}
		evt, ok := decodeMessage(msg)
		if !ok {
			return true
		}
		if err := k.Publish(ctx, topic.Base(), evt); err != nil {
			logger.ErrorWithFields("event reinjection failed, offset kept", logger.Fields{"event_id": evt.ID, "error": err.Error()})
			return false
		}
		logger.InfoWithFields("event reinjected", logger.Fields{"event_id": evt.ID, "from": name, "attempt": evt.Retry})
		return true
	})
}

// consume 은 topics 를 읽어 fn 에 넘기고, fn 이 true 를 돌려준 메시지만 커밋한다.
// ctx 가 끝나거나 치명적 오류가 나면 반환한다.
func (k *KafkaEventBus) consume(ctx context.Context, groupID string, topics []string, fn func(*kafka.Consumer, *kafka.Message) bool) error {
	c, err := kafka.NewConsumer(k.cfg.consumerConfig(groupID))
	if err != nil {
		return fmt.Errorf("create kafka consumer %s: %w", groupID, err)
	}
	defer c.Close()
	if err := c.SubscribeTopics(topics, nil); err != nil {
		return fmt.Errorf("subscribe %v: %w", topics, err)
	}
	logger.InfoWithFields("kafka consumer started", logger.Fields{"group_id": groupID, "topics": strings.Join(topics, ",")})

	for ctx.Err() == nil {
		msg, err := poll(c)
		if err != nil {
			return fmt.Errorf("consumer %s: %w", groupID, err)
		}
		if msg == nil || !fn(c, msg) {
			continue
		}
		if _, err := c.CommitMessage(msg); err != nil {
			logger.ErrorWithFields("offset commit failed", logger.Fields{"topic": topicOf(msg), "error": err.Error()})
		}
	}
	logger.InfoWithFields("kafka consumer stopped", logger.Fields{"group_id": groupID})
	return ctx.Err()
}

// poll 은 타임아웃과 일시적 오류를 (nil, nil) 로, 치명적 오류만 에러로 돌려준다.
func poll(c *kafka.Consumer) (*kafka.Message, error) {
	msg, err := c.ReadMessage(pollTimeout)
	if err == nil {
		return msg, nil
	}
	var kerr kafka.Error
	if errors.As(err, &kerr) {
		if kerr.Code() == kafka.ErrTimedOut {
			return nil, nil
		}
		if kerr.IsFatal() {
			return nil, err
		}
	}
	logger.WarnWithFields("kafka read failed", logger.Fields{"error": err.Error()})
	time.Sleep(500 * time.Millisecond)
	return nil, nil
}

func decodeMessage(msg *kafka.Message) (Event, bool) {
	var evt Event
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		logger.ErrorWithFields("malformed event, skipping", logger.Fields{"topic": topicOf(msg), "error": err.Error()})
		return Event{}, false
	}
	return evt, true
}

func topicOf(msg *kafka.Message) string {
	if msg.TopicPartition.Topic == nil {
		return ""
	}
	return *msg.TopicPartition.Topic
}

// envPositiveInt 는 비어 있거나 양수가 아닌 값을 0 으로 본다.
func envPositiveInt(key string) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		logger.WarnWithFields("ignoring invalid env value", logger.Fields{"key": key, "value": raw})
		return 0
	}
	return v
}
