package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"nestly/internal/logger"
)

// KafkaEventBus 는 confluent-kafka-go 기반 EventBus 구현체다.
type KafkaEventBus struct {
	Producer *kafka.Producer
	Brokers  string
}

func NewKafkaEventBus(brokers string) (*KafkaEventBus, error) {
	producerCfg := &kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
		"retries":           5,
	}
	if maxBytes := positiveIntFromEnv("KAFKA_MESSAGE_MAX_BYTES"); maxBytes > 0 {
		(*producerCfg)["message.max.bytes"] = maxBytes
	}

	p, err := kafka.NewProducer(producerCfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	// 전달 보고서 중 개별 delivery channel 없이 발행된 것들의 오류만 여기로 온다.
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					logger.ErrorWithFields("kafka delivery failed", logger.Fields{
						"topic_partition": ev.TopicPartition.String(),
						"error":           ev.TopicPartition.Error.Error(),
					})
				}
			case kafka.Error:
				logger.ErrorWithFields("kafka error", logger.Fields{"error": ev.Error()})
			}
		}
	}()

	return &KafkaEventBus{
		Producer: p,
		Brokers:  brokers,
	}, nil
}

func (k *KafkaEventBus) Close() {
	if k.Producer == nil {
		return
	}
	if remaining := k.Producer.Flush(5000); remaining > 0 {
		logger.WarnWithFields("kafka producer closed with unflushed messages", logger.Fields{
			"remaining": remaining,
		})
	}
	k.Producer.Close()
	logger.Log.Info("kafka producer closed")
}

func (k *KafkaEventBus) Publish(ctx context.Context, topic string, event Event) error {
	if k.Producer == nil {
		return ErrBusClosed
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	// ctx 가 먼저 끝나도 producer 가 보고서를 쓸 수 있도록 버퍼를 두고 닫지 않는다.
	deliveryChan := make(chan kafka.Event, 1)

	err = k.Producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          data,
		Key:            event.messageKey(),
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}

	select {
	case ev := <-deliveryChan:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event %T", ev)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("deliver to %s: %w", topic, m.TopicPartition.Error)
		}
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (k *KafkaEventBus) newConsumer(groupID string) (*kafka.Consumer, error) {
	consumerCfg := &kafka.ConfigMap{
		"bootstrap.servers":             k.Brokers,
		"group.id":                      groupID,
		"auto.offset.reset":             "earliest",
		"enable.auto.commit":            false,
		"partition.assignment.strategy": "range",
	}
	if maxPoll := positiveIntFromEnv("KAFKA_MAX_POLL_INTERVAL_MS"); maxPoll > 0 {
		(*consumerCfg)["max.poll.interval.ms"] = maxPoll
	}
	return kafka.NewConsumer(consumerCfg)
}

// readMessage 는 타임아웃을 (nil, nil) 로 바꾸고 치명적 오류만 에러로 돌려준다.
func readMessage(c *kafka.Consumer) (*kafka.Message, error) {
	msg, err := c.ReadMessage(100 * time.Millisecond)
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

func commit(c *kafka.Consumer, msg *kafka.Message) {
	if _, err := c.CommitMessage(msg); err != nil {
		logger.ErrorWithFields("kafka commit failed", logger.Fields{
			"topic":  *msg.TopicPartition.Topic,
			"offset": msg.TopicPartition.Offset.String(),
			"error":  err.Error(),
		})
	}
}

// Subscribe 는 기본 토픽을 구독해 handler 를 실행한다.
// 실패한 이벤트는 retry 토픽 또는 DLQ 로 발행한 뒤에만 오프셋을 커밋한다.
func (k *KafkaEventBus) Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error {
	c, err := k.newConsumer(groupID)
	if err != nil {
		return fmt.Errorf("create kafka consumer: %w", err)
	}
	defer c.Close()

	topics := []string{topic.Base()}
	if err := c.SubscribeTopics(topics, nil); err != nil {
		return fmt.Errorf("subscribe %v: %w", topics, err)
	}

	logger.InfoWithFields("consumer started", logger.Fields{
		"group_id": groupID,
		"topics":   strings.Join(topics, ","),
	})

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("consumer stopping")
			return ctx.Err()
		default:
		}

		msg, err := readMessage(c)
		if err != nil {
			return fmt.Errorf("consumer fatal error: %w", err)
		}
		if msg == nil {
			continue
		}

		var evt Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			logger.ErrorWithFields("invalid event payload, skipping", logger.Fields{
				"topic": *msg.TopicPartition.Topic,
				"error": err.Error(),
			})
			commit(c, msg)
			continue
		}
		evt = normalizeMaxRetry(evt)

		fields := logger.Fields{
			"event_id":  evt.ID,
			"key":       evt.Key,
			"retry":     evt.Retry,
			"max_retry": evt.MaxRetry,
		}
		if evt.Retry > 0 {
			logger.InfoWithFields("handling retried event", fields)
		} else {
			logger.DebugWithFields("handling event", fields)
		}

		if handlerErr := handler(ctx, evt); handlerErr != nil {
			dest, routed, routeErr := RouteFailure(topic, evt, handlerErr)
			if routeErr != nil {
				logger.ErrorWithFields("failed to route failed event", logger.Fields{
					"event_id": evt.ID,
					"error":    routeErr.Error(),
				})
				continue
			}
			fields["destination"] = dest
			fields["error"] = handlerErr.Error()
			if dest == topic.DLQ() {
				logger.ErrorWithFields("event exhausted retries, sending to dlq", fields)
			} else {
				logger.WarnWithFields("event failed, scheduling retry", fields)
			}
			if err := k.Publish(ctx, dest, routed); err != nil {
				// 커밋하지 않으면 재시작 후 같은 메시지를 다시 처리한다.
				logger.ErrorWithFields("failed to publish failed event, offset not committed", logger.Fields{
					"event_id":    evt.ID,
					"destination": dest,
					"error":       err.Error(),
				})
				continue
			}
		}

		commit(c, msg)
	}
}

// StartRetryReinjector 는 retry 토픽들을 구독해 지연이 지난 메시지를 기본 토픽으로 다시 발행한다.
func (k *KafkaEventBus) StartRetryReinjector(ctx context.Context, groupID string, topic Topic) error {
	c, err := k.newConsumer(groupID)
	if err != nil {
		return fmt.Errorf("create retry reinjector: %w", err)
	}
	defer c.Close()

	retryTopics := topic.GetRetryTopics()
	if err := c.SubscribeTopics(retryTopics, nil); err != nil {
		return fmt.Errorf("subscribe retry topics %v: %w", retryTopics, err)
	}

	logger.InfoWithFields("retry reinjector started", logger.Fields{
		"group_id": groupID,
		"topics":   strings.Join(retryTopics, ","),
	})

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("retry reinjector stopping")
			return ctx.Err()
		default:
		}

		msg, err := readMessage(c)
		if err != nil {
			return fmt.Errorf("retry reinjector fatal error: %w", err)
		}
		if msg == nil {
			continue
		}

		topicName := *msg.TopicPartition.Topic
		delay, ok := ParseRetryFromTopicName(topicName)
		if !ok {
			logger.ErrorWithFields("unparsable retry topic, skipping", logger.Fields{"topic": topicName})
			commit(c, msg)
			continue
		}

		if wait := time.Until(msg.Timestamp.Add(delay)); wait > 0 {
			// 컨슈머를 오래 막지 않도록 짧게 쉬고 같은 오프셋으로 되돌아가 다시 확인한다.
			time.Sleep(min(max(wait, 50*time.Millisecond), 500*time.Millisecond))
			if err := c.Seek(msg.TopicPartition, 1000); err != nil {
				logger.ErrorWithFields("retry reinjector seek failed", logger.Fields{
					"topic": topicName,
					"error": err.Error(),
				})
			}
			continue
		}

		var evt Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			logger.ErrorWithFields("invalid retry payload, skipping", logger.Fields{
				"topic": topicName,
				"error": err.Error(),
			})
			commit(c, msg)
			continue
		}

		logger.InfoWithFields("reinjecting event", logger.Fields{
			"event_id": evt.ID,
			"from":     topicName,
			"to":       topic.Base(),
			"retry":    evt.Retry,
		})
		if err := k.Publish(ctx, topic.Base(), evt); err != nil {
			logger.ErrorWithFields("reinject failed, offset not committed", logger.Fields{
				"event_id": evt.ID,
				"error":    err.Error(),
			})
			continue
		}
		commit(c, msg)
	}
}
