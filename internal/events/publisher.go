package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventPublisher defines the interface for publishing widget events
type EventPublisher interface {
	PublishChallengeEvent(ctx context.Context, event *ChallengeEvent) error
	Close() error
}

// EventSubscriber streams published events until ctx is done.
type EventSubscriber interface {
	SubscribeChallengeEvents(ctx context.Context) (<-chan ChallengeEvent, error)
}

// ChannelEventBus implements EventPublisher and EventSubscriber on an
// in-process watermill GoChannel. Events published with no subscriber are dropped.
type ChannelEventBus struct {
	pubSub    *gochannel.GoChannel
	logger    *slog.Logger
	topicName string
}

// BusConfig holds configuration for the event bus
type BusConfig struct {
	TopicName string
	Buffer    int64
	Logger    *slog.Logger
}

func NewChannelEventBus(config BusConfig) *ChannelEventBus {
	if config.TopicName == "" {
		config.TopicName = TopicChallengeEvents
	}
	if config.Buffer <= 0 {
		config.Buffer = 64
	}

	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: config.Buffer,
	}, watermill.NewSlogLogger(config.Logger))

	return &ChannelEventBus{
		pubSub:    pubSub,
		logger:    config.Logger,
		topicName: config.TopicName,
	}
}

// PublishChallengeEvent publishes a widget event to the bus
func (b *ChannelEventBus) PublishChallengeEvent(ctx context.Context, event *ChallengeEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal challenge event: %w", err)
	}

	msg := message.NewMessage(event.ID, eventBytes)
	msg.SetContext(ctx)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("question_id", event.QuestionID)
	msg.Metadata.Set("source", event.Source)
	msg.Metadata.Set("version", event.Version)

	if err := b.pubSub.Publish(b.topicName, msg); err != nil {
		b.logger.Error("Failed to publish challenge event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		return fmt.Errorf("failed to publish challenge event: %w", err)
	}

	b.logger.Debug("Published challenge event",
		"event_id", event.ID,
		"event_type", event.Type,
		"question_id", event.QuestionID)

	return nil
}

// SubscribeChallengeEvents decodes bus messages into events. The returned
// channel closes when ctx is cancelled or the bus is closed.
func (b *ChannelEventBus) SubscribeChallengeEvents(ctx context.Context) (<-chan ChallengeEvent, error) {
	messages, err := b.pubSub.Subscribe(ctx, b.topicName)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.topicName, err)
	}

	out := make(chan ChallengeEvent)
	go func() {
		defer close(out)
		for msg := range messages {
			var event ChallengeEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				b.logger.Warn("Dropping malformed challenge event", "message_uuid", msg.UUID, "error", err)
				msg.Ack()
				continue
			}
			msg.Ack()

			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// Close closes the bus and every open subscription
func (b *ChannelEventBus) Close() error {
	return b.pubSub.Close()
}

// MockEventPublisher is a mock implementation for testing
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []ChallengeEvent
	Logger *slog.Logger
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{
		Events: make([]ChallengeEvent, 0),
		Logger: logger,
	}
}

// PublishChallengeEvent stores the event in memory (for testing)
func (m *MockEventPublisher) PublishChallengeEvent(ctx context.Context, event *ChallengeEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, *event)
	return nil
}

// Close is a no-op for the mock publisher
func (m *MockEventPublisher) Close() error {
	return nil
}

// GetPublishedEvents returns a copy of all published events (for testing)
func (m *MockEventPublisher) GetPublishedEvents() []ChallengeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ChallengeEvent, len(m.Events))
	copy(out, m.Events)
	return out
}

// EventTypes returns the published event types in order (for testing)
func (m *MockEventPublisher) EventTypes() []EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EventType, 0, len(m.Events))
	for _, e := range m.Events {
		out = append(out, e.Type)
	}
	return out
}

// ClearEvents clears all published events (for testing)
func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = make([]ChallengeEvent, 0)
}
