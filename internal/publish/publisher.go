// Package publish delivers tracked-field changes to Kafka.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Phippsy/exercise/internal/domain"
	"github.com/Phippsy/exercise/internal/events"
	"github.com/Phippsy/exercise/internal/observability"
)

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

// Sources names the two catalogs a change was detected between.
type Sources struct {
	Base   string
	Target string
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithLogger sets a custom logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Publisher) { p.logger = l }
}

// WithClock overrides the detection timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) { p.now = now }
}

// Publisher turns tracked changes into events on a single topic.
type Publisher struct {
	writer messageWriter
	topic  string
	field  string
	logger *zap.Logger
	now    func() time.Time
}

// NewPublisher constructs a Publisher writing to topic. field is the tracked field name carried in each event.
func NewPublisher(writer messageWriter, topic, field string, opts ...Option) *Publisher {
	p := &Publisher{
		writer: writer,
		topic:  topic,
		field:  field,
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PublishTrackedChanges writes one event per change in a single batch and returns the number written.
func (p *Publisher) PublishTrackedChanges(ctx context.Context, src Sources, changes []domain.TrackedChange) (int, error) {
	if len(changes) == 0 {
		return 0, nil
	}

	detectedAt := p.now()
	msgs := make([]kafka.Message, 0, len(changes))
	for _, change := range changes {
		evt := events.ExerciseVideoChanged{
			EventID:      uuid.NewString(),
			Exercise:     change.Exercise,
			Workout:      change.Workout,
			Field:        p.field,
			OldValue:     change.Old,
			NewValue:     change.New,
			BaseSource:   src.Base,
			TargetSource: src.Target,
			DetectedAt:   detectedAt,
		}
		payload, err := json.Marshal(evt)
		if err != nil {
			return 0, fmt.Errorf("encode event: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(change.Exercise),
			Value: payload,
			Time:  detectedAt,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(events.ExerciseVideoChangedType)},
				{Key: "event_id", Value: []byte(evt.EventID)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, p.topic, msgs...); err != nil {
		return 0, fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	observability.RecordPublished(p.topic, len(msgs))
	p.logger.Info("published tracked changes", zap.String("topic", p.topic), zap.Int("count", len(msgs)))
	return len(msgs), nil
}
