package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Domain event subjects, relative to the configured prefix.
const (
	EventStudentCreated = "student.created"
	EventLessonFinished = "lesson.finished"
	EventAwardUpdated   = "award.updated"
	EventChildLinked    = "child.linked"
)

// Event is the envelope published for every domain event.
type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// EventPublisher emits domain events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops every event.
func NewNoopPublisher() EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, string, interface{}) error {
	return nil
}

type natsPublisher struct {
	conn   *nats.Conn
	prefix string
	now    func() time.Time
}

// NewNATSPublisher publishes JSON events to "<prefix>.<subject>".
func NewNATSPublisher(conn *nats.Conn, prefix string) EventPublisher {
	if conn == nil {
		return NewNoopPublisher()
	}
	return &natsPublisher{
		conn:   conn,
		prefix: strings.Trim(strings.TrimSpace(prefix), "."),
		now:    time.Now,
	}
}

func (p *natsPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(Event{
		Type:       subject,
		OccurredAt: p.now().UTC(),
		Data:       data,
	})
	if err != nil {
		return err
	}

	fullSubject := subject
	if p.prefix != "" {
		fullSubject = p.prefix + "." + subject
	}
	return p.conn.Publish(fullSubject, payload)
}

// publishEvent sends the event and logs failures; events never fail a request.
func publishEvent(ctx context.Context, publisher EventPublisher, logger zerolog.Logger, subject string, data interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, subject, data); err != nil {
		logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish domain event")
	}
}
