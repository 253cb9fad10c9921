package nats

import (
	"encoding/json"
	"time"

	"github.com/mkolchin/shopcart/internal/domain/entity"
	"github.com/mkolchin/shopcart/internal/platform/logger"
	"github.com/nats-io/nats.go"
)

const (
	snapshotSubject = "cart.updated"
	failureSubject  = "cart.failure"
)

// Publisher mirrors the engine's observer and notifier channels onto NATS
// subjects, so other processes (a rendering UI, auditing) can follow the
// cart without touching the engine. Publishes are fire-and-forget; a
// publish error only gets logged.
type Publisher struct {
	conn *nats.Conn
	log  logger.Logger
}

func NewPublisher(conn *nats.Conn, log logger.Logger) *Publisher {
	return &Publisher{
		conn: conn,
		log:  log,
	}
}

type snapshotEvent struct {
	Items      []entity.LineItem `json:"items"`
	OccurredAt time.Time         `json:"occurred_at"`
}

type failureEvent struct {
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (p *Publisher) CartUpdated(items []entity.LineItem) {
	p.publish(snapshotSubject, snapshotEvent{Items: items, OccurredAt: time.Now().UTC()})
}

func (p *Publisher) Failure(message string) {
	p.publish(failureSubject, failureEvent{Message: message, OccurredAt: time.Now().UTC()})
}

func (p *Publisher) publish(subject string, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		p.log.Errorf("Failed to marshal event for subject %s: %v", subject, err)
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		p.log.Errorf("Failed to publish event to subject %s: %v", subject, err)
	}
}
