// Package natsadapter publishes viewport and mission events so the
// WebSocket relay can push them to connected map clients. Events are
// ephemeral by design; plain core NATS is enough.
package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/oceanhelm/internal/core/domain"
)

// Subjects carried on the broker.
const (
	SubjectFlyTo          = "helm.camera.flyto"
	SubjectMissionUpdated = "helm.mission.updated"
)

// Publisher implements ports.EventPublisher.
type Publisher struct {
	conn *nats.Conn
}

// NewPublisher connects to NATS with indefinite reconnects.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Publisher{conn: conn}, nil
}

// PublishFlyTo broadcasts an emitted navigation command.
func (p *Publisher) PublishFlyTo(ctx context.Context, cmd *domain.Command) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	return p.conn.Publish(SubjectFlyTo, data)
}

// PublishMissionUpdate broadcasts a mission replacement.
func (p *Publisher) PublishMissionUpdate(ctx context.Context, m *domain.Mission) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return p.conn.Publish(SubjectMissionUpdated, data)
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (the
// WebSocket relay holds its own).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
