// Package events publishes best-effort analysis notifications to RabbitMQ.
// The publisher is optional: a nil *Publisher is safe to call and does
// nothing, so deployments without a broker lose nothing but the events.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const exchange = "analysis_updates"

// Publisher pushes one message per completed analysis request.
type Publisher struct {
	conn   *amqp.Connection
	logger *zap.Logger
}

func NewPublisher(url string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}
	return &Publisher{conn: conn, logger: logger}, nil
}

// Publish sends an analysis update. Failures are logged, never propagated:
// event delivery must not affect the request that triggered it.
func (p *Publisher) Publish(endpoint, status string) {
	if p == nil {
		return
	}

	ch, err := p.conn.Channel()
	if err != nil {
		p.logger.Warn("failed to open channel for analysis update", zap.Error(err))
		return
	}
	defer ch.Close()

	body, _ := json.Marshal(map[string]any{
		"endpoint":  endpoint,
		"status":    status,
		"timestamp": time.Now().UTC(),
	})

	err = ch.Publish(
		exchange,
		fmt.Sprintf("analysis.%s", endpoint),
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		p.logger.Warn("failed to publish analysis update",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
	}
}

// Close shuts the broker connection down.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.conn.Close()
}
