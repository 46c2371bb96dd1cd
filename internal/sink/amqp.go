package sink

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"qsrescue/internal/model"
)

// AMQP publishes recovered messages to a RabbitMQ broker. The connection is
// opened once, before any segment file is processed; a dial or
// authentication failure is fatal at startup rather than mid-run.
type AMQP struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	exchange   string
	routingKey string
}

// DialAMQP connects to the destination broker and declares the target queue
// durable so recovered messages survive a broker restart. The routing key
// defaults to the queue name.
func DialAMQP(cfg model.BrokerConfig) (*AMQP, error) {
	uri := amqp.URI{
		Scheme:   "amqp",
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		Vhost:    cfg.VHost,
	}

	conn, err := amqp.Dial(uri.String())
	if err != nil {
		return nil, fmt.Errorf("connect to %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %q: %w", cfg.Queue, err)
	}

	routingKey := cfg.RoutingKey
	if routingKey == "" {
		routingKey = cfg.Queue
	}

	return &AMQP{
		conn:       conn,
		ch:         ch,
		exchange:   cfg.Exchange,
		routingKey: routingKey,
	}, nil
}

// Publish implements Sink. Messages are marked persistent so the destination
// broker writes them to disk.
func (s *AMQP) Publish(ctx context.Context, body []byte, contentType model.ContentType) error {
	return s.ch.PublishWithContext(ctx, s.exchange, s.routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  string(contentType),
		Body:         body,
	})
}

// Close implements Sink
func (s *AMQP) Close() error {
	if s.ch != nil {
		_ = s.ch.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
