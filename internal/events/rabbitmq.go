package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"deal_poster/internal/domain"
)

// Emitter fans successfully posted deals out over AMQP for downstream
// consumers (stats, site feed). Emission is best effort: the pipeline
// logs failures and moves on.
type Emitter struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     *slog.Logger
}

type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
}

func NewEmitter(cfg Config, logger *slog.Logger) (*Emitter, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	err = ch.QueueBind(
		q.Name,
		cfg.RoutingKey,
		cfg.Exchange,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"routing_key", cfg.RoutingKey,
	)

	return &Emitter{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger,
	}, nil
}

type DealPostedMessage struct {
	Deal      domain.Deal `json:"deal"`
	PostID    string      `json:"post_id"`
	Timestamp time.Time   `json:"timestamp"`
}

func (e *Emitter) DealPosted(ctx context.Context, deal *domain.Deal, postID string) error {
	msg := DealPostedMessage{
		Deal:      *deal,
		PostID:    postID,
		Timestamp: time.Now().UTC(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = e.channel.PublishWithContext(
		ctx,
		e.exchange,
		e.routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	e.logger.Debug("emitted posted-deal event",
		"source_id", deal.SourceID,
		"post_id", postID,
	)

	return nil
}

func (e *Emitter) Close() error {
	if e.channel != nil {
		e.channel.Close()
	}
	if e.conn != nil {
		return e.conn.Close()
	}
	return nil
}
