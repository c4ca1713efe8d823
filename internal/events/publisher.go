package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
)

// Sequencer reserves the next sequence number for a partition key.
type Sequencer interface {
	NextSequence(ctx context.Context, partitionKey string) (int64, error)
}

type PublisherOptions struct {
	Producer       string
	PublishTimeout time.Duration
}

type Publisher struct {
	ch       Channel
	seq      Sequencer
	producer string
	timeout  time.Duration
	logger   *zap.Logger
}

// Dial connects to RabbitMQ and opens the channel a Publisher writes to.
func Dial(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	return conn, ch, nil
}

func NewPublisher(ch Channel, seq Sequencer, logger *zap.Logger, opts PublisherOptions) (*Publisher, error) {
	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	producer := opts.Producer
	if producer == "" {
		producer = storefrontServiceName
	}
	timeout := opts.PublishTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Publisher{
		ch:       ch,
		seq:      seq,
		producer: producer,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

// PrepareOrderPlaced builds the OrderPlaced v1 envelope for a committed order and reserves its
// sequence number. Callers that need sequence order to follow order commits call it while the
// commit is still serialized. Correlation ids are taken from ctx (see WithMetadata).
func (p *Publisher) PrepareOrderPlaced(ctx context.Context, o order.Order) (OrderPlacedEnvelope, error) {
	var seqPtr *int64
	if p.seq != nil {
		seq, err := p.seq.NextSequence(ctx, CartPartitionKey)
		if err != nil {
			return OrderPlacedEnvelope{}, fmt.Errorf("reserve sequence: %w", err)
		}
		seqPtr = &seq
	}
	return newOrderPlacedEvent(MetadataFrom(ctx), seqPtr, p.producer, newOrderPlacedPayload(o), time.Now().UTC()), nil
}

// PublishOrderPlaced sends a prepared envelope.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, env OrderPlacedEnvelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal OrderPlaced envelope: %w", err)
	}

	if err := p.publishJSON(ctx, OrderPlacedRoutingKey, env.EventID, body); err != nil {
		return fmt.Errorf("publish OrderPlaced: %w", err)
	}

	p.logger.Info("published event",
		zap.String("event", EventTypeOrderPlaced),
		zap.String("event_id", env.EventID),
		zap.Int64("order_id", env.Payload.OrderID),
	)
	return nil
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey, messageID string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}
