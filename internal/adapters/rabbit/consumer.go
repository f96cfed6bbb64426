package rabbit

import (
	"context"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Handler processes one delivery. A nil return acks the message; an error
// nacks it back onto the queue.
type Handler func(ctx context.Context, topic string, body []byte) error

// Consumer drains a set of durable queues and survives broker restarts by
// redialing with backoff.
type Consumer struct {
	url     string
	topics  []string
	handle  Handler
	log     zerolog.Logger
	backoff time.Duration
}

func NewConsumer(url string, topics []string, h Handler, log zerolog.Logger) *Consumer {
	return &Consumer{url: url, topics: topics, handle: h, log: log, backoff: 2 * time.Second}
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		if err := c.consumeOnce(ctx); err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Error().Err(err).Dur("backoff", c.backoff).Msg("consumer disconnected, retrying")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoff):
		}
	}
}

func (c *Consumer) consumeOnce(ctx context.Context) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.Qos(50, 0, false); err != nil {
		return err
	}

	type tagged struct {
		topic string
		d     amqp.Delivery
	}
	merged := make(chan tagged)

	for _, topic := range c.topics {
		if _, err := ch.QueueDeclare(topic, true, false, false, false, nil); err != nil {
			return err
		}
		deliveries, err := ch.Consume(topic, "", false, false, false, false, nil)
		if err != nil {
			return err
		}
		go func(topic string, in <-chan amqp.Delivery) {
			for d := range in {
				merged <- tagged{topic: topic, d: d}
			}
		}(topic, deliveries)
	}
	c.log.Info().Strs("topics", c.topics).Msg("consumer listening")

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-closed:
			if err != nil {
				return err
			}
			return errors.New("broker connection closed")
		case msg := <-merged:
			if err := c.handle(ctx, msg.topic, msg.d.Body); err != nil {
				c.log.Error().Err(err).Str("topic", msg.topic).Msg("message handling failed")
				_ = msg.d.Nack(false, true)
				continue
			}
			_ = msg.d.Ack(false)
		}
	}
}
