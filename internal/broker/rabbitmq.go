package broker

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQ fans every message out to all connected instances. Each instance
// consumes from its own exclusive queue bound to the exchange.
type RabbitMQ struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	queue    string
	exchange string
}

// NewRabbitMQ connects and declares the fanout exchange and this instance's queue.
func NewRabbitMQ(url, exchange string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(
		exchange,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	q, err := ch.QueueDeclare(
		"",
		false,
		true,
		true,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	if err := ch.QueueBind(
		q.Name,
		"",
		exchange,
		false,
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &RabbitMQ{
		conn:     conn,
		channel:  ch,
		queue:    q.Name,
		exchange: exchange,
	}, nil
}

// Publish sends message with topic as routing key; the fanout exchange
// ignores it, consumers filter on the payload.
func (r *RabbitMQ) Publish(topic string, message []byte) error {
	return r.channel.Publish(
		r.exchange,
		topic,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        message,
		},
	)
}

func (r *RabbitMQ) Consume(ctx context.Context, _ string) (<-chan []byte, error) {
	msgs, err := r.channel.Consume(
		r.queue,
		"",
		true,
		true,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}

	out := make(chan []byte, 64)

	go func() {
		defer close(out)

		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- msg.Body:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (r *RabbitMQ) Close() error {
	if err := r.channel.Close(); err != nil {
		_ = r.conn.Close()
		return err
	}
	return r.conn.Close()
}
