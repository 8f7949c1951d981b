// Package notify публикует события решений по заявкам в RabbitMQ.
// Очередь читает внешний воркер рассылки писем; сервис только публикует.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/streadway/amqp"

	services "github.com/adityarana14/makris-portfolio/internal/services/premium"
)

const (
	exchangeName = "notifications"
	queueName    = "notification.review"
	routingKey   = "review"
)

// Publisher публикует события в обменник уведомлений.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Connect подключается к RabbitMQ с повторными попытками и объявляет
// обменник и очередь уведомлений.
func Connect(connection string, retries int, delay time.Duration) (*Publisher, error) {
	const op = "notify.Connect"

	var conn *amqp.Connection
	var err error
	for i := 0; i < retries; i++ {
		conn, err = amqp.Dial(connection)
		if err == nil {
			break
		}
		time.Sleep(delay)
	}
	if conn == nil {
		if err == nil {
			err = errors.New("no connection attempts made")
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = ch.ExchangeDeclare(exchangeName, "direct", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err = ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = ch.QueueBind(queueName, routingKey, exchangeName, false, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Publisher{conn: conn, ch: ch}, nil
}

// PublishReview публикует событие решения по заявке.
func (p *Publisher) PublishReview(_ context.Context, event services.ReviewEvent) error {
	const op = "notify.PublishReview"

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	err = p.ch.Publish(
		exchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает канал и соединение с RabbitMQ.
func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		return err
	}
	return p.conn.Close()
}
