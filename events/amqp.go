package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/dining-area/utils"
)

// AMQPForwarder meneruskan event dari hub ke topic exchange RabbitMQ
type AMQPForwarder struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewAMQPForwarder(url, exchange string) (*AMQPForwarder, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &AMQPForwarder{conn: conn, ch: ch, exchange: exchange}, nil
}

// Run membaca subscriber channel sampai ctx selesai atau channel ditutup
func (f *AMQPForwarder) Run(ctx context.Context, sub <-chan Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub:
			if !ok {
				return
			}
			if err := f.publish(ctx, msg); err != nil {
				utils.ErrorLogger.WithFields(logrus.Fields{
					"event":    msg.Event,
					"exchange": f.exchange,
				}).Errorf("Failed to forward event: %v", err)
			}
		}
	}
}

func (f *AMQPForwarder) publish(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return f.ch.PublishWithContext(ctx, f.exchange, RoutingKey(msg.Event), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Type:         msg.Event,
		Body:         body,
	})
}

func (f *AMQPForwarder) Close() error {
	if err := f.ch.Close(); err != nil {
		f.conn.Close()
		return err
	}
	return f.conn.Close()
}

// RoutingKey: "table_create" -> "dining.table.create"
func RoutingKey(event string) string {
	return "dining." + strings.ReplaceAll(event, "_", ".")
}
