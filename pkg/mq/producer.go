package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/constants"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/rabbitmq/amqp091-go"
)

type Producer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func URL(addr, username, password string) string {
	return fmt.Sprintf("amqp://%s:%s@%s/", username, password, addr)
}

func NewProducer(rabbitmqURL string) (*Producer, error) {
	conn, err := amqp091.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	producer := &Producer{
		conn:    conn,
		channel: ch,
	}

	if err := setupTopology(ch); err != nil {
		producer.Close()
		return nil, fmt.Errorf("failed to setup topology: %w", err)
	}

	return producer, nil
}

// setupTopology 声明级联交换机和队列，生产者和消费者都会调用
func setupTopology(ch *amqp091.Channel) error {
	err := ch.ExchangeDeclare(
		constants.CascadeEventExchange,
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare cascade event exchange: %w", err)
	}

	_, err = ch.QueueDeclare(
		constants.CascadeEventQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare cascade event queue: %w", err)
	}

	err = ch.QueueBind(
		constants.CascadeEventQueue,
		"",
		constants.CascadeEventExchange,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to bind cascade event queue: %w", err)
	}
	return nil
}

func publish(ctx context.Context, ch *amqp091.Channel, event *CascadeEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal cascade event: %w", err)
	}

	err = ch.PublishWithContext(
		ctx,
		constants.CascadeEventExchange,
		"",
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			MessageId:    event.EventID,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish cascade event: %w", err)
	}
	return nil
}

func (p *Producer) PublishCascadeEvent(ctx context.Context, event *CascadeEvent) error {
	if err := publish(ctx, p.channel, event); err != nil {
		return err
	}
	hlog.CtxInfof(ctx, "Published cascade event: %+v", event)
	return nil
}

func (p *Producer) DeferCascade(ctx context.Context, kind model.EntityKind, id int64) error {
	return p.PublishCascadeEvent(ctx, NewCascadeEvent(kind, id))
}

func (p *Producer) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
