package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"VidTube.com/pkg/constants"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/rabbitmq/amqp091-go"
)

type Consumer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func NewConsumer(rabbitmqURL string) (*Consumer, error) {
	conn, err := amqp091.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// 设置QoS，限制未确认消息数量
	err = ch.Qos(
		10,    // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}
	if err = setupTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to setup topology: %w", err)
	}

	return &Consumer{
		conn:    conn,
		channel: ch,
	}, nil
}

// ConsumeCascadeEvents 阻塞直到 ctx 取消或连接关闭
func (c *Consumer) ConsumeCascadeEvents(ctx context.Context, handler CascadeEventHandler) error {
	msgs, err := c.channel.Consume(
		constants.CascadeEventQueue,
		"",    // consumer
		false, // auto-ack (设置为false，手动确认)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			hlog.Info("Cascade event consumer context cancelled")
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				hlog.Info("Cascade event consumer channel closed")
				return nil
			}
			c.handle(ctx, d, handler)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp091.Delivery, handler CascadeEventHandler) {
	var event CascadeEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		hlog.Errorf("Failed to unmarshal cascade event: %v", err)
		d.Nack(false, false) // 拒绝消息，不重新入队
		return
	}

	if err := handler.HandleCascadeEvent(ctx, &event); err != nil {
		event.Attempt++
		if event.Attempt >= MaxCascadeAttempts {
			hlog.CtxErrorf(ctx, "Dropping cascade event %s after %d attempts: %v", event.EventID, event.Attempt, err)
			d.Nack(false, false)
			return
		}
		hlog.CtxWarnf(ctx, "Failed to handle cascade event %s (attempt %d): %v", event.EventID, event.Attempt, err)
		// 带上重试次数重新投递，失败则原消息重新入队
		if perr := publish(ctx, c.channel, &event); perr != nil {
			d.Nack(false, true)
			return
		}
		d.Ack(false)
		return
	}

	d.Ack(false) // 确认消息
	hlog.CtxInfof(ctx, "Successfully processed cascade event: %+v", event)
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
