package rabbitmq

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/oakwellmc/rota-monitor/internal/core/ports/out"
	"github.com/oakwellmc/rota-monitor/internal/utils"
)

type AdminActionChangeMessage struct {
	ID   string `json:"id"`
	Date string `json:"appointment_date"`
}

func (l *CacheInvalidationListener) startAdminActionQueue(ctx context.Context) error {
	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMq.QueueConfig.AdminQueueName,
		true,  // durable
		true,  // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}
	err = l.channel.QueueBind(
		queue.Name,
		l.cfg.RabbitMq.QueueConfig.AdminQueueBind,
		l.cfg.RabbitMq.QueueConfig.AdminQueueExchange,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				if err := l.processAdminActionMessage(ctx, msg); err != nil {
					msg.Nack(false, true) // requeue message
					continue
				}
				msg.Ack(false)
			}
		}
	}()

	return nil
}

func (l *CacheInvalidationListener) processAdminActionMessage(ctx context.Context, msg amqp.Delivery) error {
	routingKey, err := l.parseChangeMessageRoutingKey(msg)
	if err != nil {
		return err
	}

	if routingKey.ResourceType != ResourceTypeAdminAction {
		return nil
	}

	var change AdminActionChangeMessage
	if err := json.Unmarshal(msg.Body, &change); err != nil {
		return err
	}

	l.logger.Info("admin_action.message.received", out.LogFields{
		"id":   change.ID,
		"date": change.Date,
	})

	dateKey, ok := utils.NormalizeDateKey(change.Date, time.UTC)
	if !ok {
		l.logger.Warn("admin_action.message.unparseable_date", out.LogFields{
			"id":   change.ID,
			"date": change.Date,
		})
		return nil
	}

	return l.useCase.InvalidateAdminActionCache(ctx, dateKey)
}
