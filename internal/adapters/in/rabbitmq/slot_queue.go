package rabbitmq

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/oakwellmc/rota-monitor/internal/core/ports/out"
	"github.com/oakwellmc/rota-monitor/internal/utils"
)

// SlotChangeMessage carries the changed slot row. Only the date matters for
// invalidation; the aggregates are re-derived from the store on the next read.
type SlotChangeMessage struct {
	ID   string `json:"id"`
	Date string `json:"date"`
}

func (l *CacheInvalidationListener) startSlotQueue(ctx context.Context) error {
	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMq.QueueConfig.SlotQueueName,
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
		l.cfg.RabbitMq.QueueConfig.SlotQueueBind,
		l.cfg.RabbitMq.QueueConfig.SlotQueueExchange,
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
				if err := l.processSlotMessage(ctx, msg); err != nil {
					msg.Nack(false, true) // requeue message
					continue
				}
				msg.Ack(false)
			}
		}
	}()

	return nil
}

func (l *CacheInvalidationListener) processSlotMessage(ctx context.Context, msg amqp.Delivery) error {
	routingKey, err := l.parseChangeMessageRoutingKey(msg)
	if err != nil {
		return err
	}

	if routingKey.ResourceType != ResourceTypeSlot {
		return nil
	}

	var change SlotChangeMessage
	if err := json.Unmarshal(msg.Body, &change); err != nil {
		return err
	}

	l.logger.Info("slot.message.received", out.LogFields{
		"id":   change.ID,
		"date": change.Date,
	})

	// Store and invalidate both mean the month fold is stale
	monthKey, ok := monthKeyOf(change.Date)
	if !ok {
		l.logger.Warn("slot.message.unparseable_date", out.LogFields{
			"id":   change.ID,
			"date": change.Date,
		})
		return l.useCase.InvalidateAllMonthsCache(ctx)
	}

	return l.useCase.InvalidateMonthCache(ctx, monthKey)
}

// monthKeyOf derives YYYY-MM from whichever date shape the message carries.
func monthKeyOf(raw string) (string, bool) {
	dateKey, ok := utils.NormalizeDateKey(raw, time.UTC)
	if !ok {
		return "", false
	}
	return dateKey[:7], true
}
