package rabbitmq

import (
	"context"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/oakwellmc/rota-monitor/internal/config"
	"github.com/oakwellmc/rota-monitor/internal/core/ports/in"
	"github.com/oakwellmc/rota-monitor/internal/core/ports/out"
)

// CacheInvalidationListener consumes row-change events from the store and
// drops the affected cache entries. A slot change invalidates its month, an
// admin annotation change invalidates its date.
type CacheInvalidationListener struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	useCase in.RotaMonitorUseCase
	cfg     *config.Config
	logger  out.LoggerPort
}

type (
	ChangeType   string
	ResourceType string
)

const (
	ResourceTypeSlot        ResourceType = "slot"
	ResourceTypeAdminAction ResourceType = "adminaction"
)

const (
	ChangeTypeStore      ChangeType = "store"
	ChangeTypeInvalidate ChangeType = "invalidate"
)

type ChangeMessageRoutingKey struct {
	Source       string
	Receiver     string
	ResourceType ResourceType
	ChangeType   ChangeType
}

func NewCacheInvalidationListener(useCase in.RotaMonitorUseCase, cfg *config.Config, logger out.LoggerPort) (*CacheInvalidationListener, error) {
	if !cfg.RabbitMq.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMq.AmqpUri)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.RabbitMq.AmqpUri,
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &CacheInvalidationListener{
		conn:    conn,
		channel: channel,
		useCase: useCase,
		cfg:     cfg,
		logger:  logger.WithModule("CacheInvalidationListener"),
	}, nil
}

func (l *CacheInvalidationListener) Start(ctx context.Context) error {
	if err := l.startSlotQueue(ctx); err != nil {
		return err
	}
	l.logger.Info("slot.queue.started", out.LogFields{
		"queue": l.cfg.RabbitMq.QueueConfig.SlotQueueName,
	})

	if err := l.startAdminActionQueue(ctx); err != nil {
		return err
	}
	l.logger.Info("admin_action.queue.started", out.LogFields{
		"queue": l.cfg.RabbitMq.QueueConfig.AdminQueueName,
	})

	return nil
}

func (l *CacheInvalidationListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}

// Routing keys look like:
// rowstore.rota-monitor.slot.<row-id>.store
// rowstore.rota-monitor.adminaction.<row-id>.invalidate
func (l *CacheInvalidationListener) parseChangeMessageRoutingKey(msg amqp.Delivery) (ChangeMessageRoutingKey, error) {
	parts := strings.Split(msg.RoutingKey, ".")

	if len(parts) < 5 {
		return ChangeMessageRoutingKey{}, fmt.Errorf("invalid routing key: %s", msg.RoutingKey)
	}

	return ChangeMessageRoutingKey{
		Source:       parts[0],
		Receiver:     parts[1],
		ResourceType: ResourceType(parts[2]),
		ChangeType:   ChangeType(parts[4]),
	}, nil
}
