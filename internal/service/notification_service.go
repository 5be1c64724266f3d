package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/goldennest/internal/config"
	"github.com/spec-kit/goldennest/internal/events"
)

// NotificationService turns domain events into owner and buyer notifications.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventPropertySubmitted, n.handlePropertySubmitted)
	n.dispatcher.Subscribe(events.EventPropertyStatusChanged, n.handlePropertyStatusChanged)
	n.dispatcher.Subscribe(events.EventInquiryCreated, n.handleInquiryCreated)
	n.dispatcher.Subscribe(events.EventVisitRequested, n.handleVisitRequested)
	n.dispatcher.Subscribe(events.EventVisitStatusChanged, n.handleVisitStatusChanged)
}

func (n *NotificationService) handlePropertySubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("PropertySubmitted", zap.String("property_id", event.PropertyID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePropertyStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("PropertyStatusChanged", zap.String("property_id", event.PropertyID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleInquiryCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("InquiryCreated", zap.String("property_id", event.PropertyID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleVisitRequested(ctx context.Context, event events.Event) error {
	n.logger.Info("VisitRequested", zap.String("property_id", event.PropertyID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleVisitStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("VisitStatusChanged", zap.String("property_id", event.PropertyID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("property_id", event.PropertyID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("property_id", event.PropertyID),
		zap.String("event_type", string(event.Type)))
}
