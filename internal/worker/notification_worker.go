package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/goldennest/internal/events"
	"github.com/spec-kit/goldennest/internal/service"
)

// StartNotificationWorker registers notification handlers and, when a sink is
// given, forwards every event to it.
func StartNotificationWorker(dispatcher events.Dispatcher, notificationService *service.NotificationService, sink *events.KafkaSink, logger *zap.Logger) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if sink != nil && dispatcher != nil {
		sink.Attach(dispatcher)
		if logger != nil {
			logger.Info("forwarding domain events to kafka")
		}
	}
}
