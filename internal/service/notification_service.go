package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Prateekyadav17/ElectricHelp/internal/events"
)

// NotificationService reacts to complaint events. Delivery here is
// best-effort logging; the portal makes no notification guarantees.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventComplaintCreated, n.handleComplaintCreated)
	n.dispatcher.Subscribe(events.EventComplaintAssigned, n.handleComplaintAssigned)
	n.dispatcher.Subscribe(events.EventComplaintStatusChanged, n.handleComplaintStatusChanged)
}

func (n *NotificationService) handleComplaintCreated(_ context.Context, event events.Event) error {
	n.logger.Info("ComplaintCreated",
		zap.String("complaint_id", event.ComplaintID),
		zap.String("actor_id", event.Actor.ID),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleComplaintAssigned(_ context.Context, event events.Event) error {
	n.logger.Info("ComplaintAssigned",
		zap.String("complaint_id", event.ComplaintID),
		zap.String("actor_id", event.Actor.ID),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleComplaintStatusChanged(_ context.Context, event events.Event) error {
	n.logger.Info("ComplaintStatusChanged",
		zap.String("complaint_id", event.ComplaintID),
		zap.String("actor_id", event.Actor.ID),
		zap.Any("payload", event.Payload))
	return nil
}
