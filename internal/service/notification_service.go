package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"rap-for-money-be/internal/model"
	"rap-for-money-be/internal/pkg/logger"
	"rap-for-money-be/internal/repository"
	"rap-for-money-be/pkg/events"
	pktNats "rap-for-money-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery pushes real-time updates to connected clients.
// Implemented by the WebSocket hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
}

type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("notification", "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("notification", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	config, err := s.repo.GetNotificationTypeByCode(ctx, typeCode)
	if err != nil {
		// No registry entry means this event type does not notify anyone.
		s.logger.Debug("notification", fmt.Sprintf("No notification type for code '%s'", typeCode), nil)
		return nil
	}
	if !config.IsActive {
		return nil
	}

	notif, ok := s.buildNotification(ctx, typeCode, config, event.Payload())
	if !ok {
		return nil
	}

	if err := s.repo.CreateNotification(ctx, notif); err != nil {
		s.logger.Error("notification", "Failed to persist notification", map[string]interface{}{
			"type":  typeCode,
			"error": err.Error(),
		})
		return err
	}

	if s.delivery != nil {
		s.delivery.Send(notif.UserID, *notif)
	}
	return nil
}

func parseUUID(payload map[string]interface{}, key string) (uuid.UUID, bool) {
	raw, _ := payload[key].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// buildNotification resolves the target user and message for each event
// type. Events without a notifiable target (e.g. a stream ending by itself)
// return ok=false.
func (s *NotificationService) buildNotification(ctx context.Context, typeCode string, config *model.NotificationType, payload map[string]interface{}) (*model.Notification, bool) {
	var target uuid.UUID
	var actor *uuid.UUID
	var entityType string
	var entityID *uuid.UUID
	message := config.Template

	switch typeCode {
	case events.TypeUserFollowed:
		targetId, ok := parseUUID(payload, "following_id")
		if !ok {
			return nil, false
		}
		target = targetId
		if actorId, ok := parseUUID(payload, "follower_id"); ok {
			actor = &actorId
		}
		entityType = "user"

	case events.TypePostLiked:
		targetId, ok := parseUUID(payload, "author_id")
		if !ok {
			return nil, false
		}
		target = targetId
		if actorId, ok := parseUUID(payload, "liker_id"); ok {
			actor = &actorId
		}
		if postId, ok := parseUUID(payload, "post_id"); ok {
			entityID = &postId
		}
		entityType = "post"

	case events.TypePostCommented:
		targetId, ok := parseUUID(payload, "author_id")
		if !ok {
			return nil, false
		}
		target = targetId
		if actorId, ok := parseUUID(payload, "commenter_id"); ok {
			actor = &actorId
		}
		if postId, ok := parseUUID(payload, "post_id"); ok {
			entityID = &postId
		}
		entityType = "post"

	case events.TypeTipCreated:
		targetId, ok := parseUUID(payload, "receiver_id")
		if !ok {
			return nil, false
		}
		target = targetId
		if actorId, ok := parseUUID(payload, "sender_id"); ok {
			actor = &actorId
		}
		if amount, ok := payload["amount"].(float64); ok {
			message = fmt.Sprintf("%s ($%.2f)", config.Template, amount)
		}
		entityType = "tip"

	default:
		// stream.started / stream.ended / user.registered carry no inbox
		// target; they exist for other consumers.
		return nil, false
	}

	metaJSON, err := json.Marshal(payload)
	if err != nil {
		metaJSON = []byte("{}")
	}

	return &model.Notification{
		ID:         uuid.New(),
		UserID:     target,
		ActorID:    actor,
		TypeCode:   typeCode,
		EntityType: entityType,
		EntityID:   entityID,
		Title:      config.DisplayName,
		Message:    message,
		Metadata:   datatypes.JSON(metaJSON),
		IsRead:     false,
		CreatedAt:  time.Now(),
	}, true
}

// Inbox API used by the notification handler.

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.GetNotificationsByUserID(ctx, userID, limit, offset)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
