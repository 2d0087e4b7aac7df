package service

import (
	"context"
	"encoding/json"
	"time"

	"rap-for-money-be/internal/dto"
	"rap-for-money-be/internal/entity"
	"rap-for-money-be/internal/pkg/logger"
	"rap-for-money-be/internal/pkg/serverutils"
	"rap-for-money-be/internal/repository/specification"
	"rap-for-money-be/internal/repository/unitofwork"
	"rap-for-money-be/pkg/events"
	pktNats "rap-for-money-be/pkg/nats"

	"github.com/google/uuid"
)

type ITipService interface {
	Create(ctx context.Context, senderId uuid.UUID, req *dto.CreateTipRequest) (*dto.TipResponse, error)
	Received(ctx context.Context, userId uuid.UUID, page, limit int) ([]*dto.TipResponse, error)
	Sent(ctx context.Context, userId uuid.UUID, page, limit int) ([]*dto.TipResponse, error)
	ForPost(ctx context.Context, postId uuid.UUID, page, limit int) ([]*dto.TipResponse, error)
	Leaderboard(ctx context.Context, limit int) ([]*dto.LeaderboardEntry, error)
}

type tipService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewTipService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ITipService {
	return &tipService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (s *tipService) Create(ctx context.Context, senderId uuid.UUID, req *dto.CreateTipRequest) (*dto.TipResponse, error) {
	if senderId == req.ReceiverId {
		return nil, serverutils.NewValidationError("Cannot tip yourself")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	receiver, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.ReceiverId})
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, serverutils.NewNotFoundError("Receiver not found")
	}

	if req.PostId != nil {
		post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: *req.PostId})
		if err != nil {
			return nil, err
		}
		if post == nil {
			return nil, serverutils.NewNotFoundError("Post not found")
		}
		if post.AuthorId != req.ReceiverId {
			return nil, serverutils.NewValidationError("Post does not belong to the receiver")
		}
	}

	tip := &entity.Tip{
		Id:         uuid.New(),
		SenderId:   senderId,
		ReceiverId: req.ReceiverId,
		PostId:     req.PostId,
		Amount:     req.Amount,
		Message:    req.Message,
		CreatedAt:  time.Now(),
	}
	if err := uow.TipRepository().Create(ctx, tip); err != nil {
		return nil, err
	}

	if req.PostId != nil && s.publisherService != nil {
		if payload, err := json.Marshal(dto.TrendingRecomputeMessage{PostId: *req.PostId}); err == nil {
			if err := s.publisherService.Publish(ctx, payload); err != nil {
				s.logger.Warn("tip", "Failed to queue trending recompute", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}

	if s.eventPublisher != nil {
		evt := events.New(events.TypeTipCreated, map[string]interface{}{
			"tip_id":      tip.Id.String(),
			"sender_id":   senderId.String(),
			"receiver_id": req.ReceiverId.String(),
			"amount":      req.Amount,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("tip", "Failed to publish tip event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return tipToResponse(tip), nil
}

func (s *tipService) Received(ctx context.Context, userId uuid.UUID, page, limit int) ([]*dto.TipResponse, error) {
	return s.list(ctx, specification.TipsReceivedBy{UserID: userId}, page, limit)
}

func (s *tipService) Sent(ctx context.Context, userId uuid.UUID, page, limit int) ([]*dto.TipResponse, error) {
	return s.list(ctx, specification.TipsSentBy{UserID: userId}, page, limit)
}

func (s *tipService) ForPost(ctx context.Context, postId uuid.UUID, page, limit int) ([]*dto.TipResponse, error) {
	return s.list(ctx, specification.TipsForPost{PostID: postId}, page, limit)
}

func (s *tipService) list(ctx context.Context, filter specification.Specification, page, limit int) ([]*dto.TipResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	tips, err := uow.TipRepository().FindAll(ctx,
		filter,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.TipResponse, 0, len(tips))
	for _, tip := range tips {
		result = append(result, tipToResponse(tip))
	}
	return result, nil
}

func (s *tipService) Leaderboard(ctx context.Context, limit int) ([]*dto.LeaderboardEntry, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	totals, err := uow.TipRepository().TopEarners(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(totals) == 0 {
		return []*dto.LeaderboardEntry{}, nil
	}

	ids := make([]uuid.UUID, 0, len(totals))
	for _, row := range totals {
		ids = append(ids, row.UserId)
	}
	users, err := uow.UserRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	userById := make(map[uuid.UUID]*entity.User, len(users))
	for _, user := range users {
		userById[user.Id] = user
	}

	result := make([]*dto.LeaderboardEntry, 0, len(totals))
	for _, row := range totals {
		entry := &dto.LeaderboardEntry{Total: row.Total}
		if user, ok := userById[row.UserId]; ok {
			entry.User = dto.AuthorSummary{
				Id:          user.Id,
				Username:    user.Username,
				DisplayName: user.DisplayName,
				AvatarURL:   user.AvatarURL,
			}
		}
		result = append(result, entry)
	}
	return result, nil
}

func tipToResponse(tip *entity.Tip) *dto.TipResponse {
	return &dto.TipResponse{
		Id:         tip.Id,
		SenderId:   tip.SenderId,
		ReceiverId: tip.ReceiverId,
		PostId:     tip.PostId,
		Amount:     tip.Amount,
		Message:    tip.Message,
		CreatedAt:  tip.CreatedAt,
	}
}
