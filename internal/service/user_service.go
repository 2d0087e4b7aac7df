package service

import (
	"context"
	"time"

	"rap-for-money-be/internal/dto"
	"rap-for-money-be/internal/entity"
	"rap-for-money-be/internal/pkg/logger"
	"rap-for-money-be/internal/pkg/serverutils"
	"rap-for-money-be/internal/repository/memory"
	"rap-for-money-be/internal/repository/specification"
	"rap-for-money-be/internal/repository/unitofwork"
	"rap-for-money-be/pkg/events"
	pktNats "rap-for-money-be/pkg/nats"

	"github.com/google/uuid"
)

type IUserService interface {
	GetById(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error)
	GetProfile(ctx context.Context, callerId uuid.UUID, username string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	UpdateAvatar(ctx context.Context, userId uuid.UUID, avatarURL string) error
	Follow(ctx context.Context, followerId, followingId uuid.UUID) (*dto.FollowResponse, error)
	Unfollow(ctx context.Context, followerId, followingId uuid.UUID) (*dto.FollowResponse, error)
	Search(ctx context.Context, req *dto.SearchUsersRequest) ([]*dto.UserResponse, error)
}

type userService struct {
	uowFactory     unitofwork.RepositoryFactory
	hostCache      *memory.HostCache
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewUserService(
	uowFactory unitofwork.RepositoryFactory,
	hostCache *memory.HostCache,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IUserService {
	return &userService{
		uowFactory:     uowFactory,
		hostCache:      hostCache,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *userService) GetById(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, serverutils.NewNotFoundError("User not found")
	}

	res := userToResponse(user)
	res.FollowerCount, err = uow.FollowRepository().CountFollowers(ctx, user.Id)
	if err != nil {
		return nil, err
	}
	res.FollowingCount, err = uow.FollowRepository().CountFollowing(ctx, user.Id)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *userService) GetProfile(ctx context.Context, callerId uuid.UUID, username string) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: username})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, serverutils.NewNotFoundError("User not found")
	}

	res := userToResponse(user)
	if callerId != user.Id {
		// Viewing someone else's profile hides the email.
		res.Email = ""
	}

	// Counts come from the follow graph, not the denormalized columns, so a
	// profile view is never stale.
	res.FollowerCount, err = uow.FollowRepository().CountFollowers(ctx, user.Id)
	if err != nil {
		return nil, err
	}
	res.FollowingCount, err = uow.FollowRepository().CountFollowing(ctx, user.Id)
	if err != nil {
		return nil, err
	}
	if callerId != uuid.Nil && callerId != user.Id {
		following, err := uow.FollowRepository().Exists(ctx, callerId, user.Id)
		if err != nil {
			return nil, err
		}
		res.IsFollowing = following
	}
	return &res, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, serverutils.NewNotFoundError("User not found")
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.Location != nil {
		user.Location = req.Location
	}
	if req.Genres != nil {
		user.Genres = req.Genres
	}
	user.UpdatedAt = time.Now()

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}
	s.hostCache.Invalidate(userId)

	res := userToResponse(user)
	return &res, nil
}

func (s *userService) UpdateAvatar(ctx context.Context, userId uuid.UUID, avatarURL string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return serverutils.NewNotFoundError("User not found")
	}

	user.AvatarURL = &avatarURL
	user.UpdatedAt = time.Now()
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return err
	}
	s.hostCache.Invalidate(userId)
	return nil
}

func (s *userService) Follow(ctx context.Context, followerId, followingId uuid.UUID) (*dto.FollowResponse, error) {
	if followerId == followingId {
		return nil, serverutils.NewValidationError("Cannot follow yourself")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	target, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: followingId})
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, serverutils.NewNotFoundError("User not found")
	}

	exists, err := uow.FollowRepository().Exists(ctx, followerId, followingId)
	if err != nil {
		return nil, err
	}
	if !exists {
		follow := &entity.Follow{
			Id:          uuid.New(),
			FollowerId:  followerId,
			FollowingId: followingId,
			CreatedAt:   time.Now(),
		}
		if err := uow.FollowRepository().Create(ctx, follow); err != nil {
			return nil, err
		}

		if s.eventPublisher != nil {
			evt := events.New(events.TypeUserFollowed, map[string]interface{}{
				"follower_id":  followerId.String(),
				"following_id": followingId.String(),
			})
			if err := s.eventPublisher.Publish(ctx, evt); err != nil {
				s.logger.Warn("user", "Failed to publish follow event", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}

	count, err := uow.FollowRepository().CountFollowers(ctx, followingId)
	if err != nil {
		return nil, err
	}
	return &dto.FollowResponse{Following: true, FollowerCount: count}, nil
}

func (s *userService) Unfollow(ctx context.Context, followerId, followingId uuid.UUID) (*dto.FollowResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Removing a non-existent edge is a no-op, not an error.
	if _, err := uow.FollowRepository().Delete(ctx, followerId, followingId); err != nil {
		return nil, err
	}

	count, err := uow.FollowRepository().CountFollowers(ctx, followingId)
	if err != nil {
		return nil, err
	}
	return &dto.FollowResponse{Following: false, FollowerCount: count}, nil
}

func (s *userService) Search(ctx context.Context, req *dto.SearchUsersRequest) ([]*dto.UserResponse, error) {
	limit := req.Limit
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	page := req.Page
	if page < 1 {
		page = 1
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := uow.UserRepository().SearchUsers(ctx, req.Query, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.UserResponse, 0, len(users))
	for _, user := range users {
		res := userToResponse(user)
		res.Email = ""
		result = append(result, &res)
	}
	return result, nil
}
