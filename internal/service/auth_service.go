package service

import (
	"context"
	"time"

	"rap-for-money-be/internal/dto"
	"rap-for-money-be/internal/entity"
	"rap-for-money-be/internal/pkg/logger"
	"rap-for-money-be/internal/pkg/mailer"
	"rap-for-money-be/internal/pkg/serverutils"
	"rap-for-money-be/internal/repository/specification"
	"rap-for-money-be/internal/repository/unitofwork"
	"rap-for-money-be/pkg/events"
	pktNats "rap-for-money-be/pkg/nats"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func userToResponse(user *entity.User) dto.UserResponse {
	return dto.UserResponse{
		Id:             user.Id,
		Username:       user.Username,
		DisplayName:    user.DisplayName,
		Email:          user.Email,
		Bio:            user.Bio,
		Location:       user.Location,
		Roles:          user.Roles,
		Genres:         user.Genres,
		AvatarURL:      user.AvatarURL,
		BannerURL:      user.BannerURL,
		FollowerCount:  int64(user.FollowerCount),
		FollowingCount: int64(user.FollowingCount),
		CreatedAt:      user.CreatedAt,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, serverutils.NewConflictError("Email already registered")
	}

	existing, err = uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: req.Username})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, serverutils.NewConflictError("Username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Id:           uuid.New(),
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Roles:        req.Roles,
		Genres:       req.Genres,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := serverutils.GenerateToken(user.Id)
	if err != nil {
		return nil, err
	}

	// Best effort side effects; registration itself already committed.
	if s.emailService != nil {
		if err := s.emailService.SendWelcome(user.Email, user.DisplayName); err != nil {
			s.logger.Warn("auth", "Failed to send welcome email", map[string]interface{}{
				"user_id": user.Id.String(),
				"error":   err.Error(),
			})
		}
	}
	if s.eventPublisher != nil {
		evt := events.New(events.TypeUserRegistered, map[string]interface{}{
			"user_id":  user.Id.String(),
			"username": user.Username,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("auth", "Failed to publish registration event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return &dto.AuthResponse{
		Token: token,
		User:  userToResponse(user),
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, serverutils.NewUnauthorizedError("Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, serverutils.NewUnauthorizedError("Invalid email or password")
	}

	token, err := serverutils.GenerateToken(user.Id)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: token,
		User:  userToResponse(user),
	}, nil
}
