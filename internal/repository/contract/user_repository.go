package contract

import (
	"context"

	"rap-for-money-be/internal/entity"
	"rap-for-money-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	SearchUsers(ctx context.Context, query string, limit, offset int) ([]*entity.User, error)
}

type FollowRepository interface {
	Create(ctx context.Context, follow *entity.Follow) error
	Delete(ctx context.Context, followerId, followingId uuid.UUID) (bool, error)
	Exists(ctx context.Context, followerId, followingId uuid.UUID) (bool, error)
	CountFollowers(ctx context.Context, userId uuid.UUID) (int64, error)
	CountFollowing(ctx context.Context, userId uuid.UUID) (int64, error)
	FollowingIds(ctx context.Context, followerId uuid.UUID) ([]uuid.UUID, error)
}
