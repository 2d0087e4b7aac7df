package contract

import (
	"context"

	"rap-for-money-be/internal/entity"
	"rap-for-money-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Post, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Post, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Like management. AddLike/RemoveLike report whether the edge changed
	// so the counters stay honest under repeated requests.
	AddLike(ctx context.Context, postId, userId uuid.UUID) (bool, error)
	RemoveLike(ctx context.Context, postId, userId uuid.UUID) (bool, error)
	HasLiked(ctx context.Context, postId, userId uuid.UUID) (bool, error)
	AdjustLikeCount(ctx context.Context, postId uuid.UUID, delta int) error
	AdjustCommentCount(ctx context.Context, postId uuid.UUID, delta int) error
	UpdateTrendingScore(ctx context.Context, postId uuid.UUID, score float64) error

	// TrendingHashtags aggregates tag frequency over recent posts.
	TrendingHashtags(ctx context.Context, limit int) ([]HashtagCount, error)
}

type HashtagCount struct {
	Hashtag string  `json:"hashtag"`
	Count   int64   `json:"count"`
}

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Comment, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Comment, error)
}
