package contract

import (
	"context"

	"rap-for-money-be/internal/entity"
	"rap-for-money-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TipRepository interface {
	Create(ctx context.Context, tip *entity.Tip) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Tip, error)

	// SumForPost returns the total amount tipped on a post.
	SumForPost(ctx context.Context, postId uuid.UUID) (float64, error)

	// TopEarners aggregates received amounts per user.
	TopEarners(ctx context.Context, limit int) ([]EarnerTotal, error)
}

type EarnerTotal struct {
	UserId uuid.UUID `json:"user_id"`
	Total  float64   `json:"total"`
}
