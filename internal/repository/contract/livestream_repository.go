package contract

import (
	"context"
	"time"

	"rap-for-money-be/internal/entity"
	"rap-for-money-be/internal/repository/specification"

	"github.com/google/uuid"
)

type LivestreamRepository interface {
	Create(ctx context.Context, stream *entity.LiveStream) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LiveStream, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LiveStream, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// RoomIdExists checks against ALL streams, active or ended, so a room
	// token is never reused across sessions.
	RoomIdExists(ctx context.Context, roomId string) (bool, error)

	// End flips is_active to false and stamps ended_at, but only when the
	// stream is still active. Returns whether this call performed the
	// transition; a false result with no error means someone else already
	// ended it, which callers treat as success.
	End(ctx context.Context, id uuid.UUID, endedAt time.Time) (bool, error)
}
