package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const viewerSetTTL = 5 * time.Minute

// Tracker keeps a per-room set of viewer ids in Redis. Viewers are added
// when they poll for signals; the set is dropped when the stream ends.
// Counts can overshoot briefly for viewers who stop polling, which is
// acceptable for a "watching now" badge.
type Tracker struct {
	rdb *redis.Client
}

func NewTracker(rdb *redis.Client) *Tracker {
	return &Tracker{rdb: rdb}
}

func (t *Tracker) key(roomId string) string {
	return fmt.Sprintf("stream:%s:viewers", roomId)
}

// Touch records that userId is currently watching roomId.
func (t *Tracker) Touch(ctx context.Context, roomId, userId string) error {
	if t.rdb == nil {
		return nil
	}
	key := t.key(roomId)
	pipe := t.rdb.Pipeline()
	pipe.SAdd(ctx, key, userId)
	pipe.Expire(ctx, key, viewerSetTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// Count returns the number of distinct viewers seen for roomId.
func (t *Tracker) Count(ctx context.Context, roomId string) int64 {
	if t.rdb == nil {
		return 0
	}
	n, err := t.rdb.SCard(ctx, t.key(roomId)).Result()
	if err != nil {
		return 0
	}
	return n
}

// Clear drops the viewer set for roomId. Idempotent.
func (t *Tracker) Clear(ctx context.Context, roomId string) error {
	if t.rdb == nil {
		return nil
	}
	return t.rdb.Del(ctx, t.key(roomId)).Err()
}
