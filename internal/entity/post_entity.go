package entity

import (
	"time"

	"github.com/google/uuid"
)

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

type Post struct {
	Id            uuid.UUID
	AuthorId      uuid.UUID
	Caption       string
	MediaType     MediaType
	MediaURL      string
	ThumbnailURL  *string
	Hashtags      []string
	LikeCount     int
	CommentCount  int
	TrendingScore float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PostLike is one like edge; (post_id, user_id) is unique.
type PostLike struct {
	Id        uuid.UUID
	PostId    uuid.UUID
	UserId    uuid.UUID
	CreatedAt time.Time
}

type Comment struct {
	Id        uuid.UUID
	PostId    uuid.UUID
	AuthorId  uuid.UUID
	Text      string
	CreatedAt time.Time
}
