package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePostRequest struct {
	Caption   string `json:"caption" validate:"max=2000"`
	MediaType string `json:"media_type" validate:"required,oneof=image video"`
	MediaURL  string `json:"media_url" validate:"required"`
}

type AuthorSummary struct {
	Id          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
}

type PostResponse struct {
	Id           uuid.UUID     `json:"id"`
	Author       AuthorSummary `json:"author"`
	Caption      string        `json:"caption"`
	MediaType    string        `json:"media_type"`
	MediaURL     string        `json:"media_url"`
	ThumbnailURL *string       `json:"thumbnail_url,omitempty"`
	Hashtags     []string      `json:"hashtags"`
	LikeCount    int64         `json:"like_count"`
	CommentCount int64         `json:"comment_count"`
	HasLiked     bool          `json:"has_liked"`
	TipTotal     float64       `json:"tip_total"`
	CreatedAt    time.Time     `json:"created_at"`
}

type FeedRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

type LikeResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

type HashtagResponse struct {
	Hashtag string `json:"hashtag"`
	Count   int64  `json:"count"`
}

// TrendingRecomputeMessage is the payload queued on the in-process bus
// whenever a post's engagement changes.
type TrendingRecomputeMessage struct {
	PostId uuid.UUID `json:"post_id"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

type CommentResponse struct {
	Id        uuid.UUID     `json:"id"`
	PostId    uuid.UUID     `json:"post_id"`
	Author    AuthorSummary `json:"author"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
}
