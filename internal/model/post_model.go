package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Post struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AuthorId      uuid.UUID `gorm:"type:uuid;not null;index:idx_posts_author_created,priority:1"`
	Caption       string    `gorm:"type:varchar(2000)"`
	MediaType     string    `gorm:"type:varchar(10);not null"`
	MediaURL      string    `gorm:"type:text;not null"`
	ThumbnailURL  *string   `gorm:"type:text"`
	Hashtags      datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	LikeCount     int       `gorm:"default:0"`
	CommentCount  int       `gorm:"default:0"`
	TrendingScore float64   `gorm:"default:0;index:idx_posts_trending,sort:desc"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index:idx_posts_author_created,priority:2,sort:desc;index:idx_posts_created,sort:desc"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (Post) TableName() string {
	return "posts"
}

type PostLike struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PostId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_likes_edge,priority:1"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_likes_edge,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (PostLike) TableName() string {
	return "post_likes"
}

type Comment struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PostId    uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_post_created,priority:1"`
	AuthorId  uuid.UUID `gorm:"type:uuid;not null;index"`
	Text      string    `gorm:"type:varchar(1000);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_comments_post_created,priority:2,sort:desc"`
}

func (Comment) TableName() string {
	return "comments"
}
