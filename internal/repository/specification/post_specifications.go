package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthoredBy struct {
	AuthorID uuid.UUID
}

func (s AuthoredBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("author_id = ?", s.AuthorID)
}

type AuthoredByAny struct {
	AuthorIDs []uuid.UUID
}

func (s AuthoredByAny) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("author_id IN ?", s.AuthorIDs)
}

// WithHashtag matches posts whose jsonb hashtag array contains the tag.
type WithHashtag struct {
	Hashtag string
}

func (s WithHashtag) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("hashtags @> ?", `["`+s.Hashtag+`"]`)
}

type CommentsForPost struct {
	PostID uuid.UUID
}

func (s CommentsForPost) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("post_id = ?", s.PostID)
}
