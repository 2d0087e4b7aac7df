package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

type ByUsername struct {
	Username string
}

func (s ByUsername) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ?", s.Username)
}

// UsernameOrDisplayNameLike is the search-bar match.
type UsernameOrDisplayNameLike struct {
	Query string
}

func (s UsernameOrDisplayNameLike) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("username ILIKE ? OR display_name ILIKE ?", pattern, pattern)
}

type FollowerOf struct {
	UserID uuid.UUID
}

func (s FollowerOf) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("following_id = ?", s.UserID)
}

type FollowingOf struct {
	UserID uuid.UUID
}

func (s FollowingOf) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("follower_id = ?", s.UserID)
}
