package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TipsSentBy struct {
	UserID uuid.UUID
}

func (s TipsSentBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("sender_id = ?", s.UserID)
}

type TipsReceivedBy struct {
	UserID uuid.UUID
}

func (s TipsReceivedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("receiver_id = ?", s.UserID)
}

type TipsForPost struct {
	PostID uuid.UUID
}

func (s TipsForPost) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("post_id = ?", s.PostID)
}
