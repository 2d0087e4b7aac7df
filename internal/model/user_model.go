package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	DisplayName  string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Bio          *string   `gorm:"type:varchar(500)"`
	Location     *string   `gorm:"type:varchar(100)"`
	Roles        datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Genres       datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	AvatarURL    *string   `gorm:"type:text"`
	BannerURL    *string   `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

type Follow struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FollowerId  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follows_edge,priority:1;index"`
	FollowingId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follows_edge,priority:2;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Follow) TableName() string {
	return "follows"
}
