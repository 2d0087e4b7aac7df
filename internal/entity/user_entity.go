package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleRapper   UserRole = "rapper"
	UserRoleProducer UserRole = "producer"
	UserRoleFan      UserRole = "fan"
)

type User struct {
	Id             uuid.UUID
	Username       string
	DisplayName    string
	Email          string
	PasswordHash   string
	Bio            *string
	Location       *string
	Roles          []string
	Genres         []string
	AvatarURL      *string
	BannerURL      *string
	FollowerCount  int
	FollowingCount int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Follow is one edge of the follow graph.
type Follow struct {
	Id          uuid.UUID
	FollowerId  uuid.UUID
	FollowingId uuid.UUID
	CreatedAt   time.Time
}
