package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// HostProjection is the slice of a user profile the stream list needs.
// Cached so listing active streams does not fan out one user query per row.
type HostProjection struct {
	UserId      uuid.UUID
	Username    string
	DisplayName string
	AvatarURL   *string
}

type HostCache struct {
	cache *cache.Cache
}

func NewHostCache() *HostCache {
	// Profiles change rarely; a short TTL keeps renames visible without
	// hammering the users table.
	c := cache.New(2*time.Minute, 5*time.Minute)
	return &HostCache{
		cache: c,
	}
}

func (r *HostCache) Save(p *HostProjection) {
	r.cache.Set(p.UserId.String(), p, cache.DefaultExpiration)
}

func (r *HostCache) Get(userId uuid.UUID) (*HostProjection, bool) {
	if x, found := r.cache.Get(userId.String()); found {
		return x.(*HostProjection), true
	}
	return nil, false
}

func (r *HostCache) Invalidate(userId uuid.UUID) {
	r.cache.Delete(userId.String())
}
