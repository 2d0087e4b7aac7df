package mapper

import (
	"rap-for-money-be/internal/entity"
	"rap-for-money-be/internal/model"

	"gorm.io/datatypes"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:           u.Id,
		Username:     u.Username,
		DisplayName:  u.DisplayName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Bio:          u.Bio,
		Location:     u.Location,
		Roles:        []string(u.Roles),
		Genres:       []string(u.Genres),
		AvatarURL:    u.AvatarURL,
		BannerURL:    u.BannerURL,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:           u.Id,
		Username:     u.Username,
		DisplayName:  u.DisplayName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Bio:          u.Bio,
		Location:     u.Location,
		Roles:        datatypes.NewJSONSlice(u.Roles),
		Genres:       datatypes.NewJSONSlice(u.Genres),
		AvatarURL:    u.AvatarURL,
		BannerURL:    u.BannerURL,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) ToEntities(models []*model.User) []*entity.User {
	result := make([]*entity.User, 0, len(models))
	for _, u := range models {
		result = append(result, m.ToEntity(u))
	}
	return result
}

func (m *UserMapper) FollowToEntity(f *model.Follow) *entity.Follow {
	if f == nil {
		return nil
	}
	return &entity.Follow{
		Id:          f.Id,
		FollowerId:  f.FollowerId,
		FollowingId: f.FollowingId,
		CreatedAt:   f.CreatedAt,
	}
}

func (m *UserMapper) FollowToModel(f *entity.Follow) *model.Follow {
	if f == nil {
		return nil
	}
	return &model.Follow{
		Id:          f.Id,
		FollowerId:  f.FollowerId,
		FollowingId: f.FollowingId,
		CreatedAt:   f.CreatedAt,
	}
}
