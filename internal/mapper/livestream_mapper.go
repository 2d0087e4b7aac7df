package mapper

import (
	"rap-for-money-be/internal/entity"
	"rap-for-money-be/internal/model"
)

type LivestreamMapper struct{}

func NewLivestreamMapper() *LivestreamMapper {
	return &LivestreamMapper{}
}

func (m *LivestreamMapper) ToEntity(s *model.LiveStream) *entity.LiveStream {
	if s == nil {
		return nil
	}
	return &entity.LiveStream{
		Id:                 s.Id,
		HostId:             s.HostId,
		RoomId:             s.RoomId,
		IsActive:           s.IsActive,
		StartedAt:          s.StartedAt,
		EndedAt:            s.EndedAt,
		MaxDurationSeconds: s.MaxDurationSeconds,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func (m *LivestreamMapper) ToModel(s *entity.LiveStream) *model.LiveStream {
	if s == nil {
		return nil
	}
	return &model.LiveStream{
		Id:                 s.Id,
		HostId:             s.HostId,
		RoomId:             s.RoomId,
		IsActive:           s.IsActive,
		StartedAt:          s.StartedAt,
		EndedAt:            s.EndedAt,
		MaxDurationSeconds: s.MaxDurationSeconds,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func (m *LivestreamMapper) ToEntities(models []*model.LiveStream) []*entity.LiveStream {
	result := make([]*entity.LiveStream, 0, len(models))
	for _, s := range models {
		result = append(result, m.ToEntity(s))
	}
	return result
}
