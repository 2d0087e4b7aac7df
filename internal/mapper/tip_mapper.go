package mapper

import (
	"rap-for-money-be/internal/entity"
	"rap-for-money-be/internal/model"
)

type TipMapper struct{}

func NewTipMapper() *TipMapper {
	return &TipMapper{}
}

func (m *TipMapper) ToEntity(t *model.Tip) *entity.Tip {
	if t == nil {
		return nil
	}
	return &entity.Tip{
		Id:         t.Id,
		SenderId:   t.SenderId,
		ReceiverId: t.ReceiverId,
		PostId:     t.PostId,
		Amount:     t.Amount,
		Message:    t.Message,
		CreatedAt:  t.CreatedAt,
	}
}

func (m *TipMapper) ToModel(t *entity.Tip) *model.Tip {
	if t == nil {
		return nil
	}
	return &model.Tip{
		Id:         t.Id,
		SenderId:   t.SenderId,
		ReceiverId: t.ReceiverId,
		PostId:     t.PostId,
		Amount:     t.Amount,
		Message:    t.Message,
		CreatedAt:  t.CreatedAt,
	}
}

func (m *TipMapper) ToEntities(models []*model.Tip) []*entity.Tip {
	result := make([]*entity.Tip, 0, len(models))
	for _, t := range models {
		result = append(result, m.ToEntity(t))
	}
	return result
}
