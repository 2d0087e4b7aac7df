package implementation

import (
	"context"

	"rap-for-money-be/internal/entity"
	"rap-for-money-be/internal/mapper"
	"rap-for-money-be/internal/model"
	"rap-for-money-be/internal/repository/contract"
	"rap-for-money-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TipRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TipMapper
}

func NewTipRepository(db *gorm.DB) contract.TipRepository {
	return &TipRepositoryImpl{
		db:     db,
		mapper: mapper.NewTipMapper(),
	}
}

func (r *TipRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TipRepositoryImpl) Create(ctx context.Context, tip *entity.Tip) error {
	m := r.mapper.ToModel(tip)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*tip = *r.mapper.ToEntity(m)
	return nil
}

func (r *TipRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Tip, error) {
	var models []*model.Tip
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *TipRepositoryImpl) SumForPost(ctx context.Context, postId uuid.UUID) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&model.Tip{}).
		Where("post_id = ?", postId).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *TipRepositoryImpl) TopEarners(ctx context.Context, limit int) ([]contract.EarnerTotal, error) {
	var rows []contract.EarnerTotal
	err := r.db.WithContext(ctx).Model(&model.Tip{}).
		Select("receiver_id AS user_id, SUM(amount) AS total").
		Group("receiver_id").
		Order("total DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
