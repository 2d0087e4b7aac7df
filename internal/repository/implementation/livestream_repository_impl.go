package implementation

import (
	"context"
	"errors"
	"time"

	"rap-for-money-be/internal/entity"
	"rap-for-money-be/internal/mapper"
	"rap-for-money-be/internal/model"
	"rap-for-money-be/internal/repository/contract"
	"rap-for-money-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LivestreamRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LivestreamMapper
}

func NewLivestreamRepository(db *gorm.DB) contract.LivestreamRepository {
	return &LivestreamRepositoryImpl{
		db:     db,
		mapper: mapper.NewLivestreamMapper(),
	}
}

func (r *LivestreamRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *LivestreamRepositoryImpl) Create(ctx context.Context, stream *entity.LiveStream) error {
	m := r.mapper.ToModel(stream)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*stream = *r.mapper.ToEntity(m)
	return nil
}

func (r *LivestreamRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LiveStream, error) {
	var m model.LiveStream
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *LivestreamRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LiveStream, error) {
	var models []*model.LiveStream
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *LivestreamRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.LiveStream{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *LivestreamRepositoryImpl) RoomIdExists(ctx context.Context, roomId string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.LiveStream{}).
		Where("room_id = ?", roomId).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// End is a compare-and-set: the WHERE clause only matches while the stream
// is still active, so concurrent enders (explicit stop, lazy expiry, the
// sweeper) race harmlessly and exactly one of them flips the row.
func (r *LivestreamRepositoryImpl) End(ctx context.Context, id uuid.UUID, endedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.LiveStream{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			"is_active": false,
			"ended_at":  endedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
