package implementation

import (
	"context"

	"veena-assistant-be/internal/entity"
	"veena-assistant-be/internal/mapper"
	"veena-assistant-be/internal/model"
	"veena-assistant-be/internal/repository/contract"

	"gorm.io/gorm"
)

type CustomerSnapshotRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CustomerSnapshotMapper
}

func NewCustomerSnapshotRepository(db *gorm.DB) contract.CustomerSnapshotRepository {
	return &CustomerSnapshotRepositoryImpl{
		db:     db,
		mapper: mapper.NewCustomerSnapshotMapper(),
	}
}

func (r *CustomerSnapshotRepositoryImpl) Create(ctx context.Context, snapshot *entity.CustomerSnapshot) error {
	m := r.mapper.ToModel(snapshot)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*snapshot = *r.mapper.ToEntity(m)
	return nil
}

func (r *CustomerSnapshotRepositoryImpl) FindLatestByUserId(ctx context.Context, userId string, limit int) ([]*entity.CustomerSnapshot, error) {
	var models []model.CustomerSnapshot
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entity.CustomerSnapshot, 0, len(models))
	for i := range models {
		out = append(out, r.mapper.ToEntity(&models[i]))
	}
	return out, nil
}
