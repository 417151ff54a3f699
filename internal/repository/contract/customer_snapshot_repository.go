package contract

import (
	"context"

	"veena-assistant-be/internal/entity"
)

type CustomerSnapshotRepository interface {
	Create(ctx context.Context, snapshot *entity.CustomerSnapshot) error
	FindLatestByUserId(ctx context.Context, userId string, limit int) ([]*entity.CustomerSnapshot, error)
}
