package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	SnapshotSourceForm = "save_customer"
	SnapshotSourceTurn = "query_customer"
)

// CustomerSnapshot is an append-only record of customer data as it was
// seen by the service.
type CustomerSnapshot struct {
	Id        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    string            `gorm:"type:varchar(255);not null;index"`
	Source    string            `gorm:"type:varchar(50);not null"`
	Lang      *string           `gorm:"type:varchar(10)"`
	RequestId *string           `gorm:"type:varchar(64)"`
	Data      datatypes.JSONMap `gorm:"type:jsonb;not null"`
	CreatedAt time.Time         `gorm:"default:now();not null;index"`
}

func (CustomerSnapshot) TableName() string {
	return "customer_profile_snapshots"
}
