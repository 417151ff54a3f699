package entity

import (
	"time"

	"github.com/google/uuid"
)

type CustomerSnapshot struct {
	Id        uuid.UUID
	UserId    string
	Source    string
	Lang      string
	RequestId string
	Data      map[string]interface{}
	CreatedAt time.Time
}
