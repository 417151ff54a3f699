package mapper

import (
	"veena-assistant-be/internal/entity"
	"veena-assistant-be/internal/model"

	"gorm.io/datatypes"
)

type CustomerSnapshotMapper struct{}

func NewCustomerSnapshotMapper() *CustomerSnapshotMapper {
	return &CustomerSnapshotMapper{}
}

func (m *CustomerSnapshotMapper) ToEntity(s *model.CustomerSnapshot) *entity.CustomerSnapshot {
	if s == nil {
		return nil
	}

	e := &entity.CustomerSnapshot{
		Id:        s.Id,
		UserId:    s.UserId,
		Source:    s.Source,
		Data:      map[string]interface{}(s.Data),
		CreatedAt: s.CreatedAt,
	}
	if s.Lang != nil {
		e.Lang = *s.Lang
	}
	if s.RequestId != nil {
		e.RequestId = *s.RequestId
	}
	return e
}

func (m *CustomerSnapshotMapper) ToModel(e *entity.CustomerSnapshot) *model.CustomerSnapshot {
	if e == nil {
		return nil
	}

	data := datatypes.JSONMap(e.Data)
	if data == nil {
		data = datatypes.JSONMap{}
	}

	return &model.CustomerSnapshot{
		Id:        e.Id,
		UserId:    e.UserId,
		Source:    e.Source,
		Lang:      optional(e.Lang),
		RequestId: optional(e.RequestId),
		Data:      data,
		CreatedAt: e.CreatedAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
