package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
)

// AuditRecord is one entry of the append-only audit log.
type AuditRecord struct {
	ID         uuid.UUID         `json:"id" gorm:"primaryKey"`
	FamilyID   uuid.UUID         `json:"familyId" gorm:"index"`
	ActorID    uuid.UUID         `json:"actorId"`
	Action     AuditAction       `json:"action"`
	EntityType string            `json:"entityType" gorm:"index:audit_entity"`
	EntityID   uuid.UUID         `json:"entityId" gorm:"index:audit_entity"`
	OldValues  datatypes.JSONMap `json:"oldValues"`
	NewValues  datatypes.JSONMap `json:"newValues"`
	CreatedAt  time.Time         `json:"createdAt"`
}

func (AuditRecord) Self() string {
	return "audit record"
}

func (r *AuditRecord) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}

	if r.OldValues == nil {
		r.OldValues = datatypes.JSONMap{}
	}

	if r.NewValues == nil {
		r.NewValues = datatypes.JSONMap{}
	}

	return nil
}

func (r *AuditRecord) BeforeUpdate(_ *gorm.DB) error {
	return ErrAuditRecordImmutable
}

func (r *AuditRecord) BeforeDelete(_ *gorm.DB) error {
	return ErrAuditRecordImmutable
}

func (r *AuditRecord) AfterFind(_ *gorm.DB) error {
	r.CreatedAt = r.CreatedAt.In(time.UTC)
	return nil
}
