// Package audit implements the append-only audit log.
//
// Records are always written through the transaction of the mutation they
// describe. If the record cannot be written, the mutation is rolled back.
package audit

import (
	"context"
	"fmt"

	"github.com/envelope-zero/payday/pkg/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Entry is a single change to be recorded.
type Entry struct {
	Scope      models.Scope
	Action     models.AuditAction
	EntityType string
	EntityID   uuid.UUID
	OldValues  map[string]any
	NewValues  map[string]any
}

// Recorder appends entries to the audit log.
type Recorder interface {
	Record(tx *gorm.DB, entry Entry) error
}

// Store is the Recorder backed by the audit_records table.
type Store struct{}

func NewStore() Store {
	return Store{}
}

// Record writes the entry with the transaction tx.
func (Store) Record(tx *gorm.DB, entry Entry) error {
	record := models.AuditRecord{
		FamilyID:   entry.Scope.FamilyID,
		ActorID:    entry.Scope.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		OldValues:  datatypes.JSONMap(entry.OldValues),
		NewValues:  datatypes.JSONMap(entry.NewValues),
	}

	err := tx.Create(&record).Error
	if err != nil {
		return fmt.Errorf("recording %s of %s %s: %w", entry.Action, entry.EntityType, entry.EntityID, err)
	}

	return nil
}

// Filter narrows down the audit records returned by List.
type Filter struct {
	EntityID   uuid.UUID
	EntityType string
	Limit      int
}

// DefaultLimit is the number of records List returns when the filter does not specify a limit.
const DefaultLimit = 100

// List returns the audit records of a family, newest first.
func (Store) List(ctx context.Context, db *gorm.DB, familyID uuid.UUID, filter Filter) ([]models.AuditRecord, error) {
	query := db.WithContext(ctx).Where(&models.AuditRecord{
		FamilyID:   familyID,
		EntityID:   filter.EntityID,
		EntityType: filter.EntityType,
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	var records []models.AuditRecord
	err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}
