package models

import (
	"time"

	"github.com/envelope-zero/payday/pkg/ledger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttributionType string

const (
	AttributionManual    AttributionType = "manual"
	AttributionAutomatic AttributionType = "automatic"
)

// Valid reports if the type is one of the known attribution types.
func (t AttributionType) Valid() bool {
	return t == AttributionManual || t == AttributionAutomatic
}

type AttributionState string

const (
	AttributionLive    AttributionState = "live"
	AttributionDeleted AttributionState = "deleted"
)

// Attribution links a part of an income event to a payment.
//
// Attributions are never removed from the database. Deleting one
// sets its state to deleted and records who deleted it when.
type Attribution struct {
	DefaultModel
	FamilyID      uuid.UUID        `json:"familyId" gorm:"index"`
	PaymentID     uuid.UUID        `json:"paymentId" gorm:"index"`
	Payment       Payment          `json:"-"`
	IncomeEventID uuid.UUID        `json:"incomeEventId" gorm:"index"`
	IncomeEvent   IncomeEvent      `json:"-"`
	Amount        ledger.Money     `json:"amount"`
	Type          AttributionType  `json:"attributionType" gorm:"column:attribution_type"`
	CreatedBy     uuid.UUID        `json:"createdBy"`
	State         AttributionState `json:"state" gorm:"index"`
	DeletedAt     *time.Time       `json:"deletedAt"`
	DeletedBy     *uuid.UUID       `json:"deletedBy"`
}

func (Attribution) Self() string {
	return "attribution"
}

func (a *Attribution) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	if a.State == "" {
		a.State = AttributionLive
	}

	return nil
}

func (a *Attribution) BeforeSave(_ *gorm.DB) error {
	if !a.Amount.IsPositive() {
		return ErrAttributionAmountNotPositive
	}

	if !a.Type.Valid() {
		return ErrAttributionTypeInvalid
	}

	return nil
}

func (a *Attribution) AfterFind(tx *gorm.DB) error {
	_ = a.DefaultModel.AfterFind(tx)

	if a.DeletedAt != nil {
		t := a.DeletedAt.In(time.UTC)
		a.DeletedAt = &t
	}

	return nil
}

// AttributionLifecycle is either Live or Deleted.
type AttributionLifecycle interface {
	attributionLifecycle()
}

// Live is an attribution that currently allocates Amount.
type Live struct {
	Amount ledger.Money
}

// Deleted is a tombstoned attribution. It does not allocate anything anymore.
type Deleted struct {
	Snapshot  AttributionSnapshot
	DeletedAt time.Time
	DeletedBy uuid.UUID
}

func (Live) attributionLifecycle()    {}
func (Deleted) attributionLifecycle() {}

// Lifecycle returns the lifecycle variant of the attribution.
func (a Attribution) Lifecycle() AttributionLifecycle {
	if a.State != AttributionDeleted {
		return Live{Amount: a.Amount}
	}

	d := Deleted{Snapshot: a.Snapshot()}
	if a.DeletedAt != nil {
		d.DeletedAt = *a.DeletedAt
	}
	if a.DeletedBy != nil {
		d.DeletedBy = *a.DeletedBy
	}
	return d
}

// AttributionSnapshot is the state of an attribution at one point in time.
type AttributionSnapshot struct {
	ID            uuid.UUID
	PaymentID     uuid.UUID
	IncomeEventID uuid.UUID
	Amount        ledger.Money
	Type          AttributionType
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
}

func (a Attribution) Snapshot() AttributionSnapshot {
	return AttributionSnapshot{
		ID:            a.ID,
		PaymentID:     a.PaymentID,
		IncomeEventID: a.IncomeEventID,
		Amount:        a.Amount,
		Type:          a.Type,
		CreatedBy:     a.CreatedBy,
		CreatedAt:     a.CreatedAt,
	}
}

// Values returns the snapshot as a map for the audit log.
func (s AttributionSnapshot) Values() map[string]any {
	return map[string]any{
		"id":              s.ID,
		"paymentId":       s.PaymentID,
		"incomeEventId":   s.IncomeEventID,
		"amount":          s.Amount,
		"attributionType": s.Type,
		"createdBy":       s.CreatedBy,
		"createdAt":       s.CreatedAt,
	}
}

// Tombstone marks the attribution as deleted.
func (a *Attribution) Tombstone(at time.Time, by uuid.UUID) error {
	if _, ok := a.Lifecycle().(Deleted); ok {
		return ConflictError{Reason: "the attribution has already been deleted"}
	}

	at = at.In(time.UTC)
	a.State = AttributionDeleted
	a.DeletedAt = &at
	a.DeletedBy = &by
	return nil
}

// SaveTombstone writes the tombstone columns.
//
// The state condition makes sure that a concurrent deletion
// that has already been committed is not overwritten.
func (a *Attribution) SaveTombstone(tx *gorm.DB) error {
	res := tx.Model(a).Where("state = ?", AttributionLive).Updates(map[string]any{
		"state":      a.State,
		"deleted_at": a.DeletedAt,
		"deleted_by": a.DeletedBy,
	})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ConflictError{Reason: "the attribution has already been deleted"}
	}

	return nil
}
