package models

import (
	"strings"

	"github.com/envelope-zero/payday/internal/types"
	"github.com/envelope-zero/payday/pkg/ledger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IncomeStatus string

const (
	IncomeScheduled IncomeStatus = "scheduled"
	IncomeReceived  IncomeStatus = "received"
)

// IncomeEvent is a scheduled or received inflow of money, e.g. a paycheck.
//
// AllocatedAmount + RemainingAmount always equals Amount. Both are
// only changed through ApplyAttribution.
type IncomeEvent struct {
	DefaultModel
	FamilyID        uuid.UUID    `json:"familyId" gorm:"index"`
	Family          Family       `json:"-"`
	Name            string       `json:"name"`            // Name of the income, e.g. "Salary Alex"
	Amount          ledger.Money `json:"amount"`          // Total amount of the income
	AllocatedAmount ledger.Money `json:"allocatedAmount"` // Amount attributed to payments
	RemainingAmount ledger.Money `json:"remainingAmount"` // Amount still available for attribution
	ScheduledDate   types.Date   `json:"scheduledDate"`
	Status          IncomeStatus `json:"status"`
}

func (IncomeEvent) Self() string {
	return "income event"
}

func (i *IncomeEvent) BeforeCreate(tx *gorm.DB) error {
	_ = i.DefaultModel.BeforeCreate(tx)

	if i.Status == "" {
		i.Status = IncomeScheduled
	}

	return nil
}

// BeforeSave verifies the conservation invariant before anything is written.
//
// gorm calls BeforeSave before BeforeCreate, so the default totals are set here.
func (i *IncomeEvent) BeforeSave(_ *gorm.DB) error {
	i.Name = strings.TrimSpace(i.Name)

	// Completely unallocated unless specified otherwise
	if i.AllocatedAmount.IsZero() && i.RemainingAmount.IsZero() {
		i.RemainingAmount = i.Amount
	}

	return i.checkBalance()
}

func (i IncomeEvent) checkBalance() error {
	if i.RemainingAmount.IsNegative() {
		return ErrIncomeEventOverallocated
	}

	if !i.AllocatedAmount.Add(i.RemainingAmount).ApproxEqual(i.Amount) {
		return ErrIncomeEventUnbalanced
	}

	return nil
}

// ApplyAttribution moves delta from the remaining to the allocated amount.
// A negative delta releases money back to the remaining amount.
func (i *IncomeEvent) ApplyAttribution(delta ledger.Money) error {
	next := *i
	next.AllocatedAmount = i.AllocatedAmount.Add(delta)
	next.RemainingAmount = i.RemainingAmount.Sub(delta)

	if err := next.checkBalance(); err != nil {
		return err
	}

	i.AllocatedAmount = next.AllocatedAmount
	i.RemainingAmount = next.RemainingAmount
	return nil
}

// SaveAllocation writes the allocation totals of the income event.
func (i *IncomeEvent) SaveAllocation(tx *gorm.DB) error {
	return tx.Model(i).Updates(map[string]any{
		"allocated_amount": i.AllocatedAmount,
		"remaining_amount": i.RemainingAmount,
	}).Error
}
