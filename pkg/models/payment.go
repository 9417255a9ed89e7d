package models

import (
	"strings"

	"github.com/envelope-zero/payday/internal/types"
	"github.com/envelope-zero/payday/pkg/ledger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentScheduled PaymentStatus = "scheduled"
	PaymentPaid      PaymentStatus = "paid"
)

// Payment is an obligation to pay a third party by a due date.
type Payment struct {
	DefaultModel
	FamilyID     uuid.UUID     `json:"familyId" gorm:"index"`
	Family       Family        `json:"-"`
	Name         string        `json:"name"`
	Amount       ledger.Money  `json:"amount"`
	DueDate      types.Date    `json:"dueDate"`
	Status       PaymentStatus `json:"status"`
	Attributions []Attribution `json:"-"` // Only live attributions are loaded, see LiveAttributions
}

func (Payment) Self() string {
	return "payment"
}

func (p *Payment) BeforeSave(_ *gorm.DB) error {
	p.Name = strings.TrimSpace(p.Name)

	if p.Status == "" {
		p.Status = PaymentScheduled
	}

	return nil
}

// LiveAttributions preloads only the attributions that have not been deleted.
func LiveAttributions(db *gorm.DB) *gorm.DB {
	return db.Where(&Attribution{State: AttributionLive}).Order("created_at ASC, id ASC")
}

// Attributed returns the sum of all live attributions that are loaded for the payment.
func (p Payment) Attributed() ledger.Money {
	sum := ledger.ZeroMoney
	for _, a := range p.Attributions {
		if a.State == AttributionLive {
			sum = sum.Add(a.Amount)
		}
	}
	return sum
}

// AttributedExcept is like Attributed, but ignores the attribution with the given ID.
func (p Payment) AttributedExcept(id uuid.UUID) ledger.Money {
	sum := ledger.ZeroMoney
	for _, a := range p.Attributions {
		if a.State == AttributionLive && a.ID != id {
			sum = sum.Add(a.Amount)
		}
	}
	return sum
}
