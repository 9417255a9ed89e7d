package models

import (
	"github.com/envelope-zero/payday/pkg/ledger"
	"github.com/google/uuid"
)

// BudgetAllocation is the part of an income event that goes to a budget category.
type BudgetAllocation struct {
	DefaultModel
	FamilyID         uuid.UUID         `json:"familyId" gorm:"index"`
	IncomeEventID    uuid.UUID         `json:"incomeEventId" gorm:"uniqueIndex:allocation_category_unique"`
	IncomeEvent      IncomeEvent       `json:"-"`
	BudgetCategoryID uuid.UUID         `json:"budgetCategoryId" gorm:"uniqueIndex:allocation_category_unique"`
	BudgetCategory   BudgetCategory    `json:"-"`
	Amount           ledger.Money      `json:"amount"`
	Percentage       ledger.Percentage `json:"percentage"`
}

func (BudgetAllocation) Self() string {
	return "budget allocation"
}
