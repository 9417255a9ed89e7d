package models

import (
	"strings"

	"github.com/envelope-zero/payday/pkg/ledger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BudgetCategory is a savings or spending category that paychecks are divided into.
type BudgetCategory struct {
	DefaultModel
	FamilyID         uuid.UUID         `json:"familyId" gorm:"index"`
	Family           Family            `json:"-"`
	Name             string            `json:"name"`
	TargetPercentage ledger.Percentage `json:"targetPercentage"`
	IsActive         bool              `json:"isActive"`
}

func (BudgetCategory) Self() string {
	return "budget category"
}

func (c *BudgetCategory) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	return nil
}
