package models_test

import (
	"github.com/envelope-zero/payday/pkg/ledger"
	"github.com/envelope-zero/payday/pkg/models"
	"github.com/envelope-zero/payday/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestBudgetAllocationUniquePerCategory() {
	family := suite.createTestFamily()
	income := suite.createTestIncomeEvent(models.IncomeEvent{FamilyID: family.ID, Amount: money("1000")})
	category := test.Create(suite.T(), suite.db, models.BudgetCategory{
		FamilyID:         family.ID,
		Name:             " Savings ",
		TargetPercentage: ledger.MustParsePercentage("20"),
		IsActive:         true,
	})
	assert.Equal(suite.T(), "Savings", category.Name)

	_ = test.Create(suite.T(), suite.db, models.BudgetAllocation{
		FamilyID:         family.ID,
		IncomeEventID:    income.ID,
		BudgetCategoryID: category.ID,
		Amount:           money("200"),
		Percentage:       ledger.MustParsePercentage("20"),
	})

	err := suite.db.Create(&models.BudgetAllocation{
		FamilyID:         family.ID,
		IncomeEventID:    income.ID,
		BudgetCategoryID: category.ID,
		Amount:           money("100"),
		Percentage:       ledger.MustParsePercentage("10"),
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrAllocationCategoryNotUnique)
}

func (suite *TestSuiteStandard) TestBudgetCategoryInactive() {
	family := suite.createTestFamily()
	category := test.Create(suite.T(), suite.db, models.BudgetCategory{FamilyID: family.ID, Name: "Old"})

	var loaded models.BudgetCategory
	assert.Nil(suite.T(), suite.db.First(&loaded, "id = ?", category.ID).Error)
	assert.False(suite.T(), loaded.IsActive)
	assert.True(suite.T(), loaded.TargetPercentage.IsZero())
}
