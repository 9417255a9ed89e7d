package models_test

import (
	"time"

	"github.com/envelope-zero/payday/pkg/models"
	"github.com/envelope-zero/payday/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestPaymentAttributed() {
	family := suite.createTestFamily()
	income := suite.createTestIncomeEvent(models.IncomeEvent{FamilyID: family.ID, Amount: money("2000")})
	payment := suite.createTestPayment(models.Payment{FamilyID: family.ID, Name: "Rent", Amount: money("1500")})

	assert.Equal(suite.T(), models.PaymentScheduled, payment.Status)

	live := test.Create(suite.T(), suite.db, models.Attribution{
		FamilyID:      family.ID,
		PaymentID:     payment.ID,
		IncomeEventID: income.ID,
		Amount:        money("500"),
		Type:          models.AttributionManual,
	})

	_ = test.Create(suite.T(), suite.db, models.Attribution{
		FamilyID:      family.ID,
		PaymentID:     payment.ID,
		IncomeEventID: income.ID,
		Amount:        money("200.25"),
		Type:          models.AttributionAutomatic,
	})

	deleted := test.Create(suite.T(), suite.db, models.Attribution{
		FamilyID:      family.ID,
		PaymentID:     payment.ID,
		IncomeEventID: income.ID,
		Amount:        money("100"),
		Type:          models.AttributionManual,
	})
	require.Nil(suite.T(), deleted.Tombstone(time.Now(), family.ID))
	require.Nil(suite.T(), deleted.SaveTombstone(suite.db))

	var loaded models.Payment
	require.Nil(suite.T(), suite.db.Preload("Attributions", models.LiveAttributions).First(&loaded, "id = ?", payment.ID).Error)

	assert.Len(suite.T(), loaded.Attributions, 2)
	assert.Equal(suite.T(), "700.25", loaded.Attributed().String())
	assert.Equal(suite.T(), "200.25", loaded.AttributedExcept(live.ID).String())
}
