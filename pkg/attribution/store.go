package attribution

import (
	"errors"

	"github.com/envelope-zero/payday/pkg/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func forUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

// notFound replaces the generic not found error with one naming the entity.
func notFound(err error, entity string, id uuid.UUID) error {
	if errors.Is(err, models.ErrResourceNotFound) {
		return models.NotFoundError{Entity: entity, ID: id}
	}
	return err
}

// lockPayment loads the payment with its live attributions and locks it for the transaction.
func lockPayment(tx *gorm.DB, familyID, id uuid.UUID) (models.Payment, error) {
	var payment models.Payment
	err := tx.Clauses(forUpdate()).
		Preload("Attributions", models.LiveAttributions).
		Where("family_id = ?", familyID).
		First(&payment, "id = ?", id).Error

	return payment, notFound(err, "payment", id)
}

// getPayment loads the payment with its live attributions without locking it.
func getPayment(db *gorm.DB, familyID, id uuid.UUID) (models.Payment, error) {
	var payment models.Payment
	err := db.Preload("Attributions", models.LiveAttributions).
		Where("family_id = ?", familyID).
		First(&payment, "id = ?", id).Error

	return payment, notFound(err, "payment", id)
}

func lockIncomeEvent(tx *gorm.DB, familyID, id uuid.UUID) (models.IncomeEvent, error) {
	var income models.IncomeEvent
	err := tx.Clauses(forUpdate()).
		Where("family_id = ?", familyID).
		First(&income, "id = ?", id).Error

	return income, notFound(err, "income event", id)
}

func lockAttribution(tx *gorm.DB, familyID, id uuid.UUID) (models.Attribution, error) {
	var attribution models.Attribution
	err := tx.Clauses(forUpdate()).
		Where("family_id = ?", familyID).
		First(&attribution, "id = ?", id).Error

	return attribution, notFound(err, "attribution", id)
}

// scheduledIncomeEvents returns all scheduled income events of a family.
// The order is not defined.
func scheduledIncomeEvents(db *gorm.DB, familyID uuid.UUID) ([]models.IncomeEvent, error) {
	var incomes []models.IncomeEvent
	err := db.Where("family_id = ? AND status = ?", familyID, models.IncomeScheduled).Find(&incomes).Error
	return incomes, err
}
