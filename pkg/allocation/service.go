package allocation

import (
	"context"
	"errors"
	"strings"

	"github.com/envelope-zero/payday/pkg/audit"
	"github.com/envelope-zero/payday/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service persists budget allocations of income events.
type Service struct {
	db    *gorm.DB
	audit audit.Recorder
}

func NewService(db *gorm.DB, recorder audit.Recorder) *Service {
	return &Service{db: db, audit: recorder}
}

func incomeEvent(db *gorm.DB, familyID, id uuid.UUID) (models.IncomeEvent, error) {
	var income models.IncomeEvent
	err := db.Where("family_id = ?", familyID).First(&income, "id = ?", id).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return income, models.NotFoundError{Entity: "income event", ID: id}
	}

	return income, err
}

// IncomeEvent returns an income event of the family.
func (s *Service) IncomeEvent(ctx context.Context, familyID, id uuid.UUID) (models.IncomeEvent, error) {
	return incomeEvent(s.db.WithContext(ctx), familyID, id)
}

// List returns the allocations of an income event.
func (s *Service) List(ctx context.Context, familyID, incomeEventID uuid.UUID) ([]models.BudgetAllocation, error) {
	db := s.db.WithContext(ctx)

	if _, err := incomeEvent(db, familyID, incomeEventID); err != nil {
		return nil, err
	}

	var allocations []models.BudgetAllocation
	err := db.Where(&models.BudgetAllocation{FamilyID: familyID, IncomeEventID: incomeEventID}).
		Order("created_at, id").
		Find(&allocations).Error
	if err != nil {
		return nil, err
	}

	return allocations, nil
}

// Derive proposes allocations for an income event from the family's active categories.
func (s *Service) Derive(ctx context.Context, familyID, incomeEventID uuid.UUID) ([]ProposedAllocation, error) {
	db := s.db.WithContext(ctx)

	income, err := incomeEvent(db, familyID, incomeEventID)
	if err != nil {
		return nil, err
	}

	var categories []models.BudgetCategory
	err = db.Where("family_id = ? AND is_active = ?", familyID, true).Order("name, id").Find(&categories).Error
	if err != nil {
		return nil, err
	}

	return Derive(income.Amount, categories), nil
}

// Replace validates the allocations against the income event and replaces
// its current allocations with them.
func (s *Service) Replace(ctx context.Context, scope models.Scope, incomeEventID uuid.UUID, allocations []ProposedAllocation) (created []models.BudgetAllocation, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var income models.IncomeEvent
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("family_id = ?", scope.FamilyID).
			First(&income, "id = ?", incomeEventID).Error
		if errors.Is(err, models.ErrResourceNotFound) {
			return models.NotFoundError{Entity: "income event", ID: incomeEventID}
		} else if err != nil {
			return err
		}

		report := ValidateBudgetAllocations(income.ID, income.Amount, allocations)
		if !report.IsValid {
			return models.InvalidArgumentError{Field: "allocations", Reason: strings.Join(report.Errors, "; ")}
		}

		if err := checkCategories(tx, scope.FamilyID, allocations); err != nil {
			return err
		}

		var previous []models.BudgetAllocation
		err = tx.Where("income_event_id = ?", income.ID).Order("created_at, id").Find(&previous).Error
		if err != nil {
			return err
		}

		err = tx.Where("income_event_id = ?", income.ID).Delete(&models.BudgetAllocation{}).Error
		if err != nil {
			return err
		}

		created = make([]models.BudgetAllocation, 0, len(allocations))
		for _, a := range allocations {
			allocation := models.BudgetAllocation{
				FamilyID:         scope.FamilyID,
				IncomeEventID:    income.ID,
				BudgetCategoryID: a.BudgetCategoryID,
				Amount:           a.Amount,
				Percentage:       a.Percentage,
			}

			if err := tx.Omit(clause.Associations).Create(&allocation).Error; err != nil {
				return err
			}
			created = append(created, allocation)
		}

		action := models.AuditUpdate
		if len(previous) == 0 {
			action = models.AuditCreate
		}

		err = s.audit.Record(tx, audit.Entry{
			Scope:      scope,
			Action:     action,
			EntityType: "budget allocations",
			EntityID:   income.ID,
			OldValues:  values(previous),
			NewValues:  values(created),
		})
		if err != nil {
			return err
		}

		log.Debug().Str("income_event", income.ID.String()).Int("allocations", len(created)).Msg("replaced budget allocations")
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// checkCategories verifies that all categories exist in the family.
func checkCategories(tx *gorm.DB, familyID uuid.UUID, allocations []ProposedAllocation) error {
	ids := make([]uuid.UUID, 0, len(allocations))
	for _, a := range allocations {
		ids = append(ids, a.BudgetCategoryID)
	}

	var categories []models.BudgetCategory
	err := tx.Where("family_id = ? AND id IN ?", familyID, ids).Find(&categories).Error
	if err != nil {
		return err
	}

	found := make(map[uuid.UUID]bool, len(categories))
	for _, c := range categories {
		found[c.ID] = true
	}

	for _, id := range ids {
		if !found[id] {
			return models.NotFoundError{Entity: "budget category", ID: id}
		}
	}

	return nil
}

func values(allocations []models.BudgetAllocation) map[string]any {
	if len(allocations) == 0 {
		return map[string]any{}
	}

	list := make([]map[string]any, 0, len(allocations))
	for _, a := range allocations {
		list = append(list, map[string]any{
			"budgetCategoryId": a.BudgetCategoryID.String(),
			"amount":           a.Amount.String(),
			"percentage":       a.Percentage.String(),
		})
	}

	return map[string]any{"allocations": list}
}
