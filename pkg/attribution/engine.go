// Package attribution links income events to the payments they pay for.
//
// The Engine is the only writer of the allocation totals of income events.
// Every mutation runs in one transaction: the payment is locked first, then
// the income events in order of their ID. Validation happens before any write
// and every mutation appends exactly one audit record.
package attribution

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/envelope-zero/payday/pkg/audit"
	"github.com/envelope-zero/payday/pkg/ledger"
	"github.com/envelope-zero/payday/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope is the family and actor an operation is executed for.
type Scope = models.Scope

type Engine struct {
	db    *gorm.DB
	audit audit.Recorder
	now   func() time.Time
}

func NewEngine(db *gorm.DB, recorder audit.Recorder) *Engine {
	return &Engine{
		db:    db,
		audit: recorder,
		now:   time.Now,
	}
}

type CreateInput struct {
	PaymentID     uuid.UUID
	IncomeEventID uuid.UUID
	Amount        ledger.Money
	Type          models.AttributionType
}

// Warning is an advisory message for an operation that succeeded
// but changed historical records.
type Warning string

const (
	WarningPaymentPaid    Warning = "the payment has already been paid, this changes a historical record"
	WarningIncomeReceived Warning = "the income event has already been received, this changes a historical record"
)

type DeleteResult struct {
	Attribution models.Attribution
	Warnings    []Warning
}

type SplitEntry struct {
	IncomeEventID uuid.UUID
	Amount        ledger.Money
}

func validateAmount(field string, amount ledger.Money) error {
	if !amount.IsPositive() {
		return models.InvalidArgumentError{Field: field, Reason: fmt.Sprintf("must be larger than zero, is %s", amount)}
	}
	return nil
}

func validateType(t models.AttributionType) error {
	if !t.Valid() {
		return models.InvalidArgumentError{Field: "attributionType", Reason: fmt.Sprintf("%q is not one of %q, %q", t, models.AttributionManual, models.AttributionAutomatic)}
	}
	return nil
}

// Get returns an attribution of the family, regardless of its state.
func (e *Engine) Get(ctx context.Context, familyID, id uuid.UUID) (models.Attribution, error) {
	var attribution models.Attribution
	err := e.db.WithContext(ctx).Where("family_id = ?", familyID).First(&attribution, "id = ?", id).Error
	return attribution, notFound(err, "attribution", id)
}

// Create attributes part of an income event to a payment.
func (e *Engine) Create(ctx context.Context, scope Scope, in CreateInput) (attribution models.Attribution, err error) {
	defer func() { observe("create", err) }()

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attribution, err = e.create(tx, scope, in)
		return err
	})
	if err != nil {
		return models.Attribution{}, err
	}

	return attribution, nil
}

func (e *Engine) create(tx *gorm.DB, scope Scope, in CreateInput) (models.Attribution, error) {
	if err := validateAmount("amount", in.Amount); err != nil {
		return models.Attribution{}, err
	}

	if err := validateType(in.Type); err != nil {
		return models.Attribution{}, err
	}

	payment, err := lockPayment(tx, scope.FamilyID, in.PaymentID)
	if err != nil {
		return models.Attribution{}, err
	}

	income, err := lockIncomeEvent(tx, scope.FamilyID, in.IncomeEventID)
	if err != nil {
		return models.Attribution{}, err
	}

	attributed := payment.Attributed()
	if attributed.Add(in.Amount).GreaterThan(payment.Amount) {
		return models.Attribution{}, models.CapacityError{
			Scope:     models.CapacityPayment,
			Requested: in.Amount,
			Available: payment.Amount.Sub(attributed),
		}
	}

	if in.Amount.GreaterThan(income.RemainingAmount) {
		return models.Attribution{}, models.CapacityError{
			Scope:     models.CapacityIncome,
			Requested: in.Amount,
			Available: income.RemainingAmount,
		}
	}

	attribution := models.Attribution{
		FamilyID:      scope.FamilyID,
		PaymentID:     payment.ID,
		IncomeEventID: income.ID,
		Amount:        in.Amount,
		Type:          in.Type,
		CreatedBy:     scope.ActorID,
		State:         models.AttributionLive,
	}

	if err := tx.Omit(clause.Associations).Create(&attribution).Error; err != nil {
		return models.Attribution{}, err
	}

	if err := income.ApplyAttribution(in.Amount); err != nil {
		return models.Attribution{}, err
	}

	if err := income.SaveAllocation(tx); err != nil {
		return models.Attribution{}, err
	}

	err = e.audit.Record(tx, audit.Entry{
		Scope:      scope,
		Action:     models.AuditCreate,
		EntityType: attribution.Self(),
		EntityID:   attribution.ID,
		NewValues: map[string]any{
			"paymentId":       attribution.PaymentID,
			"incomeEventId":   attribution.IncomeEventID,
			"amount":          attribution.Amount,
			"attributionType": attribution.Type,
		},
	})
	if err != nil {
		return models.Attribution{}, err
	}

	log.Debug().
		Str("attribution", attribution.ID.String()).
		Str("payment", payment.ID.String()).
		Str("income event", income.ID.String()).
		Str("amount", attribution.Amount.String()).
		Str("type", string(attribution.Type)).
		Msg("created attribution")

	return attribution, nil
}

// Update changes the amount of a live attribution.
//
// If the amount does not change, nothing is written and no audit record is appended.
func (e *Engine) Update(ctx context.Context, scope Scope, id uuid.UUID, amount ledger.Money) (attribution models.Attribution, err error) {
	defer func() { observe("update", err) }()

	if err := validateAmount("amount", amount); err != nil {
		return models.Attribution{}, err
	}

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attribution, err = lockAttribution(tx, scope.FamilyID, id)
		if err != nil {
			return err
		}

		live, ok := attribution.Lifecycle().(models.Live)
		if !ok {
			return models.ConflictError{Reason: "deleted attributions cannot be updated"}
		}

		payment, err := lockPayment(tx, scope.FamilyID, attribution.PaymentID)
		if err != nil {
			return err
		}

		income, err := lockIncomeEvent(tx, scope.FamilyID, attribution.IncomeEventID)
		if err != nil {
			return err
		}

		other := payment.AttributedExcept(attribution.ID)
		if other.Add(amount).GreaterThan(payment.Amount) {
			return models.CapacityError{
				Scope:     models.CapacityPayment,
				Requested: amount,
				Available: payment.Amount.Sub(other),
			}
		}

		available := income.RemainingAmount.Add(live.Amount)
		if amount.GreaterThan(available) {
			return models.CapacityError{
				Scope:     models.CapacityIncome,
				Requested: amount,
				Available: available,
			}
		}

		delta := amount.Sub(live.Amount)
		if delta.IsZero() {
			return nil
		}

		if err := income.ApplyAttribution(delta); err != nil {
			return err
		}

		if err := income.SaveAllocation(tx); err != nil {
			return err
		}

		attribution.Amount = amount
		if err := tx.Model(&attribution).Update("amount", amount).Error; err != nil {
			return err
		}

		err = e.audit.Record(tx, audit.Entry{
			Scope:      scope,
			Action:     models.AuditUpdate,
			EntityType: attribution.Self(),
			EntityID:   attribution.ID,
			OldValues:  map[string]any{"amount": live.Amount},
			NewValues:  map[string]any{"amount": amount},
		})
		if err != nil {
			return err
		}

		logHistorical(payment, income).
			Str("attribution", attribution.ID.String()).
			Str("old amount", live.Amount.String()).
			Str("amount", amount.String()).
			Msg("updated attribution")

		return nil
	})
	if err != nil {
		return models.Attribution{}, err
	}

	return attribution, nil
}

// Delete tombstones an attribution and releases its amount back to the income event.
func (e *Engine) Delete(ctx context.Context, scope Scope, id uuid.UUID) (result DeleteResult, err error) {
	defer func() { observe("delete", err) }()

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attribution, err := lockAttribution(tx, scope.FamilyID, id)
		if err != nil {
			return err
		}

		live, ok := attribution.Lifecycle().(models.Live)
		if !ok {
			return models.ConflictError{Reason: "the attribution has already been deleted"}
		}

		payment, err := lockPayment(tx, scope.FamilyID, attribution.PaymentID)
		if err != nil {
			return err
		}

		income, err := lockIncomeEvent(tx, scope.FamilyID, attribution.IncomeEventID)
		if err != nil {
			return err
		}

		snapshot := attribution.Snapshot()

		if err := income.ApplyAttribution(live.Amount.Neg()); err != nil {
			return err
		}

		if err := income.SaveAllocation(tx); err != nil {
			return err
		}

		if err := attribution.Tombstone(e.now(), scope.ActorID); err != nil {
			return err
		}

		if err := attribution.SaveTombstone(tx); err != nil {
			return err
		}

		err = e.audit.Record(tx, audit.Entry{
			Scope:      scope,
			Action:     models.AuditDelete,
			EntityType: attribution.Self(),
			EntityID:   attribution.ID,
			OldValues:  snapshot.Values(),
			NewValues:  map[string]any{},
		})
		if err != nil {
			return err
		}

		result = DeleteResult{Attribution: attribution, Warnings: warnings(payment, income)}

		logHistorical(payment, income).
			Str("attribution", attribution.ID.String()).
			Str("amount", live.Amount.String()).
			Msg("deleted attribution")

		return nil
	})
	if err != nil {
		return DeleteResult{}, err
	}

	return result, nil
}

// Split attributes a payment to multiple income events at once.
//
// Either all attributions are created or none.
func (e *Engine) Split(ctx context.Context, scope Scope, paymentID uuid.UUID, entries []SplitEntry, t models.AttributionType) (attributions []models.Attribution, err error) {
	defer func() { observe("split", err) }()

	if len(entries) == 0 {
		return nil, models.InvalidArgumentError{Field: "attributions", Reason: "at least one attribution is required"}
	}

	for i, entry := range entries {
		if err := validateAmount(fmt.Sprintf("attributions[%d].amount", i), entry.Amount); err != nil {
			return nil, err
		}
	}

	if err := validateType(t); err != nil {
		return nil, err
	}

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err := lockPayment(tx, scope.FamilyID, paymentID)
		if err != nil {
			return err
		}

		if len(payment.Attributions) > 0 {
			return models.ConflictError{Reason: "the payment is already attributed, delete its attributions first"}
		}

		total := ledger.ZeroMoney
		for _, entry := range entries {
			total = total.Add(entry.Amount)
		}

		if !total.ApproxEqual(payment.Amount) || total.GreaterThan(payment.Amount) {
			return models.AmountMismatchError{Expected: payment.Amount, Actual: total}
		}

		incomes, err := lockIncomeEvents(tx, scope.FamilyID, entries)
		if err != nil {
			return err
		}

		// Entries are validated in input order, earlier entries reduce
		// the capacity of the income event for later ones.
		for _, entry := range entries {
			income, ok := incomes[entry.IncomeEventID]
			if !ok {
				return models.NotFoundError{Entity: "income event", ID: entry.IncomeEventID}
			}

			if entry.Amount.GreaterThan(income.RemainingAmount) {
				return models.CapacityError{
					Scope:     models.CapacityIncome,
					Requested: entry.Amount,
					Available: income.RemainingAmount,
				}
			}

			if err := income.ApplyAttribution(entry.Amount); err != nil {
				return err
			}
		}

		attributions = make([]models.Attribution, 0, len(entries))
		created := make([]any, 0, len(entries))
		for _, entry := range entries {
			attribution := models.Attribution{
				FamilyID:      scope.FamilyID,
				PaymentID:     payment.ID,
				IncomeEventID: entry.IncomeEventID,
				Amount:        entry.Amount,
				Type:          t,
				CreatedBy:     scope.ActorID,
				State:         models.AttributionLive,
			}

			if err := tx.Omit(clause.Associations).Create(&attribution).Error; err != nil {
				return err
			}

			attributions = append(attributions, attribution)
			created = append(created, map[string]any{
				"id":            attribution.ID,
				"incomeEventId": attribution.IncomeEventID,
				"amount":        attribution.Amount,
			})
		}

		for _, income := range sortedIncomeEvents(incomes) {
			if err := income.SaveAllocation(tx); err != nil {
				return err
			}
		}

		err = e.audit.Record(tx, audit.Entry{
			Scope:      scope,
			Action:     models.AuditCreate,
			EntityType: payment.Self(),
			EntityID:   payment.ID,
			NewValues: map[string]any{
				"paymentId":       payment.ID,
				"splitCount":      len(attributions),
				"totalAmount":     total,
				"attributionType": t,
				"attributions":    created,
			},
		})
		if err != nil {
			return err
		}

		log.Debug().
			Str("payment", payment.ID.String()).
			Int("count", len(attributions)).
			Str("total", total.String()).
			Msg("split payment")

		return nil
	})
	if err != nil {
		return nil, err
	}

	return attributions, nil
}

// lockIncomeEvents locks all income events referenced by the entries in order of their ID.
// Income events that do not exist in the family are missing from the result.
func lockIncomeEvents(tx *gorm.DB, familyID uuid.UUID, entries []SplitEntry) (map[uuid.UUID]*models.IncomeEvent, error) {
	ids := make([]uuid.UUID, 0, len(entries))
	seen := make(map[uuid.UUID]bool, len(entries))
	for _, entry := range entries {
		if !seen[entry.IncomeEventID] {
			seen[entry.IncomeEventID] = true
			ids = append(ids, entry.IncomeEventID)
		}
	}

	slices.SortFunc(ids, compareIDs)

	incomes := make(map[uuid.UUID]*models.IncomeEvent, len(ids))
	for _, id := range ids {
		income, err := lockIncomeEvent(tx, familyID, id)
		if errors.Is(err, models.ErrResourceNotFound) {
			continue
		} else if err != nil {
			return nil, err
		}

		incomes[id] = &income
	}

	return incomes, nil
}

func sortedIncomeEvents(incomes map[uuid.UUID]*models.IncomeEvent) []*models.IncomeEvent {
	sorted := make([]*models.IncomeEvent, 0, len(incomes))
	for _, income := range incomes {
		sorted = append(sorted, income)
	}

	slices.SortFunc(sorted, func(a, b *models.IncomeEvent) int {
		return compareIDs(a.ID, b.ID)
	})

	return sorted
}

// compareIDs orders IDs by their string representation.
func compareIDs(a, b uuid.UUID) int {
	return strings.Compare(a.String(), b.String())
}

func warnings(payment models.Payment, income models.IncomeEvent) []Warning {
	w := []Warning{}
	if payment.Status == models.PaymentPaid {
		w = append(w, WarningPaymentPaid)
	}

	if income.Status == models.IncomeReceived {
		w = append(w, WarningIncomeReceived)
	}

	return w
}

// logHistorical returns a warn level event when settled records are changed, a debug level event otherwise.
func logHistorical(payment models.Payment, income models.IncomeEvent) *zerolog.Event {
	if payment.Status == models.PaymentPaid || income.Status == models.IncomeReceived {
		return log.Warn().
			Str("payment", payment.ID.String()).
			Str("payment status", string(payment.Status)).
			Str("income event", income.ID.String()).
			Str("income status", string(income.Status))
	}

	return log.Debug().
		Str("payment", payment.ID.String()).
		Str("income event", income.ID.String())
}
