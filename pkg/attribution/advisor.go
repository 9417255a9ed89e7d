package attribution

import (
	"context"
	"errors"
	"fmt"

	"github.com/envelope-zero/payday/internal/types"
	"github.com/envelope-zero/payday/pkg/ledger"
	"github.com/envelope-zero/payday/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/ryanuber/go-glob"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// Advisor picks and ranks income events for payments.
//
// Except for AutoAttribute, all reads are best-effort and not isolated
// from concurrent writes. Anything they return needs to be committed
// through the Engine, which validates capacity again.
type Advisor struct {
	engine *Engine
}

func NewAdvisor(engine *Engine) *Advisor {
	return &Advisor{engine: engine}
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

func (c Confidence) rank() int {
	switch c {
	case ConfidenceHigh:
		return 0
	case ConfidenceMedium:
		return 1
	default:
		return 2
	}
}

type Suggestion struct {
	IncomeEventID   uuid.UUID    `json:"incomeEventId"`
	Name            string       `json:"name"`
	ScheduledDate   types.Date   `json:"scheduledDate"`
	AvailableAmount ledger.Money `json:"availableAmount"`
	SuggestedAmount ledger.Money `json:"suggestedAmount"`
	Confidence      Confidence   `json:"confidence"`
}

type SuggestOptions struct {
	Name string // Glob pattern for the name of the income event, e.g. "Salary*"
}

type ProposedAttribution struct {
	IncomeEventID uuid.UUID    `json:"incomeEventId"`
	Amount        ledger.Money `json:"amount"`
}

type CapacityReport struct {
	IsValid       bool         `json:"isValid"`
	Errors        []string     `json:"errors"`
	TotalProposed ledger.Money `json:"totalProposed"`
	PaymentAmount ledger.Money `json:"paymentAmount"`
}

// byDate orders income events by scheduled date, then by ID.
func byDate(a, b models.IncomeEvent) int {
	if a.ScheduledDate.Before(b.ScheduledDate) {
		return -1
	}

	if a.ScheduledDate.After(b.ScheduledDate) {
		return 1
	}

	return compareIDs(a.ID, b.ID)
}

// AutoAttribute attributes the full payment amount to the earliest scheduled
// income event that covers it before the due date.
//
// If no income event qualifies, it returns nil and no error.
func (a *Advisor) AutoAttribute(ctx context.Context, scope Scope, paymentID uuid.UUID) (attribution *models.Attribution, err error) {
	defer func() { observe("auto_attribute", err) }()

	err = a.engine.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err := lockPayment(tx, scope.FamilyID, paymentID)
		if err != nil {
			return err
		}

		if len(payment.Attributions) > 0 {
			return models.ConflictError{Reason: "the payment is already attributed"}
		}

		if !payment.Amount.IsPositive() {
			return nil
		}

		incomes, err := scheduledIncomeEvents(tx, scope.FamilyID)
		if err != nil {
			return err
		}

		candidates := make([]models.IncomeEvent, 0, len(incomes))
		for _, income := range incomes {
			if income.RemainingAmount.GreaterThanOrEqual(payment.Amount) && !income.ScheduledDate.After(payment.DueDate) {
				candidates = append(candidates, income)
			}
		}

		if len(candidates) == 0 {
			log.Debug().Str("payment", payment.ID.String()).Msg("no income event qualifies for auto attribution")
			return nil
		}

		slices.SortFunc(candidates, byDate)
		selected := candidates[0]

		created, err := a.engine.create(tx, scope, CreateInput{
			PaymentID:     payment.ID,
			IncomeEventID: selected.ID,
			Amount:        payment.Amount,
			Type:          models.AttributionAutomatic,
		})
		if err != nil {
			return err
		}

		attribution = &created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return attribution, nil
}

// Suggest ranks all scheduled income events of the family for the payment.
//
// Suggestions are ordered by confidence. Within the same confidence, they are
// ordered by scheduled date, then by ID.
func (a *Advisor) Suggest(ctx context.Context, familyID, paymentID uuid.UUID, options SuggestOptions) ([]Suggestion, error) {
	db := a.engine.db.WithContext(ctx)

	payment, err := getPayment(db, familyID, paymentID)
	if err != nil {
		return nil, err
	}

	incomes, err := scheduledIncomeEvents(db, familyID)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(incomes, byDate)

	suggestions := make([]Suggestion, 0, len(incomes))
	for _, income := range incomes {
		if options.Name != "" && !glob.Glob(options.Name, income.Name) {
			continue
		}

		suggestions = append(suggestions, Suggestion{
			IncomeEventID:   income.ID,
			Name:            income.Name,
			ScheduledDate:   income.ScheduledDate,
			AvailableAmount: income.RemainingAmount,
			SuggestedAmount: income.RemainingAmount.Min(payment.Amount),
			Confidence:      confidence(payment, income),
		})
	}

	slices.SortStableFunc(suggestions, func(a, b Suggestion) int {
		return a.Confidence.rank() - b.Confidence.rank()
	})

	return suggestions, nil
}

func confidence(payment models.Payment, income models.IncomeEvent) Confidence {
	remaining := income.RemainingAmount

	if !income.ScheduledDate.After(payment.DueDate) && remaining.GreaterThanOrEqual(payment.Amount) {
		return ConfidenceHigh
	}

	// remaining >= amount * 0.5, without leaving exact arithmetic
	if remaining.Add(remaining).GreaterThanOrEqual(payment.Amount) {
		return ConfidenceMedium
	}

	return ConfidenceLow
}

// ValidateCapacity checks proposed attributions for a payment without writing anything.
// All problems are collected instead of stopping at the first one.
func (a *Advisor) ValidateCapacity(ctx context.Context, familyID, paymentID uuid.UUID, proposed []ProposedAttribution) (report CapacityReport, err error) {
	defer func() { observe("validate_capacity", err) }()

	if len(proposed) == 0 {
		return CapacityReport{}, models.InvalidArgumentError{Field: "attributions", Reason: "at least one attribution is required"}
	}

	db := a.engine.db.WithContext(ctx)

	payment, err := getPayment(db, familyID, paymentID)
	if err != nil {
		return CapacityReport{}, err
	}

	report = CapacityReport{
		Errors:        []string{},
		TotalProposed: ledger.ZeroMoney,
		PaymentAmount: payment.Amount,
	}

	// Amounts per income event, in order of first appearance
	order := []uuid.UUID{}
	perIncome := map[uuid.UUID]ledger.Money{}

	for i, p := range proposed {
		report.TotalProposed = report.TotalProposed.Add(p.Amount)

		if !p.Amount.IsPositive() {
			report.Errors = append(report.Errors, fmt.Sprintf("attribution %d: the amount must be larger than zero, is %s", i+1, p.Amount))
			continue
		}

		if _, ok := perIncome[p.IncomeEventID]; !ok {
			order = append(order, p.IncomeEventID)
		}
		perIncome[p.IncomeEventID] = perIncome[p.IncomeEventID].Add(p.Amount)
	}

	for _, id := range order {
		var income models.IncomeEvent
		err := db.Where("family_id = ?", familyID).First(&income, "id = ?", id).Error
		if err != nil {
			if err = notFound(err, "income event", id); errors.Is(err, models.ErrResourceNotFound) {
				report.Errors = append(report.Errors, fmt.Sprintf("there is no income event with ID %s", id))
				continue
			}
			return CapacityReport{}, err
		}

		if perIncome[id].GreaterThan(income.RemainingAmount) {
			report.Errors = append(report.Errors, fmt.Sprintf("income event %s: %s proposed, but only %s remaining", id, perIncome[id], income.RemainingAmount))
		}
	}

	attributed := payment.Attributed()
	if attributed.Add(report.TotalProposed).GreaterThan(payment.Amount) {
		report.Errors = append(report.Errors, fmt.Sprintf("payment: %s already attributed and %s proposed, but the payment amount is %s", attributed, report.TotalProposed, payment.Amount))
	}

	report.IsValid = len(report.Errors) == 0
	return report, nil
}
