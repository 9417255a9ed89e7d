// Package allocation divides income events across budget categories.
//
// The validators are pure functions. Service persists validated allocations
// for an income event.
package allocation

import (
	"fmt"

	"github.com/envelope-zero/payday/pkg/ledger"
	"github.com/envelope-zero/payday/pkg/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CategoryPercentage struct {
	ID               uuid.UUID         `json:"id"`
	TargetPercentage ledger.Percentage `json:"targetPercentage"`
}

type PercentageSuggestion struct {
	CategoryID          uuid.UUID         `json:"categoryId"`
	CurrentPercentage   ledger.Percentage `json:"currentPercentage"`
	SuggestedPercentage ledger.Percentage `json:"suggestedPercentage"`
}

type PercentageReport struct {
	IsValid         bool                   `json:"isValid"`
	TotalPercentage ledger.Percentage      `json:"totalPercentage"`
	Difference      ledger.Percentage      `json:"difference"`
	Suggestions     []PercentageSuggestion `json:"suggestions"`
}

// ValidatePercentages checks that the target percentages of the categories add up to 100.
//
// If they do not, it suggests percentages with the same proportions that do.
// Malformed input is an error, not an invalid report.
func ValidatePercentages(categories []CategoryPercentage) (PercentageReport, error) {
	if len(categories) == 0 {
		return PercentageReport{}, models.InvalidArgumentError{Field: "categories", Reason: "at least one category is required"}
	}

	seen := make(map[uuid.UUID]bool, len(categories))
	for _, c := range categories {
		if seen[c.ID] {
			return PercentageReport{}, models.InvalidArgumentError{Field: "categories", Reason: fmt.Sprintf("category %s is listed more than once", c.ID)}
		}
		seen[c.ID] = true

		if !c.TargetPercentage.InRange() {
			return PercentageReport{}, models.InvalidArgumentError{Field: "targetPercentage", Reason: fmt.Sprintf("must be between 0 and 100, is %s for category %s", c.TargetPercentage, c.ID)}
		}
	}

	total := ledger.ZeroPercentage
	for _, c := range categories {
		total = total.Add(c.TargetPercentage)
	}

	report := PercentageReport{
		IsValid:         total.ApproxEqual(ledger.HundredPercentage),
		TotalPercentage: total,
		Difference:      total.Sub(ledger.HundredPercentage),
		Suggestions:     []PercentageSuggestion{},
	}

	if report.IsValid {
		return report, nil
	}

	report.Suggestions = suggest(categories, total)
	return report, nil
}

// suggest rescales the percentages proportionally so that they sum up to exactly 100.
func suggest(categories []CategoryPercentage, total ledger.Percentage) []PercentageSuggestion {
	hundred := ledger.HundredPercentage.Decimal()
	suggestions := make([]PercentageSuggestion, 0, len(categories))

	for _, c := range categories {
		var suggested ledger.Percentage
		if total.IsZero() {
			suggested = ledger.PercentageFromDecimal(hundred.Div(decimal.NewFromInt(int64(len(categories)))))
		} else {
			suggested = ledger.PercentageFromDecimal(c.TargetPercentage.Decimal().Mul(hundred).Div(total.Decimal())).Clamp()
		}

		suggestions = append(suggestions, PercentageSuggestion{
			CategoryID:          c.ID,
			CurrentPercentage:   c.TargetPercentage,
			SuggestedPercentage: suggested,
		})
	}

	// Rounding can leave a residue of a few hundredths, it goes to the largest suggestion
	sum := ledger.ZeroPercentage
	largest := 0
	for i, s := range suggestions {
		sum = sum.Add(s.SuggestedPercentage)
		if s.SuggestedPercentage.GreaterThan(suggestions[largest].SuggestedPercentage) {
			largest = i
		}
	}

	residue := ledger.HundredPercentage.Sub(sum)
	suggestions[largest].SuggestedPercentage = suggestions[largest].SuggestedPercentage.Add(residue)

	return suggestions
}

type ProposedAllocation struct {
	BudgetCategoryID uuid.UUID         `json:"budgetCategoryId"`
	Amount           ledger.Money      `json:"amount"`
	Percentage       ledger.Percentage `json:"percentage"`
}

type AllocationReport struct {
	IsValid         bool              `json:"isValid"`
	Errors          []string          `json:"errors"`
	TotalPercentage ledger.Percentage `json:"totalPercentage"`
	TotalAmount     ledger.Money      `json:"totalAmount"`
}

// ValidateBudgetAllocations checks a division of an income event's amount.
// All problems are collected instead of stopping at the first one.
func ValidateBudgetAllocations(incomeEventID uuid.UUID, incomeAmount ledger.Money, allocations []ProposedAllocation) AllocationReport {
	report := AllocationReport{
		Errors:          []string{},
		TotalPercentage: ledger.ZeroPercentage,
		TotalAmount:     ledger.ZeroMoney,
	}

	seen := make(map[uuid.UUID]bool, len(allocations))
	for _, a := range allocations {
		report.TotalPercentage = report.TotalPercentage.Add(a.Percentage)
		report.TotalAmount = report.TotalAmount.Add(a.Amount)

		if seen[a.BudgetCategoryID] {
			report.Errors = append(report.Errors, fmt.Sprintf("budget category %s: allocated more than once", a.BudgetCategoryID))
		}
		seen[a.BudgetCategoryID] = true

		if !a.Percentage.InRange() {
			report.Errors = append(report.Errors, fmt.Sprintf("budget category %s: the percentage must be between 0 and 100, is %s", a.BudgetCategoryID, a.Percentage))
		}

		if a.Amount.IsNegative() {
			report.Errors = append(report.Errors, fmt.Sprintf("budget category %s: the amount must not be negative, is %s", a.BudgetCategoryID, a.Amount))
		}

		if expected := incomeAmount.Percent(a.Percentage); !a.Amount.ApproxEqual(expected) {
			report.Errors = append(report.Errors, fmt.Sprintf("budget category %s: %s%% of %s is %s, but the amount is %s", a.BudgetCategoryID, a.Percentage, incomeAmount, expected, a.Amount))
		}
	}

	if !report.TotalPercentage.ApproxEqual(ledger.HundredPercentage) {
		report.Errors = append(report.Errors, fmt.Sprintf("income event %s: the percentages add up to %s, not 100", incomeEventID, report.TotalPercentage))
	}

	if !report.TotalAmount.ApproxEqual(incomeAmount) {
		report.Errors = append(report.Errors, fmt.Sprintf("income event %s: the amounts add up to %s, not %s", incomeEventID, report.TotalAmount, incomeAmount))
	}

	report.IsValid = len(report.Errors) == 0
	return report
}

// Derive divides an income across the active categories by their target percentage.
//
// Amounts are rounded to cents. The rounding residue goes to the last active category.
func Derive(incomeAmount ledger.Money, categories []models.BudgetCategory) []ProposedAllocation {
	allocations := []ProposedAllocation{}
	total := ledger.ZeroPercentage
	allocated := ledger.ZeroMoney

	for _, c := range categories {
		if !c.IsActive {
			continue
		}

		amount := incomeAmount.Percent(c.TargetPercentage)
		allocations = append(allocations, ProposedAllocation{
			BudgetCategoryID: c.ID,
			Amount:           amount,
			Percentage:       c.TargetPercentage,
		})

		total = total.Add(c.TargetPercentage)
		allocated = allocated.Add(amount)
	}

	if len(allocations) == 0 {
		return allocations
	}

	last := &allocations[len(allocations)-1]
	last.Amount = last.Amount.Add(incomeAmount.Percent(total).Sub(allocated))

	return allocations
}
