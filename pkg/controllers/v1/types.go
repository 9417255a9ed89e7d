package v1

import (
	"github.com/envelope-zero/payday/pkg/allocation"
	"github.com/envelope-zero/payday/pkg/attribution"
	"github.com/envelope-zero/payday/pkg/ledger"
	"github.com/envelope-zero/payday/pkg/models"
	"github.com/google/uuid"
)

type AttributionCreate struct {
	PaymentID       uuid.UUID              `json:"paymentId" example:"4e743e94-6a4b-44d6-aba5-d77c87103ff7"`
	IncomeEventID   uuid.UUID              `json:"incomeEventId" example:"1e777d24-3f5b-4c43-8000-04f65f895578"`
	Amount          ledger.Money           `json:"amount" example:"500.00"`
	AttributionType models.AttributionType `json:"attributionType" example:"manual"` // Defaults to manual
}

func (a AttributionCreate) input() attribution.CreateInput {
	t := a.AttributionType
	if t == "" {
		t = models.AttributionManual
	}

	return attribution.CreateInput{
		PaymentID:     a.PaymentID,
		IncomeEventID: a.IncomeEventID,
		Amount:        a.Amount,
		Type:          t,
	}
}

type AttributionUpdate struct {
	Amount ledger.Money `json:"amount" example:"600.00"`
}

type AttributionResponse struct {
	Data models.Attribution `json:"data"`
}

type AttributionListResponse struct {
	Data []models.Attribution `json:"data"`
}

type AttributionDeleteResponse struct {
	Data     models.Attribution    `json:"data"`
	Warnings []attribution.Warning `json:"warnings"`
}

type SplitEntry struct {
	IncomeEventID uuid.UUID    `json:"incomeEventId"`
	Amount        ledger.Money `json:"amount"`
}

type Split struct {
	Attributions    []SplitEntry           `json:"attributions"`
	AttributionType models.AttributionType `json:"attributionType" example:"manual"` // Defaults to manual
}

func (s Split) entries() []attribution.SplitEntry {
	entries := make([]attribution.SplitEntry, 0, len(s.Attributions))
	for _, e := range s.Attributions {
		entries = append(entries, attribution.SplitEntry{IncomeEventID: e.IncomeEventID, Amount: e.Amount})
	}
	return entries
}

func (s Split) attributionType() models.AttributionType {
	if s.AttributionType == "" {
		return models.AttributionManual
	}
	return s.AttributionType
}

type SuggestionQueryFilter struct {
	Name string `form:"name" example:"Salary*"` // Glob pattern for the income event name
}

type SuggestionListResponse struct {
	Data []attribution.Suggestion `json:"data"`
}

type CapacityCheck struct {
	Attributions []attribution.ProposedAttribution `json:"attributions"`
}

type CapacityResponse struct {
	Data attribution.CapacityReport `json:"data"`
}

type PercentageValidation struct {
	Categories []allocation.CategoryPercentage `json:"categories"`
}

type PercentageResponse struct {
	Data allocation.PercentageReport `json:"data"`
}

type Allocations struct {
	Allocations []allocation.ProposedAllocation `json:"allocations"`
}

type AllocationValidationResponse struct {
	Data allocation.AllocationReport `json:"data"`
}

type AllocationListResponse struct {
	Data []models.BudgetAllocation `json:"data"`
}

type DerivedAllocationsResponse struct {
	Data []allocation.ProposedAllocation `json:"data"`
}

type AuditRecordQueryFilter struct {
	Entity     string `form:"entity" example:"1e777d24-3f5b-4c43-8000-04f65f895578"` // ID of the entity
	EntityType string `form:"entityType" example:"attribution"`
	Limit      int    `form:"limit" example:"50"` // Maximum number of records. Defaults to 100
}

type AuditRecordListResponse struct {
	Data []models.AuditRecord `json:"data"`
}
