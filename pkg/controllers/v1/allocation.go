package v1

import (
	"net/http"

	"github.com/envelope-zero/payday/pkg/allocation"
	"github.com/envelope-zero/payday/pkg/httputil"
	"github.com/gin-gonic/gin"
)

func (co Controller) RegisterBudgetCategoryRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/validation", httputil.OptionsPost)
	r.POST("/validation", ValidatePercentages)
}

func (co Controller) RegisterIncomeEventRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:id/allocations", httputil.OptionsGetPut)
	r.GET("/:id/allocations", co.GetAllocations)
	r.PUT("/:id/allocations", co.ReplaceAllocations)

	r.OPTIONS("/:id/allocations/validation", httputil.OptionsPost)
	r.POST("/:id/allocations/validation", co.ValidateAllocations)

	r.OPTIONS("/:id/allocations/derivation", httputil.OptionsGet)
	r.GET("/:id/allocations/derivation", co.DeriveAllocations)
}

// @Summary		Validate category percentages
// @Description	Checks that the target percentages add up to 100 and suggests corrected ones if they do not
// @Tags			Budget Categories
// @Produce		json
// @Success		200			{object}	PercentageResponse
// @Failure		400			{object}	httputil.HTTPError
// @Param			categories	body		PercentageValidation	true	"Categories"
// @Router			/v1/budget-categories/validation [post]
func ValidatePercentages(c *gin.Context) {
	if _, ok := requestScope(c); !ok {
		return
	}

	var validation PercentageValidation
	if err := httputil.BindData(c, &validation); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	if err := httputil.CheckEntries(len(validation.Categories)); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	report, err := allocation.ValidatePercentages(validation.Categories)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, PercentageResponse{Data: report})
}

// @Summary		Validate allocations
// @Description	Checks a division of the income event across budget categories without saving it
// @Tags			Income Events
// @Produce		json
// @Success		200			{object}	AllocationValidationResponse
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Failure		500			{object}	httputil.HTTPError
// @Param			id			path		string		true	"ID formatted as string"
// @Param			allocations	body		Allocations	true	"Allocations"
// @Router			/v1/income-events/{id}/allocations/validation [post]
func (co Controller) ValidateAllocations(c *gin.Context) {
	scope, id, ok := scopeAndID(c)
	if !ok {
		return
	}

	var allocations Allocations
	if err := httputil.BindData(c, &allocations); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	if err := httputil.CheckEntries(len(allocations.Allocations)); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	income, err := co.Allocations.IncomeEvent(c.Request.Context(), scope.FamilyID, id)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, AllocationValidationResponse{
		Data: allocation.ValidateBudgetAllocations(income.ID, income.Amount, allocations.Allocations),
	})
}

// @Summary		Get allocations
// @Description	Returns the budget allocations of an income event
// @Tags			Income Events
// @Produce		json
// @Success		200	{object}	AllocationListResponse
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/income-events/{id}/allocations [get]
func (co Controller) GetAllocations(c *gin.Context) {
	scope, id, ok := scopeAndID(c)
	if !ok {
		return
	}

	allocations, err := co.Allocations.List(c.Request.Context(), scope.FamilyID, id)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, AllocationListResponse{Data: allocations})
}

// @Summary		Replace allocations
// @Description	Validates the allocations and replaces all allocations of the income event with them
// @Tags			Income Events
// @Produce		json
// @Success		200			{object}	AllocationListResponse
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Failure		500			{object}	httputil.HTTPError
// @Param			id			path		string		true	"ID formatted as string"
// @Param			allocations	body		Allocations	true	"Allocations"
// @Router			/v1/income-events/{id}/allocations [put]
func (co Controller) ReplaceAllocations(c *gin.Context) {
	scope, id, ok := scopeAndID(c)
	if !ok {
		return
	}

	var allocations Allocations
	if err := httputil.BindData(c, &allocations); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	if err := httputil.CheckEntries(len(allocations.Allocations)); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	created, err := co.Allocations.Replace(c.Request.Context(), scope, id, allocations.Allocations)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, AllocationListResponse{Data: created})
}

// @Summary		Derive allocations
// @Description	Proposes allocations for the income event from the target percentages of the active budget categories
// @Tags			Income Events
// @Produce		json
// @Success		200	{object}	DerivedAllocationsResponse
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/income-events/{id}/allocations/derivation [get]
func (co Controller) DeriveAllocations(c *gin.Context) {
	scope, id, ok := scopeAndID(c)
	if !ok {
		return
	}

	proposed, err := co.Allocations.Derive(c.Request.Context(), scope.FamilyID, id)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, DerivedAllocationsResponse{Data: proposed})
}
