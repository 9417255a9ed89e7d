package v1

import (
	"net/http"

	"github.com/envelope-zero/payday/pkg/attribution"
	"github.com/envelope-zero/payday/pkg/httputil"
	"github.com/envelope-zero/payday/pkg/models"
	"github.com/gin-gonic/gin"
)

func (co Controller) RegisterPaymentRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:id/split", httputil.OptionsPost)
	r.POST("/:id/split", co.SplitPayment)

	r.OPTIONS("/:id/auto-attribution", httputil.OptionsPost)
	r.POST("/:id/auto-attribution", co.AutoAttributePayment)

	r.OPTIONS("/:id/suggestions", httputil.OptionsGet)
	r.GET("/:id/suggestions", co.GetSuggestions)

	r.OPTIONS("/:id/capacity", httputil.OptionsPost)
	r.POST("/:id/capacity", co.ValidateCapacity)
}

// @Summary		Split payment
// @Description	Attributes a payment to several income events at once. The amounts must add up to the payment amount.
// @Tags			Payments
// @Produce		json
// @Success		201		{object}	AttributionListResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		404		{object}	httputil.HTTPError
// @Failure		409		{object}	httputil.HTTPError
// @Failure		422		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			id		path		string	true	"ID formatted as string"
// @Param			split	body		Split	true	"Split"
// @Router			/v1/payments/{id}/split [post]
func (co Controller) SplitPayment(c *gin.Context) {
	scope, id, ok := scopeAndID(c)
	if !ok {
		return
	}

	var split Split
	if err := httputil.BindData(c, &split); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	if err := httputil.CheckEntries(len(split.Attributions)); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	attributions, err := co.Engine.Split(c.Request.Context(), scope, id, split.entries(), split.attributionType())
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, AttributionListResponse{Data: attributions})
}

// @Summary		Auto-attribute payment
// @Description	Attributes the payment to the earliest scheduled income event that covers it before the due date.
// @Description	If no income event qualifies, nothing is attributed and 204 is returned.
// @Tags			Payments
// @Produce		json
// @Success		201	{object}	AttributionResponse
// @Success		204
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		409	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/payments/{id}/auto-attribution [post]
func (co Controller) AutoAttributePayment(c *gin.Context) {
	scope, id, ok := scopeAndID(c)
	if !ok {
		return
	}

	a, err := co.Advisor.AutoAttribute(c.Request.Context(), scope, id)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	if a == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusCreated, AttributionResponse{Data: *a})
}

// @Summary		Get suggestions
// @Description	Ranks the scheduled income events of the family for the payment.
// @Description	Suggestions are not reserved, they can be outdated when used.
// @Tags			Payments
// @Produce		json
// @Success		200		{object}	SuggestionListResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		404		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			id		path		string	true	"ID formatted as string"
// @Param			name	query		string	false	"Glob pattern for the name of the income event"
// @Router			/v1/payments/{id}/suggestions [get]
func (co Controller) GetSuggestions(c *gin.Context) {
	scope, id, ok := scopeAndID(c)
	if !ok {
		return
	}

	var filter SuggestionQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.ErrorHandler(c, models.InvalidArgumentError{Field: "query", Reason: err.Error()})
		return
	}

	suggestions, err := co.Advisor.Suggest(c.Request.Context(), scope.FamilyID, id, attribution.SuggestOptions{Name: filter.Name})
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, SuggestionListResponse{Data: suggestions})
}

// @Summary		Validate capacity
// @Description	Checks proposed attributions for a payment without saving them. All problems are reported.
// @Tags			Payments
// @Produce		json
// @Success		200				{object}	CapacityResponse
// @Failure		400				{object}	httputil.HTTPError
// @Failure		404				{object}	httputil.HTTPError
// @Failure		500				{object}	httputil.HTTPError
// @Param			id				path		string			true	"ID formatted as string"
// @Param			attributions	body		CapacityCheck	true	"Proposed attributions"
// @Router			/v1/payments/{id}/capacity [post]
func (co Controller) ValidateCapacity(c *gin.Context) {
	scope, id, ok := scopeAndID(c)
	if !ok {
		return
	}

	var check CapacityCheck
	if err := httputil.BindData(c, &check); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	if err := httputil.CheckEntries(len(check.Attributions)); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	report, err := co.Advisor.ValidateCapacity(c.Request.Context(), scope.FamilyID, id, check.Attributions)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, CapacityResponse{Data: report})
}
