package v1

import (
	"net/http"

	"github.com/envelope-zero/payday/pkg/attribution"
	"github.com/envelope-zero/payday/pkg/httputil"
	"github.com/gin-gonic/gin"
)

func (co Controller) RegisterAttributionRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", httputil.OptionsPost)
		r.POST("", co.CreateAttribution)
	}
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetAttribution)
		r.PATCH("/:id", co.UpdateAttribution)
		r.DELETE("/:id", co.DeleteAttribution)
	}
}

// @Summary		Create attribution
// @Description	Attributes a part of an income event to a payment
// @Tags			Attributions
// @Produce		json
// @Success		201			{object}	AttributionResponse
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Failure		422			{object}	httputil.HTTPError
// @Failure		500			{object}	httputil.HTTPError
// @Param			attribution	body		AttributionCreate	true	"Attribution"
// @Router			/v1/attributions [post]
func (co Controller) CreateAttribution(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	var create AttributionCreate
	if err := httputil.BindData(c, &create); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	a, err := co.Engine.Create(c.Request.Context(), scope, create.input())
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, AttributionResponse{Data: a})
}

// @Summary		Get attribution
// @Description	Returns a specific attribution, including deleted ones
// @Tags			Attributions
// @Produce		json
// @Success		200	{object}	AttributionResponse
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/attributions/{id} [get]
func (co Controller) GetAttribution(c *gin.Context) {
	scope, id, ok := scopeAndID(c)
	if !ok {
		return
	}

	a, err := co.Engine.Get(c.Request.Context(), scope.FamilyID, id)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, AttributionResponse{Data: a})
}

// @Summary		Update attribution
// @Description	Changes the amount of an attribution
// @Tags			Attributions
// @Produce		json
// @Success		200			{object}	AttributionResponse
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Failure		409			{object}	httputil.HTTPError
// @Failure		422			{object}	httputil.HTTPError
// @Failure		500			{object}	httputil.HTTPError
// @Param			id			path		string				true	"ID formatted as string"
// @Param			attribution	body		AttributionUpdate	true	"Attribution"
// @Router			/v1/attributions/{id} [patch]
func (co Controller) UpdateAttribution(c *gin.Context) {
	scope, id, ok := scopeAndID(c)
	if !ok {
		return
	}

	var update AttributionUpdate
	if err := httputil.BindData(c, &update); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	a, err := co.Engine.Update(c.Request.Context(), scope, id, update.Amount)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, AttributionResponse{Data: a})
}

// @Summary		Delete attribution
// @Description	Deletes an attribution and returns the amount to the income event.
// @Description	If the payment is paid or the income event received, warnings are returned.
// @Tags			Attributions
// @Produce		json
// @Success		200	{object}	AttributionDeleteResponse
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		409	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/attributions/{id} [delete]
func (co Controller) DeleteAttribution(c *gin.Context) {
	scope, id, ok := scopeAndID(c)
	if !ok {
		return
	}

	result, err := co.Engine.Delete(c.Request.Context(), scope, id)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	warnings := result.Warnings
	if warnings == nil {
		warnings = []attribution.Warning{}
	}

	c.JSON(http.StatusOK, AttributionDeleteResponse{
		Data:     result.Attribution,
		Warnings: warnings,
	})
}
