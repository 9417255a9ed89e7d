package v1

import (
	"net/http"

	"github.com/envelope-zero/payday/pkg/audit"
	"github.com/envelope-zero/payday/pkg/httputil"
	"github.com/envelope-zero/payday/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (co Controller) RegisterAuditRecordRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", co.GetAuditRecords)
}

// @Summary		Get audit records
// @Description	Returns the audit log of the family, newest first
// @Tags			Audit Records
// @Produce		json
// @Success		200			{object}	AuditRecordListResponse
// @Failure		400			{object}	httputil.HTTPError
// @Failure		500			{object}	httputil.HTTPError
// @Param			entity		query		string	false	"Filter by entity ID"
// @Param			entityType	query		string	false	"Filter by entity type"
// @Param			limit		query		int		false	"Maximum number of records to return. Defaults to 100."
// @Router			/v1/audit-records [get]
func (co Controller) GetAuditRecords(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	var filter AuditRecordQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.ErrorHandler(c, models.InvalidArgumentError{Field: "query", Reason: err.Error()})
		return
	}

	entityID := uuid.Nil
	if filter.Entity != "" {
		id, err := httputil.UUIDFromString(filter.Entity)
		if err != nil {
			httputil.ErrorHandler(c, err)
			return
		}
		entityID = id
	}

	records, err := co.Audit.List(c.Request.Context(), co.DB, scope.FamilyID, audit.Filter{
		EntityID:   entityID,
		EntityType: filter.EntityType,
		Limit:      filter.Limit,
	})
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, AuditRecordListResponse{Data: records})
}
