// Package v1 implements the HTTP handlers for the v1 API.
//
// All endpoints are scoped to the family in the X-Family-ID header. Mutations
// are recorded for the actor in the X-Actor-ID header.
package v1

import (
	"net/http"

	"github.com/envelope-zero/payday/pkg/allocation"
	"github.com/envelope-zero/payday/pkg/attribution"
	"github.com/envelope-zero/payday/pkg/audit"
	"github.com/envelope-zero/payday/pkg/httputil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Controller struct {
	DB          *gorm.DB
	Engine      *attribution.Engine
	Advisor     *attribution.Advisor
	Allocations *allocation.Service
	Audit       audit.Store
}

// New wires all services to the database.
func New(db *gorm.DB) Controller {
	store := audit.NewStore()
	engine := attribution.NewEngine(db, store)

	return Controller{
		DB:          db,
		Engine:      engine,
		Advisor:     attribution.NewAdvisor(engine),
		Allocations: allocation.NewService(db, store),
		Audit:       store,
	}
}

// RegisterRoutes registers all v1 routes on the group.
func (co Controller) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", Get)
	r.OPTIONS("", httputil.OptionsGet)

	co.RegisterAttributionRoutes(r.Group("/attributions"))
	co.RegisterPaymentRoutes(r.Group("/payments"))
	co.RegisterBudgetCategoryRoutes(r.Group("/budget-categories"))
	co.RegisterIncomeEventRoutes(r.Group("/income-events"))
	co.RegisterAuditRecordRoutes(r.Group("/audit-records"))
}

type Response struct {
	Links Links `json:"links"`
}

type Links struct {
	Attributions string `json:"attributions" example:"https://example.com/api/v1/attributions"`
	AuditRecords string `json:"auditRecords" example:"https://example.com/api/v1/audit-records"`
}

// @Summary		v1 API
// @Description	Returns general information about the v1 API
// @Tags			v1
// @Success		200	{object}	Response
// @Router			/v1 [get]
func Get(c *gin.Context) {
	url := c.GetString(httputil.ContextURL)

	c.JSON(http.StatusOK, Response{
		Links: Links{
			Attributions: url + "/v1/attributions",
			AuditRecords: url + "/v1/audit-records",
		},
	})
}

// scopeAndID reads the scope from the headers and the ID from the path.
// If either is invalid, the error response has already been sent.
func scopeAndID(c *gin.Context) (attribution.Scope, uuid.UUID, bool) {
	scope, err := httputil.Scope(c)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return attribution.Scope{}, uuid.Nil, false
	}

	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		httputil.ErrorHandler(c, err)
		return attribution.Scope{}, uuid.Nil, false
	}

	return scope, id, true
}

func requestScope(c *gin.Context) (attribution.Scope, bool) {
	s, err := httputil.Scope(c)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return attribution.Scope{}, false
	}

	return s, true
}
