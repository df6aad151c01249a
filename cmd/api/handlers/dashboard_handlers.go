package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	_ "pastas-console/analytics"
	"pastas-console/cmd/api/services"
	"pastas-console/pagination"
)

// GetDashboardHandler godoc
// @Summary      Production dashboard
// @Description  Production by quarter, irregularities by area/product and waste percentages
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  analytics.Dashboard
// @Router       /dashboard [get]
func GetDashboardHandler(svc *services.DashboardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svc.Get(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

// RefreshDashboardHandler godoc
// @Summary      Regenerate dashboard data
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  analytics.Dashboard
// @Router       /dashboard/refresh [post]
func RefreshDashboardHandler(svc *services.DashboardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svc.Refresh(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

// ListAuditEventsHandler godoc
// @Summary      Console audit log
// @Description  Mutations recorded by the auditor, newest first
// @Tags         auditoria
// @Param        page       query  int     false  "Page number (1-based)"
// @Param        page_size  query  int     false  "Page size (5, 10, 20, 50)"
// @Param        search     query  string  false  "Event type or subject"
// @Produce      json
// @Success      200  {object}  dto.PaginationAuditEventDTO
// @Failure      503  {object}  dto.ErrorResponseDTO
// @Router       /auditoria [get]
func ListAuditEventsHandler(svc *services.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := pagination.ParseQuery(c.Request.URL.Query(), pagination.ParamSearch)
		if err != nil {
			respondError(c, err)
			return
		}
		page, err := svc.List(c.Request.Context(), q)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}
