package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/consolahealth/studenthealth/internal/app/charts"
	"github.com/consolahealth/studenthealth/internal/app/models/dto"
	"github.com/consolahealth/studenthealth/internal/app/services"
	"github.com/consolahealth/studenthealth/internal/middleware"
)

// DashboardController serves the health dashboard
type DashboardController struct {
	dashboardService services.DashboardService
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService services.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// Dashboard returns the summary figures and chart data
// @Summary Health dashboard
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse}
// @Router /dashboard [get]
func (c *DashboardController) Dashboard(ctx *gin.Context) {
	dashboard, err := c.dashboardService.Dashboard(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dashboard))
}

// DashboardChart renders the dashboard charts as an HTML page
// @Summary Health dashboard charts
// @Tags dashboard
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /dashboard/chart [get]
func (c *DashboardController) DashboardChart(ctx *gin.Context) {
	dashboard, err := c.dashboardService.Dashboard(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var buf bytes.Buffer
	if err := charts.RenderDashboard(&buf, dashboard); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, htmlContentType, buf.Bytes())
}
