package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/consolahealth/studenthealth/internal/app/export"
	"github.com/consolahealth/studenthealth/internal/app/models/dto"
	"github.com/consolahealth/studenthealth/internal/app/services"
	"github.com/consolahealth/studenthealth/internal/middleware"
)

// HealthRecordController handles the checkup endpoints
type HealthRecordController struct {
	healthRecordService services.HealthRecordService
}

// NewHealthRecordController creates a new HealthRecordController
func NewHealthRecordController(healthRecordService services.HealthRecordService) *HealthRecordController {
	return &HealthRecordController{healthRecordService: healthRecordService}
}

// ListHealthRecords lists checkups across all students
// @Summary List health records
// @Tags health-records
// @Produce json
// @Param search query string false "Matches student name or student number"
// @Param course query string false "Department code"
// @Param year query string false "School year"
// @Param category query string false "underweight, normal, overweight or obese"
// @Param sort query string false "Comma-separated columns, '-' prefix for descending"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.HealthRecordListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Router /health-records [get]
func (c *HealthRecordController) ListHealthRecords(ctx *gin.Context) {
	var req dto.HealthRecordFilterRequest
	if !bindListQuery(ctx, &req, &req.Page, &req.PageSize) {
		return
	}

	records, err := c.healthRecordService.ListHealthRecords(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(records))
}

// CreateHealthRecord adds a checkup for a student
// @Summary Add a health record
// @Tags health-records
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body dto.HealthRecordForm true "Checkup measurements"
// @Success 201 {object} dto.APIResponse{data=dto.HealthRecordResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /health-records [post]
func (c *HealthRecordController) CreateHealthRecord(ctx *gin.Context) {
	var form dto.HealthRecordForm
	if !bindBody(ctx, &form) {
		return
	}

	record, err := c.healthRecordService.CreateHealthRecord(ctx, form)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewMessageResponse(record, "Health record added successfully"))
}

// GetHealthRecord retrieves a checkup
// @Summary Get a health record
// @Tags health-records
// @Produce json
// @Param id path int true "Health record ID"
// @Success 200 {object} dto.APIResponse{data=dto.HealthRecordResponse}
// @Failure 404 {object} dto.ErrorResponse "Health record not found"
// @Router /health-records/{id} [get]
func (c *HealthRecordController) GetHealthRecord(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "health record")
	if !ok {
		return
	}

	record, err := c.healthRecordService.GetHealthRecord(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(record))
}

// UpdateHealthRecord edits a checkup's measurements
// @Summary Update a health record
// @Tags health-records
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param id path int true "Health record ID"
// @Param request body dto.HealthRecordForm true "Checkup measurements"
// @Success 200 {object} dto.APIResponse{data=dto.HealthRecordResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Health record not found"
// @Router /health-records/{id} [put]
func (c *HealthRecordController) UpdateHealthRecord(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "health record")
	if !ok {
		return
	}
	var form dto.HealthRecordForm
	if !bindBody(ctx, &form) {
		return
	}

	record, err := c.healthRecordService.UpdateHealthRecord(ctx, id, form)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse(record, "Health record updated successfully"))
}

// DeleteHealthRecord removes a checkup and reports its owning student
// @Summary Delete a health record
// @Tags health-records
// @Produce json
// @Param id path int true "Health record ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeleteHealthRecordResponse}
// @Failure 404 {object} dto.ErrorResponse "Health record not found"
// @Router /health-records/{id} [delete]
func (c *HealthRecordController) DeleteHealthRecord(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "health record")
	if !ok {
		return
	}

	result, err := c.healthRecordService.DeleteHealthRecord(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse(result, "Health record deleted successfully"))
}

// ExportHealthRecords downloads every record matching the list filters as XLSX
// @Summary Export health records
// @Tags health-records
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param search query string false "Matches student name or student number"
// @Param course query string false "Department code"
// @Param year query string false "School year"
// @Param category query string false "BMI category"
// @Param sort query string false "Comma-separated columns"
// @Success 200 {file} file "XLSX workbook"
// @Router /health-records/export [get]
func (c *HealthRecordController) ExportHealthRecords(ctx *gin.Context) {
	var req dto.HealthRecordFilterRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	records, err := c.healthRecordService.FilteredRecords(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	data, err := export.HealthRecords(records)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	filename := fmt.Sprintf("health_records_%s.xlsx", time.Now().Format("20060102"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, export.ContentType, data)
}

// FilterOptions lists the courses, school years and categories the filters accept
// @Summary Health record filter options
// @Tags health-records
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.FilterOptionsResponse}
// @Router /health-records/filters [get]
func (c *HealthRecordController) FilterOptions(ctx *gin.Context) {
	options, err := c.healthRecordService.FilterOptions(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(options))
}
