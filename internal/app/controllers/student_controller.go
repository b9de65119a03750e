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

// StudentController handles the student registry endpoints
type StudentController struct {
	studentService      services.StudentService
	healthRecordService services.HealthRecordService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, healthRecordService services.HealthRecordService) *StudentController {
	return &StudentController{
		studentService:      studentService,
		healthRecordService: healthRecordService,
	}
}

// ListStudents lists students
// @Summary List students
// @Tags students
// @Produce json
// @Param search query string false "Matches first name, last name or student number"
// @Param sort query string false "Comma-separated columns, '-' prefix for descending"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.StudentListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	var req dto.StudentFilterRequest
	if !bindListQuery(ctx, &req, &req.Page, &req.PageSize) {
		return
	}

	students, err := c.studentService.ListStudents(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(students))
}

// CreateStudent registers a student
// @Summary Register a student
// @Tags students
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body dto.StudentForm true "Student information"
// @Success 201 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Student number already registered"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var form dto.StudentForm
	if !bindBody(ctx, &form) {
		return
	}

	student, err := c.studentService.CreateStudent(ctx, form)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewMessageResponse(student, "Student added successfully"))
}

// GetStudent retrieves a student
// @Summary Get a student
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "student")
	if !ok {
		return
	}

	student, err := c.studentService.GetStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student))
}

// UpdateStudent edits a student. The student number cannot change.
// @Summary Update a student
// @Tags students
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param id path int true "Student ID"
// @Param request body dto.StudentForm true "Student information"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "student")
	if !ok {
		return
	}
	var form dto.StudentForm
	if !bindBody(ctx, &form) {
		return
	}

	student, err := c.studentService.UpdateStudent(ctx, id, form)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse(student, "Student updated successfully"))
}

// DeleteStudent removes a student together with all of their health records
// @Summary Delete a student
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeleteStudentResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "student")
	if !ok {
		return
	}

	result, err := c.studentService.DeleteStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse(result, "Student deleted successfully"))
}

// StudentOverview returns the department and year level distributions
// @Summary Student registry overview
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.StudentOverviewResponse}
// @Router /students/overview [get]
func (c *StudentController) StudentOverview(ctx *gin.Context) {
	overview, err := c.studentService.StudentOverview(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(overview))
}

// StudentHistory returns a student's checkups, most recent first, with chart series
// @Summary Student health history
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentHistoryResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/history [get]
func (c *StudentController) StudentHistory(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "student")
	if !ok {
		return
	}

	history, err := c.healthRecordService.StudentHistory(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(history))
}

// StudentHistoryChart renders the weight and BMI trend as an HTML page
// @Summary Student health history chart
// @Tags students
// @Produce html
// @Param id path int true "Student ID"
// @Success 200 {string} string "HTML page"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/history/chart [get]
func (c *StudentController) StudentHistoryChart(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "student")
	if !ok {
		return
	}

	history, err := c.healthRecordService.StudentHistory(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var buf bytes.Buffer
	if err := charts.RenderStudentHistory(&buf, history); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, htmlContentType, buf.Bytes())
}
