package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/consolahealth/studenthealth/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	studentController *controllers.StudentController,
	healthRecordController *controllers.HealthRecordController,
	dashboardController *controllers.DashboardController,
) {
	// API version group
	v1 := router.Group("/api/v1")

	students := v1.Group("/students")
	{
		students.GET("", studentController.ListStudents)
		students.POST("", studentController.CreateStudent)
		// static segment registered ahead of /:id
		students.GET("/overview", studentController.StudentOverview)
		students.GET("/:id", studentController.GetStudent)
		students.PUT("/:id", studentController.UpdateStudent)
		students.DELETE("/:id", studentController.DeleteStudent)
		students.GET("/:id/history", studentController.StudentHistory)
		students.GET("/:id/history/chart", studentController.StudentHistoryChart)
	}

	records := v1.Group("/health-records")
	{
		records.GET("", healthRecordController.ListHealthRecords)
		records.POST("", healthRecordController.CreateHealthRecord)
		records.GET("/export", healthRecordController.ExportHealthRecords)
		records.GET("/filters", healthRecordController.FilterOptions)
		records.GET("/:id", healthRecordController.GetHealthRecord)
		records.PUT("/:id", healthRecordController.UpdateHealthRecord)
		records.DELETE("/:id", healthRecordController.DeleteHealthRecord)
	}

	dashboard := v1.Group("/dashboard")
	{
		dashboard.GET("", dashboardController.Dashboard)
		dashboard.GET("/chart", dashboardController.DashboardChart)
	}
}
