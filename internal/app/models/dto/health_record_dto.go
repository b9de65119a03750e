package dto

import (
	"time"

	"github.com/consolahealth/studenthealth/internal/app/healthmetrics"
	"github.com/consolahealth/studenthealth/internal/app/models"
)

// HealthRecordForm carries raw checkup input from a form post or JSON body, under the
// same field names as StudentForm uses for errors
type HealthRecordForm struct {
	Student     FormValue `json:"student" form:"student"`
	Weight      FormValue `json:"weight" form:"weight"`
	Height      FormValue `json:"height" form:"height"`
	SystolicBP  FormValue `json:"systolic_bp" form:"systolic_bp"`
	DiastolicBP FormValue `json:"diastolic_bp" form:"diastolic_bp"`
	Temperature FormValue `json:"temperature" form:"temperature"`
	Vision      FormValue `json:"vision" form:"vision"`
	UrineTest   FormValue `json:"urine_test" form:"urine_test"`
	SchoolYear  FormValue `json:"school_year" form:"school_year"`
}

// HealthRecordFilterRequest represents the all-records search and filter parameters
type HealthRecordFilterRequest struct {
	Search     string `form:"search"`
	Department string `form:"course"`
	SchoolYear string `form:"year"`
	Category   string `form:"category"`
	Sort       string `form:"sort" binding:"omitempty,sort_key"`
	Page       int    `form:"-"`
	PageSize   int    `form:"-"`
}

// HealthRecordResponse is a checkup with its derived metrics
type HealthRecordResponse struct {
	ID             int64           `json:"id"`
	StudentID      int64           `json:"studentId"`
	Student        *StudentSummary `json:"student,omitempty"`
	Weight         float64         `json:"weight"`
	Height         float64         `json:"height"`
	SystolicBP     int             `json:"systolicBp"`
	DiastolicBP    int             `json:"diastolicBp"`
	Temperature    float64         `json:"temperature"`
	Vision         *string         `json:"vision,omitempty"`
	UrineTest      string          `json:"urineTest"`
	SchoolYear     *string         `json:"schoolYear,omitempty"`
	CheckupDate    time.Time       `json:"checkupDate"`
	LastUpdated    time.Time       `json:"lastUpdated"`
	BMI            *float64        `json:"bmi"`
	HealthCategory string          `json:"healthCategory"`
	BPStatus       string          `json:"bpStatus"`
}

// HealthRecordListResponse represents the filtered all-records view
type HealthRecordListResponse struct {
	Records    []HealthRecordResponse `json:"records"`
	Total      int                    `json:"totalRecords"`
	Pagination PaginationInfo         `json:"pagination"`
}

// DeleteHealthRecordResponse reports the owner of a deleted record
type DeleteHealthRecordResponse struct {
	ID        int64 `json:"id"`
	StudentID int64 `json:"studentId"`
}

// FilterOptionsResponse lists the values the all-records filters accept
type FilterOptionsResponse struct {
	Courses     []models.Choice `json:"courses"`
	SchoolYears []string        `json:"schoolYears"`
	Categories  []models.Choice `json:"categories"`
}

// FromHealthRecord converts a models.HealthRecord, deriving its metrics
func FromHealthRecord(r *models.HealthRecord) HealthRecordResponse {
	m := healthmetrics.RecordMetrics(r)
	resp := HealthRecordResponse{
		ID:             r.ID,
		StudentID:      r.StudentID,
		Weight:         r.Weight,
		Height:         r.Height,
		SystolicBP:     r.SystolicBP,
		DiastolicBP:    r.DiastolicBP,
		Temperature:    r.Temperature,
		Vision:         r.Vision,
		UrineTest:      r.UrineTest,
		SchoolYear:     r.SchoolYear,
		CheckupDate:    r.CheckupDate,
		LastUpdated:    r.LastUpdated,
		BMI:            m.BMI,
		HealthCategory: m.HealthCategory,
		BPStatus:       m.BPStatus,
	}
	if r.Student != nil {
		summary := SummarizeStudent(r.Student)
		resp.Student = &summary
	}
	return resp
}

// FromHealthRecords converts a slice of records
func FromHealthRecords(records []*models.HealthRecord) []HealthRecordResponse {
	out := make([]HealthRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, FromHealthRecord(r))
	}
	return out
}
