package dto

import (
	"time"

	"github.com/consolahealth/studenthealth/internal/app/models"
)

// StudentForm carries raw student input from a form post or JSON body. Both encodings
// use the same field names, which are also the keys of validation error details.
type StudentForm struct {
	SID           FormValue `json:"s_id" form:"s_id"`
	FirstName     FormValue `json:"first_name" form:"first_name"`
	MiddleInitial FormValue `json:"middle_initial" form:"middle_initial"`
	LastName      FormValue `json:"last_name" form:"last_name"`
	Gender        FormValue `json:"gender" form:"gender"`
	Address       FormValue `json:"address" form:"address"`
	Email         FormValue `json:"email" form:"email"`
	Department    FormValue `json:"department" form:"department"`
	YearLevel     FormValue `json:"year_level" form:"year_level"`
}

// StudentFilterRequest represents student list parameters
type StudentFilterRequest struct {
	Search   string `form:"search"`
	Sort     string `form:"sort" binding:"omitempty,sort_key"`
	Page     int    `form:"-"`
	PageSize int    `form:"-"`
}

// StudentResponse represents a student with display labels resolved
type StudentResponse struct {
	ID              int64     `json:"id"`
	SID             int64     `json:"sId"`
	FirstName       string    `json:"firstName"`
	MiddleInitial   *string   `json:"middleInitial,omitempty"`
	LastName        string    `json:"lastName"`
	Gender          string    `json:"gender"`
	GenderLabel     string    `json:"genderLabel"`
	Address         string    `json:"address"`
	Email           *string   `json:"email,omitempty"`
	Department      string    `json:"department"`
	DepartmentLabel string    `json:"departmentLabel"`
	YearLevel       string    `json:"yearLevel"`
	YearLevelLabel  string    `json:"yearLevelLabel"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// StudentSummary is the compact student view embedded in health records
type StudentSummary struct {
	ID         int64  `json:"id"`
	SID        int64  `json:"sId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Department string `json:"department"`
}

// StudentListResponse represents a page of students
type StudentListResponse struct {
	Students   []StudentResponse `json:"students"`
	Pagination PaginationInfo    `json:"pagination"`
}

// DeleteStudentResponse reports what a student deletion removed
type DeleteStudentResponse struct {
	ID                   int64 `json:"id"`
	DeletedHealthRecords int64 `json:"deletedHealthRecords"`
}

// DistributionItem is one bar/slice of a count chart
type DistributionItem struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// StudentOverviewResponse holds the registry charts of the student home view
type StudentOverviewResponse struct {
	TotalStudents int                `json:"totalStudents"`
	Departments   []DistributionItem `json:"departments"`
	YearLevels    []DistributionItem `json:"yearLevels"`
}

// FromStudent converts a models.Student to a StudentResponse
func FromStudent(s *models.Student) StudentResponse {
	return StudentResponse{
		ID:              s.ID,
		SID:             s.SID,
		FirstName:       s.FirstName,
		MiddleInitial:   s.MiddleInitial,
		LastName:        s.LastName,
		Gender:          s.Gender,
		GenderLabel:     models.LabelFor(models.GenderChoices, s.Gender),
		Address:         s.Address,
		Email:           s.Email,
		Department:      s.Department,
		DepartmentLabel: models.LabelFor(models.DepartmentChoices, s.Department),
		YearLevel:       s.YearLevel,
		YearLevelLabel:  models.LabelFor(models.YearLevelChoices, s.YearLevel),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// SummarizeStudent converts a models.Student to its compact form
func SummarizeStudent(s *models.Student) StudentSummary {
	return StudentSummary{
		ID:         s.ID,
		SID:        s.SID,
		FirstName:  s.FirstName,
		LastName:   s.LastName,
		Department: s.Department,
	}
}

// FromStudents converts a slice of students
func FromStudents(students []*models.Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		out = append(out, FromStudent(s))
	}
	return out
}
