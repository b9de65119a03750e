package models

import "time"

// HealthRecord is one checkup for a student, based on the 'health_records' table.
// BMI, category and blood-pressure status are derived on read and never stored.
type HealthRecord struct {
	ID          int64     `json:"id" db:"id"`
	StudentID   int64     `json:"studentId" db:"student_id"`
	Weight      float64   `json:"weight" db:"weight"`            // kg
	Height      float64   `json:"height" db:"height"`            // cm
	SystolicBP  int       `json:"systolicBp" db:"systolic_bp"`   // mmHg
	DiastolicBP int       `json:"diastolicBp" db:"diastolic_bp"` // mmHg
	Temperature float64   `json:"temperature" db:"temperature"`  // °C
	Vision      *string   `json:"vision,omitempty" db:"vision"`
	UrineTest   string    `json:"urineTest" db:"urine_test"`
	SchoolYear  *string   `json:"schoolYear,omitempty" db:"school_year"`
	CheckupDate time.Time `json:"checkupDate" db:"checkup_date"`
	LastUpdated time.Time `json:"lastUpdated" db:"last_updated"`

	// WeightMissing marks a row stored with a NULL weight; Weight then reads as zero
	WeightMissing bool `json:"-" db:"-"`

	// Relations (populated by joined reads)
	Student *Student `json:"student,omitempty"`
}

// SchoolYearLabel returns the grouping label, empty when unset
func (r *HealthRecord) SchoolYearLabel() string {
	if r.SchoolYear == nil {
		return ""
	}
	return *r.SchoolYear
}

// SetWeight loads a nullable weight column
func (r *HealthRecord) SetWeight(kg *float64) {
	if kg == nil {
		r.Weight, r.WeightMissing = 0, true
		return
	}
	r.Weight, r.WeightMissing = *kg, false
}
