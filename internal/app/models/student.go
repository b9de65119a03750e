package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	ID            int64     `json:"id" db:"id" example:"1"`
	SID           int64     `json:"sId" db:"s_id" example:"20240001"` // School-issued student number
	FirstName     string    `json:"firstName" db:"first_name" example:"Maria"`
	MiddleInitial *string   `json:"middleInitial,omitempty" db:"middle_initial" example:"R"`
	LastName      string    `json:"lastName" db:"last_name" example:"Santos"`
	Gender        string    `json:"gender" db:"gender" example:"F"`
	Address       string    `json:"address" db:"address"`
	Email         *string   `json:"email,omitempty" db:"email"`
	Department    string    `json:"department" db:"department" example:"BSIT"`
	YearLevel     string    `json:"yearLevel" db:"year_level" example:"1"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// FullName returns "First Last"
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
