package forms

import (
	"github.com/consolahealth/studenthealth/internal/app/models"
	"github.com/consolahealth/studenthealth/internal/app/models/dto"
)

// StudentCommand is validated student input
type StudentCommand struct {
	SID           int64
	FirstName     string
	MiddleInitial *string
	LastName      string
	Gender        string
	Address       string
	Email         *string
	Department    string
	YearLevel     string
}

type studentInput struct {
	SID           string `field:"s_id" validate:"required,student_number"`
	FirstName     string `field:"first_name" validate:"required,max=64"`
	MiddleInitial string `field:"middle_initial" validate:"omitempty,max=5"`
	LastName      string `field:"last_name" validate:"required,max=64"`
	Gender        string `field:"gender" validate:"omitempty,oneof=M F"`
	Email         string `field:"email" validate:"omitempty,email,max=254"`
	Department    string `field:"department" validate:"required,oneof=BSIT BSED BEED BSHM BPEd BSEntrep"`
	YearLevel     string `field:"year_level" validate:"omitempty,oneof=1 2 3 4"`
}

func newStudentInput(form dto.StudentForm) studentInput {
	return studentInput{
		SID:           form.SID.String(),
		FirstName:     form.FirstName.String(),
		MiddleInitial: form.MiddleInitial.String(),
		LastName:      form.LastName.String(),
		Gender:        form.Gender.String(),
		Email:         form.Email.String(),
		Department:    form.Department.String(),
		YearLevel:     form.YearLevel.String(),
	}
}

// ParseStudentCreate validates a registration. s_id, first name, last name and
// department are required; gender and year level fall back to their defaults.
func ParseStudentCreate(form dto.StudentForm) (*StudentCommand, error) {
	in := newStudentInput(form)
	fe := fieldErrors{}
	fe.addValidation(validate.Struct(in))

	cmd := buildStudent(form, in)
	if _, failed := fe["s_id"]; !failed {
		cmd.SID = parseInt(fe, "s_id", in.SID, 0, 32)
	}
	if err := fe.err("invalid student data"); err != nil {
		return nil, err
	}
	return cmd, nil
}

// ParseStudentUpdate validates an edit. The student number cannot change on edit, so
// s_id is ignored here.
func ParseStudentUpdate(form dto.StudentForm) (*StudentCommand, error) {
	in := newStudentInput(form)
	in.SID = "0"
	fe := fieldErrors{}
	fe.addValidation(validate.Struct(in))
	if err := fe.err("invalid student data"); err != nil {
		return nil, err
	}
	return buildStudent(form, in), nil
}

func buildStudent(form dto.StudentForm, in studentInput) *StudentCommand {
	return &StudentCommand{
		FirstName:     in.FirstName,
		MiddleInitial: form.MiddleInitial.Ptr(),
		LastName:      in.LastName,
		Gender:        orDefault(in.Gender, models.DefaultGender),
		Address:       form.Address.String(),
		Email:         form.Email.Ptr(),
		Department:    in.Department,
		YearLevel:     orDefault(in.YearLevel, models.DefaultYearLevel),
	}
}

// Apply copies the command onto a student model
func (c *StudentCommand) Apply(s *models.Student) {
	s.FirstName = c.FirstName
	s.MiddleInitial = c.MiddleInitial
	s.LastName = c.LastName
	s.Gender = c.Gender
	s.Address = c.Address
	s.Email = c.Email
	s.Department = c.Department
	s.YearLevel = c.YearLevel
}
