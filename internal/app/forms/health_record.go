package forms

import (
	"strconv"
	"time"

	"github.com/consolahealth/studenthealth/internal/app/models"
	"github.com/consolahealth/studenthealth/internal/app/models/dto"
)

// HealthRecordCommand is validated checkup input
type HealthRecordCommand struct {
	StudentID   int64
	Weight      float64
	Height      float64
	SystolicBP  int
	DiastolicBP int
	Temperature float64
	Vision      *string
	UrineTest   string
	SchoolYear  *string
}

type healthRecordInput struct {
	Student     string `field:"student" validate:"required"`
	Weight      string `field:"weight"`
	Height      string `field:"height"`
	SystolicBP  string `field:"systolic_bp"`
	DiastolicBP string `field:"diastolic_bp"`
	Temperature string `field:"temperature"`
	Vision      string `field:"vision" validate:"omitempty,max=50"`
	UrineTest   string `field:"urine_test" validate:"omitempty,oneof=normal abnormal pending"`
	SchoolYear  string `field:"school_year" validate:"omitempty,max=9"`
}

// editHealthRecordInput mirrors the edit form, where measurements are mandatory
type editHealthRecordInput struct {
	Student     string `field:"student" validate:"required"`
	Weight      string `field:"weight" validate:"required"`
	Height      string `field:"height" validate:"required"`
	SystolicBP  string `field:"systolic_bp" validate:"required"`
	DiastolicBP string `field:"diastolic_bp" validate:"required"`
	Temperature string `field:"temperature" validate:"required"`
	Vision      string `field:"vision" validate:"omitempty,max=50"`
	UrineTest   string `field:"urine_test" validate:"omitempty,oneof=normal abnormal pending"`
	SchoolYear  string `field:"school_year" validate:"omitempty,max=9"`
}

func newHealthRecordInput(form dto.HealthRecordForm) healthRecordInput {
	return healthRecordInput{
		Student:     form.Student.String(),
		Weight:      form.Weight.String(),
		Height:      form.Height.String(),
		SystolicBP:  form.SystolicBP.String(),
		DiastolicBP: form.DiastolicBP.String(),
		Temperature: form.Temperature.String(),
		Vision:      form.Vision.String(),
		UrineTest:   form.UrineTest.String(),
		SchoolYear:  form.SchoolYear.String(),
	}
}

// ParseHealthRecordCreate validates a quick-add checkup. Blank measurements default to
// zero, a blank urine test to pending and a blank school year to the calendar year of
// now. Text that is not a number fails the whole command.
func ParseHealthRecordCreate(form dto.HealthRecordForm, now time.Time) (*HealthRecordCommand, error) {
	in := newHealthRecordInput(form)
	fe := fieldErrors{}
	fe.addValidation(validate.Struct(in))

	cmd := coerceHealthRecord(fe, in)
	if cmd.SchoolYear == nil {
		year := strconv.Itoa(now.Year())
		cmd.SchoolYear = &year
	}
	if err := fe.err("invalid health record"); err != nil {
		return nil, err
	}
	return cmd, nil
}

// ParseHealthRecordUpdate validates an edit, where every measurement must be supplied
func ParseHealthRecordUpdate(form dto.HealthRecordForm) (*HealthRecordCommand, error) {
	in := newHealthRecordInput(form)
	fe := fieldErrors{}
	fe.addValidation(validate.Struct(editHealthRecordInput(in)))

	cmd := coerceHealthRecord(fe, in)
	if err := fe.err("invalid health record"); err != nil {
		return nil, err
	}
	return cmd, nil
}

func coerceHealthRecord(fe fieldErrors, in healthRecordInput) *HealthRecordCommand {
	cmd := &HealthRecordCommand{
		Weight:      parseFloat(fe, "weight", in.Weight, 0),
		Height:      parseFloat(fe, "height", in.Height, 0),
		SystolicBP:  int(parseInt(fe, "systolic_bp", in.SystolicBP, 0, 32)),
		DiastolicBP: int(parseInt(fe, "diastolic_bp", in.DiastolicBP, 0, 32)),
		Temperature: parseFloat(fe, "temperature", in.Temperature, 0),
		UrineTest:   orDefault(in.UrineTest, models.DefaultUrineTest),
	}
	if in.Student != "" {
		cmd.StudentID = parseInt(fe, "student", in.Student, 0, 64)
	}
	if in.Vision != "" {
		v := in.Vision
		cmd.Vision = &v
	}
	if in.SchoolYear != "" {
		y := in.SchoolYear
		cmd.SchoolYear = &y
	}
	return cmd
}

// Apply copies the command onto a record model
func (c *HealthRecordCommand) Apply(r *models.HealthRecord) {
	r.StudentID = c.StudentID
	r.SetWeight(&c.Weight)
	r.Height = c.Height
	r.SystolicBP = c.SystolicBP
	r.DiastolicBP = c.DiastolicBP
	r.Temperature = c.Temperature
	r.Vision = c.Vision
	r.UrineTest = c.UrineTest
	r.SchoolYear = c.SchoolYear
}
