package forms

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consolahealth/studenthealth/internal/app/models/dto"
	"github.com/consolahealth/studenthealth/internal/pkg/apperrors"
)

func validStudentForm() dto.StudentForm {
	return dto.StudentForm{
		SID:        "2024001",
		FirstName:  "Ana",
		LastName:   "Reyes",
		Department: "BSIT",
	}
}

func TestParseStudentCreate_AppliesDefaults(t *testing.T) {
	cmd, err := ParseStudentCreate(validStudentForm())
	require.NoError(t, err)

	assert.Equal(t, int64(2024001), cmd.SID)
	assert.Equal(t, "M", cmd.Gender)
	assert.Equal(t, "1", cmd.YearLevel)
	assert.Nil(t, cmd.MiddleInitial)
	assert.Nil(t, cmd.Email)
}

func TestParseStudentCreate_MissingFields(t *testing.T) {
	_, err := ParseStudentCreate(dto.StudentForm{FirstName: "  "})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	fields := apperrors.DetailsOf(err)
	assert.Contains(t, fields, "s_id")
	assert.Contains(t, fields, "first_name")
	assert.Contains(t, fields, "last_name")
	assert.Contains(t, fields, "department")
}

func TestParseStudentCreate_NonNumericSID(t *testing.T) {
	form := validStudentForm()
	form.SID = "abc"
	_, err := ParseStudentCreate(form)
	require.Error(t, err)
	assert.Contains(t, apperrors.DetailsOf(err), "s_id")
}

func TestParseStudentCreate_UnknownChoice(t *testing.T) {
	form := validStudentForm()
	form.Department = "BSCS"
	form.YearLevel = "5"
	_, err := ParseStudentCreate(form)
	require.Error(t, err)
	fields := apperrors.DetailsOf(err)
	assert.Contains(t, fields, "department")
	assert.Contains(t, fields, "year_level")
}

func TestParseStudentCreate_BadEmail(t *testing.T) {
	form := validStudentForm()
	form.Email = "not-an-email"
	_, err := ParseStudentCreate(form)
	require.Error(t, err)
	assert.Equal(t, "email must be a valid email address", apperrors.DetailsOf(err)["email"])
}

func TestParseStudentUpdate_IgnoresSID(t *testing.T) {
	form := validStudentForm()
	form.SID = ""
	form.Email = "ana@example.com"
	cmd, err := ParseStudentUpdate(form)
	require.NoError(t, err)
	assert.Equal(t, int64(0), cmd.SID)
	require.NotNil(t, cmd.Email)
	assert.Equal(t, "ana@example.com", *cmd.Email)
}

func TestParseHealthRecordCreate_BlankInputs(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	cmd, err := ParseHealthRecordCreate(dto.HealthRecordForm{Student: "7"}, now)
	require.NoError(t, err)

	assert.Equal(t, int64(7), cmd.StudentID)
	assert.Zero(t, cmd.Weight)
	assert.Zero(t, cmd.Height)
	assert.Zero(t, cmd.SystolicBP)
	assert.Equal(t, "pending", cmd.UrineTest)
	require.NotNil(t, cmd.SchoolYear)
	assert.Equal(t, "2025", *cmd.SchoolYear)
	assert.Nil(t, cmd.Vision)
}

func TestParseHealthRecordCreate_ParsesNumbers(t *testing.T) {
	form := dto.HealthRecordForm{
		Student:     "7",
		Weight:      "70.5",
		Height:      "175",
		SystolicBP:  "120",
		DiastolicBP: "80",
		Temperature: "36.6",
		UrineTest:   "normal",
		SchoolYear:  "2024-2025",
	}
	cmd, err := ParseHealthRecordCreate(form, time.Now())
	require.NoError(t, err)
	assert.InDelta(t, 70.5, cmd.Weight, 1e-9)
	assert.InDelta(t, 175.0, cmd.Height, 1e-9)
	assert.Equal(t, 120, cmd.SystolicBP)
	assert.Equal(t, 80, cmd.DiastolicBP)
	assert.Equal(t, "normal", cmd.UrineTest)
	assert.Equal(t, "2024-2025", *cmd.SchoolYear)
}

func TestParseHealthRecordCreate_RejectsText(t *testing.T) {
	form := dto.HealthRecordForm{Student: "7", Weight: "heavy", SystolicBP: "12.5", Temperature: "NaN"}
	_, err := ParseHealthRecordCreate(form, time.Now())
	require.Error(t, err)
	fields := apperrors.DetailsOf(err)
	assert.Contains(t, fields, "weight")
	assert.Contains(t, fields, "systolic_bp")
	assert.Contains(t, fields, "temperature")
}

func TestParseHealthRecordCreate_BloodPressureOutOfRange(t *testing.T) {
	var form dto.HealthRecordForm
	require.NoError(t, json.Unmarshal([]byte(`{"student": 7, "systolic_bp": 3000000000, "diastolic_bp": "-3000000000"}`), &form))

	_, err := ParseHealthRecordCreate(form, time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	// detail keys are the names the client sent
	fields := apperrors.DetailsOf(err)
	assert.Equal(t, "systolic_bp is out of range", fields["systolic_bp"])
	assert.Equal(t, "diastolic_bp is out of range", fields["diastolic_bp"])
	assert.NotContains(t, fields, "student")
}

func TestParseStudentCreate_SIDFitsColumn(t *testing.T) {
	form := validStudentForm()
	form.SID = "999999999"
	cmd, err := ParseStudentCreate(form)
	require.NoError(t, err)
	assert.Equal(t, int64(999999999), cmd.SID)
}

func TestParseHealthRecordCreate_RequiresStudent(t *testing.T) {
	_, err := ParseHealthRecordCreate(dto.HealthRecordForm{}, time.Now())
	require.Error(t, err)
	assert.Contains(t, apperrors.DetailsOf(err), "student")
}

func TestParseHealthRecordUpdate_RequiresMeasurements(t *testing.T) {
	_, err := ParseHealthRecordUpdate(dto.HealthRecordForm{Student: "7", Weight: "70"})
	require.Error(t, err)
	fields := apperrors.DetailsOf(err)
	assert.NotContains(t, fields, "weight")
	assert.Contains(t, fields, "height")
	assert.Contains(t, fields, "systolic_bp")
	assert.Contains(t, fields, "diastolic_bp")
	assert.Contains(t, fields, "temperature")
}

func TestParseHealthRecordUpdate_KeepsBlankSchoolYear(t *testing.T) {
	form := dto.HealthRecordForm{
		Student: "7", Weight: "70", Height: "175",
		SystolicBP: "120", DiastolicBP: "80", Temperature: "36.5",
	}
	cmd, err := ParseHealthRecordUpdate(form)
	require.NoError(t, err)
	assert.Nil(t, cmd.SchoolYear)
	assert.Equal(t, "pending", cmd.UrineTest)
}
