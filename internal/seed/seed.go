package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	appModels "github.com/consolahealth/studenthealth/internal/app/models"
	"github.com/consolahealth/studenthealth/internal/pkg/apperrors"
)

// StudentCreator stores students
type StudentCreator interface {
	Create(ctx context.Context, s *appModels.Student) error
}

// HealthRecordCreator stores checkups
type HealthRecordCreator interface {
	Create(ctx context.Context, r *appModels.HealthRecord) error
}

type demoCheckup struct {
	weight, height        float64
	systolic, diastolic   int
	temperature           float64
	urineTest, schoolYear string
}

type demoStudent struct {
	student  appModels.Student
	checkups []demoCheckup
}

func strPtr(s string) *string { return &s }

var demoStudents = []demoStudent{
	{
		student: appModels.Student{SID: 20240001, FirstName: "Maria", MiddleInitial: strPtr("R"), LastName: "Santos",
			Gender: "F", Address: "Consolacion, Cebu", Email: strPtr("maria.santos@example.com"),
			Department: appModels.DepartmentBSIT, YearLevel: "1"},
		checkups: []demoCheckup{
			{52, 158, 110, 70, 36.6, appModels.UrineTestNormal, "2024"},
			{54, 159, 115, 75, 36.8, appModels.UrineTestNormal, "2025"},
		},
	},
	{
		student: appModels.Student{SID: 20240002, FirstName: "Jose", LastName: "Dela Cruz",
			Gender: "M", Address: "Liloan, Cebu", Department: appModels.DepartmentBSED, YearLevel: "2"},
		checkups: []demoCheckup{
			{88, 170, 135, 88, 36.9, appModels.UrineTestAbnormal, "2025"},
		},
	},
	{
		student: appModels.Student{SID: 20240003, FirstName: "Ana", LastName: "Reyes",
			Gender: "F", Address: "Mandaue City", Department: appModels.DepartmentBSHM, YearLevel: "3"},
		checkups: []demoCheckup{
			{43, 165, 100, 65, 36.4, appModels.UrineTestPending, "2025"},
		},
	},
	{
		student: appModels.Student{SID: 20240004, FirstName: "Paolo", MiddleInitial: strPtr("L"), LastName: "Garcia",
			Gender: "M", Address: "Compostela, Cebu", Department: appModels.DepartmentBPEd, YearLevel: "4"},
		checkups: []demoCheckup{
			{78, 172, 125, 82, 37.1, appModels.UrineTestNormal, "2024"},
		},
	},
}

// CreateDemoData registers a handful of students with checkups. Students whose
// number is already taken are left alone, so running it twice adds nothing.
func CreateDemoData(ctx context.Context, students StudentCreator, records HealthRecordCreator, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating demo data (Students/Health records)...")
	var finalErr error
	created := 0

	for _, demo := range demoStudents {
		student := demo.student
		if err := students.Create(ctx, &student); err != nil {
			if errors.Is(err, apperrors.ErrStudentIDAlreadyExists) {
				continue
			}
			lgr.Error().Err(err).Int64("sId", student.SID).Msg("Error creating demo student")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		created++

		for _, c := range demo.checkups {
			record := &appModels.HealthRecord{
				StudentID:   student.ID,
				Weight:      c.weight,
				Height:      c.height,
				SystolicBP:  c.systolic,
				DiastolicBP: c.diastolic,
				Temperature: c.temperature,
				UrineTest:   c.urineTest,
				SchoolYear:  strPtr(c.schoolYear),
			}
			if err := records.Create(ctx, record); err != nil {
				lgr.Error().Err(err).Int64("studentId", student.ID).Msg("Error creating demo health record")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	lgr.Info().Int("students", created).Msg("Demo data check/creation complete.")
	return finalErr
}
