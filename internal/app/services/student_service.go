package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/consolahealth/studenthealth/internal/app/forms"
	"github.com/consolahealth/studenthealth/internal/app/models"
	"github.com/consolahealth/studenthealth/internal/app/models/dto"
	"github.com/consolahealth/studenthealth/internal/app/repositories"
	"github.com/consolahealth/studenthealth/internal/pkg/apperrors"
	"github.com/consolahealth/studenthealth/internal/pkg/helpers"
	"github.com/consolahealth/studenthealth/internal/pkg/logger"
)

// StudentService defines the interface for student registry operations
type StudentService interface {
	CreateStudent(ctx context.Context, form dto.StudentForm) (*dto.StudentResponse, error)
	GetStudent(ctx context.Context, id int64) (*dto.StudentResponse, error)
	ListStudents(ctx context.Context, req dto.StudentFilterRequest) (*dto.StudentListResponse, error)
	UpdateStudent(ctx context.Context, id int64, form dto.StudentForm) (*dto.StudentResponse, error)
	DeleteStudent(ctx context.Context, id int64) (*dto.DeleteStudentResponse, error)
	StudentOverview(ctx context.Context) (*dto.StudentOverviewResponse, error)
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	students StudentStore
}

// NewStudentService creates a new student service instance
func NewStudentService(students StudentStore) StudentService {
	return &studentServiceImpl{students: students}
}

// CreateStudent registers a student. A taken student number is a conflict.
func (s *studentServiceImpl) CreateStudent(ctx context.Context, form dto.StudentForm) (*dto.StudentResponse, error) {
	cmd, err := forms.ParseStudentCreate(form)
	if err != nil {
		return nil, err
	}

	student := &models.Student{SID: cmd.SID}
	cmd.Apply(student)

	if err := s.students.Create(ctx, student); err != nil {
		if errors.Is(err, apperrors.ErrStudentIDAlreadyExists) {
			return nil, apperrors.NewCustomError(apperrors.ErrStudentIDAlreadyExists,
				fmt.Sprintf("a student with s_id %d already exists", cmd.SID)).
				WithDetails(map[string]interface{}{"s_id": "already registered"})
		}
		return nil, fmt.Errorf("error creating student: %w", err)
	}

	logger.Info().Int64("studentId", student.ID).Int64("sId", student.SID).Msg("Student registered")
	resp := dto.FromStudent(student)
	return &resp, nil
}

func (s *studentServiceImpl) get(ctx context.Context, id int64) (*models.Student, error) {
	if id <= 0 {
		return nil, apperrors.ErrStudentNotFound
	}
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// GetStudent retrieves a student by id
func (s *studentServiceImpl) GetStudent(ctx context.Context, id int64) (*dto.StudentResponse, error) {
	student, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromStudent(student)
	return &resp, nil
}

// ListStudents returns one page of students
func (s *studentServiceImpl) ListStudents(ctx context.Context, req dto.StudentFilterRequest) (*dto.StudentListResponse, error) {
	filter := repositories.StudentFilter{Search: strings.TrimSpace(req.Search)}
	sorts := sortOrDefault(req.Sort, DefaultStudentSort)

	students, total, err := s.students.List(ctx, filter, sorts, req.Page, req.PageSize)
	if err != nil {
		if errors.Is(err, apperrors.ErrBadRequest) {
			return nil, err
		}
		return nil, fmt.Errorf("error listing students: %w", err)
	}

	return &dto.StudentListResponse{
		Students:   dto.FromStudents(students),
		Pagination: helpers.NewPaginationInfo(total, req.Page, req.PageSize),
	}, nil
}

// UpdateStudent edits a student. The student number is kept as registered.
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, form dto.StudentForm) (*dto.StudentResponse, error) {
	student, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	cmd, err := forms.ParseStudentUpdate(form)
	if err != nil {
		return nil, err
	}
	cmd.Apply(student)

	if err := s.students.Update(ctx, student); err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating student: %w", err)
	}

	resp := dto.FromStudent(student)
	return &resp, nil
}

// DeleteStudent removes a student and, through the cascade, all of its records
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) (*dto.DeleteStudentResponse, error) {
	if id <= 0 {
		return nil, apperrors.ErrStudentNotFound
	}

	removed, err := s.students.Delete(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrStudentNotFound, apperrors.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("error deleting student: %w", err)
	}

	logger.Info().Int64("studentId", id).Int64("healthRecords", removed).Msg("Student deleted")
	return &dto.DeleteStudentResponse{ID: id, DeletedHealthRecords: removed}, nil
}

// StudentOverview counts students per department and per year level. Every choice
// appears, with zero when no student has it.
func (s *studentServiceImpl) StudentOverview(ctx context.Context) (*dto.StudentOverviewResponse, error) {
	byDepartment, err := s.students.CountByDepartment(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting students by department: %w", err)
	}
	byYear, err := s.students.CountByYearLevel(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting students by year level: %w", err)
	}

	total := 0
	for _, n := range byDepartment {
		total += int(n)
	}

	return &dto.StudentOverviewResponse{
		TotalStudents: total,
		Departments:   distribution(models.DepartmentChoices, byDepartment),
		YearLevels:    distribution(models.YearLevelChoices, byYear),
	}, nil
}

func distribution(choices []models.Choice, counts map[string]int64) []dto.DistributionItem {
	items := make([]dto.DistributionItem, 0, len(choices))
	for _, c := range choices {
		items = append(items, dto.DistributionItem{Code: c.Code, Label: c.Label, Count: int(counts[c.Code])})
	}
	return items
}
