package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/consolahealth/studenthealth/internal/app/forms"
	"github.com/consolahealth/studenthealth/internal/app/healthmetrics"
	"github.com/consolahealth/studenthealth/internal/app/models"
	"github.com/consolahealth/studenthealth/internal/app/models/dto"
	"github.com/consolahealth/studenthealth/internal/app/repositories"
	"github.com/consolahealth/studenthealth/internal/pkg/apperrors"
	"github.com/consolahealth/studenthealth/internal/pkg/helpers"
	"github.com/consolahealth/studenthealth/internal/pkg/logger"
)

// HealthRecordService defines the interface for checkup operations
type HealthRecordService interface {
	CreateHealthRecord(ctx context.Context, form dto.HealthRecordForm) (*dto.HealthRecordResponse, error)
	GetHealthRecord(ctx context.Context, id int64) (*dto.HealthRecordResponse, error)
	UpdateHealthRecord(ctx context.Context, id int64, form dto.HealthRecordForm) (*dto.HealthRecordResponse, error)
	DeleteHealthRecord(ctx context.Context, id int64) (*dto.DeleteHealthRecordResponse, error)
	ListHealthRecords(ctx context.Context, req dto.HealthRecordFilterRequest) (*dto.HealthRecordListResponse, error)
	FilteredRecords(ctx context.Context, req dto.HealthRecordFilterRequest) ([]*models.HealthRecord, error)
	StudentHistory(ctx context.Context, studentID int64) (*dto.StudentHistoryResponse, error)
	FilterOptions(ctx context.Context) (*dto.FilterOptionsResponse, error)
}

// healthRecordServiceImpl implements the HealthRecordService interface
type healthRecordServiceImpl struct {
	records  HealthRecordStore
	students StudentStore
	now      func() time.Time
}

// NewHealthRecordService creates a new health record service instance
func NewHealthRecordService(records HealthRecordStore, students StudentStore) HealthRecordService {
	return &healthRecordServiceImpl{
		records:  records,
		students: students,
		now:      time.Now,
	}
}

// CreateHealthRecord stores a new checkup for an existing student. Submitting the
// same values twice creates two records.
func (s *healthRecordServiceImpl) CreateHealthRecord(ctx context.Context, form dto.HealthRecordForm) (*dto.HealthRecordResponse, error) {
	cmd, err := forms.ParseHealthRecordCreate(form, s.now())
	if err != nil {
		return nil, err
	}

	exists, err := s.records.StudentExists(ctx, cmd.StudentID)
	if err != nil {
		return nil, fmt.Errorf("error creating health record: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrStudentNotFound
	}

	record := &models.HealthRecord{}
	cmd.Apply(record)
	if err := s.records.Create(ctx, record); err != nil {
		if apperrors.Is(err, apperrors.ErrStudentNotFound, apperrors.ErrValidationFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating health record: %w", err)
	}

	logger.Info().Int64("recordId", record.ID).Int64("studentId", record.StudentID).Msg("Health record created")
	return s.GetHealthRecord(ctx, record.ID)
}

func (s *healthRecordServiceImpl) get(ctx context.Context, id int64) (*models.HealthRecord, error) {
	if id <= 0 {
		return nil, apperrors.ErrHealthRecordNotFound
	}
	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrHealthRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error retrieving health record: %w", err)
	}
	return record, nil
}

// GetHealthRecord retrieves one record with its derived metrics
func (s *healthRecordServiceImpl) GetHealthRecord(ctx context.Context, id int64) (*dto.HealthRecordResponse, error) {
	record, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromHealthRecord(record)
	return &resp, nil
}

// UpdateHealthRecord overwrites a record from the edit form
func (s *healthRecordServiceImpl) UpdateHealthRecord(ctx context.Context, id int64, form dto.HealthRecordForm) (*dto.HealthRecordResponse, error) {
	record, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	cmd, err := forms.ParseHealthRecordUpdate(form)
	if err != nil {
		return nil, err
	}
	cmd.Apply(record)

	if err := s.records.Update(ctx, record); err != nil {
		if apperrors.Is(err, apperrors.ErrHealthRecordNotFound, apperrors.ErrStudentNotFound, apperrors.ErrValidationFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating health record: %w", err)
	}
	return s.GetHealthRecord(ctx, id)
}

// DeleteHealthRecord removes a record and reports the student it belonged to
func (s *healthRecordServiceImpl) DeleteHealthRecord(ctx context.Context, id int64) (*dto.DeleteHealthRecordResponse, error) {
	if id <= 0 {
		return nil, apperrors.ErrHealthRecordNotFound
	}

	studentID, err := s.records.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrHealthRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error deleting health record: %w", err)
	}
	return &dto.DeleteHealthRecordResponse{ID: id, StudentID: studentID}, nil
}

// FilteredRecords applies the compound filter and returns every match in order.
// Search, department and school year narrow the query; the BMI category is matched
// afterwards on the derived metrics.
func (s *healthRecordServiceImpl) FilteredRecords(ctx context.Context, req dto.HealthRecordFilterRequest) ([]*models.HealthRecord, error) {
	filter := repositories.HealthRecordFilter{
		Search:     strings.TrimSpace(req.Search),
		Department: strings.TrimSpace(req.Department),
		SchoolYear: strings.TrimSpace(req.SchoolYear),
		Category:   strings.TrimSpace(req.Category),
	}
	sorts := sortOrDefault(req.Sort, DefaultHealthRecordSort)

	// nothing can match an unknown category, so skip the query
	if filter.Category != "" && !healthmetrics.IsKnownCategory(filter.Category) {
		return []*models.HealthRecord{}, nil
	}

	records, err := s.records.List(ctx, filter, sorts)
	if err != nil {
		if errors.Is(err, apperrors.ErrBadRequest) {
			return nil, err
		}
		return nil, fmt.Errorf("error listing health records: %w", err)
	}
	return healthmetrics.FilterByCategory(records, filter.Category), nil
}

// ListHealthRecords filters then pages the records
func (s *healthRecordServiceImpl) ListHealthRecords(ctx context.Context, req dto.HealthRecordFilterRequest) (*dto.HealthRecordListResponse, error) {
	records, err := s.FilteredRecords(ctx, req)
	if err != nil {
		return nil, err
	}

	start, end := helpers.CalculateSliceIndices(req.Page, req.PageSize, len(records))
	return &dto.HealthRecordListResponse{
		Records:    dto.FromHealthRecords(records[start:end]),
		Total:      len(records),
		Pagination: helpers.NewPaginationInfo(int64(len(records)), req.Page, req.PageSize),
	}, nil
}

// StudentHistory returns a student's checkups, most recent first, with chart series
func (s *healthRecordServiceImpl) StudentHistory(ctx context.Context, studentID int64) (*dto.StudentHistoryResponse, error) {
	if studentID <= 0 {
		return nil, apperrors.ErrStudentNotFound
	}
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	records, err := s.records.List(ctx, repositories.HealthRecordFilter{StudentID: studentID}, DefaultHealthRecordSort)
	if err != nil {
		return nil, fmt.Errorf("error retrieving health history: %w", err)
	}

	resp := &dto.StudentHistoryResponse{
		Student: dto.FromStudent(student),
		Records: dto.FromHealthRecords(records),
		Series:  healthmetrics.BuildSeries(records),
	}
	if latest := healthmetrics.Latest(records); latest != nil {
		r := dto.FromHealthRecord(latest)
		resp.LatestRecord = &r
	}
	return resp, nil
}

// FilterOptions lists the course, school-year and category filter values
func (s *healthRecordServiceImpl) FilterOptions(ctx context.Context) (*dto.FilterOptionsResponse, error) {
	years, err := s.records.DistinctSchoolYears(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving school years: %w", err)
	}

	categories := make([]models.Choice, 0, len(healthmetrics.Categories))
	for _, c := range healthmetrics.Categories {
		categories = append(categories, models.Choice{Code: c, Label: healthmetrics.CategoryLabels[c]})
	}

	return &dto.FilterOptionsResponse{
		Courses:     models.DepartmentChoices,
		SchoolYears: years,
		Categories:  categories,
	}, nil
}
