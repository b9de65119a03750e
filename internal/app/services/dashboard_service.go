package services

import (
	"context"
	"fmt"

	"github.com/consolahealth/studenthealth/internal/app/healthmetrics"
	"github.com/consolahealth/studenthealth/internal/app/models/dto"
	"github.com/consolahealth/studenthealth/internal/app/repositories"
)

// DashboardService defines the interface for the health dashboard
type DashboardService interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

type dashboardServiceImpl struct {
	records  HealthRecordStore
	students StudentStore
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(records HealthRecordStore, students StudentStore) DashboardService {
	return &dashboardServiceImpl{records: records, students: students}
}

// Dashboard aggregates every record into the summary figures and chart data
func (s *dashboardServiceImpl) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	records, err := s.records.List(ctx, repositories.HealthRecordFilter{}, DefaultHealthRecordSort)
	if err != nil {
		return nil, fmt.Errorf("error loading health records: %w", err)
	}
	recent, err := s.records.Recent(ctx, RecentCheckupsLimit)
	if err != nil {
		return nil, fmt.Errorf("error loading recent checkups: %w", err)
	}
	students, err := s.students.ListAll(ctx, DefaultStudentSort)
	if err != nil {
		return nil, fmt.Errorf("error loading students: %w", err)
	}

	dropdown := make([]dto.StudentSummary, 0, len(students))
	for _, st := range students {
		dropdown = append(dropdown, dto.SummarizeStudent(st))
	}

	return &dto.DashboardResponse{
		TotalStudents:      healthmetrics.DistinctStudents(records),
		AverageBMI:         healthmetrics.AverageBMI(records),
		HealthDistribution: healthmetrics.CategoryDistribution(records),
		SchoolYears:        healthmetrics.SchoolYearLabels(records),
		WeightByYear:       healthmetrics.AverageWeightByYear(records),
		StudentsPerYear:    healthmetrics.StudentsPerYear(records),
		RecentRecords:      dto.FromHealthRecords(recent),
		Students:           dropdown,
	}, nil
}
