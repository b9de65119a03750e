package services

import (
	"context"

	"github.com/consolahealth/studenthealth/internal/app/models"
	"github.com/consolahealth/studenthealth/internal/app/repositories"
)

// Default orderings, applied whenever a request names none
var (
	DefaultHealthRecordSort = []repositories.Sort{{Column: "checkup_date", Desc: true}}
	DefaultStudentSort      = []repositories.Sort{{Column: "last_name"}, {Column: "first_name"}}
)

// RecentCheckupsLimit is how many checkups the dashboard lists
const RecentCheckupsLimit = 10

// StudentStore is the persistence the student operations need
type StudentStore interface {
	Create(ctx context.Context, s *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	List(ctx context.Context, filter repositories.StudentFilter, sorts []repositories.Sort, page, size int) ([]*models.Student, int64, error)
	ListAll(ctx context.Context, sorts []repositories.Sort) ([]*models.Student, error)
	Update(ctx context.Context, s *models.Student) error
	Delete(ctx context.Context, id int64) (int64, error)
	CountByDepartment(ctx context.Context) (map[string]int64, error)
	CountByYearLevel(ctx context.Context) (map[string]int64, error)
}

// HealthRecordStore is the persistence the health record operations need
type HealthRecordStore interface {
	Create(ctx context.Context, r *models.HealthRecord) error
	GetByID(ctx context.Context, id int64) (*models.HealthRecord, error)
	List(ctx context.Context, filter repositories.HealthRecordFilter, sorts []repositories.Sort) ([]*models.HealthRecord, error)
	Recent(ctx context.Context, limit uint64) ([]*models.HealthRecord, error)
	Update(ctx context.Context, r *models.HealthRecord) error
	Delete(ctx context.Context, id int64) (int64, error)
	DistinctSchoolYears(ctx context.Context) ([]string, error)
	StudentExists(ctx context.Context, studentID int64) (bool, error)
}

var (
	_ StudentStore      = (*repositories.StudentRepository)(nil)
	_ HealthRecordStore = (*repositories.HealthRecordRepository)(nil)
)

// Services holds all the service instances
type Services struct {
	Students      StudentService
	HealthRecords HealthRecordService
	Dashboard     DashboardService
}

// NewServices wires the services onto the repositories
func NewServices(repos *repositories.Repositories) *Services {
	return &Services{
		Students:      NewStudentService(repos.StudentRepository),
		HealthRecords: NewHealthRecordService(repos.HealthRecordRepository, repos.StudentRepository),
		Dashboard:     NewDashboardService(repos.HealthRecordRepository, repos.StudentRepository),
	}
}

// sortOrDefault parses a sort parameter, falling back to def when it is blank
func sortOrDefault(raw string, def []repositories.Sort) []repositories.Sort {
	if sorts := repositories.ParseSort(raw); len(sorts) > 0 {
		return sorts
	}
	return def
}
