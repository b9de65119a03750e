package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/consolahealth/studenthealth/internal/app/models"
	"github.com/consolahealth/studenthealth/internal/db"
	"github.com/consolahealth/studenthealth/internal/pkg/apperrors"
	"github.com/consolahealth/studenthealth/internal/pkg/dberrors"
	"github.com/consolahealth/studenthealth/internal/pkg/logger"
)

const healthRecordStudentFK = "health_records_student_id_fkey"

// healthRecordSortColumns is the whitelist for record ordering
var healthRecordSortColumns = map[string]string{
	"id":           "hr.id",
	"checkup_date": "hr.checkup_date",
	"last_updated": "hr.last_updated",
	"weight":       "hr.weight",
	"height":       "hr.height",
	"temperature":  "hr.temperature",
	"school_year":  "hr.school_year",
	"s_id":         "s.s_id",
	"first_name":   "s.first_name",
	"last_name":    "s.last_name",
	"department":   "s.department",
}

// missing measurements read back as zero, which derives to an undefined BMI. A missing
// weight is also flagged so averages can leave it out.
var healthRecordColumns = []string{
	"hr.id", "hr.student_id",
	"hr.weight", "COALESCE(hr.height, 0)",
	"COALESCE(hr.systolic_bp, 0)", "COALESCE(hr.diastolic_bp, 0)",
	"COALESCE(hr.temperature, 0)",
	"hr.vision", "hr.urine_test", "hr.school_year", "hr.checkup_date", "hr.last_updated",
}

// HealthRecordFilter is the compound record filter. Zero values are no-ops and the
// criteria are AND-combined. Category is not a column; the repository only narrows to
// rows that can have a BMI and leaves the category match to the caller.
type HealthRecordFilter struct {
	StudentID  int64
	Search     string
	Department string
	SchoolYear string
	Category   string
}

// HealthRecordRepository handles database operations for health records
type HealthRecordRepository struct {
	db *db.PostgresDB
}

// NewHealthRecordRepository creates a new health record repository
func NewHealthRecordRepository(database *db.PostgresDB) *HealthRecordRepository {
	return &HealthRecordRepository{db: database}
}

func selectHealthRecords() squirrel.SelectBuilder {
	columns := append(append([]string{}, healthRecordColumns...), studentColumns...)
	return psql.Select(columns...).
		From("health_records hr").
		Join("students s ON s.id = hr.student_id")
}

func scanHealthRecord(row pgx.Row) (*models.HealthRecord, error) {
	var r models.HealthRecord
	var s models.Student
	var weight *float64
	err := row.Scan(
		&r.ID, &r.StudentID, &weight, &r.Height, &r.SystolicBP, &r.DiastolicBP, &r.Temperature,
		&r.Vision, &r.UrineTest, &r.SchoolYear, &r.CheckupDate, &r.LastUpdated,
		&s.ID, &s.SID, &s.FirstName, &s.MiddleInitial, &s.LastName, &s.Gender,
		&s.Address, &s.Email, &s.Department, &s.YearLevel, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrHealthRecordNotFound
		}
		return nil, err
	}
	r.SetWeight(weight)
	r.Student = &s
	return &r, nil
}

// buildHealthRecordListQuery pushes search, department, school year and student down
// to SQL. Ordering always ends with id DESC so equal checkup times stay stable.
func buildHealthRecordListQuery(filter HealthRecordFilter, sorts []Sort) (squirrel.SelectBuilder, error) {
	q := selectHealthRecords()

	if filter.StudentID != 0 {
		q = q.Where(squirrel.Eq{"hr.student_id": filter.StudentID})
	}
	if filter.Search != "" {
		q = q.Where(studentSearch(filter.Search))
	}
	if filter.Department != "" {
		q = q.Where(squirrel.Eq{"s.department": filter.Department})
	}
	if filter.SchoolYear != "" {
		q = q.Where(squirrel.Eq{"hr.school_year": filter.SchoolYear})
	}
	if filter.Category != "" {
		q = q.Where("hr.weight IS NOT NULL AND hr.height > 0")
	}

	order, err := orderBy(sorts, healthRecordSortColumns, "hr.id DESC")
	if err != nil {
		return q, err
	}
	return q.OrderBy(order...), nil
}

// writeError maps constraint failures on insert/update to domain errors
func writeError(err error) error {
	switch {
	case dberrors.IsForeignKeyViolation(err, healthRecordStudentFK):
		return apperrors.ErrStudentNotFound
	case dberrors.IsNumericOverflow(err):
		return apperrors.NewValidationError("invalid health record", map[string]string{
			"measurements": "a measurement is outside the range that can be stored",
		})
	}
	return err
}

// Create inserts a record; checkup_date and last_updated are set by the database
func (r *HealthRecordRepository) Create(ctx context.Context, rec *models.HealthRecord) error {
	sql, args, err := psql.Insert("health_records").
		Columns("student_id", "weight", "height", "systolic_bp", "diastolic_bp", "temperature", "vision", "urine_test", "school_year").
		Values(rec.StudentID, rec.Weight, rec.Height, rec.SystolicBP, rec.DiastolicBP, rec.Temperature, rec.Vision, rec.UrineTest, rec.SchoolYear).
		Suffix("RETURNING id, checkup_date, last_updated").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create health record SQL")
		return err
	}

	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(&rec.ID, &rec.CheckupDate, &rec.LastUpdated)
	if err != nil {
		if mapped := writeError(err); mapped != err {
			return mapped
		}
		logger.Error().Err(err).Int64("studentId", rec.StudentID).Msg("Error executing create health record query")
		return err
	}
	return nil
}

// GetByID retrieves a record together with its student
func (r *HealthRecordRepository) GetByID(ctx context.Context, id int64) (*models.HealthRecord, error) {
	sql, args, err := selectHealthRecords().Where(squirrel.Eq{"hr.id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	rec, err := scanHealthRecord(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil && !errors.Is(err, apperrors.ErrHealthRecordNotFound) {
		logger.Error().Err(err).Int64("recordId", id).Msg("Error retrieving health record")
	}
	return rec, err
}

// List returns every record matching the SQL side of filter
func (r *HealthRecordRepository) List(ctx context.Context, filter HealthRecordFilter, sorts []Sort) ([]*models.HealthRecord, error) {
	builder, err := buildHealthRecordListQuery(filter, sorts)
	if err != nil {
		return nil, err
	}
	return r.query(ctx, builder)
}

// Recent returns the latest checkups across all students
func (r *HealthRecordRepository) Recent(ctx context.Context, limit uint64) ([]*models.HealthRecord, error) {
	return r.query(ctx, selectHealthRecords().
		OrderBy("hr.checkup_date DESC", "hr.id DESC").
		Limit(limit))
}

func (r *HealthRecordRepository) query(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.HealthRecord, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building health record list SQL")
		return nil, err
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing health record list query")
		return nil, err
	}
	defer rows.Close()

	records := make([]*models.HealthRecord, 0)
	for rows.Next() {
		rec, err := scanHealthRecord(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning health record row")
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return records, nil
}

// Update overwrites a record's measurements and refreshes last_updated
func (r *HealthRecordRepository) Update(ctx context.Context, rec *models.HealthRecord) error {
	sql, args, err := psql.Update("health_records").
		Set("student_id", rec.StudentID).
		Set("weight", rec.Weight).
		Set("height", rec.Height).
		Set("systolic_bp", rec.SystolicBP).
		Set("diastolic_bp", rec.DiastolicBP).
		Set("temperature", rec.Temperature).
		Set("vision", rec.Vision).
		Set("urine_test", rec.UrineTest).
		Set("school_year", rec.SchoolYear).
		Set("last_updated", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": rec.ID}).
		Suffix("RETURNING checkup_date, last_updated").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update health record SQL")
		return err
	}

	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(&rec.CheckupDate, &rec.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrHealthRecordNotFound
		}
		if mapped := writeError(err); mapped != err {
			return mapped
		}
		logger.Error().Err(err).Int64("recordId", rec.ID).Msg("Error executing update health record query")
		return err
	}
	return nil
}

// Delete removes a record and returns the id of the student it belonged to
func (r *HealthRecordRepository) Delete(ctx context.Context, id int64) (int64, error) {
	sql, args, err := psql.Delete("health_records").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING student_id").
		ToSql()
	if err != nil {
		return 0, err
	}

	var studentID int64
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&studentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrHealthRecordNotFound
		}
		logger.Error().Err(err).Int64("recordId", id).Msg("Error executing delete health record query")
		return 0, err
	}
	return studentID, nil
}

// DistinctSchoolYears lists the non-empty school-year labels, newest first
func (r *HealthRecordRepository) DistinctSchoolYears(ctx context.Context) ([]string, error) {
	sql, args, err := psql.Select("DISTINCT school_year").From("health_records").
		Where("school_year IS NOT NULL AND school_year <> ''").
		OrderBy("school_year DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing distinct school year query")
		return nil, err
	}
	defer rows.Close()

	years, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	return years, nil
}

// StudentExists reports whether a student row exists
func (r *HealthRecordRepository) StudentExists(ctx context.Context, studentID int64) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE id = $1)`, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking student existence: %w", err)
	}
	return exists, nil
}
