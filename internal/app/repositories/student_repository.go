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
	"github.com/consolahealth/studenthealth/internal/pkg/helpers"
	"github.com/consolahealth/studenthealth/internal/pkg/logger"
)

const studentSIDConstraint = "students_s_id_key"

// studentSortColumns is the whitelist for student ordering
var studentSortColumns = map[string]string{
	"id":         "s.id",
	"s_id":       "s.s_id",
	"first_name": "s.first_name",
	"last_name":  "s.last_name",
	"department": "s.department",
	"year_level": "s.year_level",
	"created_at": "s.created_at",
}

var studentColumns = []string{
	"s.id", "s.s_id", "s.first_name", "s.middle_initial", "s.last_name", "s.gender",
	"s.address", "s.email", "s.department", "s.year_level", "s.created_at", "s.updated_at",
}

// StudentFilter narrows student lists
type StudentFilter struct {
	Search string
}

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *db.PostgresDB
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(database *db.PostgresDB) *StudentRepository {
	return &StudentRepository{db: database}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(
		&s.ID, &s.SID, &s.FirstName, &s.MiddleInitial, &s.LastName, &s.Gender,
		&s.Address, &s.Email, &s.Department, &s.YearLevel, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, err
	}
	return &s, nil
}

// studentSearch matches first name, last name or student number as a substring
func studentSearch(term string) squirrel.Sqlizer {
	pattern := helpers.LikePattern(term)
	return squirrel.Or{
		squirrel.ILike{"s.first_name": pattern},
		squirrel.ILike{"s.last_name": pattern},
		squirrel.ILike{"s.s_id::text": pattern},
	}
}

// buildStudentListQuery returns the page query and the matching count query
func buildStudentListQuery(filter StudentFilter, sorts []Sort, page, size int) (squirrel.SelectBuilder, squirrel.SelectBuilder, error) {
	list := psql.Select(studentColumns...).From("students s")
	count := psql.Select("COUNT(*)").From("students s")

	if filter.Search != "" {
		list = list.Where(studentSearch(filter.Search))
		count = count.Where(studentSearch(filter.Search))
	}

	order, err := orderBy(sorts, studentSortColumns, "s.id ASC")
	if err != nil {
		return list, count, err
	}
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	list = list.OrderBy(order...).Limit(limit).Offset(offset)
	return list, count, nil
}

// Create inserts a student. A taken student number maps to ErrStudentIDAlreadyExists.
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error {
	sql, args, err := psql.Insert("students").
		Columns("s_id", "first_name", "middle_initial", "last_name", "gender", "address", "email", "department", "year_level").
		Values(s.SID, s.FirstName, s.MiddleInitial, s.LastName, s.Gender, s.Address, s.Email, s.Department, s.YearLevel).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return err
	}

	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, studentSIDConstraint) {
			return apperrors.ErrStudentIDAlreadyExists
		}
		logger.Error().Err(err).Int64("sId", s.SID).Msg("Error executing create student query")
		return err
	}
	return nil
}

// GetByID retrieves a student by internal id
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := psql.Select(studentColumns...).From("students s").
		Where(squirrel.Eq{"s.id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	s, err := scanStudent(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil && !errors.Is(err, apperrors.ErrStudentNotFound) {
		logger.Error().Err(err).Int64("studentId", id).Msg("Error retrieving student")
	}
	return s, err
}

// List returns one page of students and the total number of matches
func (r *StudentRepository) List(ctx context.Context, filter StudentFilter, sorts []Sort, page, size int) ([]*models.Student, int64, error) {
	listBuilder, countBuilder, err := buildStudentListQuery(filter, sorts, page, size)
	if err != nil {
		return nil, 0, err
	}

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building student count SQL")
		return nil, 0, err
	}
	var total int64
	if err := r.db.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing student count query")
		return nil, 0, err
	}
	if total == 0 {
		return []*models.Student{}, 0, nil
	}

	students, err := r.query(ctx, listBuilder)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// ListAll returns every student in the given order
func (r *StudentRepository) ListAll(ctx context.Context, sorts []Sort) ([]*models.Student, error) {
	order, err := orderBy(sorts, studentSortColumns, "s.id ASC")
	if err != nil {
		return nil, err
	}
	return r.query(ctx, psql.Select(studentColumns...).From("students s").OrderBy(order...))
}

func (r *StudentRepository) query(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.Student, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building student list SQL")
		return nil, err
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing student list query")
		return nil, err
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, err
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return students, nil
}

// Update writes the editable fields of a student. The student number is never changed.
func (r *StudentRepository) Update(ctx context.Context, s *models.Student) error {
	sql, args, err := psql.Update("students").
		Set("first_name", s.FirstName).
		Set("middle_initial", s.MiddleInitial).
		Set("last_name", s.LastName).
		Set("gender", s.Gender).
		Set("address", s.Address).
		Set("email", s.Email).
		Set("department", s.Department).
		Set("year_level", s.YearLevel).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": s.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update student SQL")
		return err
	}

	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentId", s.ID).Msg("Error executing update student query")
		return err
	}
	return nil
}

// Delete removes a student; the foreign key cascades to its health records. It returns
// how many records went with it, counted in the same transaction while the student
// row is locked against new checkups.
func (r *StudentRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var removed int64
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var locked int64
		err := tx.QueryRow(ctx, `SELECT id FROM students WHERE id = $1 FOR UPDATE NOWAIT`, id).Scan(&locked)
		if err != nil {
			return studentLockError(err)
		}

		removed, err = countStudentRecords(ctx, tx, id)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
		return err
	})
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrStudentNotFound, apperrors.ErrConflict) {
			logger.Error().Err(err).Int64("studentId", id).Msg("Error deleting student")
		}
		return 0, err
	}
	return removed, nil
}

// studentLockError maps a failed row lock: a missing row is not found, a row held by
// another transaction is a conflict the client can retry.
func studentLockError(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.ErrStudentNotFound
	case dberrors.IsLockNotAvailable(err):
		return apperrors.NewConflictError("student is being modified, try again")
	default:
		return err
	}
}

func countStudentRecords(ctx context.Context, q db.DBTX, studentID int64) (int64, error) {
	sql, args, err := psql.Select("COUNT(*)").From("health_records").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return 0, err
	}
	var n int64
	err = q.QueryRow(ctx, sql, args...).Scan(&n)
	return n, err
}

// CountByDepartment returns the number of students per department code
func (r *StudentRepository) CountByDepartment(ctx context.Context) (map[string]int64, error) {
	return r.countGrouped(ctx, "department")
}

// CountByYearLevel returns the number of students per year level code
func (r *StudentRepository) CountByYearLevel(ctx context.Context) (map[string]int64, error) {
	return r.countGrouped(ctx, "year_level")
}

func (r *StudentRepository) countGrouped(ctx context.Context, column string) (map[string]int64, error) {
	sql, args, err := psql.Select(column, "COUNT(*)").From("students").GroupBy(column).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("column", column).Msg("Error executing grouped student count")
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	return counts, rows.Err()
}
