package repositories

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consolahealth/studenthealth/internal/pkg/apperrors"
)

func TestParseSort(t *testing.T) {
	assert.Nil(t, ParseSort(""))
	assert.Equal(t, []Sort{{Column: "checkup_date", Desc: true}}, ParseSort("-checkup_date"))
	assert.Equal(t,
		[]Sort{{Column: "last_name"}, {Column: "first_name", Desc: true}},
		ParseSort("last_name, -first_name,"))
	assert.Equal(t, "-weight", Sort{Column: "weight", Desc: true}.String())
}

func TestOrderBy_RejectsUnknownColumn(t *testing.T) {
	_, err := orderBy([]Sort{{Column: "password"}}, studentSortColumns, "s.id ASC")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestBuildHealthRecordListQuery_NoCriteria(t *testing.T) {
	builder, err := buildHealthRecordListQuery(HealthRecordFilter{}, []Sort{{Column: "checkup_date", Desc: true}})
	require.NoError(t, err)

	sql, args, err := builder.ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "WHERE")
	assert.Contains(t, sql, "FROM health_records hr JOIN students s ON s.id = hr.student_id")
	assert.Contains(t, sql, "ORDER BY hr.checkup_date DESC, hr.id DESC")
	assert.Empty(t, args)
}

func TestBuildHealthRecordListQuery_AllCriteria(t *testing.T) {
	filter := HealthRecordFilter{
		Search:     "ana",
		Department: "BSIT",
		SchoolYear: "2024",
		Category:   "normal",
	}
	builder, err := buildHealthRecordListQuery(filter, []Sort{{Column: "last_name"}})
	require.NoError(t, err)

	sql, args, err := builder.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE (s.first_name ILIKE $1 OR s.last_name ILIKE $2 OR s.s_id::text ILIKE $3)")
	assert.Contains(t, sql, "AND s.department = $4")
	assert.Contains(t, sql, "AND hr.school_year = $5")
	assert.Contains(t, sql, "AND hr.weight IS NOT NULL AND hr.height > 0")
	assert.Contains(t, sql, "ORDER BY s.last_name ASC, hr.id DESC")
	assert.Equal(t, []interface{}{"%ana%", "%ana%", "%ana%", "BSIT", "2024"}, args)
}

func TestBuildHealthRecordListQuery_ByStudent(t *testing.T) {
	builder, err := buildHealthRecordListQuery(HealthRecordFilter{StudentID: 7}, nil)
	require.NoError(t, err)

	sql, args, err := builder.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE hr.student_id = $1")
	assert.Contains(t, sql, "ORDER BY hr.id DESC")
	assert.Equal(t, []interface{}{int64(7)}, args)
}

func TestBuildStudentListQuery(t *testing.T) {
	list, count, err := buildStudentListQuery(StudentFilter{Search: "50%"},
		[]Sort{{Column: "last_name"}, {Column: "first_name"}}, 2, 10)
	require.NoError(t, err)

	sql, args, err := list.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM students s WHERE (s.first_name ILIKE $1")
	assert.Contains(t, sql, "ORDER BY s.last_name ASC, s.first_name ASC, s.id ASC LIMIT 10 OFFSET 10")
	assert.Equal(t, `%50\%%`, args[0])

	countSQL, countArgs, err := count.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM students s WHERE (s.first_name ILIKE $1 OR s.last_name ILIKE $2 OR s.s_id::text ILIKE $3)", countSQL)
	assert.Len(t, countArgs, 3)
}

func TestWriteError(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "health_records_student_id_fkey"}
	assert.ErrorIs(t, writeError(fk), apperrors.ErrStudentNotFound)

	overflow := &pgconn.PgError{Code: "22003"}
	err := writeError(overflow)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Contains(t, apperrors.DetailsOf(err), "measurements")

	other := errors.New("connection reset")
	assert.Same(t, other, writeError(other))
	assert.Nil(t, writeError(nil))
}

func TestStudentLockError(t *testing.T) {
	assert.ErrorIs(t, studentLockError(pgx.ErrNoRows), apperrors.ErrStudentNotFound)

	err := studentLockError(&pgconn.PgError{Code: "55P03", Message: "could not obtain lock on row in relation \"students\""})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, "student is being modified, try again", err.Error())

	other := errors.New("connection reset")
	assert.Same(t, other, studentLockError(other))
}
