package repositories

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/consolahealth/studenthealth/internal/db"
	"github.com/consolahealth/studenthealth/internal/pkg/apperrors"
)

// psql is the statement builder shared by every repository
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository      *StudentRepository
	HealthRecordRepository *HealthRecordRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		StudentRepository:      NewStudentRepository(database),
		HealthRecordRepository: NewHealthRecordRepository(database),
	}
}

// Sort is one ORDER BY key. Column is a public sort name, mapped to a real column by
// the repository's whitelist.
type Sort struct {
	Column string
	Desc   bool
}

// String renders the sort in its query parameter form ("-checkup_date")
func (s Sort) String() string {
	if s.Desc {
		return "-" + s.Column
	}
	return s.Column
}

// ParseSort parses "-checkup_date,last_name" style parameters. Blank input yields nil.
func ParseSort(raw string) []Sort {
	var sorts []Sort
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		sorts = append(sorts, Sort{Column: strings.TrimPrefix(part, "-"), Desc: desc})
	}
	return sorts
}

// orderBy resolves sorts against a whitelist and appends the tie-break so paging is
// stable. Unknown columns are a bad request.
func orderBy(sorts []Sort, columns map[string]string, tieBreak string) ([]string, error) {
	clauses := make([]string, 0, len(sorts)+1)
	for _, s := range sorts {
		col, ok := columns[s.Column]
		if !ok {
			return nil, apperrors.NewBadRequestError(fmt.Sprintf("cannot sort by %q", s.Column))
		}
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		clauses = append(clauses, col+" "+dir)
	}
	return append(clauses, tieBreak), nil
}
