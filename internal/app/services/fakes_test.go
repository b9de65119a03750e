package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/consolahealth/studenthealth/internal/app/models"
	"github.com/consolahealth/studenthealth/internal/app/repositories"
	"github.com/consolahealth/studenthealth/internal/pkg/apperrors"
)

// memStore is an in-memory student and health record store
type memStore struct {
	students map[int64]*models.Student
	records  map[int64]*models.HealthRecord
	nextID   int64
	clock    time.Time
	failWith error
	locked   map[int64]bool
}

func newMemStore() *memStore {
	return &memStore{
		students: make(map[int64]*models.Student),
		records:  make(map[int64]*models.HealthRecord),
		clock:    time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Hour)
	return m.clock
}

func (m *memStore) addStudent(sid int64, first, last, dept string) *models.Student {
	s := &models.Student{ID: m.id(), SID: sid, FirstName: first, LastName: last, Department: dept, Gender: "M", YearLevel: "1"}
	m.students[s.ID] = s
	return s
}

func (m *memStore) addRecord(studentID int64, weight, height float64, year string) *models.HealthRecord {
	r := &models.HealthRecord{ID: m.id(), StudentID: studentID, Weight: weight, Height: height, SystolicBP: 110, DiastolicBP: 70, UrineTest: "pending"}
	if year != "" {
		r.SchoolYear = &year
	}
	r.CheckupDate = m.tick()
	r.LastUpdated = r.CheckupDate
	m.records[r.ID] = r
	return r
}

// student store

func (m *memStore) Create(ctx context.Context, s *models.Student) error {
	if m.failWith != nil {
		return m.failWith
	}
	for _, other := range m.students {
		if other.SID == s.SID {
			return apperrors.ErrStudentIDAlreadyExists
		}
	}
	s.ID = m.id()
	s.CreatedAt = m.tick()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	m.students[s.ID] = &cp
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) sortedStudents(search string) []*models.Student {
	out := make([]*models.Student, 0)
	for _, s := range m.students {
		if search == "" || matches(s, search) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out
}

func (m *memStore) List(ctx context.Context, filter repositories.StudentFilter, sorts []repositories.Sort, page, size int) ([]*models.Student, int64, error) {
	all := m.sortedStudents(filter.Search)
	start := (page - 1) * size
	if start > len(all) {
		start = len(all)
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (m *memStore) ListAll(ctx context.Context, sorts []repositories.Sort) ([]*models.Student, error) {
	return m.sortedStudents(""), nil
}

func (m *memStore) Update(ctx context.Context, s *models.Student) error {
	if _, ok := m.students[s.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	s.UpdatedAt = m.tick()
	cp := *s
	m.students[s.ID] = &cp
	return nil
}

func (m *memStore) Delete(ctx context.Context, id int64) (int64, error) {
	if _, ok := m.students[id]; !ok {
		return 0, apperrors.ErrStudentNotFound
	}
	if m.locked[id] {
		return 0, apperrors.NewConflictError("student is being modified, try again")
	}
	var removed int64
	for rid, r := range m.records {
		if r.StudentID == id {
			delete(m.records, rid)
			removed++
		}
	}
	delete(m.students, id)
	return removed, nil
}

func (m *memStore) CountByDepartment(ctx context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, s := range m.students {
		counts[s.Department]++
	}
	return counts, nil
}

func (m *memStore) CountByYearLevel(ctx context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, s := range m.students {
		counts[s.YearLevel]++
	}
	return counts, nil
}

func matches(s *models.Student, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(s.FirstName), term) ||
		strings.Contains(strings.ToLower(s.LastName), term) ||
		strings.Contains(strconv.FormatInt(s.SID, 10), term)
}

// recordStore adapts memStore to the health record store; the method names overlap
// with the student store so it gets its own type.
type recordStore struct{ m *memStore }

func (r recordStore) Create(ctx context.Context, rec *models.HealthRecord) error {
	if _, ok := r.m.students[rec.StudentID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	rec.ID = r.m.id()
	rec.CheckupDate = r.m.tick()
	rec.LastUpdated = rec.CheckupDate
	cp := *rec
	r.m.records[rec.ID] = &cp
	return nil
}

func (r recordStore) withStudent(rec *models.HealthRecord) *models.HealthRecord {
	cp := *rec
	if s, ok := r.m.students[rec.StudentID]; ok {
		sc := *s
		cp.Student = &sc
	}
	return &cp
}

func (r recordStore) GetByID(ctx context.Context, id int64) (*models.HealthRecord, error) {
	rec, ok := r.m.records[id]
	if !ok {
		return nil, apperrors.ErrHealthRecordNotFound
	}
	return r.withStudent(rec), nil
}

func (r recordStore) List(ctx context.Context, filter repositories.HealthRecordFilter, sorts []repositories.Sort) ([]*models.HealthRecord, error) {
	for _, s := range sorts {
		if s.Column == "bogus" {
			return nil, apperrors.NewBadRequestError("cannot sort by bogus")
		}
	}
	out := make([]*models.HealthRecord, 0)
	for _, rec := range r.m.records {
		st := r.m.students[rec.StudentID]
		switch {
		case filter.StudentID != 0 && rec.StudentID != filter.StudentID:
			continue
		case filter.Search != "" && !matches(st, filter.Search):
			continue
		case filter.Department != "" && st.Department != filter.Department:
			continue
		case filter.SchoolYear != "" && (rec.SchoolYear == nil || *rec.SchoolYear != filter.SchoolYear):
			continue
		case filter.Category != "" && rec.Height <= 0:
			continue
		}
		out = append(out, r.withStudent(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CheckupDate.Equal(out[j].CheckupDate) {
			return out[i].CheckupDate.After(out[j].CheckupDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r recordStore) Recent(ctx context.Context, limit uint64) ([]*models.HealthRecord, error) {
	all, _ := r.List(ctx, repositories.HealthRecordFilter{}, nil)
	if uint64(len(all)) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r recordStore) Update(ctx context.Context, rec *models.HealthRecord) error {
	if _, ok := r.m.records[rec.ID]; !ok {
		return apperrors.ErrHealthRecordNotFound
	}
	rec.LastUpdated = r.m.tick()
	cp := *rec
	cp.Student = nil
	r.m.records[rec.ID] = &cp
	return nil
}

func (r recordStore) Delete(ctx context.Context, id int64) (int64, error) {
	rec, ok := r.m.records[id]
	if !ok {
		return 0, apperrors.ErrHealthRecordNotFound
	}
	delete(r.m.records, id)
	return rec.StudentID, nil
}

func (r recordStore) DistinctSchoolYears(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	years := make([]string, 0)
	for _, rec := range r.m.records {
		if rec.SchoolYear != nil && *rec.SchoolYear != "" && !seen[*rec.SchoolYear] {
			seen[*rec.SchoolYear] = true
			years = append(years, *rec.SchoolYear)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years, nil
}

func (r recordStore) StudentExists(ctx context.Context, studentID int64) (bool, error) {
	_, ok := r.m.students[studentID]
	return ok, nil
}

var (
	_ StudentStore      = (*memStore)(nil)
	_ HealthRecordStore = recordStore{}
)
