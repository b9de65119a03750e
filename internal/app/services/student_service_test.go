package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consolahealth/studenthealth/internal/app/models/dto"
	"github.com/consolahealth/studenthealth/internal/app/repositories"
	"github.com/consolahealth/studenthealth/internal/pkg/apperrors"
)

func TestCreateStudent(t *testing.T) {
	store := newMemStore()
	svc := NewStudentService(store)

	resp, err := svc.CreateStudent(context.Background(), dto.StudentForm{
		SID: "1001", FirstName: "Ana", LastName: "Reyes", Department: "BSED", Email: "ana@school.test",
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, int64(1001), resp.SID)
	assert.Equal(t, "Male", resp.GenderLabel)
	assert.Equal(t, "1st Year", resp.YearLevelLabel)
	assert.Equal(t, "ana@school.test", *resp.Email)
}

func TestCreateStudent_DuplicateSID(t *testing.T) {
	store := newMemStore()
	store.addStudent(1001, "Ana", "Reyes", "BSIT")
	svc := NewStudentService(store)

	_, err := svc.CreateStudent(context.Background(), dto.StudentForm{
		SID: "1001", FirstName: "Ben", LastName: "Cruz", Department: "BSIT",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStudentIDAlreadyExists)
	assert.Contains(t, apperrors.DetailsOf(err), "s_id")
	assert.Len(t, store.students, 1)
}

func TestCreateStudent_Invalid(t *testing.T) {
	store := newMemStore()
	svc := NewStudentService(store)

	_, err := svc.CreateStudent(context.Background(), dto.StudentForm{SID: "x"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Empty(t, store.students)
}

func TestCreateStudent_StoreFailureIsWrapped(t *testing.T) {
	store := newMemStore()
	store.failWith = errors.New("connection refused")
	svc := NewStudentService(store)

	_, err := svc.CreateStudent(context.Background(), dto.StudentForm{
		SID: "1", FirstName: "A", LastName: "B", Department: "BSIT",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error creating student")
	assert.False(t, apperrors.IsNotFound(err))
}

func TestGetStudent_NotFound(t *testing.T) {
	svc := NewStudentService(newMemStore())

	_, err := svc.GetStudent(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	_, err = svc.GetStudent(context.Background(), 0)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestUpdateStudent_KeepsStudentNumber(t *testing.T) {
	store := newMemStore()
	st := store.addStudent(1001, "Ana", "Reyes", "BSIT")
	svc := NewStudentService(store)

	resp, err := svc.UpdateStudent(context.Background(), st.ID, dto.StudentForm{
		SID: "9999", FirstName: "Anna", LastName: "Reyes", Department: "BEED", YearLevel: "3",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1001), resp.SID)
	assert.Equal(t, "Anna", resp.FirstName)
	assert.Equal(t, "BEED", resp.Department)
	assert.Equal(t, "3rd Year", resp.YearLevelLabel)
	assert.Equal(t, "Anna", store.students[st.ID].FirstName)
}

func TestUpdateStudent_RequiresNames(t *testing.T) {
	store := newMemStore()
	st := store.addStudent(1001, "Ana", "Reyes", "BSIT")
	svc := NewStudentService(store)

	_, err := svc.UpdateStudent(context.Background(), st.ID, dto.StudentForm{Department: "BSIT"})
	require.Error(t, err)
	fields := apperrors.DetailsOf(err)
	assert.Contains(t, fields, "first_name")
	assert.Contains(t, fields, "last_name")
	assert.Equal(t, "Ana", store.students[st.ID].FirstName)
}

func TestDeleteStudent_CascadesRecords(t *testing.T) {
	store := newMemStore()
	ana := store.addStudent(1001, "Ana", "Reyes", "BSIT")
	ben := store.addStudent(1002, "Ben", "Cruz", "BSIT")
	store.addRecord(ana.ID, 70, 175, "2024")
	store.addRecord(ana.ID, 71, 175, "2025")
	store.addRecord(ben.ID, 80, 170, "2025")
	svc := NewStudentService(store)

	resp, err := svc.DeleteStudent(context.Background(), ana.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.DeletedHealthRecords)

	remaining, err := recordStore{store}.List(context.Background(), repositories.HealthRecordFilter{StudentID: ana.ID}, nil)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	assert.Len(t, store.records, 1)

	_, err = svc.DeleteStudent(context.Background(), ana.ID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestDeleteStudent_LockedRowIsConflict(t *testing.T) {
	store := newMemStore()
	ana := store.addStudent(1001, "Ana", "Reyes", "BSIT")
	store.addRecord(ana.ID, 70, 175, "2025")
	store.locked = map[int64]bool{ana.ID: true}
	svc := NewStudentService(store)

	_, err := svc.DeleteStudent(context.Background(), ana.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, "student is being modified, try again", err.Error())
	assert.Len(t, store.students, 1)
	assert.Len(t, store.records, 1)
}

func TestListStudents_Paginates(t *testing.T) {
	store := newMemStore()
	store.addStudent(1, "Ana", "Reyes", "BSIT")
	store.addStudent(2, "Ben", "Cruz", "BSIT")
	store.addStudent(3, "Cara", "Diaz", "BSED")
	svc := NewStudentService(store)

	resp, err := svc.ListStudents(context.Background(), dto.StudentFilterRequest{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, resp.Students, 2)
	assert.Equal(t, "Cruz", resp.Students[0].LastName)
	assert.Equal(t, "Diaz", resp.Students[1].LastName)
	assert.Equal(t, int64(3), resp.Pagination.TotalItems)
	assert.Equal(t, 2, resp.Pagination.TotalPages)

	resp, err = svc.ListStudents(context.Background(), dto.StudentFilterRequest{Search: "ana", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, resp.Students, 1)
	assert.Equal(t, "Reyes", resp.Students[0].LastName)
}

func TestStudentOverview_ZeroFilled(t *testing.T) {
	store := newMemStore()
	store.addStudent(1, "Ana", "Reyes", "BSIT")
	store.addStudent(2, "Ben", "Cruz", "BSIT")
	store.addStudent(3, "Cara", "Diaz", "BSHM")
	svc := NewStudentService(store)

	resp, err := svc.StudentOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, resp.TotalStudents)
	require.Len(t, resp.Departments, 6)
	assert.Equal(t, dto.DistributionItem{Code: "BSIT", Label: "Bachelor of Science in Information Technology", Count: 2}, resp.Departments[0])

	counts := map[string]int{}
	for _, d := range resp.Departments {
		counts[d.Code] = d.Count
	}
	assert.Equal(t, 0, counts["BEED"])
	assert.Equal(t, 1, counts["BSHM"])

	require.Len(t, resp.YearLevels, 4)
	assert.Equal(t, 3, resp.YearLevels[0].Count)
	assert.Equal(t, 0, resp.YearLevels[3].Count)
}
