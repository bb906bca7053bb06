package employees

import (
	"context"
	"sync"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, opts ...ServiceOption) (*Service, *Repository) {
	t.Helper()

	ctx := context.Background()
	db, err := OpenDB(ctx, MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db)
	return NewService(repo, opts...), repo
}

func sampleEmployee() Employee {
	return Employee{
		FirstName:           "Ada",
		LastName:            "Lovelace",
		DateOfBirth:         "1990-12-10",
		Gender:              "Female",
		IdentificationNo:    "123-45-6789",
		IdentificationType:  IdentificationSSN,
		Street:              "1 Main St",
		City:                "Springfield",
		State:               "IL",
		Country:             "US",
		CurrentWorkLocation: "Chicago",
		Role:                RoleDeveloper,
		Department:          "Engineering",
		Salary:              85000,
		IsActive:            true,
		Status:              StatusEmployed,
		StartDate:           "2020-01-06",
		EmploymentType:      EmploymentPermanent,
	}
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, sampleEmployee())
	require.NoError(t, err)
	assert.Equal(t, "EMP1001", first.EmployeeID)

	second, err := svc.Create(ctx, sampleEmployee())
	require.NoError(t, err)
	assert.Equal(t, "EMP1002", second.EmployeeID)
}

func TestCreateContinuesAfterSeededMax(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	seeded := sampleEmployee()
	seeded.EmployeeID = "EMP1100"
	require.NoError(t, repo.Seed(ctx, []Employee{seeded}))

	created, err := svc.Create(ctx, sampleEmployee())
	require.NoError(t, err)
	assert.Equal(t, "EMP1101", created.EmployeeID)
}

func TestCreateIgnoresClientID(t *testing.T) {
	svc, _ := newTestService(t)

	in := sampleEmployee()
	in.EmployeeID = "EMP9999"

	created, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "EMP1001", created.EmployeeID)
}

func TestCreateConcurrentIDsAreUnique(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	const n = 20
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := svc.Create(ctx, sampleEmployee())
			if assert.NoError(t, err) {
				ids <- e.EmployeeID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Employee)
		field  string
	}{
		{"missing first name", func(e *Employee) { e.FirstName = " " }, "first_name"},
		{"bad birth date", func(e *Employee) { e.DateOfBirth = "10/12/1990" }, "date_of_birth"},
		{"unknown role", func(e *Employee) { e.Role = "Wizard" }, "role"},
		{"unknown status", func(e *Employee) { e.Status = "Retired" }, "status"},
		{"negative salary", func(e *Employee) { e.Salary = -1 }, "salary"},
		{"bad phone", func(e *Employee) { e.PhoneNumber = "12" }, "phone_number"},
		{"end before start", func(e *Employee) { e.EndDate = optional("2019-01-01") }, "end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)

			in := sampleEmployee()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), in)
			require.Error(t, err)

			var verrs validation.Errors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs, tt.field)
		})
	}
}

func TestCreateNormalizesPhone(t *testing.T) {
	svc, _ := newTestService(t)

	in := sampleEmployee()
	in.PhoneNumber = "(201) 555-0123"

	created, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "+12015550123", created.PhoneNumber)
}

func TestListPagination(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, sampleEmployee())
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "EMP1002", page[0].EmployeeID)
	assert.Equal(t, "EMP1003", page[1].EmployeeID)

	all, err := svc.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	empty, err := svc.List(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = svc.List(ctx, -1, 5)
	assert.Error(t, err)
}

func TestGetUnknown(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), "EMP4242")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestUpdatePatchesOnlyGivenFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleEmployee())
	require.NoError(t, err)

	salary := 99000.0
	city := "Boston"
	updated, err := svc.Update(ctx, created.EmployeeID, EmployeeUpdate{Salary: &salary, City: &city})
	require.NoError(t, err)

	assert.Equal(t, created.EmployeeID, updated.EmployeeID)
	assert.Equal(t, 99000.0, updated.Salary)
	assert.Equal(t, "Boston", updated.City)
	assert.Equal(t, "Ada", updated.FirstName)

	stored, err := svc.Get(ctx, created.EmployeeID)
	require.NoError(t, err)
	assert.Equal(t, "Boston", stored.City)
}

func TestUpdateRejectsInvalidPatch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleEmployee())
	require.NoError(t, err)

	role := Role("Wizard")
	_, err = svc.Update(ctx, created.EmployeeID, EmployeeUpdate{Role: &role})
	require.Error(t, err)

	stored, err := svc.Get(ctx, created.EmployeeID)
	require.NoError(t, err)
	assert.Equal(t, RoleDeveloper, stored.Role)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleEmployee())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.EmployeeID))

	_, err = svc.Get(ctx, created.EmployeeID)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, created.EmployeeID), ErrEmployeeNotFound)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestChangeDepartment(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleEmployee())
	require.NoError(t, err)

	moved, err := svc.ChangeDepartment(ctx, created.EmployeeID, " Data ")
	require.NoError(t, err)
	assert.Equal(t, "Data", moved.Department)

	_, err = svc.ChangeDepartment(ctx, created.EmployeeID, "")
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "department")

	_, err = svc.ChangeDepartment(ctx, "EMP0000", "HR")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestResign(t *testing.T) {
	today := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, WithServiceClock(func() time.Time { return today }))
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleEmployee())
	require.NoError(t, err)

	resigned, err := svc.Resign(ctx, created.EmployeeID, "")
	require.NoError(t, err)
	assert.Equal(t, StatusResigned, resigned.Status)
	assert.False(t, resigned.IsActive)
	require.NotNil(t, resigned.EndDate)
	assert.Equal(t, "2024-03-15", *resigned.EndDate)

	_, err = svc.Resign(ctx, created.EmployeeID, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestResignExplicitDate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleEmployee())
	require.NoError(t, err)

	_, err = svc.Resign(ctx, created.EmployeeID, "2019-12-31")
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "end_date")

	resigned, err := svc.Resign(ctx, created.EmployeeID, "2024-06-30")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-30", *resigned.EndDate)
}
