package employee

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

type fakeEmployeeRepo struct {
	employees map[int64]*Employee
	order     []int64
	sequence  int64

	selectAllCalls int
	selectAllErr   error
	insertErr      error
	updateErr      error
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[int64]*Employee)}
}

func (r *fakeEmployeeRepo) Insert(_ context.Context, e *Employee) (int64, error) {
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	for _, existing := range r.employees {
		if existing.Username == e.Username {
			return 0, ErrUsernameDuplicated
		}
	}
	r.sequence++
	clone := e.Clone()
	clone.ID = r.sequence
	r.employees[clone.ID] = clone
	r.order = append(r.order, clone.ID)
	return clone.ID, nil
}

func (r *fakeEmployeeRepo) SelectAll(_ context.Context) ([]*Employee, error) {
	r.selectAllCalls++
	if r.selectAllErr != nil {
		return nil, r.selectAllErr
	}
	out := make([]*Employee, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.employees[id].Clone())
	}
	return out, nil
}

func (r *fakeEmployeeRepo) SelectByID(_ context.Context, id int64) (*Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	return emp.Clone(), nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, e *Employee) (int64, error) {
	if r.updateErr != nil {
		return 0, r.updateErr
	}
	if _, ok := r.employees[e.ID]; !ok {
		return 0, nil
	}
	r.employees[e.ID] = e.Clone()
	return 1, nil
}

func (r *fakeEmployeeRepo) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := r.employees[id]; !ok {
		return 0, nil
	}
	delete(r.employees, id)
	for idx, existingID := range r.order {
		if existingID == id {
			r.order = append(r.order[:idx], r.order[idx+1:]...)
			break
		}
	}
	return 1, nil
}

type recordingTx struct {
	readOnly  int
	readWrite int
}

func (r *recordingTx) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	r.readOnly++
	return fn(ctx)
}

func (r *recordingTx) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	r.readWrite++
	return fn(ctx)
}

func seedEmployee(t *testing.T, svc *Service, in CreateEmployeeInput) *Employee {
	t.Helper()

	created, err := svc.CreateEmployee(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}
	return created
}

func TestService_CreateEmployee_Success(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	tx := &recordingTx{}
	svc := NewService(repo, tx, nil)

	team := " team-1 "
	born := time.Date(1990, 5, 1, 13, 45, 0, 0, time.FixedZone("JST", 9*60*60))

	created, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		Username:           " ana ",
		Password:           "secret",
		FirstName:          " Ana ",
		LastName:           "Lima",
		Email:              "ana@example.com",
		Gender:             "F",
		DateOfBirth:        &born,
		TeamID:             &team,
		RoleID:             "role-dev",
		CompletedTrainings: []string{"role-junior", " "},
	})
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	if created.ID != 1 {
		t.Fatalf("expected store-assigned id 1, got %d", created.ID)
	}
	if created.Username != "ana" || created.FirstName != "Ana" {
		t.Fatalf("expected trimmed fields, got %q %q", created.Username, created.FirstName)
	}
	if created.TeamID == nil || *created.TeamID != "team-1" {
		t.Fatalf("expected trimmed team id, got %+v", created.TeamID)
	}
	if FormatDate(created.DateOfBirth) != "1990-05-01" {
		t.Fatalf("expected normalized date of birth, got %v", created.DateOfBirth)
	}
	if !reflect.DeepEqual(created.CompletedTrainings, []string{"role-junior"}) {
		t.Fatalf("expected blank trainings to be dropped, got %v", created.CompletedTrainings)
	}
	if tx.readWrite != 1 || tx.readOnly != 1 {
		t.Fatalf("expected one write and one refresh transaction, got rw=%d ro=%d", tx.readWrite, tx.readOnly)
	}
}

func TestService_CreateEmployee_Invalid(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := NewService(repo, nil, nil)

	cases := []CreateEmployeeInput{
		{FirstName: "No", LastName: "Username"},
		{Username: "bad-mail", FirstName: "A", LastName: "B", Email: "not-an-email"},
		{Username: "bad-gender", FirstName: "A", LastName: "B", Gender: "FM"},
	}
	for _, in := range cases {
		if _, err := svc.CreateEmployee(context.Background(), in); !errors.Is(err, ErrInvalidEmployee) {
			t.Fatalf("expected ErrInvalidEmployee for %+v, got %v", in, err)
		}
	}
	if len(repo.employees) != 0 {
		t.Fatalf("invalid input must not reach the store")
	}
}

func TestService_CreateEmployee_StoreFailure(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	repo.insertErr = errors.New("connection refused")
	svc := NewService(repo, nil, nil)

	_, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{Username: "u", FirstName: "A", LastName: "B"})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

type failAfterInsertRepo struct {
	*fakeEmployeeRepo
}

func (r failAfterInsertRepo) Insert(ctx context.Context, e *Employee) (int64, error) {
	id, err := r.fakeEmployeeRepo.Insert(ctx, e)
	if err == nil {
		r.selectAllErr = errors.New("connection reset")
	}
	return id, err
}

func TestService_CreateEmployee_RefreshFailureReturnsStoredEmployee(t *testing.T) {
	t.Parallel()

	repo := failAfterInsertRepo{newFakeEmployeeRepo()}
	svc := NewService(repo, nil, nil)

	stored, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{Username: "kept", FirstName: "A", LastName: "B"})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if stored == nil || stored.ID != 1 || stored.Username != "kept" {
		t.Fatalf("expected stored employee with id 1, got %+v", stored)
	}
	if _, ok := repo.employees[1]; !ok {
		t.Fatalf("expected the row to remain in the store")
	}
}

func TestService_CreateEmployee_DuplicateUsername(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeEmployeeRepo(), nil, nil)
	seedEmployee(t, svc, CreateEmployeeInput{Username: "dup", FirstName: "A", LastName: "B"})

	_, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{Username: "dup", FirstName: "C", LastName: "D"})
	if !errors.Is(err, ErrUsernameDuplicated) {
		t.Fatalf("expected ErrUsernameDuplicated, got %v", err)
	}
}

func TestService_FindByFields_LengthMismatch(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := NewService(repo, nil, nil)

	_, err := svc.FindByFields(context.Background(), []string{"a", "b"}, []string{"x"})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if repo.selectAllCalls != 0 {
		t.Fatalf("expected the store to be untouched, got %d calls", repo.selectAllCalls)
	}
}

func TestService_FindByFields_ExactMatch(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeEmployeeRepo(), nil, nil)
	ana := seedEmployee(t, svc, CreateEmployeeInput{Username: "ana", FirstName: "Ana", LastName: "Lima"})
	seedEmployee(t, svc, CreateEmployeeInput{Username: "bo", FirstName: "Bo", LastName: "Berg"})

	found, err := svc.FindByFields(context.Background(), []string{"firstName"}, []string{"Ana"})
	if err != nil {
		t.Fatalf("FindByFields returned error: %v", err)
	}
	if len(found) != 1 || found[0].ID != ana.ID {
		t.Fatalf("expected only Ana, got %+v", found)
	}

	found, err = svc.FindByFields(context.Background(), []string{"firstName"}, []string{"ana"})
	if err != nil {
		t.Fatalf("FindByFields returned error: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("expected case-sensitive comparison, got %+v", found)
	}

	found, err = svc.FindByFields(context.Background(), []string{"firstName", "lastName"}, []string{"Ana", "Berg"})
	if err != nil {
		t.Fatalf("FindByFields returned error: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("expected every pair to be required, got %+v", found)
	}
}

func TestService_FindByFields_UnknownField(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeEmployeeRepo(), nil, nil)
	seedEmployee(t, svc, CreateEmployeeInput{Username: "ana", FirstName: "Ana", LastName: "Lima"})

	for _, value := range []string{"anything", ""} {
		found, err := svc.FindByFields(context.Background(), []string{"not_a_field"}, []string{value})
		if err != nil {
			t.Fatalf("expected no error for unknown field, got %v", err)
		}
		if len(found) != 0 {
			t.Fatalf("expected no match for unknown field, got %+v", found)
		}
	}
}

func TestService_FindByFields_AbsentAndFormattedValues(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeEmployeeRepo(), nil, nil)
	hired := time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC)
	team := "team-1"

	boss := seedEmployee(t, svc, CreateEmployeeInput{Username: "boss", FirstName: "B", LastName: "Oss", Manager: true})
	worker := seedEmployee(t, svc, CreateEmployeeInput{
		Username:       "worker",
		FirstName:      "W",
		LastName:       "Orker",
		HireDate:       &hired,
		TeamID:         &team,
		ManagerID:      &boss.ID,
		Qualifications: []string{"role-junior", "role-dev"},
	})

	cases := []struct {
		field string
		value string
		want  int64
	}{
		{"teamId", "", boss.ID},
		{"teamId", "team-1", worker.ID},
		{"managerId", "", boss.ID},
		{"managerId", "1", worker.ID},
		{"hireDate", "2021-04-01", worker.ID},
		{"qualifications", "role-junior,role-dev", worker.ID},
		{"id", "2", worker.ID},
	}
	for _, tc := range cases {
		found, err := svc.FindByFields(context.Background(), []string{tc.field}, []string{tc.value})
		if err != nil {
			t.Fatalf("FindByFields(%s=%q) returned error: %v", tc.field, tc.value, err)
		}
		if len(found) != 1 || found[0].ID != tc.want {
			t.Fatalf("FindByFields(%s=%q): expected employee %d, got %+v", tc.field, tc.value, tc.want, found)
		}
	}
}

func TestService_FindByID_RefreshesBeforeRead(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := NewService(repo, nil, nil)

	if _, err := svc.ListEmployees(context.Background()); err != nil {
		t.Fatalf("ListEmployees returned error: %v", err)
	}

	// サービスを経由せずにストアへ直接登録する
	id, err := repo.Insert(context.Background(), &Employee{Username: "external", FirstName: "E", LastName: "X"})
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	found, ok, err := svc.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if !ok || found.Username != "external" {
		t.Fatalf("expected externally inserted employee, got %+v %v", found, ok)
	}

	if _, ok, err := svc.FindByID(context.Background(), 404); err != nil || ok {
		t.Fatalf("expected absent result for unknown id, got ok=%v err=%v", ok, err)
	}
}

func TestService_Refresh_FailureKeepsSnapshot(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := NewService(repo, nil, nil)
	seedEmployee(t, svc, CreateEmployeeInput{Username: "ana", FirstName: "Ana", LastName: "Lima"})

	repo.selectAllErr = errors.New("connection reset")

	if _, err := svc.ListEmployees(context.Background()); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if _, _, err := svc.FindByID(context.Background(), 1); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable from FindByID, got %v", err)
	}
	if len(svc.snapshot) != 1 {
		t.Fatalf("expected previous snapshot to be kept, got %d employees", len(svc.snapshot))
	}
}

func TestService_UpdateEmployee_Success(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeEmployeeRepo(), nil, nil)
	created := seedEmployee(t, svc, CreateEmployeeInput{Username: "ana", FirstName: "Ana", LastName: "Lima"})

	created.EmploymentStatus = "on leave"
	created.HRHead = true

	updated, err := svc.UpdateEmployee(context.Background(), created)
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}
	if updated.EmploymentStatus != "on leave" || !updated.HRHead {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestService_UpdateEmployee_MissingID(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeEmployeeRepo(), nil, nil)
	seedEmployee(t, svc, CreateEmployeeInput{Username: "ana", FirstName: "Ana", LastName: "Lima"})

	before := svc.snapshot

	_, err := svc.UpdateEmployee(context.Background(), &Employee{ID: 9999, Username: "ghost", FirstName: "G", LastName: "H"})
	if !errors.Is(err, ErrUpdateConflict) {
		t.Fatalf("expected ErrUpdateConflict, got %v", err)
	}
	if !reflect.DeepEqual(before, svc.snapshot) {
		t.Fatalf("expected snapshot to be unchanged after failed update")
	}

	if _, err := svc.UpdateEmployee(context.Background(), &Employee{Username: "x", FirstName: "A", LastName: "B"}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID for unsaved employee, got %v", err)
	}
	if _, err := svc.UpdateEmployee(context.Background(), nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for nil employee, got %v", err)
	}
}

func TestService_UpdateEmployee_StoreFailure(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := NewService(repo, nil, nil)
	created := seedEmployee(t, svc, CreateEmployeeInput{Username: "ana", FirstName: "Ana", LastName: "Lima"})

	repo.updateErr = errors.New("broken pipe")
	created.LastName = "Changed"

	if _, err := svc.UpdateEmployee(context.Background(), created); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if svc.snapshot[0].LastName != "Lima" {
		t.Fatalf("expected snapshot to be unchanged, got %s", svc.snapshot[0].LastName)
	}
}

func TestService_DeleteEmployee(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeEmployeeRepo(), nil, nil)
	created := seedEmployee(t, svc, CreateEmployeeInput{Username: "ana", FirstName: "Ana", LastName: "Lima"})

	if err := svc.DeleteEmployee(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteEmployee returned error: %v", err)
	}
	if len(svc.snapshot) != 0 {
		t.Fatalf("expected snapshot to be refreshed after delete")
	}

	if err := svc.DeleteEmployee(context.Background(), created.ID); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
	if err := svc.DeleteEmployee(context.Background(), 0); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestService_ListEmployees_ReturnsCopies(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeEmployeeRepo(), nil, nil)
	seedEmployee(t, svc, CreateEmployeeInput{Username: "ana", FirstName: "Ana", LastName: "Lima", Qualifications: []string{"q1"}})

	list, err := svc.ListEmployees(context.Background())
	if err != nil {
		t.Fatalf("ListEmployees returned error: %v", err)
	}
	list[0].FirstName = "Mutated"
	list[0].Qualifications[0] = "mutated"

	if svc.snapshot[0].FirstName != "Ana" || svc.snapshot[0].Qualifications[0] != "q1" {
		t.Fatalf("mutating the result leaked into the snapshot")
	}
}

func TestService_Manager(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeEmployeeRepo(), nil, nil)
	boss := seedEmployee(t, svc, CreateEmployeeInput{Username: "boss", FirstName: "B", LastName: "Oss"})
	worker := seedEmployee(t, svc, CreateEmployeeInput{Username: "worker", FirstName: "W", LastName: "Orker", ManagerID: &boss.ID})

	manager, ok, err := svc.Manager(context.Background(), worker)
	if err != nil || !ok || manager.ID != boss.ID {
		t.Fatalf("expected boss as manager, got %+v ok=%v err=%v", manager, ok, err)
	}

	if _, ok, err := svc.Manager(context.Background(), boss); ok || err != nil {
		t.Fatalf("expected root employee to have no manager, got ok=%v err=%v", ok, err)
	}

	dangling := int64(777)
	worker.ManagerID = &dangling
	if _, ok, err := svc.Manager(context.Background(), worker); ok || err != nil {
		t.Fatalf("expected dangling manager to be not found, got ok=%v err=%v", ok, err)
	}
}

func TestService_CompleteTraining(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeEmployeeRepo(), nil, nil)
	created := seedEmployee(t, svc, CreateEmployeeInput{Username: "ana", FirstName: "Ana", LastName: "Lima"})

	updated, err := svc.CompleteTraining(context.Background(), created.ID, "role-junior")
	if err != nil {
		t.Fatalf("CompleteTraining returned error: %v", err)
	}
	if !reflect.DeepEqual(updated.CompletedTrainings, []string{"role-junior"}) {
		t.Fatalf("unexpected trainings: %v", updated.CompletedTrainings)
	}

	again, err := svc.CompleteTraining(context.Background(), created.ID, "role-junior")
	if err != nil {
		t.Fatalf("CompleteTraining returned error: %v", err)
	}
	if len(again.CompletedTrainings) != 1 {
		t.Fatalf("expected completing twice to be idempotent, got %v", again.CompletedTrainings)
	}

	if _, err := svc.CompleteTraining(context.Background(), 42, "role-junior"); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
	if _, err := svc.CompleteTraining(context.Background(), created.ID, " "); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
