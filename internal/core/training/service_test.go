package training

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ogurasousui/hrcore/internal/core/employee"
	"github.com/ogurasousui/hrcore/internal/core/structure"
)

type fakeFinder struct {
	employees map[int64]*employee.Employee
	err       error
}

func (f fakeFinder) FindByID(_ context.Context, id int64) (*employee.Employee, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	e, ok := f.employees[id]
	return e, ok, nil
}

type snapshotSource struct {
	snapshot *structure.Snapshot
	err      error
}

func (s snapshotSource) Load(context.Context) (*structure.Snapshot, error) {
	return s.snapshot, s.err
}

func testStore(err error) *structure.Store {
	return structure.NewStore(snapshotSource{
		err: err,
		snapshot: &structure.Snapshot{
			Company: structure.Company{ID: "acme"},
			Roles: []structure.Role{
				{ID: "role-junior", Name: "Junior"},
				{ID: "role-dev", Name: "Developer", RequiredQualifications: []string{"role-junior"}},
				{ID: "role-lead", Name: "Lead"},
			},
			Qualifications: []structure.Qualification{
				{RoleID: "role-junior", Description: "Junior development", FollowUpSkills: []string{"role-dev"}},
				{RoleID: "role-dev", Description: "Development", FollowUpSkills: []string{"role-lead"}, RequiredSkills: []string{"role-junior", "cert-x"}},
				{RoleID: "role-lead"},
			},
		},
	}, nil)
}

func trainingIDs(items []Training) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestService_Report(t *testing.T) {
	t.Parallel()

	finder := fakeFinder{employees: map[int64]*employee.Employee{
		1: {ID: 1, RoleID: "role-dev", CompletedTrainings: []string{"role-junior"}},
	}}
	svc := NewService(finder, testStore(nil))

	report, err := svc.Report(context.Background(), 1)
	if err != nil {
		t.Fatalf("Report returned error: %v", err)
	}

	if got := trainingIDs(report.Completed); !reflect.DeepEqual(got, []string{"role-junior"}) {
		t.Fatalf("unexpected completed: %v", got)
	}
	if got := trainingIDs(report.Open); !reflect.DeepEqual(got, []string{"cert-x"}) {
		t.Fatalf("unexpected open: %v", got)
	}
	if got := trainingIDs(report.Potential); !reflect.DeepEqual(got, []string{"role-dev", "role-lead"}) {
		t.Fatalf("unexpected potential: %v", got)
	}

	names := map[string]string{}
	for _, item := range append(report.Open, report.Potential...) {
		names[item.ID] = item.DisplayName
	}
	if names["role-dev"] != "Development" {
		t.Errorf("expected description as display name, got %q", names["role-dev"])
	}
	if names["role-lead"] != "role-lead" {
		t.Errorf("expected id fallback for empty description, got %q", names["role-lead"])
	}
	if names["cert-x"] != "unknown qualification: cert-x" {
		t.Errorf("expected unknown marker, got %q", names["cert-x"])
	}
}

func TestService_Report_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	finder := fakeFinder{employees: map[int64]*employee.Employee{1: {ID: 1}}}

	if _, err := NewService(finder, testStore(nil)).Report(ctx, 0); !errors.Is(err, employee.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := NewService(finder, testStore(nil)).Report(ctx, 2); !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}

	storeErr := errors.New("disk gone")
	if _, err := NewService(finder, testStore(storeErr)).Report(ctx, 1); !errors.Is(err, structure.ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}

	unavailable := fakeFinder{err: employee.ErrStoreUnavailable}
	if _, err := NewService(unavailable, testStore(nil)).Report(ctx, 1); !errors.Is(err, employee.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
