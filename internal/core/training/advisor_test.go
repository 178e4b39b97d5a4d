package training

import (
	"reflect"
	"testing"

	"github.com/ogurasousui/hrcore/internal/core/employee"
	"github.com/ogurasousui/hrcore/internal/core/structure"
)

type stubGraph struct {
	roles          map[string]structure.Role
	qualifications map[string]structure.Qualification
}

func (g stubGraph) Role(id string) (structure.Role, bool) {
	r, ok := g.roles[id]
	return r, ok
}

func (g stubGraph) QualificationByIDOrRole(id string) (structure.Qualification, bool) {
	if q, ok := g.qualifications[id]; ok {
		return q, true
	}
	if r, ok := g.roles[id]; ok {
		q, ok := g.qualifications[r.ID]
		return q, ok
	}
	return structure.Qualification{}, false
}

func (g stubGraph) RequiredSkills(id string) ([]string, bool) {
	q, ok := g.QualificationByIDOrRole(id)
	if !ok || q.RequiredSkills == nil {
		return nil, false
	}
	return q.RequiredSkills, true
}

func (g stubGraph) FollowUpSkills(id string) ([]string, bool) {
	q, ok := g.qualifications[id]
	if !ok || q.FollowUpSkills == nil {
		return nil, false
	}
	return q.FollowUpSkills, true
}

func newGraph() stubGraph {
	return stubGraph{
		roles: map[string]structure.Role{
			"A":    {ID: "A", Name: "Role A"},
			"lead": {ID: "lead", Name: "Lead", RequiredQualifications: []string{"A", "B"}},
		},
		qualifications: map[string]structure.Qualification{
			"A":    {RoleID: "A", Description: "Qualification A", FollowUpSkills: []string{"B", "C"}},
			"B":    {RoleID: "B", Description: "Qualification B", FollowUpSkills: []string{"C", "D"}},
			"C":    {RoleID: "C", FollowUpSkills: []string{"A"}},
			"D":    {RoleID: "D", Description: "Qualification D"},
			"lead": {RoleID: "lead", Description: "Lead", RequiredSkills: []string{"B", "E"}},
		},
	}
}

func TestAdvisor_PotentialTrainings_TransitiveAndDeduplicated(t *testing.T) {
	t.Parallel()

	advisor := NewAdvisor(newGraph())
	emp := &employee.Employee{CompletedTrainings: []string{"A"}}

	got := advisor.PotentialTrainings(emp)
	want := []string{"B", "C", "D"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAdvisor_PotentialTrainings_ExcludesCompleted(t *testing.T) {
	t.Parallel()

	advisor := NewAdvisor(newGraph())
	emp := &employee.Employee{CompletedTrainings: []string{"A", "C"}}

	got := advisor.PotentialTrainings(emp)
	want := []string{"B", "D"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if got := advisor.PotentialTrainings(&employee.Employee{}); len(got) != 0 {
		t.Fatalf("expected no potential trainings without completed ones, got %v", got)
	}
	if got := advisor.PotentialTrainings(&employee.Employee{CompletedTrainings: []string{"unknown"}}); len(got) != 0 {
		t.Fatalf("expected unresolved completed ids to contribute nothing, got %v", got)
	}
}

func TestAdvisor_CompletedTrainings(t *testing.T) {
	t.Parallel()

	advisor := NewAdvisor(newGraph())
	got := advisor.CompletedTrainings(&employee.Employee{CompletedTrainings: []string{" A", "", "B", "A"}})
	if !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("unexpected completed trainings: %v", got)
	}
	if got := advisor.CompletedTrainings(nil); len(got) != 0 {
		t.Fatalf("expected empty result for nil employee, got %v", got)
	}
}

func TestAdvisor_OpenTrainings(t *testing.T) {
	t.Parallel()

	advisor := NewAdvisor(newGraph())

	got := advisor.OpenTrainings(&employee.Employee{RoleID: "lead", CompletedTrainings: []string{"B"}})
	want := []string{"A", "E"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if got := advisor.OpenTrainings(&employee.Employee{}); len(got) != 0 {
		t.Fatalf("expected no open trainings without a role, got %v", got)
	}
	if got := advisor.OpenTrainings(&employee.Employee{RoleID: "ghost"}); len(got) != 0 {
		t.Fatalf("expected no open trainings for unknown role, got %v", got)
	}
}

func TestAdvisor_DisplayName(t *testing.T) {
	t.Parallel()

	advisor := NewAdvisor(newGraph())

	cases := map[string]string{
		"A":       "Qualification A",
		"C":       "C",
		"missing": "unknown qualification: missing",
	}
	for id, want := range cases {
		if got := advisor.DisplayName(id); got != want {
			t.Fatalf("DisplayName(%s) = %q, want %q", id, got, want)
		}
	}

	if got := NewAdvisor(nil).DisplayName("A"); got != "unknown qualification: A" {
		t.Fatalf("expected fallback without graph, got %q", got)
	}
}
