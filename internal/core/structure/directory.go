package structure

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Directory は読み込み済みの参照データに対する検索を提供します。
//
// 取得系メソッドはコピーを返します。例外は Department で、RenameDepartment による
// 名称変更を保持中の参照からも観測できるよう、内部のインスタンスをそのまま返します。
// 書き込みは単一のライターを前提とします。
type Directory struct {
	mu sync.RWMutex

	company Company

	departments     map[string]*Department
	departmentOrder []string

	roles     map[string]Role
	roleOrder []string

	teams     map[string]Team
	teamOrder []string

	qualifications     map[string]Qualification
	qualificationOrder []string
}

func newDirectory(s *Snapshot) (*Directory, error) {
	if s == nil {
		return nil, errors.New("empty snapshot")
	}

	departments := make([]*Department, 0, len(s.Departments))
	for _, d := range s.Departments {
		dept := d.clone()
		departments = append(departments, &dept)
	}

	d := &Directory{company: s.Company.clone()}

	var err error
	if d.departments, d.departmentOrder, err = index(departments, func(v *Department) string { return v.ID }, "department"); err != nil {
		return nil, err
	}
	if d.roles, d.roleOrder, err = index(cloneAll(s.Roles, Role.clone), func(v Role) string { return v.ID }, "role"); err != nil {
		return nil, err
	}
	if d.teams, d.teamOrder, err = index(cloneAll(s.Teams, Team.clone), func(v Team) string { return v.ID }, "team"); err != nil {
		return nil, err
	}
	if d.qualifications, d.qualificationOrder, err = index(cloneAll(s.Qualifications, Qualification.clone), func(v Qualification) string { return v.RoleID }, "qualification"); err != nil {
		return nil, err
	}

	return d, nil
}

func index[T any](items []T, key func(T) string, kind string) (map[string]T, []string, error) {
	m := make(map[string]T, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		id := key(item)
		if strings.TrimSpace(id) == "" {
			return nil, nil, fmt.Errorf("%s: empty id", kind)
		}
		if _, exists := m[id]; exists {
			return nil, nil, fmt.Errorf("%s: duplicate id %q", kind, id)
		}
		m[id] = item
		order = append(order, id)
	}
	return m, order, nil
}

func cloneAll[T any](items []T, clone func(T) T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, clone(item))
	}
	return out
}

// Company は会社情報を返します。
func (d *Directory) Company() Company {
	return d.company.clone()
}

// Department は ID で部署を検索します。返却値は内部のインスタンスです。
func (d *Directory) Department(id string) (*Department, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	dept, ok := d.departments[id]
	return dept, ok
}

// DepartmentSnapshot は部署のコピーを読み取りロック下で返します。
// 並行して RenameDepartment が呼ばれる場合の参照はこちらを使います。
func (d *Directory) DepartmentSnapshot(id string) (Department, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	dept, ok := d.departments[id]
	if !ok {
		return Department{}, false
	}
	return dept.clone(), true
}

// Role は ID で役職を検索します。
func (d *Directory) Role(id string) (Role, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	role, ok := d.roles[id]
	if !ok {
		return Role{}, false
	}
	return role.clone(), true
}

// Team は ID でチームを検索します。
func (d *Directory) Team(id string) (Team, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	team, ok := d.teams[id]
	if !ok {
		return Team{}, false
	}
	return team.clone(), true
}

// Qualification は資格キー (役職 ID) で資格を検索します。
func (d *Directory) Qualification(id string) (Qualification, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	q, ok := d.qualifications[id]
	if !ok {
		return Qualification{}, false
	}
	return q.clone(), true
}

// Departments は全部署のコピーを読み込み順で返します。
func (d *Directory) Departments() []Department {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Department, 0, len(d.departmentOrder))
	for _, id := range d.departmentOrder {
		out = append(out, d.departments[id].clone())
	}
	return out
}

// Roles は全役職のコピーを返します。
func (d *Directory) Roles() []Role {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Role, 0, len(d.roleOrder))
	for _, id := range d.roleOrder {
		out = append(out, d.roles[id].clone())
	}
	return out
}

// Teams は全チームのコピーを返します。
func (d *Directory) Teams() []Team {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Team, 0, len(d.teamOrder))
	for _, id := range d.teamOrder {
		out = append(out, d.teams[id].clone())
	}
	return out
}

// Qualifications は全資格のコピーを返します。
func (d *Directory) Qualifications() []Qualification {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Qualification, 0, len(d.qualificationOrder))
	for _, id := range d.qualificationOrder {
		out = append(out, d.qualifications[id].clone())
	}
	return out
}

// QualificationByIDOrRole は id を資格キーとして検索し、見つからなければ id を役職 ID として
// 解決したうえで、その役職の ID で資格を再検索します。
func (d *Directory) QualificationByIDOrRole(id string) (Qualification, bool) {
	if q, ok := d.Qualification(id); ok {
		return q, true
	}
	role, ok := d.Role(id)
	if !ok {
		return Qualification{}, false
	}
	return d.Qualification(role.ID)
}

// RequiredSkills は資格 (または役職) に必要なスキル ID を返します。
func (d *Directory) RequiredSkills(id string) ([]string, bool) {
	q, ok := d.QualificationByIDOrRole(id)
	if !ok || q.RequiredSkills == nil {
		return nil, false
	}
	return q.RequiredSkills, true
}

// FollowUpSkills は資格キーで直接検索し、後続スキル ID を返します。役職へのフォールバックは行いません。
func (d *Directory) FollowUpSkills(id string) ([]string, bool) {
	q, ok := d.Qualification(id)
	if !ok || q.FollowUpSkills == nil {
		return nil, false
	}
	return q.FollowUpSkills, true
}

// RenameDepartment は部署名をメモリ上で変更します。部署が存在しなければ false を返します。
// 変更は元データへは書き戻されません。
func (d *Directory) RenameDepartment(id, name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	dept, ok := d.departments[id]
	if !ok {
		return false
	}
	dept.Name = name
	return true
}

// DepartmentTeams は部署に属するチームを返します。解決できない ID は無視します。
func (d *Directory) DepartmentTeams(id string) []Team {
	dept, ok := d.DepartmentSnapshot(id)
	if !ok {
		return nil
	}

	teams := make([]Team, 0, len(dept.TeamIDs))
	for _, teamID := range dept.TeamIDs {
		if team, ok := d.Team(teamID); ok {
			teams = append(teams, team)
		}
	}
	return teams
}

// TeamRoles はチームに属する役職を返します。解決できない ID は無視します。
func (d *Directory) TeamRoles(id string) []Role {
	team, ok := d.Team(id)
	if !ok {
		return nil
	}
	roles := make([]Role, 0, len(team.RoleIDs))
	for _, roleID := range team.RoleIDs {
		if role, ok := d.Role(roleID); ok {
			roles = append(roles, role)
		}
	}
	return roles
}

func (d *Directory) danglingReferences() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var refs []string
	for _, id := range d.company.DepartmentIDs {
		if _, ok := d.departments[id]; !ok {
			refs = append(refs, fmt.Sprintf("company %s -> department %s", d.company.ID, id))
		}
	}
	for _, deptID := range d.departmentOrder {
		for _, id := range d.departments[deptID].TeamIDs {
			if _, ok := d.teams[id]; !ok {
				refs = append(refs, fmt.Sprintf("department %s -> team %s", deptID, id))
			}
		}
	}
	for _, teamID := range d.teamOrder {
		for _, id := range d.teams[teamID].RoleIDs {
			if _, ok := d.roles[id]; !ok {
				refs = append(refs, fmt.Sprintf("team %s -> role %s", teamID, id))
			}
		}
	}
	for _, key := range d.qualificationOrder {
		if _, ok := d.roles[key]; !ok {
			refs = append(refs, fmt.Sprintf("qualification %s -> role %s", key, key))
		}
		for _, id := range d.qualifications[key].FollowUpSkills {
			if _, ok := d.qualifications[id]; !ok {
				refs = append(refs, fmt.Sprintf("qualification %s -> follow-up %s", key, id))
			}
		}
	}
	return refs
}
