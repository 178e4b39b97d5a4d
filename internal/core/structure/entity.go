package structure

// Company は組織のルートとなる会社エンティティです。プロセス内で一つだけ存在します。
type Company struct {
	ID            string
	Name          string
	DepartmentIDs []string
}

// Department は部署エンティティです。
type Department struct {
	ID      string
	Name    string
	TeamIDs []string
}

// Role は役職エンティティです。
type Role struct {
	ID                     string
	Name                   string
	RequiredQualifications []string
}

// Team はチームエンティティです。
type Team struct {
	ID      string
	Name    string
	RoleIDs []string
}

// Qualification は資格エンティティです。
// RoleID は対応する役職の ID であり、資格のキーを兼ねます。
type Qualification struct {
	RoleID         string
	RequiredYears  int
	Certifications []string
	Description    string
	// FollowUpSkills は取得後に進める資格の ID です。循環することがあります。
	FollowUpSkills []string
	RequiredSkills []string
}

// Snapshot は参照データ一式です。
type Snapshot struct {
	Company        Company
	Departments    []Department
	Roles          []Role
	Teams          []Team
	Qualifications []Qualification
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func (c Company) clone() Company {
	c.DepartmentIDs = cloneStrings(c.DepartmentIDs)
	return c
}

func (d Department) clone() Department {
	d.TeamIDs = cloneStrings(d.TeamIDs)
	return d
}

func (r Role) clone() Role {
	r.RequiredQualifications = cloneStrings(r.RequiredQualifications)
	return r
}

func (t Team) clone() Team {
	t.RoleIDs = cloneStrings(t.RoleIDs)
	return t
}

func (q Qualification) clone() Qualification {
	q.Certifications = cloneStrings(q.Certifications)
	q.FollowUpSkills = cloneStrings(q.FollowUpSkills)
	q.RequiredSkills = cloneStrings(q.RequiredSkills)
	return q
}
