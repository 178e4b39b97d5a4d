package employee

import "time"

// DateLayout は日付を文字列として比較・表示する際の書式です。
const DateLayout = "2006-01-02"

// Employee は社員エンティティです。
// ID は永続化時にストアが採番し、未保存の間は 0 です。
type Employee struct {
	ID               int64
	Username         string
	Password         string
	PermissionString string
	FirstName        string
	LastName         string
	Email            string
	PhoneNumber      string
	DateOfBirth      *time.Time
	Address          string
	Gender           string
	HireDate         *time.Time
	EmploymentStatus string
	DepartmentID     string
	// TeamID が nil の場合はチーム未所属を表します。
	TeamID             *string
	RoleID             string
	Qualifications     []string
	CompletedTrainings []string
	// ManagerID が nil の場合は上長なしを表します。
	ManagerID *int64
	ITAdmin   bool
	HR        bool
	HRHead    bool
	Manager   bool
}

// FullName は表示用の氏名を返します。
func (e *Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	default:
		return e.FirstName + " " + e.LastName
	}
}

// Clone は Employee のディープコピーを返します。
func (e *Employee) Clone() *Employee {
	if e == nil {
		return nil
	}
	c := *e
	c.DateOfBirth = cloneTime(e.DateOfBirth)
	c.HireDate = cloneTime(e.HireDate)
	if e.TeamID != nil {
		teamID := *e.TeamID
		c.TeamID = &teamID
	}
	if e.ManagerID != nil {
		managerID := *e.ManagerID
		c.ManagerID = &managerID
	}
	c.Qualifications = cloneStrings(e.Qualifications)
	c.CompletedTrainings = cloneStrings(e.CompletedTrainings)
	return &c
}

// NormalizeDate は時刻部分を切り捨てた UTC の日付を返します。
func NormalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	normalized := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &normalized
}

// FormatDate は日付を DateLayout で文字列化します。nil の場合は空文字列です。
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// ParseDate は DateLayout の文字列を日付に変換します。空文字列は nil として扱います。
func ParseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, raw, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
