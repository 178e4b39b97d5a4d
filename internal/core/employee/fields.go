package employee

import (
	"sort"
	"strconv"
	"strings"
)

// listSeparator はリスト項目を文字列として比較する際の区切り文字です。
const listSeparator = ","

type fieldAccessor func(*Employee) string

// fieldAccessors は FindByFields で検索可能なフィールドの一覧です。
// 値を持たないフィールド (nil のチームや上長、日付) は空文字列として扱います。
var fieldAccessors = map[string]fieldAccessor{
	"id":                 func(e *Employee) string { return strconv.FormatInt(e.ID, 10) },
	"username":           func(e *Employee) string { return e.Username },
	"password":           func(e *Employee) string { return e.Password },
	"permissionString":   func(e *Employee) string { return e.PermissionString },
	"firstName":          func(e *Employee) string { return e.FirstName },
	"lastName":           func(e *Employee) string { return e.LastName },
	"email":              func(e *Employee) string { return e.Email },
	"phoneNumber":        func(e *Employee) string { return e.PhoneNumber },
	"dateOfBirth":        func(e *Employee) string { return FormatDate(e.DateOfBirth) },
	"address":            func(e *Employee) string { return e.Address },
	"gender":             func(e *Employee) string { return e.Gender },
	"hireDate":           func(e *Employee) string { return FormatDate(e.HireDate) },
	"employmentStatus":   func(e *Employee) string { return e.EmploymentStatus },
	"departmentId":       func(e *Employee) string { return e.DepartmentID },
	"teamId":             func(e *Employee) string { return derefString(e.TeamID) },
	"roleId":             func(e *Employee) string { return e.RoleID },
	"qualifications":     func(e *Employee) string { return strings.Join(e.Qualifications, listSeparator) },
	"completedTrainings": func(e *Employee) string { return strings.Join(e.CompletedTrainings, listSeparator) },
	"managerId":          func(e *Employee) string { return formatOptionalID(e.ManagerID) },
}

// FieldNames は検索可能なフィールド名をソートして返します。
func FieldNames() []string {
	names := make([]string, 0, len(fieldAccessors))
	for name := range fieldAccessors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FieldValue は社員のフィールド値を文字列で返します。未知のフィールド名の場合は false を返します。
func FieldValue(e *Employee, name string) (string, bool) {
	accessor, ok := fieldAccessors[name]
	if !ok || e == nil {
		return "", false
	}
	return accessor(e), true
}

func matchesAll(e *Employee, names, values []string) bool {
	for i, name := range names {
		value, ok := FieldValue(e, name)
		if !ok || value != values[i] {
			return false
		}
	}
	return true
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatOptionalID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
