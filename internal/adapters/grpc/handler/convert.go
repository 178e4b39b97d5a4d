package handler

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ogurasousui/hrcore/internal/core/employee"
	"github.com/ogurasousui/hrcore/internal/core/structure"
	"github.com/ogurasousui/hrcore/internal/core/training"
	"google.golang.org/protobuf/types/known/structpb"
)

// requestFields は Struct のフィールドを型ごとに取り出す補助です。
type requestFields map[string]*structpb.Value

func fieldsOf(req *structpb.Struct) requestFields {
	if req == nil {
		return requestFields{}
	}
	return req.GetFields()
}

func (f requestFields) has(key string) bool {
	v, ok := f[key]
	if !ok || v == nil {
		return false
	}
	_, isNull := v.GetKind().(*structpb.Value_NullValue)
	return !isNull
}

func (f requestFields) str(key string) (string, error) {
	if !f.has(key) {
		return "", nil
	}
	switch kind := f[key].GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue, nil
	default:
		return "", fmt.Errorf("%w: %s must be a string", errInvalidRequest, key)
	}
}

func (f requestFields) boolean(key string) (bool, error) {
	if !f.has(key) {
		return false, nil
	}
	switch kind := f[key].GetKind().(type) {
	case *structpb.Value_BoolValue:
		return kind.BoolValue, nil
	default:
		return false, fmt.Errorf("%w: %s must be a boolean", errInvalidRequest, key)
	}
}

// id は数値または 10 進数文字列の ID を取り出します。
func (f requestFields) id(key string) (int64, error) {
	if !f.has(key) {
		return 0, fmt.Errorf("%w: %s is required", errInvalidRequest, key)
	}
	switch kind := f[key].GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, fmt.Errorf("%w: %s must be an integer", errInvalidRequest, key)
		}
		return int64(n), nil
	case *structpb.Value_StringValue:
		n, err := strconv.ParseInt(strings.TrimSpace(kind.StringValue), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be an integer", errInvalidRequest, key)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %s must be an integer", errInvalidRequest, key)
	}
}

func (f requestFields) optionalID(key string) (*int64, error) {
	if !f.has(key) {
		return nil, nil
	}
	if s, ok := f[key].GetKind().(*structpb.Value_StringValue); ok && strings.TrimSpace(s.StringValue) == "" {
		return nil, nil
	}
	id, err := f.id(key)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (f requestFields) optionalString(key string) (*string, error) {
	if !f.has(key) {
		return nil, nil
	}
	s, err := f.str(key)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (f requestFields) strings(key string) ([]string, error) {
	if !f.has(key) {
		return nil, nil
	}
	list, ok := f[key].GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a list of strings", errInvalidRequest, key)
	}
	out := make([]string, 0, len(list.ListValue.GetValues()))
	for _, v := range list.ListValue.GetValues() {
		s, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a list of strings", errInvalidRequest, key)
		}
		out = append(out, s.StringValue)
	}
	return out, nil
}

func (f requestFields) date(key string) (*time.Time, error) {
	if !f.has(key) {
		return nil, nil
	}
	raw, err := f.str(key)
	if err != nil {
		return nil, err
	}
	t, err := employee.ParseDate(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be formatted as %s", errInvalidRequest, key, employee.DateLayout)
	}
	return t, nil
}

// applyEmployeeFields は Struct に含まれる項目だけを社員へ反映します。
func applyEmployeeFields(e *employee.Employee, f requestFields) error {
	stringFields := map[string]*string{
		"username":         &e.Username,
		"password":         &e.Password,
		"permissionString": &e.PermissionString,
		"firstName":        &e.FirstName,
		"lastName":         &e.LastName,
		"email":            &e.Email,
		"phoneNumber":      &e.PhoneNumber,
		"address":          &e.Address,
		"gender":           &e.Gender,
		"employmentStatus": &e.EmploymentStatus,
		"departmentId":     &e.DepartmentID,
		"roleId":           &e.RoleID,
	}
	for key, dst := range stringFields {
		if _, present := f[key]; !present {
			continue
		}
		v, err := f.str(key)
		if err != nil {
			return err
		}
		*dst = v
	}

	boolFields := map[string]*bool{
		"itAdmin": &e.ITAdmin,
		"hr":      &e.HR,
		"hrHead":  &e.HRHead,
		"manager": &e.Manager,
	}
	for key, dst := range boolFields {
		if _, present := f[key]; !present {
			continue
		}
		v, err := f.boolean(key)
		if err != nil {
			return err
		}
		*dst = v
	}

	listFields := map[string]*[]string{
		"qualifications":     &e.Qualifications,
		"completedTrainings": &e.CompletedTrainings,
	}
	for key, dst := range listFields {
		if _, present := f[key]; !present {
			continue
		}
		v, err := f.strings(key)
		if err != nil {
			return err
		}
		*dst = v
	}

	dateFields := map[string]**time.Time{
		"dateOfBirth": &e.DateOfBirth,
		"hireDate":    &e.HireDate,
	}
	for key, dst := range dateFields {
		if _, present := f[key]; !present {
			continue
		}
		v, err := f.date(key)
		if err != nil {
			return err
		}
		*dst = v
	}

	if _, present := f["teamId"]; present {
		v, err := f.optionalString("teamId")
		if err != nil {
			return err
		}
		e.TeamID = v
	}
	if _, present := f["managerId"]; present {
		v, err := f.optionalID("managerId")
		if err != nil {
			return err
		}
		e.ManagerID = v
	}
	return nil
}

func stringList(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

// employeeMap は社員をレスポンス用の map に変換します。パスワードは含めません。
func employeeMap(e *employee.Employee) map[string]any {
	m := map[string]any{
		"id":                 float64(e.ID),
		"username":           e.Username,
		"permissionString":   e.PermissionString,
		"firstName":          e.FirstName,
		"lastName":           e.LastName,
		"fullName":           e.FullName(),
		"email":              e.Email,
		"phoneNumber":        e.PhoneNumber,
		"dateOfBirth":        nil,
		"address":            e.Address,
		"gender":             e.Gender,
		"hireDate":           nil,
		"employmentStatus":   e.EmploymentStatus,
		"departmentId":       e.DepartmentID,
		"teamId":             nil,
		"roleId":             e.RoleID,
		"qualifications":     stringList(e.Qualifications),
		"completedTrainings": stringList(e.CompletedTrainings),
		"managerId":          nil,
		"itAdmin":            e.ITAdmin,
		"hr":                 e.HR,
		"hrHead":             e.HRHead,
		"manager":            e.Manager,
	}
	if e.DateOfBirth != nil {
		m["dateOfBirth"] = employee.FormatDate(e.DateOfBirth)
	}
	if e.HireDate != nil {
		m["hireDate"] = employee.FormatDate(e.HireDate)
	}
	if e.TeamID != nil {
		m["teamId"] = *e.TeamID
	}
	if e.ManagerID != nil {
		m["managerId"] = float64(*e.ManagerID)
	}
	return m
}

func employeeList(employees []*employee.Employee) []any {
	out := make([]any, 0, len(employees))
	for _, e := range employees {
		out = append(out, employeeMap(e))
	}
	return out
}

func companyMap(c structure.Company) map[string]any {
	return map[string]any{
		"id":            c.ID,
		"name":          c.Name,
		"departmentIds": stringList(c.DepartmentIDs),
	}
}

func departmentMap(d structure.Department, teams []structure.Team) map[string]any {
	return map[string]any{
		"id":      d.ID,
		"name":    d.Name,
		"teamIds": stringList(d.TeamIDs),
		"teams":   teamList(teams),
	}
}

func roleMap(r structure.Role) map[string]any {
	return map[string]any{
		"id":                     r.ID,
		"name":                   r.Name,
		"requiredQualifications": stringList(r.RequiredQualifications),
	}
}

func teamMap(t structure.Team) map[string]any {
	return map[string]any{
		"id":      t.ID,
		"name":    t.Name,
		"roleIds": stringList(t.RoleIDs),
	}
}

func teamList(teams []structure.Team) []any {
	out := make([]any, 0, len(teams))
	for _, t := range teams {
		out = append(out, teamMap(t))
	}
	return out
}

func qualificationMap(q structure.Qualification) map[string]any {
	return map[string]any{
		"roleId":         q.RoleID,
		"requiredYears":  float64(q.RequiredYears),
		"certifications": stringList(q.Certifications),
		"description":    q.Description,
		"followUpSkills": stringList(q.FollowUpSkills),
		"requiredSkills": stringList(q.RequiredSkills),
	}
}

func trainingList(items []training.Training) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, map[string]any{
			"id":          item.ID,
			"displayName": item.DisplayName,
		})
	}
	return out
}

func newStruct(m map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return s, nil
}
