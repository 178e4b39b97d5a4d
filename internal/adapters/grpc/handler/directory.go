package handler

import (
	"context"
	"fmt"

	"github.com/ogurasousui/hrcore/internal/adapters/grpc/directoryv1"
	"github.com/ogurasousui/hrcore/internal/core/employee"
	"github.com/ogurasousui/hrcore/internal/core/structure"
	"github.com/ogurasousui/hrcore/internal/core/training"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// DirectoryProvider は読み込み済みの参照データを提供します。
type DirectoryProvider interface {
	Directory(ctx context.Context) (*structure.Directory, error)
}

// DirectoryGrpcHandler は DirectoryService の gRPC 実装です。
type DirectoryGrpcHandler struct {
	employees employee.UseCase
	structure DirectoryProvider
	trainings training.UseCase
}

var _ directoryv1.DirectoryServer = (*DirectoryGrpcHandler)(nil)

// NewDirectoryGrpcHandler は DirectoryGrpcHandler を生成します。
func NewDirectoryGrpcHandler(employees employee.UseCase, structure DirectoryProvider, trainings training.UseCase) *DirectoryGrpcHandler {
	return &DirectoryGrpcHandler{employees: employees, structure: structure, trainings: trainings}
}

// CreateEmployee は社員を登録します。
func (h *DirectoryGrpcHandler) CreateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	var draft employee.Employee
	if err := applyEmployeeFields(&draft, fieldsOf(req)); err != nil {
		return nil, toStatusError(err)
	}

	created, err := h.employees.CreateEmployee(ctx, employee.CreateEmployeeInput{
		Username:           draft.Username,
		Password:           draft.Password,
		PermissionString:   draft.PermissionString,
		FirstName:          draft.FirstName,
		LastName:           draft.LastName,
		Email:              draft.Email,
		PhoneNumber:        draft.PhoneNumber,
		DateOfBirth:        draft.DateOfBirth,
		Address:            draft.Address,
		Gender:             draft.Gender,
		HireDate:           draft.HireDate,
		EmploymentStatus:   draft.EmploymentStatus,
		DepartmentID:       draft.DepartmentID,
		TeamID:             draft.TeamID,
		RoleID:             draft.RoleID,
		Qualifications:     draft.Qualifications,
		CompletedTrainings: draft.CompletedTrainings,
		ManagerID:          draft.ManagerID,
		ITAdmin:            draft.ITAdmin,
		HR:                 draft.HR,
		HRHead:             draft.HRHead,
		Manager:            draft.Manager,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return respond(map[string]any{"employee": employeeMap(created)})
}

// UpdateEmployee は社員情報を更新します。リクエストに含まれない項目は現在の値を維持します。
func (h *DirectoryGrpcHandler) UpdateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	fields := fieldsOf(req)
	id, err := fields.id("id")
	if err != nil {
		return nil, toStatusError(err)
	}

	current, ok, err := h.employees.FindByID(ctx, id)
	if err != nil {
		return nil, toStatusError(err)
	}
	if !ok {
		return nil, toStatusError(fmt.Errorf("id %d: %w", id, employee.ErrUpdateConflict))
	}

	if err := applyEmployeeFields(current, fields); err != nil {
		return nil, toStatusError(err)
	}
	current.ID = id

	updated, err := h.employees.UpdateEmployee(ctx, current)
	if err != nil {
		return nil, toStatusError(err)
	}

	return respond(map[string]any{"employee": employeeMap(updated)})
}

// DeleteEmployee は社員を削除します。
func (h *DirectoryGrpcHandler) DeleteEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := fieldsOf(req).id("id")
	if err != nil {
		return nil, toStatusError(err)
	}

	if err := h.employees.DeleteEmployee(ctx, id); err != nil {
		return nil, toStatusError(err)
	}

	return &structpb.Struct{}, nil
}

// GetEmployee は ID で社員を取得します。
func (h *DirectoryGrpcHandler) GetEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := fieldsOf(req).id("id")
	if err != nil {
		return nil, toStatusError(err)
	}

	found, ok, err := h.employees.FindByID(ctx, id)
	if err != nil {
		return nil, toStatusError(err)
	}
	if !ok {
		return nil, status.Errorf(codes.NotFound, "employee %d not found", id)
	}

	resp := map[string]any{"employee": employeeMap(found)}
	if manager, ok, err := h.employees.Manager(ctx, found); err != nil {
		return nil, toStatusError(err)
	} else if ok {
		resp["manager"] = employeeMap(manager)
	}
	return respond(resp)
}

// FindEmployees はフィールド名と値の組に完全一致する社員を返します。
func (h *DirectoryGrpcHandler) FindEmployees(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := fieldsOf(req)
	names, err := fields.strings("names")
	if err != nil {
		return nil, toStatusError(err)
	}
	values, err := fields.strings("values")
	if err != nil {
		return nil, toStatusError(err)
	}

	found, err := h.employees.FindByFields(ctx, names, values)
	if err != nil {
		return nil, toStatusError(err)
	}

	return respond(map[string]any{"employees": employeeList(found)})
}

// ListEmployees は全社員を返します。
func (h *DirectoryGrpcHandler) ListEmployees(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	all, err := h.employees.ListEmployees(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}
	return respond(map[string]any{"employees": employeeList(all)})
}

// CompleteTraining は社員の修了済みトレーニングを追加します。
func (h *DirectoryGrpcHandler) CompleteTraining(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := fieldsOf(req)
	id, err := fields.id("id")
	if err != nil {
		return nil, toStatusError(err)
	}
	qualificationID, err := fields.str("qualificationId")
	if err != nil {
		return nil, toStatusError(err)
	}

	updated, err := h.employees.CompleteTraining(ctx, id, qualificationID)
	if err != nil {
		return nil, toStatusError(err)
	}
	return respond(map[string]any{"employee": employeeMap(updated)})
}

// GetCompany は会社情報を返します。
func (h *DirectoryGrpcHandler) GetCompany(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	dir, err := h.structure.Directory(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}
	return respond(map[string]any{"company": companyMap(dir.Company())})
}

// GetDepartment は部署と所属チームを返します。
func (h *DirectoryGrpcHandler) GetDepartment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	dir, id, err := h.lookupRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	dept, ok := dir.DepartmentSnapshot(id)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "department %q not found", id)
	}
	return respond(map[string]any{"department": departmentMap(dept, dir.DepartmentTeams(id))})
}

// ListDepartments は部署の一覧を返します。
func (h *DirectoryGrpcHandler) ListDepartments(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	dir, err := h.structure.Directory(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}
	departments := dir.Departments()
	out := make([]any, 0, len(departments))
	for _, d := range departments {
		out = append(out, departmentMap(d, dir.DepartmentTeams(d.ID)))
	}
	return respond(map[string]any{"departments": out})
}

// RenameDepartment は部署名をメモリ上で変更します。
func (h *DirectoryGrpcHandler) RenameDepartment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	dir, id, err := h.lookupRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	name, err := fieldsOf(req).str("name")
	if err != nil {
		return nil, toStatusError(err)
	}
	if !dir.RenameDepartment(id, name) {
		return nil, status.Errorf(codes.NotFound, "department %q not found", id)
	}
	dept, _ := dir.DepartmentSnapshot(id)
	return respond(map[string]any{"department": departmentMap(dept, dir.DepartmentTeams(id))})
}

// GetRole は役職を返します。
func (h *DirectoryGrpcHandler) GetRole(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	dir, id, err := h.lookupRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	role, ok := dir.Role(id)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "role %q not found", id)
	}
	return respond(map[string]any{"role": roleMap(role)})
}

// ListRoles は役職の一覧を返します。
func (h *DirectoryGrpcHandler) ListRoles(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	dir, err := h.structure.Directory(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}
	roles := dir.Roles()
	out := make([]any, 0, len(roles))
	for _, r := range roles {
		out = append(out, roleMap(r))
	}
	return respond(map[string]any{"roles": out})
}

// GetTeam はチームと所属役職を返します。
func (h *DirectoryGrpcHandler) GetTeam(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	dir, id, err := h.lookupRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	team, ok := dir.Team(id)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "team %q not found", id)
	}
	roles := dir.TeamRoles(id)
	out := make([]any, 0, len(roles))
	for _, r := range roles {
		out = append(out, roleMap(r))
	}
	resp := teamMap(team)
	resp["roles"] = out
	return respond(map[string]any{"team": resp})
}

// ListTeams はチームの一覧を返します。
func (h *DirectoryGrpcHandler) ListTeams(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	dir, err := h.structure.Directory(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}
	return respond(map[string]any{"teams": teamList(dir.Teams())})
}

// GetQualification は資格を返します。資格 ID に加えて役職 ID でも検索できます。
func (h *DirectoryGrpcHandler) GetQualification(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	dir, id, err := h.lookupRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	q, ok := dir.QualificationByIDOrRole(id)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "qualification %q not found", id)
	}
	return respond(map[string]any{"qualification": qualificationMap(q)})
}

// ListQualifications は資格の一覧を返します。
func (h *DirectoryGrpcHandler) ListQualifications(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	dir, err := h.structure.Directory(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}
	qualifications := dir.Qualifications()
	out := make([]any, 0, len(qualifications))
	for _, q := range qualifications {
		out = append(out, qualificationMap(q))
	}
	return respond(map[string]any{"qualifications": out})
}

// GetTrainings は社員の修了済み・未修了・受講候補のトレーニングを返します。
func (h *DirectoryGrpcHandler) GetTrainings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := fieldsOf(req).id("id")
	if err != nil {
		return nil, toStatusError(err)
	}

	report, err := h.trainings.Report(ctx, id)
	if err != nil {
		return nil, toStatusError(err)
	}

	return respond(map[string]any{
		"employeeId": float64(report.Employee.ID),
		"completed":  trainingList(report.Completed),
		"open":       trainingList(report.Open),
		"potential":  trainingList(report.Potential),
	})
}

func (h *DirectoryGrpcHandler) lookupRequest(ctx context.Context, req *structpb.Struct) (*structure.Directory, string, error) {
	id, err := fieldsOf(req).str("id")
	if err != nil {
		return nil, "", toStatusError(err)
	}
	if id == "" {
		return nil, "", status.Error(codes.InvalidArgument, "id is required")
	}
	dir, err := h.structure.Directory(ctx)
	if err != nil {
		return nil, "", toStatusError(err)
	}
	return dir, id, nil
}

func respond(m map[string]any) (*structpb.Struct, error) {
	s, err := newStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return s, nil
}
