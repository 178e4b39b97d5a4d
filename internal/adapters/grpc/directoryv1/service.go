// Package directoryv1 は hrcore.v1.DirectoryService の gRPC サービス定義です。
// リクエストとレスポンスはすべて google.protobuf.Struct で表現します。
package directoryv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName は gRPC のサービス名です。
const ServiceName = "hrcore.v1.DirectoryService"

// メソッド名の一覧です。
const (
	MethodCreateEmployee     = "CreateEmployee"
	MethodUpdateEmployee     = "UpdateEmployee"
	MethodDeleteEmployee     = "DeleteEmployee"
	MethodGetEmployee        = "GetEmployee"
	MethodFindEmployees      = "FindEmployees"
	MethodListEmployees      = "ListEmployees"
	MethodCompleteTraining   = "CompleteTraining"
	MethodGetCompany         = "GetCompany"
	MethodGetDepartment      = "GetDepartment"
	MethodListDepartments    = "ListDepartments"
	MethodRenameDepartment   = "RenameDepartment"
	MethodGetRole            = "GetRole"
	MethodListRoles          = "ListRoles"
	MethodGetTeam            = "GetTeam"
	MethodListTeams          = "ListTeams"
	MethodGetQualification   = "GetQualification"
	MethodListQualifications = "ListQualifications"
	MethodGetTrainings       = "GetTrainings"
)

// DirectoryServer は DirectoryService のサーバー実装が満たすインターフェースです。
type DirectoryServer interface {
	CreateEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FindEmployees(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListEmployees(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CompleteTraining(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCompany(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDepartment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListDepartments(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RenameDepartment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetRole(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListRoles(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTeam(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTeams(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetQualification(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListQualifications(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTrainings(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryFunc func(DirectoryServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call unaryFunc) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(DirectoryServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(DirectoryServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc は DirectoryService の gRPC サービス記述子です。
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DirectoryServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(MethodCreateEmployee, DirectoryServer.CreateEmployee),
		unaryMethod(MethodUpdateEmployee, DirectoryServer.UpdateEmployee),
		unaryMethod(MethodDeleteEmployee, DirectoryServer.DeleteEmployee),
		unaryMethod(MethodGetEmployee, DirectoryServer.GetEmployee),
		unaryMethod(MethodFindEmployees, DirectoryServer.FindEmployees),
		unaryMethod(MethodListEmployees, DirectoryServer.ListEmployees),
		unaryMethod(MethodCompleteTraining, DirectoryServer.CompleteTraining),
		unaryMethod(MethodGetCompany, DirectoryServer.GetCompany),
		unaryMethod(MethodGetDepartment, DirectoryServer.GetDepartment),
		unaryMethod(MethodListDepartments, DirectoryServer.ListDepartments),
		unaryMethod(MethodRenameDepartment, DirectoryServer.RenameDepartment),
		unaryMethod(MethodGetRole, DirectoryServer.GetRole),
		unaryMethod(MethodListRoles, DirectoryServer.ListRoles),
		unaryMethod(MethodGetTeam, DirectoryServer.GetTeam),
		unaryMethod(MethodListTeams, DirectoryServer.ListTeams),
		unaryMethod(MethodGetQualification, DirectoryServer.GetQualification),
		unaryMethod(MethodListQualifications, DirectoryServer.ListQualifications),
		unaryMethod(MethodGetTrainings, DirectoryServer.GetTrainings),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hrcore/v1/directory.proto",
}

// RegisterDirectoryServer は DirectoryService の実装を登録します。
func RegisterDirectoryServer(s grpc.ServiceRegistrar, srv DirectoryServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// FullMethod は gRPC のフルメソッド名を返します。
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// DirectoryClient は DirectoryService のクライアントです。
type DirectoryClient struct {
	cc grpc.ClientConnInterface
}

// NewDirectoryClient は DirectoryClient を生成します。
func NewDirectoryClient(cc grpc.ClientConnInterface) *DirectoryClient {
	return &DirectoryClient{cc: cc}
}

// Call は指定したメソッドを呼び出します。
func (c *DirectoryClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
