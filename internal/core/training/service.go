package training

import (
	"context"
	"fmt"

	"github.com/ogurasousui/hrcore/internal/core/employee"
	"github.com/ogurasousui/hrcore/internal/core/structure"
)

// EmployeeFinder は社員を ID で検索する抽象です。
type EmployeeFinder interface {
	FindByID(ctx context.Context, id int64) (*employee.Employee, bool, error)
}

// DirectoryProvider は読み込み済みの参照データを提供します。*structure.Store が満たします。
type DirectoryProvider interface {
	Directory(ctx context.Context) (*structure.Directory, error)
}

// Training は資格 ID と表示名の組です。
type Training struct {
	ID          string
	DisplayName string
}

// Report は社員一人分のトレーニング状況です。
type Report struct {
	Employee  *employee.Employee
	Completed []Training
	Open      []Training
	Potential []Training
}

// UseCase はトレーニングユースケースの公開インターフェースです。
type UseCase interface {
	Report(ctx context.Context, employeeID int64) (*Report, error)
}

// Service は社員と参照データからトレーニング状況を組み立てます。
type Service struct {
	employees EmployeeFinder
	structure DirectoryProvider
}

// NewService は Service を生成します。
func NewService(employees EmployeeFinder, structure DirectoryProvider) *Service {
	return &Service{employees: employees, structure: structure}
}

// Report は社員のトレーニング状況を返します。社員が存在しない場合は employee.ErrEmployeeNotFound を返します。
func (s *Service) Report(ctx context.Context, employeeID int64) (*Report, error) {
	if employeeID <= 0 {
		return nil, fmt.Errorf("id: %w", employee.ErrInvalidID)
	}

	emp, ok, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("id %d: %w", employeeID, employee.ErrEmployeeNotFound)
	}

	dir, err := s.structure.Directory(ctx)
	if err != nil {
		return nil, err
	}

	advisor := NewAdvisor(dir)
	named := func(ids []string) []Training {
		out := make([]Training, 0, len(ids))
		for _, id := range ids {
			out = append(out, Training{ID: id, DisplayName: advisor.DisplayName(id)})
		}
		return out
	}

	return &Report{
		Employee:  emp,
		Completed: named(advisor.CompletedTrainings(emp)),
		Open:      named(advisor.OpenTrainings(emp)),
		Potential: named(advisor.PotentialTrainings(emp)),
	}, nil
}
