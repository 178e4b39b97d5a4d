package employee

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Service は社員のスナップショットを保持し、CRUD と検索を提供します。
//
// すべての読み取りと更新の前にストアから全件を読み直します (refresh-before-read)。
// 読み直しと後続の処理はアトミックではないため、並行して呼び出した場合の整合性は
// read-committed 相当であり、serializable ではありません。
type Service struct {
	repo     Repository
	tx       TransactionManager
	logger   *zap.Logger
	validate *validator.Validate

	mu       sync.RWMutex
	snapshot []*Employee
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	UpdateEmployee(ctx context.Context, e *Employee) (*Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Employee, bool, error)
	FindByFields(ctx context.Context, names, values []string) ([]*Employee, error)
	ListEmployees(ctx context.Context) ([]*Employee, error)
	Manager(ctx context.Context, e *Employee) (*Employee, bool, error)
	CompleteTraining(ctx context.Context, id int64, qualificationID string) (*Employee, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, tx TransactionManager, logger *zap.Logger) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		tx:       tx,
		logger:   logger,
		validate: validator.New(),
	}
}

// CreateEmployeeInput は社員作成時の入力です。
type CreateEmployeeInput struct {
	Username           string `validate:"required"`
	Password           string
	PermissionString   string
	FirstName          string `validate:"required"`
	LastName           string `validate:"required"`
	Email              string `validate:"omitempty,email"`
	PhoneNumber        string
	DateOfBirth        *time.Time
	Address            string
	Gender             string `validate:"omitempty,len=1"`
	HireDate           *time.Time
	EmploymentStatus   string
	DepartmentID       string
	TeamID             *string
	RoleID             string
	Qualifications     []string
	CompletedTrainings []string
	ManagerID          *int64 `validate:"omitempty,gt=0"`
	ITAdmin            bool
	HR                 bool
	HRHead             bool
	Manager            bool
}

func (in CreateEmployeeInput) toEmployee() *Employee {
	var teamID *string
	if in.TeamID != nil {
		trimmed := strings.TrimSpace(*in.TeamID)
		teamID = &trimmed
	}
	var managerID *int64
	if in.ManagerID != nil {
		id := *in.ManagerID
		managerID = &id
	}

	return &Employee{
		Username:           strings.TrimSpace(in.Username),
		Password:           in.Password,
		PermissionString:   strings.TrimSpace(in.PermissionString),
		FirstName:          strings.TrimSpace(in.FirstName),
		LastName:           strings.TrimSpace(in.LastName),
		Email:              strings.TrimSpace(in.Email),
		PhoneNumber:        strings.TrimSpace(in.PhoneNumber),
		DateOfBirth:        NormalizeDate(in.DateOfBirth),
		Address:            strings.TrimSpace(in.Address),
		Gender:             strings.TrimSpace(in.Gender),
		HireDate:           NormalizeDate(in.HireDate),
		EmploymentStatus:   strings.TrimSpace(in.EmploymentStatus),
		DepartmentID:       strings.TrimSpace(in.DepartmentID),
		TeamID:             teamID,
		RoleID:             strings.TrimSpace(in.RoleID),
		Qualifications:     normalizeList(in.Qualifications),
		CompletedTrainings: normalizeList(in.CompletedTrainings),
		ManagerID:          managerID,
		ITAdmin:            in.ITAdmin,
		HR:                 in.HR,
		HRHead:             in.HRHead,
		Manager:            in.Manager,
	}
}

func inputOf(e *Employee) CreateEmployeeInput {
	return CreateEmployeeInput{
		Username:           e.Username,
		Password:           e.Password,
		PermissionString:   e.PermissionString,
		FirstName:          e.FirstName,
		LastName:           e.LastName,
		Email:              e.Email,
		PhoneNumber:        e.PhoneNumber,
		DateOfBirth:        e.DateOfBirth,
		Address:            e.Address,
		Gender:             e.Gender,
		HireDate:           e.HireDate,
		EmploymentStatus:   e.EmploymentStatus,
		DepartmentID:       e.DepartmentID,
		TeamID:             e.TeamID,
		RoleID:             e.RoleID,
		Qualifications:     e.Qualifications,
		CompletedTrainings: e.CompletedTrainings,
		ManagerID:          e.ManagerID,
		ITAdmin:            e.ITAdmin,
		HR:                 e.HR,
		HRHead:             e.HRHead,
		Manager:            e.Manager,
	}
}

// Refresh はストアから全件を読み直し、スナップショットを置き換えます。
// 失敗した場合は ErrStoreUnavailable を返し、スナップショットは変更しません。
func (s *Service) Refresh(ctx context.Context) error {
	var rows []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.SelectAll(txCtx)
		if err != nil {
			return err
		}
		rows = result
		return nil
	}); err != nil {
		s.logger.Error("failed to refresh employee snapshot", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	snapshot := make([]*Employee, 0, len(rows))
	for _, row := range rows {
		if row != nil {
			snapshot = append(snapshot, row.Clone())
		}
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	s.logger.Debug("employee snapshot refreshed", zap.Int("employees", len(snapshot)))
	return nil
}

// CreateEmployee は社員を登録します。ID はストアが採番します。
// 登録後の再読込に失敗した場合は、採番済みの社員と ErrStoreUnavailable の両方を返します。
// この場合、行はストアに保存済みです。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	emp := in.toEmployee()
	if err := s.validateEmployee(emp); err != nil {
		return nil, err
	}

	var id int64
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		insertedID, err := s.repo.Insert(txCtx, emp)
		if err != nil {
			return err
		}
		id = insertedID
		return nil
	}); err != nil {
		return nil, storeError(err)
	}

	s.logger.Info("employee created", zap.Int64("employee_id", id), zap.String("username", emp.Username))

	if err := s.Refresh(ctx); err != nil {
		stored := emp.Clone()
		stored.ID = id
		return stored, fmt.Errorf("employee %d stored: %w", id, err)
	}

	created, ok := s.lookup(id)
	if !ok {
		return nil, fmt.Errorf("id %d: %w", id, ErrEmployeeNotFound)
	}
	return created, nil
}

// UpdateEmployee は社員情報を全項目更新します。
// 対象が存在しない場合は ErrUpdateConflict を返し、スナップショットは変更しません。
func (s *Service) UpdateEmployee(ctx context.Context, e *Employee) (*Employee, error) {
	if e == nil {
		return nil, fmt.Errorf("employee is required: %w", ErrInvalidArgument)
	}
	if e.ID <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	emp := inputOf(e).toEmployee()
	emp.ID = e.ID
	if err := s.validateEmployee(emp); err != nil {
		return nil, err
	}

	var affected int64
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		rows, err := s.repo.Update(txCtx, emp)
		if err != nil {
			return err
		}
		affected = rows
		return nil
	}); err != nil {
		return nil, storeError(err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("id %d: %w", emp.ID, ErrUpdateConflict)
	}

	s.logger.Info("employee updated", zap.Int64("employee_id", emp.ID))

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	updated, ok := s.lookup(emp.ID)
	if !ok {
		return nil, fmt.Errorf("id %d: %w", emp.ID, ErrUpdateConflict)
	}
	return updated, nil
}

// DeleteEmployee は社員を削除します。
func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	var affected int64
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		rows, err := s.repo.Delete(txCtx, id)
		if err != nil {
			return err
		}
		affected = rows
		return nil
	}); err != nil {
		return storeError(err)
	}
	if affected == 0 {
		return fmt.Errorf("id %d: %w", id, ErrEmployeeNotFound)
	}

	s.logger.Info("employee deleted", zap.Int64("employee_id", id))

	return s.Refresh(ctx)
}

// FindByID は ID で社員を検索します。見つからない場合は false を返します。
func (s *Service) FindByID(ctx context.Context, id int64) (*Employee, bool, error) {
	if err := s.Refresh(ctx); err != nil {
		return nil, false, err
	}
	emp, ok := s.lookup(id)
	return emp, ok, nil
}

// FindByFields は names[i] のフィールド値が values[i] と完全一致する社員をすべて返します。
// names と values の長さが異なる場合はストアへアクセスせずに ErrInvalidArgument を返します。
// 未知のフィールド名はどの社員にも一致しません。
func (s *Service) FindByFields(ctx context.Context, names, values []string) ([]*Employee, error) {
	if len(names) != len(values) {
		return nil, fmt.Errorf("%w: %d field names but %d values", ErrInvalidArgument, len(names), len(values))
	}

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Employee, 0)
	for _, emp := range s.snapshot {
		if matchesAll(emp, names, values) {
			result = append(result, emp.Clone())
		}
	}
	return result, nil
}

// ListEmployees は全社員を返します。
func (s *Service) ListEmployees(ctx context.Context) ([]*Employee, error) {
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Employee, 0, len(s.snapshot))
	for _, emp := range s.snapshot {
		result = append(result, emp.Clone())
	}
	return result, nil
}

// Manager は社員の上長を返します。上長 ID が未設定、または存在しない社員を指す場合は false を返します。
func (s *Service) Manager(ctx context.Context, e *Employee) (*Employee, bool, error) {
	if e == nil || e.ManagerID == nil {
		return nil, false, nil
	}

	manager, ok, err := s.FindByID(ctx, *e.ManagerID)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		s.logger.Warn("manager not found",
			zap.Int64("employee_id", e.ID),
			zap.Int64("manager_id", *e.ManagerID),
		)
	}
	return manager, ok, nil
}

// CompleteTraining は社員の修了済みトレーニングに資格 ID を追加します。既に修了済みであれば何もしません。
func (s *Service) CompleteTraining(ctx context.Context, id int64, qualificationID string) (*Employee, error) {
	if id <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	qualificationID = strings.TrimSpace(qualificationID)
	if qualificationID == "" {
		return nil, fmt.Errorf("qualification id is required: %w", ErrInvalidArgument)
	}

	emp, ok, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("id %d: %w", id, ErrEmployeeNotFound)
	}

	if slices.Contains(emp.CompletedTrainings, qualificationID) {
		return emp, nil
	}

	emp.CompletedTrainings = append(emp.CompletedTrainings, qualificationID)
	return s.UpdateEmployee(ctx, emp)
}

func (s *Service) lookup(id int64) (*Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, emp := range s.snapshot {
		if emp.ID == id {
			return emp.Clone(), true
		}
	}
	return nil, false
}

func (s *Service) validateEmployee(e *Employee) error {
	if err := s.validate.Struct(inputOf(e)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEmployee, err)
	}
	return nil
}

// storeError はストアのエラーのうちドメインエラーでないものを ErrStoreUnavailable で包みます。
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrEmployeeNotFound),
		errors.Is(err, ErrUsernameDuplicated),
		errors.Is(err, ErrInvalidEmployee),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
}

func normalizeList(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, item := range in {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
