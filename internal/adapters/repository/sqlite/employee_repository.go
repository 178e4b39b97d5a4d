package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ogurasousui/hrcore/internal/core/employee"
	sqlitedb "github.com/ogurasousui/hrcore/internal/platform/db/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EmployeeRecord は SQLite 上の employees テーブルの行です。
// 一覧項目は JSON 配列、日付は YYYY-MM-DD の文字列で保持します。
type EmployeeRecord struct {
	ID                 int64  `gorm:"primaryKey;autoIncrement"`
	Username           string `gorm:"uniqueIndex;not null"`
	Password           string
	PermissionString   string
	FirstName          string
	LastName           string
	Email              string
	PhoneNumber        string
	DateOfBirth        *string
	Address            string
	Gender             string
	HireDate           *string
	EmploymentStatus   string
	DepartmentID       string
	TeamID             *string
	RoleID             string
	Qualifications     datatypes.JSON
	CompletedTrainings datatypes.JSON
	ManagerID          *int64
	ITAdmin            bool `gorm:"column:it_admin"`
	HR                 bool `gorm:"column:hr"`
	HRHead             bool `gorm:"column:hr_head"`
	Manager            bool `gorm:"column:manager"`
}

// TableName は gorm が使用するテーブル名を返します。
func (EmployeeRecord) TableName() string {
	return "employees"
}

// EmployeeRepository は gorm と SQLite を利用した社員永続化の実装です。
type EmployeeRepository struct {
	db *gorm.DB
}

var _ employee.Repository = (*EmployeeRepository)(nil)

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Insert は社員を登録し、採番された ID を返します。
func (r *EmployeeRepository) Insert(ctx context.Context, e *employee.Employee) (int64, error) {
	rec, err := toRecord(e)
	if err != nil {
		return 0, err
	}
	rec.ID = 0

	if err := sqlitedb.DBFromContext(ctx, r.db).Create(rec).Error; err != nil {
		return 0, translateGormError(err)
	}
	return rec.ID, nil
}

// SelectAll は全社員を ID 順に返します。
func (r *EmployeeRepository) SelectAll(ctx context.Context) ([]*employee.Employee, error) {
	var records []EmployeeRecord
	if err := sqlitedb.DBFromContext(ctx, r.db).Order("id").Find(&records).Error; err != nil {
		return nil, translateGormError(err)
	}

	employees := make([]*employee.Employee, 0, len(records))
	for i := range records {
		emp, err := fromRecord(&records[i])
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

// SelectByID は ID で社員を取得します。
func (r *EmployeeRepository) SelectByID(ctx context.Context, id int64) (*employee.Employee, error) {
	var rec EmployeeRecord
	if err := sqlitedb.DBFromContext(ctx, r.db).First(&rec, id).Error; err != nil {
		return nil, translateGormError(err)
	}
	return fromRecord(&rec)
}

// Update は社員情報を全項目更新し、影響を受けた行数を返します。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (int64, error) {
	rec, err := toRecord(e)
	if err != nil {
		return 0, err
	}
	rec.ID = 0

	result := sqlitedb.DBFromContext(ctx, r.db).
		Model(&EmployeeRecord{}).
		Where("id = ?", e.ID).
		Select("*").
		Omit("id").
		Updates(rec)
	if result.Error != nil {
		return 0, translateGormError(result.Error)
	}
	return result.RowsAffected, nil
}

// Delete は社員を削除し、影響を受けた行数を返します。
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := sqlitedb.DBFromContext(ctx, r.db).Delete(&EmployeeRecord{}, id)
	if result.Error != nil {
		return 0, translateGormError(result.Error)
	}
	return result.RowsAffected, nil
}

func toRecord(e *employee.Employee) (*EmployeeRecord, error) {
	qualifications, err := encodeList(e.Qualifications)
	if err != nil {
		return nil, fmt.Errorf("qualifications: %w", err)
	}
	completed, err := encodeList(e.CompletedTrainings)
	if err != nil {
		return nil, fmt.Errorf("completed trainings: %w", err)
	}

	return &EmployeeRecord{
		ID:                 e.ID,
		Username:           e.Username,
		Password:           e.Password,
		PermissionString:   e.PermissionString,
		FirstName:          e.FirstName,
		LastName:           e.LastName,
		Email:              e.Email,
		PhoneNumber:        e.PhoneNumber,
		DateOfBirth:        encodeDate(e.DateOfBirth),
		Address:            e.Address,
		Gender:             e.Gender,
		HireDate:           encodeDate(e.HireDate),
		EmploymentStatus:   e.EmploymentStatus,
		DepartmentID:       e.DepartmentID,
		TeamID:             e.TeamID,
		RoleID:             e.RoleID,
		Qualifications:     qualifications,
		CompletedTrainings: completed,
		ManagerID:          e.ManagerID,
		ITAdmin:            e.ITAdmin,
		HR:                 e.HR,
		HRHead:             e.HRHead,
		Manager:            e.Manager,
	}, nil
}

func fromRecord(rec *EmployeeRecord) (*employee.Employee, error) {
	qualifications, err := decodeList(rec.Qualifications)
	if err != nil {
		return nil, fmt.Errorf("id %d qualifications: %w", rec.ID, err)
	}
	completed, err := decodeList(rec.CompletedTrainings)
	if err != nil {
		return nil, fmt.Errorf("id %d completed trainings: %w", rec.ID, err)
	}
	dateOfBirth, err := decodeDate(rec.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("id %d date of birth: %w", rec.ID, err)
	}
	hireDate, err := decodeDate(rec.HireDate)
	if err != nil {
		return nil, fmt.Errorf("id %d hire date: %w", rec.ID, err)
	}

	return &employee.Employee{
		ID:                 rec.ID,
		Username:           rec.Username,
		Password:           rec.Password,
		PermissionString:   rec.PermissionString,
		FirstName:          rec.FirstName,
		LastName:           rec.LastName,
		Email:              rec.Email,
		PhoneNumber:        rec.PhoneNumber,
		DateOfBirth:        dateOfBirth,
		Address:            rec.Address,
		Gender:             rec.Gender,
		HireDate:           hireDate,
		EmploymentStatus:   rec.EmploymentStatus,
		DepartmentID:       rec.DepartmentID,
		TeamID:             rec.TeamID,
		RoleID:             rec.RoleID,
		Qualifications:     qualifications,
		CompletedTrainings: completed,
		ManagerID:          rec.ManagerID,
		ITAdmin:            rec.ITAdmin,
		HR:                 rec.HR,
		HRHead:             rec.HRHead,
		Manager:            rec.Manager,
	}, nil
}

func encodeList(values []string) (datatypes.JSON, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func decodeList(raw datatypes.JSON) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

func encodeDate(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := employee.FormatDate(value)
	return &formatted
}

func decodeDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	return employee.ParseDate(*raw)
}

func translateGormError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return employee.ErrEmployeeNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return employee.ErrUsernameDuplicated
	default:
		return err
	}
}
