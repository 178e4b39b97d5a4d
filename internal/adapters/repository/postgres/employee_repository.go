package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/hrcore/internal/core/employee"
	pgdb "github.com/ogurasousui/hrcore/internal/platform/db/postgres"
)

const (
	employeeUniqueViolationCode = "23505"
	employeeCheckViolationCode  = "23514"
)

const employeeColumns = `id, username, password, permission_string, first_name, last_name, email, phone_number,
               date_of_birth, address, gender, hire_date, employment_status, department_id, team_id, role_id,
               qualifications, completed_trainings, manager_id, it_admin, hr, hr_head, manager`

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

var _ employee.Repository = (*EmployeeRepository)(nil)

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Insert は社員を登録し、採番された ID を返します。
func (r *EmployeeRepository) Insert(ctx context.Context, e *employee.Employee) (int64, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO employees (username, password, permission_string, first_name, last_name, email, phone_number,
                               date_of_birth, address, gender, hire_date, employment_status, department_id, team_id, role_id,
                               qualifications, completed_trainings, manager_id, it_admin, hr, hr_head, manager)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
        RETURNING id
    `, employeeArgs(e)...)

	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, translateEmployeePgError(err)
	}
	return id, nil
}

// SelectAll は全社員を ID 順に返します。
func (r *EmployeeRepository) SelectAll(ctx context.Context) ([]*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         ORDER BY id
    `)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}
	return employees, nil
}

// SelectByID は ID で社員を取得します。
func (r *EmployeeRepository) SelectByID(ctx context.Context, id int64) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// Update は社員情報を全項目更新し、影響を受けた行数を返します。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (int64, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	args := append(employeeArgs(e), e.ID)
	tag, err := exec.Exec(ctx, `
        UPDATE employees
           SET username = $1,
               password = $2,
               permission_string = $3,
               first_name = $4,
               last_name = $5,
               email = $6,
               phone_number = $7,
               date_of_birth = $8,
               address = $9,
               gender = $10,
               hire_date = $11,
               employment_status = $12,
               department_id = $13,
               team_id = $14,
               role_id = $15,
               qualifications = $16,
               completed_trainings = $17,
               manager_id = $18,
               it_admin = $19,
               hr = $20,
               hr_head = $21,
               manager = $22
         WHERE id = $23
    `, args...)
	if err != nil {
		return 0, translateEmployeePgError(err)
	}
	return tag.RowsAffected(), nil
}

// Delete は社員を削除し、影響を受けた行数を返します。
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) (int64, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return 0, translateEmployeePgError(err)
	}
	return tag.RowsAffected(), nil
}

func employeeArgs(e *employee.Employee) []any {
	return []any{
		e.Username,
		e.Password,
		e.PermissionString,
		e.FirstName,
		e.LastName,
		e.Email,
		e.PhoneNumber,
		nullableTime(e.DateOfBirth),
		e.Address,
		e.Gender,
		nullableTime(e.HireDate),
		e.EmploymentStatus,
		e.DepartmentID,
		nullableString(e.TeamID),
		e.RoleID,
		textArray(e.Qualifications),
		textArray(e.CompletedTrainings),
		nullableInt64(e.ManagerID),
		e.ITAdmin,
		e.HR,
		e.HRHead,
		e.Manager,
	}
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		emp         employee.Employee
		dateOfBirth sql.NullTime
		hireDate    sql.NullTime
		teamID      sql.NullString
		managerID   sql.NullInt64
	)

	if err := row.Scan(
		&emp.ID,
		&emp.Username,
		&emp.Password,
		&emp.PermissionString,
		&emp.FirstName,
		&emp.LastName,
		&emp.Email,
		&emp.PhoneNumber,
		&dateOfBirth,
		&emp.Address,
		&emp.Gender,
		&hireDate,
		&emp.EmploymentStatus,
		&emp.DepartmentID,
		&teamID,
		&emp.RoleID,
		&emp.Qualifications,
		&emp.CompletedTrainings,
		&managerID,
		&emp.ITAdmin,
		&emp.HR,
		&emp.HRHead,
		&emp.Manager,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	if dateOfBirth.Valid {
		emp.DateOfBirth = employee.NormalizeDate(&dateOfBirth.Time)
	}
	if hireDate.Valid {
		emp.HireDate = employee.NormalizeDate(&hireDate.Time)
	}
	if teamID.Valid {
		team := teamID.String
		emp.TeamID = &team
	}
	if managerID.Valid {
		manager := managerID.Int64
		emp.ManagerID = &manager
	}

	return &emp, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case employeeUniqueViolationCode:
			return employee.ErrUsernameDuplicated
		case employeeCheckViolationCode:
			return employee.ErrInvalidEmployee
		}
	}

	return err
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableInt64(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}

// textArray は nil を空配列として書き込みます。
func textArray(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
