package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/shiftplan/shiftplan/pkg/errors"
	"github.com/shiftplan/shiftplan/pkg/model"
)

// EmployeeRepository 员工仓储
type EmployeeRepository struct {
	db DB
}

// NewEmployeeRepository 创建员工仓储
func NewEmployeeRepository(db DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

const employeeColumns = `id, first_name, last_name, short_name, employee_type,
	apprenticeship_year, employment_percentage, team_id,
	qualifications, availability, created_at, updated_at`

// Create 创建员工
func (r *EmployeeRepository) Create(ctx context.Context, emp *model.Employee) error {
	if emp.ID == uuid.Nil {
		emp.ID = uuid.New()
	}
	now := time.Now()
	emp.CreatedAt = now
	emp.UpdatedAt = now

	qualsJSON, _ := json.Marshal(emp.Qualifications)
	availJSON, _ := json.Marshal(emp.Availability)

	query := `
		INSERT INTO employees (` + employeeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		emp.ID, emp.FirstName, emp.LastName, emp.ShortName, emp.EmployeeType,
		emp.ApprenticeshipYear, emp.EmploymentPct, emp.TeamID,
		qualsJSON, availJSON, emp.CreatedAt, emp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建员工失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取员工
func (r *EmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 AND deleted_at IS NULL`
	return scanEmployee(r.db.QueryRowContext(ctx, query, id))
}

// Update 更新员工
func (r *EmployeeRepository) Update(ctx context.Context, emp *model.Employee) error {
	emp.UpdatedAt = time.Now()

	qualsJSON, _ := json.Marshal(emp.Qualifications)
	availJSON, _ := json.Marshal(emp.Availability)

	query := `
		UPDATE employees SET
			first_name = $2, last_name = $3, short_name = $4, employee_type = $5,
			apprenticeship_year = $6, employment_percentage = $7, team_id = $8,
			qualifications = $9, availability = $10, updated_at = $11
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		emp.ID, emp.FirstName, emp.LastName, emp.ShortName, emp.EmployeeType,
		emp.ApprenticeshipYear, emp.EmploymentPct, emp.TeamID,
		qualsJSON, availJSON, emp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("更新员工失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.New(apperrors.CodeNotFound, "员工不存在")
	}

	return nil
}

// Delete 软删除员工
func (r *EmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE employees SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("删除员工失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.New(apperrors.CodeNotFound, "员工不存在")
	}

	return nil
}

// List 查询员工列表
func (r *EmployeeRepository) List(ctx context.Context, filter ListFilter) ([]*model.Employee, int, error) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	conditions = append(conditions, "deleted_at IS NULL")

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR short_name ILIKE $%d)", argIndex, argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM employees WHERE %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("查询总数失败: %w", err)
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	orderDir := filter.OrderDir
	if orderDir == "" {
		orderDir = "desc"
	}

	query := fmt.Sprintf(`
		SELECT `+employeeColumns+`
		FROM employees
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, whereClause, orderBy, orderDir, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("查询列表失败: %w", err)
	}
	defer rows.Close()

	var employees []*model.Employee
	for rows.Next() {
		emp, err := scanEmployeeRow(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, emp)
	}

	return employees, total, nil
}

// ListAll 获取全部员工，按创建顺序返回
// 计划生成器依赖稳定的名册顺序做工时并列时的决胜
func (r *EmployeeRepository) ListAll(ctx context.Context) ([]*model.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE deleted_at IS NULL ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("查询员工失败: %w", err)
	}
	defer rows.Close()

	var employees []*model.Employee
	for rows.Next() {
		emp, err := scanEmployeeRow(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	return employees, nil
}

// scanEmployee 扫描单行员工数据
func scanEmployee(row *sql.Row) (*model.Employee, error) {
	emp := &model.Employee{}
	var qualsJSON, availJSON []byte

	err := row.Scan(
		&emp.ID, &emp.FirstName, &emp.LastName, &emp.ShortName, &emp.EmployeeType,
		&emp.ApprenticeshipYear, &emp.EmploymentPct, &emp.TeamID,
		&qualsJSON, &availJSON, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("扫描员工数据失败: %w", err)
	}

	json.Unmarshal(qualsJSON, &emp.Qualifications)
	json.Unmarshal(availJSON, &emp.Availability)

	return emp, nil
}

// scanEmployeeRow 扫描Rows中的员工数据
func scanEmployeeRow(rows *sql.Rows) (*model.Employee, error) {
	emp := &model.Employee{}
	var qualsJSON, availJSON []byte

	err := rows.Scan(
		&emp.ID, &emp.FirstName, &emp.LastName, &emp.ShortName, &emp.EmployeeType,
		&emp.ApprenticeshipYear, &emp.EmploymentPct, &emp.TeamID,
		&qualsJSON, &availJSON, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("扫描员工数据失败: %w", err)
	}

	json.Unmarshal(qualsJSON, &emp.Qualifications)
	json.Unmarshal(availJSON, &emp.Availability)

	return emp, nil
}
