package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/shiftplan/shiftplan/pkg/errors"
	"github.com/shiftplan/shiftplan/pkg/model"
)

// AbsenceRepository 缺勤仓储
type AbsenceRepository struct {
	db DB
}

// NewAbsenceRepository 创建缺勤仓储
func NewAbsenceRepository(db DB) *AbsenceRepository {
	return &AbsenceRepository{db: db}
}

// Create 创建缺勤记录
func (r *AbsenceRepository) Create(ctx context.Context, ab *model.Absence) error {
	if ab.ID == uuid.Nil {
		ab.ID = uuid.New()
	}
	now := time.Now()
	ab.CreatedAt = now
	ab.UpdatedAt = now

	query := `
		INSERT INTO absences (id, employee_id, start_date, end_date, reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		ab.ID, ab.EmployeeID, ab.StartDate, ab.EndDate, ab.Reason, ab.CreatedAt, ab.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建缺勤记录失败: %w", err)
	}

	return nil
}

// Delete 删除缺勤记录
func (r *AbsenceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM absences WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("删除缺勤记录失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.New(apperrors.CodeNotFound, "缺勤记录不存在")
	}

	return nil
}

// ListOverlapping 获取与日期区间有交集的缺勤记录
func (r *AbsenceRepository) ListOverlapping(ctx context.Context, startDate, endDate string) ([]*model.Absence, error) {
	query := `
		SELECT id, employee_id, start_date, end_date, reason, created_at, updated_at
		FROM absences
		WHERE start_date <= $2 AND end_date >= $1
		ORDER BY start_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("查询缺勤记录失败: %w", err)
	}
	defer rows.Close()

	var absences []*model.Absence
	for rows.Next() {
		ab := &model.Absence{}
		err := rows.Scan(&ab.ID, &ab.EmployeeID, &ab.StartDate, &ab.EndDate, &ab.Reason, &ab.CreatedAt, &ab.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("扫描缺勤数据失败: %w", err)
		}
		absences = append(absences, ab)
	}

	return absences, nil
}

// ListAll 获取全部缺勤记录
func (r *AbsenceRepository) ListAll(ctx context.Context) ([]*model.Absence, error) {
	query := `
		SELECT id, employee_id, start_date, end_date, reason, created_at, updated_at
		FROM absences
		ORDER BY start_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("查询缺勤记录失败: %w", err)
	}
	defer rows.Close()

	var absences []*model.Absence
	for rows.Next() {
		ab := &model.Absence{}
		err := rows.Scan(&ab.ID, &ab.EmployeeID, &ab.StartDate, &ab.EndDate, &ab.Reason, &ab.CreatedAt, &ab.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("扫描缺勤数据失败: %w", err)
		}
		absences = append(absences, ab)
	}

	return absences, nil
}
