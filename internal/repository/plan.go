package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/shiftplan/shiftplan/pkg/errors"
	"github.com/shiftplan/shiftplan/pkg/model"
)

// PlanRepository 排班计划仓储
// 排班记录以 JSONB 整体存储，计划是读写的最小单元
type PlanRepository struct {
	db DB
}

// NewPlanRepository 创建排班计划仓储
func NewPlanRepository(db DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Create 保存排班计划
func (r *PlanRepository) Create(ctx context.Context, plan *model.ShiftPlan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	now := time.Now()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	assignmentsJSON, _ := json.Marshal(plan.Assignments)

	query := `
		INSERT INTO shift_plans (id, name, start_date, end_date, assignments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		plan.ID, plan.Name, plan.StartDate, plan.EndDate, assignmentsJSON, plan.CreatedAt, plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("保存排班计划失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取排班计划
func (r *PlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ShiftPlan, error) {
	query := `
		SELECT id, name, start_date, end_date, assignments, created_at, updated_at
		FROM shift_plans
		WHERE id = $1 AND deleted_at IS NULL
	`

	plan := &model.ShiftPlan{}
	var assignmentsJSON []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&plan.ID, &plan.Name, &plan.StartDate, &plan.EndDate, &assignmentsJSON,
		&plan.CreatedAt, &plan.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("扫描计划数据失败: %w", err)
	}

	json.Unmarshal(assignmentsJSON, &plan.Assignments)
	return plan, nil
}

// Update 更新排班计划（人工调整后回写）
func (r *PlanRepository) Update(ctx context.Context, plan *model.ShiftPlan) error {
	plan.UpdatedAt = time.Now()

	assignmentsJSON, _ := json.Marshal(plan.Assignments)

	query := `
		UPDATE shift_plans SET name = $2, start_date = $3, end_date = $4,
			assignments = $5, updated_at = $6
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		plan.ID, plan.Name, plan.StartDate, plan.EndDate, assignmentsJSON, plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("更新排班计划失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.New(apperrors.CodeNotFound, "排班计划不存在")
	}

	return nil
}

// Delete 软删除排班计划
func (r *PlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE shift_plans SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("删除排班计划失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.New(apperrors.CodeNotFound, "排班计划不存在")
	}

	return nil
}

// List 查询排班计划列表
func (r *PlanRepository) List(ctx context.Context, filter ListFilter) ([]*model.ShiftPlan, int, error) {
	whereClause := "deleted_at IS NULL"
	var args []interface{}
	argIndex := 1

	if filter.StartDate != "" && filter.EndDate != "" {
		whereClause += fmt.Sprintf(" AND start_date <= $%d AND end_date >= $%d", argIndex+1, argIndex)
		args = append(args, filter.StartDate, filter.EndDate)
		argIndex += 2
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM shift_plans WHERE %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("查询总数失败: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, start_date, end_date, assignments, created_at, updated_at
		FROM shift_plans
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("查询列表失败: %w", err)
	}
	defer rows.Close()

	var plans []*model.ShiftPlan
	for rows.Next() {
		plan := &model.ShiftPlan{}
		var assignmentsJSON []byte
		err := rows.Scan(&plan.ID, &plan.Name, &plan.StartDate, &plan.EndDate, &assignmentsJSON,
			&plan.CreatedAt, &plan.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("扫描计划数据失败: %w", err)
		}
		json.Unmarshal(assignmentsJSON, &plan.Assignments)
		plans = append(plans, plan)
	}

	return plans, total, nil
}
