package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/shiftplan/shiftplan/pkg/errors"
	"github.com/shiftplan/shiftplan/pkg/model"
)

// RuleRepository 排班规则仓储
type RuleRepository struct {
	db DB
}

// NewRuleRepository 创建排班规则仓储
func NewRuleRepository(db DB) *RuleRepository {
	return &RuleRepository{db: db}
}

// Create 创建规则
func (r *RuleRepository) Create(ctx context.Context, rule *model.ShiftRule) error {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	now := time.Now()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	query := `
		INSERT INTO shift_rules (id, name, kind, from_shift_type_id, to_shift_type_id, days_apart, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		rule.ID, rule.Name, rule.Kind, rule.FromShiftTypeID, rule.ToShiftTypeID, rule.DaysApart,
		rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建规则失败: %w", err)
	}

	return nil
}

// Delete 删除规则
func (r *RuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM shift_rules WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("删除规则失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.New(apperrors.CodeNotFound, "规则不存在")
	}

	return nil
}

// ListAll 获取全部规则
func (r *RuleRepository) ListAll(ctx context.Context) ([]*model.ShiftRule, error) {
	query := `
		SELECT id, name, kind, from_shift_type_id, to_shift_type_id, days_apart, created_at, updated_at
		FROM shift_rules
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("查询规则失败: %w", err)
	}
	defer rows.Close()

	var rules []*model.ShiftRule
	for rows.Next() {
		rule := &model.ShiftRule{}
		err := rows.Scan(&rule.ID, &rule.Name, &rule.Kind, &rule.FromShiftTypeID, &rule.ToShiftTypeID,
			&rule.DaysApart, &rule.CreatedAt, &rule.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("扫描规则数据失败: %w", err)
		}
		rules = append(rules, rule)
	}

	return rules, nil
}
