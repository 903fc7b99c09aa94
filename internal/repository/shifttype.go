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

// ShiftTypeRepository 班种仓储
type ShiftTypeRepository struct {
	db DB
}

// NewShiftTypeRepository 创建班种仓储
func NewShiftTypeRepository(db DB) *ShiftTypeRepository {
	return &ShiftTypeRepository{db: db}
}

// Create 创建班种
func (r *ShiftTypeRepository) Create(ctx context.Context, st *model.ShiftType) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	now := time.Now()
	st.CreatedAt = now
	st.UpdatedAt = now

	requiredJSON, _ := json.Marshal(st.RequiredPersonnel)

	query := `
		INSERT INTO shift_types (id, name, start_time, end_time, required_personnel, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		st.ID, st.Name, st.StartTime, st.EndTime, requiredJSON, st.CreatedAt, st.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建班种失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取班种
func (r *ShiftTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ShiftType, error) {
	query := `
		SELECT id, name, start_time, end_time, required_personnel, created_at, updated_at
		FROM shift_types
		WHERE id = $1 AND deleted_at IS NULL
	`

	return scanShiftType(r.db.QueryRowContext(ctx, query, id))
}

// Update 更新班种
func (r *ShiftTypeRepository) Update(ctx context.Context, st *model.ShiftType) error {
	st.UpdatedAt = time.Now()

	requiredJSON, _ := json.Marshal(st.RequiredPersonnel)

	query := `
		UPDATE shift_types SET name = $2, start_time = $3, end_time = $4,
			required_personnel = $5, updated_at = $6
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		st.ID, st.Name, st.StartTime, st.EndTime, requiredJSON, st.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("更新班种失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.New(apperrors.CodeNotFound, "班种不存在")
	}

	return nil
}

// Delete 软删除班种
func (r *ShiftTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE shift_types SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("删除班种失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.New(apperrors.CodeNotFound, "班种不存在")
	}

	return nil
}

// ListAll 获取全部班种，按创建顺序返回
// 计划生成器按此顺序填充班次（目录顺序）
func (r *ShiftTypeRepository) ListAll(ctx context.Context) ([]*model.ShiftType, error) {
	query := `
		SELECT id, name, start_time, end_time, required_personnel, created_at, updated_at
		FROM shift_types
		WHERE deleted_at IS NULL
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("查询班种失败: %w", err)
	}
	defer rows.Close()

	var shiftTypes []*model.ShiftType
	for rows.Next() {
		st := &model.ShiftType{}
		var requiredJSON []byte
		err := rows.Scan(&st.ID, &st.Name, &st.StartTime, &st.EndTime, &requiredJSON, &st.CreatedAt, &st.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("扫描班种数据失败: %w", err)
		}
		json.Unmarshal(requiredJSON, &st.RequiredPersonnel)
		shiftTypes = append(shiftTypes, st)
	}

	return shiftTypes, nil
}

// scanShiftType 扫描单行班种数据
func scanShiftType(row *sql.Row) (*model.ShiftType, error) {
	st := &model.ShiftType{}
	var requiredJSON []byte

	err := row.Scan(&st.ID, &st.Name, &st.StartTime, &st.EndTime, &requiredJSON, &st.CreatedAt, &st.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("扫描班种数据失败: %w", err)
	}

	json.Unmarshal(requiredJSON, &st.RequiredPersonnel)
	return st, nil
}
