package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/shiftplan/shiftplan/pkg/errors"
	"github.com/shiftplan/shiftplan/pkg/model"
)

// TeamRepository 团队仓储
type TeamRepository struct {
	db DB
}

// NewTeamRepository 创建团队仓储
func NewTeamRepository(db DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create 创建团队
func (r *TeamRepository) Create(ctx context.Context, team *model.Team) error {
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}
	now := time.Now()
	team.CreatedAt = now
	team.UpdatedAt = now

	query := `
		INSERT INTO teams (id, name, target_load_percentage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		team.ID, team.Name, team.TargetLoadPct, team.CreatedAt, team.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建团队失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取团队
func (r *TeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Team, error) {
	query := `
		SELECT id, name, target_load_percentage, created_at, updated_at
		FROM teams
		WHERE id = $1 AND deleted_at IS NULL
	`

	team := &model.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID, &team.Name, &team.TargetLoadPct, &team.CreatedAt, &team.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("扫描团队数据失败: %w", err)
	}
	return team, nil
}

// Update 更新团队
func (r *TeamRepository) Update(ctx context.Context, team *model.Team) error {
	team.UpdatedAt = time.Now()

	query := `
		UPDATE teams SET name = $2, target_load_percentage = $3, updated_at = $4
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, team.ID, team.Name, team.TargetLoadPct, team.UpdatedAt)
	if err != nil {
		return fmt.Errorf("更新团队失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.New(apperrors.CodeNotFound, "团队不存在")
	}

	return nil
}

// Delete 软删除团队
func (r *TeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE teams SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("删除团队失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.New(apperrors.CodeNotFound, "团队不存在")
	}

	return nil
}

// ListAll 获取全部团队
func (r *TeamRepository) ListAll(ctx context.Context) ([]*model.Team, error) {
	query := `
		SELECT id, name, target_load_percentage, created_at, updated_at
		FROM teams
		WHERE deleted_at IS NULL
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("查询团队失败: %w", err)
	}
	defer rows.Close()

	var teams []*model.Team
	for rows.Next() {
		team := &model.Team{}
		if err := rows.Scan(&team.ID, &team.Name, &team.TargetLoadPct, &team.CreatedAt, &team.UpdatedAt); err != nil {
			return nil, fmt.Errorf("扫描团队数据失败: %w", err)
		}
		teams = append(teams, team)
	}

	return teams, nil
}
