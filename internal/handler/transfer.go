package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/shiftplan/shiftplan/internal/database"
	"github.com/shiftplan/shiftplan/internal/repository"
	apperrors "github.com/shiftplan/shiftplan/pkg/errors"
	"github.com/shiftplan/shiftplan/pkg/logger"
	"github.com/shiftplan/shiftplan/pkg/model"
)

// DataBundle 全量数据包，用于备份与迁移
type DataBundle struct {
	Version    int                `json:"version"`
	Employees  []*model.Employee  `json:"employees"`
	Teams      []*model.Team      `json:"teams"`
	ShiftTypes []*model.ShiftType `json:"shift_types"`
	Absences   []*model.Absence   `json:"absences"`
	Rules      []*model.ShiftRule `json:"rules"`
	Plans      []*model.ShiftPlan `json:"plans"`
}

// BundleVersion 当前数据包格式版本
const BundleVersion = 1

// TransferHandler 数据导入导出处理器
type TransferHandler struct {
	db *database.DB
}

// NewTransferHandler 创建数据导入导出处理器
func NewTransferHandler(db *database.DB) *TransferHandler {
	return &TransferHandler{db: db}
}

// Export 导出全量数据
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, apperrors.New(apperrors.CodeInvalidInput, "仅支持GET方法"))
		return
	}
	if h.db == nil {
		respondError(w, apperrors.New(apperrors.CodeUnavailable, "数据存储不可用"))
		return
	}

	ctx := r.Context()
	bundle := DataBundle{Version: BundleVersion}
	var err error

	if bundle.Employees, err = repository.NewEmployeeRepository(h.db).ListAll(ctx); err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInternal, "导出员工失败"))
		return
	}
	if bundle.Teams, err = repository.NewTeamRepository(h.db).ListAll(ctx); err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInternal, "导出团队失败"))
		return
	}
	if bundle.ShiftTypes, err = repository.NewShiftTypeRepository(h.db).ListAll(ctx); err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInternal, "导出班种失败"))
		return
	}
	if bundle.Absences, err = repository.NewAbsenceRepository(h.db).ListAll(ctx); err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInternal, "导出缺勤记录失败"))
		return
	}
	if bundle.Rules, err = repository.NewRuleRepository(h.db).ListAll(ctx); err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInternal, "导出规则失败"))
		return
	}
	plans, _, err := repository.NewPlanRepository(h.db).List(ctx, repository.DefaultListFilter().WithLimit(10000))
	if err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInternal, "导出计划失败"))
		return
	}
	bundle.Plans = plans

	w.Header().Set("Content-Disposition", `attachment; filename="shiftplan-export.json"`)
	respondJSON(w, http.StatusOK, bundle)
}

// Import 导入全量数据
// 整个导入在单个事务内执行，任一条记录失败则全部回滚
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, apperrors.New(apperrors.CodeInvalidInput, "仅支持POST方法"))
		return
	}
	if h.db == nil {
		respondError(w, apperrors.New(apperrors.CodeUnavailable, "数据存储不可用"))
		return
	}

	var bundle DataBundle
	if err := json.NewDecoder(r.Body).Decode(&bundle); err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInvalidInput, "解析数据包失败"))
		return
	}
	if bundle.Version != BundleVersion {
		respondError(w, apperrors.Newf(apperrors.CodeImportConflict, "不支持的数据包版本: %d", bundle.Version))
		return
	}

	ctx := r.Context()
	err := h.db.Transaction(ctx, func(tx *sql.Tx) error {
		teams := repository.NewTeamRepository(tx)
		for _, team := range bundle.Teams {
			if err := teams.Create(ctx, team); err != nil {
				return err
			}
		}
		employees := repository.NewEmployeeRepository(tx)
		for _, emp := range bundle.Employees {
			if err := employees.Create(ctx, emp); err != nil {
				return err
			}
		}
		shiftTypes := repository.NewShiftTypeRepository(tx)
		for _, st := range bundle.ShiftTypes {
			if err := shiftTypes.Create(ctx, st); err != nil {
				return err
			}
		}
		absences := repository.NewAbsenceRepository(tx)
		for _, ab := range bundle.Absences {
			if err := absences.Create(ctx, ab); err != nil {
				return err
			}
		}
		rules := repository.NewRuleRepository(tx)
		for _, rule := range bundle.Rules {
			if err := rules.Create(ctx, rule); err != nil {
				return err
			}
		}
		plans := repository.NewPlanRepository(tx)
		for _, plan := range bundle.Plans {
			if err := plans.Create(ctx, plan); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeImportConflict, "数据导入失败，已回滚"))
		return
	}

	transferLog := logger.With("transfer")
	transferLog.Info().
		Int("employees", len(bundle.Employees)).
		Int("teams", len(bundle.Teams)).
		Int("shift_types", len(bundle.ShiftTypes)).
		Int("plans", len(bundle.Plans)).
		Msg("数据导入完成")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"imported": map[string]int{
			"employees":   len(bundle.Employees),
			"teams":       len(bundle.Teams),
			"shift_types": len(bundle.ShiftTypes),
			"absences":    len(bundle.Absences),
			"rules":       len(bundle.Rules),
			"plans":       len(bundle.Plans),
		},
	})
}
