package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/shiftplan/shiftplan/internal/metrics"
	apperrors "github.com/shiftplan/shiftplan/pkg/errors"
	"github.com/shiftplan/shiftplan/pkg/stats"
)

// StatsHandler 统计分析处理器
type StatsHandler struct {
	validate *validator.Validate
}

// NewStatsHandler 创建统计分析处理器
func NewStatsHandler() *StatsHandler {
	return &StatsHandler{validate: validator.New()}
}

// WorkloadRequest 工时分析请求
type WorkloadRequest struct {
	Employees   []EmployeeInput   `json:"employees" validate:"required,min=1,dive"`
	Teams       []TeamInput       `json:"teams" validate:"dive"`
	ShiftTypes  []ShiftTypeInput  `json:"shift_types" validate:"required,min=1,dive"`
	Assignments []AssignmentInput `json:"assignments" validate:"dive"`
}

// Workload 分析排班计划的工时分布
func (h *StatsHandler) Workload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, apperrors.New(apperrors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req WorkloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, translateValidation(err))
		return
	}

	employees, err := mapEmployees(req.Employees)
	if err != nil {
		respondError(w, err)
		return
	}
	teams, err := mapTeams(req.Teams)
	if err != nil {
		respondError(w, err)
		return
	}
	shiftTypes, err := mapShiftTypes(req.ShiftTypes)
	if err != nil {
		respondError(w, err)
		return
	}
	assignments, err := mapAssignments(req.Assignments)
	if err != nil {
		respondError(w, err)
		return
	}

	report := stats.NewWorkloadAnalyzer(employees, teams, shiftTypes).Analyze(assignments)
	metrics.SetWorkloadGini(report.GiniIndex)

	respondJSON(w, http.StatusOK, report)
}

// CoverageRequest 覆盖率分析请求
type CoverageRequest struct {
	StartDate   string            `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string            `json:"end_date" validate:"required,datetime=2006-01-02"`
	ShiftTypes  []ShiftTypeInput  `json:"shift_types" validate:"required,min=1,dive"`
	Assignments []AssignmentInput `json:"assignments" validate:"dive"`
}

// Coverage 分析排班计划的需求覆盖情况
func (h *StatsHandler) Coverage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, apperrors.New(apperrors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req CoverageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, translateValidation(err))
		return
	}

	shiftTypes, err := mapShiftTypes(req.ShiftTypes)
	if err != nil {
		respondError(w, err)
		return
	}
	assignments, err := mapAssignments(req.Assignments)
	if err != nil {
		respondError(w, err)
		return
	}

	report := stats.NewCoverageAnalyzer(shiftTypes).Analyze(req.StartDate, req.EndDate, assignments)
	metrics.SetCoverageRate(report.CoverageRate)

	respondJSON(w, http.StatusOK, report)
}
