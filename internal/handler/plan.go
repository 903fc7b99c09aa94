package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/shiftplan/shiftplan/internal/metrics"
	"github.com/shiftplan/shiftplan/internal/repository"
	apperrors "github.com/shiftplan/shiftplan/pkg/errors"
	"github.com/shiftplan/shiftplan/pkg/logger"
	"github.com/shiftplan/shiftplan/pkg/model"
	"github.com/shiftplan/shiftplan/pkg/scheduler"
	planvalidator "github.com/shiftplan/shiftplan/pkg/validator"
)

// PlanHandler 排班计划处理器
type PlanHandler struct {
	plans    *repository.PlanRepository
	validate *validator.Validate
	log      *logger.PlannerLogger
}

// NewPlanHandler 创建排班计划处理器
// plans 可以为 nil，此时计划持久化相关端点返回服务不可用
func NewPlanHandler(plans *repository.PlanRepository) *PlanHandler {
	return &PlanHandler{
		plans:    plans,
		validate: validator.New(),
		log:      logger.NewPlannerLogger(),
	}
}

// EmployeeInput 员工输入
type EmployeeInput struct {
	ID                 string          `json:"id" validate:"required,uuid"`
	FirstName          string          `json:"first_name"`
	LastName           string          `json:"last_name" validate:"required"`
	ShortName          string          `json:"short_name"`
	EmployeeType       string          `json:"employee_type" validate:"omitempty,oneof=regular apprentice"`
	ApprenticeshipYear int             `json:"apprenticeship_year"`
	EmploymentPct      float64         `json:"employment_percentage"`
	TeamID             string          `json:"team_id" validate:"omitempty,uuid"`
	Qualifications     map[string]bool `json:"qualifications"`
	Availability       map[string]bool `json:"availability"`
}

// TeamInput 团队输入
type TeamInput struct {
	ID            string  `json:"id" validate:"required,uuid"`
	Name          string  `json:"name" validate:"required"`
	TargetLoadPct float64 `json:"target_load_percentage"`
}

// ShiftTypeInput 班种输入
type ShiftTypeInput struct {
	ID                string         `json:"id" validate:"required,uuid"`
	Name              string         `json:"name" validate:"required"`
	StartTime         string         `json:"start_time" validate:"required,datetime=15:04"`
	EndTime           string         `json:"end_time" validate:"required,datetime=15:04"`
	RequiredPersonnel map[string]int `json:"required_personnel"`
}

// AbsenceInput 缺勤输入
type AbsenceInput struct {
	EmployeeID string `json:"employee_id" validate:"required,uuid"`
	StartDate  string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason     string `json:"reason"`
}

// RuleInput 排班规则输入
type RuleInput struct {
	Name            string `json:"name"`
	Kind            string `json:"kind" validate:"required,oneof=forbidden_sequence"`
	FromShiftTypeID string `json:"from_shift_type_id" validate:"omitempty,uuid"`
	ToShiftTypeID   string `json:"to_shift_type_id" validate:"omitempty,uuid"`
	DaysApart       int    `json:"days_apart"`
}

// AssignmentInput 排班记录输入
type AssignmentInput struct {
	EmployeeID  string `json:"employee_id" validate:"required,uuid"`
	ShiftTypeID string `json:"shift_type_id" validate:"required,uuid"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
}

// ApprenticeDefaultInput 学徒默认资格输入
type ApprenticeDefaultInput struct {
	ApprenticeshipYear int             `json:"apprenticeship_year" validate:"required,min=1"`
	Qualifications     map[string]bool `json:"qualifications"`
}

// GenerateRequest 计划生成请求
type GenerateRequest struct {
	StartDate           string                   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate             string                   `json:"end_date" validate:"required,datetime=2006-01-02"`
	Employees           []EmployeeInput          `json:"employees" validate:"required,min=1,dive"`
	Teams               []TeamInput              `json:"teams" validate:"dive"`
	ShiftTypes          []ShiftTypeInput         `json:"shift_types" validate:"required,min=1,dive"`
	Rules               []RuleInput              `json:"rules" validate:"dive"`
	Absences            []AbsenceInput           `json:"absences" validate:"dive"`
	ExistingAssignments []AssignmentInput        `json:"existing_assignments" validate:"dive"`
	ApprenticeDefaults  []ApprenticeDefaultInput `json:"apprentice_defaults" validate:"dive"`
	Persist             bool                     `json:"persist"`
	PlanName            string                   `json:"plan_name"`
}

// GenerateResponse 计划生成响应
type GenerateResponse struct {
	PlanID      string                  `json:"plan_id,omitempty"`
	Assignments []model.ShiftAssignment `json:"assignments"`
	Conflicts   []string                `json:"conflicts"`
	Duration    string                  `json:"duration"`
}

// Generate 生成排班计划
func (h *PlanHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, apperrors.New(apperrors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, translateValidation(err))
		return
	}
	if req.EndDate < req.StartDate {
		ve := &apperrors.ValidationErrors{}
		ve.Add("end_date", "结束日期不能早于开始日期")
		respondError(w, ve)
		return
	}

	input, err := buildSchedulerInput(&req)
	if err != nil {
		respondError(w, err)
		return
	}

	start := time.Now()
	result, err := scheduler.New(input).GeneratePlan()
	if err != nil {
		metrics.RecordPlanGeneration(false, 0, time.Since(start))
		respondError(w, err)
		return
	}
	metrics.RecordPlanGeneration(true, len(result.Conflicts), time.Since(start))

	resp := GenerateResponse{
		Assignments: result.Assignments,
		Conflicts:   result.Conflicts,
		Duration:    time.Since(start).String(),
	}

	if req.Persist {
		if h.plans == nil {
			respondError(w, apperrors.New(apperrors.CodeUnavailable, "计划存储不可用"))
			return
		}
		name := req.PlanName
		if name == "" {
			name = req.StartDate + " ~ " + req.EndDate
		}
		plan := &model.ShiftPlan{
			Name:        name,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			Assignments: result.Assignments,
		}
		if err := h.plans.Create(r.Context(), plan); err != nil {
			respondError(w, apperrors.Wrap(err, apperrors.CodeInternal, "保存排班计划失败"))
			return
		}
		resp.PlanID = plan.ID.String()
	}

	respondJSON(w, http.StatusOK, resp)
}

// AuditRequest 计划审计请求
type AuditRequest struct {
	Assignments []AssignmentInput `json:"assignments" validate:"required,min=1,dive"`
	Employees   []EmployeeInput   `json:"employees" validate:"required,min=1,dive"`
	ShiftTypes  []ShiftTypeInput  `json:"shift_types" validate:"required,min=1,dive"`
	Absences    []AbsenceInput    `json:"absences" validate:"dive"`
	Rules       []RuleInput       `json:"rules" validate:"dive"`
}

// AuditResponse 计划审计响应
type AuditResponse struct {
	Valid      bool                      `json:"valid"`
	Violations []planvalidator.Violation `json:"violations"`
}

// Audit 审计排班计划
// 用于人工调整后复核计划是否仍满足缺勤、资格与排班规则
func (h *PlanHandler) Audit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, apperrors.New(apperrors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req AuditRequest
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
	shiftTypes, err := mapShiftTypes(req.ShiftTypes)
	if err != nil {
		respondError(w, err)
		return
	}
	absences, err := mapAbsences(req.Absences)
	if err != nil {
		respondError(w, err)
		return
	}
	rules, err := mapRules(req.Rules)
	if err != nil {
		respondError(w, err)
		return
	}
	assignments, err := mapAssignments(req.Assignments)
	if err != nil {
		respondError(w, err)
		return
	}

	auditor := planvalidator.NewPlanAuditor(employees, shiftTypes, absences, rules)
	violations := auditor.Audit(assignments)
	if violations == nil {
		violations = []planvalidator.Violation{}
	}
	h.log.AuditComplete(len(violations))

	respondJSON(w, http.StatusOK, AuditResponse{
		Valid:      len(violations) == 0,
		Violations: violations,
	})
}

// GetPlan 根据ID获取已保存的排班计划
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, apperrors.New(apperrors.CodeInvalidInput, "仅支持GET方法"))
		return
	}
	if h.plans == nil {
		respondError(w, apperrors.New(apperrors.CodeUnavailable, "计划存储不可用"))
		return
	}

	id, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInvalidInput, "无效的计划ID格式"))
		return
	}

	plan, err := h.plans.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInternal, "查询排班计划失败"))
		return
	}
	if plan == nil {
		respondError(w, apperrors.New(apperrors.CodeNotFound, "排班计划不存在"))
		return
	}

	respondJSON(w, http.StatusOK, plan)
}

// ListPlans 查询排班计划列表
func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, apperrors.New(apperrors.CodeInvalidInput, "仅支持GET方法"))
		return
	}
	if h.plans == nil {
		respondError(w, apperrors.New(apperrors.CodeUnavailable, "计划存储不可用"))
		return
	}

	filter := repository.DefaultListFilter()
	q := r.URL.Query()
	if start, end := q.Get("start_date"), q.Get("end_date"); start != "" && end != "" {
		filter = filter.WithDateRange(start, end)
	}

	plans, total, err := h.plans.List(r.Context(), filter)
	if err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInternal, "查询排班计划失败"))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"plans": plans,
		"total": total,
	})
}

// buildSchedulerInput 将生成请求转换为计划生成器输入
func buildSchedulerInput(req *GenerateRequest) (*model.SchedulerInput, error) {
	employees, err := mapEmployees(req.Employees)
	if err != nil {
		return nil, err
	}
	teams, err := mapTeams(req.Teams)
	if err != nil {
		return nil, err
	}
	shiftTypes, err := mapShiftTypes(req.ShiftTypes)
	if err != nil {
		return nil, err
	}
	rules, err := mapRules(req.Rules)
	if err != nil {
		return nil, err
	}
	absences, err := mapAbsences(req.Absences)
	if err != nil {
		return nil, err
	}
	existing, err := mapAssignments(req.ExistingAssignments)
	if err != nil {
		return nil, err
	}
	defaults, err := mapApprenticeDefaults(req.ApprenticeDefaults)
	if err != nil {
		return nil, err
	}

	model.ApplyApprenticeDefaults(employees, defaults)

	return &model.SchedulerInput{
		Employees:           employees,
		Teams:               teams,
		ShiftTypes:          shiftTypes,
		Rules:               rules,
		Absences:            absences,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		ExistingAssignments: existing,
	}, nil
}

func mapEmployees(inputs []EmployeeInput) ([]*model.Employee, error) {
	employees := make([]*model.Employee, 0, len(inputs))
	for _, in := range inputs {
		id, err := uuid.Parse(in.ID)
		if err != nil {
			return nil, apperrors.Newf(apperrors.CodeInvalidInput, "无效的员工ID格式: %s", in.ID)
		}
		empType := model.EmployeeType(in.EmployeeType)
		if empType == "" {
			empType = model.EmployeeRegular
		}
		emp := &model.Employee{
			BaseModel:          model.BaseModel{ID: id},
			FirstName:          in.FirstName,
			LastName:           in.LastName,
			ShortName:          in.ShortName,
			EmployeeType:       empType,
			ApprenticeshipYear: in.ApprenticeshipYear,
			EmploymentPct:      in.EmploymentPct,
			Availability:       in.Availability,
		}
		if in.TeamID != "" {
			teamID, err := uuid.Parse(in.TeamID)
			if err != nil {
				return nil, apperrors.Newf(apperrors.CodeInvalidInput, "无效的团队ID格式: %s", in.TeamID)
			}
			emp.TeamID = teamID
		}
		if in.Qualifications != nil {
			emp.Qualifications = make(map[uuid.UUID]bool, len(in.Qualifications))
			for key, qualified := range in.Qualifications {
				shiftTypeID, err := uuid.Parse(key)
				if err != nil {
					return nil, apperrors.Newf(apperrors.CodeInvalidInput, "无效的班种ID格式: %s", key)
				}
				emp.Qualifications[shiftTypeID] = qualified
			}
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

func mapTeams(inputs []TeamInput) ([]*model.Team, error) {
	teams := make([]*model.Team, 0, len(inputs))
	for _, in := range inputs {
		id, err := uuid.Parse(in.ID)
		if err != nil {
			return nil, apperrors.Newf(apperrors.CodeInvalidInput, "无效的团队ID格式: %s", in.ID)
		}
		teams = append(teams, &model.Team{
			BaseModel:     model.BaseModel{ID: id},
			Name:          in.Name,
			TargetLoadPct: in.TargetLoadPct,
		})
	}
	return teams, nil
}

func mapShiftTypes(inputs []ShiftTypeInput) ([]*model.ShiftType, error) {
	shiftTypes := make([]*model.ShiftType, 0, len(inputs))
	for _, in := range inputs {
		id, err := uuid.Parse(in.ID)
		if err != nil {
			return nil, apperrors.Newf(apperrors.CodeInvalidInput, "无效的班种ID格式: %s", in.ID)
		}
		shiftTypes = append(shiftTypes, &model.ShiftType{
			BaseModel:         model.BaseModel{ID: id},
			Name:              in.Name,
			StartTime:         in.StartTime,
			EndTime:           in.EndTime,
			RequiredPersonnel: in.RequiredPersonnel,
		})
	}
	return shiftTypes, nil
}

func mapRules(inputs []RuleInput) ([]*model.ShiftRule, error) {
	rules := make([]*model.ShiftRule, 0, len(inputs))
	for _, in := range inputs {
		rule := &model.ShiftRule{
			BaseModel: model.BaseModel{ID: uuid.New()},
			Name:      in.Name,
			Kind:      model.RuleKind(in.Kind),
			DaysApart: in.DaysApart,
		}
		if in.FromShiftTypeID != "" {
			id, err := uuid.Parse(in.FromShiftTypeID)
			if err != nil {
				return nil, apperrors.Newf(apperrors.CodeInvalidInput, "无效的班种ID格式: %s", in.FromShiftTypeID)
			}
			rule.FromShiftTypeID = &id
		}
		if in.ToShiftTypeID != "" {
			id, err := uuid.Parse(in.ToShiftTypeID)
			if err != nil {
				return nil, apperrors.Newf(apperrors.CodeInvalidInput, "无效的班种ID格式: %s", in.ToShiftTypeID)
			}
			rule.ToShiftTypeID = &id
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func mapAbsences(inputs []AbsenceInput) ([]*model.Absence, error) {
	absences := make([]*model.Absence, 0, len(inputs))
	for _, in := range inputs {
		empID, err := uuid.Parse(in.EmployeeID)
		if err != nil {
			return nil, apperrors.Newf(apperrors.CodeInvalidInput, "无效的员工ID格式: %s", in.EmployeeID)
		}
		absences = append(absences, &model.Absence{
			BaseModel:  model.BaseModel{ID: uuid.New()},
			EmployeeID: empID,
			StartDate:  in.StartDate,
			EndDate:    in.EndDate,
			Reason:     in.Reason,
		})
	}
	return absences, nil
}

func mapAssignments(inputs []AssignmentInput) ([]model.ShiftAssignment, error) {
	assignments := make([]model.ShiftAssignment, 0, len(inputs))
	for _, in := range inputs {
		empID, err := uuid.Parse(in.EmployeeID)
		if err != nil {
			return nil, apperrors.Newf(apperrors.CodeInvalidInput, "无效的员工ID格式: %s", in.EmployeeID)
		}
		shiftTypeID, err := uuid.Parse(in.ShiftTypeID)
		if err != nil {
			return nil, apperrors.Newf(apperrors.CodeInvalidInput, "无效的班种ID格式: %s", in.ShiftTypeID)
		}
		assignments = append(assignments, model.ShiftAssignment{
			EmployeeID:  empID,
			ShiftTypeID: shiftTypeID,
			Date:        in.Date,
		})
	}
	return assignments, nil
}

func mapApprenticeDefaults(inputs []ApprenticeDefaultInput) ([]model.ApprenticeQualification, error) {
	defaults := make([]model.ApprenticeQualification, 0, len(inputs))
	for _, in := range inputs {
		quals := make(map[uuid.UUID]bool, len(in.Qualifications))
		for key, qualified := range in.Qualifications {
			shiftTypeID, err := uuid.Parse(key)
			if err != nil {
				return nil, apperrors.Newf(apperrors.CodeInvalidInput, "无效的班种ID格式: %s", key)
			}
			quals[shiftTypeID] = qualified
		}
		defaults = append(defaults, model.ApprenticeQualification{
			ApprenticeshipYear: in.ApprenticeshipYear,
			Qualifications:     quals,
		})
	}
	return defaults, nil
}
