// Package validator 提供排班计划的事后审计功能
//
// 审计器独立于计划生成器运行：生成器只保证名额填充与当日不
// 重复，审计器负责检查缺勤冲突、资格缺失与排班规则违反，
// 用于人工调整后的计划复核。
package validator

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/shiftplan/shiftplan/pkg/model"
)

// ViolationType 违规类型
type ViolationType string

const (
	ViolationDoubleBooking  ViolationType = "double_booking"  // 同日多班
	ViolationAbsenceOverlap ViolationType = "absence_overlap" // 与缺勤冲突
	ViolationQualification  ViolationType = "qualification"   // 资格缺失
	ViolationRule           ViolationType = "rule_violation"  // 排班规则违反
)

// Severity 违规严重程度
type Severity string

const (
	SeverityError   Severity = "error"   // 硬性冲突
	SeverityWarning Severity = "warning" // 规则提示
)

// Violation 审计发现的单条违规
type Violation struct {
	Type       ViolationType `json:"type"`
	Severity   Severity      `json:"severity"`
	EmployeeID uuid.UUID     `json:"employee_id"`
	Date       string        `json:"date"`
	Message    string        `json:"message"`
}

// PlanAuditor 排班计划审计器
type PlanAuditor struct {
	employees  map[uuid.UUID]*model.Employee
	shiftTypes map[uuid.UUID]*model.ShiftType
	absences   []*model.Absence
	rules      []*model.ShiftRule
}

// NewPlanAuditor 创建计划审计器
func NewPlanAuditor(
	employees []*model.Employee,
	shiftTypes []*model.ShiftType,
	absences []*model.Absence,
	rules []*model.ShiftRule,
) *PlanAuditor {
	a := &PlanAuditor{
		employees:  make(map[uuid.UUID]*model.Employee, len(employees)),
		shiftTypes: make(map[uuid.UUID]*model.ShiftType, len(shiftTypes)),
		absences:   absences,
		rules:      rules,
	}
	for _, emp := range employees {
		a.employees[emp.ID] = emp
	}
	for _, st := range shiftTypes {
		a.shiftTypes[st.ID] = st
	}
	return a
}

// Audit 审计一组排班记录，返回全部违规
func (a *PlanAuditor) Audit(assignments []model.ShiftAssignment) []Violation {
	var violations []Violation

	byEmployee := make(map[uuid.UUID][]model.ShiftAssignment)
	for _, as := range assignments {
		byEmployee[as.EmployeeID] = append(byEmployee[as.EmployeeID], as)
	}

	for empID, empAssignments := range byEmployee {
		emp := a.employees[empID]

		violations = append(violations, a.detectDoubleBookings(empID, empAssignments)...)
		violations = append(violations, a.detectAbsenceOverlaps(empID, empAssignments)...)
		if emp != nil {
			violations = append(violations, a.detectQualificationGaps(emp, empAssignments)...)
		}
		violations = append(violations, a.detectRuleViolations(empID, empAssignments)...)
	}

	return violations
}

// detectDoubleBookings 检测同一员工同日承担多个班次
func (a *PlanAuditor) detectDoubleBookings(empID uuid.UUID, assignments []model.ShiftAssignment) []Violation {
	var violations []Violation

	perDate := make(map[string]int)
	for _, as := range assignments {
		perDate[as.Date]++
	}

	dates := sortedKeys(perDate)
	for _, date := range dates {
		if perDate[date] > 1 {
			violations = append(violations, Violation{
				Type:       ViolationDoubleBooking,
				Severity:   SeverityError,
				EmployeeID: empID,
				Date:       date,
				Message:    fmt.Sprintf("员工 %s 在 %s 有 %d 个班次", a.employeeName(empID), date, perDate[date]),
			})
		}
	}
	return violations
}

// detectAbsenceOverlaps 检测排班落在缺勤区间内
func (a *PlanAuditor) detectAbsenceOverlaps(empID uuid.UUID, assignments []model.ShiftAssignment) []Violation {
	var violations []Violation

	for _, as := range assignments {
		for _, ab := range a.absences {
			if ab.EmployeeID == empID && ab.Covers(as.Date) {
				violations = append(violations, Violation{
					Type:       ViolationAbsenceOverlap,
					Severity:   SeverityError,
					EmployeeID: empID,
					Date:       as.Date,
					Message:    fmt.Sprintf("员工 %s 在 %s 的排班与缺勤记录冲突", a.employeeName(empID), as.Date),
				})
				break
			}
		}
	}
	return violations
}

// detectQualificationGaps 检测员工承担无资格的班种
func (a *PlanAuditor) detectQualificationGaps(emp *model.Employee, assignments []model.ShiftAssignment) []Violation {
	var violations []Violation

	for _, as := range assignments {
		if emp.QualifiedFor(as.ShiftTypeID) {
			continue
		}
		violations = append(violations, Violation{
			Type:       ViolationQualification,
			Severity:   SeverityError,
			EmployeeID: emp.ID,
			Date:       as.Date,
			Message:    fmt.Sprintf("员工 %s 不具备班种 %s 的资格", emp.FullName(), a.shiftTypeName(as.ShiftTypeID)),
		})
	}
	return violations
}

// detectRuleViolations 按排班规则检查员工的班次序列
// 目前支持禁止顺序规则：承担 From 班种后 DaysApart 天内不得承担 To 班种
func (a *PlanAuditor) detectRuleViolations(empID uuid.UUID, assignments []model.ShiftAssignment) []Violation {
	var violations []Violation

	sorted := make([]model.ShiftAssignment, len(assignments))
	copy(sorted, assignments)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	for _, rule := range a.rules {
		if rule.Kind != model.RuleForbiddenSequence || rule.FromShiftTypeID == nil || rule.ToShiftTypeID == nil {
			continue
		}
		daysApart := rule.DaysApart
		if daysApart <= 0 {
			daysApart = 1
		}

		for _, from := range sorted {
			if from.ShiftTypeID != *rule.FromShiftTypeID {
				continue
			}
			for _, to := range sorted {
				if to.ShiftTypeID != *rule.ToShiftTypeID {
					continue
				}
				gap := daysBetween(from.Date, to.Date)
				if gap >= 1 && gap <= daysApart {
					violations = append(violations, Violation{
						Type:       ViolationRule,
						Severity:   SeverityWarning,
						EmployeeID: empID,
						Date:       to.Date,
						Message: fmt.Sprintf("员工 %s 违反规则「%s」：%s 的 %s 班之后 %d 天内承担了 %s 班",
							a.employeeName(empID), rule.Name, from.Date,
							a.shiftTypeName(*rule.FromShiftTypeID), gap,
							a.shiftTypeName(*rule.ToShiftTypeID)),
					})
				}
			}
		}
	}
	return violations
}

func (a *PlanAuditor) employeeName(id uuid.UUID) string {
	if emp, ok := a.employees[id]; ok {
		return emp.FullName()
	}
	return id.String()
}

func (a *PlanAuditor) shiftTypeName(id uuid.UUID) string {
	if st, ok := a.shiftTypes[id]; ok {
		return st.Name
	}
	return id.String()
}

// daysBetween 计算两个日期之间的天数差，解析失败返回 0
func daysBetween(from, to string) int {
	t1, err1 := time.Parse("2006-01-02", from)
	t2, err2 := time.Parse("2006-01-02", to)
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(t2.Sub(t1).Hours() / 24)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
