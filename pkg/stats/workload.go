// Package stats 提供排班计划的统计分析功能
package stats

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/shiftplan/shiftplan/pkg/model"
)

// EmployeeWorkload 单个员工的工时统计
type EmployeeWorkload struct {
	EmployeeID   uuid.UUID `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	TotalHours   float64   `json:"total_hours"`
	ShiftCount   int       `json:"shift_count"`
	Deviation    float64   `json:"deviation"` // 与平均工时的偏差
}

// TeamLoad 团队负荷统计
type TeamLoad struct {
	TeamID        uuid.UUID `json:"team_id"`
	TeamName      string    `json:"team_name"`
	TotalHours    float64   `json:"total_hours"`
	ActualLoadPct float64   `json:"actual_load_percentage"` // 实际负荷占比（%）
	TargetLoadPct float64   `json:"target_load_percentage"` // 目标负荷占比（%）
}

// WorkloadReport 工时分析报告
type WorkloadReport struct {
	Employees  []EmployeeWorkload `json:"employees"`
	Teams      []TeamLoad         `json:"teams"`
	MeanHours  float64            `json:"mean_hours"`
	StdDev     float64            `json:"std_dev"`
	GiniIndex  float64            `json:"gini_index"` // 0 完全均衡，1 完全不均
	TotalHours float64            `json:"total_hours"`
}

// WorkloadAnalyzer 工时分析器
type WorkloadAnalyzer struct {
	employees  []*model.Employee
	teams      []*model.Team
	shiftTypes map[uuid.UUID]*model.ShiftType
}

// NewWorkloadAnalyzer 创建工时分析器
func NewWorkloadAnalyzer(employees []*model.Employee, teams []*model.Team, shiftTypes []*model.ShiftType) *WorkloadAnalyzer {
	a := &WorkloadAnalyzer{
		employees:  employees,
		teams:      teams,
		shiftTypes: make(map[uuid.UUID]*model.ShiftType, len(shiftTypes)),
	}
	for _, st := range shiftTypes {
		a.shiftTypes[st.ID] = st
	}
	return a
}

// Analyze 统计一组排班记录的工时分布
// 名册内没有排班的员工也计入报告（工时为 0），未知班种按 0 小时处理
func (a *WorkloadAnalyzer) Analyze(assignments []model.ShiftAssignment) *WorkloadReport {
	hours := make(map[uuid.UUID]float64, len(a.employees))
	counts := make(map[uuid.UUID]int, len(a.employees))
	for _, emp := range a.employees {
		hours[emp.ID] = 0
	}

	var total float64
	for _, as := range assignments {
		var dur float64
		if st, ok := a.shiftTypes[as.ShiftTypeID]; ok {
			dur = st.DurationHours()
		}
		hours[as.EmployeeID] += dur
		counts[as.EmployeeID]++
		total += dur
	}

	report := &WorkloadReport{TotalHours: total}

	var mean float64
	if len(a.employees) > 0 {
		mean = total / float64(len(a.employees))
	}
	report.MeanHours = mean

	var variance float64
	values := make([]float64, 0, len(a.employees))
	for _, emp := range a.employees {
		h := hours[emp.ID]
		values = append(values, h)
		variance += (h - mean) * (h - mean)
		report.Employees = append(report.Employees, EmployeeWorkload{
			EmployeeID:   emp.ID,
			EmployeeName: emp.FullName(),
			TotalHours:   h,
			ShiftCount:   counts[emp.ID],
			Deviation:    h - mean,
		})
	}
	if len(a.employees) > 0 {
		report.StdDev = math.Sqrt(variance / float64(len(a.employees)))
	}
	report.GiniIndex = gini(values)

	sort.Slice(report.Employees, func(i, j int) bool {
		return report.Employees[i].TotalHours > report.Employees[j].TotalHours
	})

	report.Teams = a.analyzeTeams(hours, total)
	return report
}

// analyzeTeams 按团队汇总工时并与目标负荷比较
func (a *WorkloadAnalyzer) analyzeTeams(hours map[uuid.UUID]float64, total float64) []TeamLoad {
	byTeam := make(map[uuid.UUID]float64)
	for _, emp := range a.employees {
		byTeam[emp.TeamID] += hours[emp.ID]
	}

	var loads []TeamLoad
	for _, team := range a.teams {
		teamHours := byTeam[team.ID]
		var actualPct float64
		if total > 0 {
			actualPct = teamHours / total * 100
		}
		loads = append(loads, TeamLoad{
			TeamID:        team.ID,
			TeamName:      team.Name,
			TotalHours:    teamHours,
			ActualLoadPct: actualPct,
			TargetLoadPct: team.TargetLoadPct,
		})
	}
	return loads
}

// gini 计算基尼系数，衡量工时分布的不均衡程度
func gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum, weighted float64
	for i, v := range sorted {
		sum += v
		weighted += float64(i+1) * v
	}
	if sum == 0 {
		return 0
	}
	return (2*weighted)/(float64(n)*sum) - float64(n+1)/float64(n)
}
