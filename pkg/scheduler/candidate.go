package scheduler

import (
	"sort"

	"github.com/google/uuid"

	"github.com/shiftplan/shiftplan/pkg/model"
)

// findBestCandidate 为某日期的某班种挑选最优员工
//
// 候选条件：当日尚无排班、非缺勤、时段可用、具备班种资格。
// 候选按累计工时升序排序，工时相同时保持名册顺序（稳定排序），
// 返回工时最少者；无候选返回 nil。
func (s *Scheduler) findBestCandidate(st *model.ShiftType, date, weekday string) *model.Employee {
	var candidates []*model.Employee
	for _, emp := range s.input.Employees {
		if s.assignedOn(emp.ID, date) {
			continue
		}
		if !s.isAvailable(emp, date, weekday, st) {
			continue
		}
		if !emp.QualifiedFor(st.ID) {
			continue
		}
		candidates = append(candidates, emp)
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return s.workloads[candidates[i].ID] < s.workloads[candidates[j].ID]
	})
	return candidates[0]
}

// assignedOn 检查员工在某日期是否已有排班（任意班种）
func (s *Scheduler) assignedOn(employeeID uuid.UUID, date string) bool {
	for _, a := range s.assignments {
		if a.EmployeeID == employeeID && a.Date == date {
			return true
		}
	}
	return false
}

// isAvailable 检查员工在某日期对某班种是否可用
// 依次检查缺勤记录与对应时段的常规可用性
func (s *Scheduler) isAvailable(emp *model.Employee, date, weekday string, st *model.ShiftType) bool {
	for _, ab := range s.input.Absences {
		if ab.EmployeeID == emp.ID && ab.Covers(date) {
			return false
		}
	}
	if _, ok := s.dateMap[date]; !ok {
		return false
	}
	return emp.AvailableAt(weekday, st.DayPart())
}
