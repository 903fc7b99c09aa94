// Package scheduler 实现贪心排班计划生成器
//
// 按日期逐天、按班种目录顺序逐班填充人员：每个空缺名额从
// 当日可用的合格员工中选出累计工时最少者。无法填满的名额
// 记录为冲突，不中断生成过程。
package scheduler

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shiftplan/shiftplan/pkg/errors"
	"github.com/shiftplan/shiftplan/pkg/logger"
	"github.com/shiftplan/shiftplan/pkg/model"
)

// Scheduler 排班计划生成器
// 单次使用：一个实例只能调用一次 GeneratePlan
type Scheduler struct {
	input       *model.SchedulerInput
	assignments []model.ShiftAssignment
	conflicts   []string

	dates      []string                        // 计划区间内的日期，升序
	dateMap    map[string]time.Time            // 日期字符串 -> UTC 零点时间
	workloads  map[uuid.UUID]float64           // 员工累计工时
	shiftTypes map[uuid.UUID]*model.ShiftType  // 班种索引
	log        *logger.PlannerLogger
	done       bool
}

// New 创建排班计划生成器并预热工时统计
// 已存在的排班记录按其班种时长计入对应员工的累计工时
func New(input *model.SchedulerInput) *Scheduler {
	s := &Scheduler{
		input:       input,
		assignments: make([]model.ShiftAssignment, 0, len(input.ExistingAssignments)),
		conflicts:   make([]string, 0),
		dateMap:     make(map[string]time.Time),
		workloads:   make(map[uuid.UUID]float64, len(input.Employees)),
		shiftTypes:  make(map[uuid.UUID]*model.ShiftType, len(input.ShiftTypes)),
		log:         logger.NewPlannerLogger(),
	}

	s.assignments = append(s.assignments, input.ExistingAssignments...)
	for _, st := range input.ShiftTypes {
		s.shiftTypes[st.ID] = st
	}

	s.prepareDates()
	s.initWorkloads()
	return s
}

// prepareDates 展开计划区间内的全部日期
func (s *Scheduler) prepareDates() {
	r := model.DateRange{StartDate: s.input.StartDate, EndDate: s.input.EndDate}
	for _, date := range r.Days() {
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue
		}
		s.dates = append(s.dates, date)
		s.dateMap[date] = t
	}
}

// initWorkloads 初始化员工工时：名册内员工记零，已有排班累加班次时长
func (s *Scheduler) initWorkloads() {
	for _, emp := range s.input.Employees {
		s.workloads[emp.ID] = 0
	}
	for _, a := range s.assignments {
		s.workloads[a.EmployeeID] += s.shiftDuration(a.ShiftTypeID)
	}
}

// shiftDuration 返回班种时长（小时），未知班种返回 0
func (s *Scheduler) shiftDuration(shiftTypeID uuid.UUID) float64 {
	st, ok := s.shiftTypes[shiftTypeID]
	if !ok {
		return 0
	}
	return st.DurationHours()
}

// GeneratePlan 生成排班计划
// 返回结果包含输入中已存在的排班记录与新生成的记录
// 同一实例重复调用返回错误
func (s *Scheduler) GeneratePlan() (*model.SchedulerResult, error) {
	if s.done {
		return nil, errors.New(errors.CodePlanConsumed, "排班生成器已被使用，请创建新实例")
	}
	s.done = true

	start := time.Now()
	s.log.StartPlan(s.input.StartDate, s.input.EndDate, len(s.input.Employees), len(s.input.ShiftTypes))

	for _, date := range s.dates {
		weekday := model.WeekdayName(s.dateMap[date])

		for _, st := range s.input.ShiftTypes {
			required := st.RequiredOn(weekday)
			already := s.countAssigned(date, st.ID)

			for i := already; i < required; i++ {
				candidate := s.findBestCandidate(st, date, weekday)
				if candidate == nil {
					s.conflicts = append(s.conflicts, fmt.Sprintf("Unfilled shift: %s on %s", st.Name, date))
					s.log.UnfilledShift(st.Name, date, required-i)
					continue
				}
				s.assignments = append(s.assignments, model.ShiftAssignment{
					EmployeeID:  candidate.ID,
					ShiftTypeID: st.ID,
					Date:        date,
				})
				s.workloads[candidate.ID] += st.DurationHours()
			}
		}
	}

	result := &model.SchedulerResult{
		Assignments: s.assignments,
		Conflicts:   s.conflicts,
	}
	s.log.PlanComplete(len(result.Assignments), len(result.Conflicts), time.Since(start))
	return result, nil
}

// countAssigned 统计某日期某班种已有的排班数量
func (s *Scheduler) countAssigned(date string, shiftTypeID uuid.UUID) int {
	count := 0
	for _, a := range s.assignments {
		if a.Date == date && a.ShiftTypeID == shiftTypeID {
			count++
		}
	}
	return count
}
