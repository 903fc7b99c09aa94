package model

// SchedulerInput 计划生成器的完整输入
type SchedulerInput struct {
	Employees  []*Employee  `json:"employees"`
	Teams      []*Team      `json:"teams"`
	ShiftTypes []*ShiftType `json:"shift_types"`
	Rules      []*ShiftRule `json:"rules"`
	Absences   []*Absence   `json:"absences"`
	StartDate  string       `json:"start_date"`
	EndDate    string       `json:"end_date"`

	// 已存在的排班记录：计入工时统计并占用当日名额，不会被改写
	ExistingAssignments []ShiftAssignment `json:"existing_assignments"`
}

// SchedulerResult 计划生成结果
type SchedulerResult struct {
	Assignments []ShiftAssignment `json:"assignments"`
	Conflicts   []string          `json:"conflicts"`
}
