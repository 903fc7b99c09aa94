// Package model 定义轮班计划引擎的核心数据模型
package model

import (
	"github.com/google/uuid"
)

// EmployeeType 员工类型
type EmployeeType string

const (
	EmployeeRegular    EmployeeType = "regular"    // 正式员工
	EmployeeApprentice EmployeeType = "apprentice" // 学徒
)

// Employee 员工
type Employee struct {
	BaseModel
	FirstName          string       `json:"first_name" db:"first_name"`
	LastName           string       `json:"last_name" db:"last_name"`
	ShortName          string       `json:"short_name,omitempty" db:"short_name"`
	EmployeeType       EmployeeType `json:"employee_type" db:"employee_type"`
	ApprenticeshipYear int          `json:"apprenticeship_year,omitempty" db:"apprenticeship_year"` // 学徒年级，如 1、2、3
	EmploymentPct      float64      `json:"employment_percentage" db:"employment_percentage"`       // 雇佣比例，如 80 表示 80%
	TeamID             uuid.UUID    `json:"team_id" db:"team_id"`

	// 班种资格：班种ID -> 是否具备
	// 缺失键与显式 false 等价（均视为不具备资格）
	Qualifications map[uuid.UUID]bool `json:"qualifications" db:"qualifications"`

	// 常规可用性：键如 "monday_am"、"tuesday_pm"
	// 仅显式 false 表示不可用，缺失键视为可用（与资格表语义相反，属既有约定）
	Availability map[string]bool `json:"availability" db:"availability"`
}

// FullName 返回员工全名
func (e *Employee) FullName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	return e.FirstName + " " + e.LastName
}

// IsApprentice 检查员工是否为学徒
func (e *Employee) IsApprentice() bool {
	return e.EmployeeType == EmployeeApprentice
}

// QualifiedFor 检查员工是否具备某班种的资格
// 缺失键按不具备处理
func (e *Employee) QualifiedFor(shiftTypeID uuid.UUID) bool {
	return e.Qualifications[shiftTypeID]
}

// AvailableAt 检查员工在某星期的某时段是否可用
// 仅显式 false 拒绝，缺失键允许
func (e *Employee) AvailableAt(weekday string, part DayPart) bool {
	v, ok := e.Availability[AvailabilityKey(weekday, part)]
	return !ok || v
}

// Team 员工团队
type Team struct {
	BaseModel
	Name string `json:"name" db:"name"`
	// 该团队应承担的总班次负荷目标比例（%），由统计分析消费
	TargetLoadPct float64 `json:"target_load_percentage" db:"target_load_percentage"`
}

// ApprenticeQualification 学徒默认资格
// 按学徒年级定义默认的班种资格表
type ApprenticeQualification struct {
	ApprenticeshipYear int                `json:"apprenticeship_year"`
	Qualifications     map[uuid.UUID]bool `json:"qualifications"`
}

// ApplyApprenticeDefaults 将年级默认资格合并到学徒员工上
// 仅补充员工资格表中缺失的键，显式设置（包括 false）不被覆盖
func ApplyApprenticeDefaults(employees []*Employee, defaults []ApprenticeQualification) {
	byYear := make(map[int]map[uuid.UUID]bool)
	for _, d := range defaults {
		byYear[d.ApprenticeshipYear] = d.Qualifications
	}

	for _, emp := range employees {
		if !emp.IsApprentice() {
			continue
		}
		quals := byYear[emp.ApprenticeshipYear]
		if len(quals) == 0 {
			continue
		}
		if emp.Qualifications == nil {
			emp.Qualifications = make(map[uuid.UUID]bool, len(quals))
		}
		for shiftTypeID, qualified := range quals {
			if _, exists := emp.Qualifications[shiftTypeID]; !exists {
				emp.Qualifications[shiftTypeID] = qualified
			}
		}
	}
}
