package model

import (
	"github.com/google/uuid"
)

// Absence 缺勤记录：员工在闭区间 [StartDate, EndDate] 内不可排班
type Absence struct {
	BaseModel
	EmployeeID uuid.UUID `json:"employee_id" db:"employee_id"`
	StartDate  string    `json:"start_date" db:"start_date"`
	EndDate    string    `json:"end_date" db:"end_date"`
	Reason     string    `json:"reason,omitempty" db:"reason"`
}

// Covers 检查某日期是否落在缺勤区间内（两端含）
// 日期均为 ISO 格式，字典序比较即日期序比较
func (a *Absence) Covers(date string) bool {
	return a.StartDate <= date && date <= a.EndDate
}
