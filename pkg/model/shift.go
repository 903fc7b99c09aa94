package model

import (
	"github.com/google/uuid"
)

// ShiftType 班种定义
// StartTime/EndTime 为 "HH:mm" 格式的一天内时刻
type ShiftType struct {
	BaseModel
	Name      string `json:"name" db:"name"`
	StartTime string `json:"start_time" db:"start_time"`
	EndTime   string `json:"end_time" db:"end_time"`

	// 每个星期几的需求人数：键为小写英文星期名（monday..sunday）
	// 缺失键视为 0
	RequiredPersonnel map[string]int `json:"required_personnel" db:"required_personnel"`
}

// DurationHours 计算班次时长（小时，可为小数）
// 结束时刻不晚于开始时刻视为跨夜班，加 24 小时
// 时刻格式非法时返回 0，调用方在边界处负责校验
func (s *ShiftType) DurationHours() float64 {
	start, ok := parseClock(s.StartTime)
	if !ok {
		return 0
	}
	end, ok := parseClock(s.EndTime)
	if !ok {
		return 0
	}
	if end <= start {
		end += 24 * 60
	}
	return float64(end-start) / 60
}

// RequiredOn 返回某星期几的需求人数
func (s *ShiftType) RequiredOn(weekday string) int {
	return s.RequiredPersonnel[weekday]
}

// DayPart 返回班次归属的时段
// 开始时刻早于 12:00 为上午班，否则为下午班（含跨夜班与非法时刻）
func (s *ShiftType) DayPart() DayPart {
	start, ok := parseClock(s.StartTime)
	if ok && start < 12*60 {
		return DayPartAM
	}
	return DayPartPM
}

// parseClock 解析 "HH:mm" 为自零点起的分钟数
func parseClock(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	h, ok := parseTwoDigits(s[0], s[1])
	if !ok || h > 23 {
		return 0, false
	}
	m, ok := parseTwoDigits(s[3], s[4])
	if !ok || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func parseTwoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// ShiftAssignment 单条排班记录：某员工在某天承担某班种
type ShiftAssignment struct {
	EmployeeID  uuid.UUID `json:"employee_id" db:"employee_id"`
	ShiftTypeID uuid.UUID `json:"shift_type_id" db:"shift_type_id"`
	Date        string    `json:"date" db:"date"` // "YYYY-MM-DD"
}

// ShiftPlan 排班计划：一段日期区间及其全部排班记录
type ShiftPlan struct {
	BaseModel
	Name        string            `json:"name" db:"name"`
	StartDate   string            `json:"start_date" db:"start_date"`
	EndDate     string            `json:"end_date" db:"end_date"`
	Assignments []ShiftAssignment `json:"assignments" db:"assignments"`
}
