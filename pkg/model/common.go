// Package model 定义轮班计划引擎的核心数据模型
package model

import (
	"time"

	"github.com/google/uuid"
)

// Weekdays 一周七天（周一为一周的第一天）
var Weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// DayPart 日间时段
type DayPart string

const (
	DayPartAM DayPart = "am" // 上午（开始时间在12点前）
	DayPartPM DayPart = "pm" // 下午/晚间
)

// WeekdayName 返回日期对应的星期名称
// Go 的 time.Weekday 以周日为 0，这里重新映射为周一 = 0、周日 = 6
func WeekdayName(t time.Time) string {
	return Weekdays[(int(t.Weekday())+6)%7]
}

// AvailabilityKey 构造可用性键，如 "monday_am"
func AvailabilityKey(weekday string, part DayPart) string {
	return weekday + "_" + string(part)
}

// BaseModel 基础模型（包含通用字段）
type BaseModel struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// NewBaseModel 创建新的基础模型
func NewBaseModel() BaseModel {
	now := time.Now()
	return BaseModel{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DateRange 日期范围（闭区间）
type DateRange struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

// Days 枚举范围内的所有日期（含两端）
// 日期均按 UTC 零点解析，避免本地时区偏移；解析失败返回空列表
func (dr DateRange) Days() []string {
	start, err1 := time.Parse("2006-01-02", dr.StartDate)
	end, err2 := time.Parse("2006-01-02", dr.EndDate)
	if err1 != nil || err2 != nil {
		return nil
	}

	var days []string
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		days = append(days, cur.Format("2006-01-02"))
	}
	return days
}

// Contains 检查日期是否落在范围内
// 日期格式为零填充的 ISO 格式，字典序比较与时间序一致
func (dr DateRange) Contains(date string) bool {
	return date >= dr.StartDate && date <= dr.EndDate
}
