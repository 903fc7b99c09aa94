package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/shiftplan/shiftplan/pkg/model"
)

// SlotCoverage 单个日期单个班种的覆盖情况
type SlotCoverage struct {
	Date          string    `json:"date"`
	ShiftTypeID   uuid.UUID `json:"shift_type_id"`
	ShiftTypeName string    `json:"shift_type_name"`
	Required      int       `json:"required"`
	Assigned      int       `json:"assigned"`
}

// CoverageReport 计划覆盖率报告
type CoverageReport struct {
	Slots         []SlotCoverage `json:"slots"`
	TotalRequired int            `json:"total_required"`
	TotalAssigned int            `json:"total_assigned"`
	CoverageRate  float64        `json:"coverage_rate"` // 已填名额 / 需求名额
	Unfilled      []string       `json:"unfilled"`      // 未填满的班次描述
}

// CoverageAnalyzer 覆盖率分析器
type CoverageAnalyzer struct {
	shiftTypes []*model.ShiftType
}

// NewCoverageAnalyzer 创建覆盖率分析器
func NewCoverageAnalyzer(shiftTypes []*model.ShiftType) *CoverageAnalyzer {
	return &CoverageAnalyzer{shiftTypes: shiftTypes}
}

// Analyze 对照班种需求统计一段日期区间内排班的覆盖情况
// 超额排班按需求数封顶计入已填名额，覆盖率不会超过 1
func (a *CoverageAnalyzer) Analyze(startDate, endDate string, assignments []model.ShiftAssignment) *CoverageReport {
	assigned := make(map[string]int)
	for _, as := range assignments {
		assigned[as.Date+"/"+as.ShiftTypeID.String()]++
	}

	report := &CoverageReport{}

	r := model.DateRange{StartDate: startDate, EndDate: endDate}
	for _, date := range r.Days() {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue
		}
		weekday := model.WeekdayName(day)

		for _, st := range a.shiftTypes {
			required := st.RequiredOn(weekday)
			if required == 0 {
				continue
			}
			got := assigned[date+"/"+st.ID.String()]

			report.Slots = append(report.Slots, SlotCoverage{
				Date:          date,
				ShiftTypeID:   st.ID,
				ShiftTypeName: st.Name,
				Required:      required,
				Assigned:      got,
			})
			report.TotalRequired += required
			if got > required {
				got = required
			}
			report.TotalAssigned += got
			if got < required {
				report.Unfilled = append(report.Unfilled,
					fmt.Sprintf("%s %s 缺 %d 人", date, st.Name, required-got))
			}
		}
	}

	if report.TotalRequired > 0 {
		report.CoverageRate = float64(report.TotalAssigned) / float64(report.TotalRequired)
	}

	sort.Slice(report.Slots, func(i, j int) bool {
		if report.Slots[i].Date != report.Slots[j].Date {
			return report.Slots[i].Date < report.Slots[j].Date
		}
		return report.Slots[i].ShiftTypeName < report.Slots[j].ShiftTypeName
	})
	return report
}
