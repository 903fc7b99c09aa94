package stats

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/shiftplan/shiftplan/pkg/model"
)

func TestCoverageAnalyzer_Analyze(t *testing.T) {
	early := &model.ShiftType{
		BaseModel: model.BaseModel{ID: uuid.New()},
		Name:      "早班",
		StartTime: "06:00",
		EndTime:   "14:00",
		RequiredPersonnel: map[string]int{
			"monday":  2,
			"tuesday": 1,
		},
	}

	emp1, emp2 := uuid.New(), uuid.New()

	analyzer := NewCoverageAnalyzer([]*model.ShiftType{early})
	// 周一2/2，周二0/1
	report := analyzer.Analyze("2026-01-05", "2026-01-06", []model.ShiftAssignment{
		{EmployeeID: emp1, ShiftTypeID: early.ID, Date: "2026-01-05"},
		{EmployeeID: emp2, ShiftTypeID: early.ID, Date: "2026-01-05"},
	})

	if report.TotalRequired != 3 {
		t.Errorf("TotalRequired = %d, expected 3", report.TotalRequired)
	}
	if report.TotalAssigned != 2 {
		t.Errorf("TotalAssigned = %d, expected 2", report.TotalAssigned)
	}
	if math.Abs(report.CoverageRate-2.0/3.0) > 0.001 {
		t.Errorf("CoverageRate = %v, expected 2/3", report.CoverageRate)
	}
	if len(report.Slots) != 2 {
		t.Fatalf("got %d slots, expected 2", len(report.Slots))
	}
	if len(report.Unfilled) != 1 {
		t.Fatalf("got %d unfilled entries, expected 1", len(report.Unfilled))
	}
}

func TestCoverageAnalyzer_OverfilledCapped(t *testing.T) {
	early := &model.ShiftType{
		BaseModel:         model.BaseModel{ID: uuid.New()},
		Name:              "早班",
		StartTime:         "06:00",
		EndTime:           "14:00",
		RequiredPersonnel: map[string]int{"monday": 1},
	}

	analyzer := NewCoverageAnalyzer([]*model.ShiftType{early})
	// 需求1人排了2人：覆盖率封顶为1
	report := analyzer.Analyze("2026-01-05", "2026-01-05", []model.ShiftAssignment{
		{EmployeeID: uuid.New(), ShiftTypeID: early.ID, Date: "2026-01-05"},
		{EmployeeID: uuid.New(), ShiftTypeID: early.ID, Date: "2026-01-05"},
	})

	if report.CoverageRate != 1 {
		t.Errorf("CoverageRate = %v, expected 1", report.CoverageRate)
	}
	if report.Slots[0].Assigned != 2 {
		t.Errorf("slot Assigned = %d, expected raw count 2", report.Slots[0].Assigned)
	}
}

func TestCoverageAnalyzer_NoRequirements(t *testing.T) {
	early := &model.ShiftType{
		BaseModel:         model.BaseModel{ID: uuid.New()},
		Name:              "早班",
		StartTime:         "06:00",
		EndTime:           "14:00",
		RequiredPersonnel: map[string]int{"monday": 1},
	}

	analyzer := NewCoverageAnalyzer([]*model.ShiftType{early})
	// 周日无需求：无名额、覆盖率0
	report := analyzer.Analyze("2026-01-11", "2026-01-11", nil)

	if report.TotalRequired != 0 || report.CoverageRate != 0 {
		t.Errorf("report = %+v, expected empty", report)
	}
}
