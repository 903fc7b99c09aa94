package validator

import (
	"testing"

	"github.com/google/uuid"

	"github.com/shiftplan/shiftplan/pkg/model"
)

func auditorFixture() (*model.Employee, *model.ShiftType, *model.ShiftType) {
	early := &model.ShiftType{
		BaseModel: model.BaseModel{ID: uuid.New()},
		Name:      "早班",
		StartTime: "06:00",
		EndTime:   "14:00",
	}
	night := &model.ShiftType{
		BaseModel: model.BaseModel{ID: uuid.New()},
		Name:      "夜班",
		StartTime: "22:00",
		EndTime:   "06:00",
	}
	emp := &model.Employee{
		BaseModel: model.BaseModel{ID: uuid.New()},
		LastName:  "王",
		Qualifications: map[uuid.UUID]bool{
			early.ID: true,
			night.ID: true,
		},
	}
	return emp, early, night
}

func TestPlanAuditor_CleanPlan(t *testing.T) {
	emp, early, night := auditorFixture()
	auditor := NewPlanAuditor(
		[]*model.Employee{emp},
		[]*model.ShiftType{early, night},
		nil, nil,
	)

	violations := auditor.Audit([]model.ShiftAssignment{
		{EmployeeID: emp.ID, ShiftTypeID: early.ID, Date: "2026-01-05"},
		{EmployeeID: emp.ID, ShiftTypeID: early.ID, Date: "2026-01-06"},
	})

	if len(violations) != 0 {
		t.Errorf("clean plan produced violations: %v", violations)
	}
}

func TestPlanAuditor_DoubleBooking(t *testing.T) {
	emp, early, night := auditorFixture()
	auditor := NewPlanAuditor(
		[]*model.Employee{emp},
		[]*model.ShiftType{early, night},
		nil, nil,
	)

	violations := auditor.Audit([]model.ShiftAssignment{
		{EmployeeID: emp.ID, ShiftTypeID: early.ID, Date: "2026-01-05"},
		{EmployeeID: emp.ID, ShiftTypeID: night.ID, Date: "2026-01-05"},
	})

	if len(violations) != 1 {
		t.Fatalf("got %d violations, expected 1", len(violations))
	}
	if violations[0].Type != ViolationDoubleBooking {
		t.Errorf("violation type = %s, expected %s", violations[0].Type, ViolationDoubleBooking)
	}
	if violations[0].Date != "2026-01-05" {
		t.Errorf("violation date = %s", violations[0].Date)
	}
}

func TestPlanAuditor_AbsenceOverlap(t *testing.T) {
	emp, early, night := auditorFixture()
	auditor := NewPlanAuditor(
		[]*model.Employee{emp},
		[]*model.ShiftType{early, night},
		[]*model.Absence{
			{EmployeeID: emp.ID, StartDate: "2026-01-05", EndDate: "2026-01-06"},
		},
		nil,
	)

	violations := auditor.Audit([]model.ShiftAssignment{
		{EmployeeID: emp.ID, ShiftTypeID: early.ID, Date: "2026-01-06"},
		{EmployeeID: emp.ID, ShiftTypeID: early.ID, Date: "2026-01-07"}, // 缺勤区间外
	})

	if len(violations) != 1 {
		t.Fatalf("got %d violations, expected 1", len(violations))
	}
	if violations[0].Type != ViolationAbsenceOverlap {
		t.Errorf("violation type = %s, expected %s", violations[0].Type, ViolationAbsenceOverlap)
	}
}

func TestPlanAuditor_QualificationGap(t *testing.T) {
	emp, early, night := auditorFixture()
	delete(emp.Qualifications, night.ID)

	auditor := NewPlanAuditor(
		[]*model.Employee{emp},
		[]*model.ShiftType{early, night},
		nil, nil,
	)

	violations := auditor.Audit([]model.ShiftAssignment{
		{EmployeeID: emp.ID, ShiftTypeID: night.ID, Date: "2026-01-05"},
	})

	if len(violations) != 1 {
		t.Fatalf("got %d violations, expected 1", len(violations))
	}
	if violations[0].Type != ViolationQualification {
		t.Errorf("violation type = %s, expected %s", violations[0].Type, ViolationQualification)
	}
}

func TestPlanAuditor_ForbiddenSequence(t *testing.T) {
	emp, early, night := auditorFixture()

	// 夜班后次日不得上早班
	rule := &model.ShiftRule{
		BaseModel:       model.BaseModel{ID: uuid.New()},
		Name:            "夜班后禁早班",
		Kind:            model.RuleForbiddenSequence,
		FromShiftTypeID: &night.ID,
		ToShiftTypeID:   &early.ID,
		DaysApart:       1,
	}

	auditor := NewPlanAuditor(
		[]*model.Employee{emp},
		[]*model.ShiftType{early, night},
		nil,
		[]*model.ShiftRule{rule},
	)

	violations := auditor.Audit([]model.ShiftAssignment{
		{EmployeeID: emp.ID, ShiftTypeID: night.ID, Date: "2026-01-05"},
		{EmployeeID: emp.ID, ShiftTypeID: early.ID, Date: "2026-01-06"},
	})

	if len(violations) != 1 {
		t.Fatalf("got %d violations, expected 1", len(violations))
	}
	if violations[0].Type != ViolationRule {
		t.Errorf("violation type = %s, expected %s", violations[0].Type, ViolationRule)
	}
	if violations[0].Date != "2026-01-06" {
		t.Errorf("violation date = %s, expected 2026-01-06", violations[0].Date)
	}
	if violations[0].Severity != SeverityWarning {
		t.Errorf("violation severity = %s, expected %s", violations[0].Severity, SeverityWarning)
	}

	// 间隔超出规则范围不算违规
	ok := auditor.Audit([]model.ShiftAssignment{
		{EmployeeID: emp.ID, ShiftTypeID: night.ID, Date: "2026-01-05"},
		{EmployeeID: emp.ID, ShiftTypeID: early.ID, Date: "2026-01-08"},
	})
	if len(ok) != 0 {
		t.Errorf("gap beyond days_apart flagged: %v", ok)
	}
}
