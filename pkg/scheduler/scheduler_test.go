package scheduler

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/shiftplan/shiftplan/pkg/model"
)

// 2026-01-05 是星期一
const monday = "2026-01-05"

func testEmployee(lastName string, quals ...uuid.UUID) *model.Employee {
	qualMap := make(map[uuid.UUID]bool, len(quals))
	for _, q := range quals {
		qualMap[q] = true
	}
	return &model.Employee{
		BaseModel:      model.BaseModel{ID: uuid.New()},
		LastName:       lastName,
		EmployeeType:   model.EmployeeRegular,
		Qualifications: qualMap,
	}
}

func testShiftType(name, start, end string, required map[string]int) *model.ShiftType {
	return &model.ShiftType{
		BaseModel:         model.BaseModel{ID: uuid.New()},
		Name:              name,
		StartTime:         start,
		EndTime:           end,
		RequiredPersonnel: required,
	}
}

func TestGeneratePlan_FillsRequiredSlots(t *testing.T) {
	early := testShiftType("早班", "06:00", "14:00", map[string]int{"monday": 1})
	emp := testEmployee("王", early.ID)

	input := &model.SchedulerInput{
		Employees:  []*model.Employee{emp},
		ShiftTypes: []*model.ShiftType{early},
		StartDate:  monday,
		EndDate:    monday,
	}

	result, err := New(input).GeneratePlan()
	if err != nil {
		t.Fatalf("GeneratePlan() error: %v", err)
	}

	if len(result.Assignments) != 1 {
		t.Fatalf("got %d assignments, expected 1", len(result.Assignments))
	}
	a := result.Assignments[0]
	if a.EmployeeID != emp.ID || a.ShiftTypeID != early.ID || a.Date != monday {
		t.Errorf("unexpected assignment: %+v", a)
	}
	if len(result.Conflicts) != 0 {
		t.Errorf("got conflicts %v, expected none", result.Conflicts)
	}
}

func TestGeneratePlan_UnfilledShiftConflict(t *testing.T) {
	early := testShiftType("早班", "06:00", "14:00", map[string]int{"monday": 2})
	emp := testEmployee("王", early.ID)

	input := &model.SchedulerInput{
		Employees:  []*model.Employee{emp},
		ShiftTypes: []*model.ShiftType{early},
		StartDate:  monday,
		EndDate:    monday,
	}

	result, err := New(input).GeneratePlan()
	if err != nil {
		t.Fatalf("GeneratePlan() error: %v", err)
	}

	// 需求2人只有1人：1条排班 + 每个空缺名额1条冲突
	if len(result.Assignments) != 1 {
		t.Errorf("got %d assignments, expected 1", len(result.Assignments))
	}
	if len(result.Conflicts) != 1 {
		t.Fatalf("got %d conflicts, expected 1", len(result.Conflicts))
	}
	expected := fmt.Sprintf("Unfilled shift: 早班 on %s", monday)
	if result.Conflicts[0] != expected {
		t.Errorf("conflict = %q, expected %q", result.Conflicts[0], expected)
	}
}

func TestGeneratePlan_AbsenceBlocksAssignment(t *testing.T) {
	early := testShiftType("早班", "06:00", "14:00", map[string]int{"monday": 1})
	emp := testEmployee("王", early.ID)

	input := &model.SchedulerInput{
		Employees:  []*model.Employee{emp},
		ShiftTypes: []*model.ShiftType{early},
		Absences: []*model.Absence{
			{EmployeeID: emp.ID, StartDate: "2026-01-01", EndDate: "2026-01-10"},
		},
		StartDate: monday,
		EndDate:   monday,
	}

	result, _ := New(input).GeneratePlan()

	if len(result.Assignments) != 0 {
		t.Errorf("absent employee was assigned: %+v", result.Assignments)
	}
	if len(result.Conflicts) != 1 {
		t.Errorf("got %d conflicts, expected 1", len(result.Conflicts))
	}
}

func TestGeneratePlan_QualificationGate(t *testing.T) {
	early := testShiftType("早班", "06:00", "14:00", map[string]int{"monday": 1})
	unqualified := testEmployee("王") // 无任何资格
	qualified := testEmployee("李", early.ID)

	input := &model.SchedulerInput{
		Employees:  []*model.Employee{unqualified, qualified},
		ShiftTypes: []*model.ShiftType{early},
		StartDate:  monday,
		EndDate:    monday,
	}

	result, _ := New(input).GeneratePlan()

	if len(result.Assignments) != 1 {
		t.Fatalf("got %d assignments, expected 1", len(result.Assignments))
	}
	if result.Assignments[0].EmployeeID != qualified.ID {
		t.Error("unqualified employee was picked over qualified one")
	}
}

func TestGeneratePlan_AvailabilityBlocksDayPart(t *testing.T) {
	early := testShiftType("早班", "06:00", "14:00", map[string]int{"monday": 1})
	emp := testEmployee("王", early.ID)
	emp.Availability = map[string]bool{"monday_am": false}

	input := &model.SchedulerInput{
		Employees:  []*model.Employee{emp},
		ShiftTypes: []*model.ShiftType{early},
		StartDate:  monday,
		EndDate:    monday,
	}

	result, _ := New(input).GeneratePlan()

	if len(result.Assignments) != 0 {
		t.Errorf("employee unavailable monday_am was assigned a morning shift")
	}

	// 同一员工可上下午班：缺失键允许
	late := testShiftType("晚班", "14:00", "22:00", map[string]int{"monday": 1})
	emp2 := testEmployee("李", late.ID)
	emp2.Availability = map[string]bool{"monday_am": false}

	input2 := &model.SchedulerInput{
		Employees:  []*model.Employee{emp2},
		ShiftTypes: []*model.ShiftType{late},
		StartDate:  monday,
		EndDate:    monday,
	}
	result2, _ := New(input2).GeneratePlan()
	if len(result2.Assignments) != 1 {
		t.Error("monday_pm shift should not be blocked by monday_am=false")
	}
}

func TestGeneratePlan_NoDoubleBookingPerDay(t *testing.T) {
	early := testShiftType("早班", "06:00", "14:00", map[string]int{"monday": 1})
	late := testShiftType("晚班", "14:00", "22:00", map[string]int{"monday": 1})
	emp := testEmployee("王", early.ID, late.ID)

	input := &model.SchedulerInput{
		Employees:  []*model.Employee{emp},
		ShiftTypes: []*model.ShiftType{early, late},
		StartDate:  monday,
		EndDate:    monday,
	}

	result, _ := New(input).GeneratePlan()

	// 早班占用当天名额，晚班无人可用
	if len(result.Assignments) != 1 {
		t.Fatalf("got %d assignments, expected 1", len(result.Assignments))
	}
	if result.Assignments[0].ShiftTypeID != early.ID {
		t.Error("expected the catalog-first shift type to win the day")
	}
	if len(result.Conflicts) != 1 {
		t.Errorf("got %d conflicts, expected 1 for the evening shift", len(result.Conflicts))
	}
}

func TestGeneratePlan_WorkloadBalancing(t *testing.T) {
	early := testShiftType("早班", "06:00", "14:00", map[string]int{
		"monday": 1, "tuesday": 1, "wednesday": 1, "thursday": 1,
	})
	a := testEmployee("王", early.ID)
	b := testEmployee("李", early.ID)

	input := &model.SchedulerInput{
		Employees:  []*model.Employee{a, b},
		ShiftTypes: []*model.ShiftType{early},
		StartDate:  "2026-01-05",
		EndDate:    "2026-01-08",
	}

	result, _ := New(input).GeneratePlan()

	if len(result.Assignments) != 4 {
		t.Fatalf("got %d assignments, expected 4", len(result.Assignments))
	}

	// 工时并列时名册顺序优先：王、李、王、李交替
	expected := []uuid.UUID{a.ID, b.ID, a.ID, b.ID}
	for i, as := range result.Assignments {
		if as.EmployeeID != expected[i] {
			t.Errorf("assignment %d went to wrong employee", i)
		}
	}
}

func TestGeneratePlan_ExistingAssignmentsCounted(t *testing.T) {
	early := testShiftType("早班", "06:00", "14:00", map[string]int{"monday": 1})
	a := testEmployee("王", early.ID)
	b := testEmployee("李", early.ID)

	existing := model.ShiftAssignment{EmployeeID: a.ID, ShiftTypeID: early.ID, Date: monday}

	input := &model.SchedulerInput{
		Employees:           []*model.Employee{a, b},
		ShiftTypes:          []*model.ShiftType{early},
		StartDate:           monday,
		EndDate:             monday,
		ExistingAssignments: []model.ShiftAssignment{existing},
	}

	result, _ := New(input).GeneratePlan()

	// 已有排班占满名额：不新增，结果包含已有记录
	if len(result.Assignments) != 1 {
		t.Fatalf("got %d assignments, expected 1", len(result.Assignments))
	}
	if result.Assignments[0] != existing {
		t.Errorf("existing assignment missing from result: %+v", result.Assignments[0])
	}
	if len(result.Conflicts) != 0 {
		t.Errorf("got conflicts %v, expected none", result.Conflicts)
	}
}

func TestGeneratePlan_ExistingWorkloadBias(t *testing.T) {
	night := testShiftType("夜班", "22:00", "06:00", map[string]int{"sunday": 1})
	early := testShiftType("早班", "06:00", "14:00", map[string]int{"monday": 1})
	a := testEmployee("王", night.ID, early.ID)
	b := testEmployee("李", night.ID, early.ID)

	// 王在区间开始前已有一个8小时夜班
	input := &model.SchedulerInput{
		Employees:  []*model.Employee{a, b},
		ShiftTypes: []*model.ShiftType{night, early},
		StartDate:  monday,
		EndDate:    monday,
		ExistingAssignments: []model.ShiftAssignment{
			{EmployeeID: a.ID, ShiftTypeID: night.ID, Date: "2026-01-04"},
		},
	}

	result, _ := New(input).GeneratePlan()

	if len(result.Assignments) != 2 {
		t.Fatalf("got %d assignments, expected 2 (existing + new)", len(result.Assignments))
	}
	// 李工时为0，应当被选中
	picked := result.Assignments[1]
	if picked.EmployeeID != b.ID {
		t.Error("employee with lower accumulated hours was not picked")
	}
}

func TestGeneratePlan_UnknownShiftTypeZeroDuration(t *testing.T) {
	early := testShiftType("早班", "06:00", "14:00", map[string]int{"monday": 1})
	a := testEmployee("王", early.ID)
	b := testEmployee("李", early.ID)

	// 王有一条未知班种的历史排班：计0工时，不影响排序
	input := &model.SchedulerInput{
		Employees:  []*model.Employee{a, b},
		ShiftTypes: []*model.ShiftType{early},
		StartDate:  monday,
		EndDate:    monday,
		ExistingAssignments: []model.ShiftAssignment{
			{EmployeeID: a.ID, ShiftTypeID: uuid.New(), Date: "2026-01-04"},
		},
	}

	result, _ := New(input).GeneratePlan()

	newAssignment := result.Assignments[len(result.Assignments)-1]
	if newAssignment.EmployeeID != a.ID {
		t.Error("zero-duration history should keep roster order tie-break intact")
	}
}

func TestGeneratePlan_SingleUse(t *testing.T) {
	early := testShiftType("早班", "06:00", "14:00", map[string]int{"monday": 1})
	emp := testEmployee("王", early.ID)

	input := &model.SchedulerInput{
		Employees:  []*model.Employee{emp},
		ShiftTypes: []*model.ShiftType{early},
		StartDate:  monday,
		EndDate:    monday,
	}

	s := New(input)
	if _, err := s.GeneratePlan(); err != nil {
		t.Fatalf("first GeneratePlan() error: %v", err)
	}
	if _, err := s.GeneratePlan(); err == nil {
		t.Error("second GeneratePlan() should return an error")
	}
}

func TestGeneratePlan_Deterministic(t *testing.T) {
	early := testShiftType("早班", "06:00", "14:00", map[string]int{"monday": 2, "tuesday": 2})
	late := testShiftType("晚班", "14:00", "22:00", map[string]int{"monday": 1, "tuesday": 1})

	var employees []*model.Employee
	for i := 0; i < 5; i++ {
		employees = append(employees, testEmployee(fmt.Sprintf("员工%d", i), early.ID, late.ID))
	}

	input := &model.SchedulerInput{
		Employees:  employees,
		ShiftTypes: []*model.ShiftType{early, late},
		StartDate:  "2026-01-05",
		EndDate:    "2026-01-06",
	}

	first, _ := New(input).GeneratePlan()
	second, _ := New(input).GeneratePlan()

	if !reflect.DeepEqual(first.Assignments, second.Assignments) {
		t.Error("same input produced different assignments")
	}
	if !reflect.DeepEqual(first.Conflicts, second.Conflicts) {
		t.Error("same input produced different conflicts")
	}
}

func TestGeneratePlan_EmptyConflictsNotNil(t *testing.T) {
	early := testShiftType("早班", "06:00", "14:00", map[string]int{"monday": 1})
	emp := testEmployee("王", early.ID)

	input := &model.SchedulerInput{
		Employees:  []*model.Employee{emp},
		ShiftTypes: []*model.ShiftType{early},
		StartDate:  monday,
		EndDate:    monday,
	}

	result, _ := New(input).GeneratePlan()
	if result.Conflicts == nil {
		t.Error("Conflicts should be an empty slice, not nil")
	}
}

func TestGeneratePlan_ZeroRequirementSkipped(t *testing.T) {
	// 周一无需求，周二需1人
	early := testShiftType("早班", "06:00", "14:00", map[string]int{"tuesday": 1})
	emp := testEmployee("王", early.ID)

	input := &model.SchedulerInput{
		Employees:  []*model.Employee{emp},
		ShiftTypes: []*model.ShiftType{early},
		StartDate:  "2026-01-05",
		EndDate:    "2026-01-06",
	}

	result, _ := New(input).GeneratePlan()

	if len(result.Assignments) != 1 {
		t.Fatalf("got %d assignments, expected 1", len(result.Assignments))
	}
	if result.Assignments[0].Date != "2026-01-06" {
		t.Errorf("assignment on %s, expected 2026-01-06", result.Assignments[0].Date)
	}
}
