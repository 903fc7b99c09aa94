package scheduler

import (
	"testing"

	"github.com/google/uuid"

	"github.com/shiftplan/shiftplan/pkg/model"
)

// 整周场景：诊所排班，工作日早晚两班，周六仅早班
func TestGeneratePlan_FullWeekScenario(t *testing.T) {
	weekdaysOnly := map[string]int{
		"monday": 1, "tuesday": 1, "wednesday": 1, "thursday": 1, "friday": 1,
	}
	withSaturday := map[string]int{
		"monday": 1, "tuesday": 1, "wednesday": 1, "thursday": 1, "friday": 1, "saturday": 1,
	}

	early := testShiftType("早班", "07:00", "15:00", withSaturday)
	late := testShiftType("晚班", "15:00", "23:00", weekdaysOnly)

	// 四名员工：两名全能，一名只上早班，一名学徒只有晚班资格且周三缺勤
	anna := testEmployee("安娜", early.ID, late.ID)
	bruno := testEmployee("布鲁诺", early.ID, late.ID)
	carla := testEmployee("卡拉", early.ID)
	dario := testEmployee("达里奥", late.ID)
	dario.EmployeeType = model.EmployeeApprentice
	dario.ApprenticeshipYear = 2

	input := &model.SchedulerInput{
		Employees:  []*model.Employee{anna, bruno, carla, dario},
		ShiftTypes: []*model.ShiftType{early, late},
		Absences: []*model.Absence{
			{EmployeeID: dario.ID, StartDate: "2026-01-07", EndDate: "2026-01-07"},
		},
		StartDate: "2026-01-05", // 周一
		EndDate:   "2026-01-11", // 周日
	}

	result, err := New(input).GeneratePlan()
	if err != nil {
		t.Fatalf("GeneratePlan() error: %v", err)
	}

	// 周一到周五早晚各1人 + 周六早班1人 = 11个名额
	if len(result.Assignments) != 11 {
		t.Fatalf("got %d assignments, expected 11", len(result.Assignments))
	}
	if len(result.Conflicts) != 0 {
		t.Fatalf("got conflicts %v, expected none", result.Conflicts)
	}

	byDate := make(map[string]map[uuid.UUID]int)
	perEmployee := make(map[uuid.UUID]int)
	for _, a := range result.Assignments {
		if byDate[a.Date] == nil {
			byDate[a.Date] = make(map[uuid.UUID]int)
		}
		byDate[a.Date][a.EmployeeID]++
		perEmployee[a.EmployeeID]++

		// 每人每天最多一个班次
		if byDate[a.Date][a.EmployeeID] > 1 {
			t.Errorf("employee double-booked on %s", a.Date)
		}
	}

	// 周日无任何需求
	if len(byDate["2026-01-11"]) != 0 {
		t.Error("sunday should have no assignments")
	}

	// 达里奥周三缺勤不得排班
	if byDate["2026-01-07"][dario.ID] != 0 {
		t.Error("absent apprentice was assigned on 2026-01-07")
	}

	// 卡拉不具备晚班资格
	for _, a := range result.Assignments {
		if a.EmployeeID == carla.ID && a.ShiftTypeID == late.ID {
			t.Error("employee without qualification got the evening shift")
		}
	}

	// 工时均衡：任意两人的班次数相差不应超过2
	min, max := len(result.Assignments), 0
	for _, emp := range input.Employees {
		n := perEmployee[emp.ID]
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}
	if max-min > 2 {
		t.Errorf("workload spread too wide: min=%d max=%d", min, max)
	}
}
