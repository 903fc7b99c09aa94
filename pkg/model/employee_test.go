package model

import (
	"testing"

	"github.com/google/uuid"
)

func TestEmployee_QualifiedFor(t *testing.T) {
	known := uuid.New()
	unknown := uuid.New()

	emp := &Employee{
		Qualifications: map[uuid.UUID]bool{known: true},
	}

	if !emp.QualifiedFor(known) {
		t.Error("QualifiedFor(known) = false, expected true")
	}
	// 缺失键按不具备处理
	if emp.QualifiedFor(unknown) {
		t.Error("QualifiedFor(unknown) = true, expected false")
	}

	// 显式 false 同样不具备
	emp.Qualifications[unknown] = false
	if emp.QualifiedFor(unknown) {
		t.Error("QualifiedFor(explicit false) = true, expected false")
	}

	// nil 资格表全部拒绝
	empty := &Employee{}
	if empty.QualifiedFor(known) {
		t.Error("QualifiedFor with nil map = true, expected false")
	}
}

func TestEmployee_AvailableAt(t *testing.T) {
	emp := &Employee{
		Availability: map[string]bool{
			"monday_am":  false,
			"tuesday_pm": true,
		},
	}

	tests := []struct {
		name     string
		weekday  string
		part     DayPart
		expected bool
	}{
		{name: "显式false拒绝", weekday: "monday", part: DayPartAM, expected: false},
		{name: "显式true允许", weekday: "tuesday", part: DayPartPM, expected: true},
		{name: "缺失键允许", weekday: "wednesday", part: DayPartAM, expected: true},
		{name: "同星期另一时段缺失键允许", weekday: "monday", part: DayPartPM, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := emp.AvailableAt(tt.weekday, tt.part); got != tt.expected {
				t.Errorf("AvailableAt(%s, %s) = %v, expected %v", tt.weekday, tt.part, got, tt.expected)
			}
		})
	}

	// nil 可用性表全部允许
	empty := &Employee{}
	if !empty.AvailableAt("monday", DayPartAM) {
		t.Error("AvailableAt with nil map = false, expected true")
	}
}

func TestEmployee_FullName(t *testing.T) {
	emp := &Employee{FirstName: "小明", LastName: "王"}
	if got := emp.FullName(); got != "小明 王" {
		t.Errorf("FullName() = %s", got)
	}

	onlyLast := &Employee{LastName: "王"}
	if got := onlyLast.FullName(); got != "王" {
		t.Errorf("FullName() = %s, expected 王", got)
	}
}

func TestApplyApprenticeDefaults(t *testing.T) {
	shiftA := uuid.New()
	shiftB := uuid.New()

	apprentice := &Employee{
		EmployeeType:       EmployeeApprentice,
		ApprenticeshipYear: 2,
		Qualifications:     map[uuid.UUID]bool{shiftA: false}, // 显式设置，不应被覆盖
	}
	regular := &Employee{
		EmployeeType: EmployeeRegular,
	}
	noDefaults := &Employee{
		EmployeeType:       EmployeeApprentice,
		ApprenticeshipYear: 3,
	}

	defaults := []ApprenticeQualification{
		{ApprenticeshipYear: 2, Qualifications: map[uuid.UUID]bool{shiftA: true, shiftB: true}},
	}

	ApplyApprenticeDefaults([]*Employee{apprentice, regular, noDefaults}, defaults)

	// 显式 false 保留
	if apprentice.Qualifications[shiftA] {
		t.Error("explicit qualification was overwritten by default")
	}
	// 缺失键被补充
	if !apprentice.Qualifications[shiftB] {
		t.Error("missing qualification was not filled from defaults")
	}
	// 正式员工不受影响
	if regular.Qualifications != nil {
		t.Error("regular employee qualifications should stay nil")
	}
	// 无匹配年级的学徒不受影响
	if noDefaults.Qualifications != nil {
		t.Error("apprentice without matching year should stay nil")
	}
}
