package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestShiftType_DurationHours(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected float64
	}{
		{name: "普通白班", start: "08:00", end: "17:00", expected: 9},
		{name: "半小时粒度", start: "08:30", end: "12:00", expected: 3.5},
		{name: "跨夜班", start: "22:00", end: "06:00", expected: 8},
		{name: "结束等于开始视为24小时", start: "08:00", end: "08:00", expected: 24},
		{name: "非法开始时刻", start: "8am", end: "17:00", expected: 0},
		{name: "非法结束时刻", start: "08:00", end: "25:00", expected: 0},
		{name: "空时刻", start: "", end: "", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &ShiftType{StartTime: tt.start, EndTime: tt.end}
			if got := st.DurationHours(); got != tt.expected {
				t.Errorf("DurationHours() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestShiftType_DayPart(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		expected DayPart
	}{
		{name: "早班", start: "06:00", expected: DayPartAM},
		{name: "临界11:59", start: "11:59", expected: DayPartAM},
		{name: "正午归下午", start: "12:00", expected: DayPartPM},
		{name: "晚班", start: "22:00", expected: DayPartPM},
		{name: "非法时刻归下午", start: "bad", expected: DayPartPM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &ShiftType{StartTime: tt.start, EndTime: "23:00"}
			if got := st.DayPart(); got != tt.expected {
				t.Errorf("DayPart() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestShiftType_RequiredOn(t *testing.T) {
	st := &ShiftType{RequiredPersonnel: map[string]int{"monday": 2, "saturday": 1}}

	if got := st.RequiredOn("monday"); got != 2 {
		t.Errorf("RequiredOn(monday) = %d, expected 2", got)
	}
	// 缺失键视为 0
	if got := st.RequiredOn("sunday"); got != 0 {
		t.Errorf("RequiredOn(sunday) = %d, expected 0", got)
	}
}

func TestWeekdayName(t *testing.T) {
	tests := []struct {
		date     string
		expected string
	}{
		{date: "2026-01-05", expected: "monday"},
		{date: "2026-01-09", expected: "friday"},
		{date: "2026-01-10", expected: "saturday"},
		{date: "2026-01-11", expected: "sunday"},
	}

	for _, tt := range tests {
		day, err := time.Parse("2006-01-02", tt.date)
		if err != nil {
			t.Fatalf("parse %s: %v", tt.date, err)
		}
		if got := WeekdayName(day); got != tt.expected {
			t.Errorf("WeekdayName(%s) = %s, expected %s", tt.date, got, tt.expected)
		}
	}
}

func TestAbsence_Covers(t *testing.T) {
	ab := &Absence{
		EmployeeID: uuid.New(),
		StartDate:  "2026-01-05",
		EndDate:    "2026-01-07",
	}

	tests := []struct {
		name     string
		date     string
		expected bool
	}{
		{name: "区间前", date: "2026-01-04", expected: false},
		{name: "起始日", date: "2026-01-05", expected: true},
		{name: "区间内", date: "2026-01-06", expected: true},
		{name: "结束日", date: "2026-01-07", expected: true},
		{name: "区间后", date: "2026-01-08", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ab.Covers(tt.date); got != tt.expected {
				t.Errorf("Covers(%s) = %v, expected %v", tt.date, got, tt.expected)
			}
		})
	}
}

func TestDateRange_Days(t *testing.T) {
	r := DateRange{StartDate: "2026-01-30", EndDate: "2026-02-02"}
	days := r.Days()

	expected := []string{"2026-01-30", "2026-01-31", "2026-02-01", "2026-02-02"}
	if len(days) != len(expected) {
		t.Fatalf("Days() returned %d days, expected %d", len(days), len(expected))
	}
	for i, d := range expected {
		if days[i] != d {
			t.Errorf("Days()[%d] = %s, expected %s", i, days[i], d)
		}
	}

	// 单日区间
	single := DateRange{StartDate: "2026-01-05", EndDate: "2026-01-05"}
	if got := single.Days(); len(got) != 1 || got[0] != "2026-01-05" {
		t.Errorf("Days() for single day = %v", got)
	}

	// 非法日期
	bad := DateRange{StartDate: "not-a-date", EndDate: "2026-01-05"}
	if got := bad.Days(); got != nil {
		t.Errorf("Days() for invalid range = %v, expected nil", got)
	}
}
