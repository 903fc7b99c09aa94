package model

import (
	"github.com/google/uuid"
)

// RuleKind 排班规则类型
type RuleKind string

const (
	// RuleForbiddenSequence 禁止班种顺序：员工承担 From 班种后
	// DaysApart 天内不得承担 To 班种
	RuleForbiddenSequence RuleKind = "forbidden_sequence"
)

// ShiftRule 排班规则
// 规则不参与计划生成，仅由计划审计器评估
type ShiftRule struct {
	BaseModel
	Name            string     `json:"name" db:"name"`
	Kind            RuleKind   `json:"kind" db:"kind"`
	FromShiftTypeID *uuid.UUID `json:"from_shift_type_id,omitempty" db:"from_shift_type_id"`
	ToShiftTypeID   *uuid.UUID `json:"to_shift_type_id,omitempty" db:"to_shift_type_id"`
	DaysApart       int        `json:"days_apart,omitempty" db:"days_apart"` // 默认 1（次日）
}
