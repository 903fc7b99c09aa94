// Package logger 提供基于 zerolog 的统一日志封装
package logger

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once sync.Once
	log  zerolog.Logger
)

// Config 日志配置
type Config struct {
	Level  string // debug, info, warn, error
	Pretty bool   // 控制台友好输出，生产环境使用 JSON
}

// Init 初始化全局日志器，重复调用无效
func Init(cfg Config) {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339
		zerolog.SetGlobalLevel(parseLevel(cfg.Level))

		var w = os.Stdout
		if cfg.Pretty {
			log = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
				With().Timestamp().Logger()
			return
		}
		log = zerolog.New(w).With().Timestamp().Logger()
	})
}

// Get 获取全局日志器
func Get() zerolog.Logger {
	once.Do(func() {
		log = zerolog.New(os.Stdout).With().Timestamp().Logger()
	})
	return log
}

// With 返回带组件名的日志器
func With(component string) zerolog.Logger {
	return Get().With().Str("component", component).Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// PlannerLogger 排班引擎专用日志器，记录生成过程中的关键事件
type PlannerLogger struct {
	l zerolog.Logger
}

// NewPlannerLogger 创建排班引擎日志器
func NewPlannerLogger() *PlannerLogger {
	return &PlannerLogger{l: With("planner")}
}

// StartPlan 记录计划生成开始
func (p *PlannerLogger) StartPlan(startDate, endDate string, employees, shiftTypes int) {
	p.l.Info().
		Str("start_date", startDate).
		Str("end_date", endDate).
		Int("employees", employees).
		Int("shift_types", shiftTypes).
		Msg("开始生成排班计划")
}

// UnfilledShift 记录未能填满的班次
func (p *PlannerLogger) UnfilledShift(shiftType, date string, missing int) {
	p.l.Warn().
		Str("shift_type", shiftType).
		Str("date", date).
		Int("missing", missing).
		Msg("班次人数不足")
}

// PlanComplete 记录计划生成完成
func (p *PlannerLogger) PlanComplete(assignments, conflicts int, elapsed time.Duration) {
	p.l.Info().
		Int("assignments", assignments).
		Int("conflicts", conflicts).
		Dur("elapsed", elapsed).
		Msg("排班计划生成完成")
}

// AuditComplete 记录计划审计完成
func (p *PlannerLogger) AuditComplete(violations int) {
	p.l.Info().
		Int("violations", violations).
		Msg("排班计划审计完成")
}
