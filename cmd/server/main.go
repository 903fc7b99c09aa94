// ShiftPlan 排班计划服务
// 主程序入口

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/shiftplan/shiftplan/internal/config"
	"github.com/shiftplan/shiftplan/internal/database"
	"github.com/shiftplan/shiftplan/internal/handler"
	"github.com/shiftplan/shiftplan/internal/metrics"
	"github.com/shiftplan/shiftplan/internal/repository"
	"github.com/shiftplan/shiftplan/pkg/logger"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Pretty: cfg.IsDevelopment(),
	})
	log := logger.Get()

	fmt.Printf("ShiftPlan 排班计划服务 v%s\n", Version)
	fmt.Printf("Build: %s (%s)\n", BuildTime, GitCommit)
	fmt.Println()

	// 连接数据库；失败时降级运行，仅无状态端点可用
	var db *database.DB
	if d, err := database.New(&cfg.Database); err != nil {
		log.Warn().Err(err).Msg("数据库连接失败，持久化端点不可用")
	} else {
		db = d
		defer db.Close()

		// 定期上报连接池状态
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for range ticker.C {
				s := db.Stats()
				metrics.SetDBConnections(s.InUse, s.Idle)
			}
		}()
	}

	// 创建处理器
	var planRepo *repository.PlanRepository
	if db != nil {
		planRepo = repository.NewPlanRepository(db)
	}
	planHandler := handler.NewPlanHandler(planRepo)
	statsHandler := handler.NewStatsHandler()
	transferHandler := handler.NewTransferHandler(db)

	mux := http.NewServeMux()

	// ========================================
	// 系统端点
	// ========================================

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		dbStatus := "disconnected"
		if db != nil {
			if err := db.Health(r.Context()); err == nil {
				dbStatus = "ok"
			} else {
				dbStatus = "error"
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":%q,"service":"shiftplan","database":%q}`, status, dbStatus)
	})

	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"version":"%s","build_time":"%s","git_commit":"%s"}`, Version, BuildTime, GitCommit)
	})

	// ========================================
	// API v1 端点
	// ========================================

	mux.HandleFunc("/api/v1/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"message": "ShiftPlan 排班计划 API v1",
			"endpoints": {
				"plan": {
					"generate": "POST /api/v1/plan/generate",
					"audit": "POST /api/v1/plan/audit",
					"get": "GET /api/v1/plan/get?id=",
					"list": "GET /api/v1/plan/list"
				},
				"stats": {
					"workload": "POST /api/v1/stats/workload",
					"coverage": "POST /api/v1/stats/coverage"
				},
				"transfer": {
					"export": "GET /api/v1/transfer/export",
					"import": "POST /api/v1/transfer/import"
				}
			}
		}`))
	})

	// 计划生成与审计
	mux.HandleFunc("/api/v1/plan/generate", planHandler.Generate)
	mux.HandleFunc("/api/v1/plan/audit", planHandler.Audit)
	mux.HandleFunc("/api/v1/plan/get", planHandler.GetPlan)
	mux.HandleFunc("/api/v1/plan/list", planHandler.ListPlans)

	// 统计分析
	mux.HandleFunc("/api/v1/stats/workload", statsHandler.Workload)
	mux.HandleFunc("/api/v1/stats/coverage", statsHandler.Coverage)

	// 数据导入导出
	mux.HandleFunc("/api/v1/transfer/export", transferHandler.Export)
	mux.HandleFunc("/api/v1/transfer/import", transferHandler.Import)

	// Prometheus 指标端点
	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	// 中间件执行顺序：requestID -> rateLimit -> cors -> logging -> handler
	rl := newRateLimiter(float64(cfg.API.RateLimit))
	root := requestIDMiddleware(rateLimitMiddleware(rl, corsMiddleware(loggingMiddleware(mux))))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      root,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().
			Int("port", cfg.App.Port).
			Str("version", Version).
			Str("env", cfg.App.Env).
			Msg("服务器启动")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("服务器启动失败")
			os.Exit(1)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("服务器关闭失败")
		os.Exit(1)
	}

	log.Info().Msg("服务器已关闭")
}

// requestIDMiddleware 请求ID追踪中间件
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type requestIDKey struct{}

// loggingMiddleware 日志中间件
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID, _ := r.Context().Value(requestIDKey{}).(string)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)

		reqLog := logger.Get()
		reqLog.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.statusCode).
			Dur("duration", duration).
			Msg("请求处理")

		metrics.RecordRequestMetrics(r.Method, r.URL.Path, rw.statusCode, duration)
	})
}

// responseWriter 包装ResponseWriter以捕获状态码
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// rateLimiter 简单的令牌桶限流器
type rateLimiter struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // 每秒添加的令牌数
	lastRefill time.Time
	mu         sync.Mutex
}

func newRateLimiter(requestsPerSecond float64) *rateLimiter {
	return &rateLimiter{
		tokens:     requestsPerSecond,
		maxTokens:  requestsPerSecond * 2, // 允许突发流量
		refillRate: requestsPerSecond,
		lastRefill: time.Now(),
	}
}

func (rl *rateLimiter) allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.tokens += elapsed * rl.refillRate
	if rl.tokens > rl.maxTokens {
		rl.tokens = rl.maxTokens
	}
	rl.lastRefill = now

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// rateLimitMiddleware 限流中间件
func rateLimitMiddleware(rl *rateLimiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow() {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":   true,
				"code":    "RATE_LIMITED",
				"message": "请求过于频繁，请稍后重试",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware CORS中间件
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
