// Package metrics 提供Prometheus文本格式的监控指标
package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// Registry 指标注册表
type Registry struct {
	counters   map[string]*Counter
	gauges     map[string]*Gauge
	histograms map[string]*Histogram
	mu         sync.RWMutex
}

// Counter 计数器
type Counter struct {
	Name   string
	Help   string
	Labels []string
	values map[string]float64
	mu     sync.RWMutex
}

// Gauge 仪表盘
type Gauge struct {
	Name   string
	Help   string
	Labels []string
	values map[string]float64
	mu     sync.RWMutex
}

// Histogram 直方图
type Histogram struct {
	Name    string
	Help    string
	Labels  []string
	Buckets []float64
	counts  map[string][]int
	sums    map[string]float64
	mu      sync.RWMutex
}

var (
	registry *Registry
	once     sync.Once
)

// GetRegistry 获取全局注册表
func GetRegistry() *Registry {
	once.Do(func() {
		registry = &Registry{
			counters:   make(map[string]*Counter),
			gauges:     make(map[string]*Gauge),
			histograms: make(map[string]*Histogram),
		}
		initDefaultMetrics()
	})
	return registry
}

// initDefaultMetrics 初始化默认指标
func initDefaultMetrics() {
	registry.NewCounter("shiftplan_http_requests_total", "HTTP请求总数", []string{"method", "path", "status"})

	registry.NewHistogram("shiftplan_http_request_duration_seconds", "HTTP请求延迟",
		[]string{"method", "path"},
		[]float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0})

	// 计划生成
	registry.NewCounter("shiftplan_plan_generation_total", "排班计划生成次数", []string{"status"})
	registry.NewHistogram("shiftplan_plan_generation_duration_seconds", "排班计划生成延迟",
		[]string{},
		[]float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0})
	registry.NewCounter("shiftplan_unfilled_shifts_total", "未填满的班次名额数", []string{})

	// 计划质量
	registry.NewGauge("shiftplan_coverage_rate", "班次覆盖率", []string{})
	registry.NewGauge("shiftplan_workload_gini", "工时分布基尼系数", []string{})

	registry.NewGauge("shiftplan_db_connections", "数据库连接数", []string{"state"})
}

// NewCounter 创建计数器
func (r *Registry) NewCounter(name, help string, labels []string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()

	counter := &Counter{
		Name:   name,
		Help:   help,
		Labels: labels,
		values: make(map[string]float64),
	}
	r.counters[name] = counter
	return counter
}

// NewGauge 创建仪表盘
func (r *Registry) NewGauge(name, help string, labels []string) *Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()

	gauge := &Gauge{
		Name:   name,
		Help:   help,
		Labels: labels,
		values: make(map[string]float64),
	}
	r.gauges[name] = gauge
	return gauge
}

// NewHistogram 创建直方图
func (r *Registry) NewHistogram(name, help string, labels []string, buckets []float64) *Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()

	histogram := &Histogram{
		Name:    name,
		Help:    help,
		Labels:  labels,
		Buckets: buckets,
		counts:  make(map[string][]int),
		sums:    make(map[string]float64),
	}
	r.histograms[name] = histogram
	return histogram
}

// GetCounter 获取计数器
func (r *Registry) GetCounter(name string) *Counter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counters[name]
}

// GetGauge 获取仪表盘
func (r *Registry) GetGauge(name string) *Gauge {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gauges[name]
}

// GetHistogram 获取直方图
func (r *Registry) GetHistogram(name string) *Histogram {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.histograms[name]
}

// Inc 增加计数
func (c *Counter) Inc(labelValues ...string) {
	c.Add(1, labelValues...)
}

// Add 增加指定值
func (c *Counter) Add(value float64, labelValues ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[labelKey(labelValues)] += value
}

// Set 设置值
func (g *Gauge) Set(value float64, labelValues ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.values[labelKey(labelValues)] = value
}

// Add 增加指定值
func (g *Gauge) Add(value float64, labelValues ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.values[labelKey(labelValues)] += value
}

// Observe 记录观测值
func (h *Histogram) Observe(value float64, labelValues ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := labelKey(labelValues)
	if _, exists := h.counts[key]; !exists {
		h.counts[key] = make([]int, len(h.Buckets)+1)
	}

	for i, bucket := range h.Buckets {
		if value <= bucket {
			h.counts[key][i]++
		}
	}
	h.counts[key][len(h.Buckets)]++ // +Inf bucket

	h.sums[key] += value
}

// labelKey 生成标签键
func labelKey(labels []string) string {
	return strings.Join(labels, ",")
}

// formatLabels 格式化标签对
func formatLabels(names []string, key string) string {
	vals := strings.Split(key, ",")
	pairs := make([]string, 0, len(names))
	for i, name := range names {
		val := ""
		if i < len(vals) {
			val = vals[i]
		}
		pairs = append(pairs, fmt.Sprintf("%s=%q", name, val))
	}
	return strings.Join(pairs, ",")
}

// Handler 返回Prometheus格式的指标HTTP处理器
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		reg := GetRegistry()
		reg.mu.RLock()
		defer reg.mu.RUnlock()

		for _, name := range sortedNames(reg.counters) {
			counter := reg.counters[name]
			fmt.Fprintf(w, "# HELP %s %s\n", counter.Name, counter.Help)
			fmt.Fprintf(w, "# TYPE %s counter\n", counter.Name)

			counter.mu.RLock()
			for key, value := range counter.values {
				writeSample(w, counter.Name, counter.Labels, key, value)
			}
			counter.mu.RUnlock()
		}

		for _, name := range sortedNames(reg.gauges) {
			gauge := reg.gauges[name]
			fmt.Fprintf(w, "# HELP %s %s\n", gauge.Name, gauge.Help)
			fmt.Fprintf(w, "# TYPE %s gauge\n", gauge.Name)

			gauge.mu.RLock()
			for key, value := range gauge.values {
				writeSample(w, gauge.Name, gauge.Labels, key, value)
			}
			gauge.mu.RUnlock()
		}

		for _, name := range sortedNames(reg.histograms) {
			h := reg.histograms[name]
			fmt.Fprintf(w, "# HELP %s %s\n", h.Name, h.Help)
			fmt.Fprintf(w, "# TYPE %s histogram\n", h.Name)

			h.mu.RLock()
			for key, counts := range h.counts {
				cumulative := 0
				for i, bucket := range h.Buckets {
					cumulative += counts[i]
					writeBucket(w, h.Name, h.Labels, key, fmt.Sprintf("%g", bucket), cumulative)
				}
				cumulative += counts[len(h.Buckets)]
				writeBucket(w, h.Name, h.Labels, key, "+Inf", cumulative)
				writeSample(w, h.Name+"_sum", h.Labels, key, h.sums[key])
				writeSample(w, h.Name+"_count", h.Labels, key, float64(cumulative))
			}
			h.mu.RUnlock()
		}
	})
}

func writeSample(w http.ResponseWriter, name string, labels []string, key string, value float64) {
	if key == "" {
		fmt.Fprintf(w, "%s %f\n", name, value)
		return
	}
	fmt.Fprintf(w, "%s{%s} %f\n", name, formatLabels(labels, key), value)
}

func writeBucket(w http.ResponseWriter, name string, labels []string, key, le string, count int) {
	if key == "" {
		fmt.Fprintf(w, "%s_bucket{le=%q} %d\n", name, le, count)
		return
	}
	fmt.Fprintf(w, "%s_bucket{%s,le=%q} %d\n", name, formatLabels(labels, key), le, count)
}

func sortedNames[M ~map[string]V, V any](m M) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RecordRequestMetrics 记录HTTP请求指标
func RecordRequestMetrics(method, path string, status int, duration time.Duration) {
	reg := GetRegistry()

	if counter := reg.GetCounter("shiftplan_http_requests_total"); counter != nil {
		counter.Inc(method, path, fmt.Sprintf("%d", status))
	}
	if histogram := reg.GetHistogram("shiftplan_http_request_duration_seconds"); histogram != nil {
		histogram.Observe(duration.Seconds(), method, path)
	}
}

// RecordPlanGeneration 记录计划生成指标
func RecordPlanGeneration(success bool, unfilled int, duration time.Duration) {
	reg := GetRegistry()

	status := "success"
	if !success {
		status = "failure"
	}
	if counter := reg.GetCounter("shiftplan_plan_generation_total"); counter != nil {
		counter.Inc(status)
	}
	if counter := reg.GetCounter("shiftplan_unfilled_shifts_total"); counter != nil {
		counter.Add(float64(unfilled))
	}
	if histogram := reg.GetHistogram("shiftplan_plan_generation_duration_seconds"); histogram != nil {
		histogram.Observe(duration.Seconds())
	}
}

// SetCoverageRate 设置班次覆盖率
func SetCoverageRate(rate float64) {
	if gauge := GetRegistry().GetGauge("shiftplan_coverage_rate"); gauge != nil {
		gauge.Set(rate)
	}
}

// SetDBConnections 设置数据库连接池指标
func SetDBConnections(inUse, idle int) {
	if gauge := GetRegistry().GetGauge("shiftplan_db_connections"); gauge != nil {
		gauge.Set(float64(inUse), "in_use")
		gauge.Set(float64(idle), "idle")
	}
}

// SetWorkloadGini 设置工时分布基尼系数
func SetWorkloadGini(gini float64) {
	if gauge := GetRegistry().GetGauge("shiftplan_workload_gini"); gauge != nil {
		gauge.Set(gini)
	}
}
