package monitoring

import (
	"context"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type Metrics struct {
	mu              sync.RWMutex
	RequestCount    int64            `json:"request_count"`
	RequestDuration time.Duration    `json:"avg_request_duration_ms"`
	ActiveRequests  int64            `json:"active_requests"`
	ErrorCount      int64            `json:"error_count"`
	StatusCodes     map[string]int64 `json:"status_codes"`
	Endpoints       map[string]int64 `json:"endpoint_calls"`
	StartTime       time.Time        `json:"start_time"`
	LastRequest     time.Time        `json:"last_request"`
	totalDuration   time.Duration
}

var globalMetrics = &Metrics{
	StatusCodes: make(map[string]int64),
	Endpoints:   make(map[string]int64),
	StartTime:   time.Now(),
}

func (m *Metrics) begin() {
	m.mu.Lock()
	m.ActiveRequests++
	m.mu.Unlock()
}

func (m *Metrics) finish(endpoint string, status int, took time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ActiveRequests--
	m.RequestCount++
	m.totalDuration += took
	m.RequestDuration = m.totalDuration / time.Duration(m.RequestCount)
	m.LastRequest = time.Now()
	if status >= 400 {
		m.ErrorCount++
	}
	m.StatusCodes[http.StatusText(status)]++
	m.Endpoints[endpoint]++
}

// snapshot copies the counters so callers never see the maps mutate.
func (m *Metrics) snapshot() *Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := &Metrics{
		RequestCount:    m.RequestCount,
		RequestDuration: m.RequestDuration,
		ActiveRequests:  m.ActiveRequests,
		ErrorCount:      m.ErrorCount,
		StatusCodes:     make(map[string]int64, len(m.StatusCodes)),
		Endpoints:       make(map[string]int64, len(m.Endpoints)),
		StartTime:       m.StartTime,
		LastRequest:     m.LastRequest,
	}
	for k, v := range m.StatusCodes {
		out.StatusCodes[k] = v
	}
	for k, v := range m.Endpoints {
		out.Endpoints[k] = v
	}
	return out
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		globalMetrics.begin()

		c.Next()

		endpoint := c.Request.Method + " " + c.FullPath()
		globalMetrics.finish(endpoint, c.Writer.Status(), time.Since(start))
	}
}

func GetMetrics() *Metrics {
	return globalMetrics.snapshot()
}

type SystemMetrics struct {
	Uptime         string      `json:"uptime"`
	MemoryUsage    MemoryStats `json:"memory"`
	GoroutineCount int         `json:"goroutine_count"`
	CPUCount       int         `json:"cpu_count"`
	GoVersion      string      `json:"go_version"`
}

type MemoryStats struct {
	Alloc      uint64 `json:"alloc_mb"`
	TotalAlloc uint64 `json:"total_alloc_mb"`
	Sys        uint64 `json:"sys_mb"`
	NumGC      uint32 `json:"num_gc"`
}

func GetSystemMetrics() SystemMetrics {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	const mb = 1 << 20
	return SystemMetrics{
		Uptime: time.Since(globalMetrics.StartTime).String(),
		MemoryUsage: MemoryStats{
			Alloc:      ms.Alloc / mb,
			TotalAlloc: ms.TotalAlloc / mb,
			Sys:        ms.Sys / mb,
			NumGC:      ms.NumGC,
		},
		GoroutineCount: runtime.NumGoroutine(),
		CPUCount:       runtime.NumCPU(),
		GoVersion:      runtime.Version(),
	}
}

type HealthCheckFunc func(ctx context.Context) error

type HealthCheck struct {
	Name    string    `json:"name"`
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	LastRun time.Time `json:"last_run"`
}

var (
	healthMu     sync.RWMutex
	healthChecks = make(map[string]HealthCheckFunc)
)

func RegisterHealthCheck(name string, checkFunc HealthCheckFunc) {
	healthMu.Lock()
	defer healthMu.Unlock()
	healthChecks[name] = checkFunc
}

// RunHealthChecks executes every registered check with a short timeout.
func RunHealthChecks() map[string]HealthCheck {
	healthMu.RLock()
	funcs := make(map[string]HealthCheckFunc, len(healthChecks))
	for name, fn := range healthChecks {
		funcs[name] = fn
	}
	healthMu.RUnlock()

	results := make(map[string]HealthCheck, len(funcs))
	for name, fn := range funcs {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		check := HealthCheck{Name: name, Status: "healthy", LastRun: time.Now()}
		if err := fn(ctx); err != nil {
			check.Status = "unhealthy"
			check.Message = err.Error()
		}
		cancel()
		results[name] = check
	}
	return results
}

func MetricsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"application": GetMetrics(),
			"system":      GetSystemMetrics(),
			"timestamp":   time.Now(),
		})
	}
}

func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := RunHealthChecks()

		overall := "healthy"
		for _, check := range checks {
			if check.Status != "healthy" {
				overall = "unhealthy"
				break
			}
		}

		code := http.StatusOK
		if overall != "healthy" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    overall,
			"timestamp": time.Now(),
			"checks":    checks,
			"uptime":    time.Since(globalMetrics.StartTime).String(),
		})
	}
}
