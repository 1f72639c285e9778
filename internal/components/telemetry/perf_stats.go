package telemetry

import (
	"context"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

var meter = otel.Meter("go.perf_stats")
var cpuGauge, _ = meter.Float64Gauge("cpu_usage")
var memoryGauge, _ = meter.Int64Gauge("allocated_mb")
var goroutineGauge, _ = meter.Int64Gauge("goroutine_count")

type PerfStats struct {
	// system wide, since the previous sample. -1 when it could not be read
	CpuPercent float64
	AllocMb    int64
	Goroutines int
}

// SamplePerfStats reads the current process stats once and records them as
// gauges.
func SamplePerfStats(ctx context.Context) PerfStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := PerfStats{
		CpuPercent: -1,
		AllocMb:    int64(memStats.Alloc / 1_000_000),
		Goroutines: runtime.NumGoroutine(),
	}
	usage, err := cpu.PercentWithContext(ctx, 0, false)
	if err == nil && len(usage) > 0 {
		stats.CpuPercent = usage[0]
		cpuGauge.Record(ctx, stats.CpuPercent)
	}
	memoryGauge.Record(ctx, stats.AllocMb)
	goroutineGauge.Record(ctx, int64(stats.Goroutines))
	return stats
}
