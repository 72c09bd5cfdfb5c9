package engine

import (
	"time"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
)

// ====== THRESHOLD CONFIG ======

// Config carries the thresholds the dashboard classifies against.
type Config struct {
	Load       Thresholds
	CPU        Thresholds
	Memory     Thresholds
	Disk       Thresholds
	ResponseMS Thresholds
	// SLAAlert is the countdown window below which a deadline turns red.
	SLAAlert time.Duration
}

// DefaultConfig returns the stock thresholds used when no config file
// overrides them.
func DefaultConfig() Config {
	return Config{
		Load:       Thresholds{Warning: 60, Critical: 80},
		CPU:        Thresholds{Warning: 60, Critical: 80},
		Memory:     Thresholds{Warning: 70, Critical: 85},
		Disk:       Thresholds{Warning: 75, Critical: 90},
		ResponseMS: Thresholds{Warning: 35, Critical: 45},
		SLAAlert:   2 * time.Hour,
	}
}

// ====== EVALUATION ======

// CheckResult is one classified metric reading.
type CheckResult struct {
	Metric string
	Target string
	Value  float64
	Unit   string
	Status Status
}

// Evaluate classifies every headline and per-entity metric in a
// snapshot. The result order is stable: system load first, then
// servers in snapshot order, then services.
func Evaluate(snap *datasource.Snapshot, cfg Config) []CheckResult {
	if snap == nil {
		return nil
	}

	results := []CheckResult{{
		Metric: "system_load",
		Target: "console",
		Value:  snap.SystemLoad,
		Unit:   "%",
		Status: Classify(snap.SystemLoad, cfg.Load),
	}}

	for _, srv := range snap.Servers {
		results = append(results,
			CheckResult{Metric: "cpu", Target: srv.Name, Value: srv.CPU, Unit: "%", Status: Classify(srv.CPU, cfg.CPU)},
			CheckResult{Metric: "memory", Target: srv.Name, Value: srv.Memory, Unit: "%", Status: Classify(srv.Memory, cfg.Memory)},
			CheckResult{Metric: "disk", Target: srv.Name, Value: srv.Disk, Unit: "%", Status: Classify(srv.Disk, cfg.Disk)},
		)
	}

	for _, svc := range snap.Services {
		results = append(results, CheckResult{
			Metric: "response_time",
			Target: svc.Name,
			Value:  svc.ResponseTimeMS,
			Unit:   "ms",
			Status: Classify(svc.ResponseTimeMS, cfg.ResponseMS),
		})
	}

	return results
}
