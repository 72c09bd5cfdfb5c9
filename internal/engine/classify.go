package engine

// ====== STATUS CLASSIFICATION ======

type Status string

const (
	StatusGood     Status = "good"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Thresholds holds the warning and critical boundaries for one metric.
// A value must strictly exceed a boundary to take its status.
type Thresholds struct {
	Warning  float64
	Critical float64
}

// Classify maps a metric value to a status. Critical is checked first;
// a value sitting exactly on a boundary does not exceed it, so
// Classify(80, Thresholds{60, 80}) is warning, not critical.
func Classify(value float64, t Thresholds) Status {
	if value > t.Critical {
		return StatusCritical
	}
	if value > t.Warning {
		return StatusWarning
	}
	return StatusGood
}
