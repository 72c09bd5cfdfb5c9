package flagger

// Thresholds defines warning and critical levels for a flag source.
type Thresholds struct {
	Warning  float64
	Critical float64
}

type Config struct {
	Load Thresholds
	// RiskDeadlineHours flags a snapshot when any open ticket's SLA
	// deadline is closer than this.
	RiskDeadlineHours float64
	// EscalationBacklog flags when this many escalations are pending.
	EscalationBacklog int
}

func DefaultConfig() Config {
	return Config{
		Load:              Thresholds{Warning: 60.0, Critical: 80.0},
		RiskDeadlineHours: 2.0,
		EscalationBacklog: 3,
	}
}
