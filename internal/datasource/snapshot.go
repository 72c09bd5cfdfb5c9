package datasource

import "time"

// ====== ENTITY TYPES ======

// ServerStatus describes one managed server at generation time.
// Status is always derived from CPU via the active thresholds and is
// never set independently of it.
type ServerStatus struct {
	ID     string
	Name   string
	Status ServerState
	CPU    float64 // percent, 0-100
	Memory float64 // percent, 0-100
	Disk   float64 // percent, 0-100
	Uptime string
}

type ServerState string

const (
	ServerOnline  ServerState = "online"
	ServerWarning ServerState = "warning"
	ServerOffline ServerState = "offline"
)

// ServiceStatus describes one monitored business service.
// Status follows ResponseTimeMS through the active thresholds.
type ServiceStatus struct {
	ID             string
	Name           string
	Status         ServiceState
	ResponseTimeMS float64
	UptimePct      float64
	LastCheck      time.Time
}

type ServiceState string

const (
	ServiceOperational ServiceState = "operational"
	ServiceDegraded    ServiceState = "degraded"
	ServiceOutage      ServiceState = "outage"
)

// Alert is a recent monitoring event shown on the realtime page.
type Alert struct {
	ID        string
	Type      AlertType
	Message   string
	Timestamp time.Time
	Source    string
}

type AlertType string

const (
	AlertCritical AlertType = "critical"
	AlertWarning  AlertType = "warning"
	AlertInfo     AlertType = "info"
)

// Ticket is a service-desk ticket. SLADeadline is nil for tickets
// without an SLA clock (already resolved, or informational).
type Ticket struct {
	ID          string
	Title       string
	Priority    Priority
	Status      string
	Assignee    string
	Created     time.Time
	Category    string
	SLADeadline *time.Time
}

type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Trend is the direction of an SLA statistic between reporting periods.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// CategorySLAStats aggregates SLA compliance for one ticket category.
// ComplianceRate is always round(OnTime/Total*100, 1).
type CategorySLAStats struct {
	Category         string
	OnTime           int
	Total            int
	ComplianceRate   float64
	AvgResponseHours float64
	ViolationCount   int
	Trend            Trend
}

// PrioritySLAStats aggregates SLA compliance for one priority bucket,
// with the same ComplianceRate invariant as CategorySLAStats.
type PrioritySLAStats struct {
	Priority       Priority
	OnTime         int
	Total          int
	ComplianceRate float64
	TargetHours    float64
	Trend          Trend
}

// EscalationEvent records a ticket moving between support tiers.
type EscalationEvent struct {
	ID        string
	TicketID  string
	Timestamp time.Time
	From      string
	To        string
	Reason    string
	Status    EscalationState
}

type EscalationState string

const (
	EscalationCompleted EscalationState = "completed"
	EscalationPending   EscalationState = "pending"
	EscalationCancelled EscalationState = "cancelled"
)

// AgentPerformance is one row of the analytics agent table.
type AgentPerformance struct {
	Name             string
	Resolved         int
	AvgResponseHours float64
	SatisfactionPct  float64
}

// MetricPoint is one labeled sample of a chart series.
type MetricPoint struct {
	Label string
	Value float64
}

// ====== SNAPSHOT ======

// Snapshot is one complete generation cycle of dashboard data. Every
// field is rebuilt wholesale each cycle; consumers must treat it as
// immutable.
type Snapshot struct {
	GeneratedAt time.Time
	TimeRange   TimeRange

	// SystemLoad is the headline metric, a whole percent. The refresh
	// scheduler compares it between cycles to detect no-op refreshes.
	SystemLoad float64

	Servers       []ServerStatus
	Services      []ServiceStatus
	Alerts        []Alert
	RiskTickets   []Ticket
	RecentTickets []Ticket
	CategorySLA   []CategorySLAStats
	PrioritySLA   []PrioritySLAStats
	Escalations   []EscalationEvent
	Agents        []AgentPerformance
	ResponseTrend []MetricPoint
	TicketVolume  []MetricPoint
}
