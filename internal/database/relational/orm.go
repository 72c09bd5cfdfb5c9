// Lightweight "ORM-ish" layer (schema + repo methods) for storing
// dashboard snapshots in DuckDB.
//
// Notes:
//   - DuckDB is columnar and loves wide fact tables + append-only inserts.
//   - The hot snapshot scalars live in one fact table; variable-length
//     collections (servers, services, SLA buckets, tickets) go to child
//     tables keyed by snapshot_id.
//
// Driver: github.com/marcboeker/go-duckdb
package relational

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/output"
)

// =============================================================================
// SCHEMA SQL
// =============================================================================

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS snapshots (
  snapshot_id        BIGINT PRIMARY KEY,
  generated_at       TIMESTAMP NOT NULL,
  time_range         VARCHAR NOT NULL,
  system_load        DOUBLE,

  server_count       INTEGER,
  service_count      INTEGER,
  alert_count        INTEGER,
  risk_ticket_count  INTEGER,

  severity_level     INTEGER,
  risk_score         INTEGER,
  explanation        VARCHAR,

  flag_load_critical       BOOLEAN,
  flag_server_offline      BOOLEAN,
  flag_service_outage      BOOLEAN,
  flag_sla_breach_risk     BOOLEAN,
  flag_escalation_backlog  BOOLEAN,

  created_at         TIMESTAMP NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS snapshot_servers (
  snapshot_id  BIGINT NOT NULL,
  server_id    VARCHAR NOT NULL,
  name         VARCHAR NOT NULL,
  status       VARCHAR,
  cpu_pct      DOUBLE,
  memory_pct   DOUBLE,
  disk_pct     DOUBLE,
  PRIMARY KEY(snapshot_id, server_id)
);

CREATE TABLE IF NOT EXISTS snapshot_services (
  snapshot_id      BIGINT NOT NULL,
  service_id       VARCHAR NOT NULL,
  name             VARCHAR NOT NULL,
  status           VARCHAR,
  response_time_ms DOUBLE,
  uptime_pct       DOUBLE,
  PRIMARY KEY(snapshot_id, service_id)
);

CREATE TABLE IF NOT EXISTS snapshot_sla_category (
  snapshot_id        BIGINT NOT NULL,
  category           VARCHAR NOT NULL,
  on_time            INTEGER,
  total              INTEGER,
  compliance_rate    DOUBLE,
  avg_response_hours DOUBLE,
  violation_count    INTEGER,
  trend              VARCHAR,
  PRIMARY KEY(snapshot_id, category)
);

CREATE TABLE IF NOT EXISTS snapshot_sla_priority (
  snapshot_id     BIGINT NOT NULL,
  priority        VARCHAR NOT NULL,
  on_time         INTEGER,
  total           INTEGER,
  compliance_rate DOUBLE,
  target_hours    DOUBLE,
  trend           VARCHAR,
  PRIMARY KEY(snapshot_id, priority)
);

CREATE TABLE IF NOT EXISTS snapshot_tickets (
  snapshot_id  BIGINT NOT NULL,
  ticket_id    VARCHAR NOT NULL,
  kind         VARCHAR NOT NULL,
  title        VARCHAR,
  priority     VARCHAR,
  status       VARCHAR,
  assignee     VARCHAR,
  category     VARCHAR,
  opened_at    TIMESTAMP,
  sla_deadline TIMESTAMP,
  PRIMARY KEY(snapshot_id, ticket_id)
);
`

// =============================================================================
// REPO IMPLEMENTATION
// =============================================================================

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Close() error {
	return r.db.Close()
}

func (r *Repo) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, SchemaSQL)
	return err
}

// NewID generates a unique ID (time-based).
func NewID() int64 {
	return time.Now().UnixNano()
}

// InsertSnapshot persists one pipeline payload: the fact row plus all
// child collections, in a single transaction.
func (r *Repo) InsertSnapshot(ctx context.Context, p *output.PipelinePayload) (int64, error) {
	snap := p.Snapshot
	f := p.Flags

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	snapshotID := NewID()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots(
		  snapshot_id, generated_at, time_range, system_load,
		  server_count, service_count, alert_count, risk_ticket_count,
		  severity_level, risk_score, explanation,
		  flag_load_critical, flag_server_offline, flag_service_outage,
		  flag_sla_breach_risk, flag_escalation_backlog
		) VALUES (?,?,?,?, ?,?,?,?, ?,?,?, ?,?,?,?,?)
	`,
		snapshotID, snap.GeneratedAt, string(snap.TimeRange), nullFloat(snap.SystemLoad),
		len(snap.Servers), len(snap.Services), len(snap.Alerts), len(snap.RiskTickets),
		f.SeverityLevel, f.RiskScore, nullStr(f.Explanation),
		f.FlagLoadCritical, f.FlagServerOffline, f.FlagServiceOutage,
		f.FlagSLABreachRisk, f.FlagEscalationBacklog,
	)
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}

	if err := insertChildrenTx(ctx, tx, snapshotID, p); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return snapshotID, nil
}

func insertChildrenTx(ctx context.Context, tx *sql.Tx, snapshotID int64, p *output.PipelinePayload) error {
	snap := p.Snapshot

	if len(snap.Servers) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_servers(snapshot_id, server_id, name, status, cpu_pct, memory_pct, disk_pct) VALUES(?,?,?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, s := range snap.Servers {
			if _, err := stmt.ExecContext(ctx, snapshotID, s.ID, s.Name, string(s.Status), nullFloat(s.CPU), nullFloat(s.Memory), nullFloat(s.Disk)); err != nil {
				return fmt.Errorf("insert server %s: %w", s.ID, err)
			}
		}
	}

	if len(snap.Services) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_services(snapshot_id, service_id, name, status, response_time_ms, uptime_pct) VALUES(?,?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, s := range snap.Services {
			if _, err := stmt.ExecContext(ctx, snapshotID, s.ID, s.Name, string(s.Status), nullFloat(s.ResponseTimeMS), nullFloat(s.UptimePct)); err != nil {
				return fmt.Errorf("insert service %s: %w", s.ID, err)
			}
		}
	}

	if len(snap.CategorySLA) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_sla_category(snapshot_id, category, on_time, total, compliance_rate, avg_response_hours, violation_count, trend) VALUES(?,?,?,?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, c := range snap.CategorySLA {
			if _, err := stmt.ExecContext(ctx, snapshotID, c.Category, c.OnTime, c.Total, c.ComplianceRate, nullFloat(c.AvgResponseHours), c.ViolationCount, string(c.Trend)); err != nil {
				return fmt.Errorf("insert sla category %s: %w", c.Category, err)
			}
		}
	}

	if len(snap.PrioritySLA) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_sla_priority(snapshot_id, priority, on_time, total, compliance_rate, target_hours, trend) VALUES(?,?,?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, pr := range snap.PrioritySLA {
			if _, err := stmt.ExecContext(ctx, snapshotID, string(pr.Priority), pr.OnTime, pr.Total, pr.ComplianceRate, nullFloat(pr.TargetHours), string(pr.Trend)); err != nil {
				return fmt.Errorf("insert sla priority %s: %w", pr.Priority, err)
			}
		}
	}

	tickets := make([]ticketRow, 0, len(snap.RiskTickets)+len(snap.RecentTickets))
	for _, t := range snap.RiskTickets {
		tickets = append(tickets, ticketRow{t: t, kind: "risk"})
	}
	for _, t := range snap.RecentTickets {
		tickets = append(tickets, ticketRow{t: t, kind: "recent"})
	}
	if len(tickets) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_tickets(snapshot_id, ticket_id, kind, title, priority, status, assignee, category, opened_at, sla_deadline) VALUES(?,?,?,?,?,?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, row := range tickets {
			t := row.t
			var deadline any
			if t.SLADeadline != nil {
				deadline = *t.SLADeadline
			}
			if _, err := stmt.ExecContext(ctx, snapshotID, t.ID, row.kind, t.Title, string(t.Priority), t.Status, t.Assignee, t.Category, t.Created, deadline); err != nil {
				return fmt.Errorf("insert ticket %s: %w", t.ID, err)
			}
		}
	}

	return nil
}

type ticketRow struct {
	t    datasource.Ticket
	kind string
}

// =============================================================================
// NULL HELPERS
// =============================================================================

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
