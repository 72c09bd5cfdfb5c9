package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/output"
)

// GraphClient defines the interface for graph database operations.
type GraphClient interface {
	Close(ctx context.Context) error
	Reset(ctx context.Context) error
	IngestSnapshot(ctx context.Context, payload *output.PipelinePayload) error
	ExecuteCypher(ctx context.Context, query string) ([]map[string]any, error)
}

// Neo4jClient implements GraphClient for Neo4j.
type Neo4jClient struct {
	driver neo4j.DriverWithContext
	dbName string
}

// NewNeo4jClient creates a new Neo4j client.
func NewNeo4jClient(uri, username, password, dbName string) (*Neo4jClient, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	return &Neo4jClient{
		driver: driver,
		dbName: dbName,
	}, nil
}

func (c *Neo4jClient) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Reset deletes all data in the graph.
func (c *Neo4jClient) Reset(ctx context.Context) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.dbName})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, "MATCH (n) DETACH DELETE n", nil)
	})
	return err
}

// ExecuteCypher runs a read-only Cypher query and lowers the result
// records into plain maps, so callers can hand them straight to a JSON
// encoder without knowing driver types.
func (c *Neo4jClient) ExecuteCypher(ctx context.Context, query string) ([]map[string]any, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.dbName})
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}

		rows := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			row := make(map[string]any, len(rec.Keys))
			for i, key := range rec.Keys {
				row[key] = plainValue(rec.Values[i])
			}
			rows = append(rows, row)
		}
		return rows, nil
	})
	if err != nil {
		return nil, fmt.Errorf("cypher query: %w", err)
	}

	return out.([]map[string]any), nil
}

// plainValue recursively strips driver entity types down to maps,
// slices and scalars.
func plainValue(val any) any {
	switch v := val.(type) {
	case neo4j.Node:
		return map[string]any{
			"id":         v.ElementId,
			"labels":     v.Labels,
			"properties": v.Props,
		}
	case neo4j.Relationship:
		return map[string]any{
			"type":       v.Type,
			"startNode":  v.StartElementId,
			"endNode":    v.EndElementId,
			"properties": v.Props,
		}
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = plainValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = plainValue(item)
		}
		return out
	default:
		return v
	}
}

// IngestSnapshot pushes the pipeline payload into the graph: one
// Snapshot node, observation edges to the Server and Service estate,
// at-risk tickets linked to their category, and the triggered flags.
func (c *Neo4jClient) IngestSnapshot(ctx context.Context, payload *output.PipelinePayload) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.dbName})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		snapID, err := createSnapshot(ctx, tx, payload)
		if err != nil {
			return nil, err
		}
		if err := observeServers(ctx, tx, snapID, payload.Snapshot.Servers); err != nil {
			return nil, err
		}
		if err := observeServices(ctx, tx, snapID, payload.Snapshot.Services); err != nil {
			return nil, err
		}
		if err := linkRiskTickets(ctx, tx, snapID, payload.Snapshot.RiskTickets); err != nil {
			return nil, err
		}
		if err := createFlags(ctx, tx, snapID, payload); err != nil {
			return nil, err
		}
		return nil, nil
	})

	return err
}

func createSnapshot(ctx context.Context, tx neo4j.ManagedTransaction, p *output.PipelinePayload) (string, error) {
	query := `
		CREATE (s:Snapshot {
			generated_at: $generated_at,
			time_range: $time_range,
			system_load: $system_load,
			severity_level: $severity,
			risk_score: $risk_score,
			explanation: $explanation
		})
		RETURN elementId(s)
	`
	params := map[string]any{
		"generated_at": p.Snapshot.GeneratedAt.Format(time.RFC3339),
		"time_range":   string(p.Snapshot.TimeRange),
		"system_load":  p.Snapshot.SystemLoad,
		"severity":     p.Flags.SeverityLevel,
		"risk_score":   p.Flags.RiskScore,
		"explanation":  p.Flags.Explanation,
	}

	res, err := tx.Run(ctx, query, params)
	if err != nil {
		return "", err
	}
	rec, err := res.Single(ctx)
	if err != nil {
		return "", err
	}
	return rec.Values[0].(string), nil
}

func observeServers(ctx context.Context, tx neo4j.ManagedTransaction, snapID string, servers []datasource.ServerStatus) error {
	for _, srv := range servers {
		query := `
			MATCH (s:Snapshot) WHERE elementId(s) = $snap_id
			MERGE (h:Server {server_id: $server_id})
			SET h.name = $name
			CREATE (s)-[:OBSERVED_SERVER {
				status: $status,
				cpu_pct: $cpu, memory_pct: $mem, disk_pct: $disk
			}]->(h)
		`
		params := map[string]any{
			"snap_id":   snapID,
			"server_id": srv.ID,
			"name":      srv.Name,
			"status":    string(srv.Status),
			"cpu":       srv.CPU,
			"mem":       srv.Memory,
			"disk":      srv.Disk,
		}
		if _, err := tx.Run(ctx, query, params); err != nil {
			return err
		}
	}
	return nil
}

func observeServices(ctx context.Context, tx neo4j.ManagedTransaction, snapID string, services []datasource.ServiceStatus) error {
	for _, svc := range services {
		query := `
			MATCH (s:Snapshot) WHERE elementId(s) = $snap_id
			MERGE (v:Service {service_id: $service_id})
			SET v.name = $name
			CREATE (s)-[:OBSERVED_SERVICE {
				status: $status,
				response_time_ms: $resp,
				uptime_pct: $uptime
			}]->(v)
		`
		params := map[string]any{
			"snap_id":    snapID,
			"service_id": svc.ID,
			"name":       svc.Name,
			"status":     string(svc.Status),
			"resp":       svc.ResponseTimeMS,
			"uptime":     svc.UptimePct,
		}
		if _, err := tx.Run(ctx, query, params); err != nil {
			return err
		}
	}
	return nil
}

func linkRiskTickets(ctx context.Context, tx neo4j.ManagedTransaction, snapID string, tickets []datasource.Ticket) error {
	for _, tk := range tickets {
		var deadline string
		if tk.SLADeadline != nil {
			deadline = tk.SLADeadline.Format(time.RFC3339)
		}
		query := `
			MATCH (s:Snapshot) WHERE elementId(s) = $snap_id
			MERGE (t:Ticket {ticket_id: $ticket_id})
			SET t.title = $title, t.priority = $priority, t.sla_deadline = $deadline
			MERGE (c:Category {name: $category})
			MERGE (t)-[:IN_CATEGORY]->(c)
			CREATE (s)-[:AT_RISK]->(t)
		`
		params := map[string]any{
			"snap_id":   snapID,
			"ticket_id": tk.ID,
			"title":     tk.Title,
			"priority":  string(tk.Priority),
			"deadline":  deadline,
			"category":  tk.Category,
		}
		if _, err := tx.Run(ctx, query, params); err != nil {
			return err
		}
	}
	return nil
}

func createFlags(ctx context.Context, tx neo4j.ManagedTransaction, snapID string, p *output.PipelinePayload) error {
	flagMap := map[string]bool{
		"load_critical":      p.Flags.FlagLoadCritical,
		"server_offline":     p.Flags.FlagServerOffline,
		"service_outage":     p.Flags.FlagServiceOutage,
		"sla_breach_risk":    p.Flags.FlagSLABreachRisk,
		"escalation_backlog": p.Flags.FlagEscalationBacklog,
	}

	for name, triggered := range flagMap {
		if !triggered {
			continue
		}
		query := `
			MATCH (s:Snapshot) WHERE elementId(s) = $snap_id
			MERGE (f:Flag {name: $name})
			CREATE (s)-[:TRIGGERED]->(f)
		`
		if _, err := tx.Run(ctx, query, map[string]any{"snap_id": snapID, "name": name}); err != nil {
			return err
		}
	}
	return nil
}
