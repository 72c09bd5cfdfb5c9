// Package advisor answers operator questions about the service estate
// by retrieving context from the topology graph and synthesizing an
// answer with Gemini.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/database/graph"
)

// ModelConfig defines configuration for a Gemini model.
type ModelConfig struct {
	Name        string
	Temperature float32
	TopP        float32
	TopK        int32
}

// AvailableModels defines the available Gemini models and their configurations.
var AvailableModels = map[string]ModelConfig{
	"flash": {
		Name:        "gemini-flash-latest",
		Temperature: 0.7,
		TopP:        0.95,
		TopK:        40,
	},
	"pro": {
		Name:        "gemini-pro-latest",
		Temperature: 0.7,
		TopP:        0.95,
		TopK:        40,
	},
	"flash-2": {
		Name:        "gemini-2.0-flash",
		Temperature: 0.7,
		TopP:        0.95,
		TopK:        40,
	},
	"experimental": {
		Name:        "gemini-2.0-flash-exp",
		Temperature: 0.7,
		TopP:        0.95,
		TopK:        40,
	},
}

// Engine handles retrieval augmented generation over the ops graph.
type Engine struct {
	graphClient  graph.GraphClient
	geminiClient *genai.Client
	modelName    string
	config       ModelConfig
}

// NewEngine constructs an advisor backed by the provided graph client.
func NewEngine(gc graph.GraphClient, gemini *genai.Client, modelKey string) *Engine {
	if modelKey == "" {
		modelKey = "pro"
	}
	config, ok := AvailableModels[modelKey]
	if !ok {
		config = AvailableModels["pro"]
	}

	return &Engine{
		graphClient:  gc,
		geminiClient: gemini,
		modelName:    config.Name,
		config:       config,
	}
}

func (e *Engine) getModel() *genai.GenerativeModel {
	model := e.geminiClient.GenerativeModel(e.modelName)
	model.SetTemperature(e.config.Temperature)
	model.SetTopP(e.config.TopP)
	model.SetTopK(e.config.TopK)
	return model
}

// Query answers a natural-language question: generate Cypher, pull the
// relevant subgraph, synthesize.
func (e *Engine) Query(ctx context.Context, question string) (string, error) {
	cypher, err := e.generateCypher(ctx, question)
	if err != nil {
		return "", fmt.Errorf("failed to generate cypher: %w", err)
	}

	graphData, err := e.graphClient.ExecuteCypher(ctx, cypher)
	if err != nil || len(graphData) == 0 {
		// Fall back to the latest snapshots with everything attached.
		cypher = `
			MATCH (s:Snapshot)
			OPTIONAL MATCH (s)-[:TRIGGERED]->(f:Flag)
			OPTIONAL MATCH (s)-[o:OBSERVED_SERVICE]->(v:Service)
			OPTIONAL MATCH (s)-[:AT_RISK]->(t:Ticket)-[:IN_CATEGORY]->(c:Category)
			WITH s,
				 collect(DISTINCT f.name) as flags,
				 collect(DISTINCT {name: v.name, status: o.status}) as services,
				 collect(DISTINCT {ticket: t.ticket_id, title: t.title, deadline: t.sla_deadline, category: c.name}) as risk_tickets
			RETURN s.generated_at as timestamp,
				   s.system_load as system_load,
				   s.severity_level as severity,
				   s.explanation as explanation,
				   flags,
				   services,
				   risk_tickets
			ORDER BY s.generated_at DESC
			LIMIT 5
		`
		graphData, err = e.graphClient.ExecuteCypher(ctx, cypher)
		if err != nil {
			return "", fmt.Errorf("failed to execute graph query: %w", err)
		}
	}

	answer, err := e.synthesizeAnswer(ctx, question, graphData)
	if err != nil {
		return "", fmt.Errorf("failed to synthesize answer: %w", err)
	}
	return answer, nil
}

// generateCypher uses Gemini to convert a natural language question
// into a Cypher query over the ops topology.
func (e *Engine) generateCypher(ctx context.Context, question string) (string, error) {
	model := e.getModel()

	prompt := fmt.Sprintf(`You are a Neo4j Cypher query expert. Convert the following question into a Cypher query for an IT service management graph database.

Graph Schema:
- Nodes: Snapshot, Server, Service, Ticket, Category, Flag
- Relationships:
  - (Snapshot)-[:OBSERVED_SERVER {status, cpu_pct, memory_pct, disk_pct}]->(Server)
  - (Snapshot)-[:OBSERVED_SERVICE {status, response_time_ms, uptime_pct}]->(Service)
  - (Snapshot)-[:AT_RISK]->(Ticket)
  - (Ticket)-[:IN_CATEGORY]->(Category)
  - (Snapshot)-[:TRIGGERED]->(Flag)

Snapshot properties: generated_at, time_range, system_load, severity_level, risk_score, explanation
Ticket properties: ticket_id, title, priority, sla_deadline
Flag properties: name (e.g., "load_critical", "service_outage", "sla_breach_risk")

Question: %s

Return ONLY the Cypher query, no explanation. Limit results to 10.`, question)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	cypher := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	return cleanCypherQuery(cypher), nil
}

// synthesizeAnswer uses Gemini to generate a natural language answer
// from the retrieved subgraph.
func (e *Engine) synthesizeAnswer(ctx context.Context, question string, graphData []map[string]any) (string, error) {
	model := e.getModel()

	graphJSON, err := json.MarshalIndent(graphData, "", "  ")
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`You are an IT service management expert. Answer the following question based on the graph database results.

Question: %s

Graph Data (from Neo4j):
%s

Provide a clear, concise answer explaining:
1. What the data shows
2. Which services, servers or tickets are affected
3. SLA impact and urgency
4. Recommended actions if relevant

If the graph data is empty or insufficient, say so clearly.`, question, string(graphJSON))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "Unable to generate response from the available data.", nil
	}

	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

// cleanCypherQuery removes markdown code blocks from Cypher queries.
func cleanCypherQuery(query string) string {
	query = strings.TrimSpace(query)
	query = strings.TrimPrefix(query, "```cypher")
	query = strings.TrimPrefix(query, "```")
	query = strings.TrimSuffix(query, "```")
	return strings.TrimSpace(query)
}
