package mcpserver

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/api/option"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/advisor"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/database/graph"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/database/relational"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/engine"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/flagger"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/output"
)

// Server wraps the MCP server with ops-console capabilities.
type Server struct {
	mcpServer    *mcp.Server
	advisorEng   *advisor.Engine
	provider     datasource.SnapshotProvider
	duckdbRepo   *relational.Repo
	graphClient  graph.GraphClient
	geminiClient *genai.Client
	flaggerSvc   *flagger.FlaggerService
	thresholds   engine.Config

	// Data ingestion background worker
	ingestMu     sync.Mutex
	ingestCancel context.CancelFunc
	ingestWg     sync.WaitGroup
}

// Config holds configuration for the MCP server.
type Config struct {
	ServerName    string
	ServerVersion string
	GeminiAPIKey  string
	GeminiModel   string // Model key: flash, pro, flash-2, experimental
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string
}

// NewServer creates a new MCP server instance.
func NewServer(cfg Config, repo *relational.Repo, provider datasource.SnapshotProvider) (*Server, error) {
	ctx := context.Background()

	geminiClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	graphClient, err := graph.NewNeo4jClient(cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword, cfg.Neo4jDatabase)
	if err != nil {
		geminiClient.Close()
		return nil, fmt.Errorf("failed to create neo4j client: %w", err)
	}

	modelKey := cfg.GeminiModel
	if modelKey == "" {
		modelKey = "pro"
	}
	fmt.Fprintf(os.Stderr, "Using Gemini model: %s\n", modelKey)
	advisorEng := advisor.NewEngine(graphClient, geminiClient, modelKey)

	flaggerSvc := flagger.NewFlaggerService(flagger.DefaultConfig())

	impl := &mcp.Implementation{
		Name:    cfg.ServerName,
		Version: cfg.ServerVersion,
	}
	mcpServer := mcp.NewServer(impl, nil)

	s := &Server{
		mcpServer:    mcpServer,
		advisorEng:   advisorEng,
		provider:     provider,
		duckdbRepo:   repo,
		graphClient:  graphClient,
		geminiClient: geminiClient,
		flaggerSvc:   flaggerSvc,
		thresholds:   engine.DefaultConfig(),
	}

	s.registerTools()

	// Ingest initial data into Neo4j so the advisor has something to query
	fmt.Fprintf(os.Stderr, "Ingesting initial dashboard snapshot into Neo4j...\n")
	if err := s.ingestSnapshot(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: initial ingest failed: %v\n", err)
	}

	// Start background ingestion (every 30 seconds)
	s.startBackgroundIngest(30 * time.Second)

	return s, nil
}

// AskOpsConsoleArgs defines the input for ask_ops_console tool.
type AskOpsConsoleArgs struct {
	Question string `json:"question" jsonschema:"the question to ask about service health, tickets and SLA state"`
}

// AskOpsConsoleResult defines the output for ask_ops_console tool.
type AskOpsConsoleResult struct {
	Answer string `json:"answer" jsonschema:"AI-generated answer"`
}

// SnapshotArgs defines the input for get_dashboard_snapshot tool.
type SnapshotArgs struct {
	TimeRange string `json:"time_range,omitempty" jsonschema:"aggregation window: 1d, 7d, 30d or 90d"`
}

// SLAReportArgs defines the input for get_sla_report tool.
type SLAReportArgs struct {
	TimeRange           string  `json:"time_range,omitempty" jsonschema:"aggregation window: 1d, 7d, 30d or 90d"`
	AlertThresholdHours float64 `json:"alert_threshold_hours,omitempty" jsonschema:"countdown window in hours below which a deadline is urgent"`
}

// QueryGraphArgs defines the input for query_graph tool.
type QueryGraphArgs struct {
	Cypher string `json:"cypher" jsonschema:"Cypher query to execute"`
}

// QueryGraphResult wraps graph query results.
type QueryGraphResult struct {
	Data interface{} `json:"data" jsonschema:"query results"`
}

// HistoricalSnapshotsArgs defines the input for get_snapshot_history tool.
type HistoricalSnapshotsArgs struct {
	FlaggedOnly bool `json:"flagged_only,omitempty" jsonschema:"return only snapshots with a raised severity"`
	Limit       int  `json:"limit,omitempty" jsonschema:"number of snapshots to return"`
}

// HistoricalSnapshotsResult wraps snapshot results.
type HistoricalSnapshotsResult struct {
	Snapshots []relational.SnapshotSummary `json:"snapshots" jsonschema:"historical snapshot summaries"`
}

// ComplianceHistoryArgs defines the input for get_compliance_history tool.
type ComplianceHistoryArgs struct {
	Category string `json:"category" jsonschema:"ticket category to report on, e.g. インフラ"`
	Limit    int    `json:"limit,omitempty" jsonschema:"number of stored snapshots to cover"`
}

// ComplianceHistoryResult carries the stored compliance series plus its
// overall direction.
type ComplianceHistoryResult struct {
	Category string    `json:"category" jsonschema:"reported category"`
	Rates    []float64 `json:"rates" jsonschema:"compliance rates in percent, oldest first"`
	Trend    string    `json:"trend" jsonschema:"up, down or stable across the series"`
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	// Tool 1: ask_ops_console - GraphRAG-powered Q&A
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ask_ops_console",
		Description: "Ask complex questions about service health, SLA breaches, load trends and ticket risk using AI-powered graph analysis. Use this for 'why' questions and causal reasoning about the managed estate.",
	}, s.handleAskOpsConsole)

	// Tool 2: get_dashboard_snapshot - current estate state
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_dashboard_snapshot",
		Description: "Get the latest dashboard snapshot: system load, server and service status, active alerts, at-risk tickets and SLA statistics. Accepts a time_range of 1d, 7d, 30d or 90d for the trend series.",
	}, s.handleGetSnapshot)

	// Tool 3: get_sla_report - rendered SLA countdowns and compliance
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_sla_report",
		Description: "Get the SLA monitoring report: per-category and per-priority compliance, risk tickets with rendered time-remaining countdowns, and escalation history.",
	}, s.handleGetSLAReport)

	// Tool 4: query_graph - direct Cypher access for power users
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "query_graph",
		Description: "Execute Cypher queries directly on the Neo4j graph database. Available nodes: Snapshot, Server, Service, Ticket, Category, Flag.",
	}, s.handleQueryGraph)

	// Tool 5: get_snapshot_history - query DuckDB for time series
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_snapshot_history",
		Description: "Query persisted snapshot summaries from DuckDB. Use for time-series analysis over system load, severity levels and flag history.",
	}, s.handleGetSnapshotHistory)

	// Tool 6: get_compliance_history - stored SLA compliance per category
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_compliance_history",
		Description: "Get the stored SLA compliance rate series for one ticket category, oldest first, with the overall trend across the series.",
	}, s.handleGetComplianceHistory)
}

// handleAskOpsConsole uses the advisor to answer complex questions.
func (s *Server) handleAskOpsConsole(ctx context.Context, _ *mcp.CallToolRequest, args AskOpsConsoleArgs) (*mcp.CallToolResult, AskOpsConsoleResult, error) {
	answer, err := s.advisorEng.Query(ctx, args.Question)
	if err != nil {
		return nil, AskOpsConsoleResult{}, fmt.Errorf("advisor query failed: %w", err)
	}
	return nil, AskOpsConsoleResult{Answer: answer}, nil
}

// handleGetSnapshot fetches the current snapshot from the provider.
func (s *Server) handleGetSnapshot(ctx context.Context, _ *mcp.CallToolRequest, args SnapshotArgs) (*mcp.CallToolResult, *datasource.Snapshot, error) {
	tr := datasource.Range7D
	if args.TimeRange != "" {
		var err error
		tr, err = datasource.ParseTimeRange(args.TimeRange)
		if err != nil {
			return nil, nil, err
		}
	}

	snap, err := s.provider.FetchSnapshot(ctx, tr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch snapshot: %w", err)
	}
	return nil, snap, nil
}

// handleGetSLAReport builds the SLA report from a fresh snapshot.
func (s *Server) handleGetSLAReport(ctx context.Context, _ *mcp.CallToolRequest, args SLAReportArgs) (*mcp.CallToolResult, *output.SLAReport, error) {
	tr := datasource.Range7D
	if args.TimeRange != "" {
		var err error
		tr, err = datasource.ParseTimeRange(args.TimeRange)
		if err != nil {
			return nil, nil, err
		}
	}

	threshold := s.thresholds.SLAAlert
	if args.AlertThresholdHours > 0 {
		threshold = time.Duration(args.AlertThresholdHours * float64(time.Hour))
	}

	snap, err := s.provider.FetchSnapshot(ctx, tr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch snapshot: %w", err)
	}

	rep := output.BuildSLAReport(snap, time.Now(), threshold)
	return nil, &rep, nil
}

// handleQueryGraph executes Cypher queries.
func (s *Server) handleQueryGraph(ctx context.Context, _ *mcp.CallToolRequest, args QueryGraphArgs) (*mcp.CallToolResult, QueryGraphResult, error) {
	result, err := s.graphClient.ExecuteCypher(ctx, args.Cypher)
	if err != nil {
		return nil, QueryGraphResult{}, fmt.Errorf("cypher query failed: %w", err)
	}
	return nil, QueryGraphResult{Data: result}, nil
}

// handleGetSnapshotHistory queries DuckDB.
func (s *Server) handleGetSnapshotHistory(ctx context.Context, _ *mcp.CallToolRequest, args HistoricalSnapshotsArgs) (*mcp.CallToolResult, HistoricalSnapshotsResult, error) {
	snapshots, err := s.duckdbRepo.QuerySnapshots(ctx, args.FlaggedOnly, args.Limit)
	if err != nil {
		return nil, HistoricalSnapshotsResult{}, fmt.Errorf("failed to query snapshots: %w", err)
	}
	return nil, HistoricalSnapshotsResult{Snapshots: snapshots}, nil
}

// handleGetComplianceHistory reads the stored compliance series for one
// category and classifies its direction end to end.
func (s *Server) handleGetComplianceHistory(ctx context.Context, _ *mcp.CallToolRequest, args ComplianceHistoryArgs) (*mcp.CallToolResult, ComplianceHistoryResult, error) {
	if args.Category == "" {
		return nil, ComplianceHistoryResult{}, fmt.Errorf("category is required")
	}

	rates, err := s.duckdbRepo.ComplianceHistory(ctx, args.Category, args.Limit)
	if err != nil {
		return nil, ComplianceHistoryResult{}, fmt.Errorf("failed to query compliance history: %w", err)
	}

	trend := datasource.TrendStable
	if len(rates) >= 2 {
		trend = engine.ClassifyTrend(rates[0], rates[len(rates)-1], 1.0)
	}

	return nil, ComplianceHistoryResult{
		Category: args.Category,
		Rates:    rates,
		Trend:    string(trend),
	}, nil
}

// Start starts the MCP server using stdio transport.
func (s *Server) Start(ctx context.Context) error {
	fmt.Fprintf(os.Stderr, "Starting ops-console MCP server on stdio...\n")
	transport := &mcp.StdioTransport{}
	return s.mcpServer.Run(ctx, transport)
}

// Close cleans up resources.
func (s *Server) Close(ctx context.Context) error {
	s.stopBackgroundIngest()

	if s.geminiClient != nil {
		s.geminiClient.Close()
	}
	if s.graphClient != nil {
		// Not calling Reset() so data survives between sessions.
		s.graphClient.Close(ctx)
	}
	return nil
}

// ingestSnapshot runs the data pipeline once and ingests into Neo4j.
func (s *Server) ingestSnapshot(ctx context.Context) error {
	payload, err := output.RunPipeline(ctx, s.provider, s.flaggerSvc, datasource.Range7D)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	// Persist to DuckDB (optional, for historical queries)
	if _, err := s.duckdbRepo.InsertSnapshot(ctx, payload); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: DuckDB insert failed: %v\n", err)
	}

	// Ingest into Neo4j for advisor queries
	if err := s.graphClient.IngestSnapshot(ctx, payload); err != nil {
		return fmt.Errorf("neo4j ingest failed: %w", err)
	}
	return nil
}

// startBackgroundIngest starts periodic data ingestion.
func (s *Server) startBackgroundIngest(interval time.Duration) {
	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()

	if s.ingestCancel != nil {
		return // Already running
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.ingestCancel = cancel
	s.ingestWg.Add(1)

	go func() {
		defer s.ingestWg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.ingestSnapshot(ctx); err != nil {
					fmt.Fprintf(os.Stderr, "Background ingest failed: %v\n", err)
				}
			}
		}
	}()

	fmt.Fprintf(os.Stderr, "Background data ingestion started (interval: %v)\n", interval)
}

// stopBackgroundIngest stops the periodic ingestion worker.
func (s *Server) stopBackgroundIngest() {
	s.ingestMu.Lock()
	cancel := s.ingestCancel
	s.ingestCancel = nil
	s.ingestMu.Unlock()

	if cancel != nil {
		cancel()
		s.ingestWg.Wait()
	}
}
