package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/config"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/database"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/database/graph"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/database/relational"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource/livehost"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource/mock"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/engine"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/flagger"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/mcpserver"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/output"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/ui/console"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/ui/tui"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to config.yaml")
		consoleMode = flag.Bool("console", false, "print a one-shot report instead of the TUI")
		mcpMode     = flag.Bool("mcp", false, "run the MCP server on stdio")
		liveMode    = flag.Bool("live", false, "overlay real host metrics from this machine")
		seed        = flag.Int64("seed", 0, "fixed seed for the data generator (0 = random)")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		cfg = loaded
	}

	engineCfg := cfg.EngineConfig()
	provider := buildProvider(engineCfg, *seed, *liveMode)

	switch {
	case *mcpMode:
		runMCP(cfg, provider)
	case *consoleMode:
		runConsole(cfg, engineCfg, provider)
	default:
		runTUI(cfg, engineCfg, provider)
	}
}

func buildProvider(engineCfg engine.Config, seed int64, live bool) datasource.SnapshotProvider {
	opts := []mock.Option{mock.WithConfig(engineCfg)}
	if seed != 0 {
		opts = append(opts, mock.WithSeed(seed))
	}

	var provider datasource.SnapshotProvider = mock.New(opts...)
	if live {
		provider = livehost.New(provider, engineCfg)
	}
	return provider
}

func runConsole(cfg *config.Config, engineCfg engine.Config, provider datasource.SnapshotProvider) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snap, err := provider.FetchSnapshot(ctx, cfg.TimeRange())
	if err != nil {
		log.Fatalf("fetch snapshot: %v", err)
	}

	results := engine.Evaluate(snap, engineCfg)
	console.Print(os.Stdout, output.BuildRealtime(snap, results))
	console.PrintSLA(os.Stdout, output.BuildSLAReport(snap, time.Now(), engineCfg.SLAAlert))
}

func runTUI(cfg *config.Config, engineCfg engine.Config, provider datasource.SnapshotProvider) {
	refresher := engine.NewRefresher(provider)
	if err := refresher.SetInterval(cfg.RefreshInterval()); err != nil {
		log.Fatalf("refresh interval: %v", err)
	}
	refresher.SetTimeRange(cfg.TimeRange())
	if cfg.Console.AutoRefresh != nil {
		refresher.SetAutoRefresh(*cfg.Console.AutoRefresh)
	}

	recorder := startRecorder(cfg, provider)
	if recorder != nil {
		defer recorder.Stop()
	}

	if err := tui.Start(refresher, engineCfg); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// startRecorder wires the persistence pipeline when storage is enabled.
// The dashboard keeps working without it.
func startRecorder(cfg *config.Config, provider datasource.SnapshotProvider) *database.Recorder {
	if !cfg.Storage.Enabled {
		return nil
	}

	ctx := context.Background()

	client, err := relational.NewDuckDBClient(cfg.Storage.Path)
	if err != nil {
		log.Printf("storage disabled: %v", err)
		return nil
	}

	repo := relational.NewRepo(client.DB())
	if err := repo.Migrate(ctx); err != nil {
		log.Printf("storage disabled: %v", err)
		return nil
	}

	var graphClient graph.GraphClient
	if cfg.Graph.Enabled {
		gc, err := graph.NewNeo4jClient(cfg.Graph.URI, cfg.Graph.User, cfg.Graph.Password, cfg.Graph.Database)
		if err != nil {
			log.Printf("graph push disabled: %v", err)
		} else {
			graphClient = gc
		}
	}

	flaggerSvc := flagger.NewFlaggerService(flagger.DefaultConfig())
	recorder, err := database.NewRecorder(provider, flaggerSvc, repo, graphClient)
	if err != nil {
		log.Printf("storage disabled: %v", err)
		return nil
	}
	if err := recorder.Start(ctx); err != nil {
		log.Printf("storage disabled: %v", err)
		return nil
	}
	return recorder
}

func runMCP(cfg *config.Config, provider datasource.SnapshotProvider) {
	ctx := context.Background()

	dbPath := cfg.Storage.Path
	client, err := relational.NewDuckDBClient(dbPath)
	if err != nil {
		log.Fatalf("duckdb: %v", err)
	}
	defer client.Close()

	repo := relational.NewRepo(client.DB())
	if err := repo.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	server, err := mcpserver.NewServer(mcpserver.Config{
		ServerName:    "ops-console",
		ServerVersion: "1.0.0",
		GeminiAPIKey:  cfg.Advisor.APIKey,
		GeminiModel:   cfg.Advisor.Model,
		Neo4jURI:      cfg.Graph.URI,
		Neo4jUser:     cfg.Graph.User,
		Neo4jPassword: cfg.Graph.Password,
		Neo4jDatabase: cfg.Graph.Database,
	}, repo, provider)
	if err != nil {
		log.Fatalf("mcp server: %v", err)
	}
	defer server.Close(ctx)

	if err := server.Start(ctx); err != nil {
		log.Fatalf("mcp server stopped: %v", err)
	}
}
