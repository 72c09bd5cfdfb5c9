package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	flag.Parse()
	args := flag.Args()

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: mcp-client <server-command> [<args>]")
		fmt.Fprintln(os.Stderr, "Example: mcp-client ./ops-console -mcp")
		os.Exit(2)
	}

	ctx := context.Background()

	// Start the server as a subprocess
	cmd := exec.Command(args[0], args[1:]...)
	transport := &mcp.CommandTransport{Command: cmd}

	// Create MCP client
	client := mcp.NewClient(&mcp.Implementation{
		Name:    "ops-console-client",
		Version: "1.0.0",
	}, nil)

	// Connect to the server
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer session.Close()

	fmt.Println("Connected to the ops-console MCP server!")
	fmt.Println("Available commands:")
	fmt.Println("  /tools            - List available tools")
	fmt.Println("  /snapshot [range] - Get the dashboard snapshot (1d/7d/30d/90d)")
	fmt.Println("  /sla [hours]      - Get the SLA report with an alert window")
	fmt.Println("  /history [limit]  - Get persisted snapshot summaries")
	fmt.Println("  /compliance <cat> - Get the stored compliance series for a category")
	fmt.Println("  /graph <cypher>   - Execute Cypher query")
	fmt.Println("  /exit             - Exit the client")
	fmt.Println("  <question>        - Ask a question using GraphRAG")
	fmt.Println()

	// Interactive REPL
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch {
		case input == "/exit":
			fmt.Println("Goodbye!")
			return

		case input == "/tools":
			listTools(ctx, session)

		case strings.HasPrefix(input, "/snapshot"):
			parts := strings.Fields(input)
			args := map[string]interface{}{}
			if len(parts) > 1 {
				args["time_range"] = parts[1]
			}
			callTool(ctx, session, "get_dashboard_snapshot", args)

		case strings.HasPrefix(input, "/sla"):
			parts := strings.Fields(input)
			args := map[string]interface{}{}
			if len(parts) > 1 {
				if hours, err := strconv.ParseFloat(parts[1], 64); err == nil {
					args["alert_threshold_hours"] = hours
				}
			}
			callTool(ctx, session, "get_sla_report", args)

		case strings.HasPrefix(input, "/history"):
			parts := strings.Fields(input)
			args := map[string]interface{}{}
			if len(parts) > 1 {
				if limit, err := strconv.Atoi(parts[1]); err == nil {
					args["limit"] = limit
				}
			}
			callTool(ctx, session, "get_snapshot_history", args)

		case strings.HasPrefix(input, "/compliance "):
			category := strings.TrimPrefix(input, "/compliance ")
			callTool(ctx, session, "get_compliance_history", map[string]interface{}{
				"category": strings.TrimSpace(category),
			})

		case strings.HasPrefix(input, "/graph "):
			cypher := strings.TrimPrefix(input, "/graph ")
			callTool(ctx, session, "query_graph", map[string]interface{}{
				"cypher": cypher,
			})

		default:
			// Treat as a question for ask_ops_console
			callTool(ctx, session, "ask_ops_console", map[string]interface{}{
				"question": input,
			})
		}
	}

	if err := scanner.Err(); err != nil {
		log.Printf("Scanner error: %v", err)
	}
}

func listTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("Available Tools:")
	for tool, err := range session.Tools(ctx, nil) {
		if err != nil {
			log.Printf("Error listing tools: %v", err)
			return
		}
		fmt.Printf("  - %s: %s\n", tool.Name, tool.Description)
	}
	fmt.Println()
}

func callTool(ctx context.Context, session *mcp.ClientSession, toolName string, args map[string]interface{}) {
	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		log.Printf("Error calling tool: %v", err)
		return
	}

	printResult(result)
}

func printResult(result *mcp.CallToolResult) {
	if result.IsError {
		fmt.Printf("❌ Error: ")
	} else {
		fmt.Printf("✅ Result: ")
	}

	// Try to pretty-print the content
	for _, content := range result.Content {
		switch v := content.(type) {
		case *mcp.TextContent:
			fmt.Println(v.Text)
		default:
			// Try JSON marshaling for other types
			jsonData, err := json.MarshalIndent(content, "", "  ")
			if err != nil {
				fmt.Printf("%+v\n", content)
			} else {
				fmt.Println(string(jsonData))
			}
		}
	}
	fmt.Println()
}
