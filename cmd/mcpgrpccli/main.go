// Command mcpgrpccli is a minimal smoke driver for the gRPC MCP transport:
// dial a server, list its tools, and call one. Interactive TUI drivers are
// out of scope here (the teacher's mcpcli/mcptui are full bubbletea
// applications); this stays deliberately thin.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/JeffreyRichter/mcpgrpc/client"
	"github.com/JeffreyRichter/mcpgrpc/mcp"
)

func main() {
	addr := flag.String("addr", "localhost:8443", "gRPC server address")
	tool := flag.String("tool", "", "tool name to call after listing (optional)")
	flag.Parse()

	sess, err := client.Dial(*addr, client.Options{
		DefaultTimeout: 30 * time.Second,
		MessageHandler: func(method string) { fmt.Fprintf(os.Stderr, "notification: %s\n", method) },
		DialOptions:    []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "dial failed:", err)
		os.Exit(1)
	}
	defer sess.Close()

	ctx := context.Background()
	tools, err := sess.ListTools(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list_tools failed:", err)
		os.Exit(1)
	}
	for _, t := range tools {
		fmt.Printf("tool: %s — %s\n", t.Name, t.Description)
	}

	if *tool == "" {
		return
	}
	result, err := sess.CallTool(ctx, *tool, map[string]any{}, client.CallToolOptions{
		ProgressCallback: func(n mcp.ProgressNotification) {},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "call_tool failed:", err)
		os.Exit(1)
	}
	for _, c := range result.Content {
		fmt.Println(c.Text)
	}
}
