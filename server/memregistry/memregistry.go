// Package memregistry is a reference Registry implementation (spec.md's
// external collaborator boundary) seeded with the tools and resources the
// end-to-end scenarios in spec §8 exercise: greet, test_tool, download_file,
// blocking_tool, and the test://hello resource.
//
// Grounded on the teacher's per-tool tool-caller files (mcpsvr/tool_call_
// add.go, tool_call_count.go, tool_call_welcome.go): one file per tool,
// each defining its mcp.Tool metadata and Create/ProcessPhase behavior —
// generalized here from the teacher's async phase-advance model to a single
// synchronous CallTool function per tool, since the gRPC core (unlike the
// teacher's HTTP resource-polling transport) already gives tools a
// cancellable context and a progress-reporting session directly.
package memregistry

import (
	"context"
	"fmt"
	"time"

	"github.com/JeffreyRichter/mcpgrpc/internal/aids"
	"github.com/JeffreyRichter/mcpgrpc/mcp"
	"github.com/JeffreyRichter/mcpgrpc/server"
)

// Registry is a fixed, in-memory catalog: no persistence, no dynamic
// registration. It exists to give the transport something real to drive in
// tests and in cmd/mcpgrpcsvc.
type Registry struct {
	tools             []mcp.Tool
	resources         []mcp.Resource
	resourceTemplates []mcp.ResourceTemplate
	resourceContents  map[string]mcp.ResourceContents
}

// New builds the reference catalog.
func New() *Registry {
	return &Registry{
		tools: []mcp.Tool{
			{
				BaseMetadata: mcp.BaseMetadata{Name: "greet", Title: "Greet"},
				Description:  "Greets the caller by name.",
				InputSchema: mcp.JSONSchema{
					"type":       "object",
					"properties": map[string]any{"name": map[string]any{"type": "string"}},
					"required":   []any{"name"},
				},
				OutputSchema: mcp.JSONSchema{
					"type":       "object",
					"properties": map[string]any{"result": map[string]any{"type": "string"}},
					"required":   []any{"result"},
				},
			},
			{
				BaseMetadata: mcp.BaseMetadata{Name: "test_tool", Title: "Add two numbers"},
				Description:  "Adds two numbers and returns their sum.",
				InputSchema: mcp.JSONSchema{
					"type": "object",
					"properties": map[string]any{
						"a": map[string]any{"type": "number"},
						"b": map[string]any{"type": "number"},
					},
					"required": []any{"a", "b"},
				},
				OutputSchema: mcp.JSONSchema{
					"type":       "object",
					"properties": map[string]any{"result": map[string]any{"type": "number"}},
					"required":   []any{"result"},
				},
			},
			{
				BaseMetadata: mcp.BaseMetadata{Name: "download_file", Title: "Download a file"},
				Description:  "Simulates downloading a file, reporting progress as it goes.",
				InputSchema: mcp.JSONSchema{
					"type": "object",
					"properties": map[string]any{
						"filename": map[string]any{"type": "string"},
						"size_mb":  map[string]any{"type": "number"},
					},
					"required": []any{"filename", "size_mb"},
				},
			},
			{
				BaseMetadata: mcp.BaseMetadata{Name: "blocking_tool", Title: "Block until cancelled"},
				Description:  "Blocks until its context is cancelled or times out; used to exercise cancellation and timeout paths.",
				InputSchema:  mcp.JSONSchema{"type": "object"},
			},
		},
		resources: []mcp.Resource{
			{
				BaseMetadata: mcp.BaseMetadata{Name: "hello"},
				URI:          "test://hello",
				MimeType:     "text/plain",
			},
		},
		resourceTemplates: []mcp.ResourceTemplate{
			{
				BaseMetadata: mcp.BaseMetadata{Name: "file"},
				URITemplate:  "file:///{path}",
				MimeType:     "application/octet-stream",
			},
		},
		resourceContents: map[string]mcp.ResourceContents{
			"test://hello": {
				URI:      "test://hello",
				MimeType: "text/plain",
				Text:     aids.New("Hello from resource!"),
			},
		},
	}
}

func (r *Registry) ListTools(context.Context) ([]mcp.Tool, error) { return r.tools, nil }

func (r *Registry) ListResources(context.Context) ([]mcp.Resource, error) { return r.resources, nil }

func (r *Registry) ListResourceTemplates(context.Context) ([]mcp.ResourceTemplate, error) {
	return r.resourceTemplates, nil
}

func (r *Registry) ReadResource(_ context.Context, uri string) ([]mcp.ResourceContents, error) {
	rc, ok := r.resourceContents[uri]
	if !ok {
		return nil, server.ErrResourceNotFound
	}
	return []mcp.ResourceContents{rc}, nil
}

func (r *Registry) CallTool(ctx context.Context, name string, arguments map[string]any, session server.Session) (mcp.ToolReturn, error) {
	switch name {
	case "greet":
		return greet(arguments)
	case "test_tool":
		return addNumbers(arguments)
	case "download_file":
		return downloadFile(ctx, arguments, session)
	case "blocking_tool":
		return blockingTool(ctx)
	default:
		return mcp.ToolReturn{}, fmt.Errorf("unknown tool %q", name)
	}
}

func greet(args map[string]any) (mcp.ToolReturn, error) {
	raw, present := args["name"]
	if !present {
		return mcp.ToolReturn{}, fmt.Errorf("1 validation error for greet\nname\n  Field required [type=missing, input_value={}, input_type=dict]")
	}
	name, ok := raw.(string)
	if !ok {
		return mcp.ToolReturn{}, fmt.Errorf(
			"1 validation error for greet\nname\n  Input should be a valid string [type=string_type, input_value=%v, input_type=%T]",
			raw, raw)
	}
	text := fmt.Sprintf("Hello, %s! Welcome to the Simple gRPC Server!", name)
	return mcp.ToolReturn{
		Content:    []mcp.ContentBlock{{Kind: mcp.KindText, Text: text}},
		Structured: map[string]any{"result": text},
	}, nil
}

func addNumbers(args map[string]any) (mcp.ToolReturn, error) {
	a, aok := numberArg(args, "a")
	b, bok := numberArg(args, "b")
	if !aok || !bok {
		return mcp.ToolReturn{}, fmt.Errorf("2 validation errors for test_tool\na\n  Input should be a valid number\nb\n  Input should be a valid number")
	}
	sum := a + b
	return mcp.ToolReturn{
		Content:    []mcp.ContentBlock{{Kind: mcp.KindText, Text: formatNumber(sum)}},
		Structured: map[string]any{"result": sum},
	}, nil
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

func numberArg(args map[string]any, key string) (float64, bool) {
	v, ok := args[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

const downloadChunks = 5

func downloadFile(ctx context.Context, args map[string]any, session server.Session) (mcp.ToolReturn, error) {
	filename, _ := args["filename"].(string)
	sizeMB, _ := numberArg(args, "size_mb")

	total := 1.0
	for i := 1; i <= downloadChunks; i++ {
		select {
		case <-ctx.Done():
			return mcp.ToolReturn{}, ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
		if session != nil {
			_ = session.SendProgressNotification(ctx, mcp.ProgressNotification{
				Progress: float64(i) / float64(downloadChunks),
				Total:    &total,
			})
		}
	}

	text := fmt.Sprintf("Downloaded %q (%.2f MB).", filename, sizeMB)
	return mcp.ToolReturn{Content: []mcp.ContentBlock{{Kind: mcp.KindText, Text: text}}}, nil
}

func blockingTool(ctx context.Context) (mcp.ToolReturn, error) {
	<-ctx.Done()
	return mcp.ToolReturn{}, ctx.Err()
}
