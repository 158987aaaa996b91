// Package server implements the Server Servicer (component D) and Server
// Session (component E): the gRPC-facing half of the transport. It consumes
// a Registry — the external collaborator boundary spec.md deliberately
// keeps out of core scope (the FastMCP tool/resource registration surface)
// — through the five operations below.
package server

import (
	"context"
	"errors"

	"github.com/JeffreyRichter/mcpgrpc/mcp"
)

// ErrResourceNotFound is returned by Registry.ReadResource when no resource
// exists at the given URI (spec §4.D ReadResource: "Registry ValueError →
// NOT_FOUND").
var ErrResourceNotFound = errors.New("resource not found")

// Registry is the set of operations the Servicer consumes from a tool/
// resource registration surface (spec §1: "The core consumes from the
// registry only: list_tools(), list_resources(), list_resource_templates(),
// read_resource(uri), and call_tool(name, arguments, request_context)").
type Registry interface {
	ListTools(ctx context.Context) ([]mcp.Tool, error)
	ListResources(ctx context.Context) ([]mcp.Resource, error)
	ListResourceTemplates(ctx context.Context) ([]mcp.ResourceTemplate, error)

	// ReadResource returns the fragments backing uri, or ErrResourceNotFound.
	ReadResource(ctx context.Context, uri string) ([]mcp.ResourceContents, error)

	// CallTool invokes the named tool. session is the Server Session (E)
	// made available to the tool for progress reporting; it is nil-safe to
	// ignore. Any non-nil error here, including an argument-validation
	// error, is surfaced in-band as an error content frame (spec §4.D step 3).
	CallTool(ctx context.Context, name string, arguments map[string]any, session Session) (mcp.ToolReturn, error)
}
