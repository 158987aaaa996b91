// Package client implements the Client Transport Session (component F):
// construction, the unary-wrapper version-retry loop, catalog caches, and
// the streaming CallTool engine.
package client

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/JeffreyRichter/mcpgrpc/mcp"
)

// translateStatusError maps a gRPC status to the protocol error taxonomy
// (spec §4.G / §4.F read_resource, call_tool error mapping sections).
func translateStatusError(err error, op string) *mcp.Error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return mcp.NewError(mcp.CodeInternalError, "%s: %s", op, err)
	}
	switch st.Code() {
	case codes.NotFound:
		return mcp.NewError(mcp.CodeResourceNotFound, "%s", st.Message())
	case codes.DeadlineExceeded:
		return mcp.NewError(mcp.CodeRequestTimeout, "Timed out while waiting for response to %s.", op)
	case codes.Canceled:
		return mcp.NewError(mcp.CodeRequestCancelled, "%s", st.Message())
	default:
		return mcp.NewError(mcp.CodeInternalError, "%s", st.Message())
	}
}

func parseError(op string, err error) *mcp.Error {
	return mcp.NewError(mcp.CodeParseError, "%s: %s", op, err)
}

// validationError wraps a result-validation failure under INTERNAL_ERROR,
// matching spec §4.F call_tool step 7 ("validation errors raise
// INTERNAL_ERROR with 'Tool result validation failed …'").
func validationError(name string, err error) *mcp.Error {
	return mcp.NewError(mcp.CodeInternalError, "Tool result validation failed for %q: %s", name, err)
}
