package server

import (
	"context"
	"errors"

	"github.com/JeffreyRichter/mcpgrpc/mcp"
	"github.com/JeffreyRichter/mcpgrpc/mcppb"
)

// ErrSessionOperationNotSupported is returned by every Session method the
// gRPC core does not implement (spec §4.E: "the gRPC transport deliberately
// does not support server-initiated out-of-band calls").
var ErrSessionOperationNotSupported = errors.New("operation not supported by the gRPC transport session")

// Session is the transport session a running tool is handed so it can talk
// back to its caller. Only SendProgressNotification is implemented; every
// other operation exists to document the full MCP session surface a tool
// registered against a richer transport might expect, and fails loudly
// rather than silently doing nothing.
type Session interface {
	SendProgressNotification(ctx context.Context, n mcp.ProgressNotification) error

	SendLogMessage(ctx context.Context, level, logger, data string) error
	SendResourceUpdated(ctx context.Context, uri string) error
	ListRoots(ctx context.Context) error
	Elicit(ctx context.Context, message string, schema mcp.JSONSchema) error
	SendPing(ctx context.Context) error
	SendToolListChanged(ctx context.Context) error
	SendResourceListChanged(ctx context.Context) error
}

// callSession is the Session implementation wired into each CallTool
// invocation: it turns progress reports into frames pushed onto that call's
// response queue, interleaved with the eventual terminal frame (spec §4.D
// step 5, §5 ordering guarantees).
type callSession struct {
	token   int64
	enqueue func(*mcppb.CallToolResponse)
}

func newCallSession(token int64, enqueue func(*mcppb.CallToolResponse)) *callSession {
	return &callSession{token: token, enqueue: enqueue}
}

func (s *callSession) SendProgressNotification(_ context.Context, n mcp.ProgressNotification) error {
	s.enqueue(&mcppb.CallToolResponse{Progress: &mcppb.ProgressFrame{
		Token:    formatToken(s.token),
		Progress: n.Progress,
		Total:    n.Total,
		Message:  n.Message,
	}})
	return nil
}

func (s *callSession) SendLogMessage(context.Context, string, string, string) error {
	return ErrSessionOperationNotSupported
}
func (s *callSession) SendResourceUpdated(context.Context, string) error {
	return ErrSessionOperationNotSupported
}
func (s *callSession) ListRoots(context.Context) error { return ErrSessionOperationNotSupported }
func (s *callSession) Elicit(context.Context, string, mcp.JSONSchema) error {
	return ErrSessionOperationNotSupported
}
func (s *callSession) SendPing(context.Context) error { return ErrSessionOperationNotSupported }
func (s *callSession) SendToolListChanged(context.Context) error {
	return ErrSessionOperationNotSupported
}
func (s *callSession) SendResourceListChanged(context.Context) error {
	return ErrSessionOperationNotSupported
}
