package server

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/JeffreyRichter/mcpgrpc/internal/convert"
	"github.com/JeffreyRichter/mcpgrpc/internal/queue"
	"github.com/JeffreyRichter/mcpgrpc/mcppb"
)

// DefaultCatalogTTL is the server-chosen TTL attached to every list
// response. Spec §9 Open Question: "The server's chosen TTL is a constant
// in the source (60 minutes) ... treat it as server-chosen" — this
// servicer keeps that constant rather than accepting a client hint.
const DefaultCatalogTTL = 60 * time.Minute

// Servicer implements mcppb.McpServer: the four RPCs plus the CallTool
// streaming orchestration (spec §4.D). Install it behind
// internal/versiongate's interceptors — the Servicer itself assumes the
// protocol-version gate has already run.
type Servicer struct {
	mcppb.UnimplementedMcpServer

	registry   Registry
	toolDefs   *toolDefinitionCache
	catalogTTL time.Duration
}

// NewServicer constructs a Servicer backed by registry, using
// DefaultCatalogTTL for list responses.
func NewServicer(registry Registry) *Servicer {
	return &Servicer{registry: registry, toolDefs: newToolDefinitionCache(), catalogTTL: DefaultCatalogTTL}
}

// SetCatalogTTL overrides the TTL stamped on list responses. Intended to be
// called once, before the servicer starts handling traffic.
func (s *Servicer) SetCatalogTTL(ttl time.Duration) { s.catalogTTL = ttl }

func (s *Servicer) ListResources(ctx context.Context, _ *mcppb.ListResourcesRequest) (*mcppb.ListResourcesResponse, error) {
	resources, err := s.registry.ListResources(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	wire := make([]*mcppb.Resource, 0, len(resources))
	for _, r := range resources {
		wire = append(wire, convert.ResourceToWire(r))
	}
	return &mcppb.ListResourcesResponse{Resources: wire, Ttl: convert.DurationToProto(s.catalogTTL)}, nil
}

func (s *Servicer) ListResourceTemplates(ctx context.Context, _ *mcppb.ListResourceTemplatesRequest) (*mcppb.ListResourceTemplatesResponse, error) {
	templates, err := s.registry.ListResourceTemplates(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	wire := make([]*mcppb.ResourceTemplate, 0, len(templates))
	for _, rt := range templates {
		wire = append(wire, convert.ResourceTemplateToWire(rt))
	}
	return &mcppb.ListResourceTemplatesResponse{ResourceTemplates: wire, Ttl: convert.DurationToProto(s.catalogTTL)}, nil
}

func (s *Servicer) ListTools(ctx context.Context, _ *mcppb.ListToolsRequest) (*mcppb.ListToolsResponse, error) {
	tools, err := s.registry.ListTools(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	wire := make([]*mcppb.Tool, 0, len(tools))
	for _, t := range tools {
		w, err := convert.ToolToWire(t)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "Failed to parse tool %q: %s", t.Name, err)
		}
		wire = append(wire, w)
	}
	s.toolDefs.replaceAll(tools)
	return &mcppb.ListToolsResponse{Tools: wire, Ttl: convert.DurationToProto(s.catalogTTL)}, nil
}

func (s *Servicer) ReadResource(ctx context.Context, req *mcppb.ReadResourceRequest) (*mcppb.ReadResourceResponse, error) {
	fragments, err := s.registry.ReadResource(ctx, req.Uri)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return nil, status.Errorf(codes.NotFound, "Resource %s not found.", req.Uri)
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	wire := make([]*mcppb.ResourceContents, 0, len(fragments))
	for _, f := range fragments {
		w, err := convert.ResourceContentsToWire(f)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "Failed to parse resource %s: %s", req.Uri, err)
		}
		wire = append(wire, w)
	}
	return &mcppb.ReadResourceResponse{Contents: wire}, nil
}

// CallTool reads the single request frame, spawns the tool runner, and
// streams whatever it enqueues back to the client (spec §4.D CallTool).
func (s *Servicer) CallTool(stream mcppb.Mcp_CallToolServer) error {
	ctx := stream.Context()

	req, err := stream.Recv()
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "failed to read CallTool request: %s", err)
	}
	if req.Name == "" {
		return status.Error(codes.InvalidArgument, "CallTool request missing tool name")
	}

	var token int64
	if req.ProgressToken != nil {
		token = parseToken(*req.ProgressToken)
	}

	q := queue.NewUnbounded[*mcppb.CallToolResponse]()
	session := newCallSession(token, q.Push)

	runnerCtx, cancelRunner := context.WithCancel(ctx)
	defer cancelRunner()

	g, gctx := errgroup.WithContext(runnerCtx)
	g.Go(func() error {
		defer q.Close()
		s.runTool(gctx, req, session)
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			// Cooperative cancellation: stop the runner and await its
			// cancellation-acknowledgement, swallowing it (spec §5). runTool
			// may still enqueue a terminal frame after cancellation (it
			// observes ctx.Err() asynchronously); drain the queue so its
			// internal pump goroutine isn't left blocked flushing to a
			// consumer that's stopped listening.
			cancelRunner()
			_ = g.Wait()
			drainQueue(q)
			return status.FromContextError(ctx.Err()).Err()
		case frame, ok := <-q.C():
			if !ok {
				return g.Wait()
			}
			if err := stream.Send(frame); err != nil {
				cancelRunner()
				_ = g.Wait()
				drainQueue(q)
				return err
			}
		}
	}
}

// drainQueue reads q.C() to completion. Called after the runner has already
// been cancelled and awaited, so Close has been (or is about to be) called
// and this returns once every buffered frame has been flushed.
func drainQueue(q *queue.Unbounded[*mcppb.CallToolResponse]) {
	for range q.C() {
	}
}

// runTool is the tool-runner task (spec §4.D step 3): looks up the tool,
// invokes the registry, normalizes the result, and enqueues exactly one
// terminal frame (success or error). Progress frames the tool reports
// during execution are enqueued independently through session.
func (s *Servicer) runTool(ctx context.Context, req *mcppb.CallToolRequest, session *callSession) {
	tool, ok, err := s.toolDefs.lookup(ctx, s.registry, req.Name)
	if err != nil {
		session.enqueue(errorFrame(fmt.Sprintf("Error executing tool %s: %s", req.Name, err)))
		return
	}
	if !ok {
		session.enqueue(errorFrame(fmt.Sprintf("Tool '%s' not found.", req.Name)))
		return
	}

	args := convert.StructuredFromWire(req.Arguments)

	ret, err := s.registry.CallTool(ctx, req.Name, args, session)
	if err != nil {
		session.enqueue(errorFrame(fmt.Sprintf("Error executing tool %s: %s", req.Name, err)))
		return
	}

	result, err := convert.NormalizeToolResult(tool, ret)
	if err != nil {
		session.enqueue(errorFrame(err.Error()))
		return
	}

	content, err := convert.ContentBlocksToWire(result.Content)
	if err != nil {
		session.enqueue(errorFrame(fmt.Sprintf("Error executing tool %s: %s", req.Name, err)))
		return
	}
	structured, err := convert.StructuredToWire(result.Structured)
	if err != nil {
		session.enqueue(errorFrame(fmt.Sprintf("Error executing tool %s: %s", req.Name, err)))
		return
	}

	session.enqueue(&mcppb.CallToolResponse{Result: &mcppb.ResultFrame{
		Content:           content,
		StructuredContent: structured,
		IsError:           result.IsError,
	}})
}

func errorFrame(message string) *mcppb.CallToolResponse {
	return &mcppb.CallToolResponse{Result: &mcppb.ResultFrame{
		Content: []*mcppb.Content{{Text: &mcppb.TextContent{Text: message}}},
		IsError: true,
	}}
}

func formatToken(token int64) string { return strconv.FormatInt(token, 10) }

func parseToken(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
