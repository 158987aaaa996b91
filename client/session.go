package client

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/JeffreyRichter/mcpgrpc/internal/convert"
	"github.com/JeffreyRichter/mcpgrpc/mcp"
	"github.com/JeffreyRichter/mcpgrpc/mcppb"
)

// MessageHandler receives the synthetic server-notifications the session
// fabricates locally when a catalog cache's TTL expires (spec §4.F
// Construction: "synthetic tools/list_changed and resources/list_changed
// server-notifications fabricated when a client cache TTL expires").
type MessageHandler func(method string)

// ProgressCallback receives progress frames for a single in-flight call
// (spec §4.F call_tool step 1).
type ProgressCallback func(mcp.ProgressNotification)

// Options configures Dial. All fields are optional.
type Options struct {
	// DefaultTimeout bounds CallTool when the per-call override is zero.
	// Zero means unbounded, matching spec §4.F ("None means no deadline").
	DefaultTimeout time.Duration
	MessageHandler MessageHandler
	DialOptions    []grpc.DialOption
}

// Session is the client-side half of the transport: a gRPC channel plus the
// negotiated-version state machine, catalog caches, and in-flight call
// bookkeeping (spec §4.F, §5 "Shared resources").
type Session struct {
	conn   *grpc.ClientConn
	client mcppb.McpClient

	mu                sync.Mutex
	negotiatedVersion string
	requestCounter    atomic.Int64
	progressCallbacks map[int64]ProgressCallback
	runningCalls      map[int64]context.CancelFunc

	caches         *catalogCaches
	messageHandler MessageHandler
	defaultTimeout time.Duration
}

// Dial opens a channel to target and constructs a Session starting with
// negotiated_version = latest (spec §4.F Construction).
func Dial(target string, opts Options) (*Session, error) {
	dialOpts := append([]grpc.DialOption{
		grpc.WithDefaultCallOptions(grpc.ForceCodec(mcppb.Codec{})),
	}, opts.DialOptions...)

	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, err
	}

	s := &Session{
		conn:              conn,
		client:            mcppb.NewMcpClient(conn),
		negotiatedVersion: mcp.LatestVersion(),
		progressCallbacks: make(map[int64]ProgressCallback),
		runningCalls:      make(map[int64]context.CancelFunc),
		messageHandler:    opts.MessageHandler,
		defaultTimeout:    opts.DefaultTimeout,
	}
	s.caches = newCatalogCaches(
		func() { s.notify("notifications/tools/list_changed") },
		func() { s.notify("notifications/resources/list_changed") },
		func() { s.notify("notifications/resources/list_changed") },
	)
	return s, nil
}

func (s *Session) notify(method string) {
	if s.messageHandler != nil {
		s.messageHandler(method)
	}
}

// Close cancels all catalog cache timers and closes the channel (spec §4.F
// close). Idempotent.
func (s *Session) Close() error {
	s.caches.cancelAll()
	return s.conn.Close()
}

func (s *Session) version() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.negotiatedVersion
}

func (s *Session) setVersion(v string) {
	s.mu.Lock()
	s.negotiatedVersion = v
	s.mu.Unlock()
}

// unaryCall implements the retry-at-most-once-on-version-mismatch wrapper
// shared by every unary RPC (spec §4.F "Unary call wrapper").
func (s *Session) unaryCall(ctx context.Context, extraMD metadata.MD, invoke func(ctx context.Context, header *metadata.MD) error) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		md := metadata.Join(extraMD, metadata.Pairs(mcp.ProtocolVersionMetadataKey, s.version()))
		outCtx := metadata.NewOutgoingContext(ctx, md)

		var header metadata.MD
		err := invoke(outCtx, &header)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == 0 {
			if st, ok := status.FromError(err); ok && st.Code() == codes.Unimplemented {
				if v := header.Get(mcp.ProtocolVersionMetadataKey); len(v) > 0 && mcp.IsSupportedVersion(v[0]) {
					s.setVersion(v[0])
					continue
				}
			}
		}
		return lastErr
	}
	return lastErr
}

// ListTools calls through the wrapper, converts the response, and
// populates the tools cache with the server-chosen TTL.
func (s *Session) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	var resp *mcppb.ListToolsResponse
	err := s.unaryCall(ctx, nil, func(ctx context.Context, header *metadata.MD) error {
		r, err := s.client.ListTools(ctx, &mcppb.ListToolsRequest{}, grpc.Header(header))
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, translateStatusError(err, "ListTools")
	}

	tools := make([]mcp.Tool, 0, len(resp.Tools))
	for _, w := range resp.Tools {
		tools = append(tools, convert.ToolFromWire(w))
	}
	s.caches.tools.Set(tools, convert.DurationFromProto(resp.Ttl))
	return tools, nil
}

// ListResources calls through the wrapper and populates the resources
// cache.
func (s *Session) ListResources(ctx context.Context) ([]mcp.Resource, error) {
	var resp *mcppb.ListResourcesResponse
	err := s.unaryCall(ctx, nil, func(ctx context.Context, header *metadata.MD) error {
		r, err := s.client.ListResources(ctx, &mcppb.ListResourcesRequest{}, grpc.Header(header))
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, translateStatusError(err, "ListResources")
	}

	resources := make([]mcp.Resource, 0, len(resp.Resources))
	for _, w := range resp.Resources {
		resources = append(resources, convert.ResourceFromWire(w))
	}
	s.caches.resources.Set(resources, convert.DurationFromProto(resp.Ttl))
	return resources, nil
}

// ListResourceTemplates calls through the wrapper and populates the
// resource-templates cache.
func (s *Session) ListResourceTemplates(ctx context.Context) ([]mcp.ResourceTemplate, error) {
	var resp *mcppb.ListResourceTemplatesResponse
	err := s.unaryCall(ctx, nil, func(ctx context.Context, header *metadata.MD) error {
		r, err := s.client.ListResourceTemplates(ctx, &mcppb.ListResourceTemplatesRequest{}, grpc.Header(header))
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, translateStatusError(err, "ListResourceTemplates")
	}

	templates := make([]mcp.ResourceTemplate, 0, len(resp.ResourceTemplates))
	for _, w := range resp.ResourceTemplates {
		templates = append(templates, convert.ResourceTemplateFromWire(w))
	}
	s.caches.resourceTemplates.Set(templates, convert.DurationFromProto(resp.Ttl))
	return templates, nil
}

// ReadResource calls through the wrapper with mcp-resource-uri set in
// metadata (spec §4.F read_resource).
func (s *Session) ReadResource(ctx context.Context, uri string) ([]mcp.ResourceContents, error) {
	var resp *mcppb.ReadResourceResponse
	extraMD := metadata.Pairs(mcp.ResourceURIMetadataKey, uri)
	err := s.unaryCall(ctx, extraMD, func(ctx context.Context, header *metadata.MD) error {
		r, err := s.client.ReadResource(ctx, &mcppb.ReadResourceRequest{Uri: uri}, grpc.Header(header))
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, translateStatusError(err, "ReadResource")
	}

	contents := make([]mcp.ResourceContents, 0, len(resp.Contents))
	for _, w := range resp.Contents {
		rc, err := convert.ResourceContentsFromWire(w)
		if err != nil {
			return nil, parseError("ReadResource", err)
		}
		contents = append(contents, rc)
	}
	return contents, nil
}

// SendNotification dispatches a client-to-transport notification. Only
// cancellation is meaningful on this transport (spec §4.F send_notification
// / §5 Cancellation): other kinds are logged to the message handler and
// dropped.
func (s *Session) SendNotification(method string, requestID int64) {
	if method != "notifications/cancelled" {
		s.notify(method)
		return
	}
	s.mu.Lock()
	cancel, ok := s.runningCalls[requestID]
	s.mu.Unlock()
	if ok {
		cancel()
	}
}
