package client_test

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/JeffreyRichter/mcpgrpc/client"
	"github.com/JeffreyRichter/mcpgrpc/internal/versiongate"
	"github.com/JeffreyRichter/mcpgrpc/mcp"
	"github.com/JeffreyRichter/mcpgrpc/mcppb"
	"github.com/JeffreyRichter/mcpgrpc/server"
	"github.com/JeffreyRichter/mcpgrpc/server/memregistry"
)

func dialSession(t *testing.T, opts client.Options) (*client.Session, func()) {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	grpcSrv := grpc.NewServer(
		grpc.ForceServerCodec(mcppb.Codec{}),
		grpc.UnaryInterceptor(versiongate.UnaryServerInterceptor()),
		grpc.StreamInterceptor(versiongate.StreamServerInterceptor()),
	)
	mcppb.RegisterMcpServer(grpcSrv, server.NewServicer(memregistry.New()))
	go grpcSrv.Serve(lis)

	opts.DialOptions = append(opts.DialOptions,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	sess, err := client.Dial("passthrough:///bufnet", opts)
	require.NoError(t, err)
	return sess, func() { sess.Close(); grpcSrv.Stop() }
}

func TestSession_ListTools(t *testing.T) {
	sess, closeFn := dialSession(t, client.Options{})
	defer closeFn()

	tools, err := sess.ListTools(context.Background())
	require.NoError(t, err)
	var names []string
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	assert.Contains(t, names, "greet")
	assert.Contains(t, names, "download_file")
}

func TestSession_CallTool_Greet(t *testing.T) { // spec scenario S1
	sess, closeFn := dialSession(t, client.Options{})
	defer closeFn()

	result, err := sess.CallTool(context.Background(), "greet", map[string]any{"name": "World"}, client.CallToolOptions{})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "Hello, World! Welcome to the Simple gRPC Server!", result.Content[0].Text)
	assert.Equal(t, "Hello, World! Welcome to the Simple gRPC Server!", result.Structured["result"])
}

func TestSession_CallTool_TestTool(t *testing.T) { // spec scenario S2
	sess, closeFn := dialSession(t, client.Options{})
	defer closeFn()

	result, err := sess.CallTool(context.Background(), "test_tool", map[string]any{"a": 1.0, "b": 2.0}, client.CallToolOptions{})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "3", result.Content[0].Text)
	assert.Equal(t, 3.0, result.Structured["result"])
}

func TestSession_CallTool_NonExistent(t *testing.T) { // spec scenario S3
	sess, closeFn := dialSession(t, client.Options{})
	defer closeFn()

	result, err := sess.CallTool(context.Background(), "non_existent", map[string]any{}, client.CallToolOptions{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, "Tool 'non_existent' not found.")
}

func TestSession_CallTool_GreetInvalidArgument(t *testing.T) { // spec scenario S4
	sess, closeFn := dialSession(t, client.Options{})
	defer closeFn()

	result, err := sess.CallTool(context.Background(), "greet", map[string]any{"name": 123.0}, client.CallToolOptions{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	msg := result.Content[0].Text
	assert.Contains(t, msg, "validation error")
	assert.Contains(t, msg, "Input should be a valid string")
}

func TestSession_ReadResource_Hello(t *testing.T) { // spec scenario S5
	sess, closeFn := dialSession(t, client.Options{})
	defer closeFn()

	contents, err := sess.ReadResource(context.Background(), "test://hello")
	require.NoError(t, err)
	require.Len(t, contents, 1)
	require.True(t, contents[0].IsText())
	assert.Equal(t, "Hello from resource!", *contents[0].Text)
}

func TestSession_ReadResource_NotFound(t *testing.T) { // spec scenario S6
	sess, closeFn := dialSession(t, client.Options{})
	defer closeFn()

	_, err := sess.ReadResource(context.Background(), "test://nonexistent")
	require.Error(t, err)
	var mcpErr *mcp.Error
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, mcp.CodeResourceNotFound, mcpErr.Code)
}

func TestSession_CallTool_DownloadFileReportsProgress(t *testing.T) { // spec scenario S7
	sess, closeFn := dialSession(t, client.Options{})
	defer closeFn()

	var progressCount int
	cb := func(n mcp.ProgressNotification) {
		progressCount++
		assert.GreaterOrEqual(t, n.Progress, 0.0)
		assert.LessOrEqual(t, n.Progress, 1.0)
	}
	result, err := sess.CallTool(context.Background(), "download_file",
		map[string]any{"filename": "f", "size_mb": 0.1},
		client.CallToolOptions{ProgressCallback: cb})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.GreaterOrEqual(t, progressCount, 1)
}

func TestSession_CallTool_Cancellation(t *testing.T) { // spec testable property 10
	sess, closeFn := dialSession(t, client.Options{})
	defer closeFn()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := sess.CallTool(ctx, "blocking_tool", map[string]any{}, client.CallToolOptions{})
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		var mcpErr *mcp.Error
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, mcp.CodeRequestCancelled, mcpErr.Code)
	case <-time.After(2 * time.Second):
		t.Fatal("CallTool did not return after cancellation")
	}
}

func TestSession_CallTool_Timeout(t *testing.T) { // spec testable property 11
	sess, closeFn := dialSession(t, client.Options{})
	defer closeFn()

	_, err := sess.CallTool(context.Background(), "blocking_tool", map[string]any{},
		client.CallToolOptions{Timeout: 20 * time.Millisecond})
	require.Error(t, err)
	var mcpErr *mcp.Error
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, mcp.CodeRequestTimeout, mcpErr.Code)
	assert.Contains(t, mcpErr.Message, "Timed out while waiting for response to CallTool.")
}

// versionFlipServer rejects the first attempt at each RPC with UNIMPLEMENTED
// and an older supported version in the response header, then succeeds on
// the next attempt — standing in for a server that has rolled back to an
// earlier protocol version, to exercise the client's one-shot retry.
type versionFlipServer struct {
	mcppb.UnimplementedMcpServer
	oldVersion string

	mu        sync.Mutex
	listCalls int
	callCalls int
}

func (s *versionFlipServer) ListTools(ctx context.Context, _ *mcppb.ListToolsRequest) (*mcppb.ListToolsResponse, error) {
	s.mu.Lock()
	s.listCalls++
	first := s.listCalls == 1
	s.mu.Unlock()
	if first {
		_ = grpc.SendHeader(ctx, metadata.Pairs(mcp.ProtocolVersionMetadataKey, s.oldVersion))
		return nil, status.Error(codes.Unimplemented, "protocol version rolled back")
	}
	return &mcppb.ListToolsResponse{}, nil
}

func (s *versionFlipServer) CallTool(stream mcppb.Mcp_CallToolServer) error {
	if _, err := stream.Recv(); err != nil {
		return err
	}
	s.mu.Lock()
	s.callCalls++
	first := s.callCalls == 1
	s.mu.Unlock()
	if first {
		_ = stream.SendHeader(metadata.Pairs(mcp.ProtocolVersionMetadataKey, s.oldVersion))
		return status.Error(codes.Unimplemented, "protocol version rolled back")
	}
	return stream.Send(&mcppb.CallToolResponse{Result: &mcppb.ResultFrame{
		Content: []*mcppb.Content{{Text: &mcppb.TextContent{Text: "ok"}}},
	}})
}

func dialVersionFlipSession(t *testing.T, srv *versionFlipServer) (*client.Session, func()) {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	grpcSrv := grpc.NewServer(grpc.ForceServerCodec(mcppb.Codec{}))
	mcppb.RegisterMcpServer(grpcSrv, srv)
	go grpcSrv.Serve(lis)

	sess, err := client.Dial("passthrough:///bufnet", client.Options{
		DialOptions: []grpc.DialOption{
			grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		},
	})
	require.NoError(t, err)
	return sess, func() { sess.Close(); grpcSrv.Stop() }
}

func TestSession_ListTools_RetriesOnceOnVersionMismatch(t *testing.T) { // spec testable property 7
	srv := &versionFlipServer{oldVersion: mcp.SupportedVersions[0]}
	sess, closeFn := dialVersionFlipSession(t, srv)
	defer closeFn()

	_, err := sess.ListTools(context.Background())
	require.NoError(t, err)
	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Equal(t, 2, srv.listCalls, "expected exactly one retry after the version-mismatch UNIMPLEMENTED")
}

func TestSession_CallTool_RetriesOnceOnVersionMismatch(t *testing.T) { // spec testable property 7
	srv := &versionFlipServer{oldVersion: mcp.SupportedVersions[0]}
	sess, closeFn := dialVersionFlipSession(t, srv)
	defer closeFn()

	result, err := sess.CallTool(context.Background(), "greet", map[string]any{"name": "World"}, client.CallToolOptions{})
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Content[0].Text)
	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Equal(t, 2, srv.callCalls, "expected exactly one retry after the version-mismatch UNIMPLEMENTED")
}
