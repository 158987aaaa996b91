package versiongate_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/JeffreyRichter/mcpgrpc/internal/versiongate"
	"github.com/JeffreyRichter/mcpgrpc/mcp"
	"github.com/JeffreyRichter/mcpgrpc/mcppb"
)

type stubServer struct {
	mcppb.UnimplementedMcpServer
}

func (stubServer) ListTools(ctx context.Context, req *mcppb.ListToolsRequest) (*mcppb.ListToolsResponse, error) {
	return &mcppb.ListToolsResponse{}, nil
}

func dialGated(t *testing.T) (mcppb.McpClient, func()) {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer(
		grpc.ForceServerCodec(mcppb.Codec{}),
		grpc.UnaryInterceptor(versiongate.UnaryServerInterceptor()),
		grpc.StreamInterceptor(versiongate.StreamServerInterceptor()),
	)
	mcppb.RegisterMcpServer(srv, stubServer{})
	go srv.Serve(lis)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(mcppb.Codec{})),
	)
	require.NoError(t, err)

	return mcppb.NewMcpClient(conn), func() { conn.Close(); srv.Stop() }
}

func TestGate_MissingVersion(t *testing.T) {
	client, closeFn := dialGated(t)
	defer closeFn()

	var header metadata.MD
	_, err := client.ListTools(context.Background(), &mcppb.ListToolsRequest{}, grpc.Header(&header))
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.Unimplemented, st.Code())
	assert.Equal(t, []string{mcp.LatestVersion()}, header.Get(mcp.ProtocolVersionMetadataKey))
}

func TestGate_UnsupportedVersion(t *testing.T) {
	client, closeFn := dialGated(t)
	defer closeFn()

	ctx := metadata.AppendToOutgoingContext(context.Background(), mcp.ProtocolVersionMetadataKey, "1999-01-01")
	_, err := client.ListTools(ctx, &mcppb.ListToolsRequest{})
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.Unimplemented, st.Code())
	assert.Contains(t, st.Message(), "Unsupported protocol version")
}

func TestGate_SupportedVersionEchoed(t *testing.T) {
	client, closeFn := dialGated(t)
	defer closeFn()

	ctx := metadata.AppendToOutgoingContext(context.Background(), mcp.ProtocolVersionMetadataKey, mcp.LatestVersion())
	var header metadata.MD
	_, err := client.ListTools(ctx, &mcppb.ListToolsRequest{}, grpc.Header(&header))
	require.NoError(t, err)
	assert.Equal(t, []string{mcp.LatestVersion()}, header.Get(mcp.ProtocolVersionMetadataKey))
}
