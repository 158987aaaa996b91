// Package versiongate implements the Protocol Version Gate (spec §4.C): a
// gRPC interceptor pair applied uniformly to every RPC that validates the
// mcp-protocol-version metadata key before the handler runs.
//
// Grounded on svrcore's Policy middleware-chain idiom (svrcore/svrcore.go,
// svrcore/policies/*.go) — a single decorator wrapping every route handler —
// generalized from an http.Handler chain to grpc.UnaryServerInterceptor /
// grpc.StreamServerInterceptor, gRPC's idiomatic equivalent.
package versiongate

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/JeffreyRichter/mcpgrpc/mcp"
)

// check inspects incoming metadata for mcp-protocol-version (spec §4.C):
//
//   - absent: send the server's latest version in initial metadata, fail
//     with UNIMPLEMENTED.
//   - present but unsupported: same, message names the offending version.
//   - present and supported: echo it back in initial metadata, proceed.
func check(ctx context.Context, sendHeader func(metadata.MD) error) error {
	md, _ := metadata.FromIncomingContext(ctx)
	versions := md.Get(mcp.ProtocolVersionMetadataKey)

	latest := mcp.LatestVersion()

	if len(versions) == 0 {
		_ = sendHeader(metadata.Pairs(mcp.ProtocolVersionMetadataKey, latest))
		return status.Errorf(codes.Unimplemented,
			"Protocol version not provided. Supported versions are: %s", supportedList())
	}

	v := versions[0]
	if !mcp.IsSupportedVersion(v) {
		_ = sendHeader(metadata.Pairs(mcp.ProtocolVersionMetadataKey, latest))
		return status.Errorf(codes.Unimplemented,
			"Unsupported protocol version: %s. Supported versions are: %s", v, supportedList())
	}

	return sendHeader(metadata.Pairs(mcp.ProtocolVersionMetadataKey, v))
}

func supportedList() string {
	s := ""
	for i, v := range mcp.SupportedVersions {
		if i > 0 {
			s += ", "
		}
		s += v
	}
	return s
}

// UnaryServerInterceptor gates the four unary RPCs (ListResources,
// ListResourceTemplates, ListTools, ReadResource).
func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if err := check(ctx, func(md metadata.MD) error { return grpc.SendHeader(ctx, md) }); err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// StreamServerInterceptor gates the streaming CallTool RPC.
func StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if err := check(ss.Context(), ss.SendHeader); err != nil {
			return err
		}
		return handler(srv, ss)
	}
}
