package mcppb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// McpClient is the client API for the Mcp service, in the shape
// protoc-gen-go-grpc would emit.
type McpClient interface {
	ListResources(ctx context.Context, in *ListResourcesRequest, opts ...grpc.CallOption) (*ListResourcesResponse, error)
	ListResourceTemplates(ctx context.Context, in *ListResourceTemplatesRequest, opts ...grpc.CallOption) (*ListResourceTemplatesResponse, error)
	ListTools(ctx context.Context, in *ListToolsRequest, opts ...grpc.CallOption) (*ListToolsResponse, error)
	ReadResource(ctx context.Context, in *ReadResourceRequest, opts ...grpc.CallOption) (*ReadResourceResponse, error)
	CallTool(ctx context.Context, opts ...grpc.CallOption) (Mcp_CallToolClient, error)
}

type mcpClient struct {
	cc grpc.ClientConnInterface
}

func NewMcpClient(cc grpc.ClientConnInterface) McpClient { return &mcpClient{cc} }

func (c *mcpClient) ListResources(ctx context.Context, in *ListResourcesRequest, opts ...grpc.CallOption) (*ListResourcesResponse, error) {
	out := new(ListResourcesResponse)
	if err := c.cc.Invoke(ctx, "/mcp.v1.Mcp/ListResources", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mcpClient) ListResourceTemplates(ctx context.Context, in *ListResourceTemplatesRequest, opts ...grpc.CallOption) (*ListResourceTemplatesResponse, error) {
	out := new(ListResourceTemplatesResponse)
	if err := c.cc.Invoke(ctx, "/mcp.v1.Mcp/ListResourceTemplates", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mcpClient) ListTools(ctx context.Context, in *ListToolsRequest, opts ...grpc.CallOption) (*ListToolsResponse, error) {
	out := new(ListToolsResponse)
	if err := c.cc.Invoke(ctx, "/mcp.v1.Mcp/ListTools", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mcpClient) ReadResource(ctx context.Context, in *ReadResourceRequest, opts ...grpc.CallOption) (*ReadResourceResponse, error) {
	out := new(ReadResourceResponse)
	if err := c.cc.Invoke(ctx, "/mcp.v1.Mcp/ReadResource", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mcpClient) CallTool(ctx context.Context, opts ...grpc.CallOption) (Mcp_CallToolClient, error) {
	stream, err := c.cc.(grpc.ClientConnInterface).NewStream(ctx, &Mcp_ServiceDesc.Streams[0], "/mcp.v1.Mcp/CallTool", opts...)
	if err != nil {
		return nil, err
	}
	return &mcpCallToolClient{stream}, nil
}

// Mcp_CallToolClient is the client-side stream handle for CallTool.
type Mcp_CallToolClient interface {
	Send(*CallToolRequest) error
	Recv() (*CallToolResponse, error)
	grpc.ClientStream
}

type mcpCallToolClient struct{ grpc.ClientStream }

func (x *mcpCallToolClient) Send(m *CallToolRequest) error  { return x.ClientStream.SendMsg(m) }
func (x *mcpCallToolClient) Recv() (*CallToolResponse, error) {
	m := new(CallToolResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// McpServer is the server API for the Mcp service.
type McpServer interface {
	ListResources(context.Context, *ListResourcesRequest) (*ListResourcesResponse, error)
	ListResourceTemplates(context.Context, *ListResourceTemplatesRequest) (*ListResourceTemplatesResponse, error)
	ListTools(context.Context, *ListToolsRequest) (*ListToolsResponse, error)
	ReadResource(context.Context, *ReadResourceRequest) (*ReadResourceResponse, error)
	CallTool(Mcp_CallToolServer) error
}

// UnimplementedMcpServer can be embedded to satisfy McpServer for servers
// that only implement a subset of the RPCs, matching the protoc-gen-go-grpc
// forward-compatibility convention.
type UnimplementedMcpServer struct{}

func (UnimplementedMcpServer) ListResources(context.Context, *ListResourcesRequest) (*ListResourcesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListResources not implemented")
}
func (UnimplementedMcpServer) ListResourceTemplates(context.Context, *ListResourceTemplatesRequest) (*ListResourceTemplatesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListResourceTemplates not implemented")
}
func (UnimplementedMcpServer) ListTools(context.Context, *ListToolsRequest) (*ListToolsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListTools not implemented")
}
func (UnimplementedMcpServer) ReadResource(context.Context, *ReadResourceRequest) (*ReadResourceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ReadResource not implemented")
}
func (UnimplementedMcpServer) CallTool(Mcp_CallToolServer) error {
	return status.Error(codes.Unimplemented, "method CallTool not implemented")
}

// Mcp_CallToolServer is the server-side stream handle for CallTool.
type Mcp_CallToolServer interface {
	Send(*CallToolResponse) error
	Recv() (*CallToolRequest, error)
	grpc.ServerStream
}

type mcpCallToolServer struct{ grpc.ServerStream }

func (x *mcpCallToolServer) Send(m *CallToolResponse) error { return x.ServerStream.SendMsg(m) }
func (x *mcpCallToolServer) Recv() (*CallToolRequest, error) {
	m := new(CallToolRequest)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func RegisterMcpServer(s grpc.ServiceRegistrar, srv McpServer) {
	s.RegisterService(&Mcp_ServiceDesc, srv)
}

func _Mcp_ListResources_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListResourcesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(McpServer).ListResources(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/mcp.v1.Mcp/ListResources"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(McpServer).ListResources(ctx, req.(*ListResourcesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Mcp_ListResourceTemplates_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListResourceTemplatesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(McpServer).ListResourceTemplates(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/mcp.v1.Mcp/ListResourceTemplates"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(McpServer).ListResourceTemplates(ctx, req.(*ListResourceTemplatesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Mcp_ListTools_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListToolsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(McpServer).ListTools(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/mcp.v1.Mcp/ListTools"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(McpServer).ListTools(ctx, req.(*ListToolsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Mcp_ReadResource_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ReadResourceRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(McpServer).ReadResource(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/mcp.v1.Mcp/ReadResource"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(McpServer).ReadResource(ctx, req.(*ReadResourceRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Mcp_CallTool_Handler(srv any, stream grpc.ServerStream) error {
	return srv.(McpServer).CallTool(&mcpCallToolServer{stream})
}

// Mcp_ServiceDesc is the grpc.ServiceDesc for the Mcp service, matching the
// shape RegisterMcpServer and McpClient's streaming constructor rely on.
var Mcp_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "mcp.v1.Mcp",
	HandlerType: (*McpServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListResources", Handler: _Mcp_ListResources_Handler},
		{MethodName: "ListResourceTemplates", Handler: _Mcp_ListResourceTemplates_Handler},
		{MethodName: "ListTools", Handler: _Mcp_ListTools_Handler},
		{MethodName: "ReadResource", Handler: _Mcp_ReadResource_Handler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "CallTool",
			Handler:       _Mcp_CallTool_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "proto/mcp.proto",
}
