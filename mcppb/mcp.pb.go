// Package mcppb holds the wire messages and service stubs for the Mcp
// gRPC service defined in proto/mcp.proto.
//
// This exercise has no protoc available, so these types are hand-authored
// rather than generated. Two constraints shaped the approach (see
// DESIGN.md): (1) fields that spec §4.A explicitly routes through
// protobuf's well-known types — JSON Schemas and structured tool content as
// google.protobuf.Struct, catalog TTLs as google.protobuf.Duration — use
// the real, precompiled google.golang.org/protobuf/types/known packages,
// which already carry full protobuf reflection support with no codegen
// step required; (2) the enclosing request/response envelopes, which would
// otherwise need a hand-assembled FileDescriptorProto and MessageInfo
// tables to satisfy google.golang.org/protobuf's proto.Message interface,
// are instead plain Go structs marshaled by the JSON codec in codec.go
// (registered on both ends via grpc.ForceCodec), so every field below
// carries ordinary `json:` tags rather than `protobuf:` tags.
package mcppb

import (
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
)

type Annotations struct {
	Audience []string `json:"audience,omitempty"`
	Priority *float64 `json:"priority,omitempty"`
}

type Resource struct {
	Name        string       `json:"name"`
	Title       string       `json:"title,omitempty"`
	Uri         string       `json:"uri"`
	Description string       `json:"description,omitempty"`
	MimeType    string       `json:"mimeType,omitempty"`
	Size        *int64       `json:"size,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

type ResourceTemplate struct {
	Name        string       `json:"name"`
	Title       string       `json:"title,omitempty"`
	UriTemplate string       `json:"uriTemplate"`
	Description string       `json:"description,omitempty"`
	MimeType    string       `json:"mimeType,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

type Tool struct {
	Name         string           `json:"name"`
	Title        string           `json:"title,omitempty"`
	Description  string           `json:"description,omitempty"`
	InputSchema  *structpb.Struct `json:"inputSchema,omitempty"`
	OutputSchema *structpb.Struct `json:"outputSchema,omitempty"`
}

type TextResourceContents struct {
	Uri      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

type BlobResourceContents struct {
	Uri      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Blob     []byte `json:"blob"`
}

// ResourceContents is a text-xor-blob union; exactly one of Text or Blob is
// set.
type ResourceContents struct {
	Text *TextResourceContents `json:"text,omitempty"`
	Blob *BlobResourceContents `json:"blob,omitempty"`
}

type ResourceLink struct {
	Uri  string `json:"uri"`
	Name string `json:"name,omitempty"`
}

type EmbeddedResource struct {
	Resource    *ResourceContents `json:"resource"`
	Annotations *Annotations      `json:"annotations,omitempty"`
}

type TextContent struct {
	Text        string       `json:"text"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

type ImageContent struct {
	Data        []byte       `json:"data"`
	MimeType    string       `json:"mimeType"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

type AudioContent struct {
	Data        []byte       `json:"data"`
	MimeType    string       `json:"mimeType"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

// Content is a one-of over {text, image, audio, embedded_resource,
// resource_link}; exactly one field is non-nil (spec §6).
type Content struct {
	Text             *TextContent      `json:"text,omitempty"`
	Image            *ImageContent     `json:"image,omitempty"`
	Audio            *AudioContent     `json:"audio,omitempty"`
	EmbeddedResource *EmbeddedResource `json:"embeddedResource,omitempty"`
	ResourceLink     *ResourceLink     `json:"resourceLink,omitempty"`
}

type ListResourcesRequest struct {
	Cursor *string `json:"cursor,omitempty"`
}

type ListResourcesResponse struct {
	Resources []*Resource          `json:"resources"`
	Ttl       *durationpb.Duration `json:"ttl"`
}

type ListResourceTemplatesRequest struct {
	Cursor *string `json:"cursor,omitempty"`
}

type ListResourceTemplatesResponse struct {
	ResourceTemplates []*ResourceTemplate  `json:"resourceTemplates"`
	Ttl               *durationpb.Duration `json:"ttl"`
}

type ListToolsRequest struct {
	Cursor *string `json:"cursor,omitempty"`
}

type ListToolsResponse struct {
	Tools []*Tool              `json:"tools"`
	Ttl   *durationpb.Duration `json:"ttl"`
}

type ReadResourceRequest struct {
	Uri string `json:"uri"`
}

type ReadResourceResponse struct {
	Contents []*ResourceContents `json:"contents"`
}

type CallToolRequest struct {
	Name          string           `json:"name"`
	Arguments     *structpb.Struct `json:"arguments,omitempty"`
	ProgressToken *string          `json:"progressToken,omitempty"`
}

type ProgressFrame struct {
	Token    string   `json:"token"`
	Progress float64  `json:"progress"`
	Total    *float64 `json:"total,omitempty"`
	Message  string   `json:"message,omitempty"`
}

type ResultFrame struct {
	Content           []*Content       `json:"content"`
	StructuredContent *structpb.Struct `json:"structuredContent,omitempty"`
	IsError           bool             `json:"isError,omitempty"`
}

// CallToolResponse is a one-of over {progress, result}; exactly one field
// is non-nil per streamed frame (spec §6).
type CallToolResponse struct {
	Progress *ProgressFrame `json:"progress,omitempty"`
	Result   *ResultFrame   `json:"result,omitempty"`
}
