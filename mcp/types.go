// Package mcp defines the protocol-level data model shared by the gRPC
// client and server transports: tools, resources, resource templates, and
// the content-block algebra tool results are built from. These types are
// what the content codec (internal/convert) converts to and from the wire
// protobuf messages in mcppb.
package mcp

// BaseMetadata is embedded by every named catalog entry.
type BaseMetadata struct {
	Name  string
	Title string // empty means unset
}

// JSONSchema is a minimal draft-compatible JSON Schema object, materialized
// from the protobuf Struct carried on the wire (spec: "JSON Schemas travel
// as protobuf Struct and are materialized as JSON objects on the protocol
// side").
type JSONSchema map[string]any

// Empty reports whether the schema carries no constraints, which the codec
// treats as "no schema defined."
func (s JSONSchema) Empty() bool { return len(s) == 0 }

// Role is the audience for an annotated content block or resource.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Annotations carries optional audience/priority hints for a resource or
// content block.
type Annotations struct {
	Audience []Role
	Priority *float64 // nil means unset; when set, in [0,1]
}

// Tool is a named, schema-described callable operation.
type Tool struct {
	BaseMetadata
	Description  string
	InputSchema  JSONSchema
	OutputSchema JSONSchema // Empty() when the tool declares no output schema
}

// Resource is a URI-addressed readable artifact.
type Resource struct {
	BaseMetadata
	URI         string
	Description string
	MimeType    string
	Size        *int64
	Annotations *Annotations
}

// ResourceTemplate is a URI-templated family of resources.
type ResourceTemplate struct {
	BaseMetadata
	URITemplate string
	Description string
	MimeType    string
	Annotations *Annotations
}

// ContentBlock is the tagged variant over a tool's or resource's content:
// text, image, audio, an embedded resource, or a resource link. Exactly one
// of the Kind-specific fields is meaningful for a given Kind.
type ContentBlock struct {
	Kind ContentKind

	// Text holds the content for KindText.
	Text string

	// Data holds the base64-encoded payload for KindImage/KindAudio, matching
	// the protocol surface (MCP's ImageContent/AudioContent carry base64
	// strings; internal/convert decodes to/from raw bytes at the wire
	// boundary, spec §4.A items 2-3).
	Data     string
	MimeType string // meaningful for KindImage, KindAudio, KindEmbeddedResource

	// EmbeddedResource is set for KindEmbeddedResource.
	EmbeddedResource *ResourceContents

	// ResourceLink fields, meaningful for KindResourceLink.
	LinkURI  string
	LinkName string

	Annotations *Annotations
}

// ContentKind tags the variant a ContentBlock carries.
type ContentKind int

const (
	KindText ContentKind = iota
	KindImage
	KindAudio
	KindEmbeddedResource
	KindResourceLink
)

// ResourceContents is a single fragment read from a resource: either text
// or a binary blob, identified by URI and MIME type. Exactly one of Text or
// Blob is set (text-or-blob-exclusive-or per spec).
type ResourceContents struct {
	URI      string
	MimeType string
	Text     *string
	Blob     *string // base64-encoded, matching BlobResourceContents.blob on the protocol surface
}

// IsText reports whether this fragment carries text (as opposed to a blob).
func (r ResourceContents) IsText() bool { return r.Text != nil }

// CallToolResult is the normalized outcome of a tool invocation: an ordered
// sequence of content blocks, optional structured JSON content, and an
// error flag. The surrounding RPC stream succeeds even when IsError is
// true — callers inspect IsError, per spec §7 category 2.
type CallToolResult struct {
	Content    []ContentBlock
	Structured map[string]any // nil means no structured content
	IsError    bool
}

func TextResult(text string) CallToolResult {
	return CallToolResult{Content: []ContentBlock{{Kind: KindText, Text: text}}}
}

func ErrorResult(message string) CallToolResult {
	return CallToolResult{Content: []ContentBlock{{Kind: KindText, Text: message}}, IsError: true}
}

// ProgressNotification correlates an in-flight tool call's progress to its
// request id (the "token" on the wire, treated as integer-preferred by
// callers per spec §3).
type ProgressNotification struct {
	Token    int64
	Progress float64
	Total    *float64
	Message  string
}
