// Package convert implements the Content Codec (spec §4.A): bidirectional
// conversion between the protocol data model (mcp package) and the wire
// protobuf-shaped messages (mcppb package), plus normalization and
// validation of a tool's return value into a mcp.CallToolResult.
//
// Grounded on the teacher's mcp/schema_methods.go conversion-helper shape
// and on original_source's src/mcp/shared/convert.py for the exact
// normalization/validation rules.
package convert

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JeffreyRichter/mcpgrpc/mcp"
	"github.com/JeffreyRichter/mcpgrpc/mcppb"
)

// DurationToProto converts a Go duration to the wire TTL representation
// (spec §4.A item 4).
func DurationToProto(d time.Duration) *durationpb.Duration {
	return durationpb.New(d)
}

// DurationFromProto converts a wire TTL back to a Go duration, preserving
// exact seconds and sub-second nanos (spec testable property 3).
func DurationFromProto(d *durationpb.Duration) time.Duration {
	if d == nil {
		return 0
	}
	return d.AsDuration()
}

func annotationsToWire(a *mcp.Annotations) *mcppb.Annotations {
	if a == nil {
		return nil
	}
	out := &mcppb.Annotations{Priority: a.Priority}
	for _, r := range a.Audience {
		out.Audience = append(out.Audience, string(r))
	}
	return out
}

func annotationsFromWire(a *mcppb.Annotations) *mcp.Annotations {
	if a == nil {
		return nil
	}
	out := &mcp.Annotations{Priority: a.Priority}
	for _, r := range a.Audience {
		out.Audience = append(out.Audience, mcp.Role(r))
	}
	return out
}

func schemaToStruct(s mcp.JSONSchema) (*structpb.Struct, error) {
	if s.Empty() {
		return nil, nil
	}
	st, err := structpb.NewStruct(s)
	if err != nil {
		return nil, fmt.Errorf("convert: encode JSON schema: %w", err)
	}
	return st, nil
}

func schemaFromStruct(s *structpb.Struct) mcp.JSONSchema {
	if s == nil {
		return nil
	}
	return s.AsMap()
}

// ToolToWire converts a Tool to its wire form (spec §4.A item 1).
func ToolToWire(t mcp.Tool) (*mcppb.Tool, error) {
	in, err := schemaToStruct(t.InputSchema)
	if err != nil {
		return nil, err
	}
	out, err := schemaToStruct(t.OutputSchema)
	if err != nil {
		return nil, err
	}
	return &mcppb.Tool{
		Name:         t.Name,
		Title:        t.Title,
		Description:  t.Description,
		InputSchema:  in,
		OutputSchema: out,
	}, nil
}

// ToolFromWire is the inverse of ToolToWire.
func ToolFromWire(w *mcppb.Tool) mcp.Tool {
	return mcp.Tool{
		BaseMetadata: mcp.BaseMetadata{Name: w.Name, Title: w.Title},
		Description:  w.Description,
		InputSchema:  schemaFromStruct(w.InputSchema),
		OutputSchema: schemaFromStruct(w.OutputSchema),
	}
}

// ResourceToWire converts a Resource to its wire form.
func ResourceToWire(r mcp.Resource) *mcppb.Resource {
	return &mcppb.Resource{
		Name:        r.Name,
		Title:       r.Title,
		Uri:         r.URI,
		Description: r.Description,
		MimeType:    r.MimeType,
		Size:        r.Size,
		Annotations: annotationsToWire(r.Annotations),
	}
}

// ResourceFromWire is the inverse of ResourceToWire.
func ResourceFromWire(w *mcppb.Resource) mcp.Resource {
	return mcp.Resource{
		BaseMetadata: mcp.BaseMetadata{Name: w.Name, Title: w.Title},
		URI:          w.Uri,
		Description:  w.Description,
		MimeType:     w.MimeType,
		Size:         w.Size,
		Annotations:  annotationsFromWire(w.Annotations),
	}
}

// ResourceTemplateToWire converts a ResourceTemplate to its wire form.
func ResourceTemplateToWire(r mcp.ResourceTemplate) *mcppb.ResourceTemplate {
	return &mcppb.ResourceTemplate{
		Name:        r.Name,
		Title:       r.Title,
		UriTemplate: r.URITemplate,
		Description: r.Description,
		MimeType:    r.MimeType,
		Annotations: annotationsToWire(r.Annotations),
	}
}

// ResourceTemplateFromWire is the inverse of ResourceTemplateToWire.
func ResourceTemplateFromWire(w *mcppb.ResourceTemplate) mcp.ResourceTemplate {
	return mcp.ResourceTemplate{
		BaseMetadata: mcp.BaseMetadata{Name: w.Name, Title: w.Title},
		URITemplate:  w.UriTemplate,
		Description:  w.Description,
		MimeType:     w.MimeType,
		Annotations:  annotationsFromWire(w.Annotations),
	}
}

// ResourceContentsToWire converts a resource fragment to its wire form,
// decoding its base64 blob payload to raw bytes (spec §4.A item 2).
func ResourceContentsToWire(rc mcp.ResourceContents) (*mcppb.ResourceContents, error) {
	switch {
	case rc.Text != nil:
		return &mcppb.ResourceContents{Text: &mcppb.TextResourceContents{
			Uri: rc.URI, MimeType: rc.MimeType, Text: *rc.Text,
		}}, nil
	case rc.Blob != nil:
		blob, err := base64.StdEncoding.DecodeString(*rc.Blob)
		if err != nil {
			return nil, fmt.Errorf("convert: decode resource blob: %w", err)
		}
		return &mcppb.ResourceContents{Blob: &mcppb.BlobResourceContents{
			Uri: rc.URI, MimeType: rc.MimeType, Blob: blob,
		}}, nil
	default:
		return nil, fmt.Errorf("convert: resource contents has neither text nor blob")
	}
}

// ResourceContentsFromWire is the inverse of ResourceContentsToWire,
// re-encoding the blob payload back to base64 (spec §4.A item 3).
func ResourceContentsFromWire(w *mcppb.ResourceContents) (mcp.ResourceContents, error) {
	switch {
	case w.Text != nil:
		text := w.Text.Text
		return mcp.ResourceContents{URI: w.Text.Uri, MimeType: w.Text.MimeType, Text: &text}, nil
	case w.Blob != nil:
		blob := base64.StdEncoding.EncodeToString(w.Blob.Blob)
		return mcp.ResourceContents{URI: w.Blob.Uri, MimeType: w.Blob.MimeType, Blob: &blob}, nil
	default:
		return mcp.ResourceContents{}, fmt.Errorf("convert: wire resource contents has neither text nor blob")
	}
}

// ContentBlockToWire converts a single content block to its wire form,
// decoding base64 image/audio/blob payloads to raw bytes (spec §4.A item 2).
func ContentBlockToWire(c mcp.ContentBlock) (*mcppb.Content, error) {
	ann := annotationsToWire(c.Annotations)
	switch c.Kind {
	case mcp.KindText:
		return &mcppb.Content{Text: &mcppb.TextContent{Text: c.Text, Annotations: ann}}, nil
	case mcp.KindImage:
		data, err := base64.StdEncoding.DecodeString(c.Data)
		if err != nil {
			return nil, fmt.Errorf("convert: decode image content: %w", err)
		}
		return &mcppb.Content{Image: &mcppb.ImageContent{Data: data, MimeType: c.MimeType, Annotations: ann}}, nil
	case mcp.KindAudio:
		data, err := base64.StdEncoding.DecodeString(c.Data)
		if err != nil {
			return nil, fmt.Errorf("convert: decode audio content: %w", err)
		}
		return &mcppb.Content{Audio: &mcppb.AudioContent{Data: data, MimeType: c.MimeType, Annotations: ann}}, nil
	case mcp.KindEmbeddedResource:
		if c.EmbeddedResource == nil {
			return nil, fmt.Errorf("convert: embedded resource content block missing resource")
		}
		wireRC, err := ResourceContentsToWire(*c.EmbeddedResource)
		if err != nil {
			return nil, err
		}
		return &mcppb.Content{EmbeddedResource: &mcppb.EmbeddedResource{Resource: wireRC, Annotations: ann}}, nil
	case mcp.KindResourceLink:
		return &mcppb.Content{ResourceLink: &mcppb.ResourceLink{Uri: c.LinkURI, Name: c.LinkName}}, nil
	default:
		return nil, fmt.Errorf("convert: unknown content kind %v", c.Kind)
	}
}

// ContentBlockFromWire is the inverse of ContentBlockToWire, re-encoding
// image/audio/blob payloads back to base64 (spec §4.A item 3).
func ContentBlockFromWire(w *mcppb.Content) (mcp.ContentBlock, error) {
	switch {
	case w.Text != nil:
		return mcp.ContentBlock{Kind: mcp.KindText, Text: w.Text.Text, Annotations: annotationsFromWire(w.Text.Annotations)}, nil
	case w.Image != nil:
		return mcp.ContentBlock{
			Kind: mcp.KindImage, MimeType: w.Image.MimeType,
			Data:        base64.StdEncoding.EncodeToString(w.Image.Data),
			Annotations: annotationsFromWire(w.Image.Annotations),
		}, nil
	case w.Audio != nil:
		return mcp.ContentBlock{
			Kind: mcp.KindAudio, MimeType: w.Audio.MimeType,
			Data:        base64.StdEncoding.EncodeToString(w.Audio.Data),
			Annotations: annotationsFromWire(w.Audio.Annotations),
		}, nil
	case w.EmbeddedResource != nil:
		rc, err := ResourceContentsFromWire(w.EmbeddedResource.Resource)
		if err != nil {
			return mcp.ContentBlock{}, err
		}
		return mcp.ContentBlock{
			Kind: mcp.KindEmbeddedResource, EmbeddedResource: &rc,
			Annotations: annotationsFromWire(w.EmbeddedResource.Annotations),
		}, nil
	case w.ResourceLink != nil:
		return mcp.ContentBlock{Kind: mcp.KindResourceLink, LinkURI: w.ResourceLink.Uri, LinkName: w.ResourceLink.Name}, nil
	default:
		return mcp.ContentBlock{}, fmt.Errorf("convert: wire content has no recognized variant set")
	}
}

// ContentBlocksToWire converts a slice of content blocks to wire form.
func ContentBlocksToWire(blocks []mcp.ContentBlock) ([]*mcppb.Content, error) {
	out := make([]*mcppb.Content, 0, len(blocks))
	for _, b := range blocks {
		w, err := ContentBlockToWire(b)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

// ContentBlocksFromWire is the inverse of ContentBlocksToWire.
func ContentBlocksFromWire(wire []*mcppb.Content) ([]mcp.ContentBlock, error) {
	out := make([]mcp.ContentBlock, 0, len(wire))
	for _, w := range wire {
		b, err := ContentBlockFromWire(w)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// StructuredToWire converts structured tool content to a protobuf Struct.
func StructuredToWire(m map[string]any) (*structpb.Struct, error) {
	if m == nil {
		return nil, nil
	}
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("convert: encode structured content: %w", err)
	}
	return st, nil
}

// StructuredFromWire is the inverse of StructuredToWire.
func StructuredFromWire(s *structpb.Struct) map[string]any {
	if s == nil {
		return nil
	}
	return s.AsMap()
}

// NormalizeToolResult builds a mcp.CallToolResult from a registry's
// ToolReturn, synthesizing a text block for structured-only returns and
// validating structured output against the tool's declared output schema
// (spec §4.A item 5). It never observes "tuple vs mapping vs sequence"
// duck typing directly — that decision already happened at the registry
// boundary (mcp.ToolReturn) — but it does implement the remaining
// synthesis and validation rules precisely as spec.md describes them.
func NormalizeToolResult(tool mcp.Tool, ret mcp.ToolReturn) (mcp.CallToolResult, error) {
	result := mcp.CallToolResult{Content: ret.Content, Structured: ret.Structured}

	if len(ret.Content) == 0 && ret.Structured != nil {
		// Structured-only return: synthesize one text block containing its
		// pretty-printed JSON (spec §4.A item 5).
		pretty, err := json.MarshalIndent(ret.Structured, "", "  ")
		if err != nil {
			return mcp.CallToolResult{}, mcp.NewError(mcp.CodeOutputValidation, "failed to render structured content: %s", err)
		}
		result.Content = []mcp.ContentBlock{{Kind: mcp.KindText, Text: string(pretty)}}
	}

	if !tool.OutputSchema.Empty() {
		if result.Structured == nil {
			return mcp.CallToolResult{}, mcp.NewError(mcp.CodeOutputValidation,
				"tool %q declares an output schema but returned no structured content", tool.Name)
		}
		if err := validateAgainstSchema(tool.OutputSchema, result.Structured); err != nil {
			return mcp.CallToolResult{}, mcp.NewError(mcp.CodeOutputValidation,
				"tool %q output failed schema validation: %s", tool.Name, err)
		}
	}

	return result, nil
}

// ValidateOutputSchema validates a tool call's structured result against its
// declared output schema. Used client-side after a CallTool response is
// received, mirroring the check NormalizeToolResult performs server-side
// (spec §4.F call_tool step 7).
func ValidateOutputSchema(schema mcp.JSONSchema, value map[string]any) error {
	if schema.Empty() {
		return nil
	}
	return validateAgainstSchema(schema, value)
}

func validateAgainstSchema(schema mcp.JSONSchema, value map[string]any) error {
	schemaLoader := gojsonschema.NewGoLoader(map[string]any(schema))
	docLoader := gojsonschema.NewGoLoader(value)

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%v", msgs)
	}
	return nil
}
