package convert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeffreyRichter/mcpgrpc/mcp"
)

func TestToolRoundTrip(t *testing.T) {
	tool := mcp.Tool{
		BaseMetadata: mcp.BaseMetadata{Name: "greet", Title: "Greet"},
		Description:  "says hello",
		InputSchema:  mcp.JSONSchema{"type": "object", "properties": map[string]any{"name": map[string]any{"type": "string"}}},
		OutputSchema: mcp.JSONSchema{"type": "object"},
	}
	wire, err := ToolToWire(tool)
	require.NoError(t, err)
	got := ToolFromWire(wire)
	assert.Equal(t, tool.Name, got.Name)
	assert.Equal(t, tool.Description, got.Description)
	assert.Equal(t, "object", got.InputSchema["type"])
}

func TestResourceRoundTrip(t *testing.T) {
	size := int64(1024)
	r := mcp.Resource{
		BaseMetadata: mcp.BaseMetadata{Name: "file", Title: "A file"},
		URI:          "file:///tmp/a.txt",
		MimeType:     "text/plain",
		Size:         &size,
		Annotations:  &mcp.Annotations{Audience: []mcp.Role{mcp.RoleUser}, Priority: func() *float64 { p := 0.5; return &p }()},
	}
	got := ResourceFromWire(ResourceToWire(r))
	assert.Equal(t, r.URI, got.URI)
	require.NotNil(t, got.Size)
	assert.Equal(t, size, *got.Size)
	require.NotNil(t, got.Annotations)
	assert.Equal(t, []mcp.Role{mcp.RoleUser}, got.Annotations.Audience)
	require.NotNil(t, got.Annotations.Priority)
	assert.InDelta(t, 0.5, *got.Annotations.Priority, 1e-9)
}

func TestResourceTemplateRoundTrip(t *testing.T) {
	rt := mcp.ResourceTemplate{
		BaseMetadata: mcp.BaseMetadata{Name: "tpl"},
		URITemplate:  "file:///{path}",
		MimeType:     "application/octet-stream",
	}
	got := ResourceTemplateFromWire(ResourceTemplateToWire(rt))
	assert.Equal(t, rt.URITemplate, got.URITemplate)
}

func TestContentBlockRoundTrip_Text(t *testing.T) {
	cb := mcp.ContentBlock{Kind: mcp.KindText, Text: "hello world"}
	wire, err := ContentBlockToWire(cb)
	require.NoError(t, err)
	got, err := ContentBlockFromWire(wire)
	require.NoError(t, err)
	assert.Equal(t, cb, got)
}

func TestContentBlockRoundTrip_Image(t *testing.T) {
	// "hi" base64-encoded.
	cb := mcp.ContentBlock{Kind: mcp.KindImage, Data: "aGk=", MimeType: "image/png"}
	wire, err := ContentBlockToWire(cb)
	require.NoError(t, err)
	require.NotNil(t, wire.Image)
	assert.Equal(t, []byte("hi"), wire.Image.Data)

	got, err := ContentBlockFromWire(wire)
	require.NoError(t, err)
	assert.Equal(t, cb.Data, got.Data)
	assert.Equal(t, cb.MimeType, got.MimeType)
}

func TestContentBlockRoundTrip_EmbeddedResource(t *testing.T) {
	blob := "aGk=" // "hi"
	cb := mcp.ContentBlock{
		Kind: mcp.KindEmbeddedResource,
		EmbeddedResource: &mcp.ResourceContents{
			URI: "file:///x.bin", MimeType: "application/octet-stream", Blob: &blob,
		},
	}
	wire, err := ContentBlockToWire(cb)
	require.NoError(t, err)
	got, err := ContentBlockFromWire(wire)
	require.NoError(t, err)
	require.NotNil(t, got.EmbeddedResource)
	assert.Equal(t, blob, *got.EmbeddedResource.Blob)
}

func TestContentBlockRoundTrip_ResourceLink(t *testing.T) {
	cb := mcp.ContentBlock{Kind: mcp.KindResourceLink, LinkURI: "file:///a", LinkName: "a"}
	wire, err := ContentBlockToWire(cb)
	require.NoError(t, err)
	got, err := ContentBlockFromWire(wire)
	require.NoError(t, err)
	assert.Equal(t, cb, got)
}

func TestResourceContentsRoundTrip_Text(t *testing.T) {
	text := "line one"
	rc := mcp.ResourceContents{URI: "file:///a.txt", MimeType: "text/plain", Text: &text}
	wire, err := ResourceContentsToWire(rc)
	require.NoError(t, err)
	got, err := ResourceContentsFromWire(wire)
	require.NoError(t, err)
	assert.Equal(t, rc, got)
}

func TestDurationRoundTrip(t *testing.T) {
	d := 90*time.Second + 500*time.Millisecond
	got := DurationFromProto(DurationToProto(d))
	assert.Equal(t, d, got)
}

func TestNormalizeToolResult_UnstructuredPassthrough(t *testing.T) {
	tool := mcp.Tool{BaseMetadata: mcp.BaseMetadata{Name: "t"}}
	ret := mcp.ToolReturn{Content: []mcp.ContentBlock{{Kind: mcp.KindText, Text: "hi"}}}
	res, err := NormalizeToolResult(tool, ret)
	require.NoError(t, err)
	assert.Equal(t, ret.Content, res.Content)
	assert.Nil(t, res.Structured)
}

func TestNormalizeToolResult_StructuredOnlySynthesizesText(t *testing.T) {
	tool := mcp.Tool{BaseMetadata: mcp.BaseMetadata{Name: "t"}}
	ret := mcp.ToolReturn{Structured: map[string]any{"ok": true}}
	res, err := NormalizeToolResult(tool, ret)
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	assert.Equal(t, mcp.KindText, res.Content[0].Kind)
	assert.Contains(t, res.Content[0].Text, "ok")
	assert.Equal(t, ret.Structured, res.Structured)
}

func TestNormalizeToolResult_ValidatesAgainstOutputSchema(t *testing.T) {
	tool := mcp.Tool{
		BaseMetadata: mcp.BaseMetadata{Name: "t"},
		OutputSchema: mcp.JSONSchema{
			"type":                 "object",
			"required":             []any{"count"},
			"properties":           map[string]any{"count": map[string]any{"type": "integer"}},
			"additionalProperties": true,
		},
	}

	_, err := NormalizeToolResult(tool, mcp.ToolReturn{Structured: map[string]any{"count": 3}})
	assert.NoError(t, err)

	_, err = NormalizeToolResult(tool, mcp.ToolReturn{Structured: map[string]any{"wrong": "field"}})
	require.Error(t, err)
	var mcpErr *mcp.Error
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, mcp.CodeOutputValidation, mcpErr.Code)
}

func TestNormalizeToolResult_RequiresStructuredWhenSchemaDeclared(t *testing.T) {
	tool := mcp.Tool{
		BaseMetadata: mcp.BaseMetadata{Name: "t"},
		OutputSchema: mcp.JSONSchema{"type": "object"},
	}
	_, err := NormalizeToolResult(tool, mcp.ToolReturn{Content: []mcp.ContentBlock{{Kind: mcp.KindText, Text: "hi"}}})
	require.Error(t, err)
	var mcpErr *mcp.Error
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, mcp.CodeOutputValidation, mcpErr.Code)
}
