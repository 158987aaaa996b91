package mcp

// ProtocolVersionMetadataKey is the gRPC metadata key carrying the
// negotiated protocol version on every client request and echoed by the
// server (spec §6, bit-exact).
const ProtocolVersionMetadataKey = "mcp-protocol-version"

// ToolNameMetadataKey is the gRPC metadata key the client sends on
// CallTool. The server's version gate echoes only the protocol version, not
// this key.
const ToolNameMetadataKey = "mcp-tool-name"

// ResourceURIMetadataKey is the gRPC metadata key the client sends on
// ReadResource.
const ResourceURIMetadataKey = "mcp-resource-uri"

// SupportedVersions is the fixed, ordered list of MCP protocol versions
// this transport understands. The last entry is "latest" (spec §6).
var SupportedVersions = []string{
	"2024-11-05",
	"2025-03-26",
	"2025-06-18",
	"2025-11-25",
}

// LatestVersion is the protocol version a fresh client session negotiates
// with initially.
func LatestVersion() string { return SupportedVersions[len(SupportedVersions)-1] }

// IsSupportedVersion reports whether v is a member of SupportedVersions.
func IsSupportedVersion(v string) bool {
	for _, sv := range SupportedVersions {
		if sv == v {
			return true
		}
	}
	return false
}
