package mcppb

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName identifies the JSON codec both Dial and server construction
// must select via grpc.ForceCodec, since the generated-style message types
// in this package are plain Go structs rather than google.golang.org/
// protobuf-reflectable messages (see the package doc comment in mcp.pb.go).
const CodecName = "mcpgrpc-json"

// Codec marshals mcppb messages as JSON. It implements
// google.golang.org/grpc/encoding.Codec so it can be installed with
// grpc.ForceCodec (client) / grpc.ForceServerCodec (server). Struct-typed
// fields backed by google.protobuf.Struct / google.protobuf.Duration
// (structpb, durationpb) marshal through their own MarshalJSON/UnmarshalJSON
// implementations, so they still round-trip as the well-known-type shapes
// spec §4.A mandates even though the envelope itself is JSON on the wire.
type Codec struct{}

func (Codec) Name() string { return CodecName }

func (Codec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcppb: marshal %T: %w", v, err)
	}
	return b, nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("mcppb: unmarshal %T: %w", v, err)
	}
	return nil
}

func init() {
	encoding.RegisterCodec(Codec{})
}
