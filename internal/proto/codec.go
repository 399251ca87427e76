// Package proto defines the MoodSyncService wire contract: request and
// response messages, the gRPC service descriptor and a typed client.
// Messages travel as JSON through a registered gRPC codec, so the package
// has no generated code.
package proto

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content subtype used by MoodSyncService.
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)   { return json.Marshal(v) }
func (jsonCodec) Unmarshal(b []byte, v any) error { return json.Unmarshal(b, v) }
func (jsonCodec) Name() string                    { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
