// Package api defines the wire contract of the financery RPC services:
// procedure names, request and response messages, and the JSON codec both
// sides use.
package api

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// Codec encodes messages as plain JSON. Its name is "json", so passing it
// with connect.WithCodec replaces connect's protobuf-only JSON codec.
type Codec struct{}

var _ connect.Codec = Codec{}

// Name returns the codec name used in the Content-Type header.
func (Codec) Name() string { return "json" }

// Marshal encodes v.
func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes data into v. An empty body leaves v untouched.
func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// NewClient creates a unary client for one procedure using Codec.
func NewClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts ...connect.ClientOption) *connect.Client[Req, Res] {
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return connect.NewClient[Req, Res](httpClient, baseURL+procedure, opts...)
}
