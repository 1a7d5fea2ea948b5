// Package bookingv1 is the wire contract of booking.v1.BookingService.
//
// Messages travel as JSON over gRPC: the codec below is registered under
// the "json" content subtype and the client sets that subtype on every
// call, so the server answers with the same codec.
package bookingv1

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

const CodecName = "json"

type codec struct{}

func (codec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (codec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (codec) Name() string                       { return CodecName }

func init() {
	encoding.RegisterCodec(codec{})
}
