package serializer

import (
	"github.com/ugorji/go/codec"

	"github.com/hyp3rd/ewrap"
)

// Shared codec handle; safe for concurrent use once configured.
//
//nolint:gochecknoglobals
var cborHandle = &codec.CborHandle{}

// CborSerializer leverages the `codec` CBOR handle to serialize request bodies before
// handing them to a connection.
type CborSerializer struct{}

// Marshal serializes the given value into a byte slice.
func (*CborSerializer) Marshal(v any) ([]byte, error) {
	var data []byte

	err := codec.NewEncoderBytes(&data, cborHandle).Encode(v)
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to marshal cbor")
	}

	return data, nil
}

// Unmarshal deserializes the given byte slice into the given value.
func (*CborSerializer) Unmarshal(data []byte, v any) error {
	err := codec.NewDecoderBytes(data, cborHandle).Decode(v)
	if err != nil {
		return ewrap.Wrap(err, "failed to unmarshal cbor")
	}

	return nil
}

// ContentType returns the CBOR MIME type.
func (*CborSerializer) ContentType() string { return "application/cbor" }
