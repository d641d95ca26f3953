package serializer

import (
	"bytes"
	"reflect"

	"github.com/goccy/go-json"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/failover/internal/sentinel"
)

const newline = '\n'

// BulkNDJSONSerializer encodes a slice body as newline-delimited JSON, one element per
// line with a trailing newline, the framing batch endpoints expect. Responses to bulk
// requests are plain JSON, so Unmarshal behaves like the default serializer.
type BulkNDJSONSerializer struct{}

// Marshal serializes the given slice value into a newline-delimited byte slice.
// Byte-slice and string bodies are passed through untouched so pre-rendered
// payloads survive the bulk mode.
func (*BulkNDJSONSerializer) Marshal(v any) ([]byte, error) {
	switch body := v.(type) {
	case []byte:
		return body, nil
	case string:
		return []byte(body), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, ewrap.Wrap(sentinel.ErrBulkBodyShape, rv.Kind().String())
	}

	var buf bytes.Buffer
	for i := range rv.Len() {
		line, err := json.Marshal(rv.Index(i).Interface())
		if err != nil {
			return nil, ewrap.Wrapf(err, "failed to marshal bulk line %d", i)
		}

		buf.Write(line)
		buf.WriteByte(newline)
	}

	return buf.Bytes(), nil
}

// Unmarshal deserializes the given byte slice into the given value.
func (*BulkNDJSONSerializer) Unmarshal(data []byte, v any) error {
	err := json.Unmarshal(data, &v)
	if err != nil {
		return ewrap.Wrap(err, "failed to unmarshal json")
	}

	return nil
}

// ContentType returns the NDJSON MIME type.
func (*BulkNDJSONSerializer) ContentType() string { return "application/x-ndjson" }
