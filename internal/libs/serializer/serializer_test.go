package serializer

import (
	"errors"
	"strings"
	"testing"

	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/failover/internal/sentinel"
)

func TestRegistry_Defaults(t *testing.T) {
	registry := NewSerializerRegistry()

	for _, name := range []string{"default", "bulk", "msgpack", "cbor"} {
		ser, err := registry.New(name)
		assert.NoError(t, err)
		assert.True(t, ser != nil)
	}
}

func TestRegistry_Unknown(t *testing.T) {
	registry := NewSerializerRegistry()

	_, err := registry.New("yaml")
	assert.True(t, err != nil)
}

func TestRegistry_EmptyName(t *testing.T) {
	_, err := New("")
	assert.True(t, err != nil)
}

func TestRegistry_Register(t *testing.T) {
	registry := NewEmptySerializerRegistry()

	_, err := registry.New("default")
	assert.True(t, err != nil)

	registry.Register("default", func() ISerializer { return &DefaultJSONSerializer{} })

	ser, err := registry.New("default")
	assert.NoError(t, err)
	assert.True(t, ser != nil)
}

func TestDefaultJSON_RoundTrip(t *testing.T) {
	ser := &DefaultJSONSerializer{}

	data, err := ser.Marshal(map[string]string{"name": "thing-1"})
	assert.NoError(t, err)

	var out map[string]string

	err = ser.Unmarshal(data, &out)
	assert.NoError(t, err)
	assert.Equal(t, "thing-1", out["name"])
	assert.Equal(t, "application/json", ser.ContentType())
}

func TestBulk_MarshalSlice(t *testing.T) {
	ser := &BulkNDJSONSerializer{}

	data, err := ser.Marshal([]map[string]string{{"op": "create"}, {"op": "delete"}})
	assert.NoError(t, err)

	payload := string(data)
	assert.True(t, strings.HasSuffix(payload, "\n"))
	assert.Equal(t, 2, strings.Count(payload, "\n"))
	assert.Equal(t, "application/x-ndjson", ser.ContentType())
}

func TestBulk_PassThrough(t *testing.T) {
	ser := &BulkNDJSONSerializer{}

	raw := "{\"op\":\"create\"}\n"

	data, err := ser.Marshal(raw)
	assert.NoError(t, err)
	assert.Equal(t, raw, string(data))

	data, err = ser.Marshal([]byte(raw))
	assert.NoError(t, err)
	assert.Equal(t, raw, string(data))
}

func TestBulk_RejectsNonSlice(t *testing.T) {
	ser := &BulkNDJSONSerializer{}

	_, err := ser.Marshal(map[string]string{"op": "create"})
	assert.True(t, err != nil)
	assert.True(t, errors.Is(err, sentinel.ErrBulkBodyShape))
}

func TestMsgpack_RoundTrip(t *testing.T) {
	ser := &MsgpackSerializer{}

	data, err := ser.Marshal(map[string]string{"name": "thing-1"})
	assert.NoError(t, err)

	var out map[string]string

	err = ser.Unmarshal(data, &out)
	assert.NoError(t, err)
	assert.Equal(t, "thing-1", out["name"])
}

func TestCbor_RoundTrip(t *testing.T) {
	ser := &CborSerializer{}

	data, err := ser.Marshal(map[string]string{"name": "thing-1"})
	assert.NoError(t, err)

	var out map[string]string

	err = ser.Unmarshal(data, &out)
	assert.NoError(t, err)
	assert.Equal(t, "thing-1", out["name"])
}
