package failover

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/longbridgeapp/assert"
)

func TestRequest_Tidy(t *testing.T) {
	req := &Request{Path: "/things"}
	tidied := req.tidy()

	assert.Equal(t, http.MethodGet, tidied.Method)
	assert.Equal(t, []int{}, tidied.Ignore)
	assert.Equal(t, SerializerDefault, tidied.Serializer)
	assert.True(t, tidied.Params != nil)
}

func TestRequest_TidyPreservesExplicitFields(t *testing.T) {
	req := &Request{
		Method:     http.MethodDelete,
		Path:       "/things/1",
		Params:     url.Values{"refresh": []string{"true"}},
		Ignore:     []int{http.StatusNotFound},
		Serializer: SerializerBulk,
	}

	tidied := req.tidy()

	assert.Equal(t, http.MethodDelete, tidied.Method)
	assert.Equal(t, []int{http.StatusNotFound}, tidied.Ignore)
	assert.Equal(t, SerializerBulk, tidied.Serializer)
	assert.Equal(t, "true", tidied.Params.Get("refresh"))
}

func TestRequest_Ignores(t *testing.T) {
	req := &Request{Ignore: []int{http.StatusNotFound, http.StatusConflict}}

	assert.True(t, req.Ignores(http.StatusNotFound))
	assert.True(t, req.Ignores(http.StatusConflict))
	assert.False(t, req.Ignores(http.StatusInternalServerError))
}
