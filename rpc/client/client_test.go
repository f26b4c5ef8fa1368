package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler func(req *RequestBody) interface{}) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req RequestBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2.0", req.Version)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(handler(&req))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRPCPost(t *testing.T) {
	server := newTestServer(t, func(req *RequestBody) interface{} {
		assert.Equal(t, "state_getStorage", req.Method)
		assert.Len(t, req.Params, 1)
		return map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": "0x0102"}
	})

	var result string
	err := RPCPost(&result, server.URL, "state_getStorage", "0xabcd")
	require.NoError(t, err)
	assert.Equal(t, "0x0102", result)
}

func TestRPCPostNullResult(t *testing.T) {
	server := newTestServer(t, func(req *RequestBody) interface{} {
		return map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": nil}
	})

	var result *string
	err := RPCPost(&result, server.URL, "state_getStorage", "0xabcd")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestRPCPostError(t *testing.T) {
	server := newTestServer(t, func(req *RequestBody) interface{} {
		return map[string]interface{}{
			"jsonrpc": "2.0", "id": req.ID,
			"error": map[string]interface{}{"code": -32601, "message": "method not found"},
		}
	})

	var result string
	err := RPCPost(&result, server.URL, "no_such_method")
	require.Error(t, err)
	var jsonErr *JSONError
	require.ErrorAs(t, err, &jsonErr)
	assert.Equal(t, -32601, jsonErr.Code)
}

func TestRPCPostBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	var result string
	err := RPCPost(&result, server.URL, "state_getStorage")
	assert.Error(t, err)
}
