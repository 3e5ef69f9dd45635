package send

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/markusressel/pid2go/internal/api"
	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseUrl(t *testing.T) {
	assert.Equal(t, "http://localhost:9001", BaseUrl(configuration.ApiConfig{Host: "", Port: 9001}))
	assert.Equal(t, "http://localhost:9001", BaseUrl(configuration.ApiConfig{Host: "0.0.0.0", Port: 9001}))
	assert.Equal(t, "http://10.0.0.2:80", BaseUrl(configuration.ApiConfig{Host: "10.0.0.2", Port: 80}))
}

func TestPostMessage(t *testing.T) {
	// GIVEN
	var received map[string]interface{}
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(api.Result{Name: "Accepted", Message: "queued"})
	}))
	defer server.Close()

	// WHEN
	result, err := PostMessage(server.URL, "heater", pid.Message{Topic: "heater/fire", Payload: pid.Flag(false)})

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "queued", result.Message)
	assert.Equal(t, "/controller/heater/input/", path)
	assert.Equal(t, map[string]interface{}{"topic": "heater/fire", "payload": false}, received)
}

func TestPostMessage_NotFound(t *testing.T) {
	// GIVEN
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(api.Result{Name: "Not found", Message: "No item with id 'x' found"})
	}))
	defer server.Close()

	// WHEN
	result, err := PostMessage(server.URL, "x", pid.Message{Topic: "sensor", Payload: pid.Numeric(1)})

	// THEN
	assert.Nil(t, result)
	assert.EqualError(t, err, "Not found: No item with id 'x' found")
}
