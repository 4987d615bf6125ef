/*
File Name:  API_test.go
Copyright:  2026 Skylink Project
Author:     Skylink Project
*/

package webapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkylinkProject/core"
	"github.com/SkylinkProject/core/protocol"
)

func newTestAPI(t *testing.T, apiKey uuid.UUID) (api *WebapiInstance, backend *core.Backend) {
	t.Helper()

	backend, err := core.NewBackend(&core.Config{
		ChannelBuffer: 16,
		Drones: []core.DroneConfig{
			{ID: 1, DropRate: 0, Neighbors: []protocol.NodeID{2}},
			{ID: 2, DropRate: 0, Neighbors: []protocol.NodeID{1}},
		},
	})
	require.NoError(t, err)

	api = &WebapiInstance{Backend: backend, Router: mux.NewRouter()}
	if apiKey != uuid.Nil {
		api.Router.Use(api.authenticateMiddleware(apiKey))
	}
	api.registerRoutes()

	return api, backend
}

func TestAPIStatus(t *testing.T) {
	api, _ := newTestAPI(t, uuid.Nil)

	recorder := httptest.NewRecorder()
	api.Router.ServeHTTP(recorder, httptest.NewRequest("GET", "/status", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var response apiResponseStatus
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, 0, response.Status)
	assert.Equal(t, 2, response.CountNodes)
	assert.Equal(t, core.Version, response.Version)
}

func TestAPINodeList(t *testing.T) {
	api, _ := newTestAPI(t, uuid.Nil)

	recorder := httptest.NewRecorder()
	api.Router.ServeHTTP(recorder, httptest.NewRequest("GET", "/node/list", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var response apiResponseNodeList
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, []protocol.NodeID{1, 2}, response.Nodes)
}

func TestAPINodeStatus(t *testing.T) {
	api, _ := newTestAPI(t, uuid.Nil)

	recorder := httptest.NewRecorder()
	api.Router.ServeHTTP(recorder, httptest.NewRequest("GET", "/node/status?id=1", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var response apiResponseNodeStatus
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, protocol.NodeID(1), response.ID)
	assert.Equal(t, []protocol.NodeID{2}, response.Neighbors)

	recorder = httptest.NewRecorder()
	api.Router.ServeHTTP(recorder, httptest.NewRequest("GET", "/node/status?id=9", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = httptest.NewRecorder()
	api.Router.ServeHTTP(recorder, httptest.NewRequest("GET", "/node/status?id=900", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code, "ids beyond 8 bits are invalid")
}

func postJSON(t *testing.T, api *WebapiInstance, path string, request interface{}) (code int, response apiResponseNodeCommand) {
	t.Helper()

	body, err := json.Marshal(request)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	api.Router.ServeHTTP(recorder, httptest.NewRequest("POST", path, bytes.NewReader(body)))
	if recorder.Code == http.StatusOK {
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	}
	return recorder.Code, response
}

func TestAPINodeCommand(t *testing.T) {
	api, backend := newTestAPI(t, uuid.Nil)

	code, response := postJSON(t, api, "/node/command", apiRequestNodeCommand{ID: 1, Action: "droprate", Value: 0.5})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, response.Status)

	// The command sits in the drone's inlet until the loop runs.
	status, err := backend.NodeStatus(1)
	require.NoError(t, err)
	assert.Equal(t, 1, status.QueuedCommands)

	code, response = postJSON(t, api, "/node/command", apiRequestNodeCommand{ID: 1, Action: "selfdestruct"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, response.Status)

	code, response = postJSON(t, api, "/node/command", apiRequestNodeCommand{ID: 9, Action: "crash"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, response.Status)
}

func TestAPINodePacket(t *testing.T) {
	api, backend := newTestAPI(t, uuid.Nil)

	code, response := postJSON(t, api, "/node/packet", apiRequestNodePacket{
		ID:        1,
		SessionID: 7,
		Hops:      []protocol.NodeID{3, 1, 2},
		HopIndex:  1,
		Data:      "ping",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, response.Status)

	status, err := backend.NodeStatus(1)
	require.NoError(t, err)
	assert.Equal(t, 1, status.QueuedPackets)

	code, response = postJSON(t, api, "/node/packet", apiRequestNodePacket{ID: 9})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, response.Status)
}

func TestAPIAuthentication(t *testing.T) {
	apiKey := uuid.New()
	api, _ := newTestAPI(t, apiKey)

	// No key.
	recorder := httptest.NewRecorder()
	api.Router.ServeHTTP(recorder, httptest.NewRequest("GET", "/status", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// Wrong key.
	recorder = httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/status", nil)
	request.Header.Set("x-api-key", uuid.New().String())
	api.Router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// Correct key.
	recorder = httptest.NewRecorder()
	request = httptest.NewRequest("GET", "/status", nil)
	request.Header.Set("x-api-key", apiKey.String())
	api.Router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestEncodeEvent(t *testing.T) {
	packet := protocol.Packet{
		PackType:      protocol.Nack{FragmentIndex: 1, Kind: protocol.NackDropped},
		RoutingHeader: protocol.SourceRoutingHeader{Hops: []protocol.NodeID{2, 1}, HopIndex: 1},
		SessionID:     8,
	}

	encoded := encodeEvent(core.ControllerShortcut{Packet: packet})
	assert.Equal(t, "shortcut", encoded.Type)
	assert.Equal(t, "nack", encoded.Payload)
	assert.Equal(t, uint64(8), encoded.SessionID)
	assert.Equal(t, []protocol.NodeID{2, 1}, encoded.Hops)

	encoded = encodeEvent(core.PacketSent{Packet: packet})
	assert.Equal(t, "sent", encoded.Type)

	encoded = encodeEvent(core.PacketDropped{Packet: packet})
	assert.Equal(t, "dropped", encoded.Type)
}
