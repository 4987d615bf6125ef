/*
File Name:  Status.go
Copyright:  2026 Skylink Project
Author:     Skylink Project
*/

package webapi

import (
	"net/http"
	"strconv"

	"github.com/SkylinkProject/core"
	"github.com/SkylinkProject/core/protocol"
)

func apiTest(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type apiResponseStatus struct {
	Status        int     `json:"status"`        // Status code: 0 = Ok.
	CountNodes    int     `json:"countnodes"`    // Count of drones in this network instance.
	UptimeSeconds float64 `json:"uptimeseconds"` // Seconds since the backend started.
	Version       string  `json:"version"`       // Core library version.
}

/*
apiStatus returns the current status of the network instance
Request:    GET /status
Result:     200 with JSON structure apiResponseStatus
*/
func (api *WebapiInstance) apiStatus(w http.ResponseWriter, r *http.Request) {
	status := apiResponseStatus{
		Status:        0,
		CountNodes:    len(api.Backend.NodeIDs()),
		UptimeSeconds: api.Backend.Uptime().Seconds(),
		Version:       core.Version,
	}

	api.EncodeJSON(w, r, status)
}

type apiResponseNodeList struct {
	Nodes []protocol.NodeID `json:"nodes"` // Roster in ascending order.
}

/*
apiNodeList returns the drone roster
Request:    GET /node/list
Result:     200 with JSON structure apiResponseNodeList
*/
func (api *WebapiInstance) apiNodeList(w http.ResponseWriter, r *http.Request) {
	api.EncodeJSON(w, r, apiResponseNodeList{Nodes: api.Backend.NodeIDs()})
}

type apiResponseNodeStatus struct {
	ID             protocol.NodeID   `json:"id"`
	DropRate       float64           `json:"droprate"`  // As configured at startup.
	Neighbors      []protocol.NodeID `json:"neighbors"` // Wired at startup. Runtime Add/RemoveSender changes are not reflected here.
	QueuedPackets  int               `json:"queuedpackets"`
	QueuedCommands int               `json:"queuedcommands"`
}

/*
apiNodeStatus snapshots a single drone
Request:    GET /node/status?id=[node id]
Result:     200 with JSON structure apiResponseNodeStatus
*/
func (api *WebapiInstance) apiNodeStatus(w http.ResponseWriter, r *http.Request) {
	r.ParseForm()
	id, err := strconv.ParseUint(r.Form.Get("id"), 10, 8)
	if err != nil {
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	status, err := api.Backend.NodeStatus(protocol.NodeID(id))
	if err != nil {
		http.Error(w, "", http.StatusNotFound)
		return
	}

	api.EncodeJSON(w, r, apiResponseNodeStatus{
		ID:             status.ID,
		DropRate:       status.DropRate,
		Neighbors:      status.Neighbors,
		QueuedPackets:  status.QueuedPackets,
		QueuedCommands: status.QueuedCommands,
	})
}
