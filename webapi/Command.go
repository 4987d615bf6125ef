/*
File Name:  Command.go
Copyright:  2026 Skylink Project
Author:     Skylink Project

Remote command injection. Everything the controller can do over a channel is
reachable here, with one exception: AddSender carries a live channel and is
therefore backend-API only.
*/

package webapi

import (
	"net/http"
	"time"

	"github.com/SkylinkProject/core"
	"github.com/SkylinkProject/core/protocol"
)

type apiRequestNodeCommand struct {
	ID     protocol.NodeID `json:"id"`     // Target drone.
	Action string          `json:"action"` // One of the action tokens below.

	Target  protocol.NodeID   `json:"target,omitempty"`  // Node id argument (removesender, filteradd, filterremove).
	Value   float64           `json:"value,omitempty"`   // Numeric argument (droprate, forwarddelayms).
	Enabled bool              `json:"enabled,omitempty"` // Boolean argument for settings actions.
	List    []protocol.NodeID `json:"list,omitempty"`    // List argument (filterset).
	Mode    string            `json:"mode,omitempty"`    // "blacklist" or "whitelist" (filtermode).
}

type apiResponseNodeCommand struct {
	Status int    `json:"status"` // 0 = Ok, 1 = Unknown action, 2 = Delivery failed.
	Error  string `json:"error,omitempty"`
}

/*
apiNodeCommand translates a JSON request into a controller command
Request:    POST /node/command with JSON structure apiRequestNodeCommand
Result:     200 with JSON structure apiResponseNodeCommand
*/
func (api *WebapiInstance) apiNodeCommand(w http.ResponseWriter, r *http.Request) {
	var request apiRequestNodeCommand
	if err := DecodeJSON(w, r, &request); err != nil {
		return
	}

	var command core.Command

	switch request.Action {
	case "removesender":
		command = core.RemoveSender{NodeID: request.Target}
	case "droprate":
		command = core.SetPacketDropRate{DropRate: request.Value}
	case "crash":
		command = core.Crash{}
	case "logtostdout":
		command = core.SetLogToStdout{Enabled: request.Enabled}
	case "forwarddelayms":
		command = core.SetForwardDelay{Delay: time.Duration(request.Value) * time.Millisecond}
	case "awaitqueuedoncrash":
		command = core.SetAwaitQueuedPacketsOnCrash{Enabled: request.Enabled}
	case "filterpackets":
		command = core.SetFilterPackets{Enabled: request.Enabled}
	case "nackonfiltered":
		command = core.SetNackOnFilteredPacket{Enabled: request.Enabled}
	case "filteradd":
		command = core.FilterAdd{NodeID: request.Target}
	case "filterremove":
		command = core.FilterRemove{NodeID: request.Target}
	case "filterclear":
		command = core.FilterClear{}
	case "filterset":
		command = core.FilterSet{List: request.List}
	case "filtermode":
		mode := core.FilterBlacklist
		if request.Mode == "whitelist" {
			mode = core.FilterWhitelist
		}
		command = core.FilterSetMode{Mode: mode}
	case "corrupttoggle":
		command = core.ToggleCorruptPayloads{}
	default:
		api.EncodeJSON(w, r, apiResponseNodeCommand{Status: 1, Error: "unknown action"})
		return
	}

	if err := api.Backend.SendCommand(request.ID, command); err != nil {
		api.EncodeJSON(w, r, apiResponseNodeCommand{Status: 2, Error: err.Error()})
		return
	}

	api.EncodeJSON(w, r, apiResponseNodeCommand{Status: 0})
}

type apiRequestNodePacket struct {
	ID            protocol.NodeID   `json:"id"` // Drone whose inlet receives the packet.
	SessionID     uint64            `json:"sessionid"`
	Hops          []protocol.NodeID `json:"hops"`
	HopIndex      int               `json:"hopindex"`
	FragmentIndex uint64            `json:"fragmentindex"`
	Data          string            `json:"data"` // Fragment payload, truncated to the fixed fragment size.
}

/*
apiNodePacket injects a test fragment into a drone's packet inlet
Request:    POST /node/packet with JSON structure apiRequestNodePacket
Result:     200 with JSON structure apiResponseNodeCommand
*/
func (api *WebapiInstance) apiNodePacket(w http.ResponseWriter, r *http.Request) {
	var request apiRequestNodePacket
	if err := DecodeJSON(w, r, &request); err != nil {
		return
	}

	fragment := protocol.Fragment{FragmentIndex: request.FragmentIndex, TotalFragments: 1}
	length := copy(fragment.Data[:], request.Data)
	fragment.Length = uint8(length)

	packet := protocol.Packet{
		PackType:      fragment,
		RoutingHeader: protocol.SourceRoutingHeader{Hops: request.Hops, HopIndex: request.HopIndex},
		SessionID:     request.SessionID,
	}

	if err := api.Backend.InjectPacket(request.ID, packet); err != nil {
		api.EncodeJSON(w, r, apiResponseNodeCommand{Status: 2, Error: err.Error()})
		return
	}

	api.EncodeJSON(w, r, apiResponseNodeCommand{Status: 0})
}
