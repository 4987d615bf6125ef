/*
File Name:  Events.go
Copyright:  2026 Skylink Project
Author:     Skylink Project
*/

package webapi

import (
	"net/http"

	"github.com/SkylinkProject/core"
	"github.com/SkylinkProject/core/protocol"
)

// apiEvent is the wire form of a controller event on the websocket stream.
type apiEvent struct {
	Type      string            `json:"type"` // "sent", "dropped" or "shortcut"
	SessionID uint64            `json:"sessionid"`
	Hops      []protocol.NodeID `json:"hops"`
	HopIndex  int               `json:"hopindex"`
	Payload   string            `json:"payload"` // Payload kind of the carried packet.
}

/*
apiEventStream streams controller events over a websocket
Request:    GET /events/ws
Result:     If successful, upgrades to a web-socket and sends JSON structure apiEvent messages
*/
func (api *WebapiInstance) apiEventStream(w http.ResponseWriter, r *http.Request) {
	// upgrade to web-socket
	conn, err := WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// gorilla will automatically respond with "400 Bad Request", no other response is therefore necessary
		return
	}

	subscriberID, events := api.Backend.Subscribe()
	defer api.Backend.Unsubscribe(subscriberID)
	defer conn.Close()

	// loop until the backend stops or the connection breaks
	for event := range events {
		if err := conn.WriteJSON(encodeEvent(event)); err != nil {
			return
		}
	}
}

func encodeEvent(event core.DroneEvent) (encoded apiEvent) {
	var packet protocol.Packet

	switch ev := event.(type) {
	case core.PacketSent:
		encoded.Type = "sent"
		packet = ev.Packet
	case core.PacketDropped:
		encoded.Type = "dropped"
		packet = ev.Packet
	case core.ControllerShortcut:
		encoded.Type = "shortcut"
		packet = ev.Packet
	default:
		encoded.Type = "unknown"
		return encoded
	}

	encoded.SessionID = packet.SessionID
	encoded.Hops = packet.RoutingHeader.Hops
	encoded.HopIndex = packet.RoutingHeader.HopIndex
	encoded.Payload = payloadName(packet.PackType)

	return encoded
}

func payloadName(payload protocol.PacketType) string {
	switch payload.(type) {
	case protocol.Fragment:
		return "fragment"
	case protocol.Ack:
		return "ack"
	case protocol.Nack:
		return "nack"
	case protocol.FloodRequest:
		return "floodrequest"
	case protocol.FloodResponse:
		return "floodresponse"
	default:
		return "unknown"
	}
}
