/*
File Name:  Flood.go
Copyright:  2026 Skylink Project
Author:     Skylink Project

Flood discovery. A flood request propagates breadth-first to every neighbor
except the sender, carrying a trace of the visited nodes. Each drone forwards a
given flood id at most once; repeated visits and dead ends answer immediately
with a flood response routed back along the reversed trace. This bounds every
flood on any finite topology, cycles included.
*/

package core

import (
	"fmt"

	"github.com/SkylinkProject/core/protocol"
)

// handleFloodRequest appends this drone to the path trace, then either answers
// with a flood response (already seen id, or dead end) or records the id and
// fans the request out to all neighbors except the sender.
func (d *Drone) handleFloodRequest(packet protocol.Packet, request protocol.FloodRequest) error {
	if len(request.PathTrace) == 0 {
		return fmt.Errorf("drone %d: flood request %d with empty path trace in session %d", d.ID, request.FloodID, packet.SessionID)
	}
	from := request.PathTrace[len(request.PathTrace)-1].NodeID

	trace := append(request.CloneTrace(), protocol.PathEntry{NodeID: d.ID, NodeType: protocol.NodeTypeDrone})

	if _, seen := d.floodIDs[request.FloodID]; seen {
		if err := d.sendFloodResponse(from, packet.SessionID, request.FloodID, trace); err != nil {
			return err
		}
		d.logDecision("sent a FloodResponse to node %d because flood %d was already seen", from, request.FloodID)
		return nil
	}

	// The only neighbor is the sender: no further propagation is possible.
	// The flood id is deliberately not recorded, the response ends it here.
	if len(d.packetSend) == 1 {
		if err := d.sendFloodResponse(from, packet.SessionID, request.FloodID, trace); err != nil {
			return err
		}
		d.logDecision("sent a FloodResponse to node %d because flood %d dead-ended here", from, request.FloodID)
		return nil
	}

	d.floodIDs[request.FloodID] = struct{}{}

	d.forwardDelay()

	for neighbor := range d.packetSend {
		if neighbor == from {
			continue
		}
		// Flood requests are not source-routed; every copy travels with a
		// fresh empty header and its own trace backing array.
		copyOut := protocol.Packet{
			PackType:      protocol.FloodRequest{FloodID: request.FloodID, PathTrace: append([]protocol.PathEntry(nil), trace...)},
			RoutingHeader: protocol.SourceRoutingHeader{},
			SessionID:     packet.SessionID,
		}
		if err := d.sendToNeighbor(neighbor, copyOut); err != nil {
			return err
		}
		d.logDecision("received a FloodRequest from node %d and forwarded flood %d to node %d", from, request.FloodID, neighbor)
		if err := d.sendEvent(PacketSent{Packet: copyOut}); err != nil {
			return err
		}
	}
	return nil
}

// sendFloodResponse routes the accumulated trace back to the flood originator,
// addressed with the trace reversed and the cursor starting past this drone.
func (d *Drone) sendFloodResponse(from protocol.NodeID, sessionID uint64, floodID uint64, trace []protocol.PathEntry) error {
	if _, exists := d.packetSend[from]; !exists {
		return fmt.Errorf("drone %d: no channel to node %d to answer flood %d", d.ID, from, floodID)
	}

	route := make([]protocol.NodeID, 0, len(trace))
	for i := len(trace) - 1; i >= 0; i-- {
		route = append(route, trace[i].NodeID)
	}

	d.forwardDelay()

	response := protocol.Packet{
		PackType:      protocol.FloodResponse{FloodID: floodID, PathTrace: trace},
		RoutingHeader: protocol.SourceRoutingHeader{Hops: route, HopIndex: 1},
		SessionID:     sessionID,
	}
	if err := d.sendToNeighbor(from, response); err != nil {
		return err
	}
	return d.sendEvent(PacketSent{Packet: response})
}
