/*
File Name:  Routing Header.go
Copyright:  2026 Skylink Project
Author:     Skylink Project

Source routing header: an ordered hop list plus a cursor. The sender of a
packet advances the cursor before handing the packet to the next hop, so a
packet in transit always carries 1 <= HopIndex <= len(Hops) and
Hops[HopIndex-1] is the node that sent it. Flood requests are the exception:
they are not source-routed and travel with an empty header.
*/

package protocol

// SourceRoutingHeader is the ordered route of a packet with the hop cursor.
type SourceRoutingHeader struct {
	Hops     []NodeID
	HopIndex int
}

// PreviousHop returns the node the packet was received from.
func (h SourceRoutingHeader) PreviousHop() (id NodeID, ok bool) {
	if h.HopIndex < 1 || h.HopIndex > len(h.Hops) {
		return 0, false
	}
	return h.Hops[h.HopIndex-1], true
}

// NextHop returns the node the packet shall be forwarded to.
func (h SourceRoutingHeader) NextHop() (id NodeID, ok bool) {
	if h.HopIndex+1 >= len(h.Hops) || h.HopIndex+1 < 0 {
		return 0, false
	}
	return h.Hops[h.HopIndex+1], true
}

// CurrentHop returns the node the cursor points at, i.e. the intended holder
// of the packet.
func (h SourceRoutingHeader) CurrentHop() (id NodeID, ok bool) {
	if h.HopIndex < 0 || h.HopIndex >= len(h.Hops) {
		return 0, false
	}
	return h.Hops[h.HopIndex], true
}

// IsLastHop reports whether the cursor points at the final hop of the route.
func (h SourceRoutingHeader) IsLastHop() bool {
	return h.HopIndex == len(h.Hops)-1
}

// Reversed returns a header routing a response back along the path already
// traveled: the traveled prefix Hops[:HopIndex+1] reversed, with the cursor
// reset to 1. Index 0 of the reversed route is the responder itself and is
// skipped by the cursor.
func (h SourceRoutingHeader) Reversed() SourceRoutingHeader {
	end := h.HopIndex + 1
	if end > len(h.Hops) {
		end = len(h.Hops)
	}
	hops := make([]NodeID, 0, end)
	for i := end - 1; i >= 0; i-- {
		hops = append(hops, h.Hops[i])
	}
	return SourceRoutingHeader{Hops: hops, HopIndex: 1}
}
