/*
File Name:  Packet.go
Copyright:  2026 Skylink Project
Author:     Skylink Project

Wire data model shared by every node in a Skylink network instance. Packets are
exchanged as in-memory values over per-neighbor channels; there is no byte-level
encoding because the channel substrate is the transport. Every node must honor
this model exactly or routing state across the network becomes inconsistent.
*/

package protocol

// NodeID identifies a participant of a network instance. IDs are unique per
// instance and are never reused while the network is live.
type NodeID = uint8

// NodeType is the role of a participant as recorded in flood path traces.
type NodeType uint8

const (
	NodeTypeClient NodeType = iota
	NodeTypeDrone
	NodeTypeServer
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeClient:
		return "client"
	case NodeTypeDrone:
		return "drone"
	case NodeTypeServer:
		return "server"
	default:
		return "unknown"
	}
}

// Packet is the unit of exchange between nodes. Immutable in transit except for
// the header cursor and, in payload corruption mode, the fragment data.
type Packet struct {
	PackType      PacketType
	RoutingHeader SourceRoutingHeader
	SessionID     uint64 // Opaque correlation id assigned by the originator
}

// PacketType is the payload carried by a packet. It is a sealed union over
// Fragment, Ack, Nack, FloodRequest and FloodResponse.
type PacketType interface {
	isPacketType()
}

// FragmentDataSize is the fixed size of a fragment's data buffer.
const FragmentDataSize = 128

// Fragment is one piece of a larger message. The routing engine treats the
// index and data as opaque; only assemblers at the endpoints interpret them.
type Fragment struct {
	FragmentIndex  uint64
	TotalFragments uint64
	Length         uint8 // Count of used bytes in Data
	Data           [FragmentDataSize]byte
}

// Ack confirms delivery of the fragment with the given index.
type Ack struct {
	FragmentIndex uint64
}

// NackKind classifies why a fragment could not be forwarded.
type NackKind uint8

const (
	// NackDropped: the fragment lost the drop-rate roll (or was filtered with
	// the NACK-on-filter setting active).
	NackDropped NackKind = iota
	// NackDestinationIsDrone: the routing header terminates at a drone, which
	// can never be a fragment destination.
	NackDestinationIsDrone
	// NackErrorInRouting: the next hop (carried in NodeID) is not a neighbor.
	NackErrorInRouting
	// NackUnexpectedRecipient: the packet reached a node (carried in NodeID)
	// that is not the header's current hop.
	NackUnexpectedRecipient
)

func (k NackKind) String() string {
	switch k {
	case NackDropped:
		return "Dropped"
	case NackDestinationIsDrone:
		return "DestinationIsDrone"
	case NackErrorInRouting:
		return "ErrorInRouting"
	case NackUnexpectedRecipient:
		return "UnexpectedRecipient"
	default:
		return "unknown"
	}
}

// Nack reports a forwarding failure back to the fragment's sender.
// NodeID is meaningful for NackErrorInRouting (the unreachable hop) and
// NackUnexpectedRecipient (the node that received the packet).
type Nack struct {
	FragmentIndex uint64
	Kind          NackKind
	NodeID        NodeID
}

// PathEntry records one visited node in a flood's path trace.
type PathEntry struct {
	NodeID   NodeID
	NodeType NodeType
}

// FloodRequest is a broadcast discovery packet. FloodID is unique per
// origination; PathTrace accumulates the visited nodes in order.
type FloodRequest struct {
	FloodID   uint64
	PathTrace []PathEntry
}

// FloodResponse carries the accumulated trace back to the flood originator.
type FloodResponse struct {
	FloodID   uint64
	PathTrace []PathEntry
}

func (Fragment) isPacketType()      {}
func (Ack) isPacketType()           {}
func (Nack) isPacketType()          {}
func (FloodRequest) isPacketType()  {}
func (FloodResponse) isPacketType() {}

// CloneTrace returns an independent copy of the request's path trace. Flood
// fan-out sends the same request to multiple neighbors; each copy needs its own
// trace backing array since downstream nodes append to it concurrently.
func (r FloodRequest) CloneTrace() []PathEntry {
	trace := make([]PathEntry, len(r.PathTrace))
	copy(trace, r.PathTrace)
	return trace
}
