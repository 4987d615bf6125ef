/*
File Name:  Packet Handler.go
Copyright:  2026 Skylink Project
Author:     Skylink Project

Per-packet-kind handlers. Every inbound packet except a flood request is first
checked against the header contract (1 <= hop index <= hops length); a
violation means the sending peer is inconsistent with the shared header
semantics and the drone terminates rather than guess a reverse path.

Fragments report failures with a NACK along the reverse path. ACK, NACK and
FloodResponse packets are themselves terminal signals and must never spawn
further NACKs over the network; their failures are reported to the controller
through the shortcut event instead.
*/

package core

import (
	"errors"
	"fmt"

	"github.com/SkylinkProject/core/protocol"
)

// corruptionMarker overwrites fragment data in payload corruption mode.
const corruptionMarker = "QUACK"

// handlePacket validates the routing header and dispatches on the payload kind.
func (d *Drone) handlePacket(packet protocol.Packet) error {
	if _, isFloodRequest := packet.PackType.(protocol.FloodRequest); !isFloodRequest {
		if packet.RoutingHeader.HopIndex < 1 || packet.RoutingHeader.HopIndex > len(packet.RoutingHeader.Hops) {
			return fmt.Errorf("drone %d: hop index %d out of range in header %v of session %d", d.ID, packet.RoutingHeader.HopIndex, packet.RoutingHeader.Hops, packet.SessionID)
		}
	}

	switch payload := packet.PackType.(type) {
	case protocol.Fragment:
		return d.handleFragment(packet, payload)
	case protocol.Ack:
		return d.relayTerminal(packet, payload.FragmentIndex, packet.RoutingHeader.IsLastHop(), "an ACK")
	case protocol.Nack:
		return d.relayTerminal(packet, payload.FragmentIndex, packet.RoutingHeader.IsLastHop(), "a NACK")
	case protocol.FloodRequest:
		return d.handleFloodRequest(packet, payload)
	case protocol.FloodResponse:
		// FloodResponse cursor semantics are response-local: last hop is
		// reached when the cursor ran past the end of the route.
		lastHop := packet.RoutingHeader.HopIndex == len(packet.RoutingHeader.Hops)
		return d.relayTerminal(packet, maxFragmentIndex, lastHop, "a FloodResponse")
	default:
		return fmt.Errorf("drone %d: unknown payload kind in session %d", d.ID, packet.SessionID)
	}
}

const maxFragmentIndex = ^uint64(0)

// handleFragment applies the full forwarding pipeline to a message fragment:
// last-hop check, drop roll, filter, routing error, unexpected recipient,
// payload corruption, delay, then advance and forward.
func (d *Drone) handleFragment(packet protocol.Packet, fragment protocol.Fragment) error {
	from, _ := packet.RoutingHeader.PreviousHop()

	// The route ends here. A drone can never be a fragment destination.
	if packet.RoutingHeader.IsLastHop() {
		if _, exists := d.packetSend[from]; !exists {
			return fmt.Errorf("drone %d: destination of a fragment but no channel to report the failure to node %d", d.ID, from)
		}
		d.logDecision("encountered a DestinationIsDrone error while receiving a fragment from node %d", from)
		return d.sendNack(from, packet, fragment.FragmentIndex, protocol.Nack{FragmentIndex: fragment.FragmentIndex, Kind: protocol.NackDestinationIsDrone})
	}

	to, ok := packet.RoutingHeader.NextHop()
	if !ok {
		return fmt.Errorf("drone %d: fragment header %v has no next hop at index %d", d.ID, packet.RoutingHeader.Hops, packet.RoutingHeader.HopIndex)
	}

	// The drop roll takes precedence over the filter.
	if d.rng.Float64() < d.dropRate {
		if _, exists := d.packetSend[from]; !exists {
			return fmt.Errorf("drone %d: dropped a fragment but no channel to report the failure to node %d", d.ID, from)
		}
		d.logDecision("dropped a fragment received from node %d directed to node %d", from, to)
		if err := d.sendNack(from, packet, fragment.FragmentIndex, protocol.Nack{FragmentIndex: fragment.FragmentIndex, Kind: protocol.NackDropped}); err != nil {
			return err
		}
		return d.sendEvent(PacketDropped{Packet: packet})
	}

	if d.Settings.FilterPackets && !d.Filter.IsAllowed(from) {
		d.logDecision("filtered a fragment received from node %d directed to node %d", from, to)
		if d.Settings.SendNackOnFilteredPacket {
			if _, exists := d.packetSend[from]; !exists {
				return fmt.Errorf("drone %d: filtered a fragment but no channel to report the failure to node %d", d.ID, from)
			}
			return d.sendNack(from, packet, fragment.FragmentIndex, protocol.Nack{FragmentIndex: fragment.FragmentIndex, Kind: protocol.NackDropped})
		}
		return nil
	}

	if _, exists := d.packetSend[to]; !exists {
		if _, exists := d.packetSend[from]; !exists {
			return fmt.Errorf("drone %d: no route to node %d and no channel to report the failure to node %d", d.ID, to, from)
		}
		d.logDecision("encountered an ErrorInRouting while forwarding a fragment from node %d to node %d", from, to)
		return d.sendNack(from, packet, fragment.FragmentIndex, protocol.Nack{FragmentIndex: fragment.FragmentIndex, Kind: protocol.NackErrorInRouting, NodeID: to})
	}

	if current, _ := packet.RoutingHeader.CurrentHop(); current != d.ID {
		if _, exists := d.packetSend[from]; !exists {
			return fmt.Errorf("drone %d: unexpected recipient of a fragment but no channel to report the failure to node %d", d.ID, from)
		}
		d.logDecision("encountered an UnexpectedRecipient error while forwarding a fragment from node %d to node %d", from, to)
		return d.sendNack(from, packet, fragment.FragmentIndex, protocol.Nack{FragmentIndex: fragment.FragmentIndex, Kind: protocol.NackUnexpectedRecipient, NodeID: d.ID})
	}

	if d.Settings.CorruptPayloads {
		for i := range fragment.Data {
			fragment.Data[i] = corruptionMarker[i%len(corruptionMarker)]
		}
	}

	d.forwardDelay()

	forwarded := protocol.Packet{
		PackType:      fragment,
		RoutingHeader: advanced(packet.RoutingHeader),
		SessionID:     packet.SessionID,
	}
	if err := d.sendToNeighbor(to, forwarded); err != nil {
		return err
	}
	d.logDecision("received a fragment from node %d and forwarded it to node %d", from, to)
	return d.sendEvent(PacketSent{Packet: forwarded})
}

// relayTerminal forwards an ACK, NACK or FloodResponse one hop. These packets
// are terminal signals; on last-hop, routing error or unexpected recipient the
// failure goes to the controller as a shortcut, never back over the network.
func (d *Drone) relayTerminal(packet protocol.Packet, fragmentIndex uint64, lastHop bool, kind string) error {
	from, _ := packet.RoutingHeader.PreviousHop()

	if lastHop {
		if _, exists := d.packetSend[from]; !exists {
			return fmt.Errorf("drone %d: destination of %s from node %d with no channel back", d.ID, kind, from)
		}
		d.logDecision("encountered a DestinationIsDrone error while receiving %s from node %d", kind, from)
		return d.sendShortcut(packet, protocol.Nack{FragmentIndex: fragmentIndex, Kind: protocol.NackDestinationIsDrone})
	}

	to, ok := packet.RoutingHeader.NextHop()
	if !ok {
		return fmt.Errorf("drone %d: header %v of %s has no next hop at index %d", d.ID, packet.RoutingHeader.Hops, kind, packet.RoutingHeader.HopIndex)
	}

	if _, exists := d.packetSend[to]; !exists {
		if _, exists := d.packetSend[from]; !exists {
			return fmt.Errorf("drone %d: no route to node %d for %s and no channel back to node %d", d.ID, to, kind, from)
		}
		d.logDecision("encountered an ErrorInRouting while forwarding %s from node %d to node %d", kind, from, to)
		return d.sendShortcut(packet, protocol.Nack{FragmentIndex: fragmentIndex, Kind: protocol.NackErrorInRouting, NodeID: to})
	}

	if current, _ := packet.RoutingHeader.CurrentHop(); current != d.ID {
		if _, exists := d.packetSend[from]; !exists {
			return fmt.Errorf("drone %d: unexpected recipient of %s with no channel back to node %d", d.ID, kind, from)
		}
		d.logDecision("encountered an UnexpectedRecipient error while forwarding %s from node %d to node %d", kind, from, to)
		return d.sendShortcut(packet, protocol.Nack{FragmentIndex: fragmentIndex, Kind: protocol.NackUnexpectedRecipient, NodeID: d.ID})
	}

	d.forwardDelay()

	forwarded := packet
	forwarded.RoutingHeader = advanced(packet.RoutingHeader)
	if err := d.sendToNeighbor(to, forwarded); err != nil {
		return err
	}
	d.logDecision("received %s from node %d and forwarded it to node %d", kind, from, to)
	return d.sendEvent(PacketSent{Packet: forwarded})
}

// sendNack builds a NACK addressed with the reversed header and sends it to
// the node the failed packet came from. Callers verified the channel exists.
func (d *Drone) sendNack(from protocol.NodeID, failed protocol.Packet, fragmentIndex uint64, nack protocol.Nack) error {
	d.forwardDelay()

	return d.sendToNeighbor(from, protocol.Packet{
		PackType:      nack,
		RoutingHeader: failed.RoutingHeader.Reversed(),
		SessionID:     failed.SessionID,
	})
}

// sendShortcut reports a relay failure to the controller, carrying a freshly
// built NACK packet addressed with the reversed header. The controller
// delivers it out of band since the normal reverse path is inapplicable.
func (d *Drone) sendShortcut(failed protocol.Packet, nack protocol.Nack) error {
	d.forwardDelay()

	return d.sendEvent(ControllerShortcut{Packet: protocol.Packet{
		PackType:      nack,
		RoutingHeader: failed.RoutingHeader.Reversed(),
		SessionID:     failed.SessionID,
	}})
}

// sendToNeighbor delivers a packet on the outbound channel of the given
// neighbor. A send on a channel whose receiving end is gone is a fatal local
// defect: the topology promised a live neighbor that no longer exists.
func (d *Drone) sendToNeighbor(to protocol.NodeID, packet protocol.Packet) (err error) {
	channel, exists := d.packetSend[to]
	if !exists {
		return fmt.Errorf("drone %d: no channel to node %d", d.ID, to)
	}

	defer func() {
		if recover() != nil {
			err = fmt.Errorf("drone %d: channel to node %d is closed", d.ID, to)
		}
	}()

	channel <- packet
	return nil
}

// sendEvent delivers an event to the controller sink. A dead controller
// channel is fatal, the drone cannot operate unsupervised.
func (d *Drone) sendEvent(event DroneEvent) (err error) {
	if d.controllerSend == nil {
		return errors.New("controller event channel not set")
	}

	defer func() {
		if recover() != nil {
			err = fmt.Errorf("drone %d: controller event channel is closed", d.ID)
		}
	}()

	d.controllerSend <- event
	return nil
}

// advanced returns the header with the hop cursor moved one position forward.
// All other fields are unchanged.
func advanced(header protocol.SourceRoutingHeader) protocol.SourceRoutingHeader {
	header.HopIndex++
	return header
}
