/*
File Name:  Drone.go
Copyright:  2026 Skylink Project
Author:     Skylink Project

A drone is one participant of a simulated packet-switched network. It owns its
routing state exclusively: the neighbor channel table, drop rate, settings,
filter, seen flood ids and the crash latch are touched only by the Run loop,
so no synchronization exists. All cross-node communication is message passing
over per-neighbor channels.
*/

package core

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/SkylinkProject/core/protocol"
)

// Drone is the routing engine of a single node.
type Drone struct {
	ID protocol.NodeID

	controllerSend chan<- DroneEvent
	controllerRecv <-chan Command
	packetSend     map[protocol.NodeID]chan<- protocol.Packet
	packetRecv     <-chan protocol.Packet

	dropRate float64
	rng      *rand.Rand

	Settings DroneSettings
	Filter   PacketFilter

	floodIDs   map[uint64]struct{}
	hasToCrash bool
}

// NewDrone creates a drone. The drop rate must be within [0,1]; a value outside
// that range is a fatal configuration error, no drone may exist with it.
// The neighbor table is copied, the caller keeps no alias into drone state.
func NewDrone(id protocol.NodeID, controllerSend chan<- DroneEvent, controllerRecv <-chan Command, packetRecv <-chan protocol.Packet, packetSend map[protocol.NodeID]chan<- protocol.Packet, dropRate float64) (*Drone, error) {
	if dropRate < 0 || dropRate > 1 {
		return nil, fmt.Errorf("drone %d: invalid packet drop rate %v", id, dropRate)
	}

	neighbors := make(map[protocol.NodeID]chan<- protocol.Packet, len(packetSend))
	for neighbor, channel := range packetSend {
		neighbors[neighbor] = channel
	}

	return &Drone{
		ID:             id,
		controllerSend: controllerSend,
		controllerRecv: controllerRecv,
		packetSend:     neighbors,
		packetRecv:     packetRecv,
		dropRate:       dropRate,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano() ^ int64(id)<<32)),
		Settings:       DefaultDroneSettings(),
		Filter:         DefaultPacketFilter(),
		floodIDs:       make(map[uint64]struct{}),
	}, nil
}

// Run is the scheduling loop. Commands always win over packets when both are
// pending; the loop only waits on the packet inlet when no command is ready.
// It returns nil after a crash command took effect and a non-nil error on a
// fatal protocol or topology defect. There is no recovery from the latter:
// the shared header contract was broken outside this node's control and no
// well-defined continuation exists.
func (d *Drone) Run() error {
	for {
		if d.hasToCrash {
			if !d.Settings.AwaitQueuedPacketsOnCrash {
				return nil
			}
			return d.drainQueuedPackets()
		}

		select {
		case command, ok := <-d.controllerRecv:
			if !ok {
				return fmt.Errorf("drone %d: command channel closed", d.ID)
			}
			d.handleCommand(command)
		default:
			select {
			case command, ok := <-d.controllerRecv:
				if !ok {
					return fmt.Errorf("drone %d: command channel closed", d.ID)
				}
				d.handleCommand(command)
			case packet, ok := <-d.packetRecv:
				if !ok {
					return fmt.Errorf("drone %d: packet channel closed", d.ID)
				}
				if err := d.handlePacket(packet); err != nil {
					return err
				}
			}
		}
	}
}

// drainQueuedPackets services packets already buffered in the packet inlet
// without blocking, ignoring further commands, then terminates the drone.
func (d *Drone) drainQueuedPackets() error {
	for {
		select {
		case packet, ok := <-d.packetRecv:
			if !ok {
				return nil
			}
			if err := d.handlePacket(packet); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// logDecision prints a per-packet decision line when enabled in the settings.
func (d *Drone) logDecision(format string, v ...interface{}) {
	if d.Settings.LogToStdout {
		fmt.Printf("Drone %d "+format+"\n", append([]interface{}{d.ID}, v...)...)
	}
}

// forwardDelay blocks this drone's loop for the configured artificial delay.
// Other nodes are unaffected.
func (d *Drone) forwardDelay() {
	if d.Settings.ForwardDelay > 0 {
		time.Sleep(d.Settings.ForwardDelay)
	}
}
