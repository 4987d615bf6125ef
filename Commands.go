/*
File Name:  Commands.go
Copyright:  2026 Skylink Project
Author:     Skylink Project

Controller commands. A sealed union over four categories: lifecycle (neighbor
table, drop rate, crash), settings mutations, filter mutations and the payload
corruption toggle. Command failures (duplicate or absent neighbor, out-of-range
drop rate) are logged and never fatal.
*/

package core

import (
	"fmt"
	"log"
	"time"

	"github.com/SkylinkProject/core/protocol"
)

// Command is a single controller instruction to a drone.
type Command interface {
	isCommand()
}

// Lifecycle commands.
type (
	// AddSender wires an outbound channel to a new neighbor.
	AddSender struct {
		NodeID protocol.NodeID
		Sender chan<- protocol.Packet
	}

	// RemoveSender unwires a neighbor and removes it from the filter list.
	RemoveSender struct {
		NodeID protocol.NodeID
	}

	// SetPacketDropRate replaces the drop probability. Accepted for [0,1].
	SetPacketDropRate struct {
		DropRate float64
	}

	// Crash latches the crash flag. It takes effect on the next loop
	// iteration and never interrupts work in progress.
	Crash struct{}
)

// Settings commands, one per DroneSettings field.
type (
	SetLogToStdout               struct{ Enabled bool }
	SetForwardDelay              struct{ Delay time.Duration }
	SetAwaitQueuedPacketsOnCrash struct{ Enabled bool }
	SetFilterPackets             struct{ Enabled bool }
	SetNackOnFilteredPacket      struct{ Enabled bool }
)

// Filter commands.
type (
	FilterAdd     struct{ NodeID protocol.NodeID }
	FilterRemove  struct{ NodeID protocol.NodeID }
	FilterClear   struct{}
	FilterSet     struct{ List []protocol.NodeID }
	FilterSetMode struct{ Mode FilterMode }
)

// ToggleCorruptPayloads flips the payload corruption mode.
type ToggleCorruptPayloads struct{}

func (AddSender) isCommand()                    {}
func (RemoveSender) isCommand()                 {}
func (SetPacketDropRate) isCommand()            {}
func (Crash) isCommand()                        {}
func (SetLogToStdout) isCommand()               {}
func (SetForwardDelay) isCommand()              {}
func (SetAwaitQueuedPacketsOnCrash) isCommand() {}
func (SetFilterPackets) isCommand()             {}
func (SetNackOnFilteredPacket) isCommand()      {}
func (FilterAdd) isCommand()                    {}
func (FilterRemove) isCommand()                 {}
func (FilterClear) isCommand()                  {}
func (FilterSet) isCommand()                    {}
func (FilterSetMode) isCommand()                {}
func (ToggleCorruptPayloads) isCommand()        {}

// handleCommand applies one controller command to the drone state.
func (d *Drone) handleCommand(command Command) {
	switch cmd := command.(type) {
	case AddSender:
		if err := d.addChannel(cmd.NodeID, cmd.Sender); err != nil {
			log.Printf("[Drone %d] AddSender failed: %v\n", d.ID, err)
		}
	case RemoveSender:
		if err := d.removeChannel(cmd.NodeID); err != nil {
			log.Printf("[Drone %d] RemoveSender failed: %v\n", d.ID, err)
		}
	case SetPacketDropRate:
		if cmd.DropRate < 0 || cmd.DropRate > 1 {
			log.Printf("[Drone %d] SetPacketDropRate failed: invalid packet drop rate %v\n", d.ID, cmd.DropRate)
		} else {
			d.dropRate = cmd.DropRate
		}
	case Crash:
		d.hasToCrash = true

	case SetLogToStdout:
		d.Settings.LogToStdout = cmd.Enabled
	case SetForwardDelay:
		d.Settings.ForwardDelay = cmd.Delay
	case SetAwaitQueuedPacketsOnCrash:
		d.Settings.AwaitQueuedPacketsOnCrash = cmd.Enabled
	case SetFilterPackets:
		d.Settings.FilterPackets = cmd.Enabled
	case SetNackOnFilteredPacket:
		d.Settings.SendNackOnFilteredPacket = cmd.Enabled

	case FilterAdd:
		d.Filter.Add(cmd.NodeID)
	case FilterRemove:
		d.Filter.Remove(cmd.NodeID)
	case FilterClear:
		d.Filter.Clear()
	case FilterSet:
		d.Filter.Set(cmd.List)
	case FilterSetMode:
		d.Filter.SetMode(cmd.Mode)

	case ToggleCorruptPayloads:
		d.Settings.CorruptPayloads = !d.Settings.CorruptPayloads

	default:
		log.Printf("[Drone %d] unknown command %T ignored\n", d.ID, command)
	}
}

// addChannel wires a new adjacent node. Duplicate ids are rejected.
func (d *Drone) addChannel(id protocol.NodeID, sender chan<- protocol.Packet) error {
	if _, exists := d.packetSend[id]; exists {
		return fmt.Errorf("channel to node %d already exists", id)
	}
	d.packetSend[id] = sender
	return nil
}

// removeChannel unwires an adjacent node and forgets it in the filter.
func (d *Drone) removeChannel(id protocol.NodeID) error {
	if _, exists := d.packetSend[id]; !exists {
		return fmt.Errorf("no adjacent node %d", id)
	}
	delete(d.packetSend, id)
	d.Filter.Remove(id)
	return nil
}
