/*
File Name:  Settings.go
Copyright:  2026 Skylink Project
Author:     Skylink Project
*/

package core

import "time"

// DroneSettings is the mutable rule set a drone follows. Pure storage, no
// behavior; consumed by the routing engine and mutated by settings commands.
type DroneSettings struct {
	// LogToStdout prints a line for every accept/forward/drop/filter decision.
	LogToStdout bool

	// ForwardDelay is the artificial time the drone sleeps before forwarding
	// a packet. Zero disables it.
	ForwardDelay time.Duration

	// AwaitQueuedPacketsOnCrash processes all packets already buffered in the
	// inlet before a crash command terminates the drone.
	AwaitQueuedPacketsOnCrash bool

	// FilterPackets applies the packet filter to inbound fragments.
	FilterPackets bool

	// SendNackOnFilteredPacket answers filtered fragments with a Dropped NACK
	// instead of staying silent. Known to be loop-prone: the NACK itself may
	// be filtered at the reverse hop.
	SendNackOnFilteredPacket bool

	// CorruptPayloads overwrites the data of every forwarded fragment with
	// the repeating corruption marker.
	CorruptPayloads bool
}

// DefaultDroneSettings returns the settings every new drone starts with.
func DefaultDroneSettings() DroneSettings {
	return DroneSettings{
		LogToStdout:               false,
		ForwardDelay:              0,
		AwaitQueuedPacketsOnCrash: true,
		FilterPackets:             true,
		SendNackOnFilteredPacket:  false,
		CorruptPayloads:           false,
	}
}
