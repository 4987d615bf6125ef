/*
File Name:  Events.go
Copyright:  2026 Skylink Project
Author:     Skylink Project
*/

package core

import "github.com/SkylinkProject/core/protocol"

// DroneEvent is a notification from a drone to the supervising controller.
type DroneEvent interface {
	isDroneEvent()
}

// PacketSent is telemetry for every packet successfully forwarded.
type PacketSent struct {
	Packet protocol.Packet
}

// PacketDropped is telemetry for every fragment lost to the drop-rate roll.
type PacketDropped struct {
	Packet protocol.Packet
}

// ControllerShortcut asks the controller to deliver a failure NACK out of
// band. Used when the failed packet is itself a terminal signal (ACK, NACK,
// FloodResponse) whose failures must not travel over the network.
type ControllerShortcut struct {
	Packet protocol.Packet
}

func (PacketSent) isDroneEvent()         {}
func (PacketDropped) isDroneEvent()      {}
func (ControllerShortcut) isDroneEvent() {}
