/*
File Name:  Backend.go
Copyright:  2026 Skylink Project
Author:     Skylink Project

The backend assembles a network instance from the config: it creates the
per-drone command and packet channels, cross-wires the neighbor tables, runs
every drone in its own goroutine and plays the controller side of the channel
contract. Drone events arrive on one shared sink and are fanned out to
registered subscribers (the web API event stream among them).
*/

package core

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SkylinkProject/core/protocol"
)

// Backend is a running network instance.
type Backend struct {
	Config *Config

	// Events is the shared controller sink all drones report into.
	Events chan DroneEvent

	drones    map[protocol.NodeID]*droneInstance
	startTime time.Time

	subscribersMutex sync.RWMutex
	subscribers      map[uuid.UUID]chan DroneEvent

	runWait  sync.WaitGroup
	pumpWait sync.WaitGroup
}

// droneInstance couples a drone with its inbound channels.
type droneInstance struct {
	drone    *Drone
	config   DroneConfig
	commands chan Command
	packets  chan protocol.Packet
}

// NodeStatus is a point-in-time snapshot of one drone, readable without
// touching loop-owned state.
type NodeStatus struct {
	ID             protocol.NodeID
	DropRate       float64 // As configured at startup
	Neighbors      []protocol.NodeID
	QueuedPackets  int
	QueuedCommands int
}

// NewBackend wires a network instance from the config. Invalid drop rates and
// neighbor references outside the roster are fatal configuration errors.
func NewBackend(config *Config) (backend *Backend, err error) {
	if config.ChannelBuffer <= 0 {
		config.ChannelBuffer = 256
	}

	backend = &Backend{
		Config:      config,
		Events:      make(chan DroneEvent, config.ChannelBuffer*4),
		drones:      make(map[protocol.NodeID]*droneInstance),
		subscribers: make(map[uuid.UUID]chan DroneEvent),
	}

	// First pass: every drone gets its inbound channels.
	for _, droneConfig := range config.Drones {
		if _, exists := backend.drones[droneConfig.ID]; exists {
			return nil, fmt.Errorf("duplicate drone id %d in config", droneConfig.ID)
		}
		backend.drones[droneConfig.ID] = &droneInstance{
			config:   droneConfig,
			commands: make(chan Command, config.ChannelBuffer),
			packets:  make(chan protocol.Packet, config.ChannelBuffer),
		}
	}

	// Second pass: cross-wire the neighbor tables and create the drones.
	for _, instance := range backend.drones {
		neighbors := make(map[protocol.NodeID]chan<- protocol.Packet, len(instance.config.Neighbors))
		for _, neighborID := range instance.config.Neighbors {
			neighbor, exists := backend.drones[neighborID]
			if !exists {
				return nil, fmt.Errorf("drone %d references unknown neighbor %d", instance.config.ID, neighborID)
			}
			neighbors[neighborID] = neighbor.packets
		}

		instance.drone, err = NewDrone(instance.config.ID, backend.Events, instance.commands, instance.packets, neighbors, instance.config.DropRate)
		if err != nil {
			return nil, err
		}
		if instance.config.Settings != nil {
			instance.config.Settings.Apply(&instance.drone.Settings)
		}
	}

	return backend, nil
}

// Start runs every drone and the event fan-out pump.
func (b *Backend) Start() {
	b.startTime = time.Now()

	for _, instance := range b.drones {
		b.runWait.Add(1)
		go func(instance *droneInstance) {
			defer b.runWait.Done()
			if err := instance.drone.Run(); err != nil {
				log.Printf("[Backend] drone %d terminated: %v\n", instance.config.ID, err)
			}
		}(instance)
	}

	b.pumpWait.Add(1)
	go b.pumpEvents()
}

// Stop sends a crash command to every drone, waits for the loops to return and
// closes the event sink, which ends the fan-out pump and all subscriptions.
func (b *Backend) Stop() {
	for id := range b.drones {
		// A full command inlet means the drone is already gone.
		_ = b.SendCommand(id, Crash{})
	}
	b.runWait.Wait()

	close(b.Events)
	b.pumpWait.Wait()
}

// pumpEvents fans the shared controller sink out to all subscribers. A slow
// subscriber loses events rather than stalling the network.
func (b *Backend) pumpEvents() {
	defer b.pumpWait.Done()

	for event := range b.Events {
		b.subscribersMutex.RLock()
		for _, subscriber := range b.subscribers {
			select {
			case subscriber <- event:
			default:
			}
		}
		b.subscribersMutex.RUnlock()
	}

	b.subscribersMutex.Lock()
	for id, subscriber := range b.subscribers {
		close(subscriber)
		delete(b.subscribers, id)
	}
	b.subscribersMutex.Unlock()
}

// Subscribe registers an event listener. The returned channel is closed when
// the backend stops or the subscription is removed.
func (b *Backend) Subscribe() (id uuid.UUID, events <-chan DroneEvent) {
	subscriber := make(chan DroneEvent, b.Config.ChannelBuffer)

	b.subscribersMutex.Lock()
	id = uuid.New()
	b.subscribers[id] = subscriber
	b.subscribersMutex.Unlock()

	return id, subscriber
}

// Unsubscribe removes an event listener.
func (b *Backend) Unsubscribe(id uuid.UUID) {
	b.subscribersMutex.Lock()
	if subscriber, exists := b.subscribers[id]; exists {
		close(subscriber)
		delete(b.subscribers, id)
	}
	b.subscribersMutex.Unlock()
}

// SendCommand delivers a controller command to the given drone.
func (b *Backend) SendCommand(id protocol.NodeID, command Command) error {
	instance, exists := b.drones[id]
	if !exists {
		return fmt.Errorf("no drone %d", id)
	}
	select {
	case instance.commands <- command:
		return nil
	default:
		return fmt.Errorf("command inlet of drone %d is full", id)
	}
}

// InjectPacket delivers a packet to the given drone's packet inlet, as if it
// arrived from a wired peer.
func (b *Backend) InjectPacket(id protocol.NodeID, packet protocol.Packet) error {
	instance, exists := b.drones[id]
	if !exists {
		return fmt.Errorf("no drone %d", id)
	}
	select {
	case instance.packets <- packet:
		return nil
	default:
		return fmt.Errorf("packet inlet of drone %d is full", id)
	}
}

// PacketInlet exposes a drone's inbound packet channel so the controller can
// wire it into another node via AddSender.
func (b *Backend) PacketInlet(id protocol.NodeID) (chan<- protocol.Packet, error) {
	instance, exists := b.drones[id]
	if !exists {
		return nil, fmt.Errorf("no drone %d", id)
	}
	return instance.packets, nil
}

// NodeIDs returns the roster in ascending order.
func (b *Backend) NodeIDs() (ids []protocol.NodeID) {
	for id := range b.drones {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// NodeStatus snapshots one drone.
func (b *Backend) NodeStatus(id protocol.NodeID) (status NodeStatus, err error) {
	instance, exists := b.drones[id]
	if !exists {
		return status, fmt.Errorf("no drone %d", id)
	}
	return NodeStatus{
		ID:             id,
		DropRate:       instance.config.DropRate,
		Neighbors:      append([]protocol.NodeID(nil), instance.config.Neighbors...),
		QueuedPackets:  len(instance.packets),
		QueuedCommands: len(instance.commands),
	}, nil
}

// LogError logs an error message attributed to the given function.
func (b *Backend) LogError(function, format string, v ...interface{}) {
	log.Printf("["+function+"] "+format, v...)
}

// Uptime is the time since Start.
func (b *Backend) Uptime() time.Duration {
	if b.startTime.IsZero() {
		return 0
	}
	return time.Since(b.startTime)
}
