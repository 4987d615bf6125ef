/*
File Name:  Filter.go
Copyright:  2026 Skylink Project
Author:     Skylink Project

Filters inbound fragments based on the node they came from. Effectively a 100%
drop probability for packets from the listed neighbors (blacklist) or from
everyone not listed (whitelist). Applied after the drop-rate roll. The default
is an empty blacklist: everything passes.
*/

package core

import "github.com/SkylinkProject/core/protocol"

// FilterMode selects how the filter list is interpreted.
type FilterMode uint8

const (
	// FilterBlacklist allows every node not in the list.
	FilterBlacklist FilterMode = iota
	// FilterWhitelist allows only nodes in the list.
	FilterWhitelist
)

func (m FilterMode) String() string {
	if m == FilterWhitelist {
		return "whitelist"
	}
	return "blacklist"
}

// PacketFilter is an allow/deny list over sender node ids.
type PacketFilter struct {
	list []protocol.NodeID
	mode FilterMode
}

// DefaultPacketFilter returns an empty blacklist.
func DefaultPacketFilter() PacketFilter {
	return PacketFilter{mode: FilterBlacklist}
}

// Add inserts a node id into the list. Idempotent.
func (f *PacketFilter) Add(id protocol.NodeID) {
	if !f.contains(id) {
		f.list = append(f.list, id)
	}
}

// Remove deletes a node id from the list. Idempotent.
func (f *PacketFilter) Remove(id protocol.NodeID) {
	for i, member := range f.list {
		if member == id {
			f.list = append(f.list[:i], f.list[i+1:]...)
			return
		}
	}
}

// Clear empties the list.
func (f *PacketFilter) Clear() {
	f.list = f.list[:0]
}

// Set atomically replaces the list.
func (f *PacketFilter) Set(list []protocol.NodeID) {
	f.list = append(f.list[:0:0], list...)
}

// SetMode switches between blacklist and whitelist interpretation.
func (f *PacketFilter) SetMode(mode FilterMode) {
	f.mode = mode
}

// Mode returns the current interpretation of the list.
func (f *PacketFilter) Mode() FilterMode {
	return f.mode
}

// IsAllowed reports whether packets from the given node pass the filter.
func (f *PacketFilter) IsAllowed(id protocol.NodeID) bool {
	if f.mode == FilterWhitelist {
		return f.contains(id)
	}
	return !f.contains(id)
}

func (f *PacketFilter) contains(id protocol.NodeID) bool {
	for _, member := range f.list {
		if member == id {
			return true
		}
	}
	return false
}
