/*
File Name:  Routing Header_test.go
Copyright:  2026 Skylink Project
Author:     Skylink Project
*/

package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderHops(t *testing.T) {
	header := SourceRoutingHeader{Hops: []NodeID{4, 5, 6}, HopIndex: 1}

	previous, ok := header.PreviousHop()
	require.True(t, ok)
	assert.Equal(t, NodeID(4), previous)

	current, ok := header.CurrentHop()
	require.True(t, ok)
	assert.Equal(t, NodeID(5), current)

	next, ok := header.NextHop()
	require.True(t, ok)
	assert.Equal(t, NodeID(6), next)

	assert.False(t, header.IsLastHop())

	header.HopIndex = 2
	assert.True(t, header.IsLastHop())

	_, ok = header.NextHop()
	assert.False(t, ok)
}

func TestHeaderHopsOutOfRange(t *testing.T) {
	header := SourceRoutingHeader{Hops: []NodeID{4, 5}, HopIndex: 0}

	_, ok := header.PreviousHop()
	assert.False(t, ok)

	header.HopIndex = 2
	_, ok = header.CurrentHop()
	assert.False(t, ok)
	_, ok = header.PreviousHop()
	assert.True(t, ok) // Hops[1] is still valid

	empty := SourceRoutingHeader{}
	_, ok = empty.PreviousHop()
	assert.False(t, ok)
	_, ok = empty.NextHop()
	assert.False(t, ok)
	assert.False(t, empty.IsLastHop())
}

func TestHeaderReversed(t *testing.T) {
	// A response from node 6 (cursor position 2) travels back 5, 4.
	header := SourceRoutingHeader{Hops: []NodeID{4, 5, 6, 7}, HopIndex: 2}

	reversed := header.Reversed()
	assert.Equal(t, []NodeID{6, 5, 4}, reversed.Hops)
	assert.Equal(t, 1, reversed.HopIndex)

	// The original header is untouched.
	assert.Equal(t, []NodeID{4, 5, 6, 7}, header.Hops)
	assert.Equal(t, 2, header.HopIndex)
}

func TestHeaderReversedCursorPastEnd(t *testing.T) {
	// Response-local cursors may sit one past the end of the route.
	header := SourceRoutingHeader{Hops: []NodeID{6, 5, 4}, HopIndex: 3}

	reversed := header.Reversed()
	assert.Equal(t, []NodeID{4, 5, 6}, reversed.Hops)
	assert.Equal(t, 1, reversed.HopIndex)
}
