/*
File Name:  Flood_test.go
Copyright:  2026 Skylink Project
Author:     Skylink Project
*/

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkylinkProject/core/protocol"
)

func floodPacket(session, floodID uint64, trace []protocol.PathEntry) protocol.Packet {
	return protocol.Packet{
		PackType:  protocol.FloodRequest{FloodID: floodID, PathTrace: trace},
		SessionID: session,
	}
}

func TestFloodFanOut(t *testing.T) {
	harness := newTestDrone(t, 5, []protocol.NodeID{4, 6, 7}, 0)

	inbound := floodPacket(30, 42, []protocol.PathEntry{{NodeID: 4, NodeType: protocol.NodeTypeClient}})
	require.NoError(t, harness.drone.handlePacket(inbound))

	wantTrace := []protocol.PathEntry{
		{NodeID: 4, NodeType: protocol.NodeTypeClient},
		{NodeID: 5, NodeType: protocol.NodeTypeDrone},
	}

	for _, neighbor := range []protocol.NodeID{6, 7} {
		forwarded := harness.received(t, neighbor)
		request, ok := forwarded.PackType.(protocol.FloodRequest)
		require.True(t, ok)
		assert.Equal(t, uint64(42), request.FloodID)
		assert.Equal(t, wantTrace, request.PathTrace)
		assert.Empty(t, forwarded.RoutingHeader.Hops)
		assert.Equal(t, uint64(30), forwarded.SessionID)
	}

	// Never back to the sender.
	harness.noneReceived(t, 4)
	assert.Contains(t, harness.drone.floodIDs, uint64(42))
}

func TestFloodCopiesDoNotShareTraces(t *testing.T) {
	harness := newTestDrone(t, 5, []protocol.NodeID{4, 6, 7}, 0)

	inbound := floodPacket(30, 43, []protocol.PathEntry{{NodeID: 4, NodeType: protocol.NodeTypeClient}})
	require.NoError(t, harness.drone.handlePacket(inbound))

	first := harness.received(t, 6).PackType.(protocol.FloodRequest)
	second := harness.received(t, 7).PackType.(protocol.FloodRequest)

	// Appending downstream must not clobber the sibling copy.
	first.PathTrace = append(first.PathTrace, protocol.PathEntry{NodeID: 6, NodeType: protocol.NodeTypeDrone})
	first.PathTrace[0].NodeID = 99
	assert.Equal(t, protocol.NodeID(4), second.PathTrace[0].NodeID)
	assert.Len(t, second.PathTrace, 2)
}

func TestFloodSeenIDAnswersImmediately(t *testing.T) {
	harness := newTestDrone(t, 5, []protocol.NodeID{4, 6, 7}, 0)

	first := floodPacket(30, 44, []protocol.PathEntry{{NodeID: 4, NodeType: protocol.NodeTypeClient}})
	require.NoError(t, harness.drone.handlePacket(first))
	harness.received(t, 6)
	harness.received(t, 7)

	// The same flood arrives again over another edge.
	repeat := floodPacket(31, 44, []protocol.PathEntry{
		{NodeID: 4, NodeType: protocol.NodeTypeClient},
		{NodeID: 6, NodeType: protocol.NodeTypeDrone},
	})
	require.NoError(t, harness.drone.handlePacket(repeat))

	response := harness.received(t, 6)
	floodResponse, ok := response.PackType.(protocol.FloodResponse)
	require.True(t, ok)
	assert.Equal(t, uint64(44), floodResponse.FloodID)
	assert.Equal(t, []protocol.NodeID{5, 6, 4}, response.RoutingHeader.Hops)
	assert.Equal(t, 1, response.RoutingHeader.HopIndex)

	// No second fan-out.
	harness.noneReceived(t, 7)
	assert.Len(t, harness.drone.floodIDs, 1)
}

func TestFloodDeadEnd(t *testing.T) {
	harness := newTestDrone(t, 5, []protocol.NodeID{4}, 0)

	inbound := floodPacket(32, 45, []protocol.PathEntry{{NodeID: 4, NodeType: protocol.NodeTypeClient}})
	require.NoError(t, harness.drone.handlePacket(inbound))

	response := harness.received(t, 4)
	floodResponse, ok := response.PackType.(protocol.FloodResponse)
	require.True(t, ok)
	assert.Equal(t, uint64(45), floodResponse.FloodID)
	assert.Equal(t, []protocol.PathEntry{
		{NodeID: 4, NodeType: protocol.NodeTypeClient},
		{NodeID: 5, NodeType: protocol.NodeTypeDrone},
	}, floodResponse.PathTrace)
	assert.Equal(t, []protocol.NodeID{5, 4}, response.RoutingHeader.Hops)

	// Dead ends answer without recording the flood id.
	assert.Empty(t, harness.drone.floodIDs)
}

func TestFloodEmptyTraceIsFatal(t *testing.T) {
	harness := newTestDrone(t, 5, []protocol.NodeID{4, 6}, 0)

	err := harness.drone.handlePacket(floodPacket(33, 46, nil))
	assert.Error(t, err)
}
