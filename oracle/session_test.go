// Copyright (c) 2025-2026, The ns3sionna Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

package oracle

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkn-tub/ns3sionna/mobility"
	"github.com/tkn-tub/ns3sionna/types"
	"github.com/tkn-tub/ns3sionna/wire"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.SceneFile = "simple_room/simple_room.xml"
	return cfg
}

// serveOracle runs a scripted fake oracle on the server end of a pipe and
// returns all requests it has seen.
func serveOracle(t *testing.T, conn net.Conn, script func(req *wire.Message) *wire.Message) *[]wire.Message {
	t.Helper()
	requests := &[]wire.Message{}
	go func() {
		for {
			req, err := wire.ReadMessage(conn)
			if err != nil {
				return
			}
			*requests = append(*requests, *req)
			reply := script(req)
			if reply == nil {
				return
			}
			if err := wire.WriteMessage(conn, reply); err != nil {
				return
			}
		}
	}()
	return requests
}

func ackOk(*wire.Message) *wire.Message {
	return &wire.Message{Type: wire.MsgTypeSimAck, Ack: wire.AckMessage{Ok: true}}
}

func TestSessionStart(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	requests := serveOracle(t, server, ackOk)

	reg := mobility.NewRegistry()
	require.NoError(t, reg.Add(mobility.NewConstantPositionNode(0, types.Vector3{X: 1, Z: 1.5})))
	walker, err := mobility.NewRandomWalkNode(1, types.Vector3{Y: 3}, mobility.Trajectory{
		Termination: mobility.TerminateAfterTime,
		Time:        2 * time.Second,
		Speed:       mobility.UniformVariable{Min: 0.5, Max: 1.5},
		Direction:   mobility.ConstantVariable{Value: 0.25},
	})
	require.NoError(t, err)
	require.NoError(t, reg.Add(walker))

	s := NewSession(testConfig(), client)
	require.NoError(t, s.Start(reg))

	require.Len(t, *requests, 1)
	init := (*requests)[0].SimInit
	assert.Equal(t, "simple_room/simple_room.xml", init.SceneFile)
	assert.Equal(t, uint32(5210), init.FrequencyMhz)
	// guard multiplier applied to bandwidth and FFT size
	assert.Equal(t, uint32(240), init.ChannelBwMhz)
	assert.Equal(t, uint32(3072), init.FftSize)
	assert.Equal(t, uint8(ModeP2MPLookahead), init.Mode)

	require.Len(t, init.Nodes, 2)
	assert.Equal(t, wire.TrajectoryConstantPosition, init.Nodes[0].Kind)
	assert.Equal(t, wire.TrajectoryRandomWalk, init.Nodes[1].Kind)
	assert.Equal(t, wire.TerminateAfterTime, init.Nodes[1].Termination)
	assert.Equal(t, uint64(2_000_000_000), init.Nodes[1].TimeValueNs)
	assert.Equal(t, wire.RandomVariable{Kind: wire.VariableUniform, A: 0.5, B: 1.5}, init.Nodes[1].Speed)
	assert.Equal(t, wire.RandomVariable{Kind: wire.VariableConstant, A: 0.25}, init.Nodes[1].Direction)
}

func TestSessionStartRejected(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	serveOracle(t, server, func(*wire.Message) *wire.Message {
		return &wire.Message{Type: wire.MsgTypeSimAck, Ack: wire.AckMessage{Ok: false, ErrorMsg: "unknown scene"}}
	})

	reg := mobility.NewRegistry()
	require.NoError(t, reg.Add(mobility.NewConstantPositionNode(0, types.Vector3{})))

	s := NewSession(testConfig(), client)
	err := s.Start(reg)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrProtocolViolation)
	assert.Contains(t, err.Error(), "unknown scene")
}

func TestSessionStartWrongReplyKind(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	serveOracle(t, server, func(*wire.Message) *wire.Message {
		return &wire.Message{Type: wire.MsgTypeChannelStateResponse}
	})

	reg := mobility.NewRegistry()
	require.NoError(t, reg.Add(mobility.NewConstantPositionNode(0, types.Vector3{})))

	s := NewSession(testConfig(), client)
	err := s.Start(reg)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrProtocolViolation)
}

type fixedPositionModel struct{ id types.NodeId }

func (m fixedPositionModel) Id() types.NodeId           { return m.id }
func (m fixedPositionModel) GetPosition() types.Vector3 { return types.Vector3{} }

func TestSessionStartRequiresCapability(t *testing.T) {
	client, _ := net.Pipe()
	defer client.Close()

	reg := mobility.NewRegistry()
	require.NoError(t, reg.Add(fixedPositionModel{id: 3}))

	s := NewSession(testConfig(), client)
	err := s.Start(reg)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrConfiguration)
}

func TestSessionQuery(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	records := []wire.CsiRecord{
		{
			StartTime: 0, EndTime: 1_000_000, TxId: 1,
			TxPosition: types.Vector3{Z: 1.5},
			RxNodes: []wire.CsiRxNode{
				{Id: 2, Position: types.Vector3{X: 10, Z: 1.5}, DelayNs: 33, WidebandLossDb: 60.1},
			},
		},
	}
	requests := serveOracle(t, server, func(req *wire.Message) *wire.Message {
		return &wire.Message{Type: wire.MsgTypeChannelStateResponse, Response: wire.ChannelStateResponse{Records: records}}
	})

	s := NewSession(testConfig(), client)
	got, err := s.Query(1, 2, 500_000)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	require.Len(t, *requests, 1)
	req := (*requests)[0].Request
	assert.Equal(t, types.NodeId(1), req.TxId)
	assert.Equal(t, types.NodeId(2), req.RxId)
	assert.Equal(t, types.Timestamp(500_000), req.Time)
}

func TestSessionQueryWrongReplyKind(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	serveOracle(t, server, ackOk)

	s := NewSession(testConfig(), client)
	_, err := s.Query(1, 2, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrProtocolViolation)
}

func TestSessionTransportFailure(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	serveOracle(t, server, func(*wire.Message) *wire.Message {
		_ = server.Close() // oracle dies without replying
		return nil
	})

	s := NewSession(testConfig(), client)
	_, err := s.Query(1, 2, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrTransportFailure)
}

func TestSessionClose(t *testing.T) {
	client, server := net.Pipe()
	requests := serveOracle(t, server, ackOk)

	s := NewSession(testConfig(), client)
	require.NoError(t, s.Close())
	require.Len(t, *requests, 1)
	assert.Equal(t, wire.MsgTypeSimClose, (*requests)[0].Type)
}
