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

package wire

import (
	"fmt"

	"github.com/tkn-tub/ns3sionna/types"
)

type MsgType = uint8

// Message type IDs (external, shared between the simulator and the oracle server).
const (
	MsgTypeSimInit              MsgType = 1
	MsgTypeSimAck               MsgType = 2
	MsgTypeChannelStateRequest  MsgType = 3
	MsgTypeChannelStateResponse MsgType = 4
	MsgTypeSimClose             MsgType = 5
)

// Message is the envelope multiplexing all message kinds exchanged with the
// oracle over one request/reply channel. Exactly one of the payload fields is
// meaningful, selected by Type; SimClose carries no payload at all.
type Message struct {
	Type MsgType

	SimInit  SimInitMessage
	Ack      AckMessage
	Request  ChannelStateRequest
	Response ChannelStateResponse
}

// Trajectory descriptor kinds for a node, reconstructed oracle-side.
type TrajectoryKind uint8

const (
	TrajectoryConstantPosition TrajectoryKind = 0
	TrajectoryRandomWalk       TrajectoryKind = 1
)

// Termination modes of a random-walk segment.
type TerminationKind uint8

const (
	TerminateOnBoundary    TerminationKind = 0 // reflect on scene boundary
	TerminateAfterTime     TerminationKind = 1
	TerminateAfterDistance TerminationKind = 2
)

// Distribution kinds for random-walk speed and direction.
type VariableKind uint8

const (
	VariableConstant VariableKind = 0
	VariableUniform  VariableKind = 1
	VariableNormal   VariableKind = 2
)

// RandomVariable is the wire form of a distribution descriptor.
// Constant: A=value. Uniform: A=min, B=max. Normal: A=mean, B=variance.
type RandomVariable struct {
	Kind VariableKind
	A    float64
	B    float64
}

// NodeInfo describes one node's identity and trajectory at session init.
// Termination, TimeValueNs, DistanceValue, Speed and Direction are only
// meaningful for TrajectoryRandomWalk.
type NodeInfo struct {
	Id            types.NodeId
	Kind          TrajectoryKind
	Position      types.Vector3
	Termination   TerminationKind
	TimeValueNs   uint64
	DistanceValue float64
	Speed         RandomVariable
	Direction     RandomVariable
}

// SimInitMessage carries the one-time session setup: scene selection, RF
// parameters and the node roster with per-node trajectory descriptors.
type SimInitMessage struct {
	SceneFile           string
	Seed                uint64
	FrequencyMhz        uint32 // center frequency
	ChannelBwMhz        uint32 // incl. guard-band multiplier
	FftSize             uint32
	SubcarrierSpacingHz uint32
	MinCoherenceTimeMs  uint32
	Mode                uint8
	SubMode             uint32 // look-ahead depth for the look-ahead mode
	Nodes               []NodeInfo
}

// AckMessage is the oracle's reply to SimInit and SimClose.
type AckMessage struct {
	Ok       bool
	ErrorMsg string
}

// ChannelStateRequest asks for the channel state of one directed link at one
// point in simulated time.
type ChannelStateRequest struct {
	TxId types.NodeId
	RxId types.NodeId
	Time types.Timestamp
}

// ChannelStateResponse delivers one or more CSI records. Depending on the
// oracle's operating mode the records may cover multiple future validity
// windows and/or receivers beyond the requested pair.
type ChannelStateResponse struct {
	Records []CsiRecord
}

// CsiRecord is the channel state computed from one transmitter in one
// validity window [StartTime, EndTime), towards one or more receivers.
type CsiRecord struct {
	StartTime  types.Timestamp
	EndTime    types.Timestamp
	TxId       types.NodeId
	TxPosition types.Vector3
	RxNodes    []CsiRxNode
}

// CsiRxNode is the per-receiver part of a CsiRecord. The three subcarrier
// slices are parallel and may be empty when CSI estimation is disabled
// oracle-side.
type CsiRxNode struct {
	Id             types.NodeId
	Position       types.Vector3
	DelayNs        uint64
	WidebandLossDb float64
	FrequenciesHz  []float64
	CsiReal        []float64
	CsiImag        []float64
}

func (m *Message) String() string {
	switch m.Type {
	case MsgTypeSimInit:
		return fmt.Sprintf("Msg{SimInit,scene=%s,nodes=%d}", m.SimInit.SceneFile, len(m.SimInit.Nodes))
	case MsgTypeSimAck:
		return fmt.Sprintf("Msg{Ack,ok=%v}", m.Ack.Ok)
	case MsgTypeChannelStateRequest:
		return fmt.Sprintf("Msg{CsiReq,tx=%d,rx=%d,t=%dns}", m.Request.TxId, m.Request.RxId, m.Request.Time)
	case MsgTypeChannelStateResponse:
		return fmt.Sprintf("Msg{CsiRsp,records=%d}", len(m.Response.Records))
	case MsgTypeSimClose:
		return "Msg{SimClose}"
	default:
		return fmt.Sprintf("Msg{unknown type %d}", m.Type)
	}
}
