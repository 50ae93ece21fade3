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
	"sync"

	"github.com/pkg/errors"

	"github.com/tkn-tub/ns3sionna/logger"
	"github.com/tkn-tub/ns3sionna/mobility"
	"github.com/tkn-tub/ns3sionna/types"
	"github.com/tkn-tub/ns3sionna/wire"
)

// Session owns the request/reply transport to the external ray-tracing
// oracle. Calls are synchronous: each request blocks the simulation thread
// in wall-clock time until the reply arrives, while simulated time stands
// still. A non-responding oracle is fatal for the run; there is no timeout
// or retry.
type Session struct {
	mu   sync.Mutex // enforces one outstanding request at a time
	cfg  Config
	conn net.Conn
}

// Dial validates cfg and connects to the configured oracle endpoint.
func Dial(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	conn, err := net.Dial("tcp", cfg.Endpoint)
	if err != nil {
		return nil, errors.Wrapf(types.ErrTransportFailure, "cannot connect to oracle at %s: %v", cfg.Endpoint, err)
	}
	logger.Debugf("connected to oracle at %s", cfg.Endpoint)
	return NewSession(cfg, conn), nil
}

// NewSession wraps an already established request/reply connection.
func NewSession(cfg Config, conn net.Conn) *Session {
	return &Session{cfg: cfg, conn: conn}
}

func (s *Session) Config() Config {
	return s.cfg
}

// NoiseFloorDbm is the receiver noise floor for this session's RF parameters.
func (s *Session) NoiseFloorDbm() types.DbValue {
	return s.cfg.NoiseFloorDbm()
}

// Start performs the one-time init exchange: scene, RF parameters and the
// node roster with trajectory descriptors. Every node in the registry must
// implement the sionna mobility capability.
func (s *Session) Start(reg *mobility.Registry) error {
	init := wire.SimInitMessage{
		SceneFile:           s.cfg.SceneFile,
		Seed:                s.cfg.Seed,
		FrequencyMhz:        uint32(s.cfg.FrequencyMhz),
		ChannelBwMhz:        uint32(s.cfg.EffectiveChannelBwMhz()),
		FftSize:             uint32(s.cfg.EffectiveFftSize()),
		SubcarrierSpacingHz: uint32(s.cfg.SubcarrierSpacingHz),
		MinCoherenceTimeMs:  uint32(s.cfg.MinCoherenceTimeMs),
		Mode:                uint8(s.cfg.Mode),
		SubMode:             uint32(s.cfg.SubMode),
	}
	for _, m := range reg.Nodes() {
		sm, err := mobility.AsSionnaModel(m)
		if err != nil {
			return err
		}
		ni, err := nodeInfo(sm)
		if err != nil {
			return err
		}
		init.Nodes = append(init.Nodes, ni)
	}

	logger.Infof("oracle session init: scene=%s fc=%dMHz bw=%dMHz fft=%d mode=%d submode=%d nodes=%d",
		s.cfg.SceneFile, s.cfg.FrequencyMhz, s.cfg.EffectiveChannelBwMhz(), s.cfg.EffectiveFftSize(),
		s.cfg.Mode, s.cfg.SubMode, reg.Len())

	reply, err := s.roundTrip(&wire.Message{Type: wire.MsgTypeSimInit, SimInit: init})
	if err != nil {
		return err
	}
	if reply.Type != wire.MsgTypeSimAck {
		return errors.Wrapf(types.ErrProtocolViolation, "reply to session init is not an ack (got %s)", reply)
	}
	if !reply.Ack.Ok {
		return errors.Wrapf(types.ErrProtocolViolation, "oracle rejected session init: %s", reply.Ack.ErrorMsg)
	}
	return nil
}

// Query performs exactly one channel-state round trip for the directed link
// (txId -> rxId) at simulated time now. The returned records may cover
// multiple validity windows and/or receivers beyond the requested pair; the
// session does not interpret them.
func (s *Session) Query(txId types.NodeId, rxId types.NodeId, now types.Timestamp) ([]wire.CsiRecord, error) {
	req := &wire.Message{
		Type:    wire.MsgTypeChannelStateRequest,
		Request: wire.ChannelStateRequest{TxId: txId, RxId: rxId, Time: now},
	}
	reply, err := s.roundTrip(req)
	if err != nil {
		return nil, err
	}
	if reply.Type != wire.MsgTypeChannelStateResponse {
		return nil, errors.Wrapf(types.ErrProtocolViolation,
			"reply to channel state request is not a channel state response (got %s)", reply)
	}
	logger.Debugf("oracle returned %d csi record(s) for lnk %d->%d at t=%dns",
		len(reply.Response.Records), txId, rxId, now)
	return reply.Response.Records, nil
}

// Close performs the teardown exchange and closes the transport.
func (s *Session) Close() error {
	reply, err := s.roundTrip(&wire.Message{Type: wire.MsgTypeSimClose})
	if err != nil {
		_ = s.conn.Close()
		return err
	}
	if reply.Type != wire.MsgTypeSimAck {
		_ = s.conn.Close()
		return errors.Wrapf(types.ErrProtocolViolation, "reply to session close is not an ack (got %s)", reply)
	}
	logger.Debugf("oracle session closed")
	return s.conn.Close()
}

// roundTrip sends one request and blocks until its reply is read.
func (s *Session) roundTrip(req *wire.Message) (*wire.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := wire.WriteMessage(s.conn, req); err != nil {
		return nil, errors.Wrapf(types.ErrTransportFailure, "failed to send %s: %v", req, err)
	}
	reply, err := wire.ReadMessage(s.conn)
	if err != nil {
		if errors.Is(err, types.ErrProtocolViolation) {
			return nil, err
		}
		return nil, errors.Wrapf(types.ErrTransportFailure, "no reply received for %s: %v", req, err)
	}
	return reply, nil
}

// nodeInfo converts one node's identity and trajectory to the wire roster
// entry of the init message.
func nodeInfo(sm mobility.SionnaModel) (wire.NodeInfo, error) {
	ni := wire.NodeInfo{
		Id:       sm.Id(),
		Kind:     wire.TrajectoryConstantPosition,
		Position: sm.GetPosition(),
	}
	traj := sm.Trajectory()
	if !traj.RandomWalk {
		return ni, nil
	}

	ni.Kind = wire.TrajectoryRandomWalk
	switch traj.Termination {
	case mobility.TerminateOnBoundary:
		ni.Termination = wire.TerminateOnBoundary
	case mobility.TerminateAfterTime:
		ni.Termination = wire.TerminateAfterTime
		ni.TimeValueNs = uint64(traj.Time.Nanoseconds())
	case mobility.TerminateAfterDistance:
		ni.Termination = wire.TerminateAfterDistance
		ni.DistanceValue = traj.Distance
	default:
		return ni, errors.Wrapf(types.ErrConfiguration, "node %d: unknown termination mode %d", sm.Id(), traj.Termination)
	}

	speed, err := wireVariable(sm.Id(), traj.Speed)
	if err != nil {
		return ni, err
	}
	direction, err := wireVariable(sm.Id(), traj.Direction)
	if err != nil {
		return ni, err
	}
	ni.Speed = speed
	ni.Direction = direction
	return ni, nil
}

func wireVariable(id types.NodeId, v mobility.RandomVariable) (wire.RandomVariable, error) {
	switch rv := v.(type) {
	case mobility.ConstantVariable:
		return wire.RandomVariable{Kind: wire.VariableConstant, A: rv.Value}, nil
	case mobility.UniformVariable:
		return wire.RandomVariable{Kind: wire.VariableUniform, A: rv.Min, B: rv.Max}, nil
	case mobility.NormalVariable:
		return wire.RandomVariable{Kind: wire.VariableNormal, A: rv.Mean, B: rv.Variance}, nil
	default:
		return wire.RandomVariable{}, errors.Wrapf(types.ErrConfiguration,
			"node %d: random variable must be constant, uniform or normal", id)
	}
}
