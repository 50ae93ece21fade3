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

package mobility

import (
	"time"

	"github.com/pkg/errors"

	"github.com/tkn-tub/ns3sionna/types"
)

// Model is the minimal position contract for an endpoint of a channel query.
type Model interface {
	Id() types.NodeId
	GetPosition() types.Vector3
}

// SionnaModel is the capability the channel-state cache and the oracle
// session require from every endpoint: position write-back (for the channel
// reciprocity correction) and a trajectory descriptor that the oracle uses to
// reconstruct the node's motion server-side.
type SionnaModel interface {
	Model
	SetPosition(position types.Vector3)
	Trajectory() Trajectory
}

// AsSionnaModel asserts the full mobility capability on m. Supplying any
// other mobility implementation is a fatal configuration error.
func AsSionnaModel(m Model) (SionnaModel, error) {
	if m == nil {
		return nil, errors.Wrap(types.ErrConfiguration, "mobility model is nil")
	}
	sm, ok := m.(SionnaModel)
	if !ok {
		return nil, errors.Wrapf(types.ErrConfiguration, "node %d does not use the sionna mobility model", m.Id())
	}
	return sm, nil
}

// RandomVariable describes a distribution sampled oracle-side for random-walk
// speed or direction. Implemented only by ConstantVariable, UniformVariable
// and NormalVariable; any other implementation is rejected at session init.
type RandomVariable interface {
	randomVariable()
}

type ConstantVariable struct {
	Value float64
}

type UniformVariable struct {
	Min float64
	Max float64
}

type NormalVariable struct {
	Mean     float64
	Variance float64
}

func (ConstantVariable) randomVariable() {}
func (UniformVariable) randomVariable()  {}
func (NormalVariable) randomVariable()   {}

// TerminationMode selects when a random-walk segment ends and the next speed
// and direction are drawn.
type TerminationMode uint8

const (
	TerminateOnBoundary TerminationMode = iota // walk until reflecting on the scene boundary
	TerminateAfterTime
	TerminateAfterDistance
)

// Trajectory describes how a node moves. The zero value is a constant
// position.
type Trajectory struct {
	RandomWalk  bool
	Termination TerminationMode
	Time        time.Duration // segment duration, for TerminateAfterTime
	Distance    float64       // segment length in meters, for TerminateAfterDistance
	Speed       RandomVariable
	Direction   RandomVariable
}

// Node is the single concrete mobility implementation. Mobility is simulated
// inside the oracle; positions computed there are propagated back via
// SetPosition by the channel-state cache.
type Node struct {
	id         types.NodeId
	position   types.Vector3
	trajectory Trajectory
}

// NewConstantPositionNode creates a node that never moves.
func NewConstantPositionNode(id types.NodeId, position types.Vector3) *Node {
	return &Node{id: id, position: position}
}

// NewRandomWalkNode creates a node performing a random walk reconstructed
// oracle-side from the given trajectory.
func NewRandomWalkNode(id types.NodeId, position types.Vector3, trajectory Trajectory) (*Node, error) {
	trajectory.RandomWalk = true
	if trajectory.Speed == nil || trajectory.Direction == nil {
		return nil, errors.Wrapf(types.ErrConfiguration, "node %d: random walk needs speed and direction variables", id)
	}
	switch trajectory.Termination {
	case TerminateOnBoundary:
	case TerminateAfterTime:
		if trajectory.Time <= 0 {
			return nil, errors.Wrapf(types.ErrConfiguration, "node %d: time value must be greater than 0", id)
		}
	case TerminateAfterDistance:
		if trajectory.Distance <= 0.0 {
			return nil, errors.Wrapf(types.ErrConfiguration, "node %d: distance value must be greater than 0", id)
		}
	default:
		return nil, errors.Wrapf(types.ErrConfiguration, "node %d: unknown termination mode %d", id, trajectory.Termination)
	}
	return &Node{id: id, position: position, trajectory: trajectory}, nil
}

func (n *Node) Id() types.NodeId {
	return n.id
}

func (n *Node) GetPosition() types.Vector3 {
	return n.position
}

func (n *Node) SetPosition(position types.Vector3) {
	n.position = position
}

func (n *Node) Trajectory() Trajectory {
	return n.trajectory
}
