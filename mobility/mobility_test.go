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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkn-tub/ns3sionna/types"
)

func TestConstantPositionNode(t *testing.T) {
	n := NewConstantPositionNode(1, types.Vector3{X: 1, Y: 2, Z: 3})
	assert.Equal(t, types.NodeId(1), n.Id())
	assert.Equal(t, types.Vector3{X: 1, Y: 2, Z: 3}, n.GetPosition())
	assert.False(t, n.Trajectory().RandomWalk)

	n.SetPosition(types.Vector3{X: 4})
	assert.Equal(t, types.Vector3{X: 4}, n.GetPosition())
}

func TestNewRandomWalkNode(t *testing.T) {
	traj := Trajectory{
		Termination: TerminateAfterDistance,
		Distance:    2.0,
		Speed:       UniformVariable{Min: 0.5, Max: 1.5},
		Direction:   UniformVariable{Min: 0, Max: 6.28},
	}
	n, err := NewRandomWalkNode(5, types.Vector3{}, traj)
	require.NoError(t, err)
	assert.True(t, n.Trajectory().RandomWalk)
	assert.Equal(t, TerminateAfterDistance, n.Trajectory().Termination)
}

func TestNewRandomWalkNodeValidation(t *testing.T) {
	// missing distributions
	_, err := NewRandomWalkNode(1, types.Vector3{}, Trajectory{})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrConfiguration)

	// non-positive segment time
	_, err = NewRandomWalkNode(1, types.Vector3{}, Trajectory{
		Termination: TerminateAfterTime,
		Speed:       ConstantVariable{Value: 1},
		Direction:   ConstantVariable{Value: 0},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrConfiguration)

	// non-positive segment distance
	_, err = NewRandomWalkNode(1, types.Vector3{}, Trajectory{
		Termination: TerminateAfterDistance,
		Speed:       ConstantVariable{Value: 1},
		Direction:   ConstantVariable{Value: 0},
	})
	require.Error(t, err)

	// valid time-terminated walk
	_, err = NewRandomWalkNode(1, types.Vector3{}, Trajectory{
		Termination: TerminateAfterTime,
		Time:        2 * time.Second,
		Speed:       NormalVariable{Mean: 1, Variance: 0.1},
		Direction:   ConstantVariable{Value: 0},
	})
	require.NoError(t, err)
}

type positionOnlyModel struct{}

func (positionOnlyModel) Id() types.NodeId { return 9 }
func (positionOnlyModel) GetPosition() types.Vector3 { return types.Vector3{} }

func TestAsSionnaModel(t *testing.T) {
	n := NewConstantPositionNode(1, types.Vector3{})
	sm, err := AsSionnaModel(n)
	require.NoError(t, err)
	assert.Equal(t, types.NodeId(1), sm.Id())

	_, err = AsSionnaModel(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrConfiguration)

	_, err = AsSionnaModel(positionOnlyModel{})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrConfiguration)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(NewConstantPositionNode(2, types.Vector3{})))
	require.NoError(t, r.Add(NewConstantPositionNode(0, types.Vector3{})))
	require.NoError(t, r.Add(NewConstantPositionNode(1, types.Vector3{})))
	assert.Equal(t, 3, r.Len())

	// duplicate id is rejected
	err := r.Add(NewConstantPositionNode(2, types.Vector3{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrConfiguration)

	m, ok := r.Get(0)
	require.True(t, ok)
	assert.Equal(t, types.NodeId(0), m.Id())
	_, ok = r.Get(7)
	assert.False(t, ok)

	// insertion order is preserved for the init roster
	ids := []types.NodeId{}
	for _, n := range r.Nodes() {
		ids = append(ids, n.Id())
	}
	assert.Equal(t, []types.NodeId{2, 0, 1}, ids)
}
