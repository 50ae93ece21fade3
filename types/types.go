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

package types

import (
	"fmt"
	"math"
)

// NodeId identifies a simulated radio endpoint. Ids are assigned when the
// scene is defined and stay stable for the lifetime of a simulation run.
type NodeId = uint32

// Timestamp is a point in simulated time, in nanoseconds since the start of
// the simulation run. Simulated time is unrelated to wall-clock time.
type Timestamp = uint64

// DbValue is a dB or dBm quantity.
type DbValue = float64

const (
	InvalidNodeId NodeId = math.MaxUint32
)

const (
	InvalidTimestamp Timestamp = math.MaxUint64
)

// Physical constants used by the closed-form channel models.
const (
	SpeedOfLightMps   float64 = 299792458.0 // m/s, in vacuum
	BoltzmannConstant float64 = 1.3803e-23  // J/K
)

// Vector3 is a position in the scene's Cartesian frame, in meters.
type Vector3 struct {
	X float64
	Y float64
	Z float64
}

// DistanceTo returns the Euclidean distance to another position, in meters.
func (v Vector3) DistanceTo(other Vector3) float64 {
	dx := other.X - v.X
	dy := other.Y - v.Y
	dz := other.Z - v.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g,%g,%g)", v.X, v.Y, v.Z)
}
