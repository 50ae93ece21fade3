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

package radiomodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/tkn-tub/ns3sionna/types"
)

func TestPathLossDb(t *testing.T) {
	m := NewFallbackModel(2412)
	a := Vector3{}
	b := Vector3{X: 10}

	// 20*log10(4*pi*10m*2.412GHz/c) = 60.1 dB
	loss := m.PathLossDb(a, b)
	assert.InDelta(t, 60.1, loss, 0.05)
	assert.Equal(t, loss, m.PathLossDb(b, a))

	// loss grows by 20 dB per decade of distance
	assert.InDelta(t, loss+20.0, m.PathLossDb(a, Vector3{X: 100}), 1e-9)
}

func TestPathLossDbBelowMinDistance(t *testing.T) {
	m := NewFallbackModel(2412)
	assert.Equal(t, 0.0, m.PathLossDb(Vector3{}, Vector3{}))
	assert.Equal(t, 0.0, m.PathLossDb(Vector3{}, Vector3{X: 0.4}))
}

func TestRxPowerDbm(t *testing.T) {
	m := NewFallbackModel(2412)
	a := Vector3{}
	b := Vector3{X: 10}
	assert.InDelta(t, 20.0-60.1, m.RxPowerDbm(20.0, a, b), 0.05)
}

func TestDelay(t *testing.T) {
	m := NewFallbackModel(2412)

	// 10 m at speed of light: 33.36 ns, rounded to full ns
	d := m.Delay(Vector3{}, Vector3{X: 10})
	assert.Equal(t, 33*time.Nanosecond, d)

	d = m.Delay(Vector3{}, Vector3{X: 3000})
	assert.Equal(t, 10007*time.Nanosecond, d)
}

func TestNoiseFloorDbm(t *testing.T) {
	m := NewFallbackModel(2412)

	// kTB for 20 MHz is -100.9 dBm; figure 5 adds 10*log10(5) = 7 dB
	nf := m.NoiseFloorDbm(20e6)
	assert.InDelta(t, -93.9, nf, 0.1)

	// doubling the bandwidth raises the floor by 3 dB
	assert.InDelta(t, nf+3.01, m.NoiseFloorDbm(40e6), 0.01)
}
