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
	"math"
	"time"

	. "github.com/tkn-tub/ns3sionna/types"
)

// default parameters of the closed-form fallback channel model
const (
	defaultNoiseFigure  float64 = 5.0   // linear receiver noise figure (approx. 7 dB)
	defaultTemperatureK float64 = 293.0 // ambient temperature for thermal noise
	defaultMinDistance  float64 = 0.5   // meters; below this the free-space loss is taken as 0 dB
)

// FallbackModel is the cheap closed-form substitute for the ray-tracing
// oracle: free-space (Friis) pathloss and constant-propagation-speed delay.
// The channel-state cache uses it as a go/no-go pre-filter for oracle calls
// and as the authoritative answer for links below the noise floor.
type FallbackModel struct {
	FrequencyMhz float64 // carrier frequency used for the pathloss term
	NoiseFigure  float64 // linear receiver noise figure
	TemperatureK float64
	MinDistance  float64 // meters
}

// NewFallbackModel returns a free-space model at the given carrier frequency
// with default receiver noise figure and temperature.
func NewFallbackModel(frequencyMhz float64) *FallbackModel {
	return &FallbackModel{
		FrequencyMhz: frequencyMhz,
		NoiseFigure:  defaultNoiseFigure,
		TemperatureK: defaultTemperatureK,
		MinDistance:  defaultMinDistance,
	}
}

// PathLossDb computes the free-space pathloss (dB) between two positions,
// L = 20*log10(4*pi*d*f/c). Deterministic given positions and frequency.
func (m *FallbackModel) PathLossDb(a Vector3, b Vector3) DbValue {
	dist := a.DistanceTo(b)
	if dist < m.MinDistance {
		return 0.0
	}
	f := m.FrequencyMhz * 1e6
	return 20.0 * math.Log10(4.0*math.Pi*dist*f/SpeedOfLightMps)
}

// RxPowerDbm computes the received power (dBm) for a given transmit power
// under the free-space model.
func (m *FallbackModel) RxPowerDbm(txPowerDbm DbValue, a Vector3, b Vector3) DbValue {
	return txPowerDbm - m.PathLossDb(a, b)
}

// Delay computes the constant-speed propagation delay between two positions.
func (m *FallbackModel) Delay(a Vector3, b Vector3) time.Duration {
	ns := a.DistanceTo(b) / SpeedOfLightMps * 1e9
	return time.Duration(math.Round(ns)) * time.Nanosecond
}

// NoiseFloorDbm computes the receiver noise floor (dBm) for the given channel
// bandwidth (Hz) from the thermal-noise formula N = kTB, with the receiver
// noise figure applied as a linear multiplier.
func (m *FallbackModel) NoiseFloorDbm(channelBwHz float64) DbValue {
	nt := BoltzmannConstant * m.TemperatureK * channelBwHz // W
	return 10.0 * math.Log10(m.NoiseFigure*nt/1e-3)
}
