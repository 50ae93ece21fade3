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
	"os"

	"github.com/pkg/errors"
	"github.com/simonlingoogle/go-simplelogger"
	"gopkg.in/yaml.v3"

	"github.com/tkn-tub/ns3sionna/radiomodel"
	"github.com/tkn-tub/ns3sionna/types"
)

// Mode selects how much channel state the oracle computes per round trip.
type Mode uint8

const (
	// ModeP2P computes CSI for the single queried pair only.
	ModeP2P Mode = 1
	// ModeP2MP computes CSI from the queried transmitter to all other nodes.
	ModeP2MP Mode = 2
	// ModeP2MPLookahead additionally computes future, not yet needed validity
	// windows; the look-ahead depth is set by SubMode.
	ModeP2MPLookahead Mode = 3
)

func (m Mode) String() string {
	switch m {
	case ModeP2P:
		return "p2p"
	case ModeP2MP:
		return "p2mp"
	case ModeP2MPLookahead:
		return "p2mp-lookahead"
	default:
		simplelogger.Panicf("invalid mode: %d", uint8(m))
		return ""
	}
}

// GuardMultiplier widens the configured channel bandwidth and FFT size to
// also cover the guard bands, matching the host simulator's spectrum model.
const GuardMultiplier = 3

// Config carries the one-time session parameters sent to the oracle at init,
// plus the cache toggles derived from the same scenario file.
type Config struct {
	SceneFile           string  `yaml:"scene"`    // scene description, relative to the oracle's scene root
	Endpoint            string  `yaml:"endpoint"` // host:port of the oracle server
	Seed                uint64  `yaml:"seed"`
	FrequencyMhz        int     `yaml:"frequency_mhz"`         // center frequency
	ChannelBwMhz        int     `yaml:"channel_bw_mhz"`        // without guard bands
	FftSize             int     `yaml:"fft_size"`              // without guard bands
	SubcarrierSpacingHz int     `yaml:"subcarrier_spacing_hz"` //
	MinCoherenceTimeMs  int     `yaml:"min_coherence_time_ms"` // lower bound for entry validity windows
	Mode                Mode    `yaml:"mode"`
	SubMode             int     `yaml:"submode"` // look-ahead depth for ModeP2MPLookahead
	Caching             bool    `yaml:"caching"`
	Optimize            bool    `yaml:"optimize"` // fast-path below-noise-floor shortcut
	OptimizeMarginDb    float64 `yaml:"optimize_margin_db"`
}

// DefaultConfig returns the WiFi-6 defaults; SceneFile must still be set.
func DefaultConfig() Config {
	return Config{
		Endpoint:            "localhost:5555",
		FrequencyMhz:        5210,
		ChannelBwMhz:        80,
		FftSize:             1024,
		SubcarrierSpacingHz: 78125,
		MinCoherenceTimeMs:  100000,
		Mode:                ModeP2MPLookahead,
		SubMode:             1,
		Caching:             true,
		Optimize:            true,
	}
}

// LoadConfig reads a YAML scenario file over the defaults and validates it.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(types.ErrConfiguration, "cannot read scenario file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(types.ErrConfiguration, "cannot parse scenario file %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the RF and transport parameters eagerly, before the
// simulation proceeds.
func (c *Config) Validate() error {
	if c.SceneFile == "" {
		return errors.Wrap(types.ErrConfiguration, "no scene file configured")
	}
	if c.Endpoint == "" {
		return errors.Wrap(types.ErrConfiguration, "no oracle endpoint configured")
	}
	if c.FrequencyMhz <= 0 {
		return errors.Wrap(types.ErrConfiguration, "center frequency must be positive")
	}
	if c.ChannelBwMhz <= 0 || c.ChannelBwMhz > 10000 {
		return errors.Wrap(types.ErrConfiguration, "channel bandwidth must be between 0 and 10000 MHz")
	}
	if c.FftSize <= 0 {
		return errors.Wrap(types.ErrConfiguration, "FFT size must be positive")
	}
	if c.SubcarrierSpacingHz <= 0 {
		return errors.Wrap(types.ErrConfiguration, "subcarrier spacing must be positive")
	}
	if c.MinCoherenceTimeMs <= 0 {
		return errors.Wrap(types.ErrConfiguration, "minimum coherence time must be positive")
	}
	if c.Mode < ModeP2P || c.Mode > ModeP2MPLookahead {
		return errors.Wrapf(types.ErrConfiguration, "unknown mode %d", c.Mode)
	}
	if c.SubMode < 0 {
		return errors.Wrap(types.ErrConfiguration, "submode must not be negative")
	}
	return nil
}

// EffectiveChannelBwMhz is the bandwidth sent to the oracle, incl. guard bands.
func (c *Config) EffectiveChannelBwMhz() int {
	return c.ChannelBwMhz * GuardMultiplier
}

// EffectiveFftSize is the FFT size sent to the oracle, incl. guard bands.
func (c *Config) EffectiveFftSize() int {
	return c.FftSize * GuardMultiplier
}

// NoiseFloorDbm derives the receiver noise floor from the effective channel
// bandwidth. The fast-path optimization compares free-space receive power
// against this value.
func (c *Config) NoiseFloorDbm() types.DbValue {
	m := radiomodel.NewFallbackModel(float64(c.FrequencyMhz))
	return m.NoiseFloorDbm(float64(c.EffectiveChannelBwMhz()) * 1e6)
}
