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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkn-tub/ns3sionna/types"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5210, cfg.FrequencyMhz)
	assert.Equal(t, 80, cfg.ChannelBwMhz)
	assert.Equal(t, 240, cfg.EffectiveChannelBwMhz())
	assert.Equal(t, 3072, cfg.EffectiveFftSize())
	assert.Equal(t, ModeP2MPLookahead, cfg.Mode)
	assert.True(t, cfg.Caching)
	assert.True(t, cfg.Optimize)

	// a scene file is mandatory
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrConfiguration)
}

func TestConfigValidate(t *testing.T) {
	base := DefaultConfig()
	base.SceneFile = "scene.xml"
	require.NoError(t, base.Validate())

	cfg := base
	cfg.FrequencyMhz = 0
	assert.ErrorIs(t, cfg.Validate(), types.ErrConfiguration)

	cfg = base
	cfg.ChannelBwMhz = 10001
	assert.ErrorIs(t, cfg.Validate(), types.ErrConfiguration)

	cfg = base
	cfg.FftSize = -1
	assert.ErrorIs(t, cfg.Validate(), types.ErrConfiguration)

	cfg = base
	cfg.SubcarrierSpacingHz = 0
	assert.ErrorIs(t, cfg.Validate(), types.ErrConfiguration)

	cfg = base
	cfg.Mode = 4
	assert.ErrorIs(t, cfg.Validate(), types.ErrConfiguration)

	cfg = base
	cfg.Endpoint = ""
	assert.ErrorIs(t, cfg.Validate(), types.ErrConfiguration)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	content := `
scene: munich/munich.xml
endpoint: "oracle:5556"
frequency_mhz: 2412
channel_bw_mhz: 20
fft_size: 64
subcarrier_spacing_hz: 312500
mode: 1
optimize: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "munich/munich.xml", cfg.SceneFile)
	assert.Equal(t, "oracle:5556", cfg.Endpoint)
	assert.Equal(t, 2412, cfg.FrequencyMhz)
	assert.Equal(t, 20, cfg.ChannelBwMhz)
	assert.Equal(t, ModeP2P, cfg.Mode)
	assert.False(t, cfg.Optimize)
	// unset keys keep their defaults
	assert.Equal(t, 100000, cfg.MinCoherenceTimeMs)
	assert.True(t, cfg.Caching)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrConfiguration)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scene: [unclosed"), 0o644))
	_, err = LoadConfig(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrConfiguration)
}

func TestNoiseFloorDbm(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SceneFile = "scene.xml"
	cfg.ChannelBwMhz = 20

	// 60 MHz effective bandwidth, kTB plus linear noise figure 5
	assert.InDelta(t, -89.2, cfg.NoiseFloorDbm(), 0.1)
}
