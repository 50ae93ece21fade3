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

import "github.com/pkg/errors"

// Failure categories of the ns3sionna client side. All of these are fatal
// for the simulation run; there is no retry policy towards the oracle.
var (
	// ErrProtocolViolation flags an oracle reply of the wrong message kind,
	// a missing acknowledgment, or an explicit error status from the oracle.
	ErrProtocolViolation = errors.New("oracle protocol violation")

	// ErrTransportFailure flags a failed send or a missing reply on the
	// request/reply channel to the oracle.
	ErrTransportFailure = errors.New("oracle transport failure")

	// ErrConfiguration flags invalid RF parameters, a missing oracle session,
	// or endpoints that lack the required mobility capability. Checked
	// eagerly, before the simulation proceeds.
	ErrConfiguration = errors.New("configuration error")

	// ErrCacheConsistency flags a refill after which no live entry exists for
	// the originally queried pair, i.e. the oracle did not honor its contract.
	ErrCacheConsistency = errors.New("cache consistency violation")
)
