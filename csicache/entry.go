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

package csicache

import (
	"time"

	. "github.com/tkn-tub/ns3sionna/types"
	"github.com/tkn-tub/ns3sionna/wire"
)

// Key addresses one unordered node pair: (a,b) and (b,a) map to the same
// bucket, exploiting channel reciprocity. Exactly one bucket exists per pair.
type Key struct {
	First  NodeId
	Second NodeId
}

// NewKey canonicalizes a pair by storing the smaller id first.
func NewKey(a NodeId, b NodeId) Key {
	if a < b {
		return Key{First: a, Second: b}
	}
	return Key{First: b, Second: a}
}

// Entry is one oracle-computed channel state, valid over the simulated-time
// window [Start, End] (inclusive at both ends; an entry with End < now is
// stale). Entries are created only by ingesting an oracle response and never
// mutated afterwards.
type Entry struct {
	Delay          time.Duration
	WidebandLossDb DbValue
	Start          Timestamp
	End            Timestamp

	// TxId/RxId and the positions are in the orientation the oracle computed,
	// not necessarily the orientation of the query. The positions are the
	// authoritative frame of reference for this entry.
	TxId       NodeId
	RxId       NodeId
	TxPosition Vector3
	RxPosition Vector3

	SubcarrierCount int
	FrequenciesHz   []float64    // subcarrier center frequencies; empty if CSI was not computed
	Cfr             []complex128 // channel frequency response, parallel to FrequenciesHz
}

func (e *Entry) live(now Timestamp) bool {
	return e.Start <= now && now <= e.End
}

func (e *Entry) expired(now Timestamp) bool {
	return e.End < now
}

// entryFromRecord flattens one (tx, rx) element of an oracle response record
// into a cache entry.
func entryFromRecord(rec *wire.CsiRecord, rx *wire.CsiRxNode) Entry {
	n := len(rx.CsiReal)
	e := Entry{
		Delay:           time.Duration(rx.DelayNs) * time.Nanosecond,
		WidebandLossDb:  rx.WidebandLossDb,
		Start:           rec.StartTime,
		End:             rec.EndTime,
		TxId:            rec.TxId,
		RxId:            rx.Id,
		TxPosition:      rec.TxPosition,
		RxPosition:      rx.Position,
		SubcarrierCount: n,
	}
	if n > 0 {
		e.FrequenciesHz = make([]float64, n)
		copy(e.FrequenciesHz, rx.FrequenciesHz)
		e.Cfr = make([]complex128, n)
		for i := 0; i < n; i++ {
			e.Cfr[i] = complex(rx.CsiReal[i], rx.CsiImag[i])
		}
	}
	return e
}
