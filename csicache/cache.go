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
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/tkn-tub/ns3sionna/logger"
	"github.com/tkn-tub/ns3sionna/mobility"
	"github.com/tkn-tub/ns3sionna/oracle"
	"github.com/tkn-tub/ns3sionna/radiomodel"
	. "github.com/tkn-tub/ns3sionna/types"
	"github.com/tkn-tub/ns3sionna/wire"
)

// defaultMaxTxPowerDbm bounds the transmit power assumed by the delay
// fast-path, which has no per-call power parameter.
const defaultMaxTxPowerDbm DbValue = 20.0

// Querier is the oracle dependency of the cache: one blocking round trip
// returning every channel state the oracle chose to compute for the query.
type Querier interface {
	Query(txId NodeId, rxId NodeId, now Timestamp) ([]wire.CsiRecord, error)
}

// Cache is the single source of truth for channel state between node pairs.
// Lookups are keyed on the unordered pair and the current simulated time;
// a miss performs one oracle round trip and ingests all returned records,
// so that look-ahead responses covering other pairs and future windows are
// served later without further round trips. One mutex covers the full
// lookup-refill-serve sequence, keeping concurrent callers consistent.
type Cache struct {
	mu      sync.Mutex
	session Querier

	fallback      *radiomodel.FallbackModel
	noiseFloorDbm DbValue

	caching          bool
	optimize         bool
	optimizeMarginDb DbValue
	maxTxPowerDbm    DbValue

	buckets map[Key][]Entry
	stats   Stats
}

// New creates a cache over the given oracle querier. frequencyMhz is the
// carrier frequency used by the free-space fallback model and noiseFloorDbm
// the threshold of the fast-path pre-filter. Caching and the fast path are
// enabled by default.
func New(session Querier, frequencyMhz float64, noiseFloorDbm DbValue) *Cache {
	return &Cache{
		session:       session,
		fallback:      radiomodel.NewFallbackModel(frequencyMhz),
		noiseFloorDbm: noiseFloorDbm,
		caching:       true,
		optimize:      true,
		maxTxPowerDbm: defaultMaxTxPowerDbm,
		buckets:       make(map[Key][]Entry),
	}
}

// NewForSession creates a cache wired to an oracle session, taking the
// carrier frequency, noise floor and toggle defaults from its configuration.
func NewForSession(s *oracle.Session) *Cache {
	cfg := s.Config()
	c := New(s, float64(cfg.FrequencyMhz), s.NoiseFloorDbm())
	c.caching = cfg.Caching
	c.optimize = cfg.Optimize
	c.optimizeMarginDb = cfg.OptimizeMarginDb
	return c
}

// SetCaching toggles serving from stored entries. When disabled every lookup
// goes to the oracle; responses are still ingested.
func (c *Cache) SetCaching(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.caching = on
}

// SetOptimize toggles the fast path that answers links below the noise floor
// from the free-space model without contacting the oracle.
func (c *Cache) SetOptimize(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.optimize = on
}

// SetOptimizeMargin adds a safety margin in dB to the fast-path comparison:
// a larger margin sends more borderline links to the oracle.
func (c *Cache) SetOptimizeMargin(marginDb DbValue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.optimizeMarginDb = marginDb
}

// SetMaxTxPower sets the transmit power assumed by the fast paths of the
// accessors that have no power parameter of their own.
func (c *Cache) SetMaxTxPower(txPowerDbm DbValue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxTxPowerDbm = txPowerDbm
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// GetDelay returns the propagation delay between a and b at simulated time
// now. Links below the noise floor at maximum transmit power are answered
// with the constant-speed free-space delay.
func (c *Cache) GetDelay(a mobility.Model, b mobility.Model, now Timestamp) (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sa, sb, err := c.endpoints(a, b)
	if err != nil {
		return 0, err
	}
	if c.skipOracle(c.maxTxPowerDbm, sa, sb) {
		d := c.fallback.Delay(sa.GetPosition(), sb.GetPosition())
		logger.Debugf("lnk %d-%d below noise floor, free-space delay %v", a.Id(), b.Id(), d)
		return d, nil
	}
	e, err := c.channelState(sa, sb, now)
	if err != nil {
		return 0, err
	}
	return e.Delay, nil
}

// GetLoss returns the wideband loss in dB between a and b at simulated time
// now, for a transmission at txPowerDbm. If the received power would fall
// below the noise floor even in free space, the free-space path loss is
// returned without contacting the oracle.
func (c *Cache) GetLoss(a mobility.Model, b mobility.Model, now Timestamp, txPowerDbm DbValue) (DbValue, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sa, sb, err := c.endpoints(a, b)
	if err != nil {
		return 0, err
	}
	if c.skipOracle(txPowerDbm, sa, sb) {
		loss := c.fallback.PathLossDb(sa.GetPosition(), sb.GetPosition())
		logger.Debugf("lnk %d-%d below noise floor, free-space loss %.1f dB", a.Id(), b.Id(), loss)
		return loss, nil
	}
	e, err := c.channelState(sa, sb, now)
	if err != nil {
		return 0, err
	}
	return e.WidebandLossDb, nil
}

// GetCSI returns the per-subcarrier channel frequency response between a and
// b at simulated time now. The result may be empty when the oracle did not
// compute CSI, and is nil when the link is below the noise floor. Callers
// must not modify the returned slice.
func (c *Cache) GetCSI(a mobility.Model, b mobility.Model, now Timestamp) ([]complex128, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sa, sb, err := c.endpoints(a, b)
	if err != nil {
		return nil, err
	}
	if c.skipOracle(c.maxTxPowerDbm, sa, sb) {
		logger.Debugf("lnk %d-%d below noise floor, no CSI", a.Id(), b.Id())
		return nil, nil
	}
	e, err := c.channelState(sa, sb, now)
	if err != nil {
		return nil, err
	}
	return e.Cfr, nil
}

// GetFrequencies returns the subcarrier center frequencies in Hz of the CSI
// between a and b at simulated time now, parallel to the GetCSI result.
// Callers must not modify the returned slice.
func (c *Cache) GetFrequencies(a mobility.Model, b mobility.Model, now Timestamp) ([]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sa, sb, err := c.endpoints(a, b)
	if err != nil {
		return nil, err
	}
	if c.skipOracle(c.maxTxPowerDbm, sa, sb) {
		logger.Debugf("lnk %d-%d below noise floor, no CSI", a.Id(), b.Id())
		return nil, nil
	}
	e, err := c.channelState(sa, sb, now)
	if err != nil {
		return nil, err
	}
	return e.FrequenciesHz, nil
}

func (c *Cache) endpoints(a mobility.Model, b mobility.Model) (mobility.SionnaModel, mobility.SionnaModel, error) {
	sa, err := mobility.AsSionnaModel(a)
	if err != nil {
		return nil, nil, err
	}
	sb, err := mobility.AsSionnaModel(b)
	if err != nil {
		return nil, nil, err
	}
	return sa, sb, nil
}

// skipOracle reports whether the free-space received power at txPowerDbm is
// below the noise floor, in which case ray tracing cannot make the link any
// more usable and the fallback model answers.
func (c *Cache) skipOracle(txPowerDbm DbValue, a mobility.SionnaModel, b mobility.SionnaModel) bool {
	if !c.optimize {
		return false
	}
	rx := c.fallback.RxPowerDbm(txPowerDbm, a.GetPosition(), b.GetPosition())
	return rx+c.optimizeMarginDb < c.noiseFloorDbm
}

// channelState serves the live entry for the pair (a, b) at time now,
// performing one oracle round trip on a miss and ingesting the full
// response before re-serving. It also writes the oracle-computed positions
// back onto both endpoints.
func (c *Cache) channelState(a mobility.SionnaModel, b mobility.SionnaModel, now Timestamp) (*Entry, error) {
	if c.session == nil {
		return nil, errors.Wrap(ErrConfiguration, "cache has no oracle session")
	}
	key := NewKey(a.Id(), b.Id())
	if c.caching {
		if e := c.lookup(key, now); e != nil {
			c.stats.Hits++
			applyPositions(e, a, b)
			return e, nil
		}
	}
	c.stats.Misses++
	logger.Debugf("cache miss for lnk %d-%d at t=%dns", a.Id(), b.Id(), now)

	records, err := c.session.Query(a.Id(), b.Id(), now)
	if err != nil {
		return nil, err
	}
	c.ingest(records)

	e := c.lookup(key, now)
	if e == nil {
		return nil, errors.Wrapf(ErrCacheConsistency, "no live entry for lnk %d-%d at t=%dns after oracle refill", a.Id(), b.Id(), now)
	}
	applyPositions(e, a, b)
	return e, nil
}

// lookup sweeps stale entries from the bucket of key and returns the first
// entry whose validity window covers now, or nil.
func (c *Cache) lookup(key Key, now Timestamp) *Entry {
	bucket, ok := c.buckets[key]
	if !ok {
		return nil
	}
	kept := bucket[:0]
	for i := range bucket {
		if !bucket[i].expired(now) {
			kept = append(kept, bucket[i])
		}
	}
	if len(kept) == 0 {
		delete(c.buckets, key)
		return nil
	}
	c.buckets[key] = kept
	for i := range kept {
		if kept[i].live(now) {
			return &kept[i]
		}
	}
	return nil
}

// ingest fans every (tx, rx, window) element of an oracle response out into
// its pair bucket. One response may carry states for pairs and windows the
// caller never asked about; storing them is what makes look-ahead pay off.
func (c *Cache) ingest(records []wire.CsiRecord) {
	for ri := range records {
		rec := &records[ri]
		for xi := range rec.RxNodes {
			rx := &rec.RxNodes[xi]
			key := NewKey(rec.TxId, rx.Id)
			c.buckets[key] = append(c.buckets[key], entryFromRecord(rec, rx))
		}
	}
}

// applyPositions writes the oracle-computed positions of an entry back onto
// the queried endpoints, swapping orientation when the entry was computed
// for the reverse direction.
func applyPositions(e *Entry, a mobility.SionnaModel, b mobility.SionnaModel) {
	if a.Id() == e.TxId {
		a.SetPosition(e.TxPosition)
		b.SetPosition(e.RxPosition)
	} else {
		a.SetPosition(e.RxPosition)
		b.SetPosition(e.TxPosition)
	}
}
