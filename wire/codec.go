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

package wire

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/tkn-tub/ns3sionna/logger"
	"github.com/tkn-tub/ns3sionna/types"
)

// Wire format: every message is framed as a 5-byte header (type byte plus
// uint32 little-endian payload length) followed by the payload. All integers
// are fixed-width little-endian; floating-point values are IEEE-754 doubles
// in their bit representation, so they round-trip exactly. Strings carry a
// uint16 length prefix.
const msgHeaderLen = 5

const maxPayloadLen = 1 << 28 // sanity bound against corrupted length fields

// Serialize serializes this Message into []byte to send to the oracle.
func (m *Message) Serialize() []byte {
	w := writer{}
	switch m.Type {
	case MsgTypeSimInit:
		m.SimInit.serializeTo(&w)
	case MsgTypeSimAck:
		m.Ack.serializeTo(&w)
	case MsgTypeChannelStateRequest:
		m.Request.serializeTo(&w)
	case MsgTypeChannelStateResponse:
		m.Response.serializeTo(&w)
	case MsgTypeSimClose:
		// no payload
	default:
		logger.Panicf("cannot serialize message type %d", m.Type)
	}

	msg := make([]byte, msgHeaderLen+len(w.buf))
	msg[0] = m.Type
	binary.LittleEndian.PutUint32(msg[1:5], uint32(len(w.buf)))
	n := copy(msg[msgHeaderLen:], w.buf)
	logger.AssertTrue(n == len(w.buf))

	return msg
}

// Deserialize deserializes one Message from data into m. It returns the
// number of bytes consumed, 0 if data does not yet contain one complete
// frame, or an error if the frame is complete but malformed.
func (m *Message) Deserialize(data []byte) (int, error) {
	if len(data) < msgHeaderLen {
		return 0, nil
	}
	payloadLen := binary.LittleEndian.Uint32(data[1:5])
	if payloadLen > maxPayloadLen {
		return 0, errors.Wrapf(types.ErrProtocolViolation, "implausible payload length %d", payloadLen)
	}
	if int(payloadLen) > len(data)-msgHeaderLen {
		return 0, nil
	}
	m.Type = data[0]
	r := reader{buf: data[msgHeaderLen : msgHeaderLen+int(payloadLen)], ok: true}

	switch m.Type {
	case MsgTypeSimInit:
		m.SimInit.deserializeFrom(&r)
	case MsgTypeSimAck:
		m.Ack.deserializeFrom(&r)
	case MsgTypeChannelStateRequest:
		m.Request.deserializeFrom(&r)
	case MsgTypeChannelStateResponse:
		m.Response.deserializeFrom(&r)
	case MsgTypeSimClose:
		// no payload
	default:
		return 0, errors.Wrapf(types.ErrProtocolViolation, "unknown message type %d", m.Type)
	}

	if !r.done() {
		return 0, errors.Wrapf(types.ErrProtocolViolation, "malformed payload for message type %d", m.Type)
	}
	return msgHeaderLen + int(payloadLen), nil
}

// WriteMessage writes one serialized Message to w.
func WriteMessage(w io.Writer, m *Message) error {
	_, err := w.Write(m.Serialize())
	return err
}

// ReadMessage blocks until one complete Message has been read from r.
func ReadMessage(r io.Reader) (*Message, error) {
	hdr := make([]byte, msgHeaderLen)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, err
	}
	payloadLen := binary.LittleEndian.Uint32(hdr[1:5])
	if payloadLen > maxPayloadLen {
		return nil, errors.Wrapf(types.ErrProtocolViolation, "implausible payload length %d", payloadLen)
	}
	frame := make([]byte, msgHeaderLen+int(payloadLen))
	copy(frame, hdr)
	if _, err := io.ReadFull(r, frame[msgHeaderLen:]); err != nil {
		return nil, err
	}

	m := &Message{}
	n, err := m.Deserialize(frame)
	if err != nil {
		return nil, err
	}
	logger.AssertTrue(n == len(frame))
	return m, nil
}

func (m *SimInitMessage) serializeTo(w *writer) {
	w.str(m.SceneFile)
	w.u64(m.Seed)
	w.u32(m.FrequencyMhz)
	w.u32(m.ChannelBwMhz)
	w.u32(m.FftSize)
	w.u32(m.SubcarrierSpacingHz)
	w.u32(m.MinCoherenceTimeMs)
	w.u8(m.Mode)
	w.u32(m.SubMode)
	w.u32(uint32(len(m.Nodes)))
	for i := range m.Nodes {
		m.Nodes[i].serializeTo(w)
	}
}

func (m *SimInitMessage) deserializeFrom(r *reader) {
	m.SceneFile = r.str()
	m.Seed = r.u64()
	m.FrequencyMhz = r.u32()
	m.ChannelBwMhz = r.u32()
	m.FftSize = r.u32()
	m.SubcarrierSpacingHz = r.u32()
	m.MinCoherenceTimeMs = r.u32()
	m.Mode = r.u8()
	m.SubMode = r.u32()
	n := r.u32()
	m.Nodes = nil
	for i := uint32(0); i < n && r.ok; i++ {
		var ni NodeInfo
		ni.deserializeFrom(r)
		m.Nodes = append(m.Nodes, ni)
	}
}

func (ni *NodeInfo) serializeTo(w *writer) {
	w.u32(ni.Id)
	w.u8(uint8(ni.Kind))
	w.vec(ni.Position)
	if ni.Kind == TrajectoryRandomWalk {
		w.u8(uint8(ni.Termination))
		switch ni.Termination {
		case TerminateAfterTime:
			w.u64(ni.TimeValueNs)
		case TerminateAfterDistance:
			w.f64(ni.DistanceValue)
		case TerminateOnBoundary:
			// no value
		}
		ni.Speed.serializeTo(w)
		ni.Direction.serializeTo(w)
	}
}

func (ni *NodeInfo) deserializeFrom(r *reader) {
	ni.Id = r.u32()
	ni.Kind = TrajectoryKind(r.u8())
	ni.Position = r.vec()
	if ni.Kind == TrajectoryRandomWalk {
		ni.Termination = TerminationKind(r.u8())
		switch ni.Termination {
		case TerminateAfterTime:
			ni.TimeValueNs = r.u64()
		case TerminateAfterDistance:
			ni.DistanceValue = r.f64()
		case TerminateOnBoundary:
			// no value
		default:
			r.fail()
		}
		ni.Speed.deserializeFrom(r)
		ni.Direction.deserializeFrom(r)
	} else if ni.Kind != TrajectoryConstantPosition {
		r.fail()
	}
}

func (v *RandomVariable) serializeTo(w *writer) {
	w.u8(uint8(v.Kind))
	w.f64(v.A)
	w.f64(v.B)
}

func (v *RandomVariable) deserializeFrom(r *reader) {
	v.Kind = VariableKind(r.u8())
	if v.Kind > VariableNormal {
		r.fail()
	}
	v.A = r.f64()
	v.B = r.f64()
}

func (m *AckMessage) serializeTo(w *writer) {
	if m.Ok {
		w.u8(1)
	} else {
		w.u8(0)
	}
	w.str(m.ErrorMsg)
}

func (m *AckMessage) deserializeFrom(r *reader) {
	m.Ok = r.u8() != 0
	m.ErrorMsg = r.str()
}

func (m *ChannelStateRequest) serializeTo(w *writer) {
	w.u32(m.TxId)
	w.u32(m.RxId)
	w.u64(m.Time)
}

func (m *ChannelStateRequest) deserializeFrom(r *reader) {
	m.TxId = r.u32()
	m.RxId = r.u32()
	m.Time = r.u64()
}

func (m *ChannelStateResponse) serializeTo(w *writer) {
	w.u32(uint32(len(m.Records)))
	for i := range m.Records {
		m.Records[i].serializeTo(w)
	}
}

func (m *ChannelStateResponse) deserializeFrom(r *reader) {
	n := r.u32()
	m.Records = nil
	for i := uint32(0); i < n && r.ok; i++ {
		var rec CsiRecord
		rec.deserializeFrom(r)
		m.Records = append(m.Records, rec)
	}
}

func (c *CsiRecord) serializeTo(w *writer) {
	w.u64(c.StartTime)
	w.u64(c.EndTime)
	w.u32(c.TxId)
	w.vec(c.TxPosition)
	w.u32(uint32(len(c.RxNodes)))
	for i := range c.RxNodes {
		c.RxNodes[i].serializeTo(w)
	}
}

func (c *CsiRecord) deserializeFrom(r *reader) {
	c.StartTime = r.u64()
	c.EndTime = r.u64()
	c.TxId = r.u32()
	c.TxPosition = r.vec()
	n := r.u32()
	c.RxNodes = nil
	for i := uint32(0); i < n && r.ok; i++ {
		var rx CsiRxNode
		rx.deserializeFrom(r)
		c.RxNodes = append(c.RxNodes, rx)
	}
}

func (c *CsiRxNode) serializeTo(w *writer) {
	logger.AssertTrue(len(c.FrequenciesHz) == len(c.CsiReal) && len(c.CsiReal) == len(c.CsiImag))
	w.u32(c.Id)
	w.vec(c.Position)
	w.u64(c.DelayNs)
	w.f64(c.WidebandLossDb)
	w.u32(uint32(len(c.FrequenciesHz)))
	for _, f := range c.FrequenciesHz {
		w.f64(f)
	}
	for _, re := range c.CsiReal {
		w.f64(re)
	}
	for _, im := range c.CsiImag {
		w.f64(im)
	}
}

func (c *CsiRxNode) deserializeFrom(r *reader) {
	c.Id = r.u32()
	c.Position = r.vec()
	c.DelayNs = r.u64()
	c.WidebandLossDb = r.f64()
	n := r.u32()
	if !r.ok || int(n)*24 > r.remaining() {
		r.fail()
		return
	}
	c.FrequenciesHz = make([]float64, n)
	c.CsiReal = make([]float64, n)
	c.CsiImag = make([]float64, n)
	for i := uint32(0); i < n; i++ {
		c.FrequenciesHz[i] = r.f64()
	}
	for i := uint32(0); i < n; i++ {
		c.CsiReal[i] = r.f64()
	}
	for i := uint32(0); i < n; i++ {
		c.CsiImag[i] = r.f64()
	}
}

// writer accumulates little-endian payload bytes.
type writer struct {
	buf []byte
}

func (w *writer) u8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *writer) u16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *writer) u32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *writer) u64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *writer) f64(v float64) {
	w.u64(math.Float64bits(v))
}

func (w *writer) vec(v types.Vector3) {
	w.f64(v.X)
	w.f64(v.Y)
	w.f64(v.Z)
}

func (w *writer) str(s string) {
	logger.AssertTrue(len(s) <= math.MaxUint16)
	w.u16(uint16(len(s)))
	w.buf = append(w.buf, s...)
}

// reader consumes little-endian payload bytes; the first short read marks the
// reader failed and all further reads return zero values.
type reader struct {
	buf []byte
	pos int
	ok  bool
}

func (r *reader) fail() {
	r.ok = false
}

func (r *reader) remaining() int {
	return len(r.buf) - r.pos
}

func (r *reader) done() bool {
	return r.ok && r.pos == len(r.buf)
}

func (r *reader) take(n int) []byte {
	if !r.ok || r.remaining() < n {
		r.ok = false
		return nil
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) u16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *reader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) u64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *reader) f64() float64 {
	return math.Float64frombits(r.u64())
}

func (r *reader) vec() types.Vector3 {
	return types.Vector3{X: r.f64(), Y: r.f64(), Z: r.f64()}
}

func (r *reader) str() string {
	n := r.u16()
	b := r.take(int(n))
	if b == nil {
		return ""
	}
	return string(b)
}
