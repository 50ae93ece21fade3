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
	"github.com/pkg/errors"

	"github.com/tkn-tub/ns3sionna/types"
)

// Registry is the explicitly owned node roster of one simulation run. It is
// constructed once, passed by reference to whoever needs the id-to-node
// lookup, and keeps nodes in insertion order for the session-init roster.
type Registry struct {
	order []types.NodeId
	nodes map[types.NodeId]Model
}

func NewRegistry() *Registry {
	return &Registry{
		nodes: make(map[types.NodeId]Model),
	}
}

// Add registers a node. Duplicate ids are a configuration error.
func (r *Registry) Add(m Model) error {
	id := m.Id()
	if _, ok := r.nodes[id]; ok {
		return errors.Wrapf(types.ErrConfiguration, "duplicate node id %d", id)
	}
	r.nodes[id] = m
	r.order = append(r.order, id)
	return nil
}

// Get looks up a node by id.
func (r *Registry) Get(id types.NodeId) (Model, bool) {
	m, ok := r.nodes[id]
	return m, ok
}

// Nodes returns all nodes in insertion order.
func (r *Registry) Nodes() []Model {
	nodes := make([]Model, 0, len(r.order))
	for _, id := range r.order {
		nodes = append(nodes, r.nodes[id])
	}
	return nodes
}

func (r *Registry) Len() int {
	return len(r.order)
}
