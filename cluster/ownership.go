/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2021 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

//go:build amd64 || arm64 || arm64be || ppc64 || ppc64le || mips64 || mips64le || riscv64 || s390x || sparc64 || wasm
// +build amd64 arm64 arm64be ppc64 ppc64le mips64 mips64le riscv64 s390x sparc64 wasm

package cluster

import (
	"encoding/json"
	"io"
	"sync"

	dgbsm "github.com/lni/dragonboat/v3/statemachine"
)

// ownerOp is the verb half of a proposal applied to an ownershipMachine.
type ownerOp uint8

const (
	// OwnerClaim assigns a module key to a node, replacing any prior owner.
	OwnerClaim ownerOp = iota
	// OwnerRelease clears a module key's assignment if held by the proposing node.
	OwnerRelease
)

// OwnershipCommand is the JSON payload proposed through Cluster.SyncPropose to
// claim or release ownership of a generator module key.
type OwnershipCommand struct {
	Op     ownerOp `json:"op"`
	Module string  `json:"module"`
	NodeID uint64  `json:"node_id"`
}

// OwnershipQuery is the payload passed to Cluster.SyncRead. An empty Module
// requests the full assignment map; a non-empty Module requests just that
// key's current owner.
type OwnershipQuery struct {
	Module string `json:"module"`
}

// OwnershipResult answers an OwnershipQuery.
type OwnershipResult struct {
	Assignments map[string]uint64 `json:"assignments"`
}

// ownershipMachine is a Raft state machine tracking which node owns which
// generator module set, so that at most one perfcored instance ever runs a
// given module key's worker pool at a time. Ownership is decided by
// consensus rather than gossip: a claim only takes effect once the proposal
// has been committed to a quorum of the Raft cluster.
type ownershipMachine struct {
	mu          sync.RWMutex
	clusterID   uint64
	nodeID      uint64
	assignments map[string]uint64
}

// NewOwnershipStateMachine returns a dgbsm.CreateStateMachineFunc building
// one ownershipMachine per (clusterID, nodeID) pair, suitable for passing as
// the create parameter of Cluster.StartCluster.
func NewOwnershipStateMachine() func(clusterID uint64, nodeID uint64) dgbsm.IStateMachine {
	return func(clusterID uint64, nodeID uint64) dgbsm.IStateMachine {
		return &ownershipMachine{
			clusterID:   clusterID,
			nodeID:      nodeID,
			assignments: make(map[string]uint64),
		}
	}
}

// Update applies one committed OwnershipCommand.
func (m *ownershipMachine) Update(e dgbsm.Entry) (dgbsm.Result, error) {
	var cmd OwnershipCommand
	if err := json.Unmarshal(e.Cmd, &cmd); err != nil {
		return dgbsm.Result{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch cmd.Op {
	case OwnerClaim:
		m.assignments[cmd.Module] = cmd.NodeID
	case OwnerRelease:
		if owner, ok := m.assignments[cmd.Module]; ok && owner == cmd.NodeID {
			delete(m.assignments, cmd.Module)
		}
	}

	return dgbsm.Result{Value: e.Index}, nil
}

// Lookup answers an OwnershipQuery against the current committed state.
func (m *ownershipMachine) Lookup(query interface{}) (interface{}, error) {
	q, _ := query.(OwnershipQuery)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if q.Module != "" {
		out := make(map[string]uint64, 1)
		if owner, ok := m.assignments[q.Module]; ok {
			out[q.Module] = owner
		}
		return OwnershipResult{Assignments: out}, nil
	}

	out := make(map[string]uint64, len(m.assignments))
	for k, v := range m.assignments {
		out[k] = v
	}
	return OwnershipResult{Assignments: out}, nil
}

// SaveSnapshot serializes the full assignment map.
func (m *ownershipMachine) SaveSnapshot(w io.Writer, _ dgbsm.ISnapshotFileCollection, _ <-chan struct{}) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	enc := json.NewEncoder(w)
	return enc.Encode(m.assignments)
}

// RecoverFromSnapshot restores the assignment map from a prior SaveSnapshot.
func (m *ownershipMachine) RecoverFromSnapshot(r io.Reader, _ []dgbsm.SnapshotFile, _ <-chan struct{}) error {
	assignments := make(map[string]uint64)
	if err := json.NewDecoder(r).Decode(&assignments); err != nil {
		return err
	}

	m.mu.Lock()
	m.assignments = assignments
	m.mu.Unlock()

	return nil
}

// Close releases no external resources; the machine holds only in-memory state.
func (m *ownershipMachine) Close() error {
	return nil
}
