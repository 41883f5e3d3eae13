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
	"context"
	"encoding/json"
	"fmt"

	"github.com/lni/dragonboat/v3/client"
)

// Coordinator drives a single Raft cluster running an ownershipMachine, so
// that at most one perfcored instance ever holds a given generator module
// key at a time. A single-node Coordinator still goes through the same
// propose/read path as a multi-node one; it just has a quorum of one.
type Coordinator struct {
	node      *cRaft
	clusterID uint64
	nodeID    uint64
	session   *client.Session
}

// NewCoordinator starts (or rejoins) the ownership cluster described by cfg
// and returns a Coordinator ready to claim and release module keys. The
// returned Coordinator owns the underlying NodeHost: callers must call
// Close when done with it.
func NewCoordinator(cfg Config) (*Coordinator, error) {
	nodeCfg := cfg.GetDGBConfigNode()

	node, err := NewCluster(&nodeCfg)
	if err != nil {
		return nil, ErrorNodeHostNew.Error(err)
	}

	node.SetConfig(cfg.GetDGBConfigCluster())
	node.SetMemberInit(cfg.GetInitMember())
	node.SetFctCreateSTM(NewOwnershipStateMachine())

	if serr := node.ClusterStart(false); serr != nil {
		_ = node.ClusterStop(true)
		return nil, serr
	}

	return &Coordinator{
		node:      node,
		clusterID: cfg.Cluster.ClusterID,
		nodeID:    cfg.Cluster.NodeID,
		session:   node.GetNoOPSession(),
	}, nil
}

// Claim proposes ownership of module for this node. It first performs a
// linearizable read of the current owner and declines to propose when
// another node already holds the key: the ownershipMachine's Update has no
// compare-and-swap, so skipping the proposal is what keeps an established
// owner from being silently overwritten by a late, stale claim attempt.
func (co *Coordinator) Claim(ctx context.Context, module string) (bool, error) {
	owner, err := co.owner(ctx, module)
	if err != nil {
		return false, err
	}
	if owner != 0 && owner != co.nodeID {
		return false, nil
	}

	cmd, err := json.Marshal(OwnershipCommand{Op: OwnerClaim, Module: module, NodeID: co.nodeID})
	if err != nil {
		return false, err
	}
	if _, serr := co.node.SyncPropose(ctx, co.session, cmd); serr != nil {
		return false, serr
	}
	return true, nil
}

// Release proposes clearing module's ownership. ownershipMachine.Update
// already no-ops a release from a node that isn't the current owner, so
// Release is safe to call unconditionally during shutdown.
func (co *Coordinator) Release(ctx context.Context, module string) error {
	cmd, err := json.Marshal(OwnershipCommand{Op: OwnerRelease, Module: module, NodeID: co.nodeID})
	if err != nil {
		return err
	}
	if _, serr := co.node.SyncPropose(ctx, co.session, cmd); serr != nil {
		return serr
	}
	return nil
}

func (co *Coordinator) owner(ctx context.Context, module string) (uint64, error) {
	res, serr := co.node.SyncRead(ctx, OwnershipQuery{Module: module})
	if serr != nil {
		return 0, serr
	}

	result, ok := res.(OwnershipResult)
	if !ok {
		//nolint goerr113
		return 0, fmt.Errorf("cluster: unexpected ownership read result type %T", res)
	}
	return result.Assignments[module], nil
}

// Close stops the underlying NodeHost and every Raft node it manages.
func (co *Coordinator) Close() {
	_ = co.node.ClusterStop(true)
}
