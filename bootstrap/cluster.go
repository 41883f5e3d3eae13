/*
 * MIT License
 *
 * Copyright (c) 2026 perfcore authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/sabouaram/perfcore/cluster"
)

// defaultClusterConfig builds a single-node Raft cluster configuration from
// the raft_address/data_dir options: cluster ID 1, node ID 1. A multi-node
// deployment would need its peers' addresses added to InitMember, which the
// current option surface does not expose.
func defaultClusterConfig(addr, dataDir string) (cluster.Config, error) {
	if dataDir == "" {
		dir, err := os.MkdirTemp("", "perfcore-cluster-")
		if err != nil {
			return cluster.Config{}, fmt.Errorf("bootstrap: create cluster data dir: %w", err)
		}
		dataDir = dir
	}

	const nodeID, clusterID = uint64(1), uint64(1)

	return cluster.Config{
		Node: cluster.ConfigNode{
			NodeHostDir:    dataDir,
			RaftAddress:    addr,
			RTTMillisecond: 200,
		},
		Cluster: cluster.ConfigCluster{
			NodeID:       nodeID,
			ClusterID:    clusterID,
			ElectionRTT:  10,
			HeartbeatRTT: 1,
		},
		InitMember: map[uint64]string{nodeID: addr},
	}, nil
}

// StartCluster brings up the ownership-coordination Raft node when
// OptClusterEnabled is set, so that Bootstrap/Shutdown can claim and release
// module keys across a fleet of perfcored instances. When disabled, a.Cluster
// stays nil and Bootstrap/Shutdown skip ownership coordination entirely.
func (a *App) StartCluster() error {
	if a.Options.Get(OptClusterEnabled) != "true" {
		return nil
	}

	cfg, err := defaultClusterConfig(a.Options.Get(OptClusterAddr), a.Options.Get(OptClusterDataDir))
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("bootstrap: invalid cluster configuration: %w", err)
	}

	co, err := cluster.NewCoordinator(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap: start ownership coordinator: %w", err)
	}
	a.Cluster = co

	return nil
}

// claimModules claims ownership of every module key before Bootstrap starts
// them, so that two perfcored instances sharing an ownership cluster never
// both run the same generator module at once. A module whose key is already
// claimed by another node fails the whole run: claimModules returns an error
// and Bootstrap starts no module.
func (a *App) claimModules() error {
	if a.Cluster == nil {
		return nil
	}

	ctx := context.Background()
	for _, key := range a.Modules.Order() {
		ok, err := a.Cluster.Claim(ctx, key)
		if err != nil {
			return fmt.Errorf("bootstrap: claim module %q: %w", key, err)
		}
		if !ok {
			return fmt.Errorf("bootstrap: module %q is owned by another instance", key)
		}
	}
	return nil
}

// releaseModules releases ownership of every module key during Shutdown.
// Errors are collected rather than fatal, mirroring Modules.Finish.
func (a *App) releaseModules() []error {
	if a.Cluster == nil {
		return nil
	}

	ctx := context.Background()
	var errs []error
	for _, key := range a.Modules.Order() {
		if err := a.Cluster.Release(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("bootstrap: release module %q: %w", key, err))
		}
	}
	return errs
}
