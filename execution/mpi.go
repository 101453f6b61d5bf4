// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package execution

import (
	"github.com/emer/empi/mpi"
	"github.com/pascalwhoop/yarl/agents"
	"github.com/pascalwhoop/yarl/components"
	"github.com/pascalwhoop/yarl/envs"
)

// ParamSource exposes an agent's trainable weights for cross-rank
// synchronization.
type ParamSource interface {
	Params() []*components.Weights
}

// MPIWorker runs one worker per MPI rank and periodically averages the
// agent's weights across all ranks, giving data-parallel training.
// With a single rank (or a nil comm) it behaves exactly like the
// wrapped single-threaded worker.
type MPIWorker struct {
	*SingleThreadedWorker

	Comm *mpi.Comm

	// average weights across ranks every this many timesteps
	SyncTimesteps int

	// scratch buffers reused across reductions
	send []float32
	recv []float32
}

// NewMPIWorker returns a worker bound to the given communicator, which
// may be nil for single-process runs.
func NewMPIWorker(agt agents.Agent, env envs.Env, comm *mpi.Comm) *MPIWorker {
	return &MPIWorker{
		SingleThreadedWorker: NewSingleThreadedWorker(agt, env),
		Comm:                 comm,
		SyncTimesteps:        100,
	}
}

// SyncParams averages the agent's weights across all ranks.  A no-op
// unless MPI is running with more than one process and the agent
// exposes its parameters.
func (wk *MPIWorker) SyncParams() error {
	if wk.Comm == nil || mpi.WorldSize() <= 1 {
		return nil
	}
	ps, ok := wk.Agt.(ParamSource)
	if !ok {
		return nil
	}
	params := ps.Params()
	var n int
	for _, wt := range params {
		n += wt.Len()
	}
	if cap(wk.send) < n {
		wk.send = make([]float32, n)
		wk.recv = make([]float32, n)
	}
	send := wk.send[:n]
	recv := wk.recv[:n]
	off := 0
	for _, wt := range params {
		copy(send[off:], wt.Values)
		off += wt.Len()
	}
	if err := wk.Comm.AllReduceF32(mpi.OpSum, recv, send); err != nil {
		return err
	}
	nproc := float32(mpi.WorldSize())
	off = 0
	for _, wt := range params {
		for i := range wt.Values {
			wt.Values[i] = recv[off+i] / nproc
		}
		off += wt.Len()
	}
	return nil
}

// ExecuteTimesteps runs n timesteps on this rank, averaging weights
// across ranks every SyncTimesteps.
func (wk *MPIWorker) ExecuteTimesteps(n int, deterministic bool) (*WorkerStats, error) {
	done := 0
	for done < n {
		chunk := wk.SyncTimesteps
		if chunk <= 0 || chunk > n-done {
			chunk = n - done
		}
		if _, err := wk.SingleThreadedWorker.ExecuteTimesteps(chunk, deterministic); err != nil {
			return wk.Stats, err
		}
		done += chunk
		if err := wk.SyncParams(); err != nil {
			return wk.Stats, err
		}
	}
	mpi.Printf("rank %d: %d timesteps, %d episodes, mean reward %.3f\n",
		mpi.WorldRank(), wk.Stats.Timesteps, wk.Stats.Episodes, wk.Stats.MeanReward())
	return wk.Stats, nil
}
