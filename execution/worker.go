// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package execution

import (
	"time"

	"github.com/emer/etable/etensor"
	"github.com/pascalwhoop/yarl/agents"
	"github.com/pascalwhoop/yarl/envs"
)

// SingleThreadedWorker runs one agent in one environment.  It keeps
// episode state across calls, so interleaving ExecuteTimesteps calls
// continues the current episode rather than restarting it.
type SingleThreadedWorker struct {
	Agt agents.Agent
	Env envs.Env

	Sched UpdateSchedule

	// env frames executed per agent action; rewards accumulate across
	// the repeats
	RepeatActions int

	// episode is cut off (not terminal for learning) after this many
	// steps; 0 disables the limit
	MaxStepsPerEpisode int

	Stats *WorkerStats

	state    *etensor.Float32
	epReward float32
	epSteps  int
	epStart  time.Time
	running  bool
}

// NewSingleThreadedWorker returns a worker with default scheduling.
func NewSingleThreadedWorker(agt agents.Agent, env envs.Env) *SingleThreadedWorker {
	wk := &SingleThreadedWorker{
		Agt:           agt,
		Env:           env,
		RepeatActions: 1,
		Stats:         NewWorkerStats(),
	}
	wk.Sched.Defaults()
	return wk
}

func (wk *SingleThreadedWorker) beginEpisode() {
	wk.state = wk.Env.Reset()
	wk.Agt.Reset()
	wk.epReward = 0
	wk.epSteps = 0
	wk.epStart = time.Now()
	wk.running = true
}

func (wk *SingleThreadedWorker) endEpisode() {
	wk.Stats.AddEpisode(wk.epSteps, wk.epReward, time.Since(wk.epStart))
	wk.running = false
}

// step executes one agent action (with repeats) and returns whether
// the episode ended.
func (wk *SingleThreadedWorker) step(deterministic bool) (bool, error) {
	action, err := wk.Agt.GetAction(wk.state, wk.Stats.Timesteps, deterministic)
	if err != nil {
		return false, err
	}
	var reward float32
	var next *etensor.Float32
	terminal := false
	for r := 0; r < wk.RepeatActions && !terminal; r++ {
		var rew float32
		next, rew, terminal, err = wk.Env.Step(action)
		if err != nil {
			return false, err
		}
		reward += rew
		wk.epReward += rew
		wk.Stats.EnvFrames++
	}
	wk.Agt.Observe(wk.state, action, reward, next, terminal)
	wk.state = next
	wk.epSteps++
	wk.Stats.Timesteps++

	if wk.Sched.ShouldUpdate(wk.Stats.Timesteps) {
		for u := 0; u < wk.Sched.UpdateSteps; u++ {
			loss, err := wk.Agt.Update()
			if err != nil {
				return false, err
			}
			wk.Stats.Updates++
			wk.Stats.LossSum += loss
		}
	}
	if terminal {
		return true, nil
	}
	if wk.MaxStepsPerEpisode > 0 && wk.epSteps >= wk.MaxStepsPerEpisode {
		return true, nil
	}
	return false, nil
}

// ExecuteTimesteps runs n agent timesteps, rolling over episode
// boundaries as needed.
func (wk *SingleThreadedWorker) ExecuteTimesteps(n int, deterministic bool) (*WorkerStats, error) {
	for t := 0; t < n; t++ {
		if !wk.running {
			wk.beginEpisode()
		}
		done, err := wk.step(deterministic)
		if err != nil {
			return wk.Stats, err
		}
		if done {
			wk.endEpisode()
		}
	}
	return wk.Stats, nil
}

// ExecuteEpisodes runs n full episodes.
func (wk *SingleThreadedWorker) ExecuteEpisodes(n int, deterministic bool) (*WorkerStats, error) {
	for e := 0; e < n; e++ {
		wk.beginEpisode()
		for {
			done, err := wk.step(deterministic)
			if err != nil {
				return wk.Stats, err
			}
			if done {
				break
			}
		}
		wk.endEpisode()
	}
	return wk.Stats, nil
}
