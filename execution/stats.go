// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package execution

import (
	"time"

	"github.com/emer/etable/agg"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// WorkerStats collects per-episode results in an etable.Table for
// aggregation and export.
type WorkerStats struct {
	EpisodeLog *etable.Table

	// totals across the whole run
	Timesteps int

	// env frames executed; exceeds Timesteps with action repeats
	EnvFrames int

	Episodes int
	Updates  int
	LossSum  float32

	// wall-clock start of the run
	Start time.Time
}

// NewWorkerStats returns an initialized stats collector.
func NewWorkerStats() *WorkerStats {
	ws := &WorkerStats{EpisodeLog: &etable.Table{}, Start: time.Now()}
	ws.EpisodeLog.SetMetaData("name", "EpisodeLog")
	sch := etable.Schema{
		{Name: "Episode", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "Steps", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "Reward", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "DurSecs", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
	}
	ws.EpisodeLog.SetFromSchema(sch, 0)
	return ws
}

// AddEpisode logs one finished episode with its wall-clock duration.
func (ws *WorkerStats) AddEpisode(steps int, reward float32, dur time.Duration) {
	dt := ws.EpisodeLog
	row := dt.Rows
	dt.AddRows(1)
	dt.SetCellFloat("Episode", row, float64(ws.Episodes))
	dt.SetCellFloat("Steps", row, float64(steps))
	dt.SetCellFloat("Reward", row, float64(reward))
	dt.SetCellFloat("DurSecs", row, dur.Seconds())
	ws.Episodes++
}

// RunTime returns the wall-clock time since the stats were created.
func (ws *WorkerStats) RunTime() time.Duration {
	return time.Since(ws.Start)
}

// MeanReward returns the mean episode reward so far, 0 before the
// first episode finishes.
func (ws *WorkerStats) MeanReward() float64 {
	if ws.EpisodeLog.Rows == 0 {
		return 0
	}
	ix := etable.NewIdxView(ws.EpisodeLog)
	return agg.Agg(ix, "Reward", agg.AggMean)[0]
}

// MaxReward returns the best episode reward so far.
func (ws *WorkerStats) MaxReward() float64 {
	if ws.EpisodeLog.Rows == 0 {
		return 0
	}
	ix := etable.NewIdxView(ws.EpisodeLog)
	return agg.Agg(ix, "Reward", agg.AggMax)[0]
}

// MeanLoss returns the average loss across all updates so far.
func (ws *WorkerStats) MeanLoss() float32 {
	if ws.Updates == 0 {
		return 0
	}
	return ws.LossSum / float32(ws.Updates)
}
