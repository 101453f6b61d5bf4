// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package envs

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/emer/emergent/env"
	"github.com/emer/etable/etensor"
	"github.com/pascalwhoop/yarl/spaces"
)

// GridWorld cell types, by map character.
const (
	CellEmpty = '.'
	CellStart = 'S'
	CellGoal  = 'G'
	CellHole  = 'H'
	CellFire  = 'F'
)

// GridWorld reward structure.
const (
	StepReward float32 = -0.1
	FireReward float32 = -3
	HoleReward float32 = -5
	GoalReward float32 = 1
)

// GridWorld actions.
const (
	ActionUp = iota
	ActionDown
	ActionLeft
	ActionRight
	ActionN
)

// DefaultMap is a 4x4 map with two holes and a fire cell between the
// start and the goal.
var DefaultMap = []string{
	"S...",
	".H.F",
	"...H",
	"H..G",
}

// GridWorld is a deterministic navigation task on a small textual map.
// The agent starts at S and moves up, down, left or right; walking off
// the map keeps it in place.  Stepping onto a hole ends the episode
// with a large penalty, fire costs reward but does not terminate, and
// the goal terminates with a positive reward.  Observations are the
// one-hot encoded agent position.
type GridWorld struct {
	Nm   string
	Rows []string

	// SaveMode replaces all holes with fire, so no cell is lethal.
	SaveMode bool

	// RandomStart picks a random empty cell instead of S on Reset.
	RandomStart bool

	// Episode counts episodes, Tick counts steps within an episode.
	Episode env.Ctr
	Tick    env.Ctr

	width  int
	height int
	startX int
	startY int
	posX   int
	posY   int
	rnd    *rand.Rand
}

// NewGridWorld parses the given map rows.  All rows must have equal
// width and the map must contain exactly one S.
func NewGridWorld(rows []string, saveMode bool) (*GridWorld, error) {
	gw := &GridWorld{
		Nm:       "GridWorld",
		Rows:     rows,
		SaveMode: saveMode,
		rnd:      rand.New(rand.NewSource(1)),
	}
	gw.Episode.Scale = env.Epoch
	gw.Tick.Scale = env.Trial
	gw.Episode.Init()
	gw.Tick.Init()

	gw.height = len(rows)
	if gw.height == 0 {
		return nil, fmt.Errorf("gridworld: empty map")
	}
	gw.width = len(rows[0])
	starts := 0
	for y, row := range rows {
		if len(row) != gw.width {
			return nil, fmt.Errorf("gridworld: row %d has width %d, want %d", y, len(row), gw.width)
		}
		for x, c := range row {
			switch c {
			case CellStart:
				gw.startX, gw.startY = x, y
				starts++
			case CellEmpty, CellGoal, CellHole, CellFire:
			default:
				return nil, fmt.Errorf("gridworld: unknown cell %q at (%d, %d)", string(c), x, y)
			}
		}
	}
	if starts != 1 {
		return nil, fmt.Errorf("gridworld: map must have exactly one start cell, got %d", starts)
	}
	gw.posX, gw.posY = gw.startX, gw.startY
	return gw, nil
}

func (gw *GridWorld) Name() string { return gw.Nm }

func (gw *GridWorld) StateSpace() spaces.Primitive {
	return spaces.NewFloatBox(0, 1, gw.height*gw.width)
}

func (gw *GridWorld) ActionSpace() spaces.Primitive {
	return spaces.NewDiscrete(ActionN)
}

func (gw *GridWorld) Seed(seed int64) {
	gw.rnd = rand.New(rand.NewSource(seed))
}

// cell returns the map character at (x, y), with save mode applied.
func (gw *GridWorld) cell(x, y int) byte {
	c := gw.Rows[y][x]
	if c == CellHole && gw.SaveMode {
		return CellFire
	}
	return c
}

func (gw *GridWorld) state() *etensor.Float32 {
	st := etensor.NewFloat32([]int{gw.height * gw.width}, nil, nil)
	st.Values[gw.posY*gw.width+gw.posX] = 1
	return st
}

func (gw *GridWorld) Reset() *etensor.Float32 {
	gw.Episode.Incr()
	gw.Tick.Init()
	gw.posX, gw.posY = gw.startX, gw.startY
	if gw.RandomStart {
		for {
			x := gw.rnd.Intn(gw.width)
			y := gw.rnd.Intn(gw.height)
			if c := gw.cell(x, y); c == CellEmpty || c == CellStart {
				gw.posX, gw.posY = x, y
				break
			}
		}
	}
	return gw.state()
}

func (gw *GridWorld) Step(action *etensor.Float32) (*etensor.Float32, float32, bool, error) {
	gw.Tick.Incr()
	act := int(action.Values[0])
	x, y := gw.posX, gw.posY
	switch act {
	case ActionUp:
		y--
	case ActionDown:
		y++
	case ActionLeft:
		x--
	case ActionRight:
		x++
	default:
		return nil, 0, false, fmt.Errorf("gridworld: invalid action %d", act)
	}
	if x >= 0 && x < gw.width && y >= 0 && y < gw.height {
		gw.posX, gw.posY = x, y
	}
	var reward float32
	terminal := false
	switch gw.cell(gw.posX, gw.posY) {
	case CellGoal:
		reward = GoalReward
		terminal = true
	case CellHole:
		reward = HoleReward
		terminal = true
	case CellFire:
		reward = FireReward
	default:
		reward = StepReward
	}
	return gw.state(), reward, terminal, nil
}

func (gw *GridWorld) Close() error { return nil }

// String renders the map with the agent position marked X.
func (gw *GridWorld) String() string {
	var sb strings.Builder
	for y, row := range gw.Rows {
		for x := range row {
			if x == gw.posX && y == gw.posY {
				sb.WriteByte('X')
			} else {
				sb.WriteByte(gw.cell(x, y))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
