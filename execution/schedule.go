// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package execution

// UpdateSchedule controls when and how often a worker calls the
// agent's Update during stepping.
type UpdateSchedule struct {

	// no updates before this many timesteps have been collected
	StepsBeforeUpdate int

	// run updates every this many timesteps
	UpdateInterval int

	// number of Update calls per update point
	UpdateSteps int
}

// Defaults sets standard online-learning settings.
func (us *UpdateSchedule) Defaults() {
	if us.StepsBeforeUpdate == 0 {
		us.StepsBeforeUpdate = 100
	}
	if us.UpdateInterval == 0 {
		us.UpdateInterval = 4
	}
	if us.UpdateSteps == 0 {
		us.UpdateSteps = 1
	}
}

// ShouldUpdate reports whether an update point falls on timeStep.
func (us *UpdateSchedule) ShouldUpdate(timeStep int) bool {
	if timeStep < us.StepsBeforeUpdate {
		return false
	}
	return timeStep%us.UpdateInterval == 0
}
