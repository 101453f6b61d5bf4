// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package execution runs agents against environments.  The
single-threaded worker drives the act-observe-update loop and logs
episode statistics to an etable.Table; the MPI worker wraps it with
data-parallel weight averaging across ranks via empi.
*/
package execution
