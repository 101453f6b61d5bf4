// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package yarl

// Version is the semantic version of the framework, stamped into saved
// weight files and agent checkpoints.
const Version = "0.1.0"
