// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package graphs assembles layers into executable networks.  A
NetworkSpec (parsed from JSON or YAML) names the sub-components, the
top-level input and output sockets, and the connections between them;
BuildNetwork validates the spec, orders the layers topologically, and
builds each layer's weights so the resulting Network can run Forward
and Backward passes over batched tensors.

Networks persist their weights as (optionally gzipped) JSON in the
same spirit as other weight formats in this ecosystem, and accept
params.Sheet selector sheets for post-build parameter styling.
*/
package graphs
