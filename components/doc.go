// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package components provides the Component base type shared by all graph
building blocks (layers, memories, distributions, explorations,
optimizers), the Spec map type that carries type-specific parameters from
JSON/YAML documents, and the Registry from which sub-components are
instantiated by type name.

Every component has a scope: a unique instance name within its containing
graph.  Components implement the emergent params.Styler interface so
hyperparameters can be applied through selector-based param sheets, the
same mechanism emergent networks use ("Dense" selects by type, ".class"
by class, "#scope" by name).
*/
package components
