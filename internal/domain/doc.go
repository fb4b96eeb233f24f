// Package domain defines the in-memory model of a serialized computation graph.
//
// The types here mirror the structure of an ONNX model closely enough for
// boundary rewriting and pruning, and no further. Fields the editor never
// interprets are carried as opaque encoded bytes so a model can be written
// back without loss.
//
// # Core Types
//
// Model wraps a Graph together with the IR version and operator set imports
// it was produced against.
//
// Graph holds the ordered Nodes, the declared Inputs and Outputs (the graph
// boundary), the Initializers (named constant tensors) and optional
// intermediate ValueInfo annotations.
//
// Node is one operation: a name, an operator type, and ordered lists of the
// tensor names it consumes and produces.
//
// ValueInfo describes a boundary tensor: a name plus an optional tensor type
// and Shape. A nil Shape means the rank is unknown; an empty non-nil Shape is
// a scalar.
//
// # Member Index
//
// Index is a name-to-member snapshot over any named collection. It is never
// kept in sync with the collection it was built from; callers rebuild it
// after every structural change.
//
// # Design Principles
//
// - No encoding or storage dependencies
// - A Graph has exactly one owner while it is being edited
// - Deterministic naming, no package-level state
package domain
