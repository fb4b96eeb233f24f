// Package subgraph extracts a self-consistent subgraph from a computation
// graph given a new set of boundary inputs and outputs.
//
// Extraction runs three ordered passes over a single Graph:
//
//  1. Input rewrite: boundary inputs not requested are dropped; each newly
//     requested input cuts the graph by removing the node that named it or
//     produced it, and gets a fresh descriptor.
//  2. Output rewrite: boundary outputs not requested are dropped and newly
//     requested outputs get fresh descriptors. Outputs never cut the graph.
//  3. Pruning: every node and initializer that cannot be reached backward from
//     a final output is deleted, together with any input descriptor that
//     shares its name.
//
// The graph is mutated in place. A failed extraction leaves it partially
// edited; callers must discard it.
package subgraph
