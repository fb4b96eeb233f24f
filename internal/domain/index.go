package domain

import (
	"maps"
	"slices"
)

// Index maps member names to members of a named collection.
//
// An Index is a snapshot: it does not follow later changes to the collection
// it was built from and must be rebuilt after any structural edit. Names are
// expected to be unique; on duplicates the last member wins.
type Index[T any] map[string]T

// NewIndex builds an index over members using key to extract each name
func NewIndex[T any](members []T, key func(T) string) Index[T] {
	idx := make(Index[T], len(members))
	for _, m := range members {
		idx[key(m)] = m
	}
	return idx
}

// Has reports whether name is indexed
func (idx Index[T]) Has(name string) bool {
	_, ok := idx[name]
	return ok
}

// Names returns the indexed names in sorted order
func (idx Index[T]) Names() []string {
	return slices.Sorted(maps.Keys(idx))
}

// IndexNodes indexes nodes by node name
func IndexNodes(nodes []*Node) Index[*Node] {
	return NewIndex(nodes, func(n *Node) string { return n.Name })
}

// IndexValueInfos indexes boundary descriptors by tensor name
func IndexValueInfos(list []*ValueInfo) Index[*ValueInfo] {
	return NewIndex(list, func(v *ValueInfo) string { return v.Name })
}

// IndexInitializers indexes constant tensors by name
func IndexInitializers(list []*Initializer) Index[*Initializer] {
	return NewIndex(list, func(i *Initializer) string { return i.Name })
}
