package domain

// Boundary is a requested set of graph inputs or outputs.
//
// Names keeps the order the caller gave. Shapes is nil when no name carried an
// explicit shape; names missing from Shapes get an unknown shape.
type Boundary struct {
	Names  []string           `json:"names" yaml:"names"`
	Shapes map[string][]int64 `json:"shapes,omitempty" yaml:"shapes,omitempty"`
}

// IsEmpty reports whether no names were requested
func (b Boundary) IsEmpty() bool {
	return len(b.Names) == 0
}

// ShapeFor returns the requested shape for name, or nil (unknown) when none was given
func (b Boundary) ShapeFor(name string) Shape {
	if b.Shapes == nil {
		return nil
	}
	sizes, ok := b.Shapes[name]
	if !ok {
		return nil
	}
	return ShapeOf(sizes)
}
