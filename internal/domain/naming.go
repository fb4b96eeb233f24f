package domain

import "strconv"

// AssignNodeNames gives every unnamed node a deterministic name of the form
// "<op_type><n>" and returns how many nodes were renamed.
//
// The counter is local to the call and advances once per unnamed node. A
// candidate that collides with a name already present keeps advancing the
// counter until it is unique.
func AssignNodeNames(g *Graph) int {
	taken := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.Name != "" {
			taken[n.Name] = struct{}{}
		}
	}

	counter := 0
	renamed := 0
	for _, n := range g.Nodes {
		if n.Name != "" {
			continue
		}
		name := n.OpType + strconv.Itoa(counter)
		counter++
		for {
			if _, dup := taken[name]; !dup {
				break
			}
			name = n.OpType + strconv.Itoa(counter)
			counter++
		}
		n.Name = name
		taken[name] = struct{}{}
		renamed++
	}
	return renamed
}
