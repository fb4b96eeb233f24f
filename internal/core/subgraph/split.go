package subgraph

// Split is the partition of a requested boundary against the current one
type Split struct {
	// Removed names are in the current boundary but were not requested
	Removed []string
	// Retained names are in both
	Retained []string
	// New names were requested but are not in the current boundary
	New []string
}

// SplitBoundary partitions requested against current.
//
// Removed and Retained follow the order of current; New follows the order of
// requested with duplicates collapsed. An empty requested list removes
// everything; substituting the current boundary for an empty request is the
// caller's job.
func SplitBoundary(current, requested []string) Split {
	want := make(map[string]struct{}, len(requested))
	for _, name := range requested {
		want[name] = struct{}{}
	}

	var s Split
	have := make(map[string]struct{}, len(current))
	for _, name := range current {
		have[name] = struct{}{}
		if _, ok := want[name]; ok {
			s.Retained = append(s.Retained, name)
		} else {
			s.Removed = append(s.Removed, name)
		}
	}

	seen := make(map[string]struct{}, len(requested))
	for _, name := range requested {
		if _, ok := have[name]; ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		s.New = append(s.New, name)
	}

	return s
}
