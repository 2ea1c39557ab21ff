// File: internal/detector/snapshot.go
package detector

// Snapshot is an ordered capture of the visible response texts at one
// instant, oldest first. The zero value is a valid empty snapshot.
type Snapshot struct {
	Texts []string
}

// NewSnapshot copies texts into a Snapshot so later page mutations cannot
// alias a captured baseline.
func NewSnapshot(texts []string) Snapshot {
	if len(texts) == 0 {
		return Snapshot{}
	}
	out := make([]string, len(texts))
	copy(out, texts)
	return Snapshot{Texts: out}
}

// Counts returns the multiset of texts. Duplicate messages are expected on
// chat surfaces, so occurrence counts, not membership, drive comparisons.
func (s Snapshot) Counts() map[string]int {
	counts := make(map[string]int, len(s.Texts))
	for _, t := range s.Texts {
		counts[t]++
	}
	return counts
}

// Last returns the newest text and whether the snapshot is non-empty.
func (s Snapshot) Last() (string, bool) {
	if len(s.Texts) == 0 {
		return "", false
	}
	return s.Texts[len(s.Texts)-1], true
}

// Equal reports order-sensitive equality with other.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s.Texts) != len(other.Texts) {
		return false
	}
	for i, t := range s.Texts {
		if other.Texts[i] != t {
			return false
		}
	}
	return true
}
