package mapping

import (
	"fmt"
)

// Pair associates a spreadsheet label with a model identifier, in mapping direction.
type Pair struct {
	From string
	To   string
}

// ColumnMapping is an immutable, ordered rename table.
// The zero value maps nothing.
type ColumnMapping struct {
	pairs []Pair
}

// New builds a mapping; a source or destination may appear only once.
func New(pairs ...Pair) (ColumnMapping, error) {
	from := make(map[string]bool, len(pairs))
	to := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		if p.From == "" || p.To == "" {
			return ColumnMapping{}, fmt.Errorf("mapping pair %q -> %q has an empty side", p.From, p.To)
		}
		if from[p.From] {
			return ColumnMapping{}, fmt.Errorf("duplicate source column %q", p.From)
		}
		if to[p.To] {
			return ColumnMapping{}, fmt.Errorf("duplicate destination column %q", p.To)
		}
		from[p.From] = true
		to[p.To] = true
	}
	out := make([]Pair, len(pairs))
	copy(out, pairs)
	return ColumnMapping{pairs: out}, nil
}

// MustNew is New for package-level declarations.
func MustNew(pairs ...Pair) ColumnMapping {
	m, err := New(pairs...)
	if err != nil {
		panic(err)
	}
	return m
}

// Pairs returns a copy of the mapping in declaration order.
func (m ColumnMapping) Pairs() []Pair {
	out := make([]Pair, len(m.pairs))
	copy(out, m.pairs)
	return out
}

// Len returns the number of pairs.
func (m ColumnMapping) Len() int {
	return len(m.pairs)
}

// Lookup returns the destination for a source column.
func (m ColumnMapping) Lookup(from string) (string, bool) {
	for _, p := range m.pairs {
		if p.From == from {
			return p.To, true
		}
	}
	return "", false
}

// Sources lists source columns in declaration order.
func (m ColumnMapping) Sources() []string {
	out := make([]string, len(m.pairs))
	for i, p := range m.pairs {
		out[i] = p.From
	}
	return out
}

// Destinations lists destination columns in declaration order.
func (m ColumnMapping) Destinations() []string {
	out := make([]string, len(m.pairs))
	for i, p := range m.pairs {
		out[i] = p.To
	}
	return out
}

// Reverse swaps every pair.
func (m ColumnMapping) Reverse() ColumnMapping {
	out := make([]Pair, len(m.pairs))
	for i, p := range m.pairs {
		out[i] = Pair{From: p.To, To: p.From}
	}
	return ColumnMapping{pairs: out}
}
