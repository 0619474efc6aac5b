package mapping

import (
	"sort"

	"contractalloc/domain/core"
)

// Vocabulary is the closed set of model identifiers the bridge may read or write.
type Vocabulary map[string]struct{}

// NewVocabulary builds a vocabulary from identifier names.
func NewVocabulary(ids ...string) Vocabulary {
	v := make(Vocabulary, len(ids))
	for _, id := range ids {
		v[id] = struct{}{}
	}
	return v
}

// Contains reports whether id is part of the vocabulary.
func (v Vocabulary) Contains(id string) bool {
	_, ok := v[id]
	return ok
}

// Check fails on the first identifier outside the vocabulary.
func (v Vocabulary) Check(ids ...string) error {
	for _, id := range ids {
		if !v.Contains(id) {
			return &core.UnknownIdentifierError{Identifier: id}
		}
	}
	return nil
}

// Sorted lists the identifiers alphabetically.
func (v Vocabulary) Sorted() []string {
	out := make([]string, 0, len(v))
	for id := range v {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
