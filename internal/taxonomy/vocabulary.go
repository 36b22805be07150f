package taxonomy

import (
	"fmt"

	"github.com/mwantia/palanaeum/pkg/apperrors"
)

// Kind names one of the controlled vocabularies
type Kind string

const (
	KindCategory   Kind = "category"
	KindDiscipline Kind = "discipline"
	KindTag        Kind = "tag"
	KindLevel3     Kind = "level3"
)

// Vocabulary is a bidirectional id/name table. Names keeps the order the store returned.
type Vocabulary struct {
	Kind     Kind
	IDToName map[uint]string
	NameToID map[string]uint
	Names    []string
}

func newVocabulary(kind Kind, size int) Vocabulary {
	return Vocabulary{
		Kind:     kind,
		IDToName: make(map[uint]string, size),
		NameToID: make(map[string]uint, size),
		Names:    make([]string, 0, size),
	}
}

func (v *Vocabulary) add(id uint, name string) {
	v.IDToName[id] = name
	if _, ok := v.NameToID[name]; !ok {
		v.Names = append(v.Names, name)
		// duplicate level3 names resolve to the first stored id
		v.NameToID[name] = id
	}
}

// ID resolves a name, failing with apperrors.ErrNotFound
func (v Vocabulary) ID(name string) (uint, error) {
	id, ok := v.NameToID[name]
	if !ok {
		return 0, fmt.Errorf("%s %q: %w", v.Kind, name, apperrors.ErrNotFound)
	}
	return id, nil
}

// Name resolves an id, failing with apperrors.ErrNotFound
func (v Vocabulary) Name(id uint) (string, error) {
	name, ok := v.IDToName[id]
	if !ok {
		return "", fmt.Errorf("%s id %d: %w", v.Kind, id, apperrors.ErrNotFound)
	}
	return name, nil
}

func (v Vocabulary) Has(name string) bool {
	_, ok := v.NameToID[name]
	return ok
}

func (v Vocabulary) Len() int {
	return len(v.IDToName)
}

func (v Vocabulary) clone() Vocabulary {
	c := newVocabulary(v.Kind, len(v.IDToName))
	for id, name := range v.IDToName {
		c.IDToName[id] = name
	}
	for name, id := range v.NameToID {
		c.NameToID[name] = id
	}
	c.Names = append(c.Names, v.Names...)
	return c
}
