package services

import (
	"sort"

	"github.com/google/uuid"
)

// Selection is the set of athletes picked for a bulk assignment.
type Selection struct {
	ids map[uuid.UUID]struct{}
}

func NewSelection(ids ...uuid.UUID) *Selection {
	s := &Selection{ids: make(map[uuid.UUID]struct{}, len(ids))}
	for _, id := range ids {
		s.Select(id)
	}
	return s
}

func (s *Selection) Select(id uuid.UUID) {
	if id == uuid.Nil {
		return
	}
	s.ids[id] = struct{}{}
}

func (s *Selection) Deselect(id uuid.UUID) {
	delete(s.ids, id)
}

func (s *Selection) Toggle(id uuid.UUID) {
	if s.Has(id) {
		s.Deselect(id)
		return
	}
	s.Select(id)
}

// SelectAll replaces the selection with ids.
func (s *Selection) SelectAll(ids []uuid.UUID) {
	s.Clear()
	for _, id := range ids {
		s.Select(id)
	}
}

func (s *Selection) Clear() {
	s.ids = make(map[uuid.UUID]struct{})
}

func (s *Selection) Has(id uuid.UUID) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in a stable order.
func (s *Selection) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}
