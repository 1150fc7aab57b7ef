package state

import "slices"

// Store holds the three annotation collections. Slice order is z-order:
// later entries are drawn on top.
type Store struct {
	lines []*Line
	areas []*Area
	texts []*TextBox
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) AddLine(l *Line)    { s.lines = append(s.lines, l) }
func (s *Store) AddArea(a *Area)    { s.areas = append(s.areas, a) }
func (s *Store) AddText(t *TextBox) { s.texts = append(s.texts, t) }

// Line returns a copy of the line with the given id.
func (s *Store) Line(id ID) (*Line, bool) {
	if i := s.lineIndex(id); i >= 0 {
		return s.lines[i].Clone(), true
	}
	return nil, false
}

func (s *Store) Area(id ID) (*Area, bool) {
	if i := s.areaIndex(id); i >= 0 {
		return s.areas[i].Clone(), true
	}
	return nil, false
}

func (s *Store) Text(id ID) (*TextBox, bool) {
	if i := s.textIndex(id); i >= 0 {
		return s.texts[i].Clone(), true
	}
	return nil, false
}

// UpdateLine applies fn to the stored line. It reports false, without
// calling fn, when no line has that id.
func (s *Store) UpdateLine(id ID, fn func(*Line)) bool {
	i := s.lineIndex(id)
	if i < 0 {
		return false
	}
	fn(s.lines[i])
	s.lines[i].ID = id
	return true
}

func (s *Store) UpdateArea(id ID, fn func(*Area)) bool {
	i := s.areaIndex(id)
	if i < 0 {
		return false
	}
	fn(s.areas[i])
	s.areas[i].ID = id
	return true
}

func (s *Store) UpdateText(id ID, fn func(*TextBox)) bool {
	i := s.textIndex(id)
	if i < 0 {
		return false
	}
	fn(s.texts[i])
	s.texts[i].ID = id
	return true
}

// Remove deletes the entity of the given kind and reports whether it was
// present.
func (s *Store) Remove(kind Kind, id ID) bool {
	switch kind {
	case KindLine:
		if i := s.lineIndex(id); i >= 0 {
			s.lines = slices.Delete(s.lines, i, i+1)
			return true
		}
	case KindArea:
		if i := s.areaIndex(id); i >= 0 {
			s.areas = slices.Delete(s.areas, i, i+1)
			return true
		}
	case KindText:
		if i := s.textIndex(id); i >= 0 {
			s.texts = slices.Delete(s.texts, i, i+1)
			return true
		}
	}
	return false
}

// Has reports whether an entity of the given kind and id exists.
func (s *Store) Has(kind Kind, id ID) bool {
	switch kind {
	case KindLine:
		return s.lineIndex(id) >= 0
	case KindArea:
		return s.areaIndex(id) >= 0
	case KindText:
		return s.textIndex(id) >= 0
	}
	return false
}

// Lines returns deep copies of all lines in z-order.
func (s *Store) Lines() []*Line {
	res := make([]*Line, 0, len(s.lines))
	for _, l := range s.lines {
		res = append(res, l.Clone())
	}
	return res
}

func (s *Store) Areas() []*Area {
	res := make([]*Area, 0, len(s.areas))
	for _, a := range s.areas {
		res = append(res, a.Clone())
	}
	return res
}

func (s *Store) Texts() []*TextBox {
	res := make([]*TextBox, 0, len(s.texts))
	for _, t := range s.texts {
		res = append(res, t.Clone())
	}
	return res
}

func (s *Store) Len() int {
	return len(s.lines) + len(s.areas) + len(s.texts)
}

// Reset empties all three collections.
func (s *Store) Reset() {
	s.lines = nil
	s.areas = nil
	s.texts = nil
}

func (s *Store) lineIndex(id ID) int {
	return slices.IndexFunc(s.lines, func(l *Line) bool { return l.ID == id })
}

func (s *Store) areaIndex(id ID) int {
	return slices.IndexFunc(s.areas, func(a *Area) bool { return a.ID == id })
}

func (s *Store) textIndex(id ID) int {
	return slices.IndexFunc(s.texts, func(t *TextBox) bool { return t.ID == id })
}
