package state

// Selection names at most one selected entity across all collections.
// A single value holds both the kind and the id, so selecting in one
// collection always deselects the other two.
type Selection struct {
	Kind Kind `json:"kind"`
	ID   ID   `json:"id,omitempty"`
}

var NoSelection = Selection{}

func SelectLine(id ID) Selection { return Selection{Kind: KindLine, ID: id} }
func SelectArea(id ID) Selection { return Selection{Kind: KindArea, ID: id} }
func SelectText(id ID) Selection { return Selection{Kind: KindText, ID: id} }

func (s Selection) IsNone() bool { return s.Kind == KindNone }

// Is reports whether the selection holds an entity of the given kind.
func (s Selection) Is(kind Kind) bool { return kind != KindNone && s.Kind == kind }

// Line returns the selected line id, or "" when no line is selected.
func (s Selection) Line() ID { return s.idIf(KindLine) }
func (s Selection) Area() ID { return s.idIf(KindArea) }
func (s Selection) Text() ID { return s.idIf(KindText) }

func (s Selection) idIf(kind Kind) ID {
	if s.Kind != kind {
		return ""
	}
	return s.ID
}
