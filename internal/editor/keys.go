package editor

// KeyDown handles a key press and reports whether it was consumed. While a
// text box is being edited, Backspace and Delete edit its text and never
// delete annotations.
func (e *Editor) KeyDown(k Key) bool {
	m := e.markup
	if m.Editing() != "" {
		switch k {
		case KeyBackspace:
			m.EraseRune()
			return true
		case KeyDelete:
			return true
		case KeyEscape:
			m.EndTextEdit()
			return true
		}
		return false
	}
	switch k {
	case KeyDelete, KeyBackspace:
		return e.Delete()
	}
	return false
}

// TypeRune appends r to the text box being edited.
func (e *Editor) TypeRune(r rune) bool {
	return e.markup.TypeRune(r)
}

// Editing reports whether a text box is in edit mode.
func (e *Editor) Editing() bool {
	return e.markup.Editing() != ""
}
