package state

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreOrderAndRemove(t *testing.T) {
	s := NewStore()
	for _, id := range []ID{"a", "b", "c"} {
		s.AddLine(&Line{ID: id})
	}
	require.True(t, s.Remove(KindLine, "b"))
	assert.False(t, s.Remove(KindLine, "b"))
	assert.False(t, s.Remove(KindArea, "a"))

	var ids []ID
	for _, l := range s.Lines() {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []ID{"a", "c"}, ids)
}

func TestStoreUpdateMissingIsNoop(t *testing.T) {
	s := NewStore()
	called := false
	assert.False(t, s.UpdateText("ghost", func(*TextBox) { called = true }))
	assert.False(t, called)
}

func TestStoreUpdateCannotChangeID(t *testing.T) {
	s := NewStore()
	s.AddArea(&Area{ID: "a", Points: []Point{{0, 0}, {1, 1}}})
	s.UpdateArea("a", func(a *Area) { a.ID = "b" })
	assert.True(t, s.Has(KindArea, "a"))
	assert.False(t, s.Has(KindArea, "b"))
}

func TestStoreSnapshotsAreCopies(t *testing.T) {
	s := NewStore()
	s.AddArea(&Area{ID: "a", Points: []Point{{0.1, 0.1}}})

	areas := s.Areas()
	areas[0].Points[0].X = 0.9

	got, ok := s.Area("a")
	require.True(t, ok)
	assert.Equal(t, 0.1, got.Points[0].X)
}

func TestStoreReset(t *testing.T) {
	s := NewStore()
	s.AddLine(&Line{ID: "l"})
	s.AddArea(&Area{ID: "a"})
	s.AddText(&TextBox{ID: "t"})
	require.Equal(t, 3, s.Len())

	s.Reset()
	assert.Equal(t, 0, s.Len())
}

func TestParseEnums(t *testing.T) {
	ls, err := ParseLineStyle(" Dot-Dash ")
	require.NoError(t, err)
	assert.Equal(t, LineDotDash, ls)

	_, err = ParseShapeKind("hexagon")
	assert.Error(t, err)

	c, err := ParseColor("F0a")
	require.NoError(t, err)
	assert.Equal(t, Color("#ff00aa"), c)

	_, err = ParseColor("#zzzzzz")
	assert.Error(t, err)
}

func TestEnumsAreStringers(t *testing.T) {
	for want, s := range map[string]fmt.Stringer{
		"wavy":      LineWavy,
		"circle":    ShapeCircle,
		"cloud":     OutlineCloud,
		"monospace": FontMonospace,
		"area":      KindArea,
	} {
		assert.Equal(t, want, s.String())
	}
}
