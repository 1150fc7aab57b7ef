package geom

import (
	"seehuhn.de/go/geom/vec"

	"PageMarkup/internal/state"
)

// LineDash returns the on/off pattern for a line of width w. Solid and
// wavy lines have no pattern; wavy lines are tessellated instead.
func LineDash(style state.LineStyle, w float64) []float64 {
	switch style {
	case state.LineDashed:
		return []float64{4 * w, 2 * w}
	case state.LineDotted:
		return []float64{w, 2 * w}
	case state.LineDotDash:
		return []float64{w, 1.5 * w, 4 * w, 1.5 * w}
	}
	return nil
}

// OutlineDash returns the on/off pattern for an area outline of width w.
func OutlineDash(style state.OutlineStyle, w float64) []float64 {
	switch style {
	case state.OutlineDashed:
		return []float64{4 * w, 2 * w}
	case state.OutlineCloud:
		return []float64{1.2 * w, 1.2 * w}
	case state.OutlineZigzag:
		return []float64{6 * w, 2 * w}
	}
	return nil
}

// SplitDashes cuts a polyline into the "on" pieces of a dash pattern. The
// pattern restarts at the first point and runs continuously across
// vertices. A nil or degenerate pattern returns the polyline unchanged.
func SplitDashes(line []vec.Vec2, pattern []float64) [][]vec.Vec2 {
	if len(line) < 2 || !validPattern(pattern) {
		return [][]vec.Vec2{line}
	}

	var res [][]vec.Vec2
	idx := 0
	left := pattern[0]
	on := true
	cur := []vec.Vec2{line[0]}

	for i := 1; i < len(line); i++ {
		a, b := line[i-1], line[i]
		segLen := b.Sub(a).Length()
		pos := 0.0
		for segLen-pos > left {
			pos += left
			p := a.Add(b.Sub(a).Mul(pos / segLen))
			if on {
				cur = append(cur, p)
				res = append(res, cur)
				cur = nil
			} else {
				cur = []vec.Vec2{p}
			}
			on = !on
			idx = (idx + 1) % len(pattern)
			left = pattern[idx]
		}
		left -= segLen - pos
		if on {
			cur = append(cur, b)
		}
	}
	if on && len(cur) > 1 {
		res = append(res, cur)
	}
	return res
}

func validPattern(pattern []float64) bool {
	if len(pattern) == 0 || len(pattern)%2 != 0 {
		return false
	}
	for _, x := range pattern {
		if x <= 0 {
			return false
		}
	}
	return true
}
