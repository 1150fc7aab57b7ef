package editor

import (
	"fmt"
	"strings"
)

// Tool decides how pointer input is interpreted.
type Tool int

const (
	ToolHand Tool = iota
	ToolSelect
	ToolLine
	ToolArea
	ToolText
)

var toolNames = map[Tool]string{
	ToolHand:   "hand",
	ToolSelect: "select",
	ToolLine:   "line",
	ToolArea:   "area",
	ToolText:   "text",
}

func (t Tool) String() string {
	if s, ok := toolNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

func ParseTool(s string) (Tool, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range toolNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}

// Tools lists all tools in toolbar order.
func Tools() []Tool {
	return []Tool{ToolHand, ToolSelect, ToolLine, ToolArea, ToolText}
}

// Key is a keyboard key the editor reacts to.
type Key string

const (
	KeyDelete    Key = "Delete"
	KeyBackspace Key = "BackSpace"
	KeyEscape    Key = "Escape"
)
