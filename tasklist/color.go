package tasklist

import "todo-attack-api/domain"

// InheritedColor resolves the display color for a new heading created at
// beforeLineIndex (0-based) without an explicit color: the nearest prior
// heading line carrying one wins, else the fixed default. The scan never
// looks downward.
func InheritedColor(lines []string, beforeLineIndex int) string {
	if beforeLineIndex > len(lines) {
		beforeLineIndex = len(lines)
	}
	for i := beforeLineIndex - 1; i >= 0; i-- {
		if kind, h, _ := Classify(lines[i]); kind == LineHeading && h.Color != "" {
			return h.Color
		}
	}
	return domain.DefaultColor
}
