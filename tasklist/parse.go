package tasklist

import "todo-attack-api/domain"

// ParseDocument scans the whole document once and returns its tasks in order.
// Two trackers carry fold-state across the pass: the nearest preceding heading
// title and the nearest explicit heading color. A heading without a color
// updates only the title tracker, so colors inherit across colorless headings.
//
// Any line that is neither a heading nor a task leaves both trackers alone.
// Re-parsing after every mutation is the intended usage; the cost is O(lines)
// per event and the returned records hold no references into the text.
func ParseDocument(text string) []domain.Task {
	var (
		tasks       []domain.Task
		lastHeading string
		lastColor   = domain.DefaultColor
	)
	for i, line := range SplitLines(text) {
		switch kind, h, t := Classify(line); kind {
		case LineHeading:
			lastHeading = h.Title
			if h.Color != "" {
				lastColor = h.Color
			}
		case LineTask:
			tok := ExtractTokens(t.Body)
			tasks = append(tasks, domain.Task{
				LineNumber: i + 1,
				Status:     t.Status,
				Text:       t.Body,
				Heading:    lastHeading,
				Color:      lastColor,
				Tags:       tok.Tags,
				Due:        tok.Due,
				Start:      tok.Start,
				Priority:   tok.Priority,
			})
		}
	}
	return tasks
}
