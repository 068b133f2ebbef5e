package board

import (
	"math"
	"time"

	"todo-attack-api/domain"
	"todo-attack-api/tasklist"
)

// WindowDays is the fixed width of the Gantt projection.
const WindowDays = 30

const dateLayout = "2006-01-02"

// Bar is one task rendered as a horizontal span of whole days inside the
// window. StartDay and EndDay are inclusive day indexes in [0, WindowDays-1];
// bars are clamped to the window edges, never hidden.
type Bar struct {
	Task     domain.Task `json:"task"`
	StartDay int         `json:"startDay"`
	EndDay   int         `json:"endDay"`
}

// GanttChart is the date-windowed projection.
type GanttChart struct {
	WindowStart string `json:"windowStart"`
	WindowDays  int    `json:"windowDays"`
	Bars        []Bar  `json:"bars"`
}

// Gantt projects tasks onto a 30-day window opening at local midnight of now.
// A task's span is [start ?? today, due ?? start+1 day]. Dates that fail
// calendar parsing are treated as absent even though the extractor accepted
// them syntactically.
func Gantt(tasks []domain.Task, now time.Time) GanttChart {
	windowStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	chart := GanttChart{
		WindowStart: windowStart.Format(dateLayout),
		WindowDays:  WindowDays,
		Bars:        []Bar{},
	}
	for _, t := range tasks {
		start, ok := parseDay(t.Start, now.Location())
		if !ok {
			start = windowStart
		}
		due, ok := parseDay(t.Due, now.Location())
		if !ok {
			due = start.AddDate(0, 0, 1)
		}
		chart.Bars = append(chart.Bars, Bar{
			Task:     t,
			StartDay: clampDay(dayIndex(windowStart, start)),
			EndDay:   clampDay(dayIndex(windowStart, due)),
		})
	}
	return chart
}

// DayToDate converts a snapped day index back to a calendar date relative to
// the chart's window start, used when translating a bar drag into dates.
func DayToDate(windowStart string, day int, loc *time.Location) (string, error) {
	ws, err := time.ParseInLocation(dateLayout, windowStart, loc)
	if err != nil {
		return "", err
	}
	return ws.AddDate(0, 0, clampDay(day)).Format(dateLayout), nil
}

func parseDay(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func dayIndex(windowStart, d time.Time) int {
	// Round instead of truncating so a DST hour cannot shift a whole day.
	return int(math.Round(d.Sub(windowStart).Hours() / 24))
}

func clampDay(day int) int {
	if day < 0 {
		return 0
	}
	if day > WindowDays-1 {
		return WindowDays - 1
	}
	return day
}

// applyDateResize writes the dragged bar's snapped dates back onto its source
// line, one dated-field patch each for start and due.
func applyDateResize(lines []string, ev domain.DateResize) ([]string, error) {
	if ev.Line < 1 || ev.Line > len(lines) {
		return nil, &LineRangeError{Line: ev.Line, Max: len(lines)}
	}
	line := lines[ev.Line-1]
	if ev.Start != "" {
		line = tasklist.SetDatedField(line, "start", ev.Start)
	}
	if ev.Due != "" {
		line = tasklist.SetDatedField(line, "due", ev.Due)
	}
	lines[ev.Line-1] = line
	return lines, nil
}
