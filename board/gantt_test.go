package board

import (
	"testing"
	"time"

	"todo-attack-api/tasklist"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 10, 15, 4, 5, 0, time.UTC)
}

func TestGanttWindowAndSpans(t *testing.T) {
	doc := "- [ ] no dates\n" +
		"- [ ] starts soon start:2025-06-12\n" +
		"- [ ] ranged start:2025-06-12 due:2025-06-20\n" +
		"- [ ] due only due:2025-06-15\n"
	chart := Gantt(tasklist.ParseDocument(doc), fixedNow())
	if chart.WindowStart != "2025-06-10" || chart.WindowDays != WindowDays {
		t.Fatalf("unexpected window: %#v", chart)
	}
	if len(chart.Bars) != 4 {
		t.Fatalf("expected 4 bars, got %d", len(chart.Bars))
	}
	expect := []struct{ start, end int }{
		{0, 1},  // today .. today+1
		{2, 3},  // start .. start+1
		{2, 10}, // explicit range
		{0, 5},  // today .. due
	}
	for i, want := range expect {
		bar := chart.Bars[i]
		if bar.StartDay != want.start || bar.EndDay != want.end {
			t.Fatalf("bar %d: got [%d,%d], want [%d,%d]", i, bar.StartDay, bar.EndDay, want.start, want.end)
		}
	}
}

func TestGanttClampsToWindowEdges(t *testing.T) {
	doc := "- [ ] ancient start:2020-01-01 due:2020-01-05\n" +
		"- [ ] far future start:2026-01-01 due:2026-02-01\n" +
		"- [ ] spans out both ways start:2025-05-01 due:2025-12-01\n"
	chart := Gantt(tasklist.ParseDocument(doc), fixedNow())
	expect := []struct{ start, end int }{
		{0, 0},
		{WindowDays - 1, WindowDays - 1},
		{0, WindowDays - 1},
	}
	for i, want := range expect {
		bar := chart.Bars[i]
		if bar.StartDay != want.start || bar.EndDay != want.end {
			t.Fatalf("bar %d: got [%d,%d], want [%d,%d]", i, bar.StartDay, bar.EndDay, want.start, want.end)
		}
	}
}

func TestGanttCalendarInvalidDateFallsBack(t *testing.T) {
	chart := Gantt(tasklist.ParseDocument("- [ ] weird due:2025-13-40\n"), fixedNow())
	if len(chart.Bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(chart.Bars))
	}
	// Unparseable due behaves like no due: today .. today+1.
	if chart.Bars[0].StartDay != 0 || chart.Bars[0].EndDay != 1 {
		t.Fatalf("unexpected span: %#v", chart.Bars[0])
	}
	// The raw token still rides along on the task record.
	if chart.Bars[0].Task.Due != "2025-13-40" {
		t.Fatalf("raw due token lost: %#v", chart.Bars[0].Task)
	}
}

func TestDayToDate(t *testing.T) {
	got, err := DayToDate("2025-06-10", 5, time.UTC)
	if err != nil {
		t.Fatalf("day to date: %v", err)
	}
	if got != "2025-06-15" {
		t.Fatalf("expected 2025-06-15, got %s", got)
	}
	if _, err := DayToDate("garbage", 5, time.UTC); err == nil {
		t.Fatalf("expected error for malformed window start")
	}
}
