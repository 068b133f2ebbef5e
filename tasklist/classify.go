// Package tasklist implements the task-list text dialect: line classification,
// inline token extraction, document parsing with heading inheritance, and
// minimal-diff line patching. Everything operates on plain strings; the
// document text is the only source of truth and all functions are pure.
package tasklist

import (
	"regexp"
	"strings"

	"todo-attack-api/domain"
)

var (
	// 1-3 leading hashes, required whitespace, title, optional trailing
	// #RRGGBB. A run of 4+ hashes falls through to an opaque line.
	headingRe = regexp.MustCompile(`^(#{1,3})[ \t]+(.+?)(?:[ \t]+#([0-9A-Fa-f]{6}))?[ \t]*$`)

	// Optional indentation, one bullet, whitespace, bracketed status char,
	// optional body. Indentation is cosmetic only.
	taskRe = regexp.MustCompile(`^[ \t]*[-*+][ \t]+\[([ /x])\][ \t]?(.*)$`)
)

// LineKind discriminates the result of Classify.
type LineKind int

const (
	LineOther LineKind = iota
	LineHeading
	LineTask
)

// HeadingMatch is a recognized heading line.
type HeadingMatch struct {
	Level int
	Title string
	Color string // "#RRGGBB" uppercased, or "" when absent
}

// TaskMatch is a recognized task line.
type TaskMatch struct {
	Status domain.Status
	Body   string
	// statusIndex is the byte offset of the bracket character, used by the
	// patchers to rewrite exactly one byte.
	statusIndex int
}

// Classify decides what a single line is. Lines matching neither grammar are
// opaque text the rest of the system must never alter.
func Classify(line string) (LineKind, HeadingMatch, TaskMatch) {
	if m := headingRe.FindStringSubmatch(line); m != nil {
		h := HeadingMatch{Level: len(m[1]), Title: m[2]}
		if m[3] != "" {
			h.Color = "#" + strings.ToUpper(m[3])
		}
		return LineHeading, h, TaskMatch{}
	}
	if idx := taskRe.FindStringSubmatchIndex(line); idx != nil {
		t := TaskMatch{
			Status:      domain.StatusFromChar(line[idx[2]]),
			Body:        line[idx[4]:idx[5]],
			statusIndex: idx[2],
		}
		return LineTask, HeadingMatch{}, t
	}
	return LineOther, HeadingMatch{}, TaskMatch{}
}

// IsTaskLine reports whether the line matches the checkbox grammar.
func IsTaskLine(line string) bool {
	return taskRe.MatchString(line)
}

// IsHeadingLine reports whether the line matches the heading grammar.
func IsHeadingLine(line string) bool {
	return headingRe.MatchString(line)
}

// SplitLines splits document text on newlines without discarding anything;
// JoinLines inverts it byte-for-byte.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// JoinLines reassembles a document from its lines.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
