package tasklist

import (
	"regexp"
	"strings"

	"todo-attack-api/domain"
)

// The patchers are total over arbitrary input: when the expected pattern is
// absent they fall back to a documented default construction instead of
// failing, and they only ever touch the minimal relevant substring.

var indentRe = regexp.MustCompile(`^[ \t]*`)

// ToggleStatus cycles the bracket character ' ' -> '/' -> 'x' -> ' ' on a task
// line. Any other line is converted into a new pending task: indentation is
// kept, `- [ ] ` is prefixed, and the prior content (minus a leading bare
// dash) becomes the body.
func ToggleStatus(line string) string {
	idx := taskRe.FindStringSubmatchIndex(line)
	if idx == nil {
		return convertToTask(line, domain.StatusPending)
	}
	var next byte
	switch line[idx[2]] {
	case ' ':
		next = '/'
	case '/':
		next = 'x'
	default:
		next = ' '
	}
	return line[:idx[2]] + string(next) + line[idx[2]+1:]
}

// SetStatus writes the bracket character for the given status directly, the
// board-drop flavor of ToggleStatus. Setting the status a line already has is
// a byte-identical no-op. Non-task lines get the conversion fallback.
func SetStatus(line string, status domain.Status) string {
	idx := taskRe.FindStringSubmatchIndex(line)
	if idx == nil {
		return convertToTask(line, status)
	}
	c := status.Char()
	if line[idx[2]] == c {
		return line
	}
	return line[:idx[2]] + string(c) + line[idx[2]+1:]
}

func convertToTask(line string, status domain.Status) string {
	indent := indentRe.FindString(line)
	body := line[len(indent):]
	if body == "-" {
		body = ""
	} else if rest, ok := strings.CutPrefix(body, "- "); ok {
		body = rest
	}
	return indent + "- [" + string(status.Char()) + "] " + body
}

// SetDatedField replaces the date of an existing `field:YYYY-MM-DD` token in
// place, or appends ` field:date` at end of line. The separating space is
// only inserted when the line does not already end in whitespace.
func SetDatedField(line, field, date string) string {
	re := regexp.MustCompile(regexp.QuoteMeta(field) + `:\d{4}-\d{2}-\d{2}`)
	if loc := re.FindStringIndex(line); loc != nil {
		return line[:loc[0]] + field + ":" + date + line[loc[1]:]
	}
	return line + fieldSeparator(line) + field + ":" + date
}

// AppendTag appends a `+tag` token at end of line, reusing the dated-field
// separator rule.
func AppendTag(line, tag string) string {
	return line + fieldSeparator(line) + "+" + tag
}

func fieldSeparator(line string) string {
	if line == "" || strings.HasSuffix(line, " ") || strings.HasSuffix(line, "\t") {
		return ""
	}
	return " "
}

// InsertTaskLine inserts a new pending task at the end of the section opened
// by the heading at headingLine (1-based): immediately before the next heading
// of equal or shallower level, or at end of document when none follows. When
// headingLine does not point at a heading the task is appended at the end.
// It returns the new line slice and the 1-based number of the inserted line.
func InsertTaskLine(lines []string, headingLine int, body, start, due string) ([]string, int) {
	newLine := "- [ ] " + body
	if start != "" {
		newLine += " start:" + start
	}
	if due != "" {
		newLine += " due:" + due
	}

	at := len(lines)
	if headingLine >= 1 && headingLine <= len(lines) {
		if kind, h, _ := Classify(lines[headingLine-1]); kind == LineHeading {
			at = len(lines)
			for i := headingLine; i < len(lines); i++ {
				if kind, next, _ := Classify(lines[i]); kind == LineHeading && next.Level <= h.Level {
					at = i
					break
				}
			}
		}
	}

	// A document ending in a newline splits into a final empty element;
	// insert before it so the trailing newline stays last.
	if at == len(lines) && at > 0 && lines[at-1] == "" {
		at--
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:at]...)
	out = append(out, newLine)
	out = append(out, lines[at:]...)
	return out, at + 1
}
