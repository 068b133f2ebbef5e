package tasklist

import "regexp"

var (
	tagRe      = regexp.MustCompile(`\+([\w-]+)`)
	dueRe      = regexp.MustCompile(`due:(\d{4}-\d{2}-\d{2})`)
	startRe    = regexp.MustCompile(`start:(\d{4}-\d{2}-\d{2})`)
	priorityRe = regexp.MustCompile(`\(([abc])\)`)
)

// Tokens are the inline annotations carried by a task body. They are read-only
// derivations for display; the canonical value stays embedded in the line.
type Tokens struct {
	Tags     []string
	Due      string
	Start    string
	Priority string
}

// ExtractTokens scans a task body for inline annotations. Tags keep their
// order of appearance and are not deduplicated; only the first due:, start:
// and priority occurrence count. Dates are matched syntactically, with no
// calendar validity check.
func ExtractTokens(body string) Tokens {
	var tok Tokens
	for _, m := range tagRe.FindAllStringSubmatch(body, -1) {
		tok.Tags = append(tok.Tags, m[1])
	}
	if m := dueRe.FindStringSubmatch(body); m != nil {
		tok.Due = m[1]
	}
	if m := startRe.FindStringSubmatch(body); m != nil {
		tok.Start = m[1]
	}
	if m := priorityRe.FindStringSubmatch(body); m != nil {
		tok.Priority = m[1]
	}
	return tok
}
