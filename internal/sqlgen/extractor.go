package sqlgen

import (
	"regexp"
	"strings"
)

// The extractor is an ordered chain of pure string transforms over the raw
// completion: strip fences, strip boilerplate labels, truncate to the first
// statement, validate the SELECT prefix, and finally search for an embedded
// SELECT...FROM as a last resort. Each rule is independently testable.
// Only SELECT is ever accepted; identifier validity is the executor's
// problem.
var (
	fenceRe = regexp.MustCompile("(?i)```(?:sql)?")

	// A leading label like "SQL Query:" or "Here is the query:" is replaced,
	// together with any SELECT token immediately following it, by a single
	// "SELECT " so the statement body survives intact.
	labelRe = regexp.MustCompile(`(?i)^\s*(?:sql query:|query:|here.*?:)\s*(?:select\b)?\s*`)

	selectPrefixRe = regexp.MustCompile(`(?i)^select\b`)

	// Fallback: the first SELECT ... FROM <identifier> ... up to a separator
	// or line break. The head may span lines; the tail stops at the first
	// terminator.
	selectSearchRe = regexp.MustCompile(`(?is)(select\s+.*?from\s+\w+.*?)(?:;|\n|$)`)
)

// Extract parses a raw completion into exactly one executable SELECT
// statement. The second return value is false when no statement could be
// recovered, which is terminal for the question.
func Extract(raw string) (string, bool) {
	text := stripFences(raw)
	text = delabel(strings.TrimSpace(text))
	text = firstStatement(text)

	if selectPrefixRe.MatchString(text) {
		return text, true
	}

	if m := selectSearchRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), true
	}

	return "", false
}

// stripFences removes fenced code-block delimiters, with or without a
// language tag.
func stripFences(text string) string {
	return fenceRe.ReplaceAllString(text, "")
}

// delabel replaces a leading boilerplate label with the literal SELECT token
func delabel(text string) string {
	if labelRe.MatchString(text) {
		return labelRe.ReplaceAllString(text, "SELECT ")
	}

	return text
}

// firstStatement truncates at the first statement separator; only the first
// statement is ever considered.
func firstStatement(text string) string {
	head, _, _ := strings.Cut(text, ";")
	return strings.TrimSpace(head)
}
