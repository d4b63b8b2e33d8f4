package analyzer

import "strings"

// Markers are the literal substrings the comment-based rules look for
type Markers struct {
	Comment   string
	TODO      string
	Ignore    string
	Console   string
	Necessary string
}

// splitLines splits content into lines without terminators. A trailing
// newline does not produce an empty final line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// CountLines returns the number of lines in content
func CountLines(content string) int {
	return len(splitLines(content))
}

func isCommentLine(trimmed, marker string) bool {
	return marker != "" && strings.HasPrefix(trimmed, marker)
}
