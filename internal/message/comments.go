package message

import "strings"

// CommentLines returns the lines of text that git treats as comments.
func CommentLines(text string) []string {
	var comments []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, commentPrefix) {
			comments = append(comments, line)
		}
	}
	return comments
}

// StripComments removes comment lines from text.
func StripComments(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !strings.HasPrefix(line, commentPrefix) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
