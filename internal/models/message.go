package models

import "strings"

// Message is the structured form of a commit message.
// Optional text fields are absent when empty or whitespace-only.
type Message struct {
	Type         string `json:"type"`
	Scope        string `json:"scope,omitempty"`
	Subject      string `json:"subject"`
	Body         string `json:"body,omitempty"`
	Breaking     string `json:"breaking,omitempty"`
	IssuesClosed string `json:"issuesClosed,omitempty"`
}

func (m Message) HasScope() bool {
	return present(m.Scope)
}

func (m Message) HasBody() bool {
	return present(m.Body)
}

// IsBreaking reports whether the message declares a breaking change.
func (m Message) IsBreaking() bool {
	return present(m.Breaking)
}

func (m Message) HasIssues() bool {
	return present(m.IssuesClosed)
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}

// Commit is a message read from the repository history.
type Commit struct {
	Hash    string
	Message string
}
