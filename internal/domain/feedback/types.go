package feedback

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Verdict is the user's thumbs-up or thumbs-down on an answer.
type Verdict string

const (
	VerdictPositive Verdict = "positive"
	VerdictNegative Verdict = "negative"
)

// ParseVerdict accepts the verdict names plus the common up/down aliases.
func ParseVerdict(raw string) (Verdict, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "positive", "up", "thumbs_up", "yes", "helpful", "👍":
		return VerdictPositive, nil
	case "negative", "down", "thumbs_down", "no", "not_helpful", "👎":
		return VerdictNegative, nil
	case "":
		return "", fmt.Errorf("feedback cannot be empty")
	default:
		return "", fmt.Errorf("unsupported feedback %q", raw)
	}
}

// Entry is one row of the feedback log.
type Entry struct {
	ID              string    `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	Language        string    `json:"language"`
	Query           string    `json:"query"`
	ClosestQuestion string    `json:"closestQuestion"`
	Answer          string    `json:"answer"`
	Verdict         Verdict   `json:"feedback"`
}

// Log is an append-only store of feedback entries.
type Log interface {
	Append(ctx context.Context, entry Entry) error
	// Scan calls fn for every entry in insertion order and stops at the first error.
	Scan(ctx context.Context, fn func(Entry) error) error
}

// SubmitRequest is the payload of a feedback submission.
type SubmitRequest struct {
	Language        string `json:"language"`
	Query           string `json:"query"`
	ClosestQuestion string `json:"closestQuestion"`
	Answer          string `json:"answer"`
	Feedback        string `json:"feedback"`
}

// QueryCount is how often a query appears in the log.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// Summary aggregates the whole log.
type Summary struct {
	Total            int             `json:"total"`
	Positive         int             `json:"positive"`
	Negative         int             `json:"negative"`
	SatisfactionRate float64         `json:"satisfactionRate"`
	ByLanguage       map[string]int  `json:"byLanguage"`
	Breakdown        map[Verdict]int `json:"breakdown"`
	TopQueries       []QueryCount    `json:"topQueries"`
}
