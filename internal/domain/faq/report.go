package faq

import (
	"fmt"
	"strings"
)

// RenderReport produces the plain-text download for an answer.
func RenderReport(resp Response) string {
	var b strings.Builder
	b.WriteString("Nyayasetu - Legal Guidance\n")
	b.WriteString(strings.Repeat("=", 26))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Question: %s\n", resp.Question)
	if resp.MatchedQuestion != "" {
		fmt.Fprintf(&b, "Matched question: %s\n", resp.MatchedQuestion)
	}
	fmt.Fprintf(&b, "Language: %s\n", resp.Language.Title())
	if resp.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", resp.Category)
	}
	b.WriteString("\nShort answer:\n")
	b.WriteString(resp.ShortAnswer)
	b.WriteString("\n")

	if len(resp.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for i, step := range resp.Steps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
	}
	if resp.StepsUnavailable > 0 {
		fmt.Fprintf(&b, "(%d more step(s) unavailable for this answer)\n", resp.StepsUnavailable)
	}
	b.WriteString("\nThis is general legal information, not legal advice. Consult a lawyer or legal aid for your case.\n")
	return b.String()
}
