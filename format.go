package lepton

import (
	"fmt"
	"strings"
)

// FormatSearchResult renders a result for terminal display. Absent
// optional fields are omitted rather than printed as placeholders.
func FormatSearchResult(result *SearchResult) string {
	if result == nil {
		return ""
	}

	var sb strings.Builder

	sb.WriteString("Response:\n")
	sb.WriteString(result.Response)
	sb.WriteString("\n")

	if len(result.Contexts) > 0 {
		sb.WriteString("Contexts:\n")
		for _, ctx := range result.Contexts {
			sb.WriteString(fmt.Sprintf("Context Name: %s\n", ctx.Name))
			sb.WriteString(fmt.Sprintf("    ID: %s\n", ctx.ID))
			sb.WriteString(fmt.Sprintf("    URL: %s\n", ctx.URL))
			if ctx.DatePublished != nil {
				sb.WriteString(fmt.Sprintf("    Published: %s\n", ctx.DatePublished.Format("2006-01-02")))
			}
			sb.WriteString(fmt.Sprintf("    Family Friendly: %t\n", ctx.IsFamilyFriendly))
			sb.WriteString(fmt.Sprintf("    Snippet: %s\n\n", ctx.Snippet))
		}
	}

	if len(result.RelatedQuestions) > 0 {
		sb.WriteString("Related Questions:\n")
		for i, question := range result.RelatedQuestions {
			sb.WriteString(fmt.Sprintf("Question %d: %s\n", i+1, question))
		}
	}

	return sb.String()
}
