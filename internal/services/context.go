package services

import (
	"fmt"
	"strings"

	types "github.com/yungbote/aura-backend/internal/domain"
)

const (
	hypothesisPaperLimit = 20
	chatPaperLimit       = 10
	chatHypothesisLimit  = 5
	chatHistoryLimit     = 20
	abstractChars        = 1200
)

// papersContext renders papers as numbered "Paper N" blocks. The numbers are
// 1-based positions in papers and are how the model cites them back.
func papersContext(papers []*types.Paper) string {
	if len(papers) == 0 {
		return "(no papers in this project yet)"
	}
	var b strings.Builder
	for i, p := range papers {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Paper %d: %s", i+1, p.Title)
		if len(p.Authors) > 0 {
			fmt.Fprintf(&b, "\nAuthors: %s", strings.Join(p.Authors, ", "))
		}
		if p.PublishedDate != nil {
			fmt.Fprintf(&b, "\nPublished: %s", p.PublishedDate.Format("2006-01-02"))
		}
		if abs := truncateRunes(p.Abstract, abstractChars); abs != "" {
			fmt.Fprintf(&b, "\nAbstract: %s", abs)
		}
		if p.Summary != nil && p.Summary.SummaryText != "" {
			fmt.Fprintf(&b, "\nSummary: %s", p.Summary.SummaryText)
			if len(p.Summary.KeyFindings) > 0 {
				fmt.Fprintf(&b, "\nKey findings: %s", strings.Join(p.Summary.KeyFindings, "; "))
			}
		}
	}
	return b.String()
}

func hypothesesContext(hs []*types.Hypothesis) string {
	if len(hs) == 0 {
		return "(no hypotheses yet)"
	}
	var b strings.Builder
	for i, h := range hs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s (confidence %.2f)", h.HypothesisText, h.ConfidenceScore)
	}
	return b.String()
}

func chatHistory(msgs []*types.ChatMessage) string {
	if len(msgs) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		switch m.Role {
		case types.RoleUser:
			b.WriteString("User: ")
		case types.RoleAgent:
			b.WriteString("Assistant: ")
		default:
			b.WriteString("System: ")
		}
		b.WriteString(m.Content)
	}
	return b.String()
}

func experimentContext(h *types.Hypothesis, e *types.Experiment) string {
	v := e.Variables.Data()
	var b strings.Builder
	fmt.Fprintf(&b, "Hypothesis: %s\n\n", h.HypothesisText)
	fmt.Fprintf(&b, "Experiment: %s\n", e.Title)
	fmt.Fprintf(&b, "Methodology: %s\n", e.Methodology)
	fmt.Fprintf(&b, "Independent variables: %s\n", strings.Join(v.Independent, ", "))
	fmt.Fprintf(&b, "Dependent variables: %s\n", strings.Join(v.Dependent, ", "))
	fmt.Fprintf(&b, "Controls: %s\n", e.Controls)
	fmt.Fprintf(&b, "Expected outcomes: %s\n", e.ExpectedOutcomes)
	fmt.Fprintf(&b, "Limitations: %s", e.Limitations)
	return b.String()
}

func truncateRunes(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
