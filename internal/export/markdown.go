package export

import (
	"fmt"
	"sort"
	"strings"
)

// Markdown renders doc as a human-readable report.
func Markdown(doc Document) string {
	var b strings.Builder
	p := doc.Project
	fmt.Fprintf(&b, "# %s\n\n", oneLine(p.Title))
	if strings.TrimSpace(p.Description) != "" {
		fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(p.Description))
	}
	fmt.Fprintf(&b, "Created: %s\n\n", p.CreatedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "Last updated: %s\n\n", p.UpdatedAt.Format("2006-01-02 15:04 MST"))

	if doc.Papers != nil {
		b.WriteString("## Papers\n\n")
		if len(doc.Papers) == 0 {
			b.WriteString("_No papers._\n\n")
		}
		for i, paper := range doc.Papers {
			fmt.Fprintf(&b, "### %d. %s\n\n", i+1, oneLine(paper.Title))
			if len(paper.Authors) > 0 {
				fmt.Fprintf(&b, "**Authors:** %s\n\n", strings.Join(paper.Authors, ", "))
			}
			if paper.PublishedDate != "" {
				fmt.Fprintf(&b, "**Published:** %s\n\n", paper.PublishedDate)
			}
			fmt.Fprintf(&b, "**Source:** %s", paper.Source)
			if paper.ExternalID != "" {
				fmt.Fprintf(&b, " (%s)", paper.ExternalID)
			}
			b.WriteString("\n\n")
			if paper.URL != "" {
				fmt.Fprintf(&b, "**URL:** [%s](%s)\n\n", paper.URL, paper.URL)
			}
			if paper.Abstract != "" {
				fmt.Fprintf(&b, "**Abstract:** %s\n\n", paper.Abstract)
			}
			if paper.Summary != nil {
				fmt.Fprintf(&b, "**Summary:** %s\n\n", paper.Summary.Text)
				if len(paper.Summary.KeyFindings) > 0 {
					b.WriteString("**Key findings:**\n\n")
					writeList(&b, paper.Summary.KeyFindings)
				}
			}
			b.WriteString("---\n\n")
		}
	}

	if doc.Hypotheses != nil {
		b.WriteString("## Hypotheses\n\n")
		if len(doc.Hypotheses) == 0 {
			b.WriteString("_No hypotheses._\n\n")
		}
		for i, h := range doc.Hypotheses {
			fmt.Fprintf(&b, "### Hypothesis %d\n\n", i+1)
			fmt.Fprintf(&b, "**Research question:** %s\n\n", h.ResearchQuestion)
			fmt.Fprintf(&b, "**Hypothesis:** %s\n\n", h.HypothesisText)
			if h.Reasoning != "" {
				fmt.Fprintf(&b, "**Reasoning:** %s\n\n", h.Reasoning)
			}
			fmt.Fprintf(&b, "**Confidence score:** %.2f\n\n", h.ConfidenceScore)
			if len(h.SupportingEvidence) > 0 {
				b.WriteString("**Supporting evidence:**\n\n")
				keys := make([]string, 0, len(h.SupportingEvidence))
				for k := range h.SupportingEvidence {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(&b, "- `%s`: %s\n", k, oneLine(h.SupportingEvidence[k]))
				}
				b.WriteString("\n")
			}
			for _, x := range h.Experiments {
				fmt.Fprintf(&b, "#### Experiment: %s\n\n", oneLine(x.Title))
				if x.Methodology != "" {
					fmt.Fprintf(&b, "**Methodology:**\n\n%s\n\n", x.Methodology)
				}
				if len(x.IndependentVariables) > 0 {
					b.WriteString("Independent variables:\n")
					writeList(&b, x.IndependentVariables)
				}
				if len(x.DependentVariables) > 0 {
					b.WriteString("Dependent variables:\n")
					writeList(&b, x.DependentVariables)
				}
				if x.Controls != "" {
					fmt.Fprintf(&b, "**Controls:**\n\n%s\n\n", x.Controls)
				}
				if x.ExpectedOutcomes != "" {
					fmt.Fprintf(&b, "**Expected outcomes:**\n\n%s\n\n", x.ExpectedOutcomes)
				}
				if x.Limitations != "" {
					fmt.Fprintf(&b, "**Limitations:**\n\n%s\n\n", x.Limitations)
				}
			}
		}
	}

	if doc.ChatLog != nil {
		b.WriteString("## Chat log\n\n")
		if len(doc.ChatLog) == 0 {
			b.WriteString("_No messages._\n\n")
		}
		for _, m := range doc.ChatLog {
			who := m.Role
			if m.AgentType != "" {
				who += " (" + m.AgentType + ")"
			}
			fmt.Fprintf(&b, "**%s** _%s_\n\n%s\n\n", who, m.CreatedAt.Format("2006-01-02 15:04"), m.Content)
		}
	}
	return b.String()
}

func writeList(b *strings.Builder, items []string) {
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", oneLine(it))
	}
	b.WriteString("\n")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
