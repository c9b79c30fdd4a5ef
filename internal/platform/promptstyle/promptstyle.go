package promptstyle

import "strings"

const marker = "AURA_PROMPT_STYLE_V1"

// ApplySystem prepends a short guidance block to system prompts. mode is
// "json" for schema-constrained output, anything else for free text.
func ApplySystem(system string, mode string) string {
	base := strings.TrimSpace(system)
	if base == "" || strings.Contains(base, marker) {
		return base
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nYou are AURA, a careful research assistant.")
	b.WriteString("\nGround every claim in the papers and context you are given.")
	b.WriteString("\nDo not invent papers, authors, results or citations.")
	if strings.EqualFold(strings.TrimSpace(mode), "json") {
		b.WriteString("\nReturn a single JSON object that conforms to the schema and contains no extra keys.")
	} else {
		b.WriteString("\nBe concise and structured when helpful.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return b.String()
}
