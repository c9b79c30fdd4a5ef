package export

import (
	"time"

	types "github.com/yungbote/aura-backend/internal/domain"
)

// Options selects the sections of an export. The zero value exports only
// project metadata.
type Options struct {
	Papers      bool
	Summaries   bool
	Hypotheses  bool
	Experiments bool
	Chat        bool
}

func AllSections() Options {
	return Options{Papers: true, Summaries: true, Hypotheses: true, Experiments: true, Chat: true}
}

type Document struct {
	Project    ProjectEntry      `json:"project" yaml:"project"`
	ExportedAt time.Time         `json:"exported_at" yaml:"exported_at"`
	Papers     []PaperEntry      `json:"papers,omitempty" yaml:"papers,omitempty"`
	Hypotheses []HypothesisEntry `json:"hypotheses,omitempty" yaml:"hypotheses,omitempty"`
	ChatLog    []ChatEntry       `json:"chat_log,omitempty" yaml:"chat_log,omitempty"`
}

type ProjectEntry struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

type PaperEntry struct {
	ID            string        `json:"id" yaml:"id"`
	Title         string        `json:"title" yaml:"title"`
	Authors       []string      `json:"authors" yaml:"authors"`
	Abstract      string        `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	URL           string        `json:"url,omitempty" yaml:"url,omitempty"`
	PDFURL        string        `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`
	PublishedDate string        `json:"published_date,omitempty" yaml:"published_date,omitempty"`
	Source        string        `json:"source" yaml:"source"`
	ExternalID    string        `json:"external_id,omitempty" yaml:"external_id,omitempty"`
	Summary       *SummaryEntry `json:"summary,omitempty" yaml:"summary,omitempty"`
}

type SummaryEntry struct {
	Text        string   `json:"summary_text" yaml:"summary_text"`
	KeyFindings []string `json:"key_findings" yaml:"key_findings"`
}

type HypothesisEntry struct {
	ID                 string            `json:"id" yaml:"id"`
	ResearchQuestion   string            `json:"research_question" yaml:"research_question"`
	HypothesisText     string            `json:"hypothesis_text" yaml:"hypothesis_text"`
	Reasoning          string            `json:"reasoning" yaml:"reasoning"`
	ConfidenceScore    float64           `json:"confidence_score" yaml:"confidence_score"`
	SupportingEvidence map[string]string `json:"supporting_evidence" yaml:"supporting_evidence"`
	CreatedAt          time.Time         `json:"created_at" yaml:"created_at"`
	Experiments        []ExperimentEntry `json:"experiments,omitempty" yaml:"experiments,omitempty"`
}

type ExperimentEntry struct {
	ID                   string    `json:"id" yaml:"id"`
	Title                string    `json:"title" yaml:"title"`
	Methodology          string    `json:"methodology" yaml:"methodology"`
	IndependentVariables []string  `json:"independent_variables" yaml:"independent_variables"`
	DependentVariables   []string  `json:"dependent_variables" yaml:"dependent_variables"`
	Controls             string    `json:"controls" yaml:"controls"`
	ExpectedOutcomes     string    `json:"expected_outcomes" yaml:"expected_outcomes"`
	Limitations          string    `json:"limitations" yaml:"limitations"`
	CreatedAt            time.Time `json:"created_at" yaml:"created_at"`
}

type ChatEntry struct {
	Role      string    `json:"role" yaml:"role"`
	AgentType string    `json:"agent_type,omitempty" yaml:"agent_type,omitempty"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Build assembles an export document. Sections disabled in opts are left
// out; Summaries only apply to exported papers and Experiments to exported
// hypotheses.
func Build(project *types.Project, papers []*types.Paper, hypotheses []*types.Hypothesis, chat []*types.ChatMessage, opts Options, now time.Time) Document {
	doc := Document{
		Project: ProjectEntry{
			ID:          project.ID.String(),
			Title:       project.Title,
			Description: project.Description,
			CreatedAt:   project.CreatedAt.UTC(),
			UpdatedAt:   project.UpdatedAt.UTC(),
		},
		ExportedAt: now.UTC(),
	}

	if opts.Papers {
		doc.Papers = make([]PaperEntry, 0, len(papers))
		for _, p := range papers {
			e := PaperEntry{
				ID:         p.ID.String(),
				Title:      p.Title,
				Authors:    []string(p.Authors),
				Abstract:   p.Abstract,
				URL:        p.URL,
				PDFURL:     p.PDFURL,
				Source:     p.Source,
				ExternalID: p.ExternalID,
			}
			if e.Authors == nil {
				e.Authors = []string{}
			}
			if p.PublishedDate != nil {
				e.PublishedDate = p.PublishedDate.UTC().Format("2006-01-02")
			}
			if opts.Summaries && p.Summary != nil {
				kf := []string(p.Summary.KeyFindings)
				if kf == nil {
					kf = []string{}
				}
				e.Summary = &SummaryEntry{Text: p.Summary.SummaryText, KeyFindings: kf}
			}
			doc.Papers = append(doc.Papers, e)
		}
	}

	if opts.Hypotheses {
		doc.Hypotheses = make([]HypothesisEntry, 0, len(hypotheses))
		for _, h := range hypotheses {
			e := HypothesisEntry{
				ID:                 h.ID.String(),
				ResearchQuestion:   h.ResearchQuestion,
				HypothesisText:     h.HypothesisText,
				Reasoning:          h.Reasoning,
				ConfidenceScore:    h.ConfidenceScore,
				SupportingEvidence: map[string]string(h.SupportingEvidence.Data()),
				CreatedAt:          h.CreatedAt.UTC(),
			}
			if e.SupportingEvidence == nil {
				e.SupportingEvidence = map[string]string{}
			}
			if opts.Experiments {
				e.Experiments = make([]ExperimentEntry, 0, len(h.Experiments))
				for _, x := range h.Experiments {
					vars := x.Variables.Data()
					e.Experiments = append(e.Experiments, ExperimentEntry{
						ID:                   x.ID.String(),
						Title:                x.Title,
						Methodology:          x.Methodology,
						IndependentVariables: nonNil(vars.Independent),
						DependentVariables:   nonNil(vars.Dependent),
						Controls:             x.Controls,
						ExpectedOutcomes:     x.ExpectedOutcomes,
						Limitations:          x.Limitations,
						CreatedAt:            x.CreatedAt.UTC(),
					})
				}
			}
			doc.Hypotheses = append(doc.Hypotheses, e)
		}
	}

	if opts.Chat {
		doc.ChatLog = make([]ChatEntry, 0, len(chat))
		for _, m := range chat {
			e := ChatEntry{Role: m.Role, Content: m.Content, CreatedAt: m.CreatedAt.UTC()}
			if m.AgentType != nil {
				e.AgentType = *m.AgentType
			}
			doc.ChatLog = append(doc.ChatLog, e)
		}
	}
	return doc
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
