package export

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	types "github.com/yungbote/aura-backend/internal/domain"
)

func fixture() (*types.Project, []*types.Paper, []*types.Hypothesis, []*types.ChatMessage) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	pub := time.Date(2023, 5, 4, 0, 0, 0, 0, time.UTC)
	project := &types.Project{ID: uuid.New(), Title: "Graph learning", Description: "GNN survey", CreatedAt: ts, UpdatedAt: ts}
	paper := &types.Paper{
		ID:            uuid.New(),
		ProjectID:     project.ID,
		Title:         "GNNs for molecules",
		Authors:       datatypes.JSONSlice[string]{"Ada", "Alan"},
		Abstract:      "We study GNNs.",
		URL:           "https://arxiv.org/abs/1",
		PublishedDate: &pub,
		Source:        types.SourceArxiv,
		ExternalID:    "1",
		Summary:       &types.Summary{SummaryText: "Short.", KeyFindings: datatypes.JSONSlice[string]{"f1"}},
	}
	hyp := &types.Hypothesis{
		ID:                 uuid.New(),
		ProjectID:          project.ID,
		ResearchQuestion:   "Do GNNs help?",
		HypothesisText:     "GNNs help",
		ConfidenceScore:    0.8,
		SupportingEvidence: datatypes.NewJSONType(types.Evidence{paper.ID.String(): "quote"}),
		CreatedAt:          ts,
		Experiments: []*types.Experiment{{
			ID:        uuid.New(),
			Title:     "Benchmark",
			Variables: datatypes.NewJSONType(types.Variables{Independent: []string{"model"}, Dependent: []string{"accuracy"}}),
			CreatedAt: ts,
		}},
	}
	agent := types.AgentGeneral
	chat := []*types.ChatMessage{
		{Role: types.RoleUser, Content: "hello", CreatedAt: ts},
		{Role: types.RoleAgent, Content: "hi", AgentType: &agent, CreatedAt: ts},
	}
	return project, []*types.Paper{paper}, []*types.Hypothesis{hyp}, chat
}

func TestBuildAllSections(t *testing.T) {
	p, papers, hyps, chat := fixture()
	doc := Build(p, papers, hyps, chat, AllSections(), time.Now())
	if len(doc.Papers) != 1 || doc.Papers[0].Summary == nil || doc.Papers[0].PublishedDate != "2023-05-04" {
		t.Fatalf("papers: %+v", doc.Papers)
	}
	if len(doc.Hypotheses) != 1 || len(doc.Hypotheses[0].Experiments) != 1 {
		t.Fatalf("hypotheses: %+v", doc.Hypotheses)
	}
	if len(doc.ChatLog) != 2 || doc.ChatLog[1].AgentType != "general" {
		t.Fatalf("chat: %+v", doc.ChatLog)
	}
}

func TestBuildRespectsFlags(t *testing.T) {
	p, papers, hyps, chat := fixture()
	doc := Build(p, papers, hyps, chat, Options{Papers: true, Hypotheses: true}, time.Now())
	if doc.Papers[0].Summary != nil {
		t.Fatalf("summaries should be excluded")
	}
	if doc.Hypotheses[0].Experiments != nil {
		t.Fatalf("experiments should be excluded")
	}
	if doc.ChatLog != nil {
		t.Fatalf("chat should be excluded")
	}
}

func TestMinimalDocumentEveryFormat(t *testing.T) {
	p, papers, hyps, chat := fixture()
	doc := Build(p, papers, hyps, chat, Options{}, time.Now())
	for _, f := range []Format{FormatJSON, FormatYAML, FormatMarkdown} {
		out, err := Render(doc, f)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		s := string(out)
		if !strings.Contains(s, "Graph learning") {
			t.Fatalf("%s: project title missing:\n%s", f, s)
		}
		if strings.Contains(s, "GNNs for molecules") || strings.Contains(s, "hello") {
			t.Fatalf("%s: minimal document leaked sections:\n%s", f, s)
		}
	}

	raw, _ := Render(doc, FormatJSON)
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("json: %v", err)
	}
	for _, k := range []string{"papers", "hypotheses", "chat_log"} {
		if _, ok := m[k]; ok {
			t.Fatalf("minimal json should omit %q", k)
		}
	}
}

func TestYAMLDecodes(t *testing.T) {
	p, papers, hyps, chat := fixture()
	out, err := Render(Build(p, papers, hyps, chat, AllSections(), time.Now()), FormatYAML)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	var back struct {
		Project struct {
			Title string `yaml:"title"`
		} `yaml:"project"`
		Papers []struct {
			Authors []string `yaml:"authors"`
			Summary struct {
				KeyFindings []string `yaml:"key_findings"`
			} `yaml:"summary"`
		} `yaml:"papers"`
		Hypotheses []struct {
			ConfidenceScore float64 `yaml:"confidence_score"`
		} `yaml:"hypotheses"`
	}
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("yaml.Unmarshal: %v\n%s", err, out)
	}
	if back.Project.Title != "Graph learning" || len(back.Papers) != 1 || back.Papers[0].Authors[1] != "Alan" {
		t.Fatalf("unexpected yaml: %+v", back)
	}
	if back.Papers[0].Summary.KeyFindings[0] != "f1" || back.Hypotheses[0].ConfidenceScore != 0.8 {
		t.Fatalf("unexpected yaml: %+v", back)
	}
}

func TestMarkdownSections(t *testing.T) {
	p, papers, hyps, chat := fixture()
	md := Markdown(Build(p, papers, hyps, chat, AllSections(), time.Now()))
	for _, want := range []string{
		"# Graph learning",
		"## Papers",
		"### 1. GNNs for molecules",
		"**Authors:** Ada, Alan",
		"**Key findings:**",
		"## Hypotheses",
		"**Confidence score:** 0.80",
		"#### Experiment: Benchmark",
		"- accuracy",
		"## Chat log",
		"**agent (general)**",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatJSON, "JSON": FormatJSON, "yml": FormatYAML, "md": FormatMarkdown, "markdown": FormatMarkdown}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("pdf"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}
