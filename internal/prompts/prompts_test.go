package prompts

import (
	"strings"
	"testing"
)

func TestRegistryBuildsEveryPrompt(t *testing.T) {
	r := NewRegistry()
	in := Input{
		ProjectTitle:      "P",
		PaperTitle:        "T",
		PaperAbstract:     "A",
		PapersContext:     "Paper 1: T",
		ResearchQuestion:  "Q?",
		HypothesisText:    "H",
		ExperimentContext: "E",
		CriteriaCSV:       "feasibility",
		AgentType:         "general",
		Message:           "hi",
	}
	names := r.Names()
	if len(names) != 7 {
		t.Fatalf("expected 7 prompts, got %d", len(names))
	}
	for _, name := range names {
		p, err := r.Build(name, in)
		if err != nil {
			t.Fatalf("Build(%s): %v", name, err)
		}
		if p.System == "" || p.User == "" {
			t.Fatalf("%s rendered empty", name)
		}
		if p.Format == FormatJSON {
			if p.Schema == nil || p.SchemaName == "" {
				t.Fatalf("%s missing schema", name)
			}
			assertStrict(t, string(name), p.Schema)
		}
	}
}

func assertStrict(t *testing.T, path string, schema map[string]any) {
	t.Helper()
	switch schema["type"] {
	case "object":
		if schema["additionalProperties"] != false {
			t.Fatalf("%s: additionalProperties must be false", path)
		}
		props := schema["properties"].(map[string]any)
		req := schema["required"].([]string)
		if len(req) != len(props) {
			t.Fatalf("%s: required %v does not cover properties", path, req)
		}
		for _, k := range req {
			child, ok := props[k].(map[string]any)
			if !ok {
				t.Fatalf("%s: required key %q not in properties", path, k)
			}
			assertStrict(t, path+"."+k, child)
		}
	case "array":
		assertStrict(t, path+"[]", schema["items"].(map[string]any))
	}
}

func TestBuildValidatesInput(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Build(PromptPaperSummary, Input{PaperTitle: "T"}); err == nil {
		t.Fatalf("expected abstract to be required")
	}
	if _, err := r.Build("nope", Input{}); err == nil {
		t.Fatalf("expected unknown prompt error")
	}
}

func TestChatPromptRendersContext(t *testing.T) {
	p, err := NewRegistry().Build(PromptChatReply, Input{
		ProjectTitle:  "Graphs",
		AgentType:     "retrieval",
		PapersContext: "Paper 1: GNNs",
		Message:       "find more",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.Format != FormatText || p.Schema != nil {
		t.Fatalf("chat prompt should be free text")
	}
	if !strings.Contains(p.System, `"Graphs"`) || !strings.Contains(p.System, "Paper 1: GNNs") {
		t.Fatalf("system prompt missing context: %s", p.System)
	}
	if !strings.Contains(p.User, "User: find more") {
		t.Fatalf("user prompt missing message: %s", p.User)
	}
}

func TestMakeTemplateRejectsMissingSchema(t *testing.T) {
	if _, err := MakeTemplate(Spec{Name: "x", Version: 1, SchemaName: "x"}); err == nil {
		t.Fatalf("expected error for json prompt without schema")
	}
	if _, err := MakeTemplate(Spec{Name: "x", Version: 1, Format: FormatText, System: "s", User: "u"}); err != nil {
		t.Fatalf("text prompt without schema should compile: %v", err)
	}
}
